package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"campus-incidents/internal/config"

	"github.com/avast/retry-go"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	ExchangeName           = "campus.incidents"
	RoutingKeyStatusUpdate = "report.status.updated"

	reconnectDelay = 5 * time.Second
	publishTimeout = 5 * time.Second
)

type StatusUpdateMessage struct {
	ReportID   string `json:"report_id"`
	Collection string `json:"collection"`
	OldStatus  string `json:"old_status"`
	NewStatus  string `json:"new_status"`
	ReporterID string `json:"reporter_id,omitempty"`
	ActorID    string `json:"actor_id,omitempty"`
	Timestamp  int64  `json:"timestamp"`
}

// Publisher fans status changes out to downstream notifiers
type Publisher interface {
	PublishStatusUpdate(ctx context.Context, msg StatusUpdateMessage) error
}

// NewPublisher connects to RabbitMQ when AMQP_URL is set and logs-only otherwise
func NewPublisher(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) Publisher {
	if cfg.AMQPURL == "" {
		logger.Info("AMQP_URL not set, status events will not be published")
		return &nopPublisher{logger: logger}
	}

	rmq := &RabbitMQ{url: cfg.AMQPURL, logger: logger, done: make(chan struct{})}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// A broker outage must not keep the dashboard down
			if err := rmq.connectWithRetry(); err != nil {
				logger.Error("RabbitMQ unavailable, continuing without it", zap.Error(err))
			}
			go rmq.handleReconnect()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			rmq.Close()
			return nil
		},
	})
	return rmq
}

type nopPublisher struct {
	logger *zap.Logger
}

func (p *nopPublisher) PublishStatusUpdate(ctx context.Context, msg StatusUpdateMessage) error {
	p.logger.Debug("Status update not published", zap.String("report_id", msg.ReportID), zap.String("status", msg.NewStatus))
	return nil
}

type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	url     string
	logger  *zap.Logger
	mu      sync.RWMutex
	done    chan struct{}
	once    sync.Once
}

func (r *RabbitMQ) connectWithRetry() error {
	return retry.Do(
		func() error {
			r.mu.Lock()
			defer r.mu.Unlock()
			return r.connect()
		},
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			r.logger.Warn("Retrying RabbitMQ connection", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
}

func (r *RabbitMQ) connect() error {
	conn, err := amqp.Dial(r.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		ExchangeName,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	r.conn = conn
	r.channel = channel
	r.logger.Info("RabbitMQ connected", zap.String("exchange", ExchangeName))
	return nil
}

func (r *RabbitMQ) handleReconnect() {
	for {
		r.mu.RLock()
		conn := r.conn
		r.mu.RUnlock()

		var closed chan *amqp.Error
		if conn != nil {
			closed = conn.NotifyClose(make(chan *amqp.Error, 1))
		}

		if closed != nil {
			select {
			case <-r.done:
				return
			case err := <-closed:
				if err != nil {
					r.logger.Warn("RabbitMQ connection lost, reconnecting", zap.Error(err))
				}
			}
		}

		for {
			select {
			case <-r.done:
				return
			default:
			}
			if err := r.connectWithRetry(); err != nil {
				r.logger.Warn("Failed to reconnect to RabbitMQ", zap.Duration("retry_in", reconnectDelay), zap.Error(err))
				select {
				case <-r.done:
					return
				case <-time.After(reconnectDelay):
				}
				continue
			}
			break
		}
	}
}

func (r *RabbitMQ) publish(ctx context.Context, routingKey string, message interface{}) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.channel == nil {
		return fmt.Errorf("channel not available")
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = r.channel.PublishWithContext(
		ctx,
		ExchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (r *RabbitMQ) PublishStatusUpdate(ctx context.Context, msg StatusUpdateMessage) error {
	if err := r.publish(ctx, RoutingKeyStatusUpdate, msg); err != nil {
		return err
	}
	r.logger.Info("Published status update", zap.String("report_id", msg.ReportID), zap.String("status", msg.NewStatus))
	return nil
}

func (r *RabbitMQ) Close() {
	r.once.Do(func() { close(r.done) })

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		r.conn.Close()
	}

	r.logger.Info("RabbitMQ connection closed")
}
