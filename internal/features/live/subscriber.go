package live

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// NormalizeFunc converts one stored document into its view record
type NormalizeFunc[T any] func(ctx context.Context, doc bson.Raw) T

// Subscriber keeps one live subscription per Subscribe call and delivers
// a fully normalized replacement list for every snapshot.
type Subscriber[T any] struct {
	source      Source
	normalize   NormalizeFunc[T]
	concurrency int
	logger      *zap.Logger
}

func NewSubscriber[T any](source Source, normalize NormalizeFunc[T], concurrency int, logger *zap.Logger) *Subscriber[T] {
	if concurrency <= 0 {
		concurrency = 16
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Subscriber[T]{
		source:      source,
		normalize:   normalize,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Subscription is the handle returned by Subscribe
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Unsubscribe stops the push channel and waits until no callback can run.
// It is idempotent and safe after a failure, but must not be called from
// inside onUpdate or onError.
func (s *Subscription) Unsubscribe() {
	s.once.Do(s.cancel)
	<-s.done
}

// Done is closed once the subscription has stopped for any reason
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Subscribe opens the query and calls onUpdate with every snapshot's list.
// After onError is called no further updates are delivered.
func (s *Subscriber[T]) Subscribe(parent context.Context, q Query, onUpdate func([]T), onError func(*SubscriptionError)) *Subscription {
	ctx, cancel := context.WithCancel(parent)
	sub := &Subscription{cancel: cancel, done: make(chan struct{})}
	go s.run(ctx, q, onUpdate, onError, sub.done)
	return sub
}

func (s *Subscriber[T]) run(ctx context.Context, q Query, onUpdate func([]T), onError func(*SubscriptionError), done chan struct{}) {
	defer close(done)

	stream, err := s.source.Listen(ctx, q)
	if err != nil {
		s.fail(ctx, q, err, onError)
		return
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := stream.Close(closeCtx); err != nil {
			s.logger.Debug("Failed to close stream", zap.String("collection", q.Collection), zap.Error(err))
		}
	}()

	for {
		snap, err := stream.Next(ctx)
		if err != nil {
			s.fail(ctx, q, err, onError)
			return
		}

		list := s.normalizeAll(ctx, snap.Documents)
		// A batch finished after unsubscribe is discarded
		if ctx.Err() != nil {
			return
		}
		onUpdate(list)
	}
}

// normalizeAll runs the batch concurrently and returns only when every document is done
func (s *Subscriber[T]) normalizeAll(ctx context.Context, docs []bson.Raw) []T {
	out := make([]T, len(docs))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, doc := range docs {
		g.Go(func() error {
			out[i] = s.normalize(ctx, doc)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (s *Subscriber[T]) fail(ctx context.Context, q Query, err error, onError func(*SubscriptionError)) {
	if ctx.Err() != nil {
		return
	}
	subErr := newSubscriptionError(q.Collection, err)
	s.logger.Error("Live subscription failed",
		zap.String("collection", q.Collection),
		zap.String("code", subErr.Code),
		zap.Error(err))
	if onError != nil {
		onError(subErr)
	}
}
