package logger

import (
	"context"
	"fmt"
	"time"

	common_models "campus-incidents/internal/common/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from Zap to our worker
type LogEntry struct {
	Level     zapcore.Level
	Message   string
	IpAddress string
	UserId    string
	Caller    string // Function name
}

// DBLogWriter handles the async writing
type DBLogWriter struct {
	insert  func(ctx context.Context, doc common_models.Log) error
	logChan chan LogEntry
	appId   string
	done    chan struct{}
}

// NewDBLogWriter initializes the worker
func NewDBLogWriter(collection *mongo.Collection, appId string) *DBLogWriter {
	return newDBLogWriter(func(ctx context.Context, doc common_models.Log) error {
		_, err := collection.InsertOne(ctx, doc)
		return err
	}, appId, 1000)
}

func newDBLogWriter(insert func(ctx context.Context, doc common_models.Log) error, appId string, buffer int) *DBLogWriter {
	writer := &DBLogWriter{
		insert:  insert,
		logChan: make(chan LogEntry, buffer),
		appId:   appId,
		done:    make(chan struct{}),
	}

	// Start the background worker immediately
	go writer.processLogs()

	return writer
}

// AddLog is called by our Zap hook
func (w *DBLogWriter) AddLog(entry LogEntry) {
	select {
	case w.logChan <- entry:
	default:
		// Channel full: drop log to prevent blocking the caller
		fmt.Println("DB Log Channel Full! Dropping log:", entry.Message)
	}
}

// Close stops accepting entries and waits for the queue to drain
func (w *DBLogWriter) Close() {
	close(w.logChan)
	<-w.done
}

func (w *DBLogWriter) processLogs() {
	defer close(w.done)
	for entry := range w.logChan {
		logRecord := common_models.Log{
			Message:      entry.Message,
			AppId:        w.appId,
			IpAddress:    entry.IpAddress,
			UserId:       entry.UserId,
			Caller:       entry.Caller,
			LogLevelId:   mapLevelToInt(entry.Level),
			CreatedOnUtc: time.Now().UTC(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		// Insert errors are ignored to keep the app running
		_ = w.insert(ctx, logRecord)
		cancel()
	}
}

func mapLevelToInt(l zapcore.Level) int {
	switch l {
	case zapcore.DebugLevel:
		return 10
	case zapcore.InfoLevel:
		return 20
	case zapcore.WarnLevel:
		return 30
	case zapcore.ErrorLevel:
		return 40
	case zapcore.FatalLevel:
		return 50
	default:
		return 20
	}
}
