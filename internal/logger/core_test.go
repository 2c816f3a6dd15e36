package logger

import (
	"context"
	"sync"
	"testing"

	common_models "campus-incidents/internal/common/models"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type captureInsert struct {
	mu   sync.Mutex
	docs []common_models.Log
}

func (c *captureInsert) insert(ctx context.Context, doc common_models.Log) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs = append(c.docs, doc)
	return nil
}

func TestDBCore_MirrorsAtOrAboveMinLevel(t *testing.T) {
	capture := &captureInsert{}
	writer := newDBLogWriter(capture.insert, "test-app", 10)
	base, observed := observer.New(zapcore.DebugLevel)
	log := zap.New(NewDBCore(base, writer, zapcore.WarnLevel))

	log.Info("board started")
	log.With(zap.String("user_id", "u-1")).Warn("subscription degraded", zap.String("ip", "10.0.0.1"))
	log.Error("subscription failed")
	writer.Close()

	if observed.Len() != 3 {
		t.Errorf("base core got %d entries, want 3", observed.Len())
	}
	if len(capture.docs) != 2 {
		t.Fatalf("db got %d entries, want 2", len(capture.docs))
	}

	first := capture.docs[0]
	if first.Message != "subscription degraded" || first.UserId != "u-1" || first.IpAddress != "10.0.0.1" {
		t.Errorf("unexpected first entry %+v", first)
	}
	if first.AppId != "test-app" || first.LogLevelId != 30 {
		t.Errorf("unexpected app or level %+v", first)
	}
	if capture.docs[1].LogLevelId != 40 {
		t.Errorf("LogLevelId = %d, want 40", capture.docs[1].LogLevelId)
	}
}

func TestDBLogWriter_DropsWhenFull(t *testing.T) {
	block := make(chan struct{})
	var count int
	var mu sync.Mutex
	writer := newDBLogWriter(func(ctx context.Context, doc common_models.Log) error {
		<-block
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	}, "app", 1)

	for i := 0; i < 10; i++ {
		writer.AddLog(LogEntry{Level: zapcore.ErrorLevel, Message: "x"})
	}
	close(block)
	writer.Close()

	mu.Lock()
	defer mu.Unlock()
	if count < 1 || count > 2 {
		t.Errorf("wrote %d entries, want 1 or 2", count)
	}
}

func TestMapLevelToInt(t *testing.T) {
	tests := map[zapcore.Level]int{
		zapcore.DebugLevel: 10,
		zapcore.InfoLevel:  20,
		zapcore.WarnLevel:  30,
		zapcore.ErrorLevel: 40,
		zapcore.FatalLevel: 50,
		zapcore.PanicLevel: 20,
	}
	for level, want := range tests {
		if got := mapLevelToInt(level); got != want {
			t.Errorf("mapLevelToInt(%v) = %d, want %d", level, got, want)
		}
	}
}
