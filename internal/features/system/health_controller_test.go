package system

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"campus-incidents/internal/features/live"

	"github.com/gofiber/fiber/v2"
)

type MockPinger struct {
	Err error
}

func (m MockPinger) Ping(ctx context.Context) error {
	return m.Err
}

type MockBoard struct {
	reports  live.ReportsState
	feedback live.FeedbackState
}

func (m MockBoard) Reports() live.ReportsState   { return m.reports }
func (m MockBoard) Feedback() live.FeedbackState { return m.feedback }

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		board      MockBoard
		wantCode   int
		wantStatus string
	}{
		{name: "healthy", wantCode: fiber.StatusOK, wantStatus: "ok"},
		{
			name:       "subscription failed",
			board:      MockBoard{feedback: live.FeedbackState{Error: &live.SubscriptionError{Collection: "feedback", Code: live.CodeUnavailable}}},
			wantCode:   fiber.StatusOK,
			wantStatus: "degraded",
		},
		{name: "database down", pingErr: errors.New("no reachable servers"), wantCode: fiber.StatusServiceUnavailable, wantStatus: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller := &HealthController{pinger: MockPinger{Err: tt.pingErr}, board: tt.board}
			app := fiber.New()
			app.Get("/health", controller.Health)

			resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, resp.StatusCode)
			}
			raw, _ := io.ReadAll(resp.Body)
			var body map[string]any
			_ = json.Unmarshal(raw, &body)
			if body["status"] != tt.wantStatus {
				t.Errorf("expected status %q, got %v", tt.wantStatus, body["status"])
			}
		})
	}
}
