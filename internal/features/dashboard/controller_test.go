package dashboard

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"campus-incidents/internal/config"
	"campus-incidents/internal/incident"
	"campus-incidents/internal/incident/view"

	"github.com/gofiber/fiber/v2"
)

type MockDashboardService struct {
	HistoryCalls  int
	CapturedLimit int64
}

func (m *MockDashboardService) Overview(ctx context.Context, recentLimit int) Overview {
	return Overview{}
}

func (m *MockDashboardService) Heatmap(ctx context.Context, filter incident.FilterState) view.Heatmap {
	return view.Heatmap{}
}

func (m *MockDashboardService) History(ctx context.Context, since time.Time, limit int64) ([]KPISnapshot, error) {
	m.HistoryCalls++
	m.CapturedLimit = limit
	return []KPISnapshot{}, nil
}

func (m *MockDashboardService) TakeSnapshot(ctx context.Context) (*KPISnapshot, error) {
	return nil, nil
}

func TestGetHistoryLimit(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantLimit  int64
	}{
		{"default", "", fiber.StatusOK, 168},
		{"explicit", "?limit=24", fiber.StatusOK, 24},
		{"clamped", "?limit=100000", fiber.StatusOK, MaxHistoryLimit},
		{"not a number", "?limit=abc", fiber.StatusBadRequest, 0},
		{"zero", "?limit=0", fiber.StatusBadRequest, 0},
		{"negative", "?limit=-5", fiber.StatusBadRequest, 0},
		{"bad since", "?since=yesterday", fiber.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &MockDashboardService{}
			normalizer := incident.NewNormalizer(incident.NewResolver(nil, 0, nil), nil, incident.WithLocation(time.UTC))
			app := fiber.New()
			NewDashboardApi(NewDashboardController(service, normalizer), &config.Config{SkipAuth: true}).Setup(app)

			resp, err := app.Test(httptest.NewRequest("GET", "/api/dashboard/kpis/history"+tt.query, nil))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantStatus != fiber.StatusOK {
				if service.HistoryCalls != 0 {
					t.Error("service must not be called for a rejected request")
				}
				return
			}
			if service.CapturedLimit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", service.CapturedLimit, tt.wantLimit)
			}
		})
	}
}
