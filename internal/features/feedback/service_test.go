package feedback

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"campus-incidents/internal/features/live"
	"campus-incidents/internal/incident"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
)

type MockFeedbackRepo struct {
	Docs map[string]bson.Raw
}

func (m *MockFeedbackRepo) FindByID(ctx context.Context, id string) (bson.Raw, error) {
	doc, ok := m.Docs[id]
	if !ok {
		return nil, ErrFeedbackNotFound
	}
	return doc, nil
}

type MockBoard struct {
	State live.FeedbackState
}

func (m *MockBoard) Feedback() live.FeedbackState {
	return m.State
}

func newTestService(repo FeedbackRepository, board FeedbackBoard) *FeedbackServiceImpl {
	normalizer := incident.NewNormalizer(incident.NewResolver(nil, time.Second, nil), nil, incident.WithLocation(time.UTC))
	return &FeedbackServiceImpl{Repo: repo, Board: board, Normalizer: normalizer}
}

func TestListFilters(t *testing.T) {
	board := &MockBoard{State: live.FeedbackState{
		Items: []incident.FeedbackView{
			{ID: "1", Type: "Bug", Subject: "App crashes", UserEmail: "a@campus.edu"},
			{ID: "2", Type: "General", Subject: "Great work", Message: "Thanks"},
			{ID: "3", Type: "bug", Subject: "Map slow", Message: "Crashes on zoom"},
		},
		Error: &live.SubscriptionError{Code: live.CodeUnavailable},
	}}
	service := newTestService(&MockFeedbackRepo{}, board)

	tests := []struct {
		name   string
		typ    string
		search string
		want   []string
	}{
		{name: "all", want: []string{"1", "2", "3"}},
		{name: "type all keyword", typ: "all", want: []string{"1", "2", "3"}},
		{name: "type case insensitive", typ: "BUG", want: []string{"1", "3"}},
		{name: "search subject and message", search: "crash", want: []string{"1", "3"}},
		{name: "search email", search: "CAMPUS.EDU", want: []string{"1"}},
		{name: "no match", typ: "general", search: "crash", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := service.List(context.Background(), tt.typ, tt.search)
			if result.Total != len(tt.want) {
				t.Fatalf("expected %d results, got %d", len(tt.want), result.Total)
			}
			for i, id := range tt.want {
				if result.Data[i].ID != id {
					t.Errorf("position %d: expected %s, got %s", i, id, result.Data[i].ID)
				}
			}
			if result.Error != live.CodeUnavailable {
				t.Errorf("expected error code, got %q", result.Error)
			}
		})
	}
}

func TestDetail(t *testing.T) {
	doc, _ := bson.Marshal(bson.M{
		"_id":       "f1",
		"rating":    int32(7),
		"subject":   "Lighting",
		"userRef":   bson.M{"$ref": "users", "$id": "u-42"},
		"userId":    "ignored",
		"createdAt": time.Date(2024, 2, 1, 8, 5, 0, 0, time.UTC),
	})
	service := newTestService(&MockFeedbackRepo{Docs: map[string]bson.Raw{"f1": doc}}, &MockBoard{})

	fb, err := service.Detail(context.Background(), "f1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fb.Rating != 5 || fb.UserID != "u-42" || fb.Type != "General" {
		t.Errorf("unexpected feedback %+v", fb)
	}
	if fb.FullDate != "01 Feb 2024, 08:05" {
		t.Errorf("unexpected full date %q", fb.FullDate)
	}

	if _, err := service.Detail(context.Background(), "nope"); !errors.Is(err, ErrFeedbackNotFound) {
		t.Errorf("expected ErrFeedbackNotFound, got %v", err)
	}
}

func TestControllerNotFound(t *testing.T) {
	service := newTestService(&MockFeedbackRepo{}, &MockBoard{})
	controller := NewFeedbackController(service)

	app := fiber.New()
	app.Get("/api/feedback/:id", controller.Get)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/feedback/missing", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}
