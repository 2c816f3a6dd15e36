package feedback

import (
	"context"
	"strings"

	"campus-incidents/internal/features/live"
	"campus-incidents/internal/incident"
)

// FeedbackBoard is the live feedback list
type FeedbackBoard interface {
	Feedback() live.FeedbackState
}

type FeedbackService interface {
	List(ctx context.Context, typ, search string) ListResult
	Detail(ctx context.Context, id string) (incident.FeedbackView, error)
}

type FeedbackServiceImpl struct {
	Repo       FeedbackRepository
	Board      FeedbackBoard
	Normalizer *incident.Normalizer
}

func NewFeedbackService(repo FeedbackRepository, board *live.Board, normalizer *incident.Normalizer) FeedbackService {
	return &FeedbackServiceImpl{
		Repo:       repo,
		Board:      board,
		Normalizer: normalizer,
	}
}

// List filters the live list by type and a case-insensitive search over subject, message and email
func (s *FeedbackServiceImpl) List(ctx context.Context, typ, search string) ListResult {
	state := s.Board.Feedback()
	q := strings.ToLower(strings.TrimSpace(search))

	items := make([]incident.FeedbackView, 0, len(state.Items))
	for _, f := range state.Items {
		if typ != "" && !strings.EqualFold(typ, incident.FilterAll) && !strings.EqualFold(f.Type, typ) {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(f.Subject), q) &&
			!strings.Contains(strings.ToLower(f.Message), q) &&
			!strings.Contains(strings.ToLower(f.UserEmail), q) {
			continue
		}
		items = append(items, f)
	}

	result := ListResult{Data: items, Total: len(items), Loading: state.Loading}
	if state.Error != nil {
		result.Error = state.Error.Code
	}
	return result
}

func (s *FeedbackServiceImpl) Detail(ctx context.Context, id string) (incident.FeedbackView, error) {
	raw, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return incident.FeedbackView{}, err
	}
	return s.Normalizer.NormalizeFeedback(ctx, raw), nil
}
