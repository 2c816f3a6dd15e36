package dashboard

import (
	"context"
	"time"

	"campus-incidents/internal/config"
	"campus-incidents/internal/features/live"
	"campus-incidents/internal/incident"
	"campus-incidents/internal/incident/view"
)

// ReportBoard is the live report list the dashboard reads
type ReportBoard interface {
	Reports() live.ReportsState
}

type DashboardService interface {
	Overview(ctx context.Context, recentLimit int) Overview
	Heatmap(ctx context.Context, filter incident.FilterState) view.Heatmap
	History(ctx context.Context, since time.Time, limit int64) ([]KPISnapshot, error)
	TakeSnapshot(ctx context.Context) (*KPISnapshot, error)
}

type DashboardServiceImpl struct {
	Repo   SnapshotRepository
	Board  ReportBoard
	loc    *time.Location
	center [2]float64
	now    func() time.Time
}

func NewDashboardService(repo SnapshotRepository, board *live.Board, normalizer *incident.Normalizer, cfg *config.Config) DashboardService {
	return &DashboardServiceImpl{
		Repo:   repo,
		Board:  board,
		loc:    normalizer.Location(),
		center: [2]float64{cfg.MapCenterLat, cfg.MapCenterLon},
		now:    time.Now,
	}
}

func (s *DashboardServiceImpl) Overview(ctx context.Context, recentLimit int) Overview {
	state := s.Board.Reports()
	kpis := incident.Aggregate(state.Items, s.now(), s.loc)

	overview := Overview{
		KPIs:         kpis,
		Cards:        view.KPICards(kpis),
		Distribution: view.DistributionSlices(kpis),
		Recent:       view.BuildTable(state.Items, recentLimit),
		Loading:      state.Loading,
		UpdatedAt:    state.UpdatedAt,
	}
	if len(state.Errors) > 0 {
		overview.Errors = make(map[string]string, len(state.Errors))
		for coll, err := range state.Errors {
			overview.Errors[coll] = err.Code
		}
	}
	return overview
}

func (s *DashboardServiceImpl) Heatmap(ctx context.Context, filter incident.FilterState) view.Heatmap {
	items := incident.Query(s.Board.Reports().Items, filter, s.loc)
	return view.BuildHeatmap(items, s.center)
}

func (s *DashboardServiceImpl) History(ctx context.Context, since time.Time, limit int64) ([]KPISnapshot, error) {
	return s.Repo.List(ctx, since, limit)
}

// TakeSnapshot persists the current KPIs; nothing is written while the board is still loading
func (s *DashboardServiceImpl) TakeSnapshot(ctx context.Context) (*KPISnapshot, error) {
	state := s.Board.Reports()
	if state.Loading {
		return nil, nil
	}

	now := s.now()
	kpis := incident.Aggregate(state.Items, now, s.loc)
	snapshot := &KPISnapshot{
		KPIs:         kpis,
		Distribution: kpis.Distribution(),
		TakenAt:      now.UTC(),
	}
	if err := s.Repo.Create(ctx, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}
