package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	common_models "campus-incidents/internal/common/models"
	"campus-incidents/internal/features/audit"
	"campus-incidents/internal/features/live"
	"campus-incidents/internal/incident"
	"campus-incidents/internal/incident/view"
	"campus-incidents/internal/messaging"
	"campus-incidents/pkg/utils"

	"go.uber.org/zap"
)

// ReportBoard is the live report list the service queries
type ReportBoard interface {
	Reports() live.ReportsState
}

type ReportService interface {
	List(ctx context.Context, filter incident.FilterState) ListResult
	Detail(ctx context.Context, id string) (view.Detail, error)
	UpdateStatus(ctx context.Context, id, status string) (view.Detail, error)
	Export(ctx context.Context, filter incident.FilterState, format string) (ExportFile, error)
}

type ReportServiceImpl struct {
	Repo         ReportRepository
	Board        ReportBoard
	Normalizer   *incident.Normalizer
	AuditService audit.AuditService
	Publisher    messaging.Publisher
	logger       *zap.Logger
	now          func() time.Time
}

func NewReportService(repo ReportRepository, board *live.Board, normalizer *incident.Normalizer, auditService audit.AuditService, publisher messaging.Publisher, logger *zap.Logger) ReportService {
	return &ReportServiceImpl{
		Repo:         repo,
		Board:        board,
		Normalizer:   normalizer,
		AuditService: auditService,
		Publisher:    publisher,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *ReportServiceImpl) List(ctx context.Context, filter incident.FilterState) ListResult {
	state := s.Board.Reports()
	items := incident.Query(state.Items, filter, s.Normalizer.Location())

	result := ListResult{
		Data:    items,
		Table:   view.BuildTable(items, 0),
		Filter:  filter,
		Loading: state.Loading,
	}
	if len(state.Errors) > 0 {
		result.Errors = make(map[string]string, len(state.Errors))
		for coll, err := range state.Errors {
			result.Errors[coll] = err.Code
		}
	}
	return result
}

// Detail re-reads the report so the view reflects the stored document
func (s *ReportServiceImpl) Detail(ctx context.Context, id string) (view.Detail, error) {
	coll, raw, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return view.Detail{}, err
	}
	return view.BuildDetail(s.Normalizer.NormalizeDocument(ctx, coll, raw)), nil
}

func (s *ReportServiceImpl) UpdateStatus(ctx context.Context, id, status string) (view.Detail, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !incident.IsValidStatus(status) {
		return view.Detail{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	at := s.now().UTC()
	coll, oldStatus, err := s.Repo.UpdateStatus(ctx, id, status, at)
	if err != nil {
		return view.Detail{}, err
	}
	s.logger.Info("Report status updated",
		zap.String("report_id", id),
		zap.String("collection", coll),
		zap.String("old_status", oldStatus),
		zap.String("new_status", status))

	changes := map[string]common_models.Change{
		"status": {Old: oldStatus, New: status},
	}
	if err := s.AuditService.LogChange(ctx, common_models.AuditActionStatusUpdate, coll, id, changes); err != nil {
		s.logger.Warn("Failed to write audit log", zap.String("report_id", id), zap.Error(err))
	}

	detail, err := s.Detail(ctx, id)
	if err != nil {
		// The write has committed, so the update still succeeds
		s.logger.Warn("Failed to re-read report after status update", zap.String("report_id", id), zap.Error(err))
		detail = s.committedDetail(id, coll, status)
	}

	msg := messaging.StatusUpdateMessage{
		ReportID:   id,
		Collection: coll,
		OldStatus:  oldStatus,
		NewStatus:  status,
		ReporterID: detail.ReporterID,
		Timestamp:  at.Unix(),
	}
	if claims, ok := ctx.Value(utils.UserClaimsKey).(*utils.UserClaims); ok {
		msg.ActorID = claims.UserID
	}
	if err := s.Publisher.PublishStatusUpdate(ctx, msg); err != nil {
		s.logger.Warn("Failed to publish status update", zap.String("report_id", id), zap.Error(err))
	}

	return detail, nil
}

// committedDetail builds the detail from the board's copy with the new status applied
func (s *ReportServiceImpl) committedDetail(id, coll, status string) view.Detail {
	r := incident.ReportView{ID: id, Source: coll}
	for _, item := range s.Board.Reports().Items {
		if item.ID == id {
			r = item
			break
		}
	}
	r.Status = status
	if r.Source == "" {
		r.Source = coll
	}
	return view.BuildDetail(r)
}

func (s *ReportServiceImpl) Export(ctx context.Context, filter incident.FilterState, format string) (ExportFile, error) {
	items := incident.Query(s.Board.Reports().Items, filter, s.Normalizer.Location())
	stamp := s.now().In(s.Normalizer.Location()).Format("20060102_150405")

	var (
		file ExportFile
		err  error
	)
	switch strings.ToLower(format) {
	case "", FormatCSV:
		file, err = exportCSV(items, s.Normalizer.Location())
		file.Filename = fmt.Sprintf("incident_reports_%s.csv", stamp)
	case FormatXLSX:
		file, err = exportXLSX(items, s.Normalizer.Location())
		file.Filename = fmt.Sprintf("incident_reports_%s.xlsx", stamp)
	default:
		return ExportFile{}, fmt.Errorf("%w: %s", ErrInvalidFormat, format)
	}
	if err != nil {
		return ExportFile{}, err
	}

	changes := map[string]common_models.Change{
		"rows":   {New: len(items)},
		"format": {New: strings.ToLower(format)},
	}
	if err := s.AuditService.LogChange(ctx, common_models.AuditActionExport, "reports", "", changes); err != nil {
		s.logger.Warn("Failed to write audit log", zap.Error(err))
	}
	return file, nil
}
