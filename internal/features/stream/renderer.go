package stream

import (
	"context"

	"campus-incidents/internal/features/dashboard"
	"campus-incidents/internal/features/feedback"
	"campus-incidents/internal/features/report"
	"campus-incidents/internal/incident"
	"campus-incidents/internal/incident/view"
)

// DashboardPayload is the dashboard view: overview plus the heatmap of the filtered list
type DashboardPayload struct {
	dashboard.Overview
	Heatmap view.Heatmap `json:"heatmap"`
}

// ServiceRenderer renders views through the same services the HTTP api uses
type ServiceRenderer struct {
	Dashboard dashboard.DashboardService
	Reports   report.ReportService
	Feedback  feedback.FeedbackService
}

func NewServiceRenderer(dashboardService dashboard.DashboardService, reportService report.ReportService, feedbackService feedback.FeedbackService) Renderer {
	return &ServiceRenderer{
		Dashboard: dashboardService,
		Reports:   reportService,
		Feedback:  feedbackService,
	}
}

func (r *ServiceRenderer) Render(ctx context.Context, v View, filter incident.FilterState) any {
	switch v {
	case ViewReports:
		return r.Reports.List(ctx, filter)
	case ViewFeedback:
		return r.Feedback.List(ctx, filter.Type, filter.SearchText)
	default:
		return DashboardPayload{
			Overview: r.Dashboard.Overview(ctx, 0),
			Heatmap:  r.Dashboard.Heatmap(ctx, filter),
		}
	}
}
