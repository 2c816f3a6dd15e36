package report

import (
	"errors"

	"campus-incidents/internal/incident"
	"campus-incidents/internal/incident/view"
)

var (
	ErrReportNotFound = errors.New("report not found")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrInvalidFormat  = errors.New("unsupported export format")
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// ListResult is the filtered report list plus the live board state it came from
type ListResult struct {
	Data    []incident.ReportView `json:"data"`
	Table   view.Table            `json:"table"`
	Filter  incident.FilterState  `json:"filter"`
	Loading bool                  `json:"loading"`
	Errors  map[string]string     `json:"errors,omitempty"`
}

// ExportFile is a rendered export ready to be sent
type ExportFile struct {
	Data        []byte
	Filename    string
	ContentType string
}
