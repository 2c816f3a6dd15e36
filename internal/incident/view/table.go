// Package view projects query and aggregation output into renderable shapes.
package view

import (
	"fmt"
	"strings"

	"campus-incidents/internal/incident"
)

type BadgeKind string

const (
	BadgeSuccess BadgeKind = "success"
	BadgeWarning BadgeKind = "warning"
	BadgeNeutral BadgeKind = "neutral"
)

type TableRow struct {
	ID            string             `json:"id"`
	ShortID       string             `json:"shortId"`
	Status        string             `json:"status"`
	StatusBadge   BadgeKind          `json:"statusBadge"`
	Category      incident.Category  `json:"category"`
	CategoryLabel string             `json:"categoryLabel"`
	Time          string             `json:"time"`
	Reporter      string             `json:"reporter"`
	ReporterShort string             `json:"reporterShort"`
	Title         string             `json:"title"`
	PlateNo       string             `json:"plateNo,omitempty"`
	Location      *incident.Location `json:"location,omitempty"`
}

type Table struct {
	Rows    []TableRow `json:"rows"`
	Count   int        `json:"count"`
	Summary string     `json:"summary"`
}

// ShortID renders ids longer than 8 characters as "abcd...wxyz"
func ShortID(id string) string {
	r := []rune(id)
	if len(r) <= 8 {
		return id
	}
	return string(r[:4]) + "..." + string(r[len(r)-4:])
}

func StatusBadge(status string) BadgeKind {
	switch strings.ToLower(status) {
	case incident.StatusResolved:
		return BadgeSuccess
	case incident.StatusPending:
		return BadgeWarning
	default:
		return BadgeNeutral
	}
}

func Row(r incident.ReportView) TableRow {
	row := TableRow{
		ID:            r.ID,
		ShortID:       ShortID(r.ID),
		Status:        r.Status,
		StatusBadge:   StatusBadge(r.Status),
		Category:      r.Category,
		CategoryLabel: strings.ToUpper(string(r.Category)),
		Time:          r.TimeAgo,
		Reporter:      r.ReporterID,
		ReporterShort: r.ReporterID,
		Title:         r.Title,
		Location:      r.Location,
	}
	if r.ReporterID != incident.AnonymousReporter {
		row.ReporterShort = ShortID(r.ReporterID)
	}
	if r.Category == incident.CategoryTraffic && r.PlateNo != "" && r.PlateNo != incident.NotAvailable {
		row.PlateNo = r.PlateNo
	}
	return row
}

// BuildTable projects reports into table rows; limit <= 0 keeps all
func BuildTable(reports []incident.ReportView, limit int) Table {
	if limit > 0 && len(reports) > limit {
		reports = reports[:limit]
	}
	rows := make([]TableRow, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, Row(r))
	}
	return Table{
		Rows:    rows,
		Count:   len(rows),
		Summary: fmt.Sprintf("Showing %d results", len(rows)),
	}
}
