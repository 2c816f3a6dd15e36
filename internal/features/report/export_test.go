package report

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"campus-incidents/internal/incident"
)

func TestExportCSVRows(t *testing.T) {
	reports := []incident.ReportView{
		{
			ID:              "t1",
			Source:          "traffic_reports",
			Category:        incident.CategoryTraffic,
			Status:          "pending",
			ReporterID:      "u1",
			CreatedAt:       time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC),
			Title:           "Blocked, lane",
			FullDescription: "Blocked, lane",
			PlateNo:         "JHB1",
			Location:        &incident.Location{Lat: 1.5, Lon: 103.6},
		},
		{ID: "s1", Category: incident.CategorySuspicious, TimeUnknown: true},
	}

	file, err := exportCSV(reports, time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(file.Data))).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	if records[0][0] != "ID" || len(records[0]) != len(exportColumns) {
		t.Errorf("unexpected header %v", records[0])
	}
	if records[1][5] != "2024-05-10 09:30:00" {
		t.Errorf("unexpected created at %q", records[1][5])
	}
	if records[1][6] != "Blocked, lane" {
		t.Errorf("expected quoted title to survive, got %q", records[1][6])
	}
	if records[1][10] != "1.5" || records[1][11] != "103.6" {
		t.Errorf("unexpected coordinates %q %q", records[1][10], records[1][11])
	}
	if records[2][5] != "" || records[2][10] != "" {
		t.Errorf("expected blank time and location, got %q %q", records[2][5], records[2][10])
	}
}
