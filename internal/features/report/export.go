package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"campus-incidents/internal/incident"

	"github.com/xuri/excelize/v2"
)

const exportTimeLayout = "2006-01-02 15:04:05"

var exportColumns = []string{
	"ID", "Source", "Category", "Status", "Reporter", "Created At",
	"Title", "Description", "Plate No", "Suspicious Details", "Latitude", "Longitude",
}

func exportRow(r incident.ReportView, loc *time.Location) []any {
	created := r.CreatedAt.In(loc).Format(exportTimeLayout)
	if r.TimeUnknown {
		created = ""
	}
	var lat, lon any = "", ""
	if r.Location != nil {
		lat, lon = r.Location.Lat, r.Location.Lon
	}
	return []any{
		r.ID, r.Source, string(r.Category), r.Status, r.ReporterID, created,
		r.Title, r.FullDescription, r.PlateNo, r.SuspiciousDetails, lat, lon,
	}
}

func exportCSV(reports []incident.ReportView, loc *time.Location) (ExportFile, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportColumns); err != nil {
		return ExportFile{}, err
	}
	for _, r := range reports {
		values := exportRow(r, loc)
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = fmt.Sprint(v)
		}
		if err := writer.Write(row); err != nil {
			return ExportFile{}, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return ExportFile{}, err
	}
	return ExportFile{Data: buf.Bytes(), ContentType: "text/csv"}, nil
}

func exportXLSX(reports []incident.ReportView, loc *time.Location) (ExportFile, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Reports"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return ExportFile{}, err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, r := range reports {
		for colIdx, v := range exportRow(r, loc) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	for i := range exportColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 18)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return ExportFile{}, err
	}
	return ExportFile{
		Data:        buffer.Bytes(),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}, nil
}
