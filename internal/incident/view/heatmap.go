package view

import "campus-incidents/internal/incident"

// HeatWeight is the fixed intensity of every incident point
const HeatWeight = 0.5

var markerColors = map[incident.Category]string{
	incident.CategoryTraffic:    "#3b82f6",
	incident.CategorySuspicious: "#ef4444",
}

const defaultMarkerColor = "#6b7280"

type Marker struct {
	ID       string            `json:"id"`
	Lat      float64           `json:"lat"`
	Lon      float64           `json:"lon"`
	Category incident.Category `json:"category"`
	Color    string            `json:"color"`
	Title    string            `json:"title"`
	Label    string            `json:"label,omitempty"`
	Status   string            `json:"status"`
}

type Heatmap struct {
	Center  [2]float64   `json:"center"`
	Points  [][3]float64 `json:"points"`
	Markers []Marker     `json:"markers"`
}

// BuildHeatmap emits a [lat, lon, weight] point and a marker for every report with a location
func BuildHeatmap(reports []incident.ReportView, center [2]float64) Heatmap {
	hm := Heatmap{
		Center:  center,
		Points:  [][3]float64{},
		Markers: []Marker{},
	}
	for _, r := range reports {
		if r.Location == nil {
			continue
		}
		hm.Points = append(hm.Points, [3]float64{r.Location.Lat, r.Location.Lon, HeatWeight})

		color, ok := markerColors[r.Category]
		if !ok {
			color = defaultMarkerColor
		}
		hm.Markers = append(hm.Markers, Marker{
			ID:       r.ID,
			Lat:      r.Location.Lat,
			Lon:      r.Location.Lon,
			Category: r.Category,
			Color:    color,
			Title:    r.Title,
			Label:    r.LocationLabel,
			Status:   r.Status,
		})
	}
	return hm
}
