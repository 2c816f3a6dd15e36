package view

import (
	"fmt"
	"strings"

	"campus-incidents/internal/incident"
)

type Detail struct {
	incident.ReportView
	StatusKey        string   `json:"statusKey"`
	StatusOptions    []string `json:"statusOptions"`
	LocationURL      string   `json:"locationUrl,omitempty"`
	IsTraffic        bool     `json:"isTraffic"`
	CategoryLabel    string   `json:"categoryLabel"`
	StatusBadgeColor string   `json:"statusBadgeColor"`
}

// MapLink builds a map search link for a location
func MapLink(loc *incident.Location) string {
	if loc == nil {
		return ""
	}
	return fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%v,%v", loc.Lat, loc.Lon)
}

func statusColor(status string) string {
	switch strings.ToLower(status) {
	case incident.StatusPending:
		return "orange"
	case incident.StatusInReview:
		return "blue"
	case incident.StatusResolved:
		return "green"
	case incident.StatusRejected:
		return "red"
	default:
		return "gray"
	}
}

func BuildDetail(r incident.ReportView) Detail {
	return Detail{
		ReportView:       r,
		StatusKey:        strings.ToLower(r.Status),
		StatusOptions:    incident.StatusOptions,
		LocationURL:      MapLink(r.Location),
		IsTraffic:        r.Category == incident.CategoryTraffic,
		CategoryLabel:    strings.ToUpper(string(r.Category)),
		StatusBadgeColor: statusColor(r.Status),
	}
}
