// Package incident holds the report pipeline: reference resolution,
// normalization into view records, KPI aggregation and client-style querying.
package incident

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryTraffic    Category = "Traffic"
	CategorySuspicious Category = "Suspicious"
	CategoryUnknown    Category = "Unknown"
)

// Key is the lower-case form used in filters and KPI maps
func (c Category) Key() string {
	return strings.ToLower(string(c))
}

const (
	StatusPending  = "pending"
	StatusInReview = "in review"
	StatusResolved = "resolved"
	StatusRejected = "rejected"
)

// StatusOptions are the values the status update path accepts
var StatusOptions = []string{StatusPending, StatusInReview, StatusResolved, StatusRejected}

func IsValidStatus(status string) bool {
	for _, s := range StatusOptions {
		if s == status {
			return true
		}
	}
	return false
}

const (
	NotAvailable          = "N/A"
	NoDescription         = "No description found."
	NoDetailedDescription = "No detailed description."
	FetchFailed           = "Error fetching details."
	DefaultTitle          = "New Report"
	AnonymousReporter     = "Anonymous"
	DefaultStatus         = "Pending"
	TitleMaxLength        = 50
)

type Location struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lon float64 `bson:"lon" json:"lon"`
}

// RawReport is a report document as stored by the reporting clients
type RawReport struct {
	ID               DocID     `bson:"_id"`
	Type             string    `bson:"type"`
	Status           string    `bson:"status,omitempty"`
	Reporter         RefValue  `bson:"reporter,omitempty"`
	CreatedAt        Timestamp `bson:"created_at,omitempty"`
	UpdatedAt        Timestamp `bson:"updated_at,omitempty"`
	Description      RefValue  `bson:"description,omitempty"`
	PlateNumber      string    `bson:"plate_number,omitempty"`
	Location         *Location `bson:"location,omitempty"`
	LocationLabel    string    `bson:"location_label,omitempty"`
	SupportingImages []string  `bson:"supporting_images,omitempty"`
	Image            string    `bson:"image,omitempty"`
}

// ResolvedDetails is the flat form of a report's description field
type ResolvedDetails struct {
	FullDescription   string `json:"fullDescription"`
	PlateNo           string `json:"plateNo"`
	SuspiciousDetails string `json:"suspiciousDetails"`
	ImageURL          string `json:"imageUrl,omitempty"`
}

// ReportView is the canonical in-memory record handed to aggregation, querying and presentation
type ReportView struct {
	ID                string    `json:"id"`
	Source            string    `json:"source,omitempty"`
	Type              string    `json:"type"`
	Category          Category  `json:"category"`
	Status            string    `json:"status"`
	ReporterID        string    `json:"reporterId"`
	CreatedAt         time.Time `json:"createdAt"`
	TimeUnknown       bool      `json:"timeUnknown,omitempty"`
	Title             string    `json:"title"`
	TimeAgo           string    `json:"timeAgo"`
	FullDescription   string    `json:"fullDescription"`
	PlateNo           string    `json:"plateNo"`
	SuspiciousDetails string    `json:"suspiciousDetails"`
	ImageURL          string    `json:"imageUrl,omitempty"`
	Location          *Location `json:"location,omitempty"`
	LocationLabel     string    `json:"locationLabel,omitempty"`
	SupportingImages  []string  `json:"supportingImages,omitempty"`
}
