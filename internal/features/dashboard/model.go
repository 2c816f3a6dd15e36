package dashboard

import (
	"time"

	"campus-incidents/internal/incident"
	"campus-incidents/internal/incident/view"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// KPISnapshot is one persisted reading of the dashboard KPIs
type KPISnapshot struct {
	ID           primitive.ObjectID    `json:"id" bson:"_id,omitempty"`
	KPIs         incident.KPISet       `json:"kpis" bson:"kpis"`
	Distribution incident.Distribution `json:"distribution" bson:"distribution"`
	TakenAt      time.Time             `json:"taken_at" bson:"taken_at"`
}

// Overview is everything the dashboard page renders
type Overview struct {
	KPIs         incident.KPISet          `json:"kpis"`
	Cards        []view.KPICard           `json:"cards"`
	Distribution []view.DistributionSlice `json:"distribution"`
	Recent       view.Table               `json:"recent"`
	Loading      bool                     `json:"loading"`
	Errors       map[string]string        `json:"errors,omitempty"`
	UpdatedAt    time.Time                `json:"updatedAt"`
}
