package incident

import (
	"context"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// FeedbackDateLayout matches the detail page date, e.g. "18 Oct 2026, 15:04"
const FeedbackDateLayout = "02 Jan 2006, 15:04"

type RawFeedback struct {
	ID        DocID     `bson:"_id"`
	Type      string    `bson:"type,omitempty"`
	Rating    float64   `bson:"rating,omitempty"`
	Subject   string    `bson:"subject,omitempty"`
	Message   string    `bson:"message,omitempty"`
	UserEmail string    `bson:"userEmail,omitempty"`
	UserRef   RefValue  `bson:"userRef,omitempty"`
	UserID    string    `bson:"userId,omitempty"`
	CreatedAt Timestamp `bson:"createdAt,omitempty"`
}

type FeedbackView struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Rating      int       `json:"rating"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	UserEmail   string    `json:"userEmail"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	TimeUnknown bool      `json:"timeUnknown,omitempty"`
	FullDate    string    `json:"fullDate"`
}

// NormalizeFeedback flattens a stored feedback document. The context is
// unused but keeps the signature aligned with report normalization.
func (n *Normalizer) NormalizeFeedback(_ context.Context, doc bson.Raw) FeedbackView {
	return FeedbackFromRaw(decodeFeedback(doc), n.now(), n.loc)
}

func FeedbackFromRaw(raw RawFeedback, now time.Time, loc *time.Location) FeedbackView {
	view := FeedbackView{
		ID:        string(raw.ID),
		Type:      raw.Type,
		Rating:    clampRating(raw.Rating),
		Subject:   raw.Subject,
		Message:   raw.Message,
		UserEmail: raw.UserEmail,
		UserID:    raw.UserRef.Key(),
	}
	if view.Type == "" {
		view.Type = "General"
	}
	if view.UserID == "" {
		view.UserID = raw.UserID
	}
	if view.UserID == "" {
		view.UserID = NotAvailable
	}
	if raw.CreatedAt.Valid {
		view.CreatedAt = raw.CreatedAt.Time.In(loc)
	} else {
		view.CreatedAt = now.In(loc)
		view.TimeUnknown = true
	}
	view.FullDate = view.CreatedAt.Format(FeedbackDateLayout)
	return view
}

func clampRating(r float64) int {
	if math.IsNaN(r) {
		return 0
	}
	return int(math.Max(0, math.Min(5, math.Round(r))))
}
