package feedback

import (
	"errors"

	"campus-incidents/internal/incident"
)

var ErrFeedbackNotFound = errors.New("feedback not found")

type ListResult struct {
	Data    []incident.FeedbackView `json:"data"`
	Total   int                     `json:"total"`
	Loading bool                    `json:"loading"`
	Error   string                  `json:"error,omitempty"`
}
