package live

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Query selects and orders the documents of one collection
type Query struct {
	Collection string
	Filter     bson.M
	OrderBy    string
	Descending bool
}

// Snapshot is one complete, consistent emission of the matching documents
type Snapshot struct {
	Documents []bson.Raw
	ReadAt    time.Time
}

// Stream yields snapshots: the first call returns the initial load, later
// calls block until the result set changes.
type Stream interface {
	Next(ctx context.Context) (Snapshot, error)
	Close(ctx context.Context) error
}

// Source is a push-capable document store
type Source interface {
	Listen(ctx context.Context, q Query) (Stream, error)
}

const (
	CodePermissionDenied = "permission-denied"
	CodeUnavailable      = "unavailable"
	CodeDeadlineExceeded = "deadline-exceeded"
	CodeCancelled        = "cancelled"
	CodeUnknown          = "unknown"
)

// SubscriptionError is the terminal failure of one subscription
type SubscriptionError struct {
	Collection string `json:"collection"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	err        error
}

func (e *SubscriptionError) Error() string {
	return fmt.Sprintf("subscription %s failed: %s: %s", e.Collection, e.Code, e.Message)
}

func (e *SubscriptionError) Unwrap() error {
	return e.err
}

func newSubscriptionError(collection string, err error) *SubscriptionError {
	return &SubscriptionError{
		Collection: collection,
		Code:       errorCode(err),
		Message:    err.Error(),
		err:        err,
	}
}

// Mongo server codes for auth failures
var permissionCodes = map[int32]bool{
	13: true, // Unauthorized
	18: true, // AuthenticationFailed
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return CodeCancelled
	case errors.Is(err, context.DeadlineExceeded), mongo.IsTimeout(err):
		return CodeDeadlineExceeded
	case mongo.IsNetworkError(err):
		return CodeUnavailable
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && permissionCodes[cmdErr.Code] {
		return CodePermissionDenied
	}
	var srvErr mongo.ServerError
	if errors.As(err, &srvErr) {
		for code := range permissionCodes {
			if srvErr.HasErrorCode(int(code)) {
				return CodePermissionDenied
			}
		}
	}
	return CodeUnknown
}
