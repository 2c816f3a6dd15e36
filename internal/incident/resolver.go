package incident

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

var ErrDocumentNotFound = errors.New("document not found")

// DocumentFetcher performs a single fetch-by-reference
type DocumentFetcher interface {
	FetchRef(ctx context.Context, ref DocRef) (bson.Raw, error)
}

// Resolver flattens a report's description field. It never returns an
// error: failures degrade to placeholder strings.
type Resolver struct {
	fetcher DocumentFetcher
	timeout time.Duration
	logger  *zap.Logger
}

func NewResolver(fetcher DocumentFetcher, timeout time.Duration, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{fetcher: fetcher, timeout: timeout, logger: logger}
}

// Resolve maps the description field of a report of the given type
func (r *Resolver) Resolve(ctx context.Context, reportType string, description RefValue) ResolvedDetails {
	details := ResolvedDetails{
		FullDescription:   NoDescription,
		PlateNo:           NotAvailable,
		SuspiciousDetails: NotAvailable,
	}

	switch description.Kind {
	case RefInline:
		details.FullDescription = description.Inline
		return details
	case RefNone:
		return details
	}

	doc, err := r.fetch(ctx, description.Ref)
	if errors.Is(err, ErrDocumentNotFound) {
		details.FullDescription = NoDetailedDescription
		return details
	}
	if err != nil {
		r.logger.Warn("Failed to fetch report details",
			zap.String("collection", description.Ref.Collection),
			zap.String("ref_id", description.Ref.Key()),
			zap.Error(err))
		details.FullDescription = FetchFailed
		return details
	}

	details.FullDescription = StringField(doc, "description")
	if details.FullDescription == "" {
		details.FullDescription = NoDetailedDescription
	}
	details.ImageURL = StringField(doc, "image")

	switch strings.ToLower(reportType) {
	case "traffic":
		details.PlateNo = orNotAvailable(StringField(doc, "plate_no"))
	case "suspicious":
		details.SuspiciousDetails = fmt.Sprintf("Gender: %s, Cloth: %s, Height: %s",
			orNotAvailable(StringField(doc, "gender")),
			orNotAvailable(StringField(doc, "cloth_color")),
			orNotAvailable(StringField(doc, "height")))
	}
	return details
}

func (r *Resolver) fetch(ctx context.Context, ref DocRef) (doc bson.Raw, err error) {
	if r.fetcher == nil {
		return nil, errors.New("no document fetcher configured")
	}
	defer func() {
		if p := recover(); p != nil {
			doc, err = nil, fmt.Errorf("fetch panicked: %v", p)
		}
	}()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	doc, err = r.fetcher.FetchRef(ctx, ref)
	if err == nil && doc == nil {
		err = ErrDocumentNotFound
	}
	return doc, err
}

func orNotAvailable(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}
