package incident

import (
	"context"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// TimeAgoLayout renders createdAt as an absolute local timestamp, e.g. "Oct 18, 2026, 03:04 PM"
const TimeAgoLayout = "Jan 2, 2006, 03:04 PM"

type Normalizer struct {
	resolver *Resolver
	logger   *zap.Logger
	loc      *time.Location
	now      func() time.Time
	strict   bool
}

type NormalizerOption func(*Normalizer)

func WithLocation(loc *time.Location) NormalizerOption {
	return func(n *Normalizer) {
		if loc != nil {
			n.loc = loc
		}
	}
}

func WithClock(now func() time.Time) NormalizerOption {
	return func(n *Normalizer) {
		if now != nil {
			n.now = now
		}
	}
}

// WithStrictCategories maps type values other than "traffic" and
// "suspicious" to CategoryUnknown instead of CategorySuspicious.
func WithStrictCategories(strict bool) NormalizerOption {
	return func(n *Normalizer) {
		n.strict = strict
	}
}

func NewNormalizer(resolver *Resolver, logger *zap.Logger, opts ...NormalizerOption) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &Normalizer{
		resolver: resolver,
		logger:   logger,
		loc:      time.Local,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Normalize builds a fresh ReportView from a raw document and its resolved description
func (n *Normalizer) Normalize(ctx context.Context, source string, raw RawReport) ReportView {
	details := n.resolver.Resolve(ctx, raw.Type, raw.Description)

	view := ReportView{
		ID:                string(raw.ID),
		Source:            source,
		Type:              raw.Type,
		Category:          Classify(raw.Type, n.strict),
		Status:            raw.Status,
		ReporterID:        raw.Reporter.Key(),
		FullDescription:   details.FullDescription,
		PlateNo:           details.PlateNo,
		SuspiciousDetails: details.SuspiciousDetails,
		ImageURL:          details.ImageURL,
		Location:          raw.Location,
		LocationLabel:     raw.LocationLabel,
		SupportingImages:  raw.SupportingImages,
	}

	if view.Status == "" {
		view.Status = DefaultStatus
	}
	if view.ReporterID == "" {
		view.ReporterID = AnonymousReporter
		n.logger.Debug("Report has no reporter", zap.String("report_id", view.ID))
	}
	if raw.Type != "traffic" && raw.Type != "suspicious" {
		n.logger.Debug("Report has unexpected type", zap.String("report_id", view.ID), zap.String("type", raw.Type))
	}
	if view.PlateNo == NotAvailable && raw.PlateNumber != "" && view.Category == CategoryTraffic {
		view.PlateNo = raw.PlateNumber
	}
	if view.ImageURL == "" {
		view.ImageURL = raw.Image
	}

	if raw.CreatedAt.Valid {
		view.CreatedAt = raw.CreatedAt.Time.In(n.loc)
	} else {
		view.CreatedAt = n.now().In(n.loc)
		view.TimeUnknown = true
		n.logger.Debug("Report has no usable created_at, using now", zap.String("report_id", view.ID))
	}
	view.TimeAgo = view.CreatedAt.Format(TimeAgoLayout)

	view.Title = Truncate(details.FullDescription, TitleMaxLength)
	if view.Title == "" {
		view.Title = DefaultTitle
	}
	return view
}

// NormalizeDocument decodes a stored document field by field and
// normalizes it. Wrong-typed fields fall back to their defaults alone.
func (n *Normalizer) NormalizeDocument(ctx context.Context, source string, doc bson.Raw) ReportView {
	if err := doc.Validate(); err != nil {
		n.logger.Debug("Malformed report document", zap.String("source", source), zap.Error(err))
	}
	return n.Normalize(ctx, source, decodeReport(doc))
}

// Key returns the reporter identifier: a reference's id or the raw string
func (v RefValue) Key() string {
	switch v.Kind {
	case RefInline:
		return v.Inline
	case RefPointer:
		return v.Ref.Key()
	default:
		return ""
	}
}

// Classify maps a stored type value to a category. Only the exact literal
// "traffic" is Traffic; other values are Suspicious unless strict is set.
func Classify(rawType string, strict bool) Category {
	switch {
	case rawType == "traffic":
		return CategoryTraffic
	case !strict:
		return CategorySuspicious
	case rawType == "suspicious":
		return CategorySuspicious
	default:
		return CategoryUnknown
	}
}

// Truncate keeps at most max code points of s
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	i := 0
	for pos := range s {
		if i == max {
			return s[:pos]
		}
		i++
	}
	return s
}
