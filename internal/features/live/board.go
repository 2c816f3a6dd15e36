package live

import (
	"context"
	"slices"
	"sync"
	"time"

	"campus-incidents/internal/config"
	"campus-incidents/internal/incident"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type Event string

const (
	EventReports  Event = "reports"
	EventFeedback Event = "feedback"
)

// ReportsState is an immutable view of the merged report list
type ReportsState struct {
	Items     []incident.ReportView         `json:"items"`
	Loading   bool                          `json:"loading"`
	Errors    map[string]*SubscriptionError `json:"errors,omitempty"`
	UpdatedAt time.Time                     `json:"updatedAt"`
}

type FeedbackState struct {
	Items     []incident.FeedbackView `json:"items"`
	Loading   bool                    `json:"loading"`
	Error     *SubscriptionError      `json:"error,omitempty"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

// Board owns the server-wide subscriptions: traffic and suspicious reports
// (merged into one list) and feedback. Lists are replaced, never patched.
type Board struct {
	cfg        *config.Config
	logger     *zap.Logger
	source     Source
	normalizer *incident.Normalizer

	mu             sync.RWMutex
	lists          map[string][]incident.ReportView
	loaded         map[string]bool
	errs           map[string]*SubscriptionError
	merged         []incident.ReportView
	reportsAt      time.Time
	feedback       []incident.FeedbackView
	feedbackLoaded bool
	feedbackErr    *SubscriptionError
	feedbackAt     time.Time

	lmu       sync.RWMutex
	listeners map[uint64]func(Event)
	nextID    uint64

	subs []*Subscription
}

func NewBoard(cfg *config.Config, source Source, normalizer *incident.Normalizer, logger *zap.Logger) *Board {
	b := &Board{
		cfg:        cfg,
		logger:     logger,
		source:     source,
		normalizer: normalizer,
		lists:      make(map[string][]incident.ReportView),
		loaded:     make(map[string]bool),
		errs:       make(map[string]*SubscriptionError),
		listeners:  make(map[uint64]func(Event)),
	}
	return b
}

func (b *Board) reportCollections() []string {
	return []string{b.cfg.TrafficCollection, b.cfg.SuspiciousCollection}
}

// Start opens one subscription per source collection
func (b *Board) Start(ctx context.Context) {
	for _, coll := range b.reportCollections() {
		subscriber := NewSubscriber(b.source, func(ctx context.Context, doc bson.Raw) incident.ReportView {
			return b.normalizer.NormalizeDocument(ctx, coll, doc)
		}, b.cfg.ResolveConcurrency, b.logger)
		sub := subscriber.Subscribe(ctx,
			Query{Collection: coll, OrderBy: "created_at", Descending: true},
			func(list []incident.ReportView) { b.setReports(coll, list) },
			func(err *SubscriptionError) { b.setReportsError(coll, err) },
		)
		b.subs = append(b.subs, sub)
	}

	feedbackSub := NewSubscriber(b.source, b.normalizer.NormalizeFeedback, b.cfg.ResolveConcurrency, b.logger)
	b.subs = append(b.subs, feedbackSub.Subscribe(ctx,
		Query{Collection: b.cfg.FeedbackCollection, OrderBy: "createdAt", Descending: true},
		b.setFeedback,
		b.setFeedbackError,
	))
	b.logger.Info("Live board started", zap.Strings("collections", append(b.reportCollections(), b.cfg.FeedbackCollection)))
}

// Stop unsubscribes everything; no update is applied after it returns
func (b *Board) Stop() {
	for _, sub := range b.subs {
		sub.Unsubscribe()
	}
	b.subs = nil
}

func (b *Board) setReports(coll string, list []incident.ReportView) {
	b.mu.Lock()
	b.lists[coll] = list
	b.loaded[coll] = true
	delete(b.errs, coll)
	parts := make([][]incident.ReportView, 0, len(b.lists))
	for _, c := range b.reportCollections() {
		parts = append(parts, b.lists[c])
	}
	b.merged = MergeReports(parts...)
	b.reportsAt = time.Now()
	b.mu.Unlock()

	b.notify(EventReports)
}

// setReportsError keeps the last-known list and flags the failed collection
func (b *Board) setReportsError(coll string, err *SubscriptionError) {
	b.mu.Lock()
	b.errs[coll] = err
	b.loaded[coll] = true
	b.mu.Unlock()

	b.notify(EventReports)
}

func (b *Board) setFeedback(list []incident.FeedbackView) {
	b.mu.Lock()
	b.feedback = list
	b.feedbackLoaded = true
	b.feedbackErr = nil
	b.feedbackAt = time.Now()
	b.mu.Unlock()

	b.notify(EventFeedback)
}

func (b *Board) setFeedbackError(err *SubscriptionError) {
	b.mu.Lock()
	b.feedbackErr = err
	b.feedbackLoaded = true
	b.mu.Unlock()

	b.notify(EventFeedback)
}

// Reports returns the current merged list. Callers must not modify Items.
func (b *Board) Reports() ReportsState {
	b.mu.RLock()
	defer b.mu.RUnlock()

	state := ReportsState{Items: b.merged, UpdatedAt: b.reportsAt}
	if state.Items == nil {
		state.Items = []incident.ReportView{}
	}
	for _, c := range b.reportCollections() {
		if !b.loaded[c] {
			state.Loading = true
		}
	}
	if len(b.errs) > 0 {
		state.Errors = make(map[string]*SubscriptionError, len(b.errs))
		for k, v := range b.errs {
			state.Errors[k] = v
		}
	}
	return state
}

// Feedback returns the current feedback list. Callers must not modify Items.
func (b *Board) Feedback() FeedbackState {
	b.mu.RLock()
	defer b.mu.RUnlock()

	state := FeedbackState{
		Items:     b.feedback,
		Loading:   !b.feedbackLoaded,
		Error:     b.feedbackErr,
		UpdatedAt: b.feedbackAt,
	}
	if state.Items == nil {
		state.Items = []incident.FeedbackView{}
	}
	return state
}

// Listen registers fn for change notifications. The returned cancel is
// synchronous: fn is not running and will not run once cancel returns.
func (b *Board) Listen(fn func(Event)) (cancel func()) {
	b.lmu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.lmu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.lmu.Lock()
			delete(b.listeners, id)
			b.lmu.Unlock()
		})
	}
}

func (b *Board) notify(ev Event) {
	b.lmu.RLock()
	defer b.lmu.RUnlock()
	for _, fn := range b.listeners {
		fn(ev)
	}
}

// MergeReports concatenates the per-collection lists and re-sorts them by
// createdAt descending. Ties keep concatenation order.
func MergeReports(lists ...[]incident.ReportView) []incident.ReportView {
	total := 0
	for _, l := range lists {
		total += len(l)
	}
	merged := make([]incident.ReportView, 0, total)
	for _, l := range lists {
		merged = append(merged, l...)
	}
	slices.SortStableFunc(merged, func(a, b incident.ReportView) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return merged
}
