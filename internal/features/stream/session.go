package stream

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"campus-incidents/internal/features/live"
	"campus-incidents/internal/incident"

	"go.uber.org/zap"
)

type View string

const (
	ViewDashboard View = "dashboard"
	ViewReports   View = "reports"
	ViewFeedback  View = "feedback"
)

func ParseView(s string) (View, bool) {
	switch View(strings.ToLower(s)) {
	case ViewDashboard:
		return ViewDashboard, true
	case ViewReports:
		return ViewReports, true
	case ViewFeedback:
		return ViewFeedback, true
	}
	return "", false
}

// event is the board event a view re-renders on
func (v View) event() live.Event {
	if v == ViewFeedback {
		return live.EventFeedback
	}
	return live.EventReports
}

const (
	ActionView   = "view"
	ActionFilter = "filter"
	ActionSort   = "sort"
)

// ClientMessage is what a dashboard client sends over the socket
type ClientMessage struct {
	Action string `json:"action"`
	View   string `json:"view,omitempty"`
	Key    string `json:"key,omitempty"`
	Type   string `json:"type,omitempty"`
	Status string `json:"status,omitempty"`
	Start  string `json:"start,omitempty"`
	End    string `json:"end,omitempty"`
	Q      string `json:"q,omitempty"`
	Sort   string `json:"sort,omitempty"`
	Dir    string `json:"dir,omitempty"`
}

func (m ClientMessage) get(key string) string {
	switch key {
	case "type":
		return m.Type
	case "status":
		return m.Status
	case "start":
		return m.Start
	case "end":
		return m.End
	case "q":
		return m.Q
	case "sort":
		return m.Sort
	case "dir":
		return m.Dir
	}
	return ""
}

const (
	MessageSnapshot = "snapshot"
	MessageError    = "error"
)

// Outbound is every frame the server sends
type Outbound struct {
	Type      string               `json:"type"`
	SessionID string               `json:"sessionId"`
	View      View                 `json:"view,omitempty"`
	Filter    incident.FilterState `json:"filter"`
	Data      any                  `json:"data,omitempty"`
	Error     string               `json:"error,omitempty"`
	SentAt    time.Time            `json:"sentAt"`
}

// Conn is the part of a websocket connection a session uses
type Conn interface {
	ReadJSON(v any) error
	WriteJSON(v any) error
}

// Renderer produces the payload of a view for the current filter
type Renderer interface {
	Render(ctx context.Context, view View, filter incident.FilterState) any
}

// ListenFunc registers a board listener and returns its synchronous cancel
type ListenFunc func(fn func(live.Event)) (cancel func())

// Session is one websocket client. It holds exactly one board listener,
// for the view it is currently showing.
type Session struct {
	ID string

	conn     Conn
	listen   ListenFunc
	renderer Renderer
	loc      *time.Location
	logger   *zap.Logger

	mu       sync.Mutex
	view     View
	filter   incident.FilterState
	unlisten func()

	wake    chan struct{}
	replies chan Outbound
}

func NewSession(id string, conn Conn, listen ListenFunc, renderer Renderer, loc *time.Location, logger *zap.Logger) *Session {
	if loc == nil {
		loc = time.Local
	}
	return &Session{
		ID:       id,
		conn:     conn,
		listen:   listen,
		renderer: renderer,
		loc:      loc,
		logger:   logger,
		filter:   incident.DefaultFilter(),
		wake:     make(chan struct{}, 1),
		replies:  make(chan Outbound, 8),
	}
}

// Run serves the connection until the client goes away or ctx ends. No
// listener stays registered and no write happens after Run returns.
func (s *Session) Run(ctx context.Context, initial View) error {
	ctx, cancel := context.WithCancel(ctx)

	s.switchView(initial)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.writeLoop(ctx)
	}()

	defer func() {
		s.mu.Lock()
		if s.unlisten != nil {
			s.unlisten()
			s.unlisten = nil
		}
		s.mu.Unlock()
		cancel()
		wg.Wait()
	}()

	for {
		var msg ClientMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := s.handle(msg); err != nil {
			s.reply(Outbound{Type: MessageError, Error: err.Error()})
		}
	}
}

func (s *Session) handle(msg ClientMessage) error {
	switch msg.Action {
	case ActionView:
		v, ok := ParseView(msg.View)
		if !ok {
			return fmt.Errorf("unknown view %q", msg.View)
		}
		s.switchView(v)
	case ActionFilter:
		s.mu.Lock()
		current := s.filter.Sort
		s.mu.Unlock()

		f, err := incident.ParseFilter(msg.get, s.loc)
		if err != nil {
			return err
		}
		if msg.Sort == "" && msg.Dir == "" {
			f.Sort = current
		}
		s.mu.Lock()
		s.filter = f
		s.mu.Unlock()
		s.refresh()
	case ActionSort:
		if !incident.IsSortKey(msg.Key) {
			return fmt.Errorf("%w: unknown sort key %q", incident.ErrInvalidFilter, msg.Key)
		}
		s.mu.Lock()
		s.filter.Sort = s.filter.Sort.Toggle(msg.Key)
		s.mu.Unlock()
		s.refresh()
	default:
		return fmt.Errorf("unknown action %q", msg.Action)
	}
	return nil
}

// switchView drops the old listener before registering the new one
func (s *Session) switchView(v View) {
	s.mu.Lock()
	if s.unlisten != nil {
		s.unlisten()
		s.unlisten = nil
	}
	s.view = v
	want := v.event()
	s.unlisten = s.listen(func(ev live.Event) {
		if ev == want {
			s.refresh()
		}
	})
	s.mu.Unlock()

	s.refresh()
}

// refresh schedules a push; pending pushes collapse into one
func (s *Session) refresh() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Session) reply(out Outbound) {
	select {
	case s.replies <- out:
	default:
		s.logger.Warn("Dropping websocket reply, client is slow", zap.String("session_id", s.ID))
	}
}

func (s *Session) writeLoop(ctx context.Context) {
	for {
		var out Outbound
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
			s.mu.Lock()
			v, f := s.view, s.filter
			s.mu.Unlock()
			out = Outbound{
				Type:   MessageSnapshot,
				View:   v,
				Filter: f,
				Data:   s.renderer.Render(ctx, v, f),
			}
		case out = <-s.replies:
		}

		out.SessionID = s.ID
		out.SentAt = time.Now()
		if err := s.conn.WriteJSON(out); err != nil {
			s.logger.Debug("Websocket write failed", zap.String("session_id", s.ID), zap.Error(err))
			return
		}
	}
}
