package stream

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"campus-incidents/internal/features/live"
	"campus-incidents/internal/incident"

	"go.uber.org/zap"
)

type fakeConn struct {
	in  chan ClientMessage
	out chan Outbound
}

func newFakeConn() *fakeConn {
	return &fakeConn{in: make(chan ClientMessage), out: make(chan Outbound, 32)}
}

func (c *fakeConn) ReadJSON(v any) error {
	msg, ok := <-c.in
	if !ok {
		return io.EOF
	}
	*(v.(*ClientMessage)) = msg
	return nil
}

func (c *fakeConn) WriteJSON(v any) error {
	c.out <- v.(Outbound)
	return nil
}

type fakeBoard struct {
	mu        sync.Mutex
	listeners map[int]func(live.Event)
	next      int
	maxActive int
}

func newFakeBoard() *fakeBoard {
	return &fakeBoard{listeners: map[int]func(live.Event){}}
}

func (b *fakeBoard) Listen(fn func(live.Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	b.listeners[id] = fn
	if len(b.listeners) > b.maxActive {
		b.maxActive = len(b.listeners)
	}
	return func() {
		b.mu.Lock()
		delete(b.listeners, id)
		b.mu.Unlock()
	}
}

func (b *fakeBoard) emit(ev live.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, fn := range b.listeners {
		fn(ev)
	}
}

func (b *fakeBoard) active() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}

type fakeRenderer struct{}

func (fakeRenderer) Render(ctx context.Context, v View, f incident.FilterState) any {
	return string(v)
}

func next(t *testing.T, conn *fakeConn) Outbound {
	t.Helper()
	select {
	case out := <-conn.out:
		return out
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a frame")
		return Outbound{}
	}
}

func startSession(t *testing.T, initial View) (*fakeConn, *fakeBoard, chan error) {
	t.Helper()
	conn := newFakeConn()
	board := newFakeBoard()
	session := NewSession("s-1", conn, board.Listen, fakeRenderer{}, time.UTC, zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- session.Run(context.Background(), initial) }()
	return conn, board, done
}

func TestSessionPushesInitialView(t *testing.T) {
	conn, board, done := startSession(t, ViewReports)

	out := next(t, conn)
	if out.Type != MessageSnapshot || out.View != ViewReports || out.Data != "reports" || out.SessionID != "s-1" {
		t.Errorf("unexpected first frame %+v", out)
	}
	if out.Filter.Sort != incident.DefaultSort() {
		t.Errorf("expected default sort, got %+v", out.Filter.Sort)
	}

	close(conn.in)
	if err := <-done; !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF, got %v", err)
	}
	if board.active() != 0 {
		t.Errorf("expected no listeners after close, got %d", board.active())
	}
}

func TestSessionSwitchViewKeepsOneListener(t *testing.T) {
	conn, board, done := startSession(t, ViewDashboard)
	next(t, conn)

	conn.in <- ClientMessage{Action: ActionView, View: "feedback"}
	out := next(t, conn)
	if out.View != ViewFeedback {
		t.Fatalf("expected feedback view, got %+v", out)
	}
	if board.maxActive != 1 {
		t.Errorf("expected at most one listener at a time, saw %d", board.maxActive)
	}

	// report changes do not concern the feedback view
	board.emit(live.EventReports)
	board.emit(live.EventFeedback)
	out = next(t, conn)
	if out.View != ViewFeedback {
		t.Errorf("unexpected frame %+v", out)
	}
	select {
	case extra := <-conn.out:
		t.Errorf("unexpected extra frame %+v", extra)
	case <-time.After(50 * time.Millisecond):
	}

	close(conn.in)
	<-done
}

func TestSessionSortAndFilter(t *testing.T) {
	conn, _, done := startSession(t, ViewReports)
	next(t, conn)

	conn.in <- ClientMessage{Action: ActionSort, Key: "status"}
	out := next(t, conn)
	if out.Filter.Sort != (incident.SortState{Key: "status", Direction: incident.SortAsc}) {
		t.Errorf("expected status asc, got %+v", out.Filter.Sort)
	}

	conn.in <- ClientMessage{Action: ActionSort, Key: "status"}
	out = next(t, conn)
	if out.Filter.Sort.Direction != incident.SortDesc {
		t.Errorf("expected toggle to desc, got %+v", out.Filter.Sort)
	}

	conn.in <- ClientMessage{Action: ActionFilter, Type: "traffic", Q: "car"}
	out = next(t, conn)
	if out.Filter.Type != "traffic" || out.Filter.SearchText != "car" {
		t.Errorf("unexpected filter %+v", out.Filter)
	}
	if out.Filter.Sort.Key != "status" || out.Filter.Sort.Direction != incident.SortDesc {
		t.Errorf("filter should keep the current sort, got %+v", out.Filter.Sort)
	}

	close(conn.in)
	<-done
}

func TestSessionRejectsBadMessages(t *testing.T) {
	conn, _, done := startSession(t, ViewDashboard)
	next(t, conn)

	for _, msg := range []ClientMessage{
		{Action: ActionSort, Key: "password"},
		{Action: ActionView, View: "settings"},
		{Action: ActionFilter, Start: "yesterday"},
		{Action: "delete"},
	} {
		conn.in <- msg
		out := next(t, conn)
		if out.Type != MessageError || out.Error == "" {
			t.Errorf("expected error frame for %+v, got %+v", msg, out)
		}
	}

	close(conn.in)
	<-done
}

func TestParseView(t *testing.T) {
	if v, ok := ParseView("Reports"); !ok || v != ViewReports {
		t.Errorf("expected reports, got %q %v", v, ok)
	}
	if _, ok := ParseView(""); ok {
		t.Error("empty view should not parse")
	}
}
