package incident

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

type MockFetcher struct {
	Docs  map[string]bson.Raw
	Err   error
	Panic bool
	Calls int
}

func (m *MockFetcher) FetchRef(ctx context.Context, ref DocRef) (bson.Raw, error) {
	m.Calls++
	if m.Panic {
		panic("boom")
	}
	if m.Err != nil {
		return nil, m.Err
	}
	doc, ok := m.Docs[ref.Collection+"/"+ref.Key()]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

func mustRaw(t *testing.T, v interface{}) bson.Raw {
	t.Helper()
	b, err := bson.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestResolver_Resolve(t *testing.T) {
	fetcher := &MockFetcher{Docs: map[string]bson.Raw{
		"details/t1": mustRaw(t, bson.M{"description": "Blocked lane", "plate_no": "ABC123", "image": "http://img/1.png"}),
		"details/s1": mustRaw(t, bson.M{"description": "Loitering", "gender": "Male", "height": 180}),
		"details/e1": mustRaw(t, bson.M{"other": true}),
	}}
	r := NewResolver(fetcher, time.Second, nil)

	tests := []struct {
		name       string
		reportType string
		desc       RefValue
		want       ResolvedDetails
	}{
		{
			name: "missing description",
			desc: RefValue{},
			want: ResolvedDetails{FullDescription: NoDescription, PlateNo: NotAvailable, SuspiciousDetails: NotAvailable},
		},
		{
			name: "inline string",
			desc: Inline("Walkway blocked"),
			want: ResolvedDetails{FullDescription: "Walkway blocked", PlateNo: NotAvailable, SuspiciousDetails: NotAvailable},
		},
		{
			name:       "traffic pointer",
			reportType: "traffic",
			desc:       Pointer("details", "t1"),
			want:       ResolvedDetails{FullDescription: "Blocked lane", PlateNo: "ABC123", SuspiciousDetails: NotAvailable, ImageURL: "http://img/1.png"},
		},
		{
			name:       "suspicious pointer with missing fields",
			reportType: "suspicious",
			desc:       Pointer("details", "s1"),
			want:       ResolvedDetails{FullDescription: "Loitering", PlateNo: NotAvailable, SuspiciousDetails: "Gender: Male, Cloth: N/A, Height: 180"},
		},
		{
			name:       "document without description",
			reportType: "traffic",
			desc:       Pointer("details", "e1"),
			want:       ResolvedDetails{FullDescription: NoDetailedDescription, PlateNo: NotAvailable, SuspiciousDetails: NotAvailable},
		},
		{
			name:       "dangling pointer",
			reportType: "traffic",
			desc:       Pointer("details", "gone"),
			want:       ResolvedDetails{FullDescription: NoDetailedDescription, PlateNo: NotAvailable, SuspiciousDetails: NotAvailable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(context.Background(), tt.reportType, tt.desc)
			if got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolver_FetchFailures(t *testing.T) {
	tests := []struct {
		name    string
		fetcher DocumentFetcher
	}{
		{"fetch error", &MockFetcher{Err: errors.New("connection reset")}},
		{"fetch panic", &MockFetcher{Panic: true}},
		{"no fetcher", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.fetcher, 0, nil)
			got := r.Resolve(context.Background(), "traffic", Pointer("details", "x"))
			if got.FullDescription != FetchFailed {
				t.Errorf("FullDescription = %q, want %q", got.FullDescription, FetchFailed)
			}
			if got.PlateNo != NotAvailable || got.SuspiciousDetails != NotAvailable {
				t.Errorf("unexpected details %+v", got)
			}
		})
	}
}

func TestResolver_InlineSkipsFetch(t *testing.T) {
	fetcher := &MockFetcher{}
	r := NewResolver(fetcher, 0, nil)
	r.Resolve(context.Background(), "traffic", Inline("text"))
	if fetcher.Calls != 0 {
		t.Errorf("expected no fetch for inline description, got %d", fetcher.Calls)
	}
}
