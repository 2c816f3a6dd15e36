package incident

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func day(d, h int) time.Time {
	return time.Date(2024, 5, d, h, 0, 0, 0, time.UTC)
}

func sampleReports() []ReportView {
	return []ReportView{
		{ID: "a1", Category: CategoryTraffic, Status: "Pending", ReporterID: "u1", Title: "Car on walkway", PlateNo: "ABC123", CreatedAt: day(10, 9)},
		{ID: "b2", Category: CategorySuspicious, Status: "resolved", ReporterID: "u2", Title: "Loitering", SuspiciousDetails: "Gender: M", CreatedAt: day(9, 23)},
		{ID: "c3", Category: CategoryTraffic, Status: "in review", ReporterID: "u3", Title: "Blocked gate", PlateNo: "XYZ", CreatedAt: day(8, 12)},
		{ID: "d4", Category: CategorySuspicious, Status: "pending", ReporterID: "u1", Title: "Open window", CreatedAt: day(10, 9)},
	}
}

func ids(reports []ReportView) []string {
	out := make([]string, len(reports))
	for i, r := range reports {
		out[i] = r.ID
	}
	return out
}

func equalIDs(got []ReportView, want ...string) bool {
	g := ids(got)
	if len(g) != len(want) {
		return false
	}
	for i := range g {
		if g[i] != want[i] {
			return false
		}
	}
	return true
}

func TestAggregate(t *testing.T) {
	reports := sampleReports()
	kpi := Aggregate(reports, day(10, 15), time.UTC)

	if kpi.Total != 4 {
		t.Errorf("Total = %d, want 4", kpi.Total)
	}
	if kpi.PendingCount != 2 {
		t.Errorf("PendingCount = %d, want 2", kpi.PendingCount)
	}
	if kpi.TodayCount != 2 {
		t.Errorf("TodayCount = %d, want 2", kpi.TodayCount)
	}
	if kpi.PendingCount+kpi.NonPendingCount() != kpi.Total {
		t.Error("pending and non-pending must add up to total")
	}
	sum := 0
	for _, v := range kpi.TotalByType {
		sum += v
	}
	if sum != kpi.Total {
		t.Errorf("TotalByType sums to %d, want %d", sum, kpi.Total)
	}
}

func TestAggregate_TodayUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	// 2024-05-09 20:00 UTC is 2024-05-10 04:00 in UTC+8
	reports := []ReportView{{ID: "x", Category: CategoryTraffic, CreatedAt: day(9, 20)}}

	if got := Aggregate(reports, day(10, 1), loc).TodayCount; got != 1 {
		t.Errorf("TodayCount in UTC+8 = %d, want 1", got)
	}
	if got := Aggregate(reports, day(10, 1), time.UTC).TodayCount; got != 0 {
		t.Errorf("TodayCount in UTC = %d, want 0", got)
	}
}

func TestAggregate_Empty(t *testing.T) {
	kpi := Aggregate(nil, testNow, time.UTC)
	dist := kpi.Distribution()
	if kpi.Total != 0 || dist["traffic"] != 0 || dist["suspicious"] != 0 {
		t.Errorf("unexpected empty aggregate %+v %v", kpi, dist)
	}
}

func TestDistribution_Rounding(t *testing.T) {
	kpi := KPISet{Total: 3, TotalByType: map[string]int{"traffic": 1, "suspicious": 2}}
	dist := kpi.Distribution()
	if dist["traffic"] != 33 || dist["suspicious"] != 67 {
		t.Errorf("Distribution = %v", dist)
	}
}

func TestFilters(t *testing.T) {
	reports := sampleReports()
	start := day(9, 0)
	end := day(9, 0)

	tests := []struct {
		name string
		f    FilterState
		want []string
	}{
		{"all", DefaultFilter(), []string{"a1", "d4", "b2", "c3"}},
		{"type traffic", FilterState{Type: "traffic", Sort: DefaultSort()}, []string{"a1", "c3"}},
		{"status is case-insensitive", FilterState{Type: FilterAll, Status: "pending", Sort: DefaultSort()}, []string{"a1", "d4"}},
		{"single day range", FilterState{DateRange: DateRange{Start: &start, End: &end}, Sort: DefaultSort()}, []string{"b2"}},
		{"open start", FilterState{DateRange: DateRange{End: &end}, Sort: DefaultSort()}, []string{"b2", "c3"}},
		{"search plate", FilterState{SearchText: "abc", Sort: DefaultSort()}, []string{"a1"}},
		{"search reporter", FilterState{SearchText: "U1", Sort: DefaultSort()}, []string{"a1", "d4"}},
		{"search and type", FilterState{Type: "suspicious", SearchText: "gender", Sort: DefaultSort()}, []string{"b2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Query(reports, tt.f, time.UTC)
			if !equalIDs(got, tt.want...) {
				t.Errorf("Query() = %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestQuery_DoesNotModifyInput(t *testing.T) {
	reports := sampleReports()
	before := ids(reports)
	Query(reports, FilterState{Sort: SortState{Key: "id", Direction: SortDesc}}, time.UTC)
	if !equalIDs(reports, before...) {
		t.Errorf("input reordered: %v", ids(reports))
	}
}

func TestSort_StableOnTies(t *testing.T) {
	reports := sampleReports()

	desc := Sort(reports, SortState{Key: "createdAt", Direction: SortDesc})
	if !equalIDs(desc, "a1", "d4", "b2", "c3") {
		t.Errorf("desc = %v", ids(desc))
	}
	asc := Sort(reports, SortState{Key: "createdAt", Direction: SortAsc})
	if !equalIDs(asc, "c3", "b2", "a1", "d4") {
		t.Errorf("asc = %v", ids(asc))
	}
	byStatus := Sort(reports, SortState{Key: "status", Direction: SortAsc})
	if !equalIDs(byStatus, "c3", "a1", "d4", "b2") {
		t.Errorf("status asc = %v", ids(byStatus))
	}
}

func TestSortState_Toggle(t *testing.T) {
	s := DefaultSort()
	if got := s.Toggle("createdAt"); got.Direction != SortAsc {
		t.Errorf("toggle active key: %+v", got)
	}
	if got := s.Toggle("status"); got != (SortState{Key: "status", Direction: SortAsc}) {
		t.Errorf("toggle new key: %+v", got)
	}
	if got := s.Toggle("status").Toggle("status"); got.Direction != SortDesc {
		t.Errorf("double toggle: %+v", got)
	}
}

func TestParseFilter(t *testing.T) {
	params := func(m map[string]string) func(string) string {
		return func(k string) string { return m[k] }
	}

	f, err := ParseFilter(params(map[string]string{
		"type": "Traffic", "status": "Pending", "start": "2024-05-01", "end": "2024-05-10", "q": "gate", "sort": "status", "dir": "desc",
	}), time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Type != "traffic" || f.Status != "pending" || f.SearchText != "gate" {
		t.Errorf("unexpected filter %+v", f)
	}
	if f.Sort != (SortState{Key: "status", Direction: SortDesc}) {
		t.Errorf("Sort = %+v", f.Sort)
	}
	if f.DateRange.Start == nil || f.DateRange.Start.Day() != 1 || f.DateRange.End == nil || f.DateRange.End.Day() != 10 {
		t.Errorf("DateRange = %+v", f.DateRange)
	}

	def, err := ParseFilter(params(nil), time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.Type != FilterAll || def.Status != FilterAll || def.Sort != DefaultSort() {
		t.Errorf("defaults = %+v", def)
	}

	for _, bad := range []map[string]string{
		{"start": "10/05/2024"},
		{"sort": "password"},
		{"dir": "sideways"},
	} {
		if _, err := ParseFilter(params(bad), time.UTC); !errors.Is(err, ErrInvalidFilter) {
			t.Errorf("ParseFilter(%v) error = %v, want ErrInvalidFilter", bad, err)
		}
	}
}

func TestSearch_LongerQueryNarrows(t *testing.T) {
	reports := append(sampleReports(),
		ReportView{ID: "e5", Category: CategoryTraffic, Status: "pending", ReporterID: "u4", Title: "Gate B barrier stuck", CreatedAt: day(7, 8)},
		ReportView{ID: "f6", Category: CategorySuspicious, Status: "resolved", ReporterID: "u5", Title: "Gate A left open", CreatedAt: day(7, 9)},
	)

	pairs := []struct{ short, long string }{
		{"a", "ab"},
		{"gate", "gate b"},
		{"pend", "pending"},
		{"", "u1"},
		{"x", "xyz"},
		{"  GATE", "gate a"},
	}

	for _, p := range pairs {
		wide := map[string]bool{}
		for _, r := range Search(reports, p.short) {
			wide[r.ID] = true
		}
		narrow := Search(reports, p.long)
		for _, r := range narrow {
			if !wide[r.ID] {
				t.Errorf("%q matched %s but %q did not", p.long, r.ID, p.short)
			}
		}
		if len(narrow) > len(wide) {
			t.Errorf("%q returned %d results, more than %q (%d)", p.long, len(narrow), p.short, len(wide))
		}
	}
}

func TestFilterByDate_EndDayIsInclusive(t *testing.T) {
	utc8 := time.FixedZone("UTC+8", 8*3600)
	tests := []struct {
		name string
		loc  *time.Location
	}{
		{"utc", time.UTC},
		{"utc+8", utc8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			end := time.Date(2024, 5, 10, 0, 0, 0, 0, tt.loc)
			reports := []ReportView{
				{ID: "last-ms", CreatedAt: time.Date(2024, 5, 10, 23, 59, 59, int(999*time.Millisecond), tt.loc)},
				{ID: "midnight", CreatedAt: time.Date(2024, 5, 11, 0, 0, 0, 0, tt.loc)},
				{ID: "noon", CreatedAt: time.Date(2024, 5, 10, 12, 0, 0, 0, tt.loc)},
			}

			got := FilterByDate(reports, DateRange{End: &end}, tt.loc)

			if !equalIDs(got, "last-ms", "noon") {
				t.Errorf("got %v, want [last-ms noon]", ids(got))
			}
		})
	}
}

func TestSort_DirectionRoundTrip(t *testing.T) {
	inputs := [][]ReportView{sampleReports()}
	reversed := sampleReports()
	slices.Reverse(reversed)
	inputs = append(inputs, reversed)

	for _, key := range []string{"status", "createdAt", "reporterId"} {
		for i, in := range inputs {
			asc := SortState{Key: key, Direction: SortAsc}
			desc := SortState{Key: key, Direction: SortDesc}

			direct := Sort(in, asc)
			roundTrip := Sort(Sort(in, desc), asc)

			if !slices.Equal(ids(roundTrip), ids(direct)) {
				t.Errorf("key %s input %d: desc then asc = %v, want %v", key, i, ids(roundTrip), ids(direct))
			}
		}
	}

	// a1 and d4 tie on status; each input order survives
	if got := Sort(inputs[0], SortState{Key: "status", Direction: SortAsc}); !equalIDs(got, "c3", "a1", "d4", "b2") {
		t.Errorf("forward input sorted to %v", ids(got))
	}
	if got := Sort(inputs[1], SortState{Key: "status", Direction: SortAsc}); !equalIDs(got, "c3", "d4", "a1", "b2") {
		t.Errorf("reversed input sorted to %v", ids(got))
	}
}
