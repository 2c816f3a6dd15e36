package incident

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var ErrInvalidFilter = errors.New("invalid filter")

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

const FilterAll = "all"

// DateLayout is the calendar-date format accepted for range bounds
const DateLayout = "2006-01-02"

type SortState struct {
	Key       string        `json:"key"`
	Direction SortDirection `json:"direction"`
}

func DefaultSort() SortState {
	return SortState{Key: "createdAt", Direction: SortDesc}
}

// Toggle flips the direction when key is already active, otherwise sorts key ascending
func (s SortState) Toggle(key string) SortState {
	if s.Key == key {
		if s.Direction == SortAsc {
			return SortState{Key: key, Direction: SortDesc}
		}
		return SortState{Key: key, Direction: SortAsc}
	}
	return SortState{Key: key, Direction: SortAsc}
}

// DateRange holds calendar dates; a nil bound is open on that side
type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

type FilterState struct {
	Type       string    `json:"type"`
	Status     string    `json:"status"`
	DateRange  DateRange `json:"dateRange"`
	SearchText string    `json:"searchText"`
	Sort       SortState `json:"sort"`
}

func DefaultFilter() FilterState {
	return FilterState{Type: FilterAll, Status: FilterAll, Sort: DefaultSort()}
}

type sortField struct {
	date bool
	get  func(r *ReportView) string
}

var sortFields = map[string]sortField{
	"createdAt":         {date: true},
	"id":                {get: func(r *ReportView) string { return r.ID }},
	"status":            {get: func(r *ReportView) string { return r.Status }},
	"category":          {get: func(r *ReportView) string { return string(r.Category) }},
	"type":              {get: func(r *ReportView) string { return string(r.Category) }},
	"reporterId":        {get: func(r *ReportView) string { return r.ReporterID }},
	"title":             {get: func(r *ReportView) string { return r.Title }},
	"plateNo":           {get: func(r *ReportView) string { return r.PlateNo }},
	"suspiciousDetails": {get: func(r *ReportView) string { return r.SuspiciousDetails }},
	"timeAgo":           {get: func(r *ReportView) string { return r.TimeAgo }},
}

func IsSortKey(key string) bool {
	_, ok := sortFields[key]
	return ok
}

// Query runs type, status, date and search filters in that order, then a
// stable sort. The input slice is never modified.
func Query(reports []ReportView, f FilterState, loc *time.Location) []ReportView {
	if loc == nil {
		loc = time.Local
	}
	result := FilterByType(reports, f.Type)
	result = FilterByStatus(result, f.Status)
	result = FilterByDate(result, f.DateRange, loc)
	result = Search(result, f.SearchText)
	return Sort(result, f.Sort)
}

func FilterByType(reports []ReportView, typ string) []ReportView {
	if typ == "" || strings.EqualFold(typ, FilterAll) {
		return slices.Clone(reports)
	}
	return filter(reports, func(r *ReportView) bool {
		return strings.EqualFold(string(r.Category), typ)
	})
}

func FilterByStatus(reports []ReportView, status string) []ReportView {
	if status == "" || strings.EqualFold(status, FilterAll) {
		return slices.Clone(reports)
	}
	return filter(reports, func(r *ReportView) bool {
		return strings.EqualFold(r.Status, status)
	})
}

// FilterByDate keeps reports inside [start 00:00:00.000, end 23:59:59.999] local time
func FilterByDate(reports []ReportView, dr DateRange, loc *time.Location) []ReportView {
	if dr.Start == nil && dr.End == nil {
		return slices.Clone(reports)
	}
	var from, to time.Time
	if dr.Start != nil {
		y, m, d := dr.Start.Date()
		from = time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
	if dr.End != nil {
		y, m, d := dr.End.Date()
		to = time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc)
	}
	return filter(reports, func(r *ReportView) bool {
		if dr.Start != nil && r.CreatedAt.Before(from) {
			return false
		}
		if dr.End != nil && r.CreatedAt.After(to) {
			return false
		}
		return true
	})
}

// Search keeps reports where any searchable field contains the query, case-insensitively
func Search(reports []ReportView, text string) []ReportView {
	q := strings.ToLower(strings.TrimSpace(text))
	if q == "" {
		return slices.Clone(reports)
	}
	return filter(reports, func(r *ReportView) bool {
		for _, field := range []string{
			r.ID,
			r.Status,
			string(r.Category),
			r.ReporterID,
			r.Title,
			r.FullDescription,
			r.PlateNo,
			r.SuspiciousDetails,
		} {
			if strings.Contains(strings.ToLower(field), q) {
				return true
			}
		}
		return false
	})
}

// Sort orders a copy of reports by the sort key. Ties keep input order.
func Sort(reports []ReportView, s SortState) []ReportView {
	result := slices.Clone(reports)
	field, ok := sortFields[s.Key]
	if !ok {
		return result
	}
	dir := 1
	if s.Direction == SortDesc {
		dir = -1
	}
	slices.SortStableFunc(result, func(a, b ReportView) int {
		if field.date {
			return dir * a.CreatedAt.Compare(b.CreatedAt)
		}
		return dir * strings.Compare(strings.ToLower(field.get(&a)), strings.ToLower(field.get(&b)))
	})
	return result
}

func filter(reports []ReportView, keep func(r *ReportView) bool) []ReportView {
	result := make([]ReportView, 0, len(reports))
	for i := range reports {
		if keep(&reports[i]) {
			result = append(result, reports[i])
		}
	}
	return result
}

// ParseFilter builds a FilterState from request parameters
// (type, status, start, end, q, sort, dir). Missing values keep defaults.
func ParseFilter(get func(key string) string, loc *time.Location) (FilterState, error) {
	if loc == nil {
		loc = time.Local
	}
	f := DefaultFilter()

	if v := strings.TrimSpace(get("type")); v != "" {
		f.Type = strings.ToLower(v)
	}
	if v := strings.TrimSpace(get("status")); v != "" {
		f.Status = strings.ToLower(v)
	}
	f.SearchText = get("q")

	for _, b := range []struct {
		key string
		dst **time.Time
	}{{"start", &f.DateRange.Start}, {"end", &f.DateRange.End}} {
		v := strings.TrimSpace(get(b.key))
		if v == "" {
			continue
		}
		t, err := time.ParseInLocation(DateLayout, v, loc)
		if err != nil {
			return f, fmt.Errorf("%w: %s must be YYYY-MM-DD", ErrInvalidFilter, b.key)
		}
		*b.dst = &t
	}

	if v := get("sort"); v != "" {
		if !IsSortKey(v) {
			return f, fmt.Errorf("%w: unknown sort key %q", ErrInvalidFilter, v)
		}
		f.Sort = SortState{Key: v, Direction: SortAsc}
	}
	switch SortDirection(strings.ToLower(get("dir"))) {
	case "":
	case SortAsc:
		f.Sort.Direction = SortAsc
	case SortDesc:
		f.Sort.Direction = SortDesc
	default:
		return f, fmt.Errorf("%w: dir must be asc or desc", ErrInvalidFilter)
	}
	return f, nil
}
