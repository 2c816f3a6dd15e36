package incident

import (
	"math"
	"strings"
	"time"
)

type KPISet struct {
	PendingCount int            `json:"pendingCount" bson:"pending_count"`
	TodayCount   int            `json:"todayCount" bson:"today_count"`
	Total        int            `json:"total" bson:"total"`
	TotalByType  map[string]int `json:"totalByType" bson:"total_by_type"`
}

// Distribution is the rounded percentage share per category key
type Distribution map[string]int

// Aggregate derives KPI counters from the current list. "Today" is the
// calendar date of now in loc.
func Aggregate(reports []ReportView, now time.Time, loc *time.Location) KPISet {
	if loc == nil {
		loc = time.Local
	}
	kpi := KPISet{
		Total: len(reports),
		TotalByType: map[string]int{
			CategoryTraffic.Key():    0,
			CategorySuspicious.Key(): 0,
		},
	}

	ty, tm, td := now.In(loc).Date()
	for _, r := range reports {
		if strings.EqualFold(r.Status, StatusPending) {
			kpi.PendingCount++
		}
		if y, m, d := r.CreatedAt.In(loc).Date(); y == ty && m == tm && d == td {
			kpi.TodayCount++
		}
		kpi.TotalByType[r.Category.Key()]++
	}
	return kpi
}

func (k KPISet) NonPendingCount() int {
	return k.Total - k.PendingCount
}

// Distribution returns round(count/total*100) per category; all zero when Total is 0
func (k KPISet) Distribution() Distribution {
	dist := make(Distribution, len(k.TotalByType))
	for key, count := range k.TotalByType {
		if k.Total == 0 {
			dist[key] = 0
			continue
		}
		dist[key] = int(math.Round(float64(count) / float64(k.Total) * 100))
	}
	return dist
}
