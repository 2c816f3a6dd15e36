package view

import "campus-incidents/internal/incident"

type KPICard struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value int    `json:"value"`
}

type DistributionSlice struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Percent  int    `json:"percent"`
}

func KPICards(k incident.KPISet) []KPICard {
	return []KPICard{
		{Key: "pending", Label: "Pending Reports", Value: k.PendingCount},
		{Key: "today", Label: "Today's Incidents", Value: k.TodayCount},
		{Key: "total", Label: "Total Reports", Value: k.Total},
	}
}

// DistributionSlices lists traffic then suspicious, then any other category present
func DistributionSlices(k incident.KPISet) []DistributionSlice {
	dist := k.Distribution()
	slices := []DistributionSlice{}
	seen := map[string]bool{}
	order := []string{incident.CategoryTraffic.Key(), incident.CategorySuspicious.Key(), incident.CategoryUnknown.Key()}
	for _, key := range order {
		count, ok := k.TotalByType[key]
		if !ok {
			continue
		}
		seen[key] = true
		slices = append(slices, DistributionSlice{Category: key, Count: count, Percent: dist[key]})
	}
	for key, count := range k.TotalByType {
		if !seen[key] {
			slices = append(slices, DistributionSlice{Category: key, Count: count, Percent: dist[key]})
		}
	}
	return slices
}
