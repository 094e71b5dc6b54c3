package search

import (
	"sort"
	"time"
)

// InstanceStats tracks the reliability record of one backend instance.
type InstanceStats struct {
	Failures     int           `json:"failures"`
	LastSuccess  time.Time     `json:"last_success"`
	ResponseTime time.Duration `json:"avg_response_time"`
}

// RankInstances orders instance URLs for a search attempt. The primary
// comes first, the rest follow by ascending failure count with the
// most recently successful instance breaking ties. Instances with
// identical records keep their declared order, so the ranking is
// deterministic for a given stats table.
func RankInstances(primary string, instances []string, stats map[string]InstanceStats) []string {
	rest := make([]string, 0, len(instances))
	for _, instance := range instances {
		if instance == primary {
			continue
		}
		rest = append(rest, instance)
	}

	sort.SliceStable(rest, func(i, j int) bool {
		si, sj := stats[rest[i]], stats[rest[j]]
		if si.Failures != sj.Failures {
			return si.Failures < sj.Failures
		}
		return si.LastSuccess.After(sj.LastSuccess)
	})

	ranked := make([]string, 0, len(instances))
	if primary != "" {
		ranked = append(ranked, primary)
	}
	return append(ranked, rest...)
}
