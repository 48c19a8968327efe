package report

import "sort"

type Level string

const (
	// LevelNearing means spending reached 80% of the category limit.
	LevelNearing Level = "nearing"
	// LevelExceeded means spending reached or passed the category limit.
	LevelExceeded Level = "exceeded"
)

// Alert is one category over or near its configured limit.
type Alert struct {
	Category string  `json:"category"`
	Spent    float64 `json:"spent"`
	Limit    float64 `json:"limit"`
	Percent  float64 `json:"percent"`
	Level    Level   `json:"level"`
}

// EvaluateAlerts compares a month's category breakdown against the
// configured limits. Categories with a limit of zero or less never alert.
// Results are sorted by category name for stable output.
func EvaluateAlerts(breakdown, limits map[string]float64) []Alert {
	var alerts []Alert
	for category, limit := range limits {
		if limit <= 0 {
			continue
		}
		spent := breakdown[category]
		percent := spent / limit * 100

		var level Level
		switch {
		case percent >= 100:
			level = LevelExceeded
		case percent >= 80:
			level = LevelNearing
		default:
			continue
		}

		alerts = append(alerts, Alert{
			Category: category,
			Spent:    spent,
			Limit:    limit,
			Percent:  percent,
			Level:    level,
		})
	}

	sort.Slice(alerts, func(i, j int) bool { return alerts[i].Category < alerts[j].Category })
	return alerts
}
