package tasks

import "time"

const (
	DefaultStatsDays = 30
	MaxStatsDays     = 366
)

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type Stats struct {
	Total           int        `json:"total"`
	Completed       int        `json:"completed"`
	Pending         int        `json:"pending"`
	CompletedPerDay []DayCount `json:"completedPerDay"`
}

// BuildStats counts completed vs pending and buckets completed tasks by
// the UTC day of their last update, for the days ending at today.
// Every day in the window gets an entry, oldest first.
func BuildStats(list []Task, today time.Time, days int) Stats {
	if days <= 0 {
		days = DefaultStatsDays
	}
	today = today.UTC()
	end := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -(days - 1))

	st := Stats{CompletedPerDay: make([]DayCount, days)}
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i).Format(time.DateOnly)
		st.CompletedPerDay[i] = DayCount{Date: d}
		index[d] = i
	}

	for _, t := range list {
		st.Total++
		if !t.Completed {
			st.Pending++
			continue
		}
		st.Completed++
		if i, ok := index[t.UpdatedAt.UTC().Format(time.DateOnly)]; ok {
			st.CompletedPerDay[i].Count++
		}
	}
	return st
}
