package tasks

import (
	"testing"
	"time"
)

func TestBuildStats(t *testing.T) {
	today := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	day := func(d int) time.Time { return time.Date(2026, 3, d, 9, 30, 0, 0, time.UTC) }

	list := []Task{
		{ID: 1, Completed: true, UpdatedAt: day(10)},
		{ID: 2, Completed: true, UpdatedAt: day(10)},
		{ID: 3, Completed: true, UpdatedAt: day(8)},
		{ID: 4, Completed: false, UpdatedAt: day(9)},
		{ID: 5, Completed: true, UpdatedAt: day(1)}, // outside the window
	}

	st := BuildStats(list, today, 3)
	if st.Total != 5 || st.Completed != 4 || st.Pending != 1 {
		t.Fatalf("counts: %+v", st)
	}
	want := []DayCount{
		{Date: "2026-03-08", Count: 1},
		{Date: "2026-03-09", Count: 0},
		{Date: "2026-03-10", Count: 2},
	}
	if len(st.CompletedPerDay) != len(want) {
		t.Fatalf("buckets: %+v", st.CompletedPerDay)
	}
	for i := range want {
		if st.CompletedPerDay[i] != want[i] {
			t.Fatalf("bucket %d = %+v want %+v", i, st.CompletedPerDay[i], want[i])
		}
	}
}

func TestBuildStats_EmptyAndDefaultWindow(t *testing.T) {
	st := BuildStats(nil, time.Now(), 0)
	if st.Total != 0 || len(st.CompletedPerDay) != DefaultStatsDays {
		t.Fatalf("unexpected: total=%d buckets=%d", st.Total, len(st.CompletedPerDay))
	}
	for _, b := range st.CompletedPerDay {
		if b.Count != 0 {
			t.Fatalf("expected zero buckets, got %+v", b)
		}
	}
}

func TestBuildStats_UsesUTCDay(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	today := time.Date(2026, 3, 10, 22, 0, 0, 0, loc) // 03:00 on the 11th UTC
	list := []Task{{Completed: true, UpdatedAt: time.Date(2026, 3, 10, 21, 0, 0, 0, loc)}}

	st := BuildStats(list, today, 1)
	if st.CompletedPerDay[0].Date != "2026-03-11" || st.CompletedPerDay[0].Count != 1 {
		t.Fatalf("got %+v", st.CompletedPerDay)
	}
}
