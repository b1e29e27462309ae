package scheduler

import (
	"testing"
	"time"
)

func TestSchedule_NextAlignsToWallClock(t *testing.T) {
	loc := time.UTC
	at := func(h, m, s int) time.Time { return time.Date(2026, 3, 14, h, m, s, 0, loc) }

	cases := []struct {
		every int
		now   time.Time
		want  time.Time
	}{
		{10, at(9, 3, 12), at(9, 10, 0)},
		{10, at(9, 10, 0), at(9, 20, 0)}, // strictly after
		{10, at(9, 59, 59), at(10, 0, 0)},
		{20, at(9, 41, 0), at(10, 0, 0)},
		{1, at(9, 41, 30), at(9, 42, 0)},
		{60, at(9, 1, 0), at(10, 0, 0)},
		{7, at(9, 57, 0), at(10, 0, 0)}, // cron */7 restarts each hour
	}
	for _, tc := range cases {
		got := Every(tc.every).Next(tc.now)
		if !got.Equal(tc.want) {
			t.Errorf("Every(%d).Next(%s) = %s, want %s", tc.every, tc.now.Format(time.TimeOnly), got.Format(time.TimeOnly), tc.want.Format(time.TimeOnly))
		}
	}
}

func TestSchedule_IndependentOfProcessStart(t *testing.T) {
	s := Every(10)
	a := s.Next(time.Date(2026, 1, 1, 12, 1, 0, 0, time.UTC))
	b := s.Next(time.Date(2026, 1, 1, 12, 8, 59, 0, time.UTC))
	if !a.Equal(b) {
		t.Fatalf("fire time should depend on the clock only: %s vs %s", a, b)
	}
}

func TestEvery_Clamps(t *testing.T) {
	if Every(0).Minutes != 1 || Every(500).Minutes != 60 {
		t.Fatalf("clamp failed: %d %d", Every(0).Minutes, Every(500).Minutes)
	}
}
