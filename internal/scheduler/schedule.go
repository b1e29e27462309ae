package scheduler

import "time"

// Schedule fires on wall-clock minute boundaries: Next returns the first
// whole minute strictly after t whose minute-of-hour is divisible by
// Minutes, the same instants as cron's "*/Minutes * * * *". It satisfies
// cron.Schedule without depending on it.
type Schedule struct {
	Minutes int
}

// Every clamps minutes to 1..60; 60 fires at the top of each hour.
func Every(minutes int) Schedule {
	if minutes < 1 {
		minutes = 1
	}
	if minutes > 60 {
		minutes = 60
	}
	return Schedule{Minutes: minutes}
}

func (s Schedule) Next(t time.Time) time.Time {
	n := s.Minutes
	if n < 1 {
		n = 1
	}
	next := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location()).Add(time.Minute)
	for next.Minute()%n != 0 {
		next = next.Add(time.Minute)
	}
	return next
}
