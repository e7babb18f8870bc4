package testutil

import "time"

// Clock provides deterministic timestamps for engine tests.
type Clock struct {
	current time.Time
	step    time.Duration
}

// Now is the fixed reference "now" used across tests: Thursday 2024-03-14,
// mid-morning UTC.
func Now() time.Time {
	return time.Date(2024, time.March, 14, 9, 30, 0, 0, time.UTC)
}

// NewClock returns a clock initialized to a fixed UTC start time.
func NewClock() *Clock {
	return &Clock{
		current: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		step:    time.Second,
	}
}

// Next returns the next timestamp, one step after the previous one.
func (c *Clock) Next() time.Time {
	c.current = c.current.Add(c.step)

	return c.current
}

// Date returns a UTC calendar date pointer. It panics on malformed input.
func Date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		t, err = time.Parse("2006-01-02T15:04", s)
		if err != nil {
			panic(err)
		}
	}

	return &t
}
