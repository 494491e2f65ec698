package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Millis converts t to epoch milliseconds, the unit persisted for absolute timestamps.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

