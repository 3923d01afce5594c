package ports

import "time"

// Clock abstracts the time source so timestamp-bearing output (invoice
// numbers, report metadata, processed dates) is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
