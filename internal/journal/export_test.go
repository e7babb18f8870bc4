package journal

import (
	"context"
	"time"
)

// HoldExclusive takes the journal lock exclusively and returns its release.
func HoldExclusive(t interface{ Fatalf(string, ...any) }, dir string) func() {
	lock, err := acquireLock(context.Background(), dir, lockExclusive, time.Second)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	return lock.release
}
