package journal

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"

	"mediasort/internal/services"
)

// Lock guards a target tree against concurrent organizer runs.
type Lock struct {
	fl *flock.Flock
}

// AcquireLock takes the per-target lock, failing fast when another run
// holds it.
func AcquireLock(targetDir string) (*Lock, error) {
	lockPath := filepath.Join(targetDir, ".mediasort.lock")
	fl := flock.New(lockPath)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "journal", "lock",
			fmt.Sprintf("acquire %s", lockPath), err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrConfiguration, "journal", "lock",
			fmt.Sprintf("another mediasort run holds %s", lockPath), nil)
	}
	return &Lock{fl: fl}, nil
}

// Release drops the lock.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
