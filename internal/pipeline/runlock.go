package pipeline

import (
	"fmt"
	"os"
	"time"
)

const (
	lockWait     = time.Second
	lockInterval = 50 * time.Millisecond
)

// RunLock serializes runs against the same working directory through an
// exclusively-created lock file.
type RunLock struct {
	path string
}

// AcquireLock tries to create the lock file, retrying for about a second
// before giving up so back-to-back invocations do not trip over a run
// that is just finishing.
func AcquireLock(path string) (*RunLock, error) {
	deadline := time.Now().Add(lockWait)
	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			fmt.Fprintf(f, "pid=%d started=%s\n", os.Getpid(), time.Now().Format(time.RFC3339))
			f.Close()
			return &RunLock{path: path}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("acquire run lock: %w", err)
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("another run is in progress (lock file %s exists)", path)
		}
		time.Sleep(lockInterval)
	}
}

// Release removes the lock file. Safe to call more than once.
func (l *RunLock) Release() {
	if l == nil || l.path == "" {
		return
	}
	os.Remove(l.path)
	l.path = ""
}
