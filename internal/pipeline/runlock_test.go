package pipeline

import (
	"path/filepath"
	"testing"
)

func TestAcquireLockContention(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.lock")

	lock, err := AcquireLock(path)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	if _, err := AcquireLock(path); err == nil {
		t.Error("second acquire should fail while the lock is held")
	}

	lock.Release()

	again, err := AcquireLock(path)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	again.Release()
	again.Release() // idempotent
}
