package tx

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	apperrors "brewlog/internal/platform/errors"
)

const lockRetryInterval = 25 * time.Millisecond

// FileLockManager serializes fn calls across goroutines and processes sharing
// one data directory. The lock file holds the owner's PID; locks left behind by
// dead processes are removed and retaken.
type FileLockManager struct {
	path    string
	timeout time.Duration
	mu      sync.Mutex
}

func NewFileLockManager(path string, timeout time.Duration) *FileLockManager {
	return &FileLockManager{path: path, timeout: timeout}
}

func (m *FileLockManager) Within(ctx context.Context, fn func(context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.acquire(ctx); err != nil {
		return err
	}
	defer m.release()
	return fn(ctx)
}

func (m *FileLockManager) acquire(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("create lock dir: %w", err)
	}
	deadline := time.Now().Add(m.timeout)
	for {
		ok, err := m.tryAcquire()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if m.timeout > 0 && time.Now().After(deadline) {
			return fmt.Errorf("%w: %s", apperrors.ErrStoreLocked, m.path)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}

func (m *FileLockManager) tryAcquire() (bool, error) {
	f, err := os.OpenFile(m.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err == nil {
		_, writeErr := fmt.Fprintf(f, "%d", os.Getpid())
		f.Close()
		if writeErr != nil {
			_ = os.Remove(m.path)
			return false, fmt.Errorf("write lock file: %w", writeErr)
		}
		return true, nil
	}
	if !os.IsExist(err) {
		return false, fmt.Errorf("create lock file: %w", err)
	}

	judged, statErr := os.Stat(m.path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return false, nil
		}
		return false, fmt.Errorf("stat lock file: %w", statErr)
	}
	data, readErr := os.ReadFile(m.path)
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return false, nil
		}
		return false, fmt.Errorf("read lock file: %w", readErr)
	}
	pid, parseErr := strconv.Atoi(strings.TrimSpace(string(data)))
	if parseErr != nil && m.fresh() {
		// owner is between create and write
		return false, nil
	}
	if parseErr == nil && pid != os.Getpid() && processExists(pid) {
		return false, nil
	}
	if parseErr == nil && pid == os.Getpid() {
		// a previous call in this process crashed before release
		_ = os.Remove(m.path)
		return false, nil
	}
	return false, m.reclaim(judged, data)
}

// reclaim moves the lock file aside and deletes it only if it is still the
// file judged stale. Rename is atomic, so of several processes reclaiming the
// same stale file exactly one gets it; a later one that catches a fresh lock
// puts it back.
func (m *FileLockManager) reclaim(judged os.FileInfo, content []byte) error {
	aside := fmt.Sprintf("%s.stale-%d-%d", m.path, os.Getpid(), time.Now().UnixNano())
	if err := os.Rename(m.path, aside); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("move stale lock file: %w", err)
	}
	defer os.Remove(aside)
	moved, err := os.Stat(aside)
	if err != nil {
		return fmt.Errorf("stat stale lock file: %w", err)
	}
	// inode numbers are reused, so the content must match too
	movedContent, err := os.ReadFile(aside)
	if err != nil {
		return fmt.Errorf("read stale lock file: %w", err)
	}
	if os.SameFile(judged, moved) && bytes.Equal(content, movedContent) {
		return nil
	}
	if err := os.Link(aside, m.path); err != nil && !os.IsExist(err) {
		return fmt.Errorf("restore live lock file: %w", err)
	}
	return nil
}

func (m *FileLockManager) fresh() bool {
	info, err := os.Stat(m.path)
	return err == nil && time.Since(info.ModTime()) < time.Second
}

func (m *FileLockManager) release() {
	_ = os.Remove(m.path)
}

func processExists(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
