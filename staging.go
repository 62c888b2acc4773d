package bundle

import (
	"context"
	"path/filepath"
	"sync"

	"golang.org/x/sync/semaphore"
)

// stagingLocks serializes runs in this process that share a staging
// directory. Staging directories are named after the process id, so any two
// bundles with the same host name stage into the same place.
var stagingLocks = &dirLocks{locks: make(map[string]*dirLock)}

type dirLocks struct {
	mu    sync.Mutex
	locks map[string]*dirLock
}

type dirLock struct {
	sem  *semaphore.Weighted
	refs int
}

// lockKey normalizes dir so different spellings of one directory share a lock.
func lockKey(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return filepath.Clean(dir)
}

// acquire blocks until the caller holds dir or ctx is done.
func (l *dirLocks) acquire(ctx context.Context, dir string) (func(), error) {
	key := lockKey(dir)

	l.mu.Lock()
	lk, ok := l.locks[key]
	if !ok {
		lk = &dirLock{sem: semaphore.NewWeighted(1)}
		l.locks[key] = lk
	}
	lk.refs++
	l.mu.Unlock()

	if err := lk.sem.Acquire(ctx, 1); err != nil {
		l.put(key, lk)
		return nil, err
	}
	return func() {
		lk.sem.Release(1)
		l.put(key, lk)
	}, nil
}

func (l *dirLocks) put(key string, lk *dirLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lk.refs--
	if lk.refs == 0 {
		delete(l.locks, key)
	}
}
