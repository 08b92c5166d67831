package service

import (
	"context"
	"sync"

	pkgerrors "github.com/laker77/PointsStoreService-main/pkg/errors"
)

// AccountLocker serializes the funds-check/debit window per account. Lock
// returns a release func on success and ErrBalanceLocked when another
// purchase for the same account is in flight.
type AccountLocker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// MemoryLock is the single-process locker used when redis is not configured.
// It try-locks: a concurrent purchase fails fast instead of queueing.
type MemoryLock struct {
	mu   sync.Mutex
	held map[string]bool
}

func NewMemoryLock() *MemoryLock {
	return &MemoryLock{held: make(map[string]bool)}
}

func (l *MemoryLock) Lock(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return nil, pkgerrors.ErrBalanceLocked
	}
	l.held[key] = true
	return func() {
		l.mu.Lock()
		delete(l.held, key)
		l.mu.Unlock()
	}, nil
}
