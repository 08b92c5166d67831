package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	pkgerrors "github.com/laker77/PointsStoreService-main/pkg/errors"
)

const lockTTL = 3 * time.Second

// AccountLock serializes purchases per account across processes. The TTL
// bounds how long a crashed holder can keep an account locked.
type AccountLock struct {
	client RedisClient
}

func NewAccountLock(client RedisClient) *AccountLock {
	return &AccountLock{client: client}
}

func (l *AccountLock) Lock(ctx context.Context, key string) (func(), error) {
	lockKey := fmt.Sprintf("account:%s:lock", key)
	ok, err := l.client.SetNX(ctx, lockKey, "locked", lockTTL)
	if err != nil {
		slog.Error("failed to acquire account lock", "key", lockKey, "error", err)
		return nil, pkgerrors.ErrBalanceLocked
	}
	if !ok {
		return nil, pkgerrors.ErrBalanceLocked
	}
	return func() {
		if err := l.client.Del(context.Background(), lockKey); err != nil {
			slog.Error("failed to release account lock", "key", lockKey, "error", err)
		}
	}, nil
}
