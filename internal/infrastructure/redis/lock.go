package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	// Redis key prefix for per-document workflow leases
	lockKeyPrefix = "signflow:document:lock:"

	lockTTL            = 30 * time.Second
	lockRetryInterval  = 50 * time.Millisecond
	lockAcquireTimeout = 5 * time.Second
)

// DocumentLock serializes the check-then-act section of the workflow
// per document. Two signers completing concurrently must not both see
// "all signed" and both invoke the compositor; a short redis lease
// keyed by document id keeps that section exclusive across workers.
// The TTL bounds the damage of a crashed holder.
type DocumentLock struct {
	client *RedisClient
	logger *zap.Logger
}

func NewDocumentLock(client *RedisClient, logger *zap.Logger) *DocumentLock {
	return &DocumentLock{
		client: client,
		logger: logger,
	}
}

// Acquire blocks until the document lease is held, the context is
// cancelled, or the acquire timeout passes. The returned release
// function must be called when the critical section ends.
func (l *DocumentLock) Acquire(ctx context.Context, documentID int64) (func(), error) {
	key := lockKeyPrefix + strconv.FormatInt(documentID, 10)
	deadline := time.Now().Add(lockAcquireTimeout)

	for {
		ok, err := l.client.SetNX(ctx, key, "1", lockTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to acquire document lock: %w", err)
		}
		if ok {
			release := func() {
				if err := l.client.Del(context.Background(), key); err != nil {
					l.logger.Warn("Failed to release document lock",
						zap.Int64("document_id", documentID),
						zap.Error(err),
					)
				}
			}
			return release, nil
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("timed out waiting for document lock: document_id=%d", documentID)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}
