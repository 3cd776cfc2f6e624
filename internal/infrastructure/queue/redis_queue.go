package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"doc-check.backend/internal/domain/repositories"
)

// DefaultStream is the stream the report worker consumes.
const DefaultStream = "report:jobs"

// RedisJobQueue dispatches report jobs onto a Redis stream. Delivery is
// at-least-once; the worker dedupes on purchaseId.
type RedisJobQueue struct {
	client  *redis.Client
	stream  string
	timeout time.Duration
}

// NewRedisJobQueue creates a new Redis-backed job queue
func NewRedisJobQueue(client *redis.Client, stream string, timeout time.Duration) *RedisJobQueue {
	if stream == "" {
		stream = DefaultStream
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RedisJobQueue{client: client, stream: stream, timeout: timeout}
}

// Dispatch appends one correlated processing request to the stream.
func (q *RedisJobQueue) Dispatch(ctx context.Context, job repositories.ReportJob) error {
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	err := q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		Values: map[string]interface{}{
			"purchaseId":   job.PurchaseID.String(),
			"purchaseCode": job.PurchaseCode,
			"term":         job.Term,
			"documentType": job.DocumentType,
			"email":        job.Email,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("enqueue report job for %s: %w", job.PurchaseCode, err)
	}
	return nil
}
