package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"doc-check.backend/pkg/logger"
)

// stalePurchaseExpirer is the slice of the purchase repository the sweeper needs.
type stalePurchaseExpirer interface {
	ExpireStalePending(ctx context.Context, cutoff time.Time) (int64, error)
}

// PurchaseExpiryJob fails purchases that sat in PENDING longer than the TTL.
// Asaas charges expire on their side without a webhook we can rely on, so the
// sweeper closes them out locally.
type PurchaseExpiryJob struct {
	repo       stalePurchaseExpirer
	interval   time.Duration
	pendingTTL time.Duration
	stop       chan struct{}
}

func NewPurchaseExpiryJob(repo stalePurchaseExpirer, interval, pendingTTL time.Duration) *PurchaseExpiryJob {
	return &PurchaseExpiryJob{
		repo:       repo,
		interval:   interval,
		pendingTTL: pendingTTL,
		stop:       make(chan struct{}),
	}
}

func (j *PurchaseExpiryJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting purchase expiry job",
		zap.Duration("interval", j.interval),
		zap.Duration("pendingTTL", j.pendingTTL))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Purchase expiry job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Purchase expiry job stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *PurchaseExpiryJob) Stop() {
	close(j.stop)
}

func (j *PurchaseExpiryJob) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-j.pendingTTL)
	expired, err := j.repo.ExpireStalePending(ctx, cutoff)
	if err != nil {
		logger.Error(ctx, "Error expiring stale purchases", zap.Error(err))
		return
	}
	if expired > 0 {
		logger.Info(ctx, "Expired stale pending purchases", zap.Int64("count", expired))
	}
}
