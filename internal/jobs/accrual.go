package jobs

import (
	"context"
	"log/slog"
	"time"

	"gostay/internal/service"
)

// BonusAccrualJob periodically credits cashback for completed stays, so
// balances stay current even for users who never open their profile.
type BonusAccrualJob struct {
	loyalty  *service.LoyaltyService
	interval time.Duration
}

func NewBonusAccrualJob(loyalty *service.LoyaltyService, interval time.Duration) *BonusAccrualJob {
	return &BonusAccrualJob{
		loyalty:  loyalty,
		interval: interval,
	}
}

// Run blocks until ctx is cancelled
func (j *BonusAccrualJob) Run(ctx context.Context) {
	slog.Info("Bonus accrual job started", "interval", j.interval)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	// First pass right away, then on the ticker
	j.pass(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Bonus accrual job stopped")
			return
		case <-ticker.C:
			j.pass(ctx)
		}
	}
}

func (j *BonusAccrualJob) pass(ctx context.Context) {
	start := time.Now()
	if err := j.loyalty.RunAccrualForAll(ctx); err != nil {
		slog.Error("Bonus accrual pass failed", "error", err)
		return
	}
	slog.Info("Bonus accrual pass finished", "duration_ms", time.Since(start).Milliseconds())
}
