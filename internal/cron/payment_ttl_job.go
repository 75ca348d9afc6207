package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/vivimart/storefront-backend/pkg/logger"
)

const paymentTTLJobName = "payment-ttl"
const paymentTTLBatchSize = 100

// staleOrderExpirer is the slice of the orders service this job needs.
type staleOrderExpirer interface {
	ExpireStalePaymentPending(ctx context.Context, olderThan time.Duration, batchSize int) (int, error)
}

// PaymentTTLJobParams configure the stale payment expiry job.
type PaymentTTLJobParams struct {
	Logger     *logger.Logger
	Orders     staleOrderExpirer
	PaymentTTL time.Duration
}

type paymentTTLJob struct {
	logg       *logger.Logger
	orders     staleOrderExpirer
	paymentTTL time.Duration
}

// NewPaymentTTLJob builds the job that expires orders stuck in
// payment_pending past the configured TTL.
func NewPaymentTTLJob(params PaymentTTLJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if params.PaymentTTL <= 0 {
		return nil, fmt.Errorf("payment ttl must be positive")
	}
	return &paymentTTLJob{
		logg:       params.Logger,
		orders:     params.Orders,
		paymentTTL: params.PaymentTTL,
	}, nil
}

func (j *paymentTTLJob) Name() string { return paymentTTLJobName }

func (j *paymentTTLJob) Run(ctx context.Context) error {
	expired, err := j.orders.ExpireStalePaymentPending(ctx, j.paymentTTL, paymentTTLBatchSize)
	if err != nil {
		return fmt.Errorf("expire stale orders: %w", err)
	}
	if expired > 0 {
		j.logg.Info(j.logg.WithField(ctx, "expired", expired), "expired stale payment_pending orders")
	}
	return nil
}
