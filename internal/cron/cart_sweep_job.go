package cron

import (
	"context"
	"errors"

	"github.com/simplezakka/zakka-backend/pkg/logger"
)

type cartSweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// CartSweepJob reclaims expired carts from the in-process cart store.
type CartSweepJob struct {
	store cartSweeper
	logg  *logger.Logger
}

func NewCartSweepJob(store cartSweeper, logg *logger.Logger) (*CartSweepJob, error) {
	if store == nil {
		return nil, errors.New("cart store required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &CartSweepJob{store: store, logg: logg}, nil
}

func (j *CartSweepJob) Name() string { return "cart_sweep" }

func (j *CartSweepJob) Run(ctx context.Context) error {
	removed, err := j.store.Sweep(ctx)
	if err != nil {
		return err
	}
	if removed > 0 {
		j.logg.Info(j.logg.WithField(ctx, "removed", removed), "cron.carts_swept")
	}
	return nil
}
