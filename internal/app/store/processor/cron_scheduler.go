package processor

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"carshine/internal/app/store/service"
	"carshine/pkg/logger"
)

// CronScheduler cancels pending orders that have sat unpaid past the
// expiry window.
type CronScheduler struct {
	cron        *cron.Cron
	orderSvc    service.OrderServiceInterface
	expireAfter time.Duration
}

func NewCronScheduler(orderSvc service.OrderServiceInterface, expireAfter time.Duration) *CronScheduler {
	return &CronScheduler{
		cron:        cron.New(),
		orderSvc:    orderSvc,
		expireAfter: expireAfter,
	}
}

// Start registers the expiry job and runs one sweep immediately so a
// restart does not postpone expiry by a full schedule interval.
func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("starting order expiry scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		s.runExpiry(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()

	s.runExpiry(ctx)

	return nil
}

func (s *CronScheduler) Stop() {
	logger.Info().Msg("stopping order expiry scheduler")
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *CronScheduler) runExpiry(ctx context.Context) {
	cutoff := time.Now().Add(-s.expireAfter)

	expired, err := s.orderSvc.ExpireStaleOrders(ctx, cutoff)
	if err != nil {
		logger.Error().Err(err).Msg("order expiry sweep failed")
		return
	}

	logger.Debug().Int64("expired", expired).Msg("order expiry sweep completed")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
