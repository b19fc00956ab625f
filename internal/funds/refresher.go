package funds

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher keeps the default overview warm so the dashboard's first load
// does not wait on three upstream round trips.
type Refresher struct {
	service  *Service
	logger   *zap.Logger
	schedule string
	cron     *cron.Cron
}

// NewRefresher creates a refresher with a cron schedule such as "@every 5m".
func NewRefresher(service *Service, schedule string, logger *zap.Logger) *Refresher {
	return &Refresher{
		service:  service,
		logger:   logger,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start begins the periodic refresh. The first refresh runs immediately.
func (r *Refresher) Start() error {
	if _, err := r.cron.AddFunc(r.schedule, r.refresh); err != nil {
		return err
	}
	go r.refresh()
	r.cron.Start()
	r.logger.Info("fund overview refresher started", zap.String("schedule", r.schedule))
	return nil
}

// Stop halts the refresher and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

func (r *Refresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := r.service.Overview(ctx, DefaultDays); err != nil {
		r.logger.Warn("fund overview refresh failed", zap.Error(err))
	}
}
