package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"agroweather/internal/models"
	"agroweather/pkg/logger"
)

const (
	defaultInterval = 15 * time.Minute
	refreshTimeout  = 30 * time.Second
)

// Refresher rebuilds the cached report of a location.
type Refresher interface {
	Locations() []models.Location
	Refresh(ctx context.Context, name string) (models.WeatherReport, error)
}

// Purger drops stale cache entries.
type Purger interface {
	PurgeExpired() int
	Len() int
}

// Scheduler periodically refreshes reports for every configured location.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Refresher
	cache     Purger
	interval  time.Duration
	timeout   time.Duration
	l         *logger.Logger
}

// New builds a scheduler. A nil cache skips purging after each pass.
func New(service Refresher, cache Purger, interval time.Duration, l *logger.Logger) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}

	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		cache:     cache,
		interval:  interval,
		timeout:   refreshTimeout,
		l:         l,
	}
}

// Start schedules the refresh job, runs it once immediately and starts the
// underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.service.Locations()) == 0 {
		s.l.Warning("scheduler: no locations configured; nothing to schedule")
		return nil
	}

	if _, err := s.scheduler.Every(s.interval).Do(func() { s.RunOnce() }); err != nil {
		return err
	}

	s.l.Info("scheduler started", map[string]any{"interval": s.interval.String()})
	s.scheduler.StartAsync()

	return nil
}

// RunOnce refreshes every location concurrently, purges expired cache entries
// and reports how many locations succeeded.
func (s *Scheduler) RunOnce() int {
	locations := s.service.Locations()
	s.l.Info("scheduler: running refresh job", map[string]any{"locations": len(locations)})

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		refreshed int
	)

	for _, loc := range locations {
		wg.Add(1)
		go func(loc models.Location) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			defer cancel()

			if _, err := s.service.Refresh(ctx, loc.Name); err != nil {
				s.l.Warning("scheduler: refresh failed", map[string]any{
					"location": loc.Name,
					"err":      err.Error(),
				})
				return
			}

			mu.Lock()
			refreshed++
			mu.Unlock()
		}(loc)
	}
	wg.Wait()

	fields := map[string]any{
		"refreshed": refreshed,
		"failed":    len(locations) - refreshed,
	}
	if s.cache != nil {
		fields["purged"] = s.cache.PurgeExpired()
		fields["cached"] = s.cache.Len()
	}
	s.l.Info("scheduler: completed refresh job", fields)

	return refreshed
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
