package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"agroweather/internal/models"
	"agroweather/pkg/logger"
)

type fakeRefresher struct {
	locations []models.Location
	failing   map[string]bool

	mu    sync.Mutex
	seen  []string
	calls int32
}

func (f *fakeRefresher) Locations() []models.Location {
	return f.locations
}

func (f *fakeRefresher) Refresh(ctx context.Context, name string) (models.WeatherReport, error) {
	atomic.AddInt32(&f.calls, 1)

	f.mu.Lock()
	f.seen = append(f.seen, name)
	f.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		return models.WeatherReport{}, errors.New("refresh without deadline")
	}
	if f.failing[name] {
		return models.WeatherReport{}, errors.New("upstream down")
	}
	return models.WeatherReport{Location: models.Location{Name: name}}, nil
}

func TestScheduler_RunOnceRefreshesEveryLocation(t *testing.T) {
	refresher := &fakeRefresher{
		locations: []models.Location{{Name: "Guntur"}, {Name: "Kurnool"}, {Name: "Eluru"}},
		failing:   map[string]bool{"Kurnool": true},
	}
	s := New(refresher, nil, time.Hour, logger.Nop())

	refreshed := s.RunOnce()

	assert.Equal(t, 2, refreshed)
	assert.ElementsMatch(t, []string{"Guntur", "Kurnool", "Eluru"}, refresher.seen)
}

type fakeCache struct {
	entries int
	purges  int32
}

func (c *fakeCache) PurgeExpired() int {
	atomic.AddInt32(&c.purges, 1)
	purged := c.entries
	c.entries = 0
	return purged
}

func (c *fakeCache) Len() int {
	return c.entries
}

func TestScheduler_RunOncePurgesExpiredEntries(t *testing.T) {
	refresher := &fakeRefresher{locations: []models.Location{{Name: "Anantapur"}}}
	cache := &fakeCache{entries: 3}
	s := New(refresher, cache, time.Hour, logger.Nop())

	assert.Equal(t, 1, s.RunOnce())
	assert.Equal(t, int32(1), atomic.LoadInt32(&cache.purges))
	assert.Equal(t, 0, cache.Len())
}

func TestScheduler_StartWithoutLocations(t *testing.T) {
	refresher := &fakeRefresher{}
	s := New(refresher, nil, time.Hour, logger.Nop())

	assert.NoError(t, s.Start())
	s.Stop()

	assert.Equal(t, int32(0), atomic.LoadInt32(&refresher.calls))
}

func TestScheduler_StartRunsJob(t *testing.T) {
	refresher := &fakeRefresher{locations: []models.Location{{Name: "Ongole"}}}
	s := New(refresher, nil, time.Hour, logger.Nop())

	assert.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&refresher.calls) >= 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNew_DefaultInterval(t *testing.T) {
	s := New(&fakeRefresher{}, nil, 0, logger.Nop())
	assert.Equal(t, defaultInterval, s.interval)
}
