package store

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agroweather/internal/models"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func report(name string) models.WeatherReport {
	return models.WeatherReport{Location: models.Location{Name: name}}
}

func newTestStore(ttl time.Duration) (*MemoryStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, time.July, 25, 12, 0, 0, 0, time.UTC)}
	s := NewMemoryStore(ttl)
	s.now = clock.Now
	return s, clock
}

func TestMemoryStore_SaveAndGet(t *testing.T) {
	s, _ := newTestStore(time.Minute)

	s.Save(report("Guntur"))

	got, err := s.Get("guntur")
	require.NoError(t, err)
	assert.Equal(t, "Guntur", got.Location.Name)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_NotFound(t *testing.T) {
	s, _ := newTestStore(time.Minute)

	_, err := s.Get("Nellore")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStore_ExpiredReturnsStaleReport(t *testing.T) {
	s, clock := newTestStore(time.Minute)
	s.Save(report("Kadapa"))

	clock.Advance(2 * time.Minute)

	got, err := s.Get("Kadapa")
	assert.True(t, errors.Is(err, ErrExpired))
	assert.Equal(t, "Kadapa", got.Location.Name)
}

func TestMemoryStore_ZeroTTLNeverExpires(t *testing.T) {
	s, clock := newTestStore(0)
	s.Save(report("Ongole"))

	clock.Advance(24 * time.Hour)

	_, err := s.Get("Ongole")
	assert.NoError(t, err)
	assert.Equal(t, 0, s.PurgeExpired())
}

func TestMemoryStore_PurgeExpired(t *testing.T) {
	s, clock := newTestStore(time.Minute)
	s.Save(report("Eluru"))
	clock.Advance(90 * time.Second)
	s.Save(report("Kakinada"))

	assert.Equal(t, 1, s.PurgeExpired())
	assert.Equal(t, 1, s.Len())

	_, err := s.Get("Eluru")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = s.Get("KAKINADA")
	assert.NoError(t, err)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	s, _ := newTestStore(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Save(report("Tirupati"))
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Get("Tirupati")
		}()
	}
	wg.Wait()

	_, err := s.Get("Tirupati")
	assert.NoError(t, err)
}
