package store

import (
	"errors"
	"strings"
	"sync"
	"time"

	"agroweather/internal/models"
)

var (
	// ErrNotFound is returned when no report is cached for a location.
	ErrNotFound = errors.New("no cached report for location")
	// ErrExpired is returned when the cached report is older than the TTL.
	ErrExpired = errors.New("cached report expired")
)

type entry struct {
	report   models.WeatherReport
	storedAt time.Time
}

// MemoryStore is a concurrency-safe in-memory cache of weather reports keyed
// by location name, case-insensitively.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]entry

	// ttl <= 0 keeps entries forever
	ttl time.Duration
	now func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		data: make(map[string]entry),
		ttl:  ttl,
		now:  time.Now,
	}
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Save replaces the cached report for its location.
func (s *MemoryStore) Save(report models.WeatherReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key(report.Location.Name)] = entry{report: report, storedAt: s.now()}
}

// Get returns the cached report. An expired report is still returned along
// with ErrExpired so callers can serve stale data when refreshing fails.
func (s *MemoryStore) Get(name string) (models.WeatherReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key(name)]
	if !ok {
		return models.WeatherReport{}, ErrNotFound
	}

	if s.ttl > 0 && s.now().Sub(e.storedAt) > s.ttl {
		return e.report, ErrExpired
	}

	return e.report, nil
}

// PurgeExpired drops every expired entry and reports how many were removed.
func (s *MemoryStore) PurgeExpired() int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for k, e := range s.data {
		if now.Sub(e.storedAt) > s.ttl {
			delete(s.data, k)
			removed++
		}
	}

	return removed
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}
