// Package mock provides an in-memory backend used as a drop-in substitute
// for the REST gateway during offline development. It mirrors the real
// backend's observable behavior: artificial latency on every call, a shared
// id sequence across scopes, strict NotFound on update and silent no-op on
// delete of an absent id.
package mock

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/abcconfig/mapeo-admin/internal/domain"
)

type scopeKey struct {
	linea   int
	campana int
}

// Store is the in-memory backend. Tables are partitioned by line and by
// line+campaña, matching the endpoint families of the real API. A mutex
// serializes mutations; callers may be concurrent.
type Store struct {
	mu      sync.Mutex
	latency time.Duration
	logger  *log.Logger
	now     func() time.Time

	nextID int

	lineas       []domain.Linea
	campanas     map[int][]domain.Campana
	lineMapeos   map[int][]domain.Mapeo
	campMapeos   map[scopeKey][]domain.Mapeo
	lineColumnas map[int][]domain.Columna
	campColumnas []domain.Columna
}

// Option customizes a Store.
type Option func(*Store)

// WithLatency sets the artificial delay applied to every operation.
func WithLatency(d time.Duration) Option {
	return func(s *Store) { s.latency = d }
}

// WithLogger routes operation logging to the given logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithNow replaces the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore builds a seeded store. The id counter starts above the highest
// seeded id and is shared by every record kind and scope.
func NewStore(opts ...Option) *Store {
	s := &Store{
		latency: 10 * time.Millisecond,
		logger:  log.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.seed()
	return s
}

// delay simulates network latency while honoring cancellation.
func (s *Store) delay(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Store) allocID() int {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Store) stamp() string {
	return s.now().UTC().Format(time.RFC3339)
}
