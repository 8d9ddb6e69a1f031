// Package memory is an in-process storage backend. It enforces the same keys,
// uniqueness and foreign-key rules as the PostgreSQL schema.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"marketplace-api/internal/models"
	"marketplace-api/internal/storage"

	"github.com/google/uuid"
)

const defaultListLimit = 20

type tables struct {
	profiles     map[uuid.UUID]models.Profile
	jobs         map[uuid.UUID]models.Job
	applications map[uuid.UUID]models.Application
	payments     map[uuid.UUID]models.Payment
	credentials  map[string]models.Credential // by lower-cased email
}

func newTables() *tables {
	return &tables{
		profiles:     map[uuid.UUID]models.Profile{},
		jobs:         map[uuid.UUID]models.Job{},
		applications: map[uuid.UUID]models.Application{},
		payments:     map[uuid.UUID]models.Payment{},
		credentials:  map[string]models.Credential{},
	}
}

func (t *tables) clone() *tables {
	c := newTables()
	for k, v := range t.profiles {
		v.Skills = cloneStrings(v.Skills)
		c.profiles[k] = v
	}
	for k, v := range t.jobs {
		v.RequiredSkills = cloneStrings(v.RequiredSkills)
		c.jobs[k] = v
	}
	for k, v := range t.applications {
		c.applications[k] = v
	}
	for k, v := range t.payments {
		c.payments[k] = v
	}
	for k, v := range t.credentials {
		c.credentials[k] = v
	}
	return c
}

type state struct {
	mu   sync.Mutex
	data *tables
	last time.Time
}

// Store implements storage.Store in memory. A transaction holds the store lock
// for its whole duration and rolls back to a snapshot on error.
type Store struct {
	st   *state
	inTx bool
}

var _ storage.Store = (*Store)(nil)

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{st: &state{data: newTables()}}
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.st.mu.Lock()
	return s.st.mu.Unlock
}

// now returns a strictly increasing timestamp so newest-first ordering is stable.
// Callers hold the lock.
func (s *Store) now() time.Time {
	t := time.Now().UTC()
	if !t.After(s.st.last) {
		t = s.st.last.Add(time.Microsecond)
	}
	s.st.last = t
	return t
}

func (s *Store) Profiles() storage.ProfileRepository         { return &profileRepo{s: s} }
func (s *Store) Jobs() storage.JobRepository                 { return &jobRepo{s: s} }
func (s *Store) Applications() storage.ApplicationRepository { return &applicationRepo{s: s} }
func (s *Store) Payments() storage.PaymentRepository         { return &paymentRepo{s: s} }
func (s *Store) Credentials() storage.CredentialRepository   { return &credentialRepo{s: s} }

// WithinTx serialises fn against every other operation. actorID is not used:
// row-level policies exist only in PostgreSQL.
func (s *Store) WithinTx(ctx context.Context, actorID uuid.UUID, fn func(tx storage.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	snapshot := s.st.data.clone()
	if err := fn(&Store{st: s.st, inTx: true}); err != nil {
		s.st.data = snapshot
		return err
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close() {}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// page applies newest-first ordering and offset/limit to items.
func page[T any](items []T, createdAt func(T) time.Time, offset, limit int) []T {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
