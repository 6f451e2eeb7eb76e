// Package customers keeps the enriched customer collection in sync with the
// backing store.
package customers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/nicolas44373/clientes/internal/domain"
	"github.com/nicolas44373/clientes/internal/due"
)

// CustomerStore is the data-access collaborator for the customers collection.
type CustomerStore interface {
	FetchAll(ctx context.Context) ([]domain.Customer, error)
	Insert(ctx context.Context, c domain.Customer) error
	Update(ctx context.Context, code int, u domain.CustomerUpdate) error
	DeleteByKey(ctx context.Context, code int) error
}

// DateStore manages the dates recorded per customer.
type DateStore interface {
	ListDates(ctx context.Context, code int) ([]domain.DateEntry, error)
	InsertDate(ctx context.Context, code int, date string) (domain.DateEntry, error)
	DeleteDate(ctx context.Context, code int, id string) error
}

// Store abstracts the persistence layer so memory, SQL and Mongo backends are
// interchangeable.
type Store interface {
	CustomerStore
	DateStore
}

// FallbackNotice is reported when the store could not be read and the
// demonstration dataset is shown instead.
const FallbackNotice = "No se pudieron cargar los clientes; se muestran datos de demostración."

// dateEntryLayout is how customer date entries are persisted.
const dateEntryLayout = "2006-01-02"

// View is the filtered projection of the collection shown to users.
type View struct {
	Items   []domain.Enriched
	NearDue []domain.Enriched
	Total   int
	Notice  string
}

// Option configures a Service.
type Option func(*Service)

// WithFallback sets the dataset substituted when loading from the store fails.
func WithFallback(fn func() []domain.Customer) Option {
	return func(s *Service) { s.fallback = fn }
}

// Service owns the in-memory enriched collection. The collection is replaced
// wholesale after each successful store operation and left as is on failure.
type Service struct {
	store    Store
	enricher *due.Enricher
	fallback func() []domain.Customer

	// opMu keeps one store operation in flight at a time.
	opMu sync.Mutex

	mu      sync.RWMutex
	records []domain.Enriched
	notice  string
	loaded  bool
}

// NewService wires a Service to its store.
func NewService(store Store, enricher *due.Enricher, opts ...Option) *Service {
	if enricher == nil {
		enricher = &due.Enricher{}
	}
	s := &Service{store: store, enricher: enricher}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches every customer and enriches them. When the fetch fails the
// fallback dataset, if any, replaces the collection and the error is returned.
func (s *Service) Load(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Service) loadLocked(ctx context.Context) error {
	raw, err := s.store.FetchAll(ctx)
	if err != nil {
		log.Printf("fetch customers: %v", err)
		if s.fallback != nil {
			s.replace(s.enricher.EnrichAll(s.fallback()), FallbackNotice)
		}
		return fmt.Errorf("fetch customers: %w", err)
	}
	s.replace(s.enricher.EnrichAll(raw), "")
	return nil
}

// EnsureLoaded loads the collection unless a load already happened.
func (s *Service) EnsureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}
	return s.Load(ctx)
}

// Snapshot returns a copy of the current collection.
func (s *Service) Snapshot() []domain.Enriched {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Enriched(nil), s.records...)
}

// View applies f to the collection. NearDue is computed over the whole
// collection, independently of f.
func (s *Service) View(f due.Filter) View {
	s.mu.RLock()
	records, notice := s.records, s.notice
	s.mu.RUnlock()

	return View{
		Items:   f.Apply(records),
		NearDue: due.NearDue(records),
		Total:   len(records),
		Notice:  notice,
	}
}

// Get returns one customer and its recorded dates.
func (s *Service) Get(ctx context.Context, code int) (domain.Enriched, []domain.DateEntry, error) {
	rec, ok := s.find(code)
	if !ok {
		return domain.Enriched{}, nil, fmt.Errorf("customer %d: %w", code, domain.ErrNotFound)
	}
	dates, err := s.store.ListDates(ctx, code)
	if err != nil {
		return domain.Enriched{}, nil, fmt.Errorf("list dates of %d: %w", code, err)
	}
	return rec, dates, nil
}

// Add validates and inserts a customer, then appends its enriched form.
func (s *Service) Add(ctx context.Context, c domain.Customer) (domain.Enriched, error) {
	c.Description = strings.TrimSpace(c.Description)
	if err := validateCustomer(c); err != nil {
		return domain.Enriched{}, err
	}
	if c.Status == "" {
		c.Status = domain.DefaultStatus
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.store.Insert(ctx, c); err != nil {
		return domain.Enriched{}, fmt.Errorf("insert customer %d: %w", c.Code, err)
	}

	rec := s.enricher.Enrich(c)
	s.mu.Lock()
	next := make([]domain.Enriched, 0, len(s.records)+1)
	next = append(next, s.records...)
	s.records = append(next, rec)
	s.mu.Unlock()
	return rec, nil
}

// Update applies u to the customer with the given code and re-enriches it,
// since the reference date may have changed.
func (s *Service) Update(ctx context.Context, code int, u domain.CustomerUpdate) (domain.Enriched, error) {
	if u.Empty() {
		return domain.Enriched{}, fmt.Errorf("no fields to update: %w", domain.ErrValidation)
	}
	if u.Description != nil {
		trimmed := strings.TrimSpace(*u.Description)
		if trimmed == "" {
			return domain.Enriched{}, fmt.Errorf("description is required: %w", domain.ErrValidation)
		}
		u.Description = &trimmed
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.store.Update(ctx, code, u); err != nil {
		return domain.Enriched{}, fmt.Errorf("update customer %d: %w", code, err)
	}

	s.mu.RLock()
	idx := indexOf(s.records, code)
	s.mu.RUnlock()
	if idx < 0 {
		// The row exists in the store but not locally; resync.
		if err := s.loadLocked(ctx); err != nil {
			return domain.Enriched{}, err
		}
		rec, ok := s.find(code)
		if !ok {
			return domain.Enriched{}, fmt.Errorf("customer %d: %w", code, domain.ErrNotFound)
		}
		return rec, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := append([]domain.Enriched(nil), s.records...)
	rec := s.enricher.Enrich(u.Apply(next[idx].Customer))
	next[idx] = rec
	s.records = next
	return rec, nil
}

// Delete removes a customer from the store and from the collection.
func (s *Service) Delete(ctx context.Context, code int) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.store.DeleteByKey(ctx, code); err != nil {
		return fmt.Errorf("delete customer %d: %w", code, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]domain.Enriched, 0, len(s.records))
	for _, r := range s.records {
		if r.Code != code {
			next = append(next, r)
		}
	}
	s.records = next
	return nil
}

// ListDates returns the dates recorded for a customer, oldest first.
func (s *Service) ListDates(ctx context.Context, code int) ([]domain.DateEntry, error) {
	dates, err := s.store.ListDates(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("list dates of %d: %w", code, err)
	}
	return dates, nil
}

// AddDate records a date against a customer. Unlike reference dates, entries
// that cannot be parsed are rejected.
func (s *Service) AddDate(ctx context.Context, code int, text string) (domain.DateEntry, error) {
	t, ok := due.ParseDate(strings.TrimSpace(text), s.enricher.Today())
	if !ok {
		return domain.DateEntry{}, fmt.Errorf("invalid date %q: %w", text, domain.ErrValidation)
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	entry, err := s.store.InsertDate(ctx, code, t.Format(dateEntryLayout))
	if err != nil {
		return domain.DateEntry{}, fmt.Errorf("add date to %d: %w", code, err)
	}
	return entry, nil
}

// DeleteDate removes a date entry of a customer.
func (s *Service) DeleteDate(ctx context.Context, code int, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid date id %q: %w", id, domain.ErrValidation)
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.store.DeleteDate(ctx, code, id); err != nil {
		return fmt.Errorf("delete date %s: %w", id, err)
	}
	return nil
}

func (s *Service) replace(records []domain.Enriched, notice string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.notice = notice
	s.loaded = true
}

func (s *Service) find(code int) (domain.Enriched, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.records, code); i >= 0 {
		return s.records[i], true
	}
	return domain.Enriched{}, false
}

func indexOf(records []domain.Enriched, code int) int {
	for i, r := range records {
		if r.Code == code {
			return i
		}
	}
	return -1
}

func validateCustomer(c domain.Customer) error {
	var problems []error
	if c.Code <= 0 {
		problems = append(problems, errors.New("code must be a positive number"))
	}
	if c.Description == "" {
		problems = append(problems, errors.New("description is required"))
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", domain.ErrValidation, errors.Join(problems...))
}
