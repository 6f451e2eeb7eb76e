package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nicolas44373/clientes/internal/domain"
	"github.com/nicolas44373/clientes/internal/due"
)

// Store is an in-memory customer store, used for demos and tests.
type Store struct {
	mu        sync.RWMutex
	customers []domain.Customer
	dates     []domain.DateEntry
}

// SeedCustomers returns a small demonstration dataset whose reference dates
// are spread around today, so the near-due banner has something to show.
func SeedCustomers(now time.Time) []domain.Customer {
	ref := func(daysAgo int) string {
		return due.FormatDate(now.AddDate(0, 0, -daysAgo))
	}
	return []domain.Customer{
		{Code: 1001, Description: "Ferretería El Tornillo", Status: "activo", ReferenceDate: ref(7), Phone: "555-0101"},
		{Code: 1002, Description: "Panadería La Espiga", Status: "moderado", ReferenceDate: ref(6), Phone: "555-0102"},
		{Code: 1003, Description: "Distribuidora Norte", Status: "rojo", ReferenceDate: ref(12), Phone: "555-0103"},
		{Code: 1004, Description: "Kiosco Don Luis", Status: "inactivo", ReferenceDate: "", Phone: "555-0104"},
		{Code: 1005, Description: "Estudio Contable Pérez", Status: "especial", ReferenceDate: ref(1), Phone: "555-0105"},
	}
}

// NewStore seeds the store with the demonstration dataset.
func NewStore() *Store {
	return &Store{customers: SeedCustomers(time.Now())}
}

// NewEmptyStore returns a store with no customers.
func NewEmptyStore() *Store {
	return &Store{}
}

// FetchAll returns every customer in insertion order.
func (s *Store) FetchAll(_ context.Context) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.Customer(nil), s.customers...), nil
}

// Insert adds a customer. Codes are unique.
func (s *Store) Insert(_ context.Context, c domain.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(c.Code) >= 0 {
		return fmt.Errorf("customer %d: %w", c.Code, domain.ErrConflict)
	}
	s.customers = append(s.customers, c)
	return nil
}

// Update writes the non-nil fields of u over the customer with the given code.
func (s *Store) Update(_ context.Context, code int, u domain.CustomerUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(code)
	if i < 0 {
		return fmt.Errorf("customer %d: %w", code, domain.ErrNotFound)
	}
	s.customers[i] = u.Apply(s.customers[i])
	return nil
}

// DeleteByKey removes a customer and its dates.
func (s *Store) DeleteByKey(_ context.Context, code int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(code)
	if i < 0 {
		return fmt.Errorf("customer %d: %w", code, domain.ErrNotFound)
	}
	s.customers = append(s.customers[:i:i], s.customers[i+1:]...)

	kept := s.dates[:0:0]
	for _, d := range s.dates {
		if d.CustomerCode != code {
			kept = append(kept, d)
		}
	}
	s.dates = kept
	return nil
}

// ListDates returns the dates of a customer, oldest first.
func (s *Store) ListDates(_ context.Context, code int) ([]domain.DateEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.DateEntry
	for _, d := range s.dates {
		if d.CustomerCode == code {
			out = append(out, d)
		}
	}

	// Dates are stored as YYYY-MM-DD, so text order is date order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out, nil
}

// InsertDate records a date for an existing customer.
func (s *Store) InsertDate(_ context.Context, code int, date string) (domain.DateEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(code) < 0 {
		return domain.DateEntry{}, fmt.Errorf("customer %d: %w", code, domain.ErrNotFound)
	}
	entry := domain.DateEntry{
		ID:           uuid.NewString(),
		CustomerCode: code,
		Date:         date,
		CreatedAt:    time.Now().UTC(),
	}
	s.dates = append(s.dates, entry)
	return entry, nil
}

// DeleteDate removes one date entry of a customer.
func (s *Store) DeleteDate(_ context.Context, code int, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, d := range s.dates {
		if d.ID == id && d.CustomerCode == code {
			s.dates = append(s.dates[:i:i], s.dates[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("date %s: %w", id, domain.ErrNotFound)
}

func (s *Store) indexOf(code int) int {
	for i, c := range s.customers {
		if c.Code == code {
			return i
		}
	}
	return -1
}
