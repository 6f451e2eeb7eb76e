package due

import (
	"fmt"
	"time"

	"github.com/nicolas44373/clientes/internal/domain"
)

// Enricher attaches due-date fields to customers. Now supplies "today"; a nil
// Now falls back to time.Now.
type Enricher struct {
	Now func() time.Time
}

// NewEnricher returns an Enricher reading the clock in loc. A nil loc means time.Local.
func NewEnricher(loc *time.Location) *Enricher {
	if loc == nil {
		loc = time.Local
	}
	return &Enricher{Now: func() time.Time { return time.Now().In(loc) }}
}

// Today returns the Enricher's current time.
func (e *Enricher) Today() time.Time {
	if e == nil || e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// Enrich computes the due date and remaining days of a single customer.
func (e *Enricher) Enrich(c domain.Customer) domain.Enriched {
	return enrichAt(c, e.Today())
}

// EnrichAll enriches every customer against the same "today", keeping order.
func (e *Enricher) EnrichAll(customers []domain.Customer) []domain.Enriched {
	now := e.Today()
	out := make([]domain.Enriched, 0, len(customers))
	for _, c := range customers {
		out = append(out, enrichAt(c, now))
	}
	return out
}

func enrichAt(c domain.Customer, now time.Time) domain.Enriched {
	ref, known := ParseDate(c.ReferenceDate, now)
	dueDate := DueDate(ref)
	return domain.Enriched{
		Customer:      c,
		DueDate:       dueDate,
		RemainingDays: RemainingDays(dueDate, now),
		DaysLeft:      DaysBetween(now, dueDate.In(now.Location())),
		DateKnown:     known,
	}
}

// StatusText is the human wording shown next to a due date.
func StatusText(e domain.Enriched) string {
	switch {
	case !e.DateKnown:
		return "Sin fecha"
	case e.Overdue():
		return "Vencido"
	case e.RemainingDays == 0:
		return "Vence hoy"
	case e.RemainingDays == 1:
		return "Vence mañana"
	default:
		return fmt.Sprintf("Vence en %d días", e.RemainingDays)
	}
}
