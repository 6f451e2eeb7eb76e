package due

import (
	"strconv"
	"strings"

	"github.com/nicolas44373/clientes/internal/domain"
)

// NearDueWindow is the largest RemainingDays value still reported as near due.
const NearDueWindow = 2

// Predicate selects enriched customers.
type Predicate func(domain.Enriched) bool

// All combines predicates with AND. With no predicates everything passes.
func All(preds ...Predicate) Predicate {
	return func(e domain.Enriched) bool {
		for _, p := range preds {
			if !p(e) {
				return false
			}
		}
		return true
	}
}

// ByStatus matches customers whose status equals status exactly. The
// wildcard and the empty string match everything.
func ByStatus(status string) Predicate {
	if status == "" || status == domain.StatusAll {
		return func(domain.Enriched) bool { return true }
	}
	return func(e domain.Enriched) bool { return e.Status == status }
}

// ByCode matches customers whose code contains search, ignoring case.
func ByCode(search string) Predicate {
	if search == "" {
		return func(domain.Enriched) bool { return true }
	}
	needle := strings.ToLower(search)
	return func(e domain.Enriched) bool {
		return strings.Contains(strings.ToLower(strconv.Itoa(e.Code)), needle)
	}
}

// Select returns the records matching p, in their original order.
func Select(records []domain.Enriched, p Predicate) []domain.Enriched {
	out := make([]domain.Enriched, 0, len(records))
	for _, r := range records {
		if p(r) {
			out = append(out, r)
		}
	}
	return out
}

// Filter is the display filter: a status and a code search, ANDed.
type Filter struct {
	Status string `query:"status"`
	Search string `query:"q"`
}

// Predicate returns the predicate chain for f.
func (f Filter) Predicate() Predicate {
	return All(ByStatus(f.Status), ByCode(f.Search))
}

// Apply returns the records passing f.
func (f Filter) Apply(records []domain.Enriched) []domain.Enriched {
	return Select(records, f.Predicate())
}

// IsNearDue reports whether e is due within NearDueWindow days and not overdue.
// Records without a parseable reference date are never near due.
func IsNearDue(e domain.Enriched) bool {
	return e.DateKnown && e.RemainingDays >= 0 && e.RemainingDays <= NearDueWindow
}

// NearDue returns the records that are due within NearDueWindow days.
func NearDue(records []domain.Enriched) []domain.Enriched {
	return Select(records, IsNearDue)
}
