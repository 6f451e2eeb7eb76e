package due

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nicolas44373/clientes/internal/domain"
)

func sample() []domain.Enriched {
	return []domain.Enriched{
		{Customer: domain.Customer{Code: 120, Status: "activo"}, DateKnown: true, RemainingDays: 0},
		{Customer: domain.Customer{Code: 7, Status: "rojo"}, DateKnown: true, RemainingDays: -1},
		{Customer: domain.Customer{Code: 312, Status: "activo"}, DateKnown: true, RemainingDays: 3},
		{Customer: domain.Customer{Code: 45, Status: "Activo"}, DateKnown: true, RemainingDays: 2},
		{Customer: domain.Customer{Code: 12, Status: "especial"}, DateKnown: false, RemainingDays: 1},
	}
}

func codes(records []domain.Enriched) []int {
	out := make([]int, 0, len(records))
	for _, r := range records {
		out = append(out, r.Code)
	}
	return out
}

func TestFilterApply(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []int
	}{
		{name: "wildcard passes everything in order", filter: Filter{Status: domain.StatusAll}, want: []int{120, 7, 312, 45, 12}},
		{name: "empty filter passes everything", filter: Filter{}, want: []int{120, 7, 312, 45, 12}},
		{name: "status is case sensitive", filter: Filter{Status: "activo"}, want: []int{120, 312}},
		{name: "other case of status", filter: Filter{Status: "Activo"}, want: []int{45}},
		{name: "code substring", filter: Filter{Status: domain.StatusAll, Search: "12"}, want: []int{120, 312, 12}},
		{name: "status and code", filter: Filter{Status: "activo", Search: "12"}, want: []int{120, 312}},
		{name: "no match", filter: Filter{Status: "inactivo"}, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, codes(tt.filter.Apply(sample())))
		})
	}
}

func TestByCodeIgnoresCase(t *testing.T) {
	e := domain.Enriched{Customer: domain.Customer{Code: 42}}

	assert.True(t, ByCode("4")(e))
	assert.False(t, ByCode("x")(e))
	assert.True(t, ByCode("")(e))
}

func TestAllWithNoPredicates(t *testing.T) {
	assert.True(t, All()(domain.Enriched{}))
}

func TestNearDue(t *testing.T) {
	assert.Equal(t, []int{120, 45}, codes(NearDue(sample())))
}

func TestIsNearDueBoundaries(t *testing.T) {
	for days, want := range map[int]bool{-1: false, 0: true, 1: true, 2: true, 3: false} {
		e := domain.Enriched{DateKnown: true, RemainingDays: days}
		assert.Equal(t, want, IsNearDue(e), "remaining %d", days)
	}
}
