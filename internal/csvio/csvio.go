// Package csvio reads and writes customers as CSV.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/jszwec/csvutil"

	"github.com/nicolas44373/clientes/internal/domain"
	"github.com/nicolas44373/clientes/internal/due"
)

// row is the exported CSV shape: the stored columns plus the derived ones.
type row struct {
	domain.Customer
	DueDate       string `csv:"due_date"`
	RemainingDays int    `csv:"remaining_days"`
	DueStatus     string `csv:"due_status"`
}

// Decode reads customers from CSV with a header line. Header names are
// matched case-insensitively; unknown columns are ignored.
func Decode(r io.Reader) ([]domain.Customer, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	dec, err := csvutil.NewDecoder(cr, header...)
	if err != nil {
		return nil, fmt.Errorf("create CSV decoder: %w", err)
	}
	dec.Map = func(field, _ string, _ any) string {
		return strings.TrimSpace(field)
	}

	var out []domain.Customer
	for {
		var c domain.Customer
		if err := dec.Decode(&c); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("decode CSV line %d: %w", len(out)+2, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Encode writes enriched customers, including their due date columns.
func Encode(w io.Writer, records []domain.Enriched) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	if len(records) == 0 {
		if err := enc.EncodeHeader(row{}); err != nil {
			return fmt.Errorf("encode CSV header: %w", err)
		}
	}
	for _, r := range records {
		if err := enc.Encode(row{
			Customer:      r.Customer,
			DueDate:       due.FormatDate(r.DueDate),
			RemainingDays: r.RemainingDays,
			DueStatus:     due.StatusText(r),
		}); err != nil {
			return fmt.Errorf("encode customer %d: %w", r.Code, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
