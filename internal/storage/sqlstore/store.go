// Package sqlstore persists customers in a relational database through
// database/sql. SQLite (modernc.org/sqlite) and PostgreSQL (lib/pq) are supported.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/nicolas44373/clientes/internal/domain"
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const schema = `
CREATE TABLE IF NOT EXISTS customers (
	code INTEGER PRIMARY KEY,
	description TEXT NOT NULL,
	status TEXT NOT NULL,
	reference_date TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS customer_dates (
	id TEXT PRIMARY KEY,
	customer_code INTEGER NOT NULL REFERENCES customers(code) ON DELETE CASCADE,
	date TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_customer_dates_code_date ON customer_dates(customer_code, date);
`

// Store is a database/sql backed customer store.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to the database and creates the schema if needed.
// For SQLite the dsn is a file path or ":memory:".
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if driver == DriverSQLite {
		// A single connection keeps ":memory:" databases alive and
		// serialises writers.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db, driver: driver}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $1, $2... for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FetchAll returns every customer ordered by code.
func (s *Store) FetchAll(ctx context.Context) ([]domain.Customer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, description, status, reference_date, phone
		FROM customers
		ORDER BY code ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.Code, &c.Description, &c.Status, &c.ReferenceDate, &c.Phone); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Insert adds a customer, failing with domain.ErrConflict on a duplicate code.
func (s *Store) Insert(ctx context.Context, c domain.Customer) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		exists, err := s.customerExists(ctx, tx, c.Code)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("customer %d: %w", c.Code, domain.ErrConflict)
		}

		_, err = tx.ExecContext(ctx, s.rebind(`
			INSERT INTO customers (code, description, status, reference_date, phone)
			VALUES (?, ?, ?, ?, ?)
		`), c.Code, c.Description, c.Status, c.ReferenceDate, c.Phone)
		if err != nil {
			return fmt.Errorf("insert customer: %w", mapError(err))
		}
		return nil
	})
}

// Update writes the non-nil fields of u.
func (s *Store) Update(ctx context.Context, code int, u domain.CustomerUpdate) error {
	var (
		sets []string
		args []any
	)
	add := func(column string, v *string) {
		if v != nil {
			sets = append(sets, column+" = ?")
			args = append(args, *v)
		}
	}
	add("description", u.Description)
	add("status", u.Status)
	add("reference_date", u.ReferenceDate)
	add("phone", u.Phone)
	if len(sets) == 0 {
		return fmt.Errorf("no fields to update: %w", domain.ErrValidation)
	}
	args = append(args, code)

	query := "UPDATE customers SET " + strings.Join(sets, ", ") + " WHERE code = ?"
	res, err := s.db.ExecContext(ctx, s.rebind(query), args...)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return expectRow(res, fmt.Sprintf("customer %d", code))
}

// DeleteByKey removes a customer together with its dates.
func (s *Store) DeleteByKey(ctx context.Context, code int) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM customer_dates WHERE customer_code = ?`), code); err != nil {
			return fmt.Errorf("delete dates: %w", err)
		}
		res, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM customers WHERE code = ?`), code)
		if err != nil {
			return fmt.Errorf("delete customer: %w", err)
		}
		return expectRow(res, fmt.Sprintf("customer %d", code))
	})
}

// ListDates returns the dates of a customer ordered by date.
func (s *Store) ListDates(ctx context.Context, code int) ([]domain.DateEntry, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, customer_code, date, created_at
		FROM customer_dates
		WHERE customer_code = ?
		ORDER BY date ASC, created_at ASC
	`), code)
	if err != nil {
		return nil, fmt.Errorf("query dates: %w", err)
	}
	defer rows.Close()

	var out []domain.DateEntry
	for rows.Next() {
		var (
			d         domain.DateEntry
			createdAt string
		)
		if err := rows.Scan(&d.ID, &d.CustomerCode, &d.Date, &createdAt); err != nil {
			return nil, fmt.Errorf("scan date: %w", err)
		}
		d.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, d)
	}
	return out, rows.Err()
}

// InsertDate records a date for an existing customer.
func (s *Store) InsertDate(ctx context.Context, code int, date string) (domain.DateEntry, error) {
	entry := domain.DateEntry{
		ID:           uuid.NewString(),
		CustomerCode: code,
		Date:         date,
		CreatedAt:    time.Now().UTC(),
	}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		exists, err := s.customerExists(ctx, tx, code)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("customer %d: %w", code, domain.ErrNotFound)
		}
		_, err = tx.ExecContext(ctx, s.rebind(`
			INSERT INTO customer_dates (id, customer_code, date, created_at)
			VALUES (?, ?, ?, ?)
		`), entry.ID, entry.CustomerCode, entry.Date, entry.CreatedAt.Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("insert date: %w", mapError(err))
		}
		return nil
	})
	if err != nil {
		return domain.DateEntry{}, err
	}
	return entry, nil
}

// DeleteDate removes one date entry of a customer.
func (s *Store) DeleteDate(ctx context.Context, code int, id string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM customer_dates WHERE id = ? AND customer_code = ?`), id, code)
	if err != nil {
		return fmt.Errorf("delete date: %w", err)
	}
	return expectRow(res, "date "+id)
}

func (s *Store) customerExists(ctx context.Context, tx *sql.Tx, code int) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, s.rebind(`SELECT 1 FROM customers WHERE code = ?`), code).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup customer: %w", err)
	}
	return true, nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func expectRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}

// mapError translates PostgreSQL constraint violations into domain errors.
func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			return fmt.Errorf("%w: %v", domain.ErrConflict, err)
		case "foreign_key_violation":
			return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
		}
	}
	return err
}
