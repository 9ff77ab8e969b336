package marketdata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // postgres driver

	"github.com/meenmo/fwdcurve/quote"
	"github.com/meenmo/fwdcurve/utils"
)

// ErrQuoteNotFound is returned when no quote is stored for an instrument.
var ErrQuoteNotFound = errors.New("quote not found")

// Dates are stored as YYYY-MM-DD text and values as the decimal string
// they were quoted in, so nothing is rounded on the way in or out.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS market_quotes (
		curve_date TEXT NOT NULL,
		instrument TEXT NOT NULL,
		value      TEXT NOT NULL,
		unit       TEXT NOT NULL,
		PRIMARY KEY (curve_date, instrument)
	)`,
	`CREATE TABLE IF NOT EXISTS index_fixings (
		index_name  TEXT NOT NULL,
		fixing_date TEXT NOT NULL,
		value       TEXT NOT NULL,
		unit        TEXT NOT NULL,
		PRIMARY KEY (index_name, fixing_date)
	)`,
}

// SQLStore reads and writes quotes and fixings. Statements use $n
// placeholders, which both postgres and duckdb accept.
type SQLStore struct {
	db *sql.DB
}

// Open connects with driver ("postgres" by default) and checks the
// connection.
func Open(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	if driver == "" {
		driver = "postgres"
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("marketdata.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("marketdata.Open: ping %s: %w", driver, err)
	}
	return NewSQLStore(db), nil
}

// NewSQLStore wraps an open database.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Close() error { return s.db.Close() }

// Migrate creates the tables if they are missing.
func (s *SQLStore) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("SQLStore.Migrate: %w", err)
		}
	}
	return nil
}

// PutQuote stores the quote of instrument on curveDate.
func (s *SQLStore) PutQuote(ctx context.Context, curveDate time.Time, instrument, value string, unit quote.Unit) error {
	if _, err := quote.Parse(value, unit); err != nil {
		return fmt.Errorf("SQLStore.PutQuote: %s: %w", instrument, err)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO market_quotes (curve_date, instrument, value, unit)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (curve_date, instrument) DO UPDATE SET value = excluded.value, unit = excluded.unit`,
		curveDate.Format(utils.DateLayout), instrument, value, string(unit))
	if err != nil {
		return fmt.Errorf("SQLStore.PutQuote: %s: %w", instrument, err)
	}
	return nil
}

// Quote loads one instrument's quote on curveDate.
func (s *SQLStore) Quote(ctx context.Context, curveDate time.Time, instrument string) (quote.Literal, error) {
	var value, unit string
	err := s.db.QueryRowContext(ctx,
		`SELECT value, unit FROM market_quotes WHERE curve_date = $1 AND instrument = $2`,
		curveDate.Format(utils.DateLayout), instrument).Scan(&value, &unit)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("SQLStore.Quote: %s on %s: %w", instrument, curveDate.Format(utils.DateLayout), ErrQuoteNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("SQLStore.Quote: %w", err)
	}
	q, err := quote.Parse(value, quote.Unit(unit))
	if err != nil {
		return 0, fmt.Errorf("SQLStore.Quote: %s: %w", instrument, err)
	}
	return q, nil
}

// Quotes loads every quote stored for curveDate, keyed by instrument.
func (s *SQLStore) Quotes(ctx context.Context, curveDate time.Time) (map[string]quote.Literal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT instrument, value, unit FROM market_quotes WHERE curve_date = $1 ORDER BY instrument`,
		curveDate.Format(utils.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("SQLStore.Quotes: %w", err)
	}
	defer rows.Close()

	out := make(map[string]quote.Literal)
	for rows.Next() {
		var instrument, value, unit string
		if err := rows.Scan(&instrument, &value, &unit); err != nil {
			return nil, fmt.Errorf("SQLStore.Quotes: %w", err)
		}
		q, err := quote.Parse(value, quote.Unit(unit))
		if err != nil {
			return nil, fmt.Errorf("SQLStore.Quotes: %s: %w", instrument, err)
		}
		out[instrument] = q
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("SQLStore.Quotes: %w", err)
	}
	return out, nil
}

// PutFixing stores an index fixing.
func (s *SQLStore) PutFixing(ctx context.Context, indexName string, date time.Time, value string, unit quote.Unit) error {
	if _, err := quote.Parse(value, unit); err != nil {
		return fmt.Errorf("SQLStore.PutFixing: %s: %w", indexName, err)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO index_fixings (index_name, fixing_date, value, unit)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (index_name, fixing_date) DO UPDATE SET value = excluded.value, unit = excluded.unit`,
		indexName, date.Format(utils.DateLayout), value, string(unit))
	if err != nil {
		return fmt.Errorf("SQLStore.PutFixing: %s: %w", indexName, err)
	}
	return nil
}

// Fixings loads the fixings of indexName in [from, to] into a feed.
func (s *SQLStore) Fixings(ctx context.Context, indexName string, from, to time.Time) (*FixingFeed, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT fixing_date, value, unit FROM index_fixings
		WHERE index_name = $1 AND fixing_date >= $2 AND fixing_date <= $3`,
		indexName, from.Format(utils.DateLayout), to.Format(utils.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("SQLStore.Fixings: %w", err)
	}
	defer rows.Close()

	feed := NewFixingFeed(nil)
	for rows.Next() {
		var date, value, unit string
		if err := rows.Scan(&date, &value, &unit); err != nil {
			return nil, fmt.Errorf("SQLStore.Fixings: %w", err)
		}
		d, err := utils.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("SQLStore.Fixings: %s: %w", indexName, err)
		}
		q, err := quote.Parse(value, quote.Unit(unit))
		if err != nil {
			return nil, fmt.Errorf("SQLStore.Fixings: %s: %w", indexName, err)
		}
		feed.Add(d, float64(q))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("SQLStore.Fixings: %w", err)
	}
	return feed, nil
}
