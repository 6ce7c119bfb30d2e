package portfolio

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stockfolio/internal/database"
	"github.com/stockfolio/internal/domain"
)

// SQLiteStore persists holdings in the local database.
// Insertion order is kept in an explicit position column.
type SQLiteStore struct {
	db  *database.DB
	log zerolog.Logger
}

// NewSQLiteStore creates a new SQLite-backed holdings store
func NewSQLiteStore(db *database.DB, log zerolog.Logger) *SQLiteStore {
	return &SQLiteStore{
		db:  db,
		log: log.With().Str("store", "sqlite").Logger(),
	}
}

// Load returns all holdings in insertion order.
// An empty table is an empty portfolio, not an error.
func (s *SQLiteStore) Load(ctx context.Context) ([]Holding, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT ticker, name, industry, shares, price, rate
		FROM holdings
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query holdings: %v", domain.ErrPersistence, err)
	}
	defer rows.Close()

	holdings := []Holding{}
	for rows.Next() {
		var h Holding
		if err := rows.Scan(&h.Ticker, &h.Name, &h.Industry, &h.Shares, &h.Price, &h.Rate); err != nil {
			return nil, fmt.Errorf("%w: failed to scan holding: %v", domain.ErrPersistence, err)
		}
		holdings = append(holdings, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating holdings: %v", domain.ErrPersistence, err)
	}

	return holdings, nil
}

// Save replaces the stored sequence with the given one in a single
// transaction, so readers never observe a partial portfolio.
func (s *SQLiteStore) Save(ctx context.Context, holdings []Holding) error {
	tx, err := s.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", domain.ErrPersistence, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM holdings"); err != nil {
		return fmt.Errorf("%w: failed to clear holdings: %v", domain.ErrPersistence, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO holdings (ticker, name, industry, shares, price, rate, position)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%w: failed to prepare insert: %v", domain.ErrPersistence, err)
	}
	defer stmt.Close()

	for i, h := range holdings {
		if _, err := stmt.ExecContext(ctx, h.Ticker, h.Name, h.Industry, h.Shares, h.Price, h.Rate, i); err != nil {
			return fmt.Errorf("%w: failed to insert holding %s: %v", domain.ErrPersistence, h.Ticker, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit holdings: %v", domain.ErrPersistence, err)
	}

	s.log.Debug().Int("count", len(holdings)).Msg("Holdings saved")
	return nil
}
