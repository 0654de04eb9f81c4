package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/kmccarty/tradeops/internal/pricing"
	"github.com/kmccarty/tradeops/internal/quote"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanQuote reads a quote row. Line items are stored as an ordered JSONB
// array embedded in the row; the quote owns them exclusively.
func scanQuote(s scanner) (*quote.Quote, error) {
	var q quote.Quote

	var statusStr, followUpStr string

	var itemsJSON []byte

	if err := s.Scan(
		&q.ID, &q.CustomerID, &statusStr, &itemsJSON,
		&q.Adjustments.Tax, &q.Adjustments.Discount, &q.Adjustments.Fee,
		&q.Subtotal, &q.Total, &q.CostTotal, &q.MarginPercent,
		&q.Notes, &q.NextFollowUp, &followUpStr,
		&q.CreatedAt, &q.UpdatedAt,
	); err != nil {
		return nil, err
	}

	q.Status = quote.Status(statusStr)
	q.FollowUpStatus = quote.FollowUpStatus(followUpStr)

	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &q.LineItems); err != nil {
			return nil, fmt.Errorf("decoding line items: %w", err)
		}
	}

	return &q, nil
}

const selectQuoteColumns = `
	id, customer_id, status, line_items,
	tax, discount, fee,
	subtotal, total, cost_total, margin_percent,
	notes, next_followup_date, followup_status,
	created_at, updated_at
`

func encodeItems(items []pricing.LineItem) ([]byte, error) {
	if items == nil {
		items = []pricing.LineItem{}
	}

	return json.Marshal(items)
}

func (s *Store) CreateQuote(ctx context.Context, q *quote.Quote) error {
	itemsJSON, err := encodeItems(q.LineItems)
	if err != nil {
		return fmt.Errorf("encoding line items: %w", err)
	}

	query := `
		INSERT INTO quotes (
			id, customer_id, status, line_items,
			tax, discount, fee,
			subtotal, total, cost_total, margin_percent,
			notes, next_followup_date, followup_status, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
		RETURNING created_at
	`

	q.ID = uuid.New()

	if err := s.db.QueryRowContext(ctx, query,
		q.ID, q.CustomerID, q.Status, itemsJSON,
		q.Adjustments.Tax, q.Adjustments.Discount, q.Adjustments.Fee,
		q.Subtotal, q.Total, q.CostTotal, q.MarginPercent,
		q.Notes, q.NextFollowUp, q.FollowUpStatus,
	).Scan(&q.CreatedAt); err != nil {
		return fmt.Errorf("creating quote: %w", err)
	}

	return nil
}

func (s *Store) GetQuote(ctx context.Context, id uuid.UUID) (*quote.Quote, error) {
	query := `SELECT ` + selectQuoteColumns + ` FROM quotes WHERE id = $1`

	q, err := scanQuote(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, quote.ErrNotFound
		}

		return nil, fmt.Errorf("getting quote: %w", err)
	}

	return q, nil
}

func (s *Store) UpdateQuote(ctx context.Context, q *quote.Quote) error {
	itemsJSON, err := encodeItems(q.LineItems)
	if err != nil {
		return fmt.Errorf("encoding line items: %w", err)
	}

	query := `
		UPDATE quotes
		SET status = $2, line_items = $3,
			tax = $4, discount = $5, fee = $6,
			subtotal = $7, total = $8, cost_total = $9, margin_percent = $10,
			notes = $11, next_followup_date = $12, followup_status = $13,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	if err := s.db.QueryRowContext(ctx, query,
		q.ID, q.Status, itemsJSON,
		q.Adjustments.Tax, q.Adjustments.Discount, q.Adjustments.Fee,
		q.Subtotal, q.Total, q.CostTotal, q.MarginPercent,
		q.Notes, q.NextFollowUp, q.FollowUpStatus,
	).Scan(&q.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return quote.ErrNotFound
		}

		return fmt.Errorf("updating quote: %w", err)
	}

	return nil
}

func (s *Store) ListQuotes(ctx context.Context, filter quote.ListFilter) ([]*quote.Quote, error) {
	query := `SELECT ` + selectQuoteColumns + ` FROM quotes WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.CustomerID != nil {
		query += fmt.Sprintf(" AND customer_id = $%d", argIdx)
		args = append(args, *filter.CustomerID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing quotes: %w", err)
	}
	defer rows.Close()

	var quotes []*quote.Quote

	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning quote: %w", err)
		}

		quotes = append(quotes, q)
	}

	return quotes, rows.Err()
}
