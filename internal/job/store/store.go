package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/kmccarty/tradeops/internal/job"
	"github.com/kmccarty/tradeops/internal/pricing"
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

func scanJob(s scanner) (*job.Job, error) {
	var j job.Job

	var statusStr string

	var itemsJSON []byte

	if err := s.Scan(
		&j.ID, &j.QuoteID, &j.CustomerID, &statusStr, &j.Title, &j.Address,
		&itemsJSON, &j.Total, &j.AssignedTech,
		&j.ScheduledStart, &j.ScheduledEnd,
		&j.Notes, &j.CreatedAt, &j.CompletedAt,
	); err != nil {
		return nil, err
	}

	j.Status = job.Status(statusStr)

	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &j.LineItems); err != nil {
			return nil, fmt.Errorf("decoding line items: %w", err)
		}
	}

	return &j, nil
}

const selectJobColumns = `
	id, quote_id, customer_id, status, title, address,
	line_items, total, assigned_tech,
	scheduled_start, scheduled_end,
	notes, created_at, completed_at
`

func encodeItems(items []pricing.LineItem) ([]byte, error) {
	if items == nil {
		items = []pricing.LineItem{}
	}

	return json.Marshal(items)
}

// querier is satisfied by *sql.DB and *sql.Tx so the same statements serve
// both the plain store methods and the sync transaction.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func createJob(ctx context.Context, q querier, j *job.Job) error {
	itemsJSON, err := encodeItems(j.LineItems)
	if err != nil {
		return fmt.Errorf("encoding line items: %w", err)
	}

	query := `
		INSERT INTO jobs (
			id, quote_id, customer_id, status, title, address,
			line_items, total, assigned_tech,
			scheduled_start, scheduled_end, notes, created_at, completed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), $13)
		RETURNING created_at
	`

	j.ID = uuid.New()

	if err := q.QueryRowContext(ctx, query,
		j.ID, j.QuoteID, j.CustomerID, j.Status, j.Title, j.Address,
		itemsJSON, j.Total, j.AssignedTech,
		j.ScheduledStart, j.ScheduledEnd, j.Notes, j.CompletedAt,
	).Scan(&j.CreatedAt); err != nil {
		return fmt.Errorf("creating job: %w", err)
	}

	return nil
}

func updateJob(ctx context.Context, q querier, j *job.Job) error {
	itemsJSON, err := encodeItems(j.LineItems)
	if err != nil {
		return fmt.Errorf("encoding line items: %w", err)
	}

	query := `
		UPDATE jobs
		SET status = $2, title = $3, address = $4,
			line_items = $5, total = $6, assigned_tech = $7,
			scheduled_start = $8, scheduled_end = $9,
			notes = $10, completed_at = $11
		WHERE id = $1
		RETURNING id
	`

	var id uuid.UUID

	if err := q.QueryRowContext(ctx, query,
		j.ID, j.Status, j.Title, j.Address,
		itemsJSON, j.Total, j.AssignedTech,
		j.ScheduledStart, j.ScheduledEnd,
		j.Notes, j.CompletedAt,
	).Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return job.ErrNotFound
		}

		return fmt.Errorf("updating job: %w", err)
	}

	return nil
}

func getJobForQuote(ctx context.Context, q querier, quoteID uuid.UUID) (*job.Job, error) {
	query := `SELECT ` + selectJobColumns + ` FROM jobs WHERE quote_id = $1`

	j, err := scanJob(q.QueryRowContext(ctx, query, quoteID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, job.ErrNotFound
		}

		return nil, fmt.Errorf("getting job for quote: %w", err)
	}

	return j, nil
}

func (s *Store) CreateJob(ctx context.Context, j *job.Job) error {
	return createJob(ctx, s.db, j)
}

func (s *Store) UpdateJob(ctx context.Context, j *job.Job) error {
	return updateJob(ctx, s.db, j)
}

func (s *Store) GetJob(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	query := `SELECT ` + selectJobColumns + ` FROM jobs WHERE id = $1`

	j, err := scanJob(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, job.ErrNotFound
		}

		return nil, fmt.Errorf("getting job: %w", err)
	}

	return j, nil
}

func (s *Store) ListJobs(ctx context.Context, filter job.ListFilter) ([]*job.Job, error) {
	query := `SELECT ` + selectJobColumns + ` FROM jobs WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.CustomerID != nil {
		query += fmt.Sprintf(" AND customer_id = $%d", argIdx)
		args = append(args, *filter.CustomerID)
		argIdx++
	}

	if len(filter.Statuses) > 0 {
		query += fmt.Sprintf(" AND status = ANY($%d)", argIdx)

		statuses := make([]string, len(filter.Statuses))
		for i, st := range filter.Statuses {
			statuses[i] = string(st)
		}

		args = append(args, statuses)
		argIdx++
	}

	if filter.Tech != nil {
		query += fmt.Sprintf(" AND assigned_tech = $%d", argIdx)
		args = append(args, *filter.Tech)
		argIdx++
	}

	if filter.Scheduled != nil {
		if *filter.Scheduled {
			query += " AND scheduled_start IS NOT NULL"
		} else {
			query += " AND scheduled_start IS NULL"
		}
	}

	if filter.StartAfter != nil {
		query += fmt.Sprintf(" AND scheduled_start >= $%d", argIdx)
		args = append(args, *filter.StartAfter)
		argIdx++
	}

	if filter.StartBefore != nil {
		query += fmt.Sprintf(" AND scheduled_start <= $%d", argIdx)
		args = append(args, *filter.StartBefore)
		argIdx++
	}

	if filter.Scheduled != nil && *filter.Scheduled {
		query += ` ORDER BY scheduled_start ASC`
	} else {
		query += ` ORDER BY created_at DESC`
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*job.Job

	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}

		jobs = append(jobs, j)
	}

	return jobs, rows.Err()
}

// SyncTx wraps the quote->job sync in a single database transaction.
type SyncTx struct {
	tx *sql.Tx
}

func (s *Store) BeginSync(ctx context.Context) (job.SyncTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning sync tx: %w", err)
	}

	return &SyncTx{tx: tx}, nil
}

func (t *SyncTx) GetJobForQuote(ctx context.Context, quoteID uuid.UUID) (*job.Job, error) {
	return getJobForQuote(ctx, t.tx, quoteID)
}

func (t *SyncTx) CreateJob(ctx context.Context, j *job.Job) error {
	return createJob(ctx, t.tx, j)
}

func (t *SyncTx) UpdateJob(ctx context.Context, j *job.Job) error {
	return updateJob(ctx, t.tx, j)
}

func (t *SyncTx) Commit() error {
	return t.tx.Commit()
}

func (t *SyncTx) Rollback() error {
	return t.tx.Rollback()
}
