package job

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kmccarty/tradeops/internal/customer"
	"github.com/kmccarty/tradeops/internal/pricing"
	"github.com/kmccarty/tradeops/internal/quote"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=job
type Repository interface {
	CreateJob(ctx context.Context, j *Job) error
	GetJob(ctx context.Context, id uuid.UUID) (*Job, error)
	UpdateJob(ctx context.Context, j *Job) error
	ListJobs(ctx context.Context, filter ListFilter) ([]*Job, error)

	// BeginSync opens the transaction that EnsureForQuote runs in. The
	// quote->job sync is the only operation that spans two documents.
	BeginSync(ctx context.Context) (SyncTx, error)
}

type SyncTx interface {
	GetJobForQuote(ctx context.Context, quoteID uuid.UUID) (*Job, error)
	CreateJob(ctx context.Context, j *Job) error
	UpdateJob(ctx context.Context, j *Job) error
	Commit() error
	Rollback() error
}

// CustomerDirectory stamps the service address onto converted jobs.
type CustomerDirectory interface {
	GetCustomer(ctx context.Context, id uuid.UUID) (*customer.Customer, error)
}

type Service struct {
	repo      Repository
	customers CustomerDirectory
}

func NewService(repo Repository, customers CustomerDirectory) *Service {
	return &Service{repo: repo, customers: customers}
}

type CreateParams struct {
	CustomerID uuid.UUID
	QuoteID    *uuid.UUID
	Title      string
	Address    string
	Notes      string
}

type ListFilter struct {
	CustomerID  *uuid.UUID
	Statuses    []Status
	Tech        *string
	Scheduled   *bool // true: scheduled_start set, false: unset
	StartAfter  *time.Time
	StartBefore *time.Time
}

// Create is the manual job path: a service call raised directly, with or
// without a backing quote.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Job, error) {
	if params.CustomerID == uuid.Nil {
		return nil, &quote.ValidationError{Field: "customer_id", Reason: "required"}
	}

	c, err := s.customers.GetCustomer(ctx, params.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("resolving customer: %w", err)
	}

	title := params.Title
	if title == "" {
		title = "Service Call"
	}

	address := params.Address
	if address == "" {
		address = c.Address
	}

	j := &Job{
		CustomerID: params.CustomerID,
		QuoteID:    params.QuoteID,
		Status:     StatusNew,
		Title:      title,
		Address:    address,
		Notes:      params.Notes,
		LineItems:  []pricing.LineItem{},
	}
	if err := s.repo.CreateJob(ctx, j); err != nil {
		return nil, err
	}

	return j, nil
}

// EnsureForQuote creates or re-syncs the job derived from an approved quote.
// Idempotent: at most one job ever exists per quote, and a repeat call with
// no intervening quote change leaves it untouched. The sync stops once the
// job is scheduled, so quote edits cannot corrupt an in-progress work order.
func (s *Service) EnsureForQuote(ctx context.Context, q *quote.Quote) error {
	if q.Status != quote.StatusApproved {
		return nil
	}

	tx, err := s.repo.BeginSync(ctx)
	if err != nil {
		return fmt.Errorf("begin sync: %w", err)
	}
	defer tx.Rollback()

	existing, err := tx.GetJobForQuote(ctx, q.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("looking up job for quote: %w", err)
	}

	if existing == nil {
		j := &Job{
			CustomerID: q.CustomerID,
			QuoteID:    &q.ID,
			Status:     StatusApproved,
			Title:      "Service Call (from Quote)",
			LineItems:  pricing.CopyItems(q.LineItems),
			Total:      q.Total,
			Notes:      q.Notes,
		}

		if c, err := s.customers.GetCustomer(ctx, q.CustomerID); err == nil {
			j.Address = c.Address
		}

		if err := tx.CreateJob(ctx, j); err != nil {
			return fmt.Errorf("creating job: %w", err)
		}

		return tx.Commit()
	}

	if !existing.Status.Unscheduled() {
		// The field copy has diverged on purpose. Leave it alone.
		return nil
	}

	existing.LineItems = pricing.CopyItems(q.LineItems)
	existing.Total = q.Total
	existing.Notes = q.Notes
	if existing.Status == StatusNew {
		existing.Status = StatusApproved
	}

	if err := tx.UpdateJob(ctx, existing); err != nil {
		return fmt.Errorf("syncing job: %w", err)
	}

	return tx.Commit()
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Job, error) {
	return s.repo.GetJob(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Job, error) {
	return s.repo.ListJobs(ctx, filter)
}
