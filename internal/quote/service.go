package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kmccarty/tradeops/internal/customer"
	"github.com/kmccarty/tradeops/internal/pricing"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=quote
type Repository interface {
	CreateQuote(ctx context.Context, q *Quote) error
	GetQuote(ctx context.Context, id uuid.UUID) (*Quote, error)
	UpdateQuote(ctx context.Context, q *Quote) error
	ListQuotes(ctx context.Context, filter ListFilter) ([]*Quote, error)
}

// CustomerDirectory resolves the customer a quote is written for.
type CustomerDirectory interface {
	GetCustomer(ctx context.Context, id uuid.UUID) (*customer.Customer, error)
}

// JobSyncer creates or re-syncs the job derived from an approved quote.
// Implemented by the job conversion service; every path that lands a quote
// on Approved must call it, including status-only transitions.
type JobSyncer interface {
	EnsureForQuote(ctx context.Context, q *Quote) error
}

type Service struct {
	repo      Repository
	customers CustomerDirectory
	syncer    JobSyncer
}

func NewService(repo Repository, customers CustomerDirectory, syncer JobSyncer) *Service {
	return &Service{repo: repo, customers: customers, syncer: syncer}
}

type CreateParams struct {
	CustomerID  uuid.UUID
	LineItems   []pricing.LineItem
	Adjustments pricing.Adjustments
	Notes       string
	// Status overrides the Draft default. Kept for callers that create
	// pre-approved quotes from field sales.
	Status *Status
}

type UpdateParams struct {
	// LineItems replaces the item list wholesale; this is not a patch.
	LineItems   []pricing.LineItem
	Adjustments pricing.Adjustments
	Notes       string
	Status      *Status
}

type ListFilter struct {
	CustomerID *uuid.UUID
	Status     *Status
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Quote, error) {
	if params.CustomerID == uuid.Nil {
		return nil, &ValidationError{Field: "customer_id", Reason: "required"}
	}

	if _, err := s.customers.GetCustomer(ctx, params.CustomerID); err != nil {
		return nil, fmt.Errorf("resolving customer: %w", err)
	}

	status := StatusDraft
	if params.Status != nil {
		if !params.Status.valid() {
			return nil, &ValidationError{Field: "status", Reason: "unknown status"}
		}

		status = *params.Status
	}

	q := &Quote{
		CustomerID:     params.CustomerID,
		Status:         status,
		LineItems:      assignItemIDs(params.LineItems),
		Adjustments:    params.Adjustments,
		Notes:          params.Notes,
		FollowUpStatus: FollowUpNeedsCall,
	}
	q.applyTotals(pricing.Recalculate(q.LineItems, q.Adjustments))

	if err := s.repo.CreateQuote(ctx, q); err != nil {
		return nil, err
	}

	if err := s.syncOnApproval(ctx, q); err != nil {
		return nil, err
	}

	return q, nil
}

// Update replaces the quote's line items, adjustments and notes, recomputes
// totals, and optionally moves the status. Edits to an Approved quote are
// legal and re-trigger the job sync so an unscheduled job follows the quote.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Quote, error) {
	q, err := s.repo.GetQuote(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Status != nil && *params.Status != q.Status {
		if !q.Status.CanTransitionTo(*params.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, q.Status, *params.Status)
		}

		q.Status = *params.Status
	}

	q.LineItems = assignItemIDs(params.LineItems)
	q.Adjustments = params.Adjustments
	q.Notes = params.Notes
	q.applyTotals(pricing.Recalculate(q.LineItems, q.Adjustments))

	if err := s.repo.UpdateQuote(ctx, q); err != nil {
		return nil, err
	}

	if err := s.syncOnApproval(ctx, q); err != nil {
		return nil, err
	}

	return q, nil
}

func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Quote, error) {
	q, err := s.repo.GetQuote(ctx, id)
	if err != nil {
		return nil, err
	}

	if status == q.Status {
		return q, nil
	}

	if !q.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, q.Status, status)
	}

	q.Status = status

	if err := s.repo.UpdateQuote(ctx, q); err != nil {
		return nil, err
	}

	if err := s.syncOnApproval(ctx, q); err != nil {
		return nil, err
	}

	return q, nil
}

// SetFollowUp records the follow-up state and next contact date without
// touching line items or totals.
func (s *Service) SetFollowUp(ctx context.Context, id uuid.UUID, status FollowUpStatus, next *time.Time) (*Quote, error) {
	if !status.Valid() {
		return nil, &ValidationError{Field: "followup_status", Reason: "unknown outcome"}
	}

	q, err := s.repo.GetQuote(ctx, id)
	if err != nil {
		return nil, err
	}

	q.FollowUpStatus = status
	q.NextFollowUp = next

	if err := s.repo.UpdateQuote(ctx, q); err != nil {
		return nil, err
	}

	return q, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Quote, error) {
	return s.repo.GetQuote(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Quote, error) {
	return s.repo.ListQuotes(ctx, filter)
}

func (s *Service) syncOnApproval(ctx context.Context, q *Quote) error {
	if q.Status != StatusApproved {
		return nil
	}

	if err := s.syncer.EnsureForQuote(ctx, q); err != nil {
		return fmt.Errorf("syncing job for quote %s: %w", q.ID, err)
	}

	return nil
}

// assignItemIDs gives each incoming line item an id if the caller did not
// supply one. Item order is preserved.
func assignItemIDs(items []pricing.LineItem) []pricing.LineItem {
	out := pricing.CopyItems(items)
	for i := range out {
		if out[i].ID == uuid.Nil {
			out[i].ID = uuid.New()
		}
	}

	return out
}
