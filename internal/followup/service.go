package followup

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kmccarty/tradeops/internal/customer"
	"github.com/kmccarty/tradeops/internal/quote"
)

// CustomerDirectory resolves display names for the due list.
type CustomerDirectory interface {
	GetCustomer(ctx context.Context, id uuid.UUID) (*customer.Customer, error)
}

// Service derives the recontact worklist from open quotes and records call
// outcomes. Won and Lost outcomes close the quote through the quote
// lifecycle, so a Won quote gets its job ensured the same way an explicit
// approval would.
type Service struct {
	quotes    *quote.Service
	customers CustomerDirectory
}

func NewService(quotes *quote.Service, customers CustomerDirectory) *Service {
	return &Service{quotes: quotes, customers: customers}
}

// DueList returns open quotes ordered by next follow-up date ascending,
// quotes without a date last. Approved and Declined quotes never appear.
// When asOf is set, only quotes due on or before it are included.
func (s *Service) DueList(ctx context.Context, asOf *time.Time) ([]Entry, error) {
	var entries []Entry

	for _, status := range []quote.Status{quote.StatusDraft, quote.StatusSent} {
		quotes, err := s.quotes.List(ctx, quote.ListFilter{Status: &status})
		if err != nil {
			return nil, fmt.Errorf("listing %s quotes: %w", status, err)
		}

		for _, q := range quotes {
			if asOf != nil && (q.NextFollowUp == nil || q.NextFollowUp.After(*asOf)) {
				continue
			}

			name := ""
			if c, err := s.customers.GetCustomer(ctx, q.CustomerID); err == nil {
				name = c.Name
			}

			entries = append(entries, Entry{
				QuoteID:        q.ID,
				CustomerName:   name,
				Total:          q.Total,
				NextFollowUp:   q.NextFollowUp,
				FollowUpStatus: q.FollowUpStatus,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].NextFollowUp, entries[j].NextFollowUp
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}

		return a.Before(*b)
	})

	return entries, nil
}

type InteractionParams struct {
	QuoteID      uuid.UUID
	Outcome      quote.FollowUpStatus
	NextFollowUp *time.Time
}

// LogInteraction records a call outcome. Won approves the quote (which
// ensures its job exists), Lost declines it, anything else just reschedules
// the next contact. A closing outcome on a quote that cannot take the
// matching transition is rejected before anything is written.
func (s *Service) LogInteraction(ctx context.Context, params InteractionParams) (*quote.Quote, error) {
	var target *quote.Status
	switch params.Outcome {
	case quote.FollowUpWon:
		target = ptr(quote.StatusApproved)
	case quote.FollowUpLost:
		target = ptr(quote.StatusDeclined)
	}

	if target != nil {
		q, err := s.quotes.Get(ctx, params.QuoteID)
		if err != nil {
			return nil, err
		}

		if *target != q.Status && !q.Status.CanTransitionTo(*target) {
			return nil, fmt.Errorf("%w: %s -> %s", quote.ErrInvalidTransition, q.Status, *target)
		}
	}

	q, err := s.quotes.SetFollowUp(ctx, params.QuoteID, params.Outcome, params.NextFollowUp)
	if err != nil {
		return nil, err
	}

	if target != nil {
		return s.quotes.SetStatus(ctx, params.QuoteID, *target)
	}

	return q, nil
}

func ptr[T any](v T) *T { return &v }
