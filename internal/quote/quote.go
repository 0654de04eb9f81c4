package quote

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kmccarty/tradeops/internal/pricing"
)

var (
	ErrNotFound          = errors.New("quote not found")
	ErrInvalidTransition = errors.New("invalid quote status transition")
)

// Status is the lifecycle state of a quote. Transitions only move forward:
// Draft -> Sent -> Approved/Declined. Approved and Declined are terminal.
type Status string

const (
	StatusDraft    Status = "Draft"
	StatusSent     Status = "Sent"
	StatusApproved Status = "Approved"
	StatusDeclined Status = "Declined"
)

// rank orders statuses for the forward-only transition rule. Approved and
// Declined share a rank; both are terminal.
func (s Status) rank() int {
	switch s {
	case StatusDraft:
		return 0
	case StatusSent:
		return 1
	case StatusApproved, StatusDeclined:
		return 2
	}

	return -1
}

func (s Status) valid() bool {
	return s.rank() >= 0
}

func (s Status) terminal() bool {
	return s == StatusApproved || s == StatusDeclined
}

// CanTransitionTo reports whether a status move is legal. Setting the
// current status again is allowed and treated as a no-op by callers.
func (s Status) CanTransitionTo(next Status) bool {
	if !next.valid() {
		return false
	}

	if s == next {
		return true
	}

	return !s.terminal() && next.rank() > s.rank()
}

// FollowUpStatus tracks where a quote sits in the sales recontact cycle.
type FollowUpStatus string

const (
	FollowUpNeedsCall     FollowUpStatus = "NeedsCall"
	FollowUpLeftVoicemail FollowUpStatus = "LeftVoicemail"
	FollowUpWon           FollowUpStatus = "Won"
	FollowUpLost          FollowUpStatus = "Lost"
)

func (f FollowUpStatus) Valid() bool {
	switch f {
	case FollowUpNeedsCall, FollowUpLeftVoicemail, FollowUpWon, FollowUpLost:
		return true
	}

	return false
}

// Quote is a priced proposal document. Totals are derived fields and are
// recomputed on every mutation; they are never written stale.
type Quote struct {
	ID             uuid.UUID
	CustomerID     uuid.UUID
	Status         Status
	LineItems      []pricing.LineItem
	Adjustments    pricing.Adjustments
	Subtotal       decimal.Decimal
	Total          decimal.Decimal
	CostTotal      decimal.Decimal
	MarginPercent  decimal.Decimal
	Notes          string
	NextFollowUp   *time.Time
	FollowUpStatus FollowUpStatus
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// ValidationError reports a missing or malformed field on create/update.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (q *Quote) applyTotals(t pricing.Totals) {
	q.Subtotal = t.Subtotal
	q.CostTotal = t.CostTotal
	q.Total = t.Total
	q.MarginPercent = t.MarginPercent
}
