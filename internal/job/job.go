package job

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kmccarty/tradeops/internal/pricing"
)

var ErrNotFound = errors.New("job not found")

// Status is the lifecycle state of a job. New/Approved jobs are unscheduled
// and still follow their quote; Scheduled and later states own their own
// line-item copy. Complete is terminal.
type Status string

const (
	StatusNew        Status = "New"
	StatusApproved   Status = "Approved"
	StatusScheduled  Status = "Scheduled"
	StatusInProgress Status = "InProgress"
	StatusComplete   Status = "Complete"
)

// Rank orders statuses for the monotonicity rule: New and Approved share the
// unscheduled rank, then Scheduled, InProgress, Complete.
func (s Status) Rank() int {
	switch s {
	case StatusNew, StatusApproved:
		return 0
	case StatusScheduled:
		return 1
	case StatusInProgress:
		return 2
	case StatusComplete:
		return 3
	}

	return -1
}

// Unscheduled reports whether the job still tracks its quote.
func (s Status) Unscheduled() bool {
	return s == StatusNew || s == StatusApproved
}

// Job (a.k.a. service call) is the schedulable unit of field work. Its line
// items are a snapshot copy of the source quote, not a live reference: they
// are re-synced from the quote only while the job is unscheduled, and become
// independently editable by the field once scheduled.
type Job struct {
	ID             uuid.UUID
	QuoteID        *uuid.UUID
	CustomerID     uuid.UUID
	Status         Status
	Title          string
	Address        string
	LineItems      []pricing.LineItem
	Total          decimal.Decimal
	AssignedTech   *string
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
	Notes          string
	CreatedAt      time.Time
	CompletedAt    *time.Time
}
