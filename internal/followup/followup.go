package followup

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kmccarty/tradeops/internal/quote"
)

// Entry is a derived row on the recontact worklist. It is a projection over
// an open quote, never persisted on its own.
type Entry struct {
	QuoteID        uuid.UUID
	CustomerName   string
	Total          decimal.Decimal
	NextFollowUp   *time.Time
	FollowUpStatus quote.FollowUpStatus
}
