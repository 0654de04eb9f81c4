package catalog

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("catalog item not found")

// Item is a priced entry in the flat-rate book. Line items may reference an
// item or be free-text; the catalog is read-mostly.
type Item struct {
	ID       uuid.UUID
	Name     string
	Category string
	Cost     decimal.Decimal
	Price    decimal.Decimal
}
