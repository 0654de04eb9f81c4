package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind classifies a line item row.
type Kind string

const (
	KindMaterial Kind = "material"
	KindLabor    Kind = "labor"
	KindFee      Kind = "fee"
	KindDiscount Kind = "discount"
)

// LineItem is one priced row on a quote or job. Items are owned by the
// document that contains them and are never shared across documents.
type LineItem struct {
	ID            uuid.UUID       `json:"id"`
	CatalogItemID *uuid.UUID      `json:"catalog_item_id,omitempty"`
	Kind          Kind            `json:"kind"`
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
}

// Adjustments are the document-level amounts applied on top of the line items.
type Adjustments struct {
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Fee      decimal.Decimal `json:"fee"`
}

// Totals is the result of a recalculation.
type Totals struct {
	Subtotal      decimal.Decimal
	CostTotal     decimal.Decimal
	Total         decimal.Decimal
	MarginPercent decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// Recalculate computes document totals from scratch. It is deterministic and
// has no side effects; callers run it after every line-item or adjustment
// mutation, before the write. Negative totals are not clamped so that bad
// input data surfaces instead of being hidden.
func Recalculate(items []LineItem, adj Adjustments) Totals {
	var t Totals

	for _, it := range items {
		t.Subtotal = t.Subtotal.Add(it.Quantity.Mul(it.UnitPrice))
		t.CostTotal = t.CostTotal.Add(it.Quantity.Mul(it.UnitCost))
	}

	t.Total = t.Subtotal.Add(adj.Fee).Add(adj.Tax).Sub(adj.Discount)

	if t.Total.IsPositive() {
		t.MarginPercent = t.Total.Sub(t.CostTotal).Div(t.Total).Mul(hundred).Round(2)
	}

	return t
}

// CopyItems returns a deep copy of a line-item list. Used when snapshotting
// quote items onto a job so the two documents never alias.
func CopyItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}

	out := make([]LineItem, len(items))
	copy(out, items)

	for i := range out {
		if items[i].CatalogItemID != nil {
			id := *items[i].CatalogItemID
			out[i].CatalogItemID = &id
		}
	}

	return out
}
