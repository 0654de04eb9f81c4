package pricing_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/kmccarty/tradeops/internal/pricing"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func item(kind pricing.Kind, qty, cost, price string) pricing.LineItem {
	return pricing.LineItem{
		Kind:      kind,
		Quantity:  d(qty),
		UnitCost:  d(cost),
		UnitPrice: d(price),
	}
}

func TestRecalculate(t *testing.T) {
	type testCase struct {
		name       string
		items      []pricing.LineItem
		adj        pricing.Adjustments
		wantSub    string
		wantCost   string
		wantTotal  string
		wantMargin string
	}

	tests := []testCase{
		{
			name: "SingleItem",
			items: []pricing.LineItem{
				item(pricing.KindMaterial, "2", "40", "100"),
			},
			wantSub:    "200",
			wantCost:   "80",
			wantTotal:  "200",
			wantMargin: "60",
		},
		{
			name: "MixedItemsWithAdjustments",
			items: []pricing.LineItem{
				item(pricing.KindMaterial, "1", "1200", "2800"),
				item(pricing.KindLabor, "3", "35", "115"),
			},
			adj: pricing.Adjustments{
				Tax:      d("250"),
				Fee:      d("49"),
				Discount: d("100"),
			},
			wantSub:    "3145",
			wantCost:   "1305",
			wantTotal:  "3344",
			wantMargin: "60.98",
		},
		{
			name:       "Empty",
			wantSub:    "0",
			wantCost:   "0",
			wantTotal:  "0",
			wantMargin: "0",
		},
		{
			name: "FractionalQuantity",
			items: []pricing.LineItem{
				item(pricing.KindLabor, "1.5", "35", "115"),
			},
			wantSub:    "172.5",
			wantCost:   "52.5",
			wantTotal:  "172.5",
			wantMargin: "69.57",
		},
		{
			name: "DiscountDrivesTotalNegative",
			items: []pricing.LineItem{
				item(pricing.KindMaterial, "1", "10", "50"),
			},
			adj: pricing.Adjustments{
				Discount: d("80"),
			},
			wantSub:    "50",
			wantCost:   "10",
			wantTotal:  "-30",
			wantMargin: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricing.Recalculate(tt.items, tt.adj)

			assert.True(t, got.Subtotal.Equal(d(tt.wantSub)), "subtotal: got %s", got.Subtotal)
			assert.True(t, got.CostTotal.Equal(d(tt.wantCost)), "cost total: got %s", got.CostTotal)
			assert.True(t, got.Total.Equal(d(tt.wantTotal)), "total: got %s", got.Total)
			assert.True(t, got.MarginPercent.Equal(d(tt.wantMargin)), "margin: got %s", got.MarginPercent)
		})
	}
}

func TestRecalculate_TotalInvariant(t *testing.T) {
	items := []pricing.LineItem{
		item(pricing.KindMaterial, "2", "450", "1150"),
		item(pricing.KindLabor, "4", "55", "155"),
		item(pricing.KindMaterial, "1", "90", "325"),
	}
	adj := pricing.Adjustments{Tax: d("171.88"), Fee: d("25"), Discount: d("200")}

	got := pricing.Recalculate(items, adj)

	want := got.Subtotal.Add(adj.Tax).Add(adj.Fee).Sub(adj.Discount)
	assert.True(t, got.Total.Equal(want), "total must equal subtotal+tax+fee-discount")
}

func TestRecalculate_ZeroTotalMargin(t *testing.T) {
	items := []pricing.LineItem{
		item(pricing.KindMaterial, "0", "40", "100"),
	}

	got := pricing.Recalculate(items, pricing.Adjustments{})

	assert.True(t, got.Total.IsZero())
	assert.True(t, got.MarginPercent.IsZero(), "margin must be zero when total is zero")
}

func TestCopyItems(t *testing.T) {
	catID := uuid.New()
	src := []pricing.LineItem{
		{Description: "Drain Cleaning", CatalogItemID: &catID, Quantity: d("1")},
	}

	got := pricing.CopyItems(src)

	got[0].Description = "changed"
	*got[0].CatalogItemID = uuid.New()

	assert.Equal(t, "Drain Cleaning", src[0].Description)
	assert.Equal(t, catID, *src[0].CatalogItemID)
	assert.Nil(t, pricing.CopyItems(nil))
}
