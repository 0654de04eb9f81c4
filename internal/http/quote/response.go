package quote

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kmccarty/tradeops/internal/pricing"
	"github.com/kmccarty/tradeops/internal/quote"
)

type adjustmentsDTO struct {
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Fee      decimal.Decimal `json:"fee"`
}

func (a adjustmentsDTO) toDomain() pricing.Adjustments {
	return pricing.Adjustments{Tax: a.Tax, Discount: a.Discount, Fee: a.Fee}
}

type quoteResponse struct {
	ID             uuid.UUID            `json:"id"`
	CustomerID     uuid.UUID            `json:"customer_id"`
	Status         quote.Status         `json:"status"`
	LineItems      []pricing.LineItem   `json:"line_items"`
	Adjustments    adjustmentsDTO       `json:"adjustments"`
	Subtotal       decimal.Decimal      `json:"subtotal"`
	Total          decimal.Decimal      `json:"total"`
	CostTotal      decimal.Decimal      `json:"cost_total"`
	MarginPercent  decimal.Decimal      `json:"margin_percent"`
	Notes          string               `json:"notes,omitempty"`
	NextFollowUp   *time.Time           `json:"next_followup_date,omitempty"`
	FollowUpStatus quote.FollowUpStatus `json:"followup_status"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      *time.Time           `json:"updated_at,omitempty"`
}

func toResponse(q *quote.Quote) quoteResponse {
	return quoteResponse{
		ID:         q.ID,
		CustomerID: q.CustomerID,
		Status:     q.Status,
		LineItems:  q.LineItems,
		Adjustments: adjustmentsDTO{
			Tax:      q.Adjustments.Tax,
			Discount: q.Adjustments.Discount,
			Fee:      q.Adjustments.Fee,
		},
		Subtotal:       q.Subtotal,
		Total:          q.Total,
		CostTotal:      q.CostTotal,
		MarginPercent:  q.MarginPercent,
		Notes:          q.Notes,
		NextFollowUp:   q.NextFollowUp,
		FollowUpStatus: q.FollowUpStatus,
		CreatedAt:      q.CreatedAt,
		UpdatedAt:      q.UpdatedAt,
	}
}

func toResponseList(quotes []*quote.Quote) []quoteResponse {
	resp := make([]quoteResponse, len(quotes))
	for i, q := range quotes {
		resp[i] = toResponse(q)
	}

	return resp
}
