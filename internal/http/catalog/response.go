package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kmccarty/tradeops/internal/catalog"
)

type itemResponse struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category,omitempty"`
	Cost     decimal.Decimal `json:"cost"`
	Price    decimal.Decimal `json:"price"`
}

type importResponse struct {
	Imported int            `json:"imported"`
	Items    []itemResponse `json:"items"`
}

func toResponse(item *catalog.Item) itemResponse {
	return itemResponse{
		ID:       item.ID,
		Name:     item.Name,
		Category: item.Category,
		Cost:     item.Cost,
		Price:    item.Price,
	}
}

func toResponseList(items []*catalog.Item) []itemResponse {
	resp := make([]itemResponse, len(items))
	for i, item := range items {
		resp[i] = toResponse(item)
	}

	return resp
}
