package customer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kmccarty/tradeops/internal/customer"
	"github.com/kmccarty/tradeops/internal/job"
	"github.com/kmccarty/tradeops/internal/quote"
)

type customerResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Address   string     `json:"address,omitempty"`
	City      string     `json:"city,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func toResponse(c *customer.Customer) customerResponse {
	return customerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		City:      c.City,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toResponseList(customers []*customer.Customer) []customerResponse {
	resp := make([]customerResponse, len(customers))
	for i, c := range customers {
		resp[i] = toResponse(c)
	}

	return resp
}

type quoteSummary struct {
	ID     uuid.UUID       `json:"id"`
	Status quote.Status    `json:"status"`
	Total  decimal.Decimal `json:"total"`
}

type jobSummary struct {
	ID             uuid.UUID       `json:"id"`
	Status         job.Status      `json:"status"`
	Title          string          `json:"title"`
	Total          decimal.Decimal `json:"total"`
	AssignedTech   *string         `json:"assigned_tech,omitempty"`
	ScheduledStart *time.Time      `json:"scheduled_start,omitempty"`
}

type summaryResponse struct {
	Customer customerResponse `json:"customer"`
	Quotes   []quoteSummary   `json:"quotes"`
	Jobs     []jobSummary     `json:"jobs"`
}

func toSummaryResponse(c *customer.Customer, quotes []*quote.Quote, jobs []*job.Job) summaryResponse {
	resp := summaryResponse{
		Customer: toResponse(c),
		Quotes:   make([]quoteSummary, len(quotes)),
		Jobs:     make([]jobSummary, len(jobs)),
	}

	for i, q := range quotes {
		resp.Quotes[i] = quoteSummary{ID: q.ID, Status: q.Status, Total: q.Total}
	}

	for i, j := range jobs {
		resp.Jobs[i] = jobSummary{
			ID:             j.ID,
			Status:         j.Status,
			Title:          j.Title,
			Total:          j.Total,
			AssignedTech:   j.AssignedTech,
			ScheduledStart: j.ScheduledStart,
		}
	}

	return resp
}
