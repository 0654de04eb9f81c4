package job

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kmccarty/tradeops/internal/job"
	"github.com/kmccarty/tradeops/internal/pricing"
)

type jobResponse struct {
	ID             uuid.UUID          `json:"id"`
	QuoteID        *uuid.UUID         `json:"quote_id,omitempty"`
	CustomerID     uuid.UUID          `json:"customer_id"`
	Status         job.Status         `json:"status"`
	Title          string             `json:"title"`
	Address        string             `json:"address,omitempty"`
	LineItems      []pricing.LineItem `json:"line_items"`
	Total          decimal.Decimal    `json:"total"`
	AssignedTech   *string            `json:"assigned_tech,omitempty"`
	ScheduledStart *time.Time         `json:"scheduled_start,omitempty"`
	ScheduledEnd   *time.Time         `json:"scheduled_end,omitempty"`
	Notes          string             `json:"notes,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	CompletedAt    *time.Time         `json:"completed_at,omitempty"`
}

func toResponse(j *job.Job) jobResponse {
	return jobResponse{
		ID:             j.ID,
		QuoteID:        j.QuoteID,
		CustomerID:     j.CustomerID,
		Status:         j.Status,
		Title:          j.Title,
		Address:        j.Address,
		LineItems:      j.LineItems,
		Total:          j.Total,
		AssignedTech:   j.AssignedTech,
		ScheduledStart: j.ScheduledStart,
		ScheduledEnd:   j.ScheduledEnd,
		Notes:          j.Notes,
		CreatedAt:      j.CreatedAt,
		CompletedAt:    j.CompletedAt,
	}
}

func toResponseList(jobs []*job.Job) []jobResponse {
	resp := make([]jobResponse, len(jobs))
	for i, j := range jobs {
		resp[i] = toResponse(j)
	}

	return resp
}
