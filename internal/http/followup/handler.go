package followup

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kmccarty/tradeops/internal/followup"
	"github.com/kmccarty/tradeops/internal/quote"
)

type Handler struct {
	svc *followup.Service
}

func NewHandler(svc *followup.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/due", h.due)
	r.Post("/{quote_id}/interactions", h.logInteraction)
}

type entryResponse struct {
	QuoteID        uuid.UUID            `json:"quote_id"`
	CustomerName   string               `json:"customer_name"`
	Total          decimal.Decimal      `json:"total"`
	NextFollowUp   *time.Time           `json:"next_followup_date,omitempty"`
	FollowUpStatus quote.FollowUpStatus `json:"followup_status"`
}

func (h *Handler) due(w http.ResponseWriter, r *http.Request) {
	var asOf *time.Time

	if s := r.URL.Query().Get("as_of"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "invalid as_of date", http.StatusBadRequest)
			return
		}

		asOf = &t
	}

	entries, err := h.svc.DueList(r.Context(), asOf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]entryResponse, len(entries))
	for i, e := range entries {
		resp[i] = entryResponse{
			QuoteID:        e.QuoteID,
			CustomerName:   e.CustomerName,
			Total:          e.Total,
			NextFollowUp:   e.NextFollowUp,
			FollowUpStatus: e.FollowUpStatus,
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type interactionRequest struct {
	Outcome      quote.FollowUpStatus `json:"outcome"`
	NextFollowUp *time.Time           `json:"next_followup_date,omitempty"`
}

type interactionResponse struct {
	QuoteID        uuid.UUID            `json:"quote_id"`
	Status         quote.Status         `json:"status"`
	FollowUpStatus quote.FollowUpStatus `json:"followup_status"`
	NextFollowUp   *time.Time           `json:"next_followup_date,omitempty"`
}

func (h *Handler) logInteraction(w http.ResponseWriter, r *http.Request) {
	quoteID, err := uuid.Parse(chi.URLParam(r, "quote_id"))
	if err != nil {
		http.Error(w, "invalid quote id", http.StatusBadRequest)
		return
	}

	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	q, err := h.svc.LogInteraction(r.Context(), followup.InteractionParams{
		QuoteID:      quoteID,
		Outcome:      req.Outcome,
		NextFollowUp: req.NextFollowUp,
	})
	if err != nil {
		var vErr *quote.ValidationError

		switch {
		case errors.Is(err, quote.ErrNotFound):
			http.Error(w, "quote not found", http.StatusNotFound)
		case errors.Is(err, quote.ErrInvalidTransition):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.As(err, &vErr):
			http.Error(w, vErr.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(interactionResponse{
		QuoteID:        q.ID,
		Status:         q.Status,
		FollowUpStatus: q.FollowUpStatus,
		NextFollowUp:   q.NextFollowUp,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
