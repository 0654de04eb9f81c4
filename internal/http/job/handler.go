package job

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kmccarty/tradeops/internal/customer"
	"github.com/kmccarty/tradeops/internal/dispatch"
	"github.com/kmccarty/tradeops/internal/job"
	"github.com/kmccarty/tradeops/internal/pricing"
	"github.com/kmccarty/tradeops/internal/quote"
)

type Handler struct {
	svc      *job.Service
	dispatch *dispatch.Service
}

func NewHandler(svc *job.Service, dispatchSvc *dispatch.Service) *Handler {
	return &Handler{svc: svc, dispatch: dispatchSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/unscheduled", h.unscheduled)
	r.Get("/scheduled", h.scheduled)
	r.Get("/{id}", h.get)
	r.Post("/{id}/assign", h.assign)
	r.Post("/{id}/complete", h.complete)
}

type createJobRequest struct {
	CustomerID uuid.UUID  `json:"customer_id"`
	QuoteID    *uuid.UUID `json:"quote_id,omitempty"`
	Title      string     `json:"title"`
	Address    string     `json:"address"`
	Notes      string     `json:"notes"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	j, err := h.svc.Create(r.Context(), job.CreateParams{
		CustomerID: req.CustomerID,
		QuoteID:    req.QuoteID,
		Title:      req.Title,
		Address:    req.Address,
		Notes:      req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(j)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// list is the tech-facing view: ?tech= returns that technician's open
// schedule; without it, all jobs.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var (
		jobs []*job.Job
		err  error
	)

	if tech := r.URL.Query().Get("tech"); tech != "" {
		jobs, err = h.dispatch.TechSchedule(r.Context(), tech)
	} else {
		jobs, err = h.svc.List(r.Context(), job.ListFilter{})
	}

	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(jobs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) unscheduled(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.dispatch.ListUnscheduled(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(jobs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) scheduled(w http.ResponseWriter, r *http.Request) {
	var from, to *time.Time

	if s := r.URL.Query().Get("from"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			from = &t
		}
	}

	if s := r.URL.Query().Get("to"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			to = &t
		}
	}

	jobs, err := h.dispatch.ListScheduled(r.Context(), from, to)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(jobs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	j, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(j)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type assignRequest struct {
	Tech            string `json:"tech"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

func (h *Handler) assign(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	j, err := h.dispatch.Assign(r.Context(), dispatch.AssignParams{
		JobID:           id,
		TechUsername:    req.Tech,
		Date:            req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(j)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type completeRequest struct {
	LineItems []pricing.LineItem `json:"line_items"`
	Notes     string             `json:"notes"`
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	j, err := h.dispatch.Complete(r.Context(), dispatch.CompleteParams{
		JobID:     id,
		LineItems: req.LineItems,
		Notes:     req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(j)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var vErr *quote.ValidationError

	switch {
	case errors.Is(err, job.ErrNotFound):
		http.Error(w, "job not found", http.StatusNotFound)
	case errors.Is(err, dispatch.ErrInvalidTech),
		errors.Is(err, dispatch.ErrInvalidSchedule),
		errors.As(err, &vErr):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, customer.ErrNotFound):
		http.Error(w, "customer not found", http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
