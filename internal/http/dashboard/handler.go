package dashboard

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/kmccarty/tradeops/internal/dispatch"
	"github.com/kmccarty/tradeops/internal/job"
	"github.com/kmccarty/tradeops/internal/quote"
)

type Handler struct {
	quotes   *quote.Service
	jobs     *job.Service
	dispatch *dispatch.Service
}

func NewHandler(quotes *quote.Service, jobs *job.Service, dispatchSvc *dispatch.Service) *Handler {
	return &Handler{quotes: quotes, jobs: jobs, dispatch: dispatchSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.metrics)
}

type scheduleEntry struct {
	JobID          string     `json:"job_id"`
	Title          string     `json:"title"`
	AssignedTech   *string    `json:"assigned_tech,omitempty"`
	ScheduledStart *time.Time `json:"scheduled_start,omitempty"`
	ScheduledEnd   *time.Time `json:"scheduled_end,omitempty"`
}

type metricsResponse struct {
	CompletedRevenue decimal.Decimal `json:"completed_revenue"`
	PendingQuotes    int             `json:"pending_quotes"`
	ActiveJobs       int             `json:"active_jobs"`
	AverageTicket    decimal.Decimal `json:"average_ticket"`
	TodaysSchedule   []scheduleEntry `json:"todays_schedule"`
}

// metrics is the owner's morning view: money booked, work pending, and who
// is out today.
func (h *Handler) metrics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	completed, err := h.jobs.List(ctx, job.ListFilter{Statuses: []job.Status{job.StatusComplete}})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var revenue decimal.Decimal
	for _, j := range completed {
		revenue = revenue.Add(j.Total)
	}

	avgTicket := decimal.Zero
	if len(completed) > 0 {
		avgTicket = revenue.Div(decimal.NewFromInt(int64(len(completed)))).Round(2)
	}

	pending := 0

	for _, status := range []quote.Status{quote.StatusDraft, quote.StatusSent} {
		quotes, err := h.quotes.List(ctx, quote.ListFilter{Status: &status})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		pending += len(quotes)
	}

	active, err := h.jobs.List(ctx, job.ListFilter{
		Statuses: []job.Status{job.StatusScheduled, job.StatusInProgress},
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dayStart := time.Now().UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	today, err := h.dispatch.ListScheduled(ctx, &dayStart, &dayEnd)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	schedule := make([]scheduleEntry, len(today))
	for i, j := range today {
		schedule[i] = scheduleEntry{
			JobID:          j.ID.String(),
			Title:          j.Title,
			AssignedTech:   j.AssignedTech,
			ScheduledStart: j.ScheduledStart,
			ScheduledEnd:   j.ScheduledEnd,
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(metricsResponse{
		CompletedRevenue: revenue,
		PendingQuotes:    pending,
		ActiveJobs:       len(active),
		AverageTicket:    avgTicket,
		TodaysSchedule:   schedule,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
