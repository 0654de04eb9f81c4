package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kmccarty/tradeops/internal/job"
	"github.com/kmccarty/tradeops/internal/pricing"
	"github.com/kmccarty/tradeops/internal/user"
)

var (
	// ErrInvalidTech means the technician does not exist or is not
	// dispatchable (wrong role).
	ErrInvalidTech = errors.New("invalid technician")

	// ErrInvalidSchedule means the date/time could not be parsed or the
	// duration is negative.
	ErrInvalidSchedule = errors.New("invalid schedule")
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	defaultStartTime       = "09:00"
	defaultDurationMinutes = 120
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=dispatch
type Jobs interface {
	GetJob(ctx context.Context, id uuid.UUID) (*job.Job, error)
	UpdateJob(ctx context.Context, j *job.Job) error
	ListJobs(ctx context.Context, filter job.ListFilter) ([]*job.Job, error)
}

type Users interface {
	GetUser(ctx context.Context, username string) (*user.User, error)
}

// Service assigns technicians and time windows to jobs and composes
// schedule views. Assignment deliberately does no overlap detection: a
// re-assign overwrites whatever tech/time the job had before.
type Service struct {
	jobs  Jobs
	users Users
}

func NewService(jobs Jobs, users Users) *Service {
	return &Service{jobs: jobs, users: users}
}

// ListUnscheduled returns jobs waiting on the dispatch board.
func (s *Service) ListUnscheduled(ctx context.Context) ([]*job.Job, error) {
	return s.jobs.ListJobs(ctx, job.ListFilter{
		Statuses:  []job.Status{job.StatusNew, job.StatusApproved},
		Scheduled: ptr(false),
	})
}

// ListScheduled returns dispatched jobs ordered by start time, optionally
// windowed by date.
func (s *Service) ListScheduled(ctx context.Context, from, to *time.Time) ([]*job.Job, error) {
	return s.jobs.ListJobs(ctx, job.ListFilter{
		Statuses:    []job.Status{job.StatusScheduled, job.StatusInProgress, job.StatusComplete},
		Scheduled:   ptr(true),
		StartAfter:  from,
		StartBefore: to,
	})
}

type AssignParams struct {
	JobID           uuid.UUID
	TechUsername    string
	Date            string // YYYY-MM-DD
	StartTime       string // HH:MM, defaults to 09:00
	DurationMinutes int    // 0 means the 120-minute default
}

// Assign puts a tech and time window on a job. New/Approved jobs advance to
// Scheduled; InProgress/Complete jobs keep their status (never downgraded).
func (s *Service) Assign(ctx context.Context, params AssignParams) (*job.Job, error) {
	j, err := s.jobs.GetJob(ctx, params.JobID)
	if err != nil {
		return nil, err
	}

	tech, err := s.users.GetUser(ctx, params.TechUsername)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidTech, params.TechUsername)
		}

		return nil, err
	}

	if !tech.IsTech() {
		return nil, fmt.Errorf("%w: %s is not a tech", ErrInvalidTech, params.TechUsername)
	}

	start, end, err := parseWindow(params.Date, params.StartTime, params.DurationMinutes)
	if err != nil {
		return nil, err
	}

	j.AssignedTech = &tech.Username
	j.ScheduledStart = &start
	j.ScheduledEnd = &end

	if j.Status.Unscheduled() {
		j.Status = job.StatusScheduled
	}

	if err := s.jobs.UpdateJob(ctx, j); err != nil {
		return nil, err
	}

	return j, nil
}

type CompleteParams struct {
	JobID     uuid.UUID
	LineItems []pricing.LineItem
	Notes     string
}

// Complete closes a job with the field-final line items. The total is
// recomputed from the supplied items; Complete is terminal.
func (s *Service) Complete(ctx context.Context, params CompleteParams) (*job.Job, error) {
	j, err := s.jobs.GetJob(ctx, params.JobID)
	if err != nil {
		return nil, err
	}

	totals := pricing.Recalculate(params.LineItems, pricing.Adjustments{})

	now := time.Now().UTC()

	j.LineItems = pricing.CopyItems(params.LineItems)
	j.Total = totals.Total
	j.Notes = params.Notes
	j.Status = job.StatusComplete
	j.CompletedAt = &now

	if err := s.jobs.UpdateJob(ctx, j); err != nil {
		return nil, err
	}

	return j, nil
}

// TechSchedule returns a technician's open assignments ordered by start.
func (s *Service) TechSchedule(ctx context.Context, username string) ([]*job.Job, error) {
	return s.jobs.ListJobs(ctx, job.ListFilter{
		Statuses:  []job.Status{job.StatusScheduled, job.StatusInProgress},
		Tech:      &username,
		Scheduled: ptr(true),
	})
}

func parseWindow(date, startTime string, durationMinutes int) (time.Time, time.Time, error) {
	if startTime == "" {
		startTime = defaultStartTime
	}

	start, err := time.Parse(dateLayout+" "+timeLayout, date+" "+startTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q %q", ErrInvalidSchedule, date, startTime)
	}

	if durationMinutes == 0 {
		durationMinutes = defaultDurationMinutes
	}

	if durationMinutes < 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: negative duration", ErrInvalidSchedule)
	}

	end := start.Add(time.Duration(durationMinutes) * time.Minute)

	return start, end, nil
}

func ptr[T any](v T) *T { return &v }
