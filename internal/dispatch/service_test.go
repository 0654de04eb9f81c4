package dispatch_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/kmccarty/tradeops/internal/dispatch"
	"github.com/kmccarty/tradeops/internal/job"
	"github.com/kmccarty/tradeops/internal/pricing"
	"github.com/kmccarty/tradeops/internal/user"
)

func TestService_Assign(t *testing.T) {
	jobID := uuid.New()
	tech := &user.User{Username: "mharris", FullName: "Mike Harris", Role: user.RoleTech}

	type testCase struct {
		name       string
		params     dispatch.AssignParams
		jobStatus  job.Status
		setupUsers func(m *dispatch.MockUsers)
		wantStart  time.Time
		wantEnd    time.Time
		wantStatus job.Status
		wantErr    error
	}

	tests := []testCase{
		{
			name: "ExplicitWindow",
			params: dispatch.AssignParams{
				JobID:           jobID,
				TechUsername:    "mharris",
				Date:            "2025-01-10",
				StartTime:       "09:00",
				DurationMinutes: 90,
			},
			jobStatus: job.StatusApproved,
			setupUsers: func(m *dispatch.MockUsers) {
				m.EXPECT().GetUser(gomock.Any(), "mharris").Return(tech, nil)
			},
			wantStart:  time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
			wantEnd:    time.Date(2025, 1, 10, 10, 30, 0, 0, time.UTC),
			wantStatus: job.StatusScheduled,
		},
		{
			name: "DefaultsStartTimeAndDuration",
			params: dispatch.AssignParams{
				JobID:        jobID,
				TechUsername: "mharris",
				Date:         "2025-01-10",
			},
			jobStatus: job.StatusNew,
			setupUsers: func(m *dispatch.MockUsers) {
				m.EXPECT().GetUser(gomock.Any(), "mharris").Return(tech, nil)
			},
			wantStart:  time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
			wantEnd:    time.Date(2025, 1, 10, 11, 0, 0, 0, time.UTC),
			wantStatus: job.StatusScheduled,
		},
		{
			name: "InProgressKeepsStatus",
			params: dispatch.AssignParams{
				JobID:        jobID,
				TechUsername: "mharris",
				Date:         "2025-01-11",
				StartTime:    "13:30",
			},
			jobStatus: job.StatusInProgress,
			setupUsers: func(m *dispatch.MockUsers) {
				m.EXPECT().GetUser(gomock.Any(), "mharris").Return(tech, nil)
			},
			wantStart:  time.Date(2025, 1, 11, 13, 30, 0, 0, time.UTC),
			wantEnd:    time.Date(2025, 1, 11, 15, 30, 0, 0, time.UTC),
			wantStatus: job.StatusInProgress,
		},
		{
			name: "UnknownTech",
			params: dispatch.AssignParams{
				JobID:        jobID,
				TechUsername: "ghost",
				Date:         "2025-01-10",
			},
			jobStatus: job.StatusNew,
			setupUsers: func(m *dispatch.MockUsers) {
				m.EXPECT().GetUser(gomock.Any(), "ghost").Return(nil, user.ErrNotFound)
			},
			wantErr: dispatch.ErrInvalidTech,
		},
		{
			name: "AdminIsNotDispatchable",
			params: dispatch.AssignParams{
				JobID:        jobID,
				TechUsername: "boss",
				Date:         "2025-01-10",
			},
			jobStatus: job.StatusNew,
			setupUsers: func(m *dispatch.MockUsers) {
				m.EXPECT().GetUser(gomock.Any(), "boss").Return(&user.User{Username: "boss", Role: user.RoleAdmin}, nil)
			},
			wantErr: dispatch.ErrInvalidTech,
		},
		{
			name: "BadDate",
			params: dispatch.AssignParams{
				JobID:        jobID,
				TechUsername: "mharris",
				Date:         "01/10/2025",
			},
			jobStatus: job.StatusNew,
			setupUsers: func(m *dispatch.MockUsers) {
				m.EXPECT().GetUser(gomock.Any(), "mharris").Return(tech, nil)
			},
			wantErr: dispatch.ErrInvalidSchedule,
		},
		{
			name: "NegativeDuration",
			params: dispatch.AssignParams{
				JobID:           jobID,
				TechUsername:    "mharris",
				Date:            "2025-01-10",
				DurationMinutes: -30,
			},
			jobStatus: job.StatusNew,
			setupUsers: func(m *dispatch.MockUsers) {
				m.EXPECT().GetUser(gomock.Any(), "mharris").Return(tech, nil)
			},
			wantErr: dispatch.ErrInvalidSchedule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			jobs := dispatch.NewMockJobs(ctrl)
			users := dispatch.NewMockUsers(ctrl)

			jobs.EXPECT().
				GetJob(gomock.Any(), jobID).
				Return(&job.Job{ID: jobID, Status: tt.jobStatus}, nil)
			if tt.setupUsers != nil {
				tt.setupUsers(users)
			}
			if tt.wantErr == nil {
				jobs.EXPECT().UpdateJob(gomock.Any(), gomock.Any()).Return(nil)
			}

			svc := dispatch.NewService(jobs, users)
			got, err := svc.Assign(context.Background(), tt.params)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got.AssignedTech)
			assert.Equal(t, tt.params.TechUsername, *got.AssignedTech)
			require.NotNil(t, got.ScheduledStart)
			require.NotNil(t, got.ScheduledEnd)
			assert.True(t, got.ScheduledStart.Equal(tt.wantStart), "start %s", got.ScheduledStart)
			assert.True(t, got.ScheduledEnd.Equal(tt.wantEnd), "end %s", got.ScheduledEnd)
			assert.Equal(t, tt.wantStatus, got.Status)
		})
	}
}

func TestService_Assign_ReassignOverwrites(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	jobs := dispatch.NewMockJobs(ctrl)
	users := dispatch.NewMockUsers(ctrl)
	svc := dispatch.NewService(jobs, users)

	jobID := uuid.New()
	prevStart := time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC)
	prevEnd := prevStart.Add(2 * time.Hour)

	jobs.EXPECT().GetJob(gomock.Any(), jobID).Return(&job.Job{
		ID:             jobID,
		Status:         job.StatusScheduled,
		AssignedTech:   ptr("old_tech"),
		ScheduledStart: &prevStart,
		ScheduledEnd:   &prevEnd,
	}, nil)
	users.EXPECT().
		GetUser(gomock.Any(), "mharris").
		Return(&user.User{Username: "mharris", Role: user.RoleTech}, nil)
	jobs.EXPECT().UpdateJob(gomock.Any(), gomock.Any()).Return(nil)

	got, err := svc.Assign(context.Background(), dispatch.AssignParams{
		JobID:        jobID,
		TechUsername: "mharris",
		Date:         "2025-01-12",
		StartTime:    "08:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "mharris", *got.AssignedTech)
	assert.True(t, got.ScheduledStart.Equal(time.Date(2025, 1, 12, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, job.StatusScheduled, got.Status)
}

func TestService_Complete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	jobs := dispatch.NewMockJobs(ctrl)
	users := dispatch.NewMockUsers(ctrl)
	svc := dispatch.NewService(jobs, users)

	jobID := uuid.New()
	jobs.EXPECT().GetJob(gomock.Any(), jobID).Return(&job.Job{
		ID:     jobID,
		Status: job.StatusScheduled,
		Total:  decimal.NewFromInt(950),
	}, nil)
	jobs.EXPECT().UpdateJob(gomock.Any(), gomock.Any()).Return(nil)

	items := []pricing.LineItem{
		{
			ID:          uuid.New(),
			Kind:        pricing.KindMaterial,
			Description: "50 gal water heater",
			Quantity:    decimal.NewFromInt(1),
			UnitCost:    decimal.NewFromInt(600),
			UnitPrice:   decimal.NewFromInt(950),
		},
		{
			ID:          uuid.New(),
			Kind:        pricing.KindMaterial,
			Description: "Expansion tank",
			Quantity:    decimal.NewFromInt(1),
			UnitCost:    decimal.NewFromInt(45),
			UnitPrice:   decimal.NewFromInt(120),
		},
	}

	got, err := svc.Complete(context.Background(), dispatch.CompleteParams{
		JobID:     jobID,
		LineItems: items,
		Notes:     "added expansion tank on site",
	})
	require.NoError(t, err)
	assert.Equal(t, job.StatusComplete, got.Status)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(1070)))
	assert.Equal(t, "added expansion tank on site", got.Notes)
	require.NotNil(t, got.CompletedAt)
	assert.WithinDuration(t, time.Now().UTC(), *got.CompletedAt, time.Minute)
	require.Len(t, got.LineItems, 2)
}

func TestService_ListUnscheduled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	jobs := dispatch.NewMockJobs(ctrl)
	users := dispatch.NewMockUsers(ctrl)
	svc := dispatch.NewService(jobs, users)

	jobs.EXPECT().
		ListJobs(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter job.ListFilter) ([]*job.Job, error) {
			assert.ElementsMatch(t, []job.Status{job.StatusNew, job.StatusApproved}, filter.Statuses)
			require.NotNil(t, filter.Scheduled)
			assert.False(t, *filter.Scheduled)
			return []*job.Job{{ID: uuid.New()}}, nil
		})

	got, err := svc.ListUnscheduled(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestService_TechSchedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	jobs := dispatch.NewMockJobs(ctrl)
	users := dispatch.NewMockUsers(ctrl)
	svc := dispatch.NewService(jobs, users)

	jobs.EXPECT().
		ListJobs(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter job.ListFilter) ([]*job.Job, error) {
			require.NotNil(t, filter.Tech)
			assert.Equal(t, "mharris", *filter.Tech)
			assert.ElementsMatch(t, []job.Status{job.StatusScheduled, job.StatusInProgress}, filter.Statuses)
			return nil, nil
		})

	_, err := svc.TechSchedule(context.Background(), "mharris")
	require.NoError(t, err)
}

func ptr[T any](v T) *T { return &v }
