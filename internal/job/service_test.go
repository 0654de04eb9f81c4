package job_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/kmccarty/tradeops/internal/customer"
	"github.com/kmccarty/tradeops/internal/job"
	"github.com/kmccarty/tradeops/internal/pricing"
	"github.com/kmccarty/tradeops/internal/quote"
)

func approvedQuote() *quote.Quote {
	return &quote.Quote{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Status:     quote.StatusApproved,
		LineItems: []pricing.LineItem{
			{
				ID:          uuid.New(),
				Kind:        pricing.KindMaterial,
				Description: "50 gal water heater",
				Quantity:    decimal.NewFromInt(1),
				UnitCost:    decimal.NewFromInt(600),
				UnitPrice:   decimal.NewFromInt(950),
			},
		},
		Total: decimal.NewFromInt(950),
		Notes: "gate code 4411",
	}
}

func TestService_Create(t *testing.T) {
	customerID := uuid.New()

	type testCase struct {
		name       string
		params     job.CreateParams
		setupMocks func(repo *job.MockRepository, customers *job.MockCustomerDirectory)
		check      func(t *testing.T, got *job.Job)
		wantErr    bool
	}

	tests := []testCase{
		{
			name:   "DefaultsTitleAndAddress",
			params: job.CreateParams{CustomerID: customerID},
			setupMocks: func(repo *job.MockRepository, customers *job.MockCustomerDirectory) {
				customers.EXPECT().
					GetCustomer(gomock.Any(), customerID).
					Return(&customer.Customer{ID: customerID, Address: "12 Oak Ln"}, nil)
				repo.EXPECT().
					CreateJob(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, j *job.Job) error {
						j.ID = uuid.New()
						return nil
					})
			},
			check: func(t *testing.T, got *job.Job) {
				assert.Equal(t, job.StatusNew, got.Status)
				assert.Equal(t, "Service Call", got.Title)
				assert.Equal(t, "12 Oak Ln", got.Address)
			},
		},
		{
			name:    "MissingCustomer",
			params:  job.CreateParams{},
			wantErr: true,
		},
		{
			name:   "UnknownCustomer",
			params: job.CreateParams{CustomerID: customerID},
			setupMocks: func(_ *job.MockRepository, customers *job.MockCustomerDirectory) {
				customers.EXPECT().
					GetCustomer(gomock.Any(), customerID).
					Return(nil, customer.ErrNotFound)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := job.NewMockRepository(ctrl)
			customers := job.NewMockCustomerDirectory(ctrl)
			if tt.setupMocks != nil {
				tt.setupMocks(repo, customers)
			}

			svc := job.NewService(repo, customers)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}

func TestService_EnsureForQuote_IgnoresNonApproved(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := job.NewMockRepository(ctrl)
	customers := job.NewMockCustomerDirectory(ctrl)
	svc := job.NewService(repo, customers)

	q := approvedQuote()
	q.Status = quote.StatusSent

	err := svc.EnsureForQuote(context.Background(), q)
	require.NoError(t, err)
}

func TestService_EnsureForQuote_CreatesOnFirstApproval(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := job.NewMockRepository(ctrl)
	tx := job.NewMockSyncTx(ctrl)
	customers := job.NewMockCustomerDirectory(ctrl)
	svc := job.NewService(repo, customers)

	q := approvedQuote()

	repo.EXPECT().BeginSync(gomock.Any()).Return(tx, nil)
	tx.EXPECT().GetJobForQuote(gomock.Any(), q.ID).Return(nil, job.ErrNotFound)
	customers.EXPECT().
		GetCustomer(gomock.Any(), q.CustomerID).
		Return(&customer.Customer{ID: q.CustomerID, Address: "9 Birch Ct"}, nil)
	tx.EXPECT().
		CreateJob(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, j *job.Job) error {
			assert.Equal(t, job.StatusApproved, j.Status)
			assert.Equal(t, "Service Call (from Quote)", j.Title)
			assert.Equal(t, "9 Birch Ct", j.Address)
			require.NotNil(t, j.QuoteID)
			assert.Equal(t, q.ID, *j.QuoteID)
			assert.True(t, j.Total.Equal(q.Total))
			assert.Equal(t, q.Notes, j.Notes)
			require.Len(t, j.LineItems, 1)
			assert.Equal(t, q.LineItems[0].Description, j.LineItems[0].Description)
			return nil
		})
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	err := svc.EnsureForQuote(context.Background(), q)
	require.NoError(t, err)
}

func TestService_EnsureForQuote_ResyncsExistingUnscheduled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := job.NewMockRepository(ctrl)
	tx := job.NewMockSyncTx(ctrl)
	customers := job.NewMockCustomerDirectory(ctrl)
	svc := job.NewService(repo, customers)

	q := approvedQuote()
	existing := &job.Job{
		ID:      uuid.New(),
		QuoteID: &q.ID,
		Status:  job.StatusNew,
		Title:   "Service Call (from Quote)",
		Total:   decimal.NewFromInt(400),
		Notes:   "stale notes",
	}

	repo.EXPECT().BeginSync(gomock.Any()).Return(tx, nil)
	tx.EXPECT().GetJobForQuote(gomock.Any(), q.ID).Return(existing, nil)
	tx.EXPECT().
		UpdateJob(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, j *job.Job) error {
			assert.Equal(t, existing.ID, j.ID)
			assert.Equal(t, job.StatusApproved, j.Status)
			assert.True(t, j.Total.Equal(q.Total))
			assert.Equal(t, q.Notes, j.Notes)
			require.Len(t, j.LineItems, 1)
			return nil
		})
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	err := svc.EnsureForQuote(context.Background(), q)
	require.NoError(t, err)
}

func TestService_EnsureForQuote_ScheduledJobIsLeftAlone(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := job.NewMockRepository(ctrl)
	tx := job.NewMockSyncTx(ctrl)
	customers := job.NewMockCustomerDirectory(ctrl)
	svc := job.NewService(repo, customers)

	q := approvedQuote()
	existing := &job.Job{
		ID:      uuid.New(),
		QuoteID: &q.ID,
		Status:  job.StatusScheduled,
		Total:   decimal.NewFromInt(400),
	}

	repo.EXPECT().BeginSync(gomock.Any()).Return(tx, nil)
	tx.EXPECT().GetJobForQuote(gomock.Any(), q.ID).Return(existing, nil)
	tx.EXPECT().Rollback().Return(nil)

	err := svc.EnsureForQuote(context.Background(), q)
	require.NoError(t, err)
	// The diverged copy keeps its own total.
	assert.True(t, existing.Total.Equal(decimal.NewFromInt(400)))
}

func TestService_EnsureForQuote_LookupError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := job.NewMockRepository(ctrl)
	tx := job.NewMockSyncTx(ctrl)
	customers := job.NewMockCustomerDirectory(ctrl)
	svc := job.NewService(repo, customers)

	q := approvedQuote()

	repo.EXPECT().BeginSync(gomock.Any()).Return(tx, nil)
	tx.EXPECT().GetJobForQuote(gomock.Any(), q.ID).Return(nil, errors.New("db error"))
	tx.EXPECT().Rollback().Return(nil)

	err := svc.EnsureForQuote(context.Background(), q)
	assert.Error(t, err)
}
