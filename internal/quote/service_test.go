package quote_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/kmccarty/tradeops/internal/customer"
	"github.com/kmccarty/tradeops/internal/pricing"
	"github.com/kmccarty/tradeops/internal/quote"
)

func laborItem(desc string, qty, cost, price int64) pricing.LineItem {
	return pricing.LineItem{
		Kind:        pricing.KindLabor,
		Description: desc,
		Quantity:    decimal.NewFromInt(qty),
		UnitCost:    decimal.NewFromInt(cost),
		UnitPrice:   decimal.NewFromInt(price),
	}
}

func TestService_Create(t *testing.T) {
	customerID := uuid.New()

	type args struct {
		params quote.CreateParams
	}

	type testCase struct {
		name       string
		args       args
		setupMocks func(repo *quote.MockRepository, customers *quote.MockCustomerDirectory, syncer *quote.MockJobSyncer)
		check      func(t *testing.T, got *quote.Quote)
		wantErr    bool
	}

	tests := []testCase{
		{
			name: "DefaultsToDraftWithTotals",
			args: args{
				params: quote.CreateParams{
					CustomerID: customerID,
					LineItems: []pricing.LineItem{
						laborItem("Install water heater", 2, 40, 100),
					},
				},
			},
			setupMocks: func(repo *quote.MockRepository, customers *quote.MockCustomerDirectory, _ *quote.MockJobSyncer) {
				customers.EXPECT().
					GetCustomer(gomock.Any(), customerID).
					Return(&customer.Customer{ID: customerID, Name: "Dana Fields"}, nil)
				repo.EXPECT().
					CreateQuote(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, q *quote.Quote) error {
						q.ID = uuid.New()
						q.CreatedAt = time.Now()
						return nil
					})
			},
			check: func(t *testing.T, got *quote.Quote) {
				assert.Equal(t, quote.StatusDraft, got.Status)
				assert.Equal(t, quote.FollowUpNeedsCall, got.FollowUpStatus)
				assert.True(t, got.Subtotal.Equal(decimal.NewFromInt(200)))
				assert.True(t, got.CostTotal.Equal(decimal.NewFromInt(80)))
				assert.True(t, got.Total.Equal(decimal.NewFromInt(200)))
				assert.True(t, got.MarginPercent.Equal(decimal.NewFromInt(60)))
				require.Len(t, got.LineItems, 1)
				assert.NotEqual(t, uuid.Nil, got.LineItems[0].ID)
			},
		},
		{
			name: "MissingCustomerID",
			args: args{
				params: quote.CreateParams{},
			},
			wantErr: true,
		},
		{
			name: "UnknownCustomer",
			args: args{
				params: quote.CreateParams{CustomerID: customerID},
			},
			setupMocks: func(_ *quote.MockRepository, customers *quote.MockCustomerDirectory, _ *quote.MockJobSyncer) {
				customers.EXPECT().
					GetCustomer(gomock.Any(), customerID).
					Return(nil, customer.ErrNotFound)
			},
			wantErr: true,
		},
		{
			name: "UnknownStatusOverride",
			args: args{
				params: quote.CreateParams{
					CustomerID: customerID,
					Status:     ptr(quote.Status("Pending")),
				},
			},
			setupMocks: func(_ *quote.MockRepository, customers *quote.MockCustomerDirectory, _ *quote.MockJobSyncer) {
				customers.EXPECT().
					GetCustomer(gomock.Any(), customerID).
					Return(&customer.Customer{ID: customerID}, nil)
			},
			wantErr: true,
		},
		{
			name: "CreatedApprovedTriggersJobSync",
			args: args{
				params: quote.CreateParams{
					CustomerID: customerID,
					LineItems:  []pricing.LineItem{laborItem("Replace breaker panel", 1, 300, 850)},
					Status:     ptr(quote.StatusApproved),
				},
			},
			setupMocks: func(repo *quote.MockRepository, customers *quote.MockCustomerDirectory, syncer *quote.MockJobSyncer) {
				customers.EXPECT().
					GetCustomer(gomock.Any(), customerID).
					Return(&customer.Customer{ID: customerID}, nil)
				repo.EXPECT().
					CreateQuote(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, q *quote.Quote) error {
						q.ID = uuid.New()
						return nil
					})
				syncer.EXPECT().
					EnsureForQuote(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			check: func(t *testing.T, got *quote.Quote) {
				assert.Equal(t, quote.StatusApproved, got.Status)
			},
		},
		{
			name: "RepoError",
			args: args{
				params: quote.CreateParams{CustomerID: customerID},
			},
			setupMocks: func(repo *quote.MockRepository, customers *quote.MockCustomerDirectory, _ *quote.MockJobSyncer) {
				customers.EXPECT().
					GetCustomer(gomock.Any(), customerID).
					Return(&customer.Customer{ID: customerID}, nil)
				repo.EXPECT().
					CreateQuote(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := quote.NewMockRepository(ctrl)
			customers := quote.NewMockCustomerDirectory(ctrl)
			syncer := quote.NewMockJobSyncer(ctrl)
			if tt.setupMocks != nil {
				tt.setupMocks(repo, customers, syncer)
			}

			svc := quote.NewService(repo, customers, syncer)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}

func TestService_Update_RecomputesTotals(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := quote.NewMockRepository(ctrl)
	customers := quote.NewMockCustomerDirectory(ctrl)
	syncer := quote.NewMockJobSyncer(ctrl)
	svc := quote.NewService(repo, customers, syncer)

	id := uuid.New()
	existing := &quote.Quote{
		ID:         id,
		CustomerID: uuid.New(),
		Status:     quote.StatusDraft,
		LineItems:  []pricing.LineItem{laborItem("Rough-in", 1, 100, 250)},
		Subtotal:   decimal.NewFromInt(250),
		Total:      decimal.NewFromInt(250),
		CostTotal:  decimal.NewFromInt(100),
	}

	repo.EXPECT().GetQuote(gomock.Any(), id).Return(existing, nil)
	repo.EXPECT().
		UpdateQuote(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q *quote.Quote) error {
			assert.True(t, q.Subtotal.Equal(decimal.NewFromInt(500)))
			assert.True(t, q.Total.Equal(decimal.NewFromInt(540)))
			return nil
		})

	got, err := svc.Update(context.Background(), id, quote.UpdateParams{
		LineItems:   []pricing.LineItem{laborItem("Rough-in", 2, 100, 250)},
		Adjustments: pricing.Adjustments{Tax: decimal.NewFromInt(40)},
	})
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(540)))
	assert.True(t, got.CostTotal.Equal(decimal.NewFromInt(200)))
}

func TestService_Update_ApprovedQuoteResyncsJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := quote.NewMockRepository(ctrl)
	customers := quote.NewMockCustomerDirectory(ctrl)
	syncer := quote.NewMockJobSyncer(ctrl)
	svc := quote.NewService(repo, customers, syncer)

	id := uuid.New()
	existing := &quote.Quote{
		ID:        id,
		Status:    quote.StatusApproved,
		LineItems: []pricing.LineItem{laborItem("Trim-out", 1, 50, 120)},
	}

	repo.EXPECT().GetQuote(gomock.Any(), id).Return(existing, nil)
	repo.EXPECT().UpdateQuote(gomock.Any(), gomock.Any()).Return(nil)
	syncer.EXPECT().
		EnsureForQuote(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q *quote.Quote) error {
			assert.Equal(t, quote.StatusApproved, q.Status)
			return nil
		})

	_, err := svc.Update(context.Background(), id, quote.UpdateParams{
		LineItems: []pricing.LineItem{laborItem("Trim-out", 3, 50, 120)},
	})
	require.NoError(t, err)
}

func TestService_SetStatus(t *testing.T) {
	type testCase struct {
		name       string
		current    quote.Status
		next       quote.Status
		setupMocks func(repo *quote.MockRepository, syncer *quote.MockJobSyncer, q *quote.Quote)
		wantErr    error
	}

	tests := []testCase{
		{
			name:    "DraftToSent",
			current: quote.StatusDraft,
			next:    quote.StatusSent,
			setupMocks: func(repo *quote.MockRepository, _ *quote.MockJobSyncer, q *quote.Quote) {
				repo.EXPECT().UpdateQuote(gomock.Any(), q).Return(nil)
			},
		},
		{
			name:    "SentToApprovedTriggersSync",
			current: quote.StatusSent,
			next:    quote.StatusApproved,
			setupMocks: func(repo *quote.MockRepository, syncer *quote.MockJobSyncer, q *quote.Quote) {
				repo.EXPECT().UpdateQuote(gomock.Any(), q).Return(nil)
				syncer.EXPECT().EnsureForQuote(gomock.Any(), q).Return(nil)
			},
		},
		{
			name:    "DraftToApprovedSkipsSent",
			current: quote.StatusDraft,
			next:    quote.StatusApproved,
			setupMocks: func(repo *quote.MockRepository, syncer *quote.MockJobSyncer, q *quote.Quote) {
				repo.EXPECT().UpdateQuote(gomock.Any(), q).Return(nil)
				syncer.EXPECT().EnsureForQuote(gomock.Any(), q).Return(nil)
			},
		},
		{
			name:    "SameStatusIsNoOp",
			current: quote.StatusSent,
			next:    quote.StatusSent,
		},
		{
			name:    "SentBackToDraftRejected",
			current: quote.StatusSent,
			next:    quote.StatusDraft,
			wantErr: quote.ErrInvalidTransition,
		},
		{
			name:    "ApprovedIsTerminal",
			current: quote.StatusApproved,
			next:    quote.StatusDeclined,
			wantErr: quote.ErrInvalidTransition,
		},
		{
			name:    "DeclinedIsTerminal",
			current: quote.StatusDeclined,
			next:    quote.StatusApproved,
			wantErr: quote.ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := quote.NewMockRepository(ctrl)
			customers := quote.NewMockCustomerDirectory(ctrl)
			syncer := quote.NewMockJobSyncer(ctrl)

			id := uuid.New()
			q := &quote.Quote{ID: id, Status: tt.current}

			repo.EXPECT().GetQuote(gomock.Any(), id).Return(q, nil)
			if tt.setupMocks != nil {
				tt.setupMocks(repo, syncer, q)
			}

			svc := quote.NewService(repo, customers, syncer)
			got, err := svc.SetStatus(context.Background(), id, tt.next)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.next, got.Status)
		})
	}
}

func TestService_SetStatus_SyncFailureSurfaces(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := quote.NewMockRepository(ctrl)
	customers := quote.NewMockCustomerDirectory(ctrl)
	syncer := quote.NewMockJobSyncer(ctrl)
	svc := quote.NewService(repo, customers, syncer)

	id := uuid.New()
	repo.EXPECT().GetQuote(gomock.Any(), id).Return(&quote.Quote{ID: id, Status: quote.StatusSent}, nil)
	repo.EXPECT().UpdateQuote(gomock.Any(), gomock.Any()).Return(nil)
	syncer.EXPECT().EnsureForQuote(gomock.Any(), gomock.Any()).Return(errors.New("tx failed"))

	_, err := svc.SetStatus(context.Background(), id, quote.StatusApproved)
	assert.Error(t, err)
}

func TestService_SetFollowUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := quote.NewMockRepository(ctrl)
	customers := quote.NewMockCustomerDirectory(ctrl)
	syncer := quote.NewMockJobSyncer(ctrl)
	svc := quote.NewService(repo, customers, syncer)

	id := uuid.New()
	next := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().GetQuote(gomock.Any(), id).Return(&quote.Quote{ID: id, Status: quote.StatusSent}, nil)
	repo.EXPECT().UpdateQuote(gomock.Any(), gomock.Any()).Return(nil)

	got, err := svc.SetFollowUp(context.Background(), id, quote.FollowUpLeftVoicemail, &next)
	require.NoError(t, err)
	assert.Equal(t, quote.FollowUpLeftVoicemail, got.FollowUpStatus)
	require.NotNil(t, got.NextFollowUp)
	assert.True(t, got.NextFollowUp.Equal(next))

	_, err = svc.SetFollowUp(context.Background(), id, quote.FollowUpStatus("Ghosted"), nil)
	assert.Error(t, err)
}

func ptr[T any](v T) *T { return &v }
