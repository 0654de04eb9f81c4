package customer_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/kmccarty/tradeops/internal/customer"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    customer.CreateParams
		setupMock func(m *customer.MockRepository)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "TrimsWhitespace",
			params: customer.CreateParams{
				Name:    "  Dana Fields  ",
				Email:   " dana@example.com ",
				Address: " 12 Oak Ln ",
			},
			setupMock: func(m *customer.MockRepository) {
				m.EXPECT().
					CreateCustomer(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *customer.Customer) error {
						assert.Equal(t, "Dana Fields", c.Name)
						assert.Equal(t, "dana@example.com", c.Email)
						assert.Equal(t, "12 Oak Ln", c.Address)
						c.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name:    "BlankName",
			params:  customer.CreateParams{Name: "   "},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := customer.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := customer.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
		})
	}
}

func TestService_Update_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := customer.NewMockRepository(ctrl)
	svc := customer.NewService(repo)

	id := uuid.New()
	repo.EXPECT().GetCustomer(gomock.Any(), id).Return(nil, customer.ErrNotFound)

	_, err := svc.Update(context.Background(), id, customer.CreateParams{Name: "Dana"})
	assert.ErrorIs(t, err, customer.ErrNotFound)
}
