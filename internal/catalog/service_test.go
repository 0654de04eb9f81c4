package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/kmccarty/tradeops/internal/catalog"
)

func TestService_CreateBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := catalog.NewMockRepository(ctrl)
	svc := catalog.NewService(repo)

	repo.EXPECT().CreateItem(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	items, err := svc.CreateBatch(context.Background(), []catalog.CreateParams{
		{Name: "50 gal water heater", Category: "Plumbing", Cost: decimal.NewFromInt(600), Price: decimal.NewFromInt(950)},
		{Name: "Expansion tank", Category: "Plumbing", Cost: decimal.NewFromInt(45), Price: decimal.NewFromInt(120)},
	})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestService_CreateBatch_AbortsOnFirstFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := catalog.NewMockRepository(ctrl)
	svc := catalog.NewService(repo)

	gomock.InOrder(
		repo.EXPECT().CreateItem(gomock.Any(), gomock.Any()).Return(nil),
		repo.EXPECT().CreateItem(gomock.Any(), gomock.Any()).Return(errors.New("db error")),
	)

	items, err := svc.CreateBatch(context.Background(), []catalog.CreateParams{
		{Name: "Item A"},
		{Name: "Item B"},
		{Name: "Item C"},
	})
	assert.Error(t, err)
	assert.Nil(t, items)
}
