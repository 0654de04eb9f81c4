package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=catalog
type Repository interface {
	CreateItem(ctx context.Context, item *Item) error
	GetItem(ctx context.Context, id uuid.UUID) (*Item, error)
	ListItems(ctx context.Context) ([]*Item, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name     string
	Category string
	Cost     decimal.Decimal
	Price    decimal.Decimal
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Item, error) {
	item := &Item{
		Name:     params.Name,
		Category: params.Category,
		Cost:     params.Cost,
		Price:    params.Price,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// CreateBatch loads a parsed pricebook into the catalog. Rows are inserted
// in order; the first failure aborts the rest.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Item, error) {
	items := make([]*Item, 0, len(params))

	for _, p := range params {
		item, err := s.Create(ctx, p)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return items, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Item, error) {
	return s.repo.GetItem(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Item, error) {
	return s.repo.ListItems(ctx)
}
