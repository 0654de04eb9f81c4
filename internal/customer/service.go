package customer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=customer
type Repository interface {
	CreateCustomer(ctx context.Context, c *Customer) error
	GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error)
	UpdateCustomer(ctx context.Context, c *Customer) error
	ListCustomers(ctx context.Context, filter ListFilter) ([]*Customer, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name    string
	Email   string
	Phone   string
	Address string
	City    string
}

type ListFilter struct {
	Search string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Customer, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, fmt.Errorf("customer name is required")
	}

	c := &Customer{
		Name:    name,
		Email:   strings.TrimSpace(params.Email),
		Phone:   strings.TrimSpace(params.Phone),
		Address: strings.TrimSpace(params.Address),
		City:    strings.TrimSpace(params.City),
	}
	if err := s.repo.CreateCustomer(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params CreateParams) (*Customer, error) {
	c, err := s.repo.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	c.Name = strings.TrimSpace(params.Name)
	c.Email = strings.TrimSpace(params.Email)
	c.Phone = strings.TrimSpace(params.Phone)
	c.Address = strings.TrimSpace(params.Address)
	c.City = strings.TrimSpace(params.City)

	if err := s.repo.UpdateCustomer(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Customer, error) {
	return s.repo.GetCustomer(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Customer, error) {
	return s.repo.ListCustomers(ctx, filter)
}
