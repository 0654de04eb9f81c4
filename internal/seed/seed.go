// Package seed fills an empty database with the default operators and the
// starter customer and pricebook records so a fresh deployment is usable
// straight away. Each section is skipped when data is already present.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kmccarty/tradeops/internal/catalog"
	"github.com/kmccarty/tradeops/internal/customer"
	"github.com/kmccarty/tradeops/internal/user"
)

//go:generate mockgen -source=seed.go -destination=seed_mock.go -package=seed
type Users interface {
	Get(ctx context.Context, username string) (*user.User, error)
	Create(ctx context.Context, params user.CreateParams) (*user.User, error)
}

type Customers interface {
	List(ctx context.Context, filter customer.ListFilter) ([]*customer.Customer, error)
	Create(ctx context.Context, params customer.CreateParams) (*customer.Customer, error)
}

type Catalog interface {
	List(ctx context.Context) ([]*catalog.Item, error)
	CreateBatch(ctx context.Context, params []catalog.CreateParams) ([]*catalog.Item, error)
}

func defaultUsers() []user.CreateParams {
	return []user.CreateParams{
		{Username: "admin", FullName: "Admin User", Role: user.RoleAdmin, Password: "admin"},
		{Username: "tech", FullName: "Technician User", Role: user.RoleTech, Password: "tech"},
		{Username: "tech2", FullName: "Technician Two", Role: user.RoleTech, Password: "tech2"},
	}
}

func defaultCustomers() []customer.CreateParams {
	return []customer.CreateParams{
		{Name: "Burger King #402", Address: "123 Whopper Ln", City: "Austin", Email: "bk402@franchise.com", Phone: "(512) 555-0101"},
		{Name: "Marriott Downtown", Address: "400 Congress Ave", City: "Austin", Email: "manager@marriott.com", Phone: "(512) 555-0102"},
		{Name: "Residential - John Doe", Address: "88 Maple St", City: "Austin", Email: "john@example.com", Phone: "(512) 555-0103"},
	}
}

func defaultCatalog() []catalog.CreateParams {
	return []catalog.CreateParams{
		{Name: "HVAC Tune-up", Category: "Service", Cost: decimal.NewFromInt(20), Price: decimal.NewFromInt(89)},
		{Name: "16 SEER AC Unit", Category: "Install", Cost: decimal.NewFromInt(1800), Price: decimal.NewFromInt(2800)},
		{Name: "Water Heater Install", Category: "Install", Cost: decimal.NewFromInt(600), Price: decimal.NewFromInt(1200)},
		{Name: "Panel Upgrade 200A", Category: "Install", Cost: decimal.NewFromInt(800), Price: decimal.NewFromInt(1600)},
		{Name: "Drain Cleaning", Category: "Service", Cost: decimal.NewFromInt(10), Price: decimal.NewFromInt(149)},
		{Name: "Smart Thermostat", Category: "Service", Cost: decimal.NewFromInt(80), Price: decimal.NewFromInt(249)},
		{Name: "EV Charger Install", Category: "Install", Cost: decimal.NewFromInt(300), Price: decimal.NewFromInt(950)},
	}
}

// Run is idempotent; rerunning it against a populated database changes
// nothing.
func Run(ctx context.Context, users Users, customers Customers, items Catalog) error {
	if err := seedUsers(ctx, users); err != nil {
		return fmt.Errorf("seeding users: %w", err)
	}

	if err := seedCustomers(ctx, customers); err != nil {
		return fmt.Errorf("seeding customers: %w", err)
	}

	if err := seedCatalog(ctx, items); err != nil {
		return fmt.Errorf("seeding catalog: %w", err)
	}

	return nil
}

func seedUsers(ctx context.Context, users Users) error {
	if _, err := users.Get(ctx, "admin"); err == nil {
		return nil
	} else if !errors.Is(err, user.ErrNotFound) {
		return err
	}

	for _, params := range defaultUsers() {
		if _, err := users.Create(ctx, params); err != nil {
			return err
		}
	}

	return nil
}

func seedCustomers(ctx context.Context, customers Customers) error {
	existing, err := customers.List(ctx, customer.ListFilter{})
	if err != nil {
		return err
	}

	if len(existing) > 0 {
		return nil
	}

	for _, params := range defaultCustomers() {
		if _, err := customers.Create(ctx, params); err != nil {
			return err
		}
	}

	return nil
}

func seedCatalog(ctx context.Context, items Catalog) error {
	existing, err := items.List(ctx)
	if err != nil {
		return err
	}

	if len(existing) > 0 {
		return nil
	}

	_, err = items.CreateBatch(ctx, defaultCatalog())

	return err
}
