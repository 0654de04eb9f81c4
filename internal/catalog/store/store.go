package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/kmccarty/tradeops/internal/catalog"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*catalog.Item, error) {
	var item catalog.Item

	if err := s.Scan(&item.ID, &item.Name, &item.Category, &item.Cost, &item.Price); err != nil {
		return nil, err
	}

	return &item, nil
}

const selectItemColumns = `id, name, category, cost, price`

func (s *Store) CreateItem(ctx context.Context, item *catalog.Item) error {
	query := `
		INSERT INTO catalog_items (id, name, category, cost, price)
		VALUES ($1, $2, $3, $4, $5)
	`

	item.ID = uuid.New()

	if _, err := s.db.ExecContext(ctx, query,
		item.ID, item.Name, item.Category, item.Cost, item.Price,
	); err != nil {
		return fmt.Errorf("creating catalog item: %w", err)
	}

	return nil
}

func (s *Store) GetItem(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	query := `SELECT ` + selectItemColumns + ` FROM catalog_items WHERE id = $1`

	item, err := scanItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, catalog.ErrNotFound
		}

		return nil, fmt.Errorf("getting catalog item: %w", err)
	}

	return item, nil
}

func (s *Store) ListItems(ctx context.Context) ([]*catalog.Item, error) {
	query := `SELECT ` + selectItemColumns + ` FROM catalog_items ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing catalog items: %w", err)
	}
	defer rows.Close()

	var items []*catalog.Item

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning catalog item: %w", err)
		}

		items = append(items, item)
	}

	return items, rows.Err()
}
