package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/oscarfh/bizdesk/internal/catalog"
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

const selectItemColumns = `
	c.id, c.name, c.unit_price, c.tax_percent, c.created_at, c.updated_at
`

func scanItem(s scanner) (*catalog.Item, error) {
	var item catalog.Item

	var price, tax string

	if err := s.Scan(
		&item.ID, &item.Name, &price, &tax, &item.CreatedAt, &item.UpdatedAt,
	); err != nil {
		return nil, err
	}

	item.UnitPrice = decimalFromColumn(price)
	item.TaxPercent = decimalFromColumn(tax)

	return &item, nil
}

// decimalFromColumn parses a NUMERIC column scanned as text. Values
// come from our own inserts, so a parse failure means a corrupt row;
// zero is the least harmful reading.
func decimalFromColumn(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}

	return d
}

func (s *Store) CreateItem(ctx context.Context, item *catalog.Item) error {
	query := `
		INSERT INTO catalog_items (name, unit_price, tax_percent, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		item.Name, item.UnitPrice.String(), item.TaxPercent.String(),
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating catalog item: %w", err)
	}

	return nil
}

func (s *Store) CreateItems(ctx context.Context, items []*catalog.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning catalog import: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO catalog_items (name, unit_price, tax_percent, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (name) DO UPDATE
		SET unit_price = EXCLUDED.unit_price, tax_percent = EXCLUDED.tax_percent, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	for _, item := range items {
		err := tx.QueryRowContext(ctx, query,
			item.Name, item.UnitPrice.String(), item.TaxPercent.String(),
		).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			return fmt.Errorf("importing catalog item %q: %w", item.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing catalog import: %w", err)
	}

	return nil
}

func (s *Store) ListItems(ctx context.Context) ([]*catalog.Item, error) {
	query := `SELECT ` + selectItemColumns + ` FROM catalog_items c ORDER BY c.name`

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

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating catalog items: %w", err)
	}

	return items, nil
}

func (s *Store) FindByName(ctx context.Context, name string) (*catalog.Item, error) {
	query := `SELECT ` + selectItemColumns + ` FROM catalog_items c WHERE LOWER(c.name) = LOWER($1)`

	item, err := scanItem(s.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, catalog.ErrNotFound
		}

		return nil, fmt.Errorf("finding catalog item: %w", err)
	}

	return item, nil
}
