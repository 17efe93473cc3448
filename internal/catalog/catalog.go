package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oscarfh/bizdesk/internal/pricing"
)

var ErrNotFound = errors.New("catalog item not found")

// Item is a sellable product or service with its default pricing.
type Item struct {
	ID         uuid.UUID
	Name       string
	UnitPrice  decimal.Decimal
	TaxPercent decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// Line builds a document line prefilled from the catalog entry.
func (it *Item) Line() pricing.LineItem {
	li := pricing.NewLineItem()
	li.Name = it.Name
	li.UnitPrice = it.UnitPrice
	li.TaxPercent = it.TaxPercent

	return li
}

//go:generate mockgen -source=catalog.go -destination=repository_mock.go -package=catalog
type Repository interface {
	CreateItem(ctx context.Context, item *Item) error
	CreateItems(ctx context.Context, items []*Item) error
	ListItems(ctx context.Context) ([]*Item, error)
	FindByName(ctx context.Context, name string) (*Item, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name       string
	UnitPrice  decimal.Decimal
	TaxPercent decimal.Decimal
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Item, error) {
	item, err := fromParams(params)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// CreateBatch stores a set of imported items in one call.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Item, error) {
	if len(params) == 0 {
		return nil, nil
	}

	items := make([]*Item, len(params))

	for i, p := range params {
		item, err := fromParams(p)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}

		items[i] = item
	}

	if err := s.repo.CreateItems(ctx, items); err != nil {
		return nil, err
	}

	return items, nil
}

func (s *Service) List(ctx context.Context) ([]*Item, error) {
	return s.repo.ListItems(ctx)
}

// Suggest looks an item up by name for editor prefill. Returns nil
// without error when nothing matches.
func (s *Service) Suggest(ctx context.Context, name string) (*Item, error) {
	item, err := s.repo.FindByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return item, nil
}

func fromParams(params CreateParams) (*Item, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, fmt.Errorf("item name is required")
	}

	if params.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("unit price must not be negative")
	}

	if params.TaxPercent.IsNegative() || params.TaxPercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("tax percent must be between 0 and 100")
	}

	return &Item{
		Name:       name,
		UnitPrice:  params.UnitPrice,
		TaxPercent: params.TaxPercent,
	}, nil
}
