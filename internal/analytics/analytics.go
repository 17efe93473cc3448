package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oscarfh/bizdesk/internal/document"
)

// KindSummary aggregates one document kind.
type KindSummary struct {
	Kind        document.Kind   `json:"kind"`
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalTax    decimal.Decimal `json:"total_tax"`
}

// Summary is the authoritative aggregate view served to dashboards.
// It is always computed fresh from the store, never patched
// incrementally from push events.
type Summary struct {
	DocumentCount int             `json:"document_count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalTax      decimal.Decimal `json:"total_tax"`
	ByKind        []KindSummary   `json:"by_kind"`
	GeneratedAt   time.Time       `json:"generated_at"`
}

type Repository interface {
	Summarize(ctx context.Context) (*Summary, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	return s.repo.Summarize(ctx)
}
