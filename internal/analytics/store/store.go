package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oscarfh/bizdesk/internal/analytics"
	"github.com/oscarfh/bizdesk/internal/document"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Summarize aggregates issued and paid documents by kind. Void and
// draft documents do not contribute to the totals.
func (s *Store) Summarize(ctx context.Context) (*analytics.Summary, error) {
	query := `
		SELECT kind, COUNT(*),
			COALESCE(SUM(total_amount), 0)::text,
			COALESCE(SUM(total_tax), 0)::text
		FROM documents
		WHERE status IN ('issued', 'paid')
		GROUP BY kind
		ORDER BY kind
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("summarizing documents: %w", err)
	}
	defer rows.Close()

	summary := &analytics.Summary{GeneratedAt: time.Now()}

	for rows.Next() {
		var ks analytics.KindSummary

		var kindStr, amountStr, taxStr string

		if err := rows.Scan(&kindStr, &ks.Count, &amountStr, &taxStr); err != nil {
			return nil, fmt.Errorf("scanning summary row: %w", err)
		}

		ks.Kind = document.Kind(kindStr)

		if ks.TotalAmount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("parsing summary amount: %w", err)
		}

		if ks.TotalTax, err = decimal.NewFromString(taxStr); err != nil {
			return nil, fmt.Errorf("parsing summary tax: %w", err)
		}

		summary.ByKind = append(summary.ByKind, ks)
		summary.DocumentCount += ks.Count
		summary.TotalAmount = summary.TotalAmount.Add(ks.TotalAmount)
		summary.TotalTax = summary.TotalTax.Add(ks.TotalTax)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating summary rows: %w", err)
	}

	return summary, nil
}
