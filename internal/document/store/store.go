package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/oscarfh/bizdesk/internal/document"
	"github.com/oscarfh/bizdesk/internal/pricing"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectDocumentColumns = `
	d.id, d.number, d.kind, d.status,
	d.party_name, d.party_email, d.party_phone, d.party_address,
	d.issue_date, d.due_date, d.notes, d.items,
	d.created_at, d.updated_at
`

// scanDocument reads a document row. Line items and the party address
// live in JSONB columns using the wire payload shapes, so the stored
// form matches what travels over the API.
func scanDocument(s scanner) (*document.Document, error) {
	var doc document.Document

	var kindStr, statusStr string

	var email, phone, notes sql.NullString

	var addressRaw, itemsRaw []byte

	if err := s.Scan(
		&doc.ID, &doc.Number, &kindStr, &statusStr,
		&doc.Party.Name, &email, &phone, &addressRaw,
		&doc.IssueDate, &doc.DueDate, &notes, &itemsRaw,
		&doc.CreatedAt, &doc.UpdatedAt,
	); err != nil {
		return nil, err
	}

	doc.Kind = document.Kind(kindStr)
	doc.Status = document.Status(statusStr)
	doc.Party.Email = email.String
	doc.Party.Phone = phone.String
	doc.Notes = notes.String

	var addr document.AddressPayload
	if err := json.Unmarshal(addressRaw, &addr); err != nil {
		return nil, fmt.Errorf("decoding party address: %w", err)
	}

	doc.Party.Address = document.AddressFromPayload(addr)

	var items []document.LineItemPayload
	if err := json.Unmarshal(itemsRaw, &items); err != nil {
		return nil, fmt.Errorf("decoding line items: %w", err)
	}

	doc.Items = document.ItemsFromPayload(items)

	return &doc, nil
}

func (s *Store) CreateDocument(ctx context.Context, doc *document.Document) error {
	addressRaw, err := json.Marshal(document.AddressToPayload(doc.Party.Address))
	if err != nil {
		return fmt.Errorf("encoding party address: %w", err)
	}

	itemsRaw, err := json.Marshal(document.ItemsToPayload(doc.Items))
	if err != nil {
		return fmt.Errorf("encoding line items: %w", err)
	}

	// total_amount and total_tax are denormalized for reporting
	// queries; the in-memory document always rederives them.
	totals := doc.Totals()

	query := `
		INSERT INTO documents (number, kind, status, party_name, party_email, party_phone, party_address,
			issue_date, due_date, notes, items, total_amount, total_tax, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err = s.db.QueryRowContext(ctx, query,
		doc.Number,
		doc.Kind,
		doc.Status,
		doc.Party.Name,
		doc.Party.Email,
		doc.Party.Phone,
		addressRaw,
		doc.IssueDate,
		doc.DueDate,
		doc.Notes,
		itemsRaw,
		pricing.Round2(totals.TotalAmount).String(),
		pricing.Round2(totals.TotalTax).String(),
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating document: %w", err)
	}

	return nil
}

func (s *Store) GetDocument(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	query := `SELECT ` + selectDocumentColumns + `
		FROM documents d
		WHERE d.id = $1`

	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, document.ErrNotFound
		}

		return nil, fmt.Errorf("getting document: %w", err)
	}

	return doc, nil
}

func (s *Store) ListDocuments(ctx context.Context, filter document.ListFilter) ([]*document.Document, error) {
	query := `SELECT ` + selectDocumentColumns + `
		FROM documents d
		WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.Kind != nil {
		query += fmt.Sprintf(" AND d.kind = $%d", argIdx)
		args = append(args, *filter.Kind)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND d.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND d.issue_date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND d.issue_date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY d.issue_date DESC, d.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []*document.Document

	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}

		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status document.Status) error {
	query := `UPDATE documents SET status = $1, updated_at = NOW() WHERE id = $2`

	res, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating document status: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return document.ErrNotFound
	}

	return nil
}

func (s *Store) NumberExists(ctx context.Context, kind document.Kind, number string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM documents WHERE kind = $1 AND number = $2)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, kind, number).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking document number: %w", err)
	}

	return exists, nil
}
