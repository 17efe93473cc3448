package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/oscarfh/bizdesk/internal/document"
	"github.com/oscarfh/bizdesk/internal/party"
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

const selectPartyColumns = `
	p.id, p.role, p.name, p.email, p.phone, p.address, p.created_at, p.updated_at
`

func scanParty(s scanner) (*party.Party, error) {
	var p party.Party

	var roleStr string

	var email, phone sql.NullString

	var addressRaw []byte

	if err := s.Scan(
		&p.ID, &roleStr, &p.Name, &email, &phone, &addressRaw,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.Role = party.Role(roleStr)
	p.Email = email.String
	p.Phone = phone.String

	var addr document.AddressPayload
	if err := json.Unmarshal(addressRaw, &addr); err != nil {
		return nil, fmt.Errorf("decoding address: %w", err)
	}

	p.Address = document.AddressFromPayload(addr)

	return &p, nil
}

func (s *Store) CreateParty(ctx context.Context, p *party.Party) error {
	addressRaw, err := json.Marshal(document.AddressToPayload(p.Address))
	if err != nil {
		return fmt.Errorf("encoding address: %w", err)
	}

	query := `
		INSERT INTO parties (role, name, email, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err = s.db.QueryRowContext(ctx, query,
		p.Role, p.Name, p.Email, p.Phone, addressRaw,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating party: %w", err)
	}

	return nil
}

func (s *Store) GetParty(ctx context.Context, id uuid.UUID) (*party.Party, error) {
	query := `SELECT ` + selectPartyColumns + ` FROM parties p WHERE p.id = $1`

	p, err := scanParty(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, party.ErrNotFound
		}

		return nil, fmt.Errorf("getting party: %w", err)
	}

	return p, nil
}

func (s *Store) ListParties(ctx context.Context, filter party.ListFilter) ([]*party.Party, error) {
	query := `SELECT ` + selectPartyColumns + ` FROM parties p WHERE 1=1`

	var args []any

	if filter.Role != nil {
		query += " AND p.role = $1"
		args = append(args, *filter.Role)
	}

	query += " ORDER BY p.name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing parties: %w", err)
	}
	defer rows.Close()

	var parties []*party.Party

	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning party: %w", err)
		}

		parties = append(parties, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating parties: %w", err)
	}

	return parties, nil
}
