package party

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oscarfh/bizdesk/internal/document"
)

var ErrNotFound = errors.New("party not found")

// Role distinguishes who the business bills and who bills it.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
)

// Party is a stored customer or vendor. Documents embed a snapshot of
// it rather than referencing it live.
type Party struct {
	ID        uuid.UUID
	Role      Role
	Name      string
	Email     string
	Phone     string
	Address   document.Address
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Snapshot copies the billable fields into a document party.
func (p *Party) Snapshot() document.Party {
	return document.Party{
		Name:    p.Name,
		Email:   p.Email,
		Phone:   p.Phone,
		Address: p.Address,
	}
}

type Repository interface {
	CreateParty(ctx context.Context, p *Party) error
	GetParty(ctx context.Context, id uuid.UUID) (*Party, error)
	ListParties(ctx context.Context, filter ListFilter) ([]*Party, error)
}

type ListFilter struct {
	Role *Role
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Role    Role
	Name    string
	Email   string
	Phone   string
	Address document.Address
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Party, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, fmt.Errorf("party name is required")
	}

	role := params.Role
	if role == "" {
		role = RoleCustomer
	}

	p := &Party{
		Role:    role,
		Name:    strings.TrimSpace(params.Name),
		Email:   params.Email,
		Phone:   params.Phone,
		Address: params.Address,
	}

	if err := s.repo.CreateParty(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Party, error) {
	return s.repo.GetParty(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Party, error) {
	return s.repo.ListParties(ctx, filter)
}
