package document

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oscarfh/bizdesk/internal/pricing"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrDuplicateNumber = errors.New("duplicate document number")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=document
type Repository interface {
	CreateDocument(ctx context.Context, doc *Document) error
	GetDocument(ctx context.Context, id uuid.UUID) (*Document, error)
	ListDocuments(ctx context.Context, filter ListFilter) ([]*Document, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	NumberExists(ctx context.Context, kind Kind, number string) (bool, error)
}

// Notifier is told after every successful mutation so live views can
// refetch. The zero-value no-op keeps the service usable in tests.
type Notifier interface {
	DocumentsChanged()
}

type NopNotifier struct{}

func (NopNotifier) DocumentsChanged() {}

type Service struct {
	repo     Repository
	notifier Notifier
}

func NewService(repo Repository, notifier Notifier) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}

	return &Service{repo: repo, notifier: notifier}
}

type CreateParams struct {
	Kind      Kind
	Number    string
	Party     Party
	IssueDate time.Time
	DueDate   *time.Time
	Notes     string
	Items     []pricing.LineItem
}

type ListFilter struct {
	Kind      *Kind
	Status    *Status
	StartDate *time.Time
	EndDate   *time.Time
}

// Create persists a new document. The server recomputes every derived
// amount from the submitted line inputs; whatever totals the client
// displayed are advisory only.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Document, error) {
	if len(params.Items) == 0 {
		return nil, fmt.Errorf("document must have at least one line item")
	}

	number := strings.TrimSpace(params.Number)
	if number == "" {
		return nil, fmt.Errorf("document number is required")
	}

	exists, err := s.repo.NumberExists(ctx, params.Kind, number)
	if err != nil {
		return nil, fmt.Errorf("checking document number: %w", err)
	}

	if exists {
		return nil, fmt.Errorf("%w: %s %s already exists", ErrDuplicateNumber, params.Kind, number)
	}

	doc := &Document{
		Number:    number,
		Kind:      params.Kind,
		Status:    StatusIssued,
		Party:     params.Party,
		IssueDate: params.IssueDate,
		DueDate:   params.DueDate,
		Notes:     params.Notes,
		Items:     params.Items,
	}

	if err := s.repo.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}

	s.notifier.DocumentsChanged()

	return doc, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Document, error) {
	return s.repo.GetDocument(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Document, error) {
	return s.repo.ListDocuments(ctx, filter)
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	s.notifier.DocumentsChanged()

	return nil
}
