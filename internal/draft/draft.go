// Package draft owns one document being authored: an ordered list of
// line items plus metadata, stepped through a small state machine
// (Empty, Editing, Submitting, Saved, Failed). Totals are recomputed
// from the live item slice on every read; nothing is cached.
package draft

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oscarfh/bizdesk/internal/document"
	"github.com/oscarfh/bizdesk/internal/pricing"
)

type State string

const (
	StateEmpty      State = "empty"
	StateEditing    State = "editing"
	StateSubmitting State = "submitting"
	StateSaved      State = "saved"
	StateFailed     State = "failed"
)

var (
	ErrInvalidTransition = errors.New("invalid draft transition")
	ErrNoSuchItem        = errors.New("no such line item")
)

// ValidationError names the offending field so the form can point at
// it instead of showing a generic failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is the full set of pre-submit violations.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}

	return strings.Join(msgs, "; ")
}

// Ref identifies the saved document assigned by the backend.
type Ref struct {
	ID     uuid.UUID
	Number string
}

// Submitter sends a finished draft to the backend. Satisfied by
// apiclient.Client.
//
//go:generate mockgen -source=draft.go -destination=submitter_mock.go -package=draft
type Submitter interface {
	CreateDocument(ctx context.Context, req document.CreateRequest) (document.Response, error)
}

// Draft is the mutable authoring state for one document. It is owned
// by a single UI context and never shared across writers.
type Draft struct {
	state      State
	generation int

	kind      document.Kind
	number    string
	party     document.Party
	issueDate time.Time
	dueDate   *time.Time
	notes     string
	items     []pricing.LineItem

	failReason string
	saved      *Ref
}

// New starts an empty draft of the given kind dated today.
func New(kind document.Kind) *Draft {
	return &Draft{
		state:     StateEmpty,
		kind:      kind,
		issueDate: time.Now(),
	}
}

// Hydrate builds an editable draft from a fetched document.
func Hydrate(resp document.Response) *Draft {
	d := &Draft{
		state:     StateEmpty,
		kind:      resp.Kind,
		number:    resp.Number,
		party:     document.PartyFromPayload(resp.Party),
		issueDate: resp.IssueDate,
		dueDate:   resp.DueDate,
		notes:     resp.Notes,
		items:     document.ItemsFromPayload(resp.Items),
	}

	if len(d.items) > 0 {
		d.state = StateEditing
	}

	return d
}

func (d *Draft) State() State          { return d.state }
func (d *Draft) Kind() document.Kind   { return d.kind }
func (d *Draft) Number() string        { return d.number }
func (d *Draft) Party() document.Party { return d.party }
func (d *Draft) IssueDate() time.Time  { return d.issueDate }
func (d *Draft) DueDate() *time.Time   { return d.dueDate }
func (d *Draft) Notes() string         { return d.notes }
func (d *Draft) FailReason() string    { return d.failReason }
func (d *Draft) SavedRef() *Ref        { return d.saved }
func (d *Draft) ItemCount() int        { return len(d.items) }

// Items returns a copy of the line items in display order.
func (d *Draft) Items() []pricing.LineItem {
	out := make([]pricing.LineItem, len(d.items))
	copy(out, d.items)

	return out
}

// Item returns the line at index i.
func (d *Draft) Item(i int) (pricing.LineItem, error) {
	if i < 0 || i >= len(d.items) {
		return pricing.LineItem{}, fmt.Errorf("%w: index %d", ErrNoSuchItem, i)
	}

	return d.items[i], nil
}

// Totals folds the current items. Recompute-on-read: the result can
// never diverge from the slice.
func (d *Draft) Totals() pricing.Totals {
	return pricing.Aggregate(d.items)
}

func (d *Draft) editable() bool {
	return d.state == StateEmpty || d.state == StateEditing
}

// AddItem appends a new row and moves an empty draft into Editing.
func (d *Draft) AddItem(li pricing.LineItem) error {
	if !d.editable() {
		return fmt.Errorf("%w: cannot add item while %s", ErrInvalidTransition, d.state)
	}

	d.items = append(d.items, li)
	d.state = StateEditing

	return nil
}

// UpdateItem applies one numeric field edit to the row at index i.
// The row's derived amounts follow automatically; document totals are
// picked up on the next Totals read.
func (d *Draft) UpdateItem(i int, field pricing.Field, raw string) error {
	if !d.editable() {
		return fmt.Errorf("%w: cannot edit item while %s", ErrInvalidTransition, d.state)
	}

	if i < 0 || i >= len(d.items) {
		return fmt.Errorf("%w: index %d", ErrNoSuchItem, i)
	}

	updated, err := d.items[i].Apply(field, raw)
	if err != nil {
		return err
	}

	d.items[i] = updated

	return nil
}

// RenameItem sets the row's description.
func (d *Draft) RenameItem(i int, name string) error {
	if !d.editable() {
		return fmt.Errorf("%w: cannot edit item while %s", ErrInvalidTransition, d.state)
	}

	if i < 0 || i >= len(d.items) {
		return fmt.Errorf("%w: index %d", ErrNoSuchItem, i)
	}

	d.items[i].Name = name

	return nil
}

// RemoveItem deletes the row at index i, returning to Empty when the
// last row goes.
func (d *Draft) RemoveItem(i int) error {
	if !d.editable() {
		return fmt.Errorf("%w: cannot remove item while %s", ErrInvalidTransition, d.state)
	}

	if i < 0 || i >= len(d.items) {
		return fmt.Errorf("%w: index %d", ErrNoSuchItem, i)
	}

	d.items = append(d.items[:i], d.items[i+1:]...)

	if len(d.items) == 0 {
		d.state = StateEmpty
	}

	return nil
}

func (d *Draft) SetNumber(number string)   { d.number = number }
func (d *Draft) SetParty(p document.Party) { d.party = p }
func (d *Draft) SetNotes(notes string)     { d.notes = notes }

func (d *Draft) SetDates(issue time.Time, due *time.Time) {
	d.issueDate = issue
	d.dueDate = due
}

// Validate runs the pre-submit checks without changing state.
func (d *Draft) Validate() ValidationErrors {
	var errs ValidationErrors

	if len(d.items) == 0 {
		errs = append(errs, ValidationError{Field: "items", Message: "at least one item required"})
	}

	for i, li := range d.items {
		if strings.TrimSpace(li.Name) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("items[%d].description", i),
				Message: "item description required",
			})
		}
	}

	if strings.TrimSpace(d.number) == "" {
		errs = append(errs, ValidationError{Field: "number", Message: "document number required"})
	}

	if strings.TrimSpace(d.party.Name) == "" {
		errs = append(errs, ValidationError{Field: "party.name", Message: "party name required"})
	}

	if d.party.Address.IsZero() {
		errs = append(errs, ValidationError{Field: "party.address", Message: "address required"})
	}

	return errs
}

// BeginSubmit validates and moves the draft into Submitting, handing
// back a generation token. The token must accompany CompleteSubmit so
// a response that arrives after this draft was abandoned or replaced
// cannot touch it.
func (d *Draft) BeginSubmit() (int, error) {
	if d.state != StateEditing {
		return 0, fmt.Errorf("%w: submit requires an editing draft with items, not %s", ErrInvalidTransition, d.state)
	}

	if errs := d.Validate(); len(errs) > 0 {
		return 0, errs
	}

	d.generation++
	d.state = StateSubmitting

	return d.generation, nil
}

// CompleteSubmit applies the outcome of the in-flight submission. A
// stale generation token is ignored. On failure the draft keeps every
// item and field and records the user-displayable reason.
func (d *Draft) CompleteSubmit(token int, resp document.Response, err error) {
	if token != d.generation || d.state != StateSubmitting {
		return
	}

	if err != nil {
		d.state = StateFailed
		d.failReason = err.Error()

		return
	}

	d.state = StateSaved
	d.failReason = ""
	d.saved = &Ref{ID: resp.ID, Number: resp.Number}
}

// Reopen returns a failed draft to Editing for another attempt.
func (d *Draft) Reopen() error {
	if d.state != StateFailed {
		return fmt.Errorf("%w: reopen requires a failed draft, not %s", ErrInvalidTransition, d.state)
	}

	d.state = StateEditing
	d.failReason = ""

	return nil
}

// Request serializes the draft into the API payload shape.
func (d *Draft) Request() document.CreateRequest {
	return document.CreateRequest{
		Kind:      d.kind,
		Number:    strings.TrimSpace(d.number),
		Party:     document.PartyToPayload(d.party),
		IssueDate: d.issueDate,
		DueDate:   d.dueDate,
		Notes:     d.notes,
		Items:     document.ItemsToPayload(d.items),
	}
}

// Submit runs the whole cycle synchronously: validate, send, settle.
// Interactive callers split this into BeginSubmit plus an async
// CompleteSubmit instead.
func (d *Draft) Submit(ctx context.Context, submitter Submitter) error {
	token, err := d.BeginSubmit()
	if err != nil {
		return err
	}

	resp, err := submitter.CreateDocument(ctx, d.Request())
	d.CompleteSubmit(token, resp, err)

	return err
}
