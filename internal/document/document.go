package document

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oscarfh/bizdesk/internal/pricing"
)

// Kind is the commercial document type.
type Kind string

const (
	KindInvoice    Kind = "invoice"
	KindProforma   Kind = "proforma"
	KindQuotation  Kind = "quotation"
	KindChallan    Kind = "delivery_challan"
	KindPurchase   Kind = "purchase"
	KindCreditNote Kind = "credit_note"
	KindDebitNote  Kind = "debit_note"
)

// Kinds lists every document kind in display order.
var Kinds = []Kind{
	KindInvoice, KindProforma, KindQuotation, KindChallan,
	KindPurchase, KindCreditNote, KindDebitNote,
}

// Status represents the lifecycle state of a saved document.
type Status string

const (
	StatusDraft  Status = "draft"
	StatusIssued Status = "issued"
	StatusPaid   Status = "paid"
	StatusVoid   Status = "void"
)

// AddressKind tags the two address representations.
type AddressKind string

const (
	AddressFreeform   AddressKind = "freeform"
	AddressStructured AddressKind = "structured"
)

// Address is either a single freeform line or a structured postal
// address. The tag replaces runtime shape inspection; Display is the
// one normalization point for rendering and serialization.
type Address struct {
	Kind     AddressKind
	Freeform string
	Street   string
	City     string
	State    string
	Pincode  string
	Country  string
}

// NewFreeformAddress wraps a single free-text address line.
func NewFreeformAddress(text string) Address {
	return Address{Kind: AddressFreeform, Freeform: text}
}

// NewStructuredAddress builds a structured postal address.
func NewStructuredAddress(street, city, state, pincode, country string) Address {
	return Address{
		Kind:    AddressStructured,
		Street:  street,
		City:    city,
		State:   state,
		Pincode: pincode,
		Country: country,
	}
}

// IsZero reports whether the address carries no usable content.
func (a Address) IsZero() bool {
	return strings.TrimSpace(a.Display()) == ""
}

// Display renders the canonical single-line form of the address.
func (a Address) Display() string {
	if a.Kind == AddressFreeform {
		return strings.TrimSpace(a.Freeform)
	}

	parts := make([]string, 0, 5)

	for _, p := range []string{a.Street, a.City, a.State, a.Pincode, a.Country} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}

	return strings.Join(parts, ", ")
}

// Party is the customer or vendor snapshot embedded in a document.
// It is a copy taken at authoring time, not a live reference.
type Party struct {
	Name    string
	Email   string
	Phone   string
	Address Address
}

// Document is a saved commercial document with its line items.
type Document struct {
	ID        uuid.UUID
	Number    string
	Kind      Kind
	Status    Status
	Party     Party
	IssueDate time.Time
	DueDate   *time.Time
	Notes     string
	Items     []pricing.LineItem
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Totals folds the current line items. Never cached: callers always
// see totals consistent with the item slice.
func (d *Document) Totals() pricing.Totals {
	return pricing.Aggregate(d.Items)
}
