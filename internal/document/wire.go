package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oscarfh/bizdesk/internal/pricing"
)

// Wire shapes shared by the API handlers and the client so a document
// serialized on one side hydrates identically on the other.

type AddressPayload struct {
	Kind     AddressKind `json:"kind"`
	Freeform string      `json:"freeform,omitempty"`
	Street   string      `json:"street,omitempty"`
	City     string      `json:"city,omitempty"`
	State    string      `json:"state,omitempty"`
	Pincode  string      `json:"pincode,omitempty"`
	Country  string      `json:"country,omitempty"`
}

type PartyPayload struct {
	Name    string         `json:"name"`
	Email   string         `json:"email,omitempty"`
	Phone   string         `json:"phone,omitempty"`
	Address AddressPayload `json:"address"`
}

type LineItemPayload struct {
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	// NetAmount is informational: it is rounded to two places on the
	// way out and recomputed from the four inputs on the way in.
	NetAmount decimal.Decimal `json:"net_amount"`
}

type CreateRequest struct {
	Kind      Kind              `json:"kind"`
	Number    string            `json:"number"`
	Party     PartyPayload      `json:"party"`
	IssueDate time.Time         `json:"issue_date"`
	DueDate   *time.Time        `json:"due_date,omitempty"`
	Notes     string            `json:"notes,omitempty"`
	Items     []LineItemPayload `json:"items"`
}

type Response struct {
	ID            uuid.UUID         `json:"id"`
	Number        string            `json:"number"`
	Kind          Kind              `json:"kind"`
	Status        Status            `json:"status"`
	Party         PartyPayload      `json:"party"`
	IssueDate     time.Time         `json:"issue_date"`
	DueDate       *time.Time        `json:"due_date,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	Items         []LineItemPayload `json:"items"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	TotalDiscount decimal.Decimal   `json:"total_discount"`
	TaxableAmount decimal.Decimal   `json:"taxable_amount"`
	TotalTax      decimal.Decimal   `json:"total_tax"`
	TotalAmount   decimal.Decimal   `json:"total_amount"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     *time.Time        `json:"updated_at,omitempty"`
}

// ErrorPayload is the error body shape for non-2xx responses.
type ErrorPayload struct {
	Message string `json:"message"`
}

func AddressToPayload(a Address) AddressPayload {
	return AddressPayload{
		Kind:     a.Kind,
		Freeform: a.Freeform,
		Street:   a.Street,
		City:     a.City,
		State:    a.State,
		Pincode:  a.Pincode,
		Country:  a.Country,
	}
}

func AddressFromPayload(p AddressPayload) Address {
	kind := p.Kind
	if kind == "" {
		kind = AddressFreeform
	}

	return Address{
		Kind:     kind,
		Freeform: p.Freeform,
		Street:   p.Street,
		City:     p.City,
		State:    p.State,
		Pincode:  p.Pincode,
		Country:  p.Country,
	}
}

func PartyToPayload(p Party) PartyPayload {
	return PartyPayload{
		Name:    p.Name,
		Email:   p.Email,
		Phone:   p.Phone,
		Address: AddressToPayload(p.Address),
	}
}

func PartyFromPayload(p PartyPayload) Party {
	return Party{
		Name:    p.Name,
		Email:   p.Email,
		Phone:   p.Phone,
		Address: AddressFromPayload(p.Address),
	}
}

func ItemsToPayload(items []pricing.LineItem) []LineItemPayload {
	out := make([]LineItemPayload, len(items))
	for i, li := range items {
		out[i] = LineItemPayload{
			Description:     li.Name,
			Quantity:        li.Quantity,
			UnitPrice:       li.UnitPrice,
			DiscountPercent: li.DiscountPercent,
			TaxPercent:      li.TaxPercent,
			NetAmount:       pricing.Round2(li.NetAmount()),
		}
	}

	return out
}

func ItemsFromPayload(payload []LineItemPayload) []pricing.LineItem {
	items := make([]pricing.LineItem, len(payload))
	for i, p := range payload {
		items[i] = pricing.LineItem{
			Name:            p.Description,
			Quantity:        p.Quantity,
			UnitPrice:       p.UnitPrice,
			DiscountPercent: p.DiscountPercent,
			TaxPercent:      p.TaxPercent,
		}
	}

	return items
}

func ToResponse(d *Document) Response {
	totals := d.Totals()

	return Response{
		ID:            d.ID,
		Number:        d.Number,
		Kind:          d.Kind,
		Status:        d.Status,
		Party:         PartyToPayload(d.Party),
		IssueDate:     d.IssueDate,
		DueDate:       d.DueDate,
		Notes:         d.Notes,
		Items:         ItemsToPayload(d.Items),
		Subtotal:      pricing.Round2(totals.Subtotal),
		TotalDiscount: pricing.Round2(totals.TotalDiscount),
		TaxableAmount: pricing.Round2(totals.TaxableAmount),
		TotalTax:      pricing.Round2(totals.TotalTax),
		TotalAmount:   pricing.Round2(totals.TotalAmount),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func ToResponseList(docs []*Document) []Response {
	resp := make([]Response, len(docs))
	for i, d := range docs {
		resp[i] = ToResponse(d)
	}

	return resp
}
