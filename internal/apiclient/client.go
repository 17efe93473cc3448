// Package apiclient is the front end's gateway to the backend API.
// Every view goes through it: fetch JSON, mirror it into view state,
// re-POST edited payloads. Credentials are injected here rather than
// read from anywhere ambient.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oscarfh/bizdesk/internal/analytics"
	"github.com/oscarfh/bizdesk/internal/document"
)

// APIError carries a non-2xx response. Error returns the server's
// message verbatim so it can be shown to the user as-is.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	// stream has no timeout: the event channel stays open for the
	// life of the subscribing view.
	stream *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
		stream:  &http.Client{},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}

		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// decodeError prefers the server's message field; when the body has
// none, a generic fallback keeps the error presentable.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var payload document.ErrorPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Message != "" {
		apiErr.Message = payload.Message
	} else {
		apiErr.Message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
	}

	return apiErr
}

// CreateDocument submits a finished draft. Satisfies draft.Submitter.
func (c *Client) CreateDocument(ctx context.Context, req document.CreateRequest) (document.Response, error) {
	var resp document.Response
	if err := c.do(ctx, http.MethodPost, "/api/v1/documents", req, &resp); err != nil {
		return document.Response{}, err
	}

	return resp, nil
}

// DocumentFilter narrows ListDocuments.
type DocumentFilter struct {
	Kind      document.Kind
	Status    document.Status
	StartDate *time.Time
	EndDate   *time.Time
}

func (c *Client) ListDocuments(ctx context.Context, filter DocumentFilter) ([]document.Response, error) {
	q := url.Values{}

	if filter.Kind != "" {
		q.Set("kind", string(filter.Kind))
	}

	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}

	if filter.StartDate != nil {
		q.Set("start_date", filter.StartDate.Format(time.DateOnly))
	}

	if filter.EndDate != nil {
		q.Set("end_date", filter.EndDate.Format(time.DateOnly))
	}

	path := "/api/v1/documents"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp []document.Response
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) GetDocument(ctx context.Context, id uuid.UUID) (document.Response, error) {
	var resp document.Response
	if err := c.do(ctx, http.MethodGet, "/api/v1/documents/"+id.String(), nil, &resp); err != nil {
		return document.Response{}, err
	}

	return resp, nil
}

func (c *Client) UpdateDocumentStatus(ctx context.Context, id uuid.UUID, status document.Status) error {
	body := struct {
		Status document.Status `json:"status"`
	}{Status: status}

	return c.do(ctx, http.MethodPatch, "/api/v1/documents/"+id.String()+"/status", body, nil)
}

// Party mirrors the API's party resource.
type Party struct {
	ID      uuid.UUID               `json:"id"`
	Role    string                  `json:"role"`
	Name    string                  `json:"name"`
	Email   string                  `json:"email,omitempty"`
	Phone   string                  `json:"phone,omitempty"`
	Address document.AddressPayload `json:"address"`
}

// Snapshot converts the fetched party into the document embedding.
func (p Party) Snapshot() document.Party {
	return document.Party{
		Name:    p.Name,
		Email:   p.Email,
		Phone:   p.Phone,
		Address: document.AddressFromPayload(p.Address),
	}
}

type PartyParams struct {
	Role    string                  `json:"role"`
	Name    string                  `json:"name"`
	Email   string                  `json:"email,omitempty"`
	Phone   string                  `json:"phone,omitempty"`
	Address document.AddressPayload `json:"address"`
}

func (c *Client) ListParties(ctx context.Context, role string) ([]Party, error) {
	path := "/api/v1/parties"
	if role != "" {
		path += "?role=" + url.QueryEscape(role)
	}

	var resp []Party
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) CreateParty(ctx context.Context, params PartyParams) (Party, error) {
	var resp Party
	if err := c.do(ctx, http.MethodPost, "/api/v1/parties", params, &resp); err != nil {
		return Party{}, err
	}

	return resp, nil
}

// CatalogItem mirrors the API's catalog resource.
type CatalogItem struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TaxPercent decimal.Decimal `json:"tax_percent"`
}

type CatalogItemParams struct {
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TaxPercent decimal.Decimal `json:"tax_percent"`
}

func (c *Client) ListCatalog(ctx context.Context) ([]CatalogItem, error) {
	var resp []CatalogItem
	if err := c.do(ctx, http.MethodGet, "/api/v1/catalog", nil, &resp); err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) ImportCatalog(ctx context.Context, items []CatalogItemParams) ([]CatalogItem, error) {
	var resp []CatalogItem
	if err := c.do(ctx, http.MethodPost, "/api/v1/catalog/import", items, &resp); err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) Summary(ctx context.Context) (*analytics.Summary, error) {
	var resp analytics.Summary
	if err := c.do(ctx, http.MethodGet, "/api/v1/analytics/summary", nil, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}
