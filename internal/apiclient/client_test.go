package apiclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oscarfh/bizdesk/internal/apiclient"
	"github.com/oscarfh/bizdesk/internal/document"
	"github.com/oscarfh/bizdesk/internal/draft"
	"github.com/oscarfh/bizdesk/internal/pricing"
)

func TestClient_CreateDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/documents", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"6ba7b810-9dad-11d1-80b4-00c04fd430c8","kind":"invoice","number":"INV-001","status":"issued"}`))
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL, "secret-token")

	resp, err := client.CreateDocument(context.Background(), document.CreateRequest{
		Kind:   document.KindInvoice,
		Number: "INV-001",
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-001", resp.Number)
	assert.Equal(t, document.StatusIssued, resp.Status)
}

func TestClient_ErrorMessagePassedThroughVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"Duplicate invoice number"}`))
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL, "secret-token")

	_, err := client.CreateDocument(context.Background(), document.CreateRequest{})
	require.Error(t, err)

	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "Duplicate invoice number", apiErr.Error())
}

func TestClient_ErrorWithoutMessageGetsFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream sad</html>"))
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL, "secret-token")

	_, err := client.CreateDocument(context.Background(), document.CreateRequest{})
	require.Error(t, err)

	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "request failed with status 502", apiErr.Error())
}

// The client is what the editor hands its drafts to, so the rejection
// message a user sees after a failed submit must be exactly what the
// server sent.
func TestClient_AsDraftSubmitter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"invoice INV-001 already exists"}`))
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL, "secret-token")

	d := draft.New(document.KindInvoice)
	require.NoError(t, d.AddItem(pricing.LineItem{Name: "Widget", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100)}))
	d.SetNumber("INV-001")
	d.SetParty(document.Party{Name: "Acme", Address: document.NewFreeformAddress("1 Main St")})

	err := d.Submit(context.Background(), client)
	require.Error(t, err)
	assert.Equal(t, draft.StateFailed, d.State())
	assert.Equal(t, "invoice INV-001 already exists", d.FailReason())
}

func TestClient_ListDocumentsFilterQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "invoice", r.URL.Query().Get("kind"))
		assert.Equal(t, "paid", r.URL.Query().Get("status"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"number":"INV-001"},{"number":"INV-002"}]`))
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL, "secret-token")

	docs, err := client.ListDocuments(context.Background(), apiclient.DocumentFilter{
		Kind:   document.KindInvoice,
		Status: document.StatusPaid,
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "INV-002", docs[1].Number)
}

func TestClient_Summary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/analytics/summary", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"document_count":3,"total_amount":"450.00","total_tax":"86.50"}`))
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL, "secret-token")

	summary, err := client.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.DocumentCount)
	assert.Equal(t, "450", summary.TotalAmount.String())
}

func TestClient_ImportCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/catalog/import", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[{"name":"Widget","unit_price":"9.99","tax_percent":"23"}]`))
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL, "secret-token")

	items, err := client.ImportCatalog(context.Background(), []apiclient.CatalogItemParams{
		{Name: "Widget", UnitPrice: decimal.RequireFromString("9.99"), TaxPercent: decimal.NewFromInt(23)},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Widget", items[0].Name)
}
