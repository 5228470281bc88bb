package erpnext

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuzum-sa/nuzum-backend-go/internal/config"
	"github.com/nuzum-sa/nuzum-backend-go/internal/service/invoice"
)

func money(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testSettings(baseURL string) config.BridgeSettings {
	return config.BridgeSettings{
		BaseURL:        baseURL,
		APIKey:         "key",
		APISecret:      "secret",
		VATAccountHead: "VAT 15% - NZ",
	}
}

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(testSettings(srv.URL))
	require.NoError(t, err)
	return c, srv
}

func TestNewTransport_CredentialForms(t *testing.T) {
	t.Run("missing base url", func(t *testing.T) {
		_, err := NewTransport(config.BridgeSettings{APIKey: "k", APISecret: "s"})
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("missing credentials", func(t *testing.T) {
		_, err := NewTransport(config.BridgeSettings{BaseURL: "http://erp.local"})
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("key secret pair", func(t *testing.T) {
		tr, err := NewTransport(config.BridgeSettings{BaseURL: "http://erp.local/", APIKey: "k", APISecret: "s"})
		require.NoError(t, err)
		assert.Equal(t, "token k:s", tr.authHeader)
		assert.Equal(t, "http://erp.local", tr.baseURL)
	})

	t.Run("raw token gets token scheme", func(t *testing.T) {
		tr, err := NewTransport(config.BridgeSettings{BaseURL: "http://erp.local", APIToken: "k:s"})
		require.NoError(t, err)
		assert.Equal(t, "token k:s", tr.authHeader)
	})

	t.Run("token with scheme passed through", func(t *testing.T) {
		tr, err := NewTransport(config.BridgeSettings{BaseURL: "http://erp.local", APIToken: "Bearer abc"})
		require.NoError(t, err)
		assert.Equal(t, "Bearer abc", tr.authHeader)
	})
}

func TestTransport_ErrorTaxonomy(t *testing.T) {
	t.Run("auth", func(t *testing.T) {
		c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		_, err := c.TestConnection(context.Background())
		assert.ErrorIs(t, err, ErrAuth)
	})

	t.Run("api error carries body verbatim", func(t *testing.T) {
		c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"exc_type":"DuplicateEntryError"}`))
		}))
		_, err := c.TestConnection(context.Background())
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusConflict, apiErr.Status)
		assert.Contains(t, apiErr.Body, "DuplicateEntryError")
	})

	t.Run("non-json body", func(t *testing.T) {
		c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>proxy error</html>"))
		}))
		_, err := c.TestConnection(context.Background())
		assert.ErrorIs(t, err, ErrFormat)
	})

	t.Run("unreachable host", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close() // port is now dead
		c, err := NewClient(testSettings(srv.URL))
		require.NoError(t, err)
		_, err = c.TestConnection(context.Background())
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestTestConnection(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/method/frappe.auth.get_logged_user", r.URL.Path)
		assert.Equal(t, "token key:secret", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"message": "finance@nuzum.sa"})
	}))

	user, err := c.TestConnection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "finance@nuzum.sa", user)
}

func TestEnsureCustomer_IdempotentByName(t *testing.T) {
	var creates int
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]any{{"name": "CUST-0001"}},
			})
		case r.Method == http.MethodPost:
			creates++
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"name": "CUST-0002"}})
		}
	}))

	for i := 0; i < 2; i++ {
		id, err := c.EnsureCustomer(context.Background(), "شركة البناء المتقدم", nil)
		require.NoError(t, err)
		assert.Equal(t, "CUST-0001", id)
	}
	assert.Zero(t, creates, "existing customer must not be recreated")
}

func TestEnsureCustomer_CreatesWhenAbsent(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{}})
		case http.MethodPost:
			var payload map[string]any
			json.NewDecoder(r.Body).Decode(&payload)
			assert.Equal(t, "شركة جديدة", payload["customer_name"])
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"name": "شركة جديدة"}})
		}
	}))

	id, err := c.EnsureCustomer(context.Background(), "شركة جديدة", nil)
	require.NoError(t, err)
	assert.Equal(t, "شركة جديدة", id)
}

func TestCreateSalesInvoice_PayloadAndPDFURL(t *testing.T) {
	var invoicePayload map[string]any
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			// customer and item lookups both find a match
			json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]any{{"name": "CUST-0001"}},
			})
		case r.Method == http.MethodPost && r.URL.Path == "/api/resource/Sales Invoice":
			json.NewDecoder(r.Body).Decode(&invoicePayload)
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"name": "ACC-SINV-2025-00042"}})
		default:
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{}})
		}
	})
	c, srv := testClient(t, handler)

	draft := invoice.Draft{
		ContractID: 1, Year: 2025, Month: 4,
		Lines: []invoice.Line{
			{ServiceName: invoice.ServiceLabor, Description: "سالم — 18 يوم × 500.00", Qty: money("18"), Rate: money("500"), Amount: money("9000")},
			{ServiceName: invoice.ServiceLaborOT, Description: "عمل إضافي يدوي — 4 ساعة", Qty: money("4"), Rate: money("500"), Amount: money("2000")},
		},
		TotalAmount: money("11000"),
	}

	result, err := c.CreateSalesInvoice(context.Background(), InvoiceInput{CustomerName: "شركة البناء المتقدم", Draft: draft})
	require.NoError(t, err)

	assert.Equal(t, "ACC-SINV-2025-00042", result.InvoiceName)
	assert.True(t, result.TotalAmount.Equal(money("11000")))

	items, ok := invoicePayload["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 2, "Labor and Labor-OT stay separate groups")

	taxes, ok := invoicePayload["taxes"].([]any)
	require.True(t, ok)
	require.Len(t, taxes, 1)
	tax := taxes[0].(map[string]any)
	assert.Equal(t, "On Net Total", tax["charge_type"])
	assert.Equal(t, float64(15), tax["rate"])
	assert.Equal(t, "VAT 15% - NZ", tax["account_head"])

	u, err := url.Parse(result.PDFURL)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/printview", u.Scheme+"://"+u.Host+u.Path)
	q := u.Query()
	assert.Equal(t, "Sales Invoice", q.Get("doctype"))
	assert.Equal(t, "ACC-SINV-2025-00042", q.Get("name"))
	assert.Equal(t, "Standard", q.Get("format"))
	assert.Equal(t, "1", q.Get("no_letterhead"))
	assert.Equal(t, "ar", q.Get("_lang"))
}

func TestCreateSalesInvoice_GroupsLinesBySameRate(t *testing.T) {
	items := groupLines([]invoice.Line{
		{ServiceName: invoice.ServiceLabor, Description: "a", Qty: money("18"), Rate: money("500"), Amount: money("9000")},
		{ServiceName: invoice.ServiceLabor, Description: "b", Qty: money("20"), Rate: money("500"), Amount: money("10000")},
		{ServiceName: invoice.ServiceLabor, Description: "c", Qty: money("1"), Rate: money("7000"), Amount: money("7000")},
		{ServiceName: invoice.ServiceLaborOT, Description: "d", Qty: money("4"), Rate: money("500"), Amount: money("2000")},
	}, "NUZUM-LABOR")

	require.Len(t, items, 3)
	assert.Equal(t, float64(38), items[0]["qty"])
	assert.Equal(t, "a\nb", items[0]["description"])
	assert.Equal(t, "Labor", items[0]["item_name"])
	assert.Equal(t, "Labor-OT", items[2]["item_name"])
}

func TestListSalesInvoices_AddsFormattedTotal(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"name": "SINV-1", "customer": "C", "grand_total": 1234567.5, "status": "Paid"},
			},
		})
	}))

	rows, err := c.ListSalesInvoices(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1,234,567.50", rows[0].GrandTotalFormatted)
	assert.Contains(t, rows[0].PDFURL, "printview")
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0.00", formatAmount(0))
	assert.Equal(t, "999.90", formatAmount(999.9))
	assert.Equal(t, "11,000.00", formatAmount(11000))
	assert.Equal(t, "-1,234.50", formatAmount(-1234.5))
}

func TestDisableAccountByCodeOrName(t *testing.T) {
	var updated []string
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			// both the code and the name lookup hit the same account
			json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{{"name": "1101 - النقدية - NZ"}}})
		case http.MethodPut:
			updated = append(updated, r.URL.Path)
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{}})
		}
	}))

	disabled, err := c.DisableAccountByCodeOrName(context.Background(), "1101", "النقدية")
	require.NoError(t, err)
	assert.Equal(t, []string{"1101 - النقدية - NZ"}, disabled)
	assert.Len(t, updated, 1, "same account matched twice is disabled once")
}

func TestUpsertPrintFormat_Idempotent(t *testing.T) {
	exists := false
	var posts, puts int
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			data := []map[string]any{}
			if exists {
				data = append(data, map[string]any{"name": "Nuzum Invoice"})
			}
			json.NewEncoder(w).Encode(map[string]any{"data": data})
		case http.MethodPost:
			posts++
			exists = true
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"name": "Nuzum Invoice"}})
		case http.MethodPut:
			puts++
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"name": "Nuzum Invoice"}})
		}
	}))

	created, err := c.UpsertPrintFormat(context.Background(), "Nuzum Invoice", "<h1>فاتورة</h1>")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = c.UpsertPrintFormat(context.Background(), "Nuzum Invoice", "<h1>فاتورة v2</h1>")
	require.NoError(t, err)
	assert.False(t, created)

	assert.Equal(t, 1, posts)
	assert.Equal(t, 1, puts)
}

func TestGetAccountingHealthReport_Scoring(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		doctype := r.URL.Path[len("/api/resource/"):]
		switch doctype {
		case "Journal Entry":
			json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{
				{"name": "JV-1", "total_debit": 100.0, "total_credit": 100.0, "cheque_no": "REF-1"},
				{"name": "JV-2", "total_debit": 300.0, "total_credit": 250.0, "cheque_no": "REF-2"},
				{"name": "JV-3", "total_debit": 50.0, "total_credit": 50.0, "cheque_no": "REF-2"},
			}})
		case "Account":
			json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{}})
		default:
			json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{}})
		}
	}))

	report, err := c.GetAccountingHealthReport(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 3, report.EntriesChecked)
	assert.Equal(t, []string{"JV-2"}, report.UnbalancedEntries)
	assert.Equal(t, []string{"REF-2"}, report.DuplicateReferences)
	assert.Empty(t, report.GroupAccountsWithTransactions)
	assert.Equal(t, 85, report.CleanlinessScore)
}
