package erpnext

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/nuzum-sa/nuzum-backend-go/internal/config"
)

// Default remote identifiers used when the settings leave them unset.
const (
	defaultItemCode  = "NUZUM-LABOR"
	defaultItemGroup = "Services"
	defaultUOM       = "Nos"
)

// Client is the typed surface over the ERPNext REST API.
type Client struct {
	transport *Transport
	settings  config.BridgeSettings
}

func NewClient(settings config.BridgeSettings) (*Client, error) {
	t, err := NewTransport(settings)
	if err != nil {
		return nil, err
	}
	return &Client{transport: t, settings: settings}, nil
}

// TestConnection resolves the remote logged-in user for the credentials.
func (c *Client) TestConnection(ctx context.Context) (string, error) {
	data, err := c.transport.Get(ctx, "/api/method/frappe.auth.get_logged_user", nil)
	if err != nil {
		return "", err
	}
	var out struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &out); err != nil || out.Message == "" {
		return "", fmt.Errorf("%w: missing message field", ErrFormat)
	}
	return out.Message, nil
}

// getList queries /api/resource/<doctype> with field and filter
// projections. filters use the frappe triple form [field, op, value].
func (c *Client) getList(ctx context.Context, doctype string, fields []string, filters [][3]any, limit int) ([]map[string]any, error) {
	query := map[string]string{}
	if len(fields) > 0 {
		f, _ := json.Marshal(fields)
		query["fields"] = string(f)
	}
	if len(filters) > 0 {
		f, _ := json.Marshal(filters)
		query["filters"] = string(f)
	}
	if limit > 0 {
		query["limit_page_length"] = strconv.Itoa(limit)
	}

	data, err := c.transport.Get(ctx, "/api/resource/"+url.PathEscape(doctype), query)
	if err != nil {
		return nil, err
	}
	var out struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return out.Data, nil
}

func (c *Client) createDoc(ctx context.Context, doctype string, payload map[string]any) (map[string]any, error) {
	data, err := c.transport.Post(ctx, "/api/resource/"+url.PathEscape(doctype), payload)
	if err != nil {
		return nil, err
	}
	var out struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return out.Data, nil
}

func (c *Client) updateDoc(ctx context.Context, doctype, name string, payload map[string]any) (map[string]any, error) {
	data, err := c.transport.Put(ctx, "/api/resource/"+url.PathEscape(doctype)+"/"+url.PathEscape(name), payload)
	if err != nil {
		return nil, err
	}
	var out struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return out.Data, nil
}

// docExists checks a doctype for an exact name match.
func (c *Client) docExists(ctx context.Context, doctype, name string) (bool, error) {
	rows, err := c.getList(ctx, doctype, []string{"name"}, [][3]any{{"name", "=", name}}, 1)
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// EnsureCustomer finds a customer by exact name or creates it.
// Idempotent by name.
func (c *Client) EnsureCustomer(ctx context.Context, name string, attrs map[string]any) (string, error) {
	rows, err := c.getList(ctx, "Customer", []string{"name"}, [][3]any{{"customer_name", "=", name}}, 1)
	if err != nil {
		return "", err
	}
	if len(rows) > 0 {
		return stringField(rows[0], "name"), nil
	}

	payload := map[string]any{
		"customer_name":  name,
		"customer_type":  "Company",
		"customer_group": "Commercial",
		"territory":      "Saudi Arabia",
	}
	for k, v := range attrs {
		payload[k] = v
	}
	doc, err := c.createDoc(ctx, "Customer", payload)
	if err != nil {
		return "", err
	}
	return stringField(doc, "name"), nil
}

// EnsureServiceItem guarantees the labor service item exists remotely
// and returns its code. Idempotent by item code.
func (c *Client) EnsureServiceItem(ctx context.Context) (string, error) {
	code := c.settings.DefaultItemCode
	if code == "" {
		code = defaultItemCode
	}
	exists, err := c.docExists(ctx, "Item", code)
	if err != nil {
		return "", err
	}
	if exists {
		return code, nil
	}

	group := c.settings.DefaultItemGroup
	if group == "" {
		group = defaultItemGroup
	}
	uom := c.settings.DefaultUOM
	if uom == "" {
		uom = defaultUOM
	}
	_, err = c.createDoc(ctx, "Item", map[string]any{
		"item_code":       code,
		"item_name":       "خدمات توريد عمالة",
		"item_group":      group,
		"stock_uom":       uom,
		"is_stock_item":   0,
		"is_sales_item":   1,
		"include_item_in_manufacturing": 0,
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

func stringField(doc map[string]any, key string) string {
	s, _ := doc[key].(string)
	return s
}

func numberField(doc map[string]any, key string) float64 {
	switch v := doc[key].(type) {
	case float64:
		return v
	case json.Number:
		f, _ := v.Float64()
		return f
	}
	return 0
}
