package erpnext

import "context"

// UpsertPrintFormat creates or updates a remote Print Format by name.
// Idempotent; repeated calls converge on the given HTML.
func (c *Client) UpsertPrintFormat(ctx context.Context, name, html string) (created bool, err error) {
	payload := map[string]any{
		"doc_type":            "Sales Invoice",
		"print_format_type":   "Jinja",
		"standard":            "No",
		"custom_format":       1,
		"html":                html,
	}

	exists, err := c.docExists(ctx, "Print Format", name)
	if err != nil {
		return false, err
	}
	if exists {
		_, err = c.updateDoc(ctx, "Print Format", name, payload)
		return false, err
	}

	payload["name"] = name
	_, err = c.createDoc(ctx, "Print Format", payload)
	return err == nil, err
}
