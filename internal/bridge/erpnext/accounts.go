package erpnext

import (
	"context"
	"fmt"
)

// DisableAccountByCodeOrName disables every remote Account matching the
// account number or the account name and returns the disabled names.
func (c *Client) DisableAccountByCodeOrName(ctx context.Context, code, name string) ([]string, error) {
	seen := map[string]bool{}
	var matches []string

	if code != "" {
		rows, err := c.getList(ctx, "Account", []string{"name"}, [][3]any{{"account_number", "=", code}}, 0)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			if n := stringField(row, "name"); n != "" && !seen[n] {
				seen[n] = true
				matches = append(matches, n)
			}
		}
	}
	if name != "" {
		rows, err := c.getList(ctx, "Account", []string{"name"}, [][3]any{{"account_name", "=", name}}, 0)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			if n := stringField(row, "name"); n != "" && !seen[n] {
				seen[n] = true
				matches = append(matches, n)
			}
		}
	}

	var disabled []string
	for _, n := range matches {
		if _, err := c.updateDoc(ctx, "Account", n, map[string]any{"disabled": 1}); err != nil {
			return disabled, fmt.Errorf("disable account %s: %w", n, err)
		}
		disabled = append(disabled, n)
	}
	return disabled, nil
}

// HealthReport summarizes remote bookkeeping cleanliness.
type HealthReport struct {
	EntriesChecked               int      `json:"entries_checked"`
	UnbalancedEntries            []string `json:"unbalanced_entries"`
	DuplicateReferences          []string `json:"duplicate_references"`
	GroupAccountsWithTransactions []string `json:"group_accounts_with_transactions"`
	CleanlinessScore             int      `json:"cleanliness_score"`
}

// GetAccountingHealthReport inspects the latest remote journal entries
// and group accounts, scoring cleanliness on a 0..100 scale.
func (c *Client) GetAccountingHealthReport(ctx context.Context, limit int) (HealthReport, error) {
	if limit <= 0 {
		limit = 50
	}

	report := HealthReport{
		UnbalancedEntries:             []string{},
		DuplicateReferences:           []string{},
		GroupAccountsWithTransactions: []string{},
	}

	entries, err := c.getList(ctx, "Journal Entry",
		[]string{"name", "total_debit", "total_credit", "cheque_no"}, nil, limit)
	if err != nil {
		return HealthReport{}, err
	}
	report.EntriesChecked = len(entries)

	refs := map[string][]string{}
	for _, e := range entries {
		name := stringField(e, "name")
		if numberField(e, "total_debit") != numberField(e, "total_credit") {
			report.UnbalancedEntries = append(report.UnbalancedEntries, name)
		}
		if ref := stringField(e, "cheque_no"); ref != "" {
			refs[ref] = append(refs[ref], name)
		}
	}
	for ref, names := range refs {
		if len(names) > 1 {
			report.DuplicateReferences = append(report.DuplicateReferences, ref)
		}
	}

	groups, err := c.getList(ctx, "Account", []string{"name"}, [][3]any{{"is_group", "=", 1}}, 0)
	if err != nil {
		return HealthReport{}, err
	}
	for _, g := range groups {
		name := stringField(g, "name")
		gl, err := c.getList(ctx, "GL Entry", []string{"name"}, [][3]any{{"account", "=", name}}, 1)
		if err != nil {
			return HealthReport{}, err
		}
		if len(gl) > 0 {
			report.GroupAccountsWithTransactions = append(report.GroupAccountsWithTransactions, name)
		}
	}

	score := 100
	score -= 10 * len(report.UnbalancedEntries)
	score -= 5 * len(report.DuplicateReferences)
	score -= 15 * len(report.GroupAccountsWithTransactions)
	if score < 0 {
		score = 0
	}
	report.CleanlinessScore = score
	return report, nil
}
