package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// MaskedSecret is what secret fields look like when settings are read
// back by a client. The loader and saver both discard it.
const MaskedSecret = "********"

const bridgeSettingsFile = "finance_bridge_settings.json"

// InvoiceProfile carries the company identity printed on remote invoices.
type InvoiceProfile struct {
	CompanyName     string `json:"company_name,omitempty"`
	CompanyNameEn   string `json:"company_name_en,omitempty"`
	VATNumber       string `json:"vat_number,omitempty"`
	CRNumber        string `json:"cr_number,omitempty"`
	Address         string `json:"address,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Email           string `json:"email,omitempty"`
	DefaultCustomer string `json:"default_customer,omitempty"`
}

// BridgeSettings is the single JSON document holding the ERPNext bridge
// configuration. The file is the source of truth; environment variables
// are a read-only overlay applied at load time for fields the file does
// not set.
type BridgeSettings struct {
	BaseURL        string `json:"erpnext_base_url"`
	APIKey         string `json:"erpnext_api_key,omitempty"`
	APISecret      string `json:"erpnext_api_secret,omitempty"`
	APIToken       string `json:"erpnext_api_token,omitempty"`
	TimeoutSeconds int    `json:"erpnext_timeout,omitempty"`

	DefaultCompany   string `json:"erpnext_default_company,omitempty"`
	DefaultItemCode  string `json:"erpnext_default_item_code,omitempty"`
	DefaultItemGroup string `json:"erpnext_default_item_group,omitempty"`
	DefaultUOM       string `json:"erpnext_default_uom,omitempty"`
	VATAccountHead   string `json:"erpnext_vat_account_head,omitempty"`
	VATRatePct       float64 `json:"vat_rate_pct,omitempty"`

	PrintFormat    string `json:"erpnext_print_format,omitempty"`
	PrintLang      string `json:"erpnext_print_lang,omitempty"`
	LetterHead     string `json:"erpnext_letter_head,omitempty"`
	ApplyNuzumLogo bool   `json:"erpnext_apply_nuzum_logo,omitempty"`

	InvoiceProfile    InvoiceProfile    `json:"invoice_profile,omitempty"`
	CostCenterMapping map[string]string `json:"cost_center_mapping,omitempty"`
}

// Timeout in seconds, defaulted.
func (s BridgeSettings) Timeout() int {
	if s.TimeoutSeconds <= 0 {
		return 20
	}
	return s.TimeoutSeconds
}

// VATRate is the configured rate, defaulted to the Saudi standard rate.
func (s BridgeSettings) VATRate() float64 {
	if s.VATRatePct <= 0 {
		return 15
	}
	return s.VATRatePct
}

// Masked returns a copy safe to hand to clients: secrets replaced with
// the mask.
func (s BridgeSettings) Masked() BridgeSettings {
	if s.APISecret != "" {
		s.APISecret = MaskedSecret
	}
	if s.APIToken != "" {
		s.APIToken = MaskedSecret
	}
	return s
}

// LoadBridgeSettings reads the settings document, discards masked
// secrets that may have been written back, and overlays ERPNEXT_* env
// vars for fields the file leaves empty.
func LoadBridgeSettings(instanceDir string) (BridgeSettings, error) {
	var s BridgeSettings

	path := filepath.Join(instanceDir, bridgeSettingsFile)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &s); err != nil {
			return BridgeSettings{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// First run; env overlay alone may configure the bridge.
	default:
		return BridgeSettings{}, fmt.Errorf("read %s: %w", path, err)
	}

	// A masked value must never be adopted as a credential.
	if s.APISecret == MaskedSecret {
		s.APISecret = ""
	}
	if s.APIToken == MaskedSecret {
		s.APIToken = ""
	}

	overlay(&s.BaseURL, "ERPNEXT_BASE_URL")
	overlay(&s.APIKey, "ERPNEXT_API_KEY")
	overlay(&s.APISecret, "ERPNEXT_API_SECRET")
	overlay(&s.APIToken, "ERPNEXT_API_TOKEN")
	overlay(&s.DefaultCompany, "ERPNEXT_DEFAULT_COMPANY")
	overlay(&s.DefaultItemCode, "ERPNEXT_DEFAULT_ITEM_CODE")
	overlay(&s.DefaultItemGroup, "ERPNEXT_DEFAULT_ITEM_GROUP")
	overlay(&s.DefaultUOM, "ERPNEXT_DEFAULT_UOM")
	overlay(&s.VATAccountHead, "ERPNEXT_VAT_ACCOUNT_HEAD")
	overlay(&s.PrintFormat, "ERPNEXT_PRINT_FORMAT")
	overlay(&s.PrintLang, "ERPNEXT_PRINT_LANG")
	overlay(&s.LetterHead, "ERPNEXT_LETTER_HEAD")

	if s.TimeoutSeconds == 0 {
		if v := os.Getenv("ERPNEXT_TIMEOUT"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				s.TimeoutSeconds = n
			}
		}
	}
	if v := os.Getenv("ERPNEXT_APPLY_NUZUM_LOGO"); v != "" {
		s.ApplyNuzumLogo = v == "1" || v == "true"
	}

	return s, nil
}

// SaveBridgeSettings persists the document. Incoming fields equal to the
// mask keep their previously stored values.
func SaveBridgeSettings(instanceDir string, incoming BridgeSettings) (BridgeSettings, error) {
	current, err := LoadBridgeSettings(instanceDir)
	if err != nil {
		return BridgeSettings{}, err
	}

	if incoming.APISecret == MaskedSecret {
		incoming.APISecret = current.APISecret
	}
	if incoming.APIToken == MaskedSecret {
		incoming.APIToken = current.APIToken
	}

	if err := os.MkdirAll(instanceDir, 0o755); err != nil {
		return BridgeSettings{}, fmt.Errorf("create instance dir: %w", err)
	}

	data, err := json.MarshalIndent(incoming, "", "  ")
	if err != nil {
		return BridgeSettings{}, fmt.Errorf("marshal bridge settings: %w", err)
	}

	path := filepath.Join(instanceDir, bridgeSettingsFile)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return BridgeSettings{}, fmt.Errorf("write %s: %w", path, err)
	}

	return incoming, nil
}

func overlay(field *string, key string) {
	if *field == "" {
		*field = os.Getenv(key)
	}
}
