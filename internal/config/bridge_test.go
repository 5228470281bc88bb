package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, dir string, s BridgeSettings) {
	t.Helper()
	data, err := json.Marshal(s)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, bridgeSettingsFile), data, 0o600))
}

func TestLoadBridgeSettings_DiscardsMaskedSecrets(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, BridgeSettings{
		BaseURL:   "https://erp.example.com",
		APIKey:    "key",
		APISecret: MaskedSecret,
		APIToken:  MaskedSecret,
	})

	s, err := LoadBridgeSettings(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://erp.example.com", s.BaseURL)
	assert.Empty(t, s.APISecret)
	assert.Empty(t, s.APIToken)
}

func TestLoadBridgeSettings_EnvOverlayFillsGaps(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, BridgeSettings{BaseURL: "https://file.example.com"})

	t.Setenv("ERPNEXT_BASE_URL", "https://env.example.com")
	t.Setenv("ERPNEXT_API_KEY", "env-key")
	t.Setenv("ERPNEXT_API_SECRET", "env-secret")
	t.Setenv("ERPNEXT_TIMEOUT", "45")

	s, err := LoadBridgeSettings(dir)
	require.NoError(t, err)
	// File wins where it has a value; env fills the rest.
	assert.Equal(t, "https://file.example.com", s.BaseURL)
	assert.Equal(t, "env-key", s.APIKey)
	assert.Equal(t, "env-secret", s.APISecret)
	assert.Equal(t, 45, s.Timeout())
}

func TestLoadBridgeSettings_MissingFileIsNotAnError(t *testing.T) {
	s, err := LoadBridgeSettings(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 20, s.Timeout())
	assert.InDelta(t, 15.0, s.VATRate(), 0.0001)
}

func TestSaveBridgeSettings_MaskKeepsStoredSecret(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, BridgeSettings{
		BaseURL:   "https://erp.example.com",
		APIKey:    "key",
		APISecret: "real-secret",
	})

	saved, err := SaveBridgeSettings(dir, BridgeSettings{
		BaseURL:   "https://erp.example.com",
		APIKey:    "key",
		APISecret: MaskedSecret,
	})
	require.NoError(t, err)
	assert.Equal(t, "real-secret", saved.APISecret)

	reloaded, err := LoadBridgeSettings(dir)
	require.NoError(t, err)
	assert.Equal(t, "real-secret", reloaded.APISecret)
}

func TestMasked(t *testing.T) {
	s := BridgeSettings{APISecret: "x", APIToken: "y"}
	m := s.Masked()
	assert.Equal(t, MaskedSecret, m.APISecret)
	assert.Equal(t, MaskedSecret, m.APIToken)
	assert.Equal(t, "x", s.APISecret)
}
