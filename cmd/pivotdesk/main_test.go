package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PivotDesk/internal/model"
	"PivotDesk/internal/strategy"
)

func mockConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "provider:\n  source: mock\n  requests_per_minute: 6000\ncache:\n  driver: none\nlog:\n  format: json\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestAnalyzeCommandText(t *testing.T) {
	out, err := runCLI(t, "--config", mockConfig(t), "--log-level", "error",
		"analyze", "TEST", "--horizon", "short", "--diag", "--json=false", "--template", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "TEST")
	assert.Contains(t, out, "Base plan")
	assert.Contains(t, out, "🔍 Diagnostics TEST")
	assert.Contains(t, out, "horizon: short")
}

func TestAnalyzeCommandJSON(t *testing.T) {
	out, err := runCLI(t, "--config", mockConfig(t), "--log-level", "error",
		"analyze", "test", "--horizon", "invest", "--diag=false", "--json")
	require.NoError(t, err)

	var rep struct {
		Symbol   string         `json:"symbol"`
		Decision model.Decision `json:"decision"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "TEST", rep.Symbol)
	assert.Equal(t, model.HorizonLong, rep.Decision.Diagnostics.Horizon)
	assert.Contains(t, []model.Stance{model.StanceBuy, model.StanceShort, model.StanceWait}, rep.Decision.Stance)
}

func TestAnalyzeCommandBadHorizon(t *testing.T) {
	_, err := runCLI(t, "--config", mockConfig(t), "--log-level", "error",
		"analyze", "TEST", "--horizon", "decade", "--json=false", "--diag=false")
	assert.ErrorContains(t, err, "bad horizon")
}

func TestMaxLookback(t *testing.T) {
	assert.Equal(t, 900, maxLookback(strategy.DefaultParams()))
}
