package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/crosscheck/internal/review"
)

func writeConfig(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, review.DefaultProjectContext(), cfg.Context)
	assert.Empty(t, cfg.Roles)
	assert.Empty(t, cfg.FeedbackDB)
}

func TestLoadReadsYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "crosscheck.yml", `
context:
  priority: security
  securitySensitive: true
roles:
  - security
  - efficiency
endpoints:
  security: http://10.0.0.5:9000
basePort: 9100
roleTimeout: 90s
feedbackDB: .crosscheck/feedback.db
model: gemini-2.0-flash
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, review.PrioritySecurity, cfg.Context.Priority)
	assert.True(t, cfg.Context.SecuritySensitive)
	assert.Equal(t, []string{"security", "efficiency"}, cfg.Roles)
	assert.Equal(t, "http://10.0.0.5:9000", cfg.Endpoints["security"])
	assert.Equal(t, 9100, cfg.BasePort)
	assert.Equal(t, 90*time.Second, cfg.RoleTimeout)
	assert.Equal(t, ".crosscheck/feedback.db", cfg.FeedbackDB)
	assert.Equal(t, "gemini-2.0-flash", cfg.Model)
}

func TestLoadNormalizesContext(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "crosscheck.yaml", `
context:
  priority: nonsense
  testCoverage: 7
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	// Unknown priority snaps back to balanced, coverage clamps into [0,1].
	assert.Equal(t, review.PriorityBalanced, cfg.Context.Priority)
	assert.InDelta(t, 1.0, cfg.Context.TestCoverage, 1e-9)
	assert.Equal(t, review.DebtMedium, cfg.Context.TechnicalDebtLevel)
}

func TestLoadIgnoresUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "crosscheck.yml", `
model: gemini-2.0-flash
futureKnob: true
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", cfg.Model)
}

func TestLoadPrefersYmlOverYaml(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "crosscheck.yml", "model: first\n")
	writeConfig(t, dir, "crosscheck.yaml", "model: second\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "first", cfg.Model)
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "crosscheck.yml", "model: [unclosed\n")

	_, err := Load(dir)
	assert.Error(t, err)
}
