package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".linktolead.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_ValidYAML(t *testing.T) {
	path := writeConfig(t, `
default_deal_owner_id: "12345"
default_deal_stage_id: "qualifiedtobuy"
default_deal_pipeline_id: "sales"
headless: false
llm_enabled: true
llm_method: "gemini"
llm_model_id: "gemini-2.5-pro"
platform:
  source:
    type: linkedin
  destination:
    type: hubspot
    api_version: v3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "12345", cfg.Defaults.DealOwnerID)
	assert.Equal(t, "qualifiedtobuy", cfg.Defaults.DealStageID)
	assert.Equal(t, "sales", cfg.Defaults.DealPipelineID)
	assert.False(t, cfg.Headless)
	assert.True(t, cfg.LLMEnabled)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLMModelID)
	assert.Equal(t, "linkedin", cfg.Platform.Source.Type)
	assert.Equal(t, "hubspot", cfg.Platform.Destination.Type)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)

	assert.True(t, cfg.Headless)
	assert.False(t, cfg.LLMEnabled)
	assert.Equal(t, "appointmentscheduled", cfg.Defaults.DealStageID)
	assert.Equal(t, "default", cfg.Defaults.DealPipelineID)
	assert.Equal(t, "", cfg.Defaults.DealOwnerID)
	assert.Equal(t, "linkedin", cfg.Platform.Source.Type)
	assert.Equal(t, "v3", cfg.Platform.Destination.APIVersion)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "headless: [unclosed")

	cfg, err := Load(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoad_ExplicitFalseOverridesDefault(t *testing.T) {
	path := writeConfig(t, "headless: false\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Headless)
}

func TestLoad_ExtraDefaultsPassthrough(t *testing.T) {
	path := writeConfig(t, `
default_deal_owner_id: "12345"
default_company_lifecyclestage: "lead"
default_deal_dealtype: "newbusiness"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "lead", cfg.Defaults.Extra["company_lifecyclestage"])
	assert.Equal(t, "newbusiness", cfg.Defaults.Extra["deal_dealtype"])
	assert.NotContains(t, cfg.Defaults.Extra, "deal_owner_id")
}

func TestLoad_UnknownLLMMethodDisablesLLM(t *testing.T) {
	path := writeConfig(t, `
llm_enabled: true
llm_method: "llm-library"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.LLMEnabled)
}

func TestApplyEnv_SecretsAndStatePath(t *testing.T) {
	t.Setenv("HUBSPOT_API_KEY", "pat-na1-secret")
	t.Setenv("LINKEDIN_EMAIL", "ops@example.com")
	t.Setenv("LINKEDIN_PASSWORD", "hunter2")
	t.Setenv("GEMINI_API_KEY", "gm-key")
	t.Setenv("LINKTOLEAD_STATE_PATH", "/tmp/custom_state.json")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, "pat-na1-secret", cfg.HubSpotAPIKey)
	assert.Equal(t, "ops@example.com", cfg.LinkedInEmail)
	assert.Equal(t, "hunter2", cfg.LinkedInPassword)
	assert.Equal(t, "gm-key", cfg.GeminiAPIKey)
	assert.Equal(t, "/tmp/custom_state.json", cfg.StatePath)
}

func TestApplyEnv_StatePathDefaultPreserved(t *testing.T) {
	t.Setenv("LINKTOLEAD_STATE_PATH", "")

	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, DefaultStateFile, cfg.StatePath)
}

func TestValidate_PlatformTypes(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Platform.Destination.APIVersion = "3"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Platform.Source.Type = ""
	assert.Error(t, cfg.Validate())
}
