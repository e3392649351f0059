// Package config provides configuration loading and validation for the CLI.
//
// Settings come from three layers, lowest priority first: built-in defaults,
// the YAML config file, and environment variables (secrets only). Command-line
// flag overrides are applied by the CLI layer on top of the loaded Config.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file name looked up in the working
// directory when no --config flag is given.
const DefaultConfigFile = ".linktolead.yaml"

// DefaultStateFile is the default location of the browser session state blob.
const DefaultStateFile = "linktolead_state.json"

// MethodGemini is the only implemented llm_method. An unknown method
// degrades to LLM-off with a warning rather than failing the run.
const MethodGemini = "gemini"

// Defaults holds the destination property defaults merged into the payload
// when the scraped record leaves a field empty.
type Defaults struct {
	DealOwnerID    string
	DealStageID    string
	DealPipelineID string

	// Extra carries any additional default_<property> keys from the config
	// file. Keys keep their company_/deal_ prefix and are routed by the
	// formatter.
	Extra map[string]string
}

// SourceConfig selects the page source implementation.
type SourceConfig struct {
	Type string `validate:"required,alphanum"`
}

// DestinationConfig selects the CRM destination implementation.
type DestinationConfig struct {
	Type       string `validate:"required,alphanum"`
	APIVersion string `validate:"required,startswith=v"`
}

// PlatformConfig is the source/destination seam reserved for future
// multi-platform support.
type PlatformConfig struct {
	Source      SourceConfig
	Destination DestinationConfig
}

// Config is the process-wide configuration, loaded once at startup and
// read-only afterwards.
type Config struct {
	Headless   bool
	LLMEnabled bool
	LLMMethod  string
	LLMModelID string

	Defaults Defaults
	Platform PlatformConfig

	// Secrets, populated from the environment only. Never read from the
	// config file or command line.
	HubSpotAPIKey    string
	LinkedInEmail    string
	LinkedInPassword string
	GeminiAPIKey     string

	// StatePath is where the opaque browser session blob lives.
	StatePath string
}

// fileConfig mirrors the YAML document. Pointer booleans distinguish "unset"
// from "explicitly false" so file values only override defaults when
// actually present.
type fileConfig struct {
	Headless   *bool  `yaml:"headless"`
	LLMEnabled *bool  `yaml:"llm_enabled"`
	LLMMethod  string `yaml:"llm_method"`
	LLMModelID string `yaml:"llm_model_id"`

	DealOwnerID    string `yaml:"default_deal_owner_id"`
	DealStageID    string `yaml:"default_deal_stage_id"`
	DealPipelineID string `yaml:"default_deal_pipeline_id"`

	Platform struct {
		Source struct {
			Type string `yaml:"type"`
		} `yaml:"source"`
		Destination struct {
			Type       string `yaml:"type"`
			APIVersion string `yaml:"api_version"`
		} `yaml:"destination"`
	} `yaml:"platform"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{
		Headless:   true,
		LLMEnabled: false,
		LLMMethod:  MethodGemini,
		LLMModelID: "gemini-2.5-flash",
		Defaults: Defaults{
			DealStageID:    "appointmentscheduled",
			DealPipelineID: "default",
			Extra:          map[string]string{},
		},
		StatePath: DefaultStateFile,
	}
	cfg.Platform.Source.Type = "linkedin"
	cfg.Platform.Destination.Type = "hubspot"
	cfg.Platform.Destination.APIVersion = "v3"
	return cfg
}

// Load reads the YAML config at path and overlays it on the defaults.
// A missing file is not an error; the defaults apply unchanged. A file that
// exists but does not parse is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultConfigFile
	}
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML %s: %w", path, err)
	}

	if fc.Headless != nil {
		cfg.Headless = *fc.Headless
	}
	if fc.LLMEnabled != nil {
		cfg.LLMEnabled = *fc.LLMEnabled
	}
	if fc.LLMMethod != "" {
		cfg.LLMMethod = fc.LLMMethod
	}
	if fc.LLMModelID != "" {
		cfg.LLMModelID = fc.LLMModelID
	}
	if fc.DealOwnerID != "" {
		cfg.Defaults.DealOwnerID = fc.DealOwnerID
	}
	if fc.DealStageID != "" {
		cfg.Defaults.DealStageID = fc.DealStageID
	}
	if fc.DealPipelineID != "" {
		cfg.Defaults.DealPipelineID = fc.DealPipelineID
	}
	if fc.Platform.Source.Type != "" {
		cfg.Platform.Source.Type = fc.Platform.Source.Type
	}
	if fc.Platform.Destination.Type != "" {
		cfg.Platform.Destination.Type = fc.Platform.Destination.Type
	}
	if fc.Platform.Destination.APIVersion != "" {
		cfg.Platform.Destination.APIVersion = fc.Platform.Destination.APIVersion
	}

	if extra, err := extraDefaults(data); err == nil {
		for k, v := range extra {
			cfg.Defaults.Extra[k] = v
		}
	}

	// Enhancement is a quality improvement, not a correctness requirement,
	// so an unsupported method fails soft.
	if cfg.LLMEnabled && cfg.LLMMethod != MethodGemini {
		log.Printf("unsupported llm_method %q, disabling LLM processing", cfg.LLMMethod)
		cfg.LLMEnabled = false
	}

	return cfg, nil
}

// extraDefaults collects custom default_<property> keys beyond the three
// well-known deal identifiers.
func extraDefaults(data []byte) (map[string]string, error) {
	known := map[string]bool{
		"default_deal_owner_id":    true,
		"default_deal_stage_id":    true,
		"default_deal_pipeline_id": true,
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	extra := map[string]string{}
	for key, value := range raw {
		if !strings.HasPrefix(key, "default_") || known[key] {
			continue
		}
		str, ok := value.(string)
		if !ok || str == "" {
			continue
		}
		extra[strings.TrimPrefix(key, "default_")] = str
	}
	return extra, nil
}

// ApplyEnv populates secrets and the state path override from the
// environment. Secrets are never accepted via file or flags.
func (c *Config) ApplyEnv() {
	c.HubSpotAPIKey = os.Getenv("HUBSPOT_API_KEY")
	c.LinkedInEmail = os.Getenv("LINKEDIN_EMAIL")
	c.LinkedInPassword = os.Getenv("LINKEDIN_PASSWORD")
	c.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	if p := os.Getenv("LINKTOLEAD_STATE_PATH"); p != "" {
		c.StatePath = p
	}
}

// Validate checks the value shape of the configuration. Missing deal
// defaults are deliberately not checked here; they surface as a formatter
// ValidationError so that scraped values get a chance to fill them first.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c.Platform); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}
