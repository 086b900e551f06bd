package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const defaultConfigDir = ".backlinker"

// ConfigOverrides allows overriding embedded defaults with file paths
type ConfigOverrides struct {
	GeneratePromptPath    *string
	TitlePromptPath       *string
	BacklinkPromptPath    *string
	WordCountPromptPath   *string
	ReadabilityPromptPath *string
	BrandPromptPath       *string
	SettingsPath          *string
}

// Embedded configuration files
//
//go:embed config/generate-prompt.md
var defaultGeneratePrompt string

//go:embed config/title-prompt.md
var defaultTitlePrompt string

//go:embed config/backlink-prompt.md
var defaultBacklinkPrompt string

//go:embed config/wordcount-prompt.md
var defaultWordCountPrompt string

//go:embed config/readability-prompt.md
var defaultReadabilityPrompt string

//go:embed config/brand-prompt.md
var defaultBrandPrompt string

//go:embed config/settings.yaml
var defaultSettings string

// BrandDefaults is applied to batch items that carry no brand fields.
type BrandDefaults struct {
	Name     string `yaml:"name"`
	Link     string `yaml:"link"`
	Mentions int    `yaml:"mentions"`
}

// Settings represents the YAML configuration structure
type Settings struct {
	Provider             string        `yaml:"provider"`
	Model                string        `yaml:"model"`
	OutputDirectory      string        `yaml:"output_directory"`
	ServerAddr           string        `yaml:"server_addr"`
	ScrapeTimeoutSeconds int           `yaml:"scrape_timeout_seconds"`
	SentenceBand         SentenceBand  `yaml:"sentence_band"`
	Brand                BrandDefaults `yaml:"brand"`
}

// Config holds settings and overrides
type Config struct {
	Settings  *Settings
	Overrides *ConfigOverrides
}

// NewConfig creates a new Config with settings and overrides
func NewConfig(overrides *ConfigOverrides) (*Config, error) {
	var settings *Settings
	var err error

	if overrides != nil && overrides.SettingsPath != nil {
		// Explicit settings file must exist
		settings, err = loadSettingsFile(*overrides.SettingsPath)
		if err != nil {
			return nil, fmt.Errorf("loading settings file: %w", err)
		}
	} else {
		settings, err = loadSettings()
		if err != nil {
			return nil, fmt.Errorf("loading settings: %w", err)
		}
	}

	return &Config{
		Settings:  settings,
		Overrides: overrides,
	}, nil
}

func (c *Config) promptFromOverride(path *string, embedded string) string {
	if path != nil {
		if content, err := os.ReadFile(*path); err == nil {
			return string(content)
		}
	}
	return embedded
}

// GetGeneratePrompt returns the generation prompt (from override file or embedded)
func (c *Config) GetGeneratePrompt() string {
	var p *string
	if c.Overrides != nil {
		p = c.Overrides.GeneratePromptPath
	}
	return c.promptFromOverride(p, defaultGeneratePrompt)
}

// GetTitlePrompt returns the title-repair prompt (from override file or embedded)
func (c *Config) GetTitlePrompt() string {
	var p *string
	if c.Overrides != nil {
		p = c.Overrides.TitlePromptPath
	}
	return c.promptFromOverride(p, defaultTitlePrompt)
}

// GetBacklinkPrompt returns the backlink-repair prompt (from override file or embedded)
func (c *Config) GetBacklinkPrompt() string {
	var p *string
	if c.Overrides != nil {
		p = c.Overrides.BacklinkPromptPath
	}
	return c.promptFromOverride(p, defaultBacklinkPrompt)
}

// GetWordCountPrompt returns the expansion prompt (from override file or embedded)
func (c *Config) GetWordCountPrompt() string {
	var p *string
	if c.Overrides != nil {
		p = c.Overrides.WordCountPromptPath
	}
	return c.promptFromOverride(p, defaultWordCountPrompt)
}

// GetReadabilityPrompt returns the readability prompt (from override file or embedded)
func (c *Config) GetReadabilityPrompt() string {
	var p *string
	if c.Overrides != nil {
		p = c.Overrides.ReadabilityPromptPath
	}
	return c.promptFromOverride(p, defaultReadabilityPrompt)
}

// GetBrandPrompt returns the brand-mention prompt (from override file or embedded)
func (c *Config) GetBrandPrompt() string {
	var p *string
	if c.Overrides != nil {
		p = c.Overrides.BrandPromptPath
	}
	return c.promptFromOverride(p, defaultBrandPrompt)
}

// loadSettings loads settings from the default location, writing the
// embedded defaults first if no config directory exists yet.
func loadSettings() (*Settings, error) {
	if err := ensureConfigExists(); err != nil {
		return nil, err
	}
	return loadSettingsFile(getConfigPath("settings.yaml"))
}

func loadSettingsFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings YAML: %w", err)
	}

	if settings.SentenceBand.Min <= 0 || settings.SentenceBand.Max <= 0 {
		settings.SentenceBand = SentenceBand{Min: defaultBandMin, Max: defaultBandMax}
	}
	if settings.ScrapeTimeoutSeconds <= 0 {
		settings.ScrapeTimeoutSeconds = 30
	}

	return &settings, nil
}

// getConfigPath returns the path to a config file in the .backlinker directory
func getConfigPath(filename string) string {
	return filepath.Join(defaultConfigDir, filename)
}

// ensureConfigExists creates the config directory and default settings file
func ensureConfigExists() error {
	if _, err := os.Stat(defaultConfigDir); os.IsNotExist(err) {
		if err := os.MkdirAll(defaultConfigDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	settingsPath := getConfigPath("settings.yaml")
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		if err := os.WriteFile(settingsPath, []byte(defaultSettings), 0644); err != nil {
			return fmt.Errorf("failed to write default settings: %w", err)
		}
	}

	return nil
}
