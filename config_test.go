package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadSettingsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	content := `provider: groq
model: llama-3.3-70b
output_directory: out
server_addr: ":9090"
scrape_timeout_seconds: 10
sentence_band:
  min: 6
  max: 12
brand:
  name: Labellerr
  link: https://labellerr.example
  mentions: 4
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	settings, err := loadSettingsFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if settings.Provider != "groq" || settings.Model != "llama-3.3-70b" {
		t.Errorf("provider/model = %q/%q", settings.Provider, settings.Model)
	}
	if settings.OutputDirectory != "out" || settings.ServerAddr != ":9090" {
		t.Errorf("output/addr = %q/%q", settings.OutputDirectory, settings.ServerAddr)
	}
	if settings.ScrapeTimeoutSeconds != 10 {
		t.Errorf("scrape timeout = %d", settings.ScrapeTimeoutSeconds)
	}
	if settings.SentenceBand.Min != 6 || settings.SentenceBand.Max != 12 {
		t.Errorf("band = %+v", settings.SentenceBand)
	}
	if settings.Brand.Name != "Labellerr" || settings.Brand.Mentions != 4 {
		t.Errorf("brand = %+v", settings.Brand)
	}
}

func TestLoadSettingsFileDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	if err := os.WriteFile(path, []byte("provider: openai\nmodel: gpt-4o-mini\n"), 0644); err != nil {
		t.Fatal(err)
	}

	settings, err := loadSettingsFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if settings.SentenceBand.Min != defaultBandMin || settings.SentenceBand.Max != defaultBandMax {
		t.Errorf("band = %+v, want %v-%v defaults", settings.SentenceBand, defaultBandMin, defaultBandMax)
	}
	if settings.ScrapeTimeoutSeconds != 30 {
		t.Errorf("scrape timeout = %d, want 30 default", settings.ScrapeTimeoutSeconds)
	}
}

func TestLoadSettingsFileErrors(t *testing.T) {
	if _, err := loadSettingsFile("does-not-exist.yaml"); err == nil {
		t.Error("missing settings file should fail")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("provider: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadSettingsFile(path); err == nil {
		t.Error("malformed YAML should fail")
	}
}

func TestNewConfigExplicitSettingsPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	if err := os.WriteFile(path, []byte("provider: gemini\nmodel: gemini-2.0-flash\n"), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := NewConfig(&ConfigOverrides{SettingsPath: &path})
	if err != nil {
		t.Fatal(err)
	}
	if config.Settings.Provider != "gemini" {
		t.Errorf("provider = %q", config.Settings.Provider)
	}

	missing := filepath.Join(dir, "nope.yaml")
	if _, err := NewConfig(&ConfigOverrides{SettingsPath: &missing}); err == nil {
		t.Error("explicit settings path that does not exist should fail")
	}
}

func TestEmbeddedPromptsHaveMarkers(t *testing.T) {
	config := testConfig()

	tests := []struct {
		name    string
		prompt  string
		markers []string
	}{
		{"generate", config.GetGeneratePrompt(), []string{"{{.SourceContent}}", "{{.CompetitorContent}}", "{{.Keyword}}", "{{.TargetWords}}", "{{.SourceURL}}", "{{.BrandRequirement}}"}},
		{"title", config.GetTitlePrompt(), []string{"{{.Keyword}}", "{{.ArticleHead}}"}},
		{"backlink", config.GetBacklinkPrompt(), []string{"{{.SourceURL}}", "{{.Keyword}}", "{{.Article}}"}},
		{"wordcount", config.GetWordCountPrompt(), []string{"{{.CurrentWords}}", "{{.TargetWords}}", "{{.Article}}"}},
		{"readability", config.GetReadabilityPrompt(), []string{"{{.Article}}", "{{.BandMin}}", "{{.BandMax}}"}},
		{"brand", config.GetBrandPrompt(), []string{"{{.Missing}}", "{{.LinkedMentions}}", "{{.BrandName}}", "{{.BrandLink}}", "{{.Article}}"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, marker := range tt.markers {
				if !strings.Contains(tt.prompt, marker) {
					t.Errorf("embedded %s prompt missing %s", tt.name, marker)
				}
			}
		})
	}
}

func TestPromptOverrideFallsBackWhenUnreadable(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.md")
	config := testConfig()
	config.Overrides.GeneratePromptPath = &missing

	if got := config.GetGeneratePrompt(); got != defaultGeneratePrompt {
		t.Error("unreadable override should fall back to the embedded prompt")
	}
}
