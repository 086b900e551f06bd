package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	providerFlag       string
	modelFlag          string
	apiKey             string
	settingsPath       string
	generatePromptPath string
	serveMode          bool
	serveAddr          string
	overwriteMode      bool
	debugMode          bool
)

var rootCmd = &cobra.Command{
	Use:   "backlinker [request-file]",
	Short: "SEO article generation with backlink validation",
	Long: `Generates backlinked articles from a seed article and competitor pages
using an LLM provider, validating title keyword, backlink placement,
word count, readability and brand mentions.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// .env is optional; explicit flags and real env vars win
		_ = godotenv.Load()

		overrides := &ConfigOverrides{}
		if settingsPath != "" {
			overrides.SettingsPath = &settingsPath
		}
		if generatePromptPath != "" {
			overrides.GeneratePromptPath = &generatePromptPath
		}

		config, err := NewConfig(overrides)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		providerName := providerFlag
		if providerName == "" {
			providerName = config.Settings.Provider
		}
		provider, err := ParseProvider(providerName)
		if err != nil {
			log.Fatal(err)
		}

		model := modelFlag
		if model == "" {
			model = config.Settings.Model
		}

		if apiKey == "" {
			apiKey = os.Getenv(apiKeyEnvVar(provider))
		}
		if apiKey == "" {
			log.Fatalf("API key required: use --api-key flag or %s environment variable", apiKeyEnvVar(provider))
		}

		gateway, err := NewGateway(GatewayConfig{
			Provider: provider,
			APIKey:   apiKey,
			Model:    model,
		})
		if err != nil {
			log.Fatalf("Failed to create gateway: %v", err)
		}

		if debugMode {
			SetDebugMode(true)
		}

		scraper := NewScraper(time.Duration(config.Settings.ScrapeTimeoutSeconds) * time.Second)
		workflow := NewWorkflow(gateway, config)

		if serveMode {
			server, err := NewServer(workflow, scraper, config)
			if err != nil {
				log.Fatalf("Failed to create server: %v", err)
			}
			addr := serveAddr
			if addr == "" {
				addr = config.Settings.ServerAddr
			}
			log.Fatal(server.ListenAndServe(addr))
		}

		requestFile := "requests.yaml"
		if len(args) > 0 {
			requestFile = args[0]
		}

		processor := NewBatchProcessor(workflow, scraper, config)
		processor.SetOverwrite(overwriteMode)

		results, err := processor.ProcessFile(context.Background(), requestFile)
		if err != nil {
			log.Fatalf("Processing failed: %v", err)
		}

		failed := 0
		for _, r := range results {
			if r.Status == StatusError {
				failed++
			}
		}
		if failed > 0 {
			log.Printf("%d of %d articles failed", failed, len(results))
			os.Exit(1)
		}
	},
}

// apiKeyEnvVar names the environment variable holding the provider key.
func apiKeyEnvVar(p Provider) string {
	switch p {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderGroq:
		return "GROQ_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	}
	return "LLM_API_KEY"
}

func init() {
	rootCmd.Flags().StringVar(&providerFlag, "provider", "", "LLM provider: openai, groq, gemini or anthropic")
	rootCmd.Flags().StringVar(&modelFlag, "model", "", "Model name for the selected provider")
	rootCmd.Flags().StringVar(&apiKey, "api-key", "", "Provider API key")
	rootCmd.Flags().StringVar(&settingsPath, "settings", "", "Path to custom settings file")
	rootCmd.Flags().StringVar(&generatePromptPath, "generate-prompt", "", "Path to custom generation prompt file")
	rootCmd.Flags().BoolVar(&serveMode, "serve", false, "Run the web form server instead of batch mode")
	rootCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address for --serve")
	rootCmd.Flags().BoolVar(&overwriteMode, "overwrite", false, "Regenerate articles whose output file exists")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
