package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Provider selects one of the supported LLM backends. The set is closed;
// anything else is rejected at construction time.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderGroq      Provider = "groq"
	ProviderGemini    Provider = "gemini"
	ProviderAnthropic Provider = "anthropic"
)

const (
	openAIEndpoint = "https://api.openai.com/v1/chat/completions"
	groqEndpoint   = "https://api.groq.com/openai/v1/chat/completions"

	defaultMaxTokens = 8000
)

// ParseProvider maps a tag string to a Provider.
func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	case ProviderGroq:
		return ProviderGroq, nil
	case ProviderGemini:
		return ProviderGemini, nil
	case ProviderAnthropic:
		return ProviderAnthropic, nil
	}
	return "", fmt.Errorf("unknown provider %q (want openai, groq, gemini or anthropic)", s)
}

// LLMGateway is the single capability the workflow needs from a provider.
type LLMGateway interface {
	Generate(ctx context.Context, prompt string, temperature float64) (string, error)
}

// GatewayConfig carries everything a gateway constructor needs. Credentials
// are passed in explicitly; gateways never read or mutate the process
// environment.
type GatewayConfig struct {
	Provider Provider
	APIKey   string
	Model    string
	// Endpoint overrides the provider default; used by tests.
	Endpoint string
	Timeout  time.Duration
}

// NewGateway builds the gateway for the configured provider.
func NewGateway(cfg GatewayConfig) (LLMGateway, error) {
	if cfg.APIKey == "" {
		return nil, &InvalidInputError{Field: "api_key", Reason: "must not be empty"}
	}
	if cfg.Model == "" {
		return nil, &InvalidInputError{Field: "model", Reason: "must not be empty"}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = openAIEndpoint
		}
		return newChatCompletionsGateway(ProviderOpenAI, endpoint, cfg), nil
	case ProviderGroq:
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = groqEndpoint
		}
		return newChatCompletionsGateway(ProviderGroq, endpoint, cfg), nil
	case ProviderGemini:
		return newGeminiGateway(cfg)
	case ProviderAnthropic:
		return newAnthropicGateway(cfg)
	}
	return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
}

// chatCompletionsGateway talks to OpenAI-compatible chat-completions APIs.
// OpenAI and Groq share this implementation with different endpoints.
type chatCompletionsGateway struct {
	provider   Provider
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

func newChatCompletionsGateway(provider Provider, endpoint string, cfg GatewayConfig) *chatCompletionsGateway {
	return &chatCompletionsGateway{
		provider: provider,
		endpoint: endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type chatCompletionsRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (g *chatCompletionsGateway) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	body, err := json.Marshal(chatCompletionsRequest{
		Model:       g.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
	})
	if err != nil {
		return "", &ProviderError{Provider: g.provider, Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &ProviderError{Provider: g.provider, Err: fmt.Errorf("new request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", &ProviderError{Provider: g.provider, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &ProviderError{
			Provider: g.provider,
			Err:      fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(payload))),
		}
	}

	var parsed chatCompletionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &ProviderError{Provider: g.provider, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", &ProviderError{Provider: g.provider, Err: fmt.Errorf("empty completion")}
	}

	return parsed.Choices[0].Message.Content, nil
}

// geminiGateway wraps the Google generative AI SDK.
type geminiGateway struct {
	client *genai.Client
	model  string
}

func newGeminiGateway(cfg GatewayConfig) (*geminiGateway, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &geminiGateway{client: client, model: cfg.Model}, nil
}

func (g *geminiGateway) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(float32(temperature))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &ProviderError{Provider: ProviderGemini, Err: err}
	}

	var out strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if text, ok := part.(genai.Text); ok {
				out.WriteString(string(text))
			}
		}
	}
	if out.Len() == 0 {
		return "", &ProviderError{Provider: ProviderGemini, Err: fmt.Errorf("empty completion")}
	}

	return out.String(), nil
}

// anthropicGateway wraps llmkit's Anthropic client.
type anthropicGateway struct {
	apiKey string
	model  string
}

func newAnthropicGateway(cfg GatewayConfig) (*anthropicGateway, error) {
	return &anthropicGateway{apiKey: cfg.APIKey, model: cfg.Model}, nil
}

func (g *anthropicGateway) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	// llmkit carries no context; honor cancellation before the call.
	if err := ctx.Err(); err != nil {
		return "", &ProviderError{Provider: ProviderAnthropic, Err: err}
	}

	settings := types.RequestSettings{
		Model:       g.model,
		MaxTokens:   defaultMaxTokens,
		Temperature: temperature,
	}
	response, err := anthropic.PromptWithSettings("", prompt, "", g.apiKey, settings)
	if err != nil {
		return "", &ProviderError{Provider: ProviderAnthropic, Err: err}
	}
	if len(response.Content) == 0 || response.Content[0].Text == "" {
		return "", &ProviderError{Provider: ProviderAnthropic, Err: fmt.Errorf("empty completion")}
	}

	return response.Content[0].Text, nil
}
