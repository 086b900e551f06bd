package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseProvider(t *testing.T) {
	tests := []struct {
		input   string
		want    Provider
		wantErr bool
	}{
		{"openai", ProviderOpenAI, false},
		{"groq", ProviderGroq, false},
		{"gemini", ProviderGemini, false},
		{"anthropic", ProviderAnthropic, false},
		{"OpenAI", ProviderOpenAI, false},
		{"  groq  ", ProviderGroq, false},
		{"", "", true},
		{"mistral", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseProvider(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseProvider(%q) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseProvider(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseProvider(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewGatewayValidation(t *testing.T) {
	var invalid *InvalidInputError

	_, err := NewGateway(GatewayConfig{Provider: ProviderOpenAI, Model: "gpt-4o-mini"})
	if !errors.As(err, &invalid) {
		t.Errorf("missing API key: got %v, want InvalidInputError", err)
	}

	_, err = NewGateway(GatewayConfig{Provider: ProviderOpenAI, APIKey: "sk-test"})
	if !errors.As(err, &invalid) {
		t.Errorf("missing model: got %v, want InvalidInputError", err)
	}

	_, err = NewGateway(GatewayConfig{Provider: Provider("mistral"), APIKey: "k", Model: "m"})
	if err == nil {
		t.Error("unknown provider should be rejected")
	}
}

func TestChatCompletionsGateway(t *testing.T) {
	var gotAuth string
	var gotBody chatCompletionsRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "generated article"}},
			},
		})
	}))
	defer server.Close()

	gateway, err := NewGateway(GatewayConfig{
		Provider: ProviderOpenAI,
		APIKey:   "sk-test",
		Model:    "gpt-4o-mini",
		Endpoint: server.URL,
	})
	if err != nil {
		t.Fatal(err)
	}

	out, err := gateway.Generate(context.Background(), "write something", 0.7)
	if err != nil {
		t.Fatal(err)
	}
	if out != "generated article" {
		t.Errorf("Generate = %q, want %q", out, "generated article")
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q, want Bearer token", gotAuth)
	}
	if gotBody.Model != "gpt-4o-mini" {
		t.Errorf("request model = %q", gotBody.Model)
	}
	if gotBody.Temperature != 0.7 {
		t.Errorf("request temperature = %v, want 0.7", gotBody.Temperature)
	}
	if len(gotBody.Messages) != 1 || gotBody.Messages[0].Role != "user" || gotBody.Messages[0].Content != "write something" {
		t.Errorf("request messages = %+v", gotBody.Messages)
	}
}

func TestChatCompletionsGatewayHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	gateway, err := NewGateway(GatewayConfig{
		Provider: ProviderGroq,
		APIKey:   "gsk-test",
		Model:    "llama-3.3-70b",
		Endpoint: server.URL,
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = gateway.Generate(context.Background(), "prompt", 0.5)

	var pErr *ProviderError
	if !errors.As(err, &pErr) {
		t.Fatalf("got %v, want ProviderError", err)
	}
	if pErr.Provider != ProviderGroq {
		t.Errorf("provider = %q, want groq", pErr.Provider)
	}
}

func TestChatCompletionsGatewayEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer server.Close()

	gateway, err := NewGateway(GatewayConfig{
		Provider: ProviderOpenAI,
		APIKey:   "sk-test",
		Model:    "gpt-4o-mini",
		Endpoint: server.URL,
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = gateway.Generate(context.Background(), "prompt", 0.5)

	var pErr *ProviderError
	if !errors.As(err, &pErr) {
		t.Fatalf("got %v, want ProviderError", err)
	}
}

func TestAnthropicGatewayCancelledContext(t *testing.T) {
	gateway, err := NewGateway(GatewayConfig{
		Provider: ProviderAnthropic,
		APIKey:   "sk-ant-test",
		Model:    "claude-sonnet-4-5",
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = gateway.Generate(ctx, "prompt", 0.5)

	var pErr *ProviderError
	if !errors.As(err, &pErr) {
		t.Fatalf("got %v, want ProviderError", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Error("cancellation should surface through the error chain")
	}
}
