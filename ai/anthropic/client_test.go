package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/drivernote/drivernote/ai"
	"github.com/drivernote/drivernote/internal/httpclient"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(Config{APIKey: "test-key"})
	client.SetBaseURL(server.URL)
	client.SetHTTPClient(httpclient.WrapClient(server.Client()))

	return server, client
}

func TestChat(t *testing.T) {
	var gotReq MessagesRequest
	var gotAPIKey, gotVersion string

	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		json.NewDecoder(r.Body).Decode(&gotReq)

		json.NewEncoder(w).Encode(MessagesResponse{
			ID:   "msg_123",
			Type: "message",
			Role: "assistant",
			Content: []ContentBlock{
				{Type: "text", Text: "Nice stats! "},
				{Type: "text", Text: "Keep driving."},
			},
			Model:      DefaultModel,
			StopReason: "end_turn",
			Usage:      Usage{InputTokens: 120, OutputTokens: 40},
		})
	})

	resp, err := client.Chat(context.Background(), ai.ChatRequest{
		UserPrompt: "write the driver a note",
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if resp.Content != "Nice stats! Keep driving." {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.Usage.TotalTokens != 160 {
		t.Errorf("TotalTokens = %d, want 160", resp.Usage.TotalTokens)
	}

	if gotAPIKey != "test-key" {
		t.Errorf("x-api-key = %q", gotAPIKey)
	}
	if gotVersion != APIVersion {
		t.Errorf("anthropic-version = %q", gotVersion)
	}
	if gotReq.Model != DefaultModel {
		t.Errorf("request model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Content != "write the driver a note" {
		t.Errorf("request messages = %+v", gotReq.Messages)
	}
}

func TestChatOverrides(t *testing.T) {
	var gotReq MessagesRequest
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(MessagesResponse{
			Content: []ContentBlock{{Type: "text", Text: "ok"}},
		})
	})

	temp := 0.9
	maxTokens := 64
	model := "claude-3-5-sonnet-latest"

	_, err := client.Chat(context.Background(), ai.ChatRequest{
		SystemPrompt: "be brief",
		UserPrompt:   "hello",
		Temperature:  &temp,
		MaxTokens:    &maxTokens,
		Model:        &model,
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if gotReq.System != "be brief" {
		t.Errorf("System = %q", gotReq.System)
	}
	if gotReq.Temperature != 0.9 {
		t.Errorf("Temperature = %v", gotReq.Temperature)
	}
	if gotReq.MaxTokens != 64 {
		t.Errorf("MaxTokens = %d", gotReq.MaxTokens)
	}
	if gotReq.Model != model {
		t.Errorf("Model = %q", gotReq.Model)
	}
}

func TestChatWithoutAPIKey(t *testing.T) {
	client := NewClient(Config{})
	if _, err := client.Chat(context.Background(), ai.ChatRequest{UserPrompt: "hi"}); err == nil {
		t.Error("Chat() without API key should return error")
	}
}

func TestChatAPIError(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"type":"invalid_request_error"}}`))
	})

	if _, err := client.Chat(context.Background(), ai.ChatRequest{UserPrompt: "hi"}); err == nil {
		t.Error("Chat() should surface API errors")
	}
}

func TestIsConfigured(t *testing.T) {
	if NewClient(Config{}).IsConfigured() {
		t.Error("IsConfigured() = true without API key")
	}
	if !NewClient(Config{APIKey: "k"}).IsConfigured() {
		t.Error("IsConfigured() = false with API key")
	}
}

func TestCalculateCost(t *testing.T) {
	tests := []struct {
		name         string
		model        string
		inputTokens  int
		outputTokens int
		want         float64
	}{
		{
			name:         "haiku pricing",
			model:        "claude-3-5-haiku-latest",
			inputTokens:  1_000_000,
			outputTokens: 1_000_000,
			want:         4.80,
		},
		{
			name:         "sonnet pricing",
			model:        "claude-3-5-sonnet-latest",
			inputTokens:  1_000_000,
			outputTokens: 0,
			want:         3.00,
		},
		{
			name:         "unknown model falls back",
			model:        "claude-imaginary",
			inputTokens:  1_000_000,
			outputTokens: 1_000_000,
			want:         DefaultPricingFallback,
		},
		{
			name:  "zero tokens",
			model: "claude-3-5-haiku-latest",
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateCost(tt.model, tt.inputTokens, tt.outputTokens)
			if got != tt.want {
				t.Errorf("CalculateCost() = %v, want %v", got, tt.want)
			}
		})
	}
}
