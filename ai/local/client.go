// Package local implements the ai.Client interface against a local
// inference server. Supports Ollama, LocalAI, or any OpenAI-compatible
// endpoint.
package local

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/drivernote/drivernote/ai"
	"github.com/drivernote/drivernote/errors"
)

// Client represents a local inference client
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	config     Config
	logger     *zap.SugaredLogger
}

// Config holds local inference client configuration
type Config struct {
	BaseURL        string
	Model          string
	ContextSize    int // Context window size (0 = model default)
	TimeoutSeconds int
	Logger         *zap.SugaredLogger
}

// NewClient creates a client for a local inference server
func NewClient(config Config) *Client {
	timeout := time.Duration(config.TimeoutSeconds) * time.Second
	if config.TimeoutSeconds == 0 {
		timeout = time.Hour // Local models can be slow on first load
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Client{
		baseURL: config.BaseURL,
		model:   config.Model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		config: config,
		logger: logger,
	}
}

// ChatCompletionRequest matches OpenAI API format (Ollama is compatible)
type ChatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []ChatMessage   `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  *CompletionOpts `json:"options,omitempty"` // Ollama-specific options
}

// ChatMessage is one turn in the conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionOpts carries Ollama-specific generation options
type CompletionOpts struct {
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"num_predict,omitempty"` // Ollama uses num_predict
	NumCtx      int     `json:"num_ctx,omitempty"`     // Context window size
}

// ChatCompletionResponse matches OpenAI API format
type ChatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int         `json:"index"`
		Message      ChatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
}

// Chat implements the ai.Client interface for local inference
func (c *Client) Chat(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
	var messages []ChatMessage
	if req.SystemPrompt != "" {
		messages = append(messages, ChatMessage{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, ChatMessage{Role: "user", Content: req.UserPrompt})

	temperature := 0.2
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	maxTokens := 1000
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}

	model := c.model
	if req.Model != nil {
		model = *req.Model
	}

	reqBody := ChatCompletionRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
		Options: &CompletionOpts{
			Temperature: temperature,
			MaxTokens:   maxTokens,
			NumCtx:      c.config.ContextSize,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}

	// OpenAI-compatible endpoint (works for Ollama, LocalAI, etc.)
	endpoint := c.baseURL + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrServiceUnavailable, "local inference at %s: %v", c.baseURL, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("local inference request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var completion ChatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal response")
	}

	if len(completion.Choices) == 0 {
		return nil, errors.New("local inference returned no choices")
	}

	out := &ai.ChatResponse{
		Content: completion.Choices[0].Message.Content,
	}
	if completion.Usage != nil {
		out.Usage = ai.Usage{
			PromptTokens:     completion.Usage.PromptTokens,
			CompletionTokens: completion.Usage.CompletionTokens,
			TotalTokens:      completion.Usage.TotalTokens,
		}
	}

	return out, nil
}

// SetHTTPClient allows overriding the HTTP client for testing
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
