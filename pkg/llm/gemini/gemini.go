// Package gemini provides a Google Gemini LLM provider implementation backed
// by the generateContent REST endpoint.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/entrhq/pyforge/pkg/llm"
	"github.com/entrhq/pyforge/pkg/types"
)

const (
	// DefaultBaseURL is the default Generative Language API base URL
	DefaultBaseURL = "https://generativelanguage.googleapis.com"

	// DefaultAPIVersion is the API version used in request paths
	DefaultAPIVersion = "v1beta"

	// DefaultModel is the model used for code generation
	DefaultModel = "gemini-1.5-pro"
)

// Provider implements llm.Provider for the Gemini API.
type Provider struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	apiVersion string
	model      string
	modelInfo  *types.ModelInfo
}

// ProviderOption is a function that configures a Provider.
type ProviderOption func(*Provider)

// WithModel sets the model to use for completions.
func WithModel(model string) ProviderOption {
	return func(p *Provider) {
		if model != "" {
			p.model = model
		}
	}
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) ProviderOption {
	return func(p *Provider) {
		if baseURL != "" {
			p.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithAPIVersion overrides the API version path segment.
func WithAPIVersion(version string) ProviderOption {
	return func(p *Provider) {
		if version != "" {
			p.apiVersion = version
		}
	}
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(client *http.Client) ProviderOption {
	return func(p *Provider) {
		if client != nil {
			p.httpClient = client
		}
	}
}

// NewProvider creates a Gemini provider. The API key is required.
func NewProvider(apiKey string, opts ...ProviderOption) (*Provider, error) {
	if apiKey == "" {
		return nil, errors.New("Gemini API key is required")
	}

	p := &Provider{
		httpClient: &http.Client{},
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		apiVersion: DefaultAPIVersion,
		model:      DefaultModel,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.modelInfo = &types.ModelInfo{
		Provider:  "gemini",
		Name:      p.model,
		MaxTokens: 8192,
		Metadata:  make(map[string]interface{}),
	}
	if p.baseURL != DefaultBaseURL {
		p.modelInfo.Metadata["base_url"] = p.baseURL
	}

	return p, nil
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text,omitempty"`
}

type generateRequest struct {
	Contents          []content `json:"contents"`
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason,omitempty"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason,omitempty"`
	} `json:"promptFeedback,omitempty"`
}

const finishMaxTokens = "MAX_TOKENS"

// Invalid keys are answered with 400 INVALID_ARGUMENT rather than 401.
const reasonKeyInvalid = "API_KEY_INVALID"

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Status  string `json:"status"`
		Details []struct {
			Reason string `json:"reason"`
		} `json:"details"`
	} `json:"error"`
}

// isKeyRejection reports whether an error body says the API key was rejected.
func isKeyRejection(body []byte) bool {
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return false
	}
	for _, d := range parsed.Error.Details {
		if d.Reason == reasonKeyInvalid {
			return true
		}
	}
	return false
}

// convertMessages maps chat messages onto Gemini contents. System messages
// become the system instruction and assistant turns use the "model" role.
func convertMessages(messages []*types.Message) (*content, []content) {
	var system *content
	contents := make([]content, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case types.RoleSystem:
			if system == nil {
				system = &content{}
			}
			system.Parts = append(system.Parts, part{Text: msg.Content})
		case types.RoleAssistant:
			contents = append(contents, content{Role: "model", Parts: []part{{Text: msg.Content}}})
		default:
			contents = append(contents, content{Role: "user", Parts: []part{{Text: msg.Content}}})
		}
	}

	return system, contents
}

// Complete calls generateContent and returns the text of the first candidate.
func (p *Provider) Complete(ctx context.Context, messages []*types.Message) (*types.Message, error) {
	system, contents := convertMessages(messages)
	body, err := json.Marshal(generateRequest{Contents: contents, SystemInstruction: system})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/models/%s:generateContent", p.baseURL, p.apiVersion, p.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &llm.APIError{
			Provider:   "gemini",
			StatusCode: resp.StatusCode,
			Body:       string(raw),
			Auth:       isKeyRejection(raw),
		}
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(parsed.Candidates) == 0 {
		if parsed.PromptFeedback != nil && parsed.PromptFeedback.BlockReason != "" {
			return nil, fmt.Errorf("prompt blocked: %s", parsed.PromptFeedback.BlockReason)
		}
		return nil, errors.New("response contained no candidates")
	}

	candidate := parsed.Candidates[0]
	if candidate.FinishReason == finishMaxTokens {
		return nil, fmt.Errorf("%w: output token limit reached", llm.ErrIncompleteResponse)
	}

	var text strings.Builder
	for _, pt := range candidate.Content.Parts {
		text.WriteString(pt.Text)
	}

	return types.NewAssistantMessage(text.String()), nil
}

// StreamCompletion performs a blocking Complete call and delivers the result
// as a single chunk followed by a finished marker.
func (p *Provider) StreamCompletion(ctx context.Context, messages []*types.Message) (<-chan *llm.StreamChunk, error) {
	msg, err := p.Complete(ctx, messages)
	if err != nil {
		return nil, err
	}

	chunks := make(chan *llm.StreamChunk, 2)
	chunks <- &llm.StreamChunk{Role: string(msg.Role), Content: msg.Content}
	chunks <- &llm.StreamChunk{Finished: true}
	close(chunks)
	return chunks, nil
}

// GetModelInfo returns information about the Gemini model being used.
func (p *Provider) GetModelInfo() *types.ModelInfo {
	return p.modelInfo
}

// GetModel returns the model name being used.
func (p *Provider) GetModel() string {
	return p.model
}
