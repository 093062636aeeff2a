package smartsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
	model      = "claude-3-haiku-20240307"
	maxTokens  = 512
)

// InventoryItem is the slice of the catalog the model sees: enough to match a
// natural-language query against, nothing more.
type InventoryItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Client resolves a natural-language product query against an inventory.
// Implementations must fail open: callers treat any error as "no AI filter",
// never as zero results.
type Client interface {
	// Enabled reports whether the AI lookup path is usable at all. When false
	// the caller must keep the smart-search surface fully inert.
	Enabled() bool
	Lookup(ctx context.Context, query string, inventory []InventoryItem) ([]string, error)
}

type restClient struct {
	httpClient *resty.Client
}

// NewClient creates a configured lookup client. An empty API key yields a
// disabled client whose Lookup always errors.
func NewClient(apiKey string) Client {
	if apiKey == "" {
		return disabledClient{}
	}
	client := resty.New().
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(15 * time.Second)

	return &restClient{httpClient: client}
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (c *restClient) Enabled() bool { return true }

func (c *restClient) Lookup(ctx context.Context, query string, inventory []InventoryItem) ([]string, error) {
	inventoryJSON, err := json.Marshal(inventory)
	if err != nil {
		return nil, fmt.Errorf("smartsearch: marshal inventory: %w", err)
	}

	systemPrompt := fmt.Sprintf(`You match point-of-sale search queries against an inventory.

Inventory (JSON):
%s

Given the user's search query, identify which products they are looking for.
Your output must be ONLY a JSON object of the form:
  {"suggested_ids": ["id", ...]}
Return an empty array when nothing matches.`, string(inventoryJSON))

	// Prefill the assistant response to force JSON output.
	reqBody := messageRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    systemPrompt,
		Messages: []message{
			{Role: "user", Content: query},
			{Role: "assistant", Content: "{"},
		},
	}

	var respBody messageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		Post(apiURL)

	if err != nil {
		return nil, fmt.Errorf("smartsearch: api call: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("smartsearch: api error: %s", resp.Status())
	}
	if len(respBody.Content) == 0 {
		return nil, fmt.Errorf("smartsearch: empty response")
	}

	responseText := "{" + respBody.Content[0].Text
	responseText = strings.TrimSpace(responseText)
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")
	responseText = strings.TrimSpace(responseText)

	var result struct {
		SuggestedIDs []string `json:"suggested_ids"`
	}
	if err := json.Unmarshal([]byte(responseText), &result); err != nil {
		return nil, fmt.Errorf("smartsearch: unmarshal response: %w", err)
	}
	return result.SuggestedIDs, nil
}

type disabledClient struct{}

func (disabledClient) Enabled() bool { return false }

func (disabledClient) Lookup(ctx context.Context, query string, inventory []InventoryItem) ([]string, error) {
	return nil, fmt.Errorf("smartsearch: no API key configured")
}
