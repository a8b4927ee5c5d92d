package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

// ParsedTransaction holds the structured fields extracted from a natural
// language transaction description. Store is empty when the text did not
// mention a merchant.
type ParsedTransaction struct {
	Amount   float64
	Item     string
	Category string
	Store    string
}

// Matches the first single-level brace-delimited object in the model output.
// Nested objects or stray braces in free text will not extract; the parse
// then fails and the user is asked to retry.
var jsonObjectPattern = regexp.MustCompile(`\{[^}]+\}`)

// Client calls the Replicate predictions API to parse transaction text.
type Client struct {
	httpClient *http.Client
	url        string
	token      string
	maxTokens  int
}

func NewClient(url, token string, maxTokens int) *Client {
	return &Client{
		httpClient: &http.Client{},
		url:        url,
		token:      token,
		maxTokens:  maxTokens,
	}
}

type predictionInput struct {
	Prompt              string `json:"prompt"`
	MaxCompletionTokens int    `json:"max_completion_tokens"`
}

type predictionRequest struct {
	Input predictionInput `json:"input"`
}

// ParseTransaction sends the raw message text to the inference endpoint and
// extracts a transaction from the reply. It returns nil on any failure:
// callers cannot tell a transport fault from a model reply with no usable
// JSON. Failures are logged, never raised.
func (c *Client) ParseTransaction(ctx context.Context, text string) *ParsedTransaction {
	output, err := c.predict(ctx, text)
	if err != nil {
		slog.Error("Error parsing transaction", "error", err)
		return nil
	}

	match := jsonObjectPattern.FindString(output)
	if match == "" {
		slog.Error("No JSON found in response", "output", output)
		return nil
	}

	var raw struct {
		Amount   json.RawMessage `json:"amount"`
		Item     string          `json:"item"`
		Category string          `json:"category"`
		Store    string          `json:"store"`
	}
	if err := json.Unmarshal([]byte(match), &raw); err != nil {
		slog.Error("Error parsing transaction", "error", err, "json", match)
		return nil
	}

	amount, ok := parseAmount(raw.Amount)
	if !ok || amount == 0 || strings.TrimSpace(raw.Item) == "" || strings.TrimSpace(raw.Category) == "" {
		slog.Error("Missing required fields in parsed transaction", "json", match)
		return nil
	}

	return &ParsedTransaction{
		Amount:   amount,
		Item:     strings.TrimSpace(raw.Item),
		Category: strings.ToLower(strings.TrimSpace(raw.Category)),
		Store:    strings.TrimSpace(raw.Store),
	}
}

// parseAmount accepts the amount either as a JSON number or as a numeric
// string, since models emit both.
func parseAmount(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return n, true
		}
	}

	return 0, false
}

func (c *Client) predict(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(predictionRequest{
		Input: predictionInput{
			Prompt:              ParserPrompt + "\n\n" + text,
			MaxCompletionTokens: c.maxTokens,
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "wait")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("replicate API error: %d %s", resp.StatusCode, string(detail))
	}

	var prediction struct {
		Output json.RawMessage `json:"output"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return "", fmt.Errorf("failed to decode prediction response: %w", err)
	}

	// The output field arrives as a plain string or as an array of chunks.
	var s string
	if err := json.Unmarshal(prediction.Output, &s); err == nil {
		return s, nil
	}
	var chunks []string
	if err := json.Unmarshal(prediction.Output, &chunks); err == nil {
		return strings.Join(chunks, ""), nil
	}

	// Missing or unrecognized output is treated as an empty reply; the JSON
	// extraction step reports it.
	return "", nil
}
