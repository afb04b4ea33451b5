package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/audiodrama/internal/script"
)

const systemPrompt = "You are a dramaturg. You convert prose into a radio-drama script."

const userPromptFormat = `Split the following story into a dramatized script.

Return ONLY a JSON object with this exact shape, no prose around it:
{
  "characters": ["<speaking character name>", ...],
  "scenes": [
    {
      "setting": "<short scene description>",
      "elements": [
        {"kind": "narration", "text": "..."},
        {"kind": "dialogue", "character": "<name from characters>", "text": "..."},
        {"kind": "sound", "description": "<sound effect description>"}
      ]
    }
  ]
}

Rules: every dialogue character must appear in "characters"; do not list a
narrator; keep the elements in reading order.

Story:
%s`

// OpenAI calls an OpenAI-compatible chat-completions endpoint.
type OpenAI struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	log     *slog.Logger
}

// OpenAIOptions configures the analyzer client. BaseURL and Model are
// required; Timeout defaults to two minutes.
type OpenAIOptions struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
	Logger  *slog.Logger
}

func NewOpenAI(opts OpenAIOptions) (*OpenAI, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("analyzer base URL is required")
	}
	if strings.TrimSpace(opts.Model) == "" {
		return nil, fmt.Errorf("analyzer model is required")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &OpenAI{
		baseURL: base,
		apiKey:  opts.APIKey,
		model:   opts.Model,
		client:  &http.Client{Timeout: timeout},
		log:     logger,
	}, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (o *OpenAI) Analyze(ctx context.Context, text string) (*script.Script, error) {
	body, err := json.Marshal(chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(userPromptFormat, text)},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrAnalysis, err)
	}

	url := o.baseURL + "/v1/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysis, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	start := time.Now()
	resp, err := o.client.Do(req)
	if err != nil {
		o.log.ErrorContext(ctx, "analysis request failed",
			slog.String("url", url),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %v", ErrAnalysis, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		o.log.ErrorContext(ctx, "analysis service error",
			slog.Int("status", resp.StatusCode),
			slog.String("body", strings.TrimSpace(string(msg))),
		)
		return nil, fmt.Errorf("%w: service returned %s", ErrAnalysis, resp.Status)
	}

	var completion chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrAnalysis, err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%w: service returned no choices", ErrAnalysis)
	}

	scr, err := decodeScript(completion.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	o.log.InfoContext(ctx, "analysis complete",
		slog.Int("text_len", len(text)),
		slog.Int("characters", len(scr.Characters)),
		slog.Int("scenes", len(scr.Scenes)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return scr, nil
}

// decodeScript parses the model's reply into a validated script. Models
// often wrap JSON in Markdown fences despite instructions; strip them.
func decodeScript(content string) (*script.Script, error) {
	content = stripFences(strings.TrimSpace(content))

	var scr script.Script
	if err := json.Unmarshal([]byte(content), &scr); err != nil {
		return nil, fmt.Errorf("%w: malformed script JSON: %v", ErrAnalysis, err)
	}

	if scr.Characters == nil {
		return nil, fmt.Errorf("%w: response is missing characters", ErrAnalysis)
	}
	if scr.Scenes == nil {
		return nil, fmt.Errorf("%w: response is missing scenes", ErrAnalysis)
	}
	if err := scr.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysis, err)
	}

	return &scr, nil
}

func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	return strings.TrimSpace(s)
}
