package out

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"brewlog/internal/modules/advice/domain"
	adviceout "brewlog/internal/modules/advice/port/out"
)

// HTTPError is a non-2xx reply from the generative language API.
type HTTPError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err wraps an HTTPError with the given code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

type GeminiConfig struct {
	Endpoint    string
	Model       string
	APIKey      string
	Temperature float64
}

// GeminiAdvisor calls the models/{model}:generateContent REST method.
type GeminiAdvisor struct {
	cfg    GeminiConfig
	client *http.Client
}

func NewGeminiAdvisor(cfg GeminiConfig, client *http.Client) *GeminiAdvisor {
	if client == nil {
		client = &http.Client{}
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	return &GeminiAdvisor{cfg: cfg, client: client}
}

var (
	_ adviceout.Advisor       = (*GeminiAdvisor)(nil)
	_ adviceout.HealthChecker = (*GeminiAdvisor)(nil)
)

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction geminiContent   `json:"systemInstruction"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  struct {
		Temperature float64 `json:"temperature"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (a *GeminiAdvisor) Name() string { return "gemini" }

func (a *GeminiAdvisor) Advise(ctx context.Context, query domain.Query) (string, error) {
	if a.cfg.APIKey == "" {
		return "", fmt.Errorf("gemini api key is not set")
	}
	body := geminiRequest{
		SystemInstruction: geminiContent{Parts: []geminiPart{{Text: domain.SystemInstruction}}},
		Contents:          []geminiContent{{Role: "user", Parts: []geminiPart{{Text: query.Prompt()}}}},
	}
	body.GenerationConfig.Temperature = a.cfg.Temperature
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", a.cfg.Endpoint, url.PathEscape(a.cfg.Model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", a.cfg.APIKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := geminiError{}
		msg := strings.TrimSpace(string(raw))
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		return "", &HTTPError{StatusCode: resp.StatusCode, Status: apiErr.Error.Status, Message: msg}
	}

	decoded := geminiResponse{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Candidates) == 0 {
		return "", nil
	}
	b := strings.Builder{}
	for _, part := range decoded.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String(), nil
}

// Check only verifies local configuration; it does not spend a request.
func (a *GeminiAdvisor) Check(context.Context) (domain.Metadata, error) {
	if a.cfg.APIKey == "" {
		return domain.Metadata{}, fmt.Errorf("gemini api key is not set")
	}
	if _, err := url.Parse(a.cfg.Endpoint); err != nil || a.cfg.Endpoint == "" {
		return domain.Metadata{}, fmt.Errorf("invalid gemini endpoint %q", a.cfg.Endpoint)
	}
	return domain.Metadata{Name: "gemini", Model: a.cfg.Model}, nil
}
