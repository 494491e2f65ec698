package out_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	adviceout "brewlog/internal/modules/advice/adapter/out"
	"brewlog/internal/modules/advice/domain"
)

func TestGeminiAdvisorSendsPromptAndReadsCandidate(t *testing.T) {
	t.Parallel()
	var gotPath, gotKey string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Hold at "},{"text":"152 °F (66.7 °C)."}]},"finishReason":"STOP"}]}`)
	}))
	defer srv.Close()

	advisor := adviceout.NewGeminiAdvisor(adviceout.GeminiConfig{Endpoint: srv.URL + "/", Model: "gemini-3-flash-preview", APIKey: "k", Temperature: 0.7}, srv.Client())
	query, _ := domain.NewQuery("Mashing", "temp?", "Beer Name: A, Style: B. Current Phase: Mashing. Phase Notes: ")
	text, err := advisor.Advise(context.Background(), query)
	if err != nil {
		t.Fatalf("advise: %v", err)
	}
	if text != "Hold at 152 °F (66.7 °C)." {
		t.Fatalf("unexpected text %q", text)
	}
	if gotPath != "/models/gemini-3-flash-preview:generateContent" || gotKey != "k" {
		t.Fatalf("unexpected request path %s key %s", gotPath, gotKey)
	}
	raw, _ := json.Marshal(gotBody)
	for _, want := range []string{`"temperature":0.7`, `expert master brewer`, `User Question: temp?`} {
		if !strings.Contains(string(raw), want) {
			t.Fatalf("request missing %s: %s", want, raw)
		}
	}
}

func TestGeminiAdvisorErrors(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"code":429,"message":"quota exhausted","status":"RESOURCE_EXHAUSTED"}}`)
	}))
	defer srv.Close()

	query, _ := domain.NewQuery("Boiling", "hops?", "")
	_, err := adviceout.NewGeminiAdvisor(adviceout.GeminiConfig{Endpoint: srv.URL, Model: "m", APIKey: "k"}, srv.Client()).Advise(context.Background(), query)
	if !adviceout.IsStatus(err, http.StatusTooManyRequests) || !strings.Contains(err.Error(), "quota exhausted") {
		t.Fatalf("expected 429 HTTPError, got %v", err)
	}

	if _, err := adviceout.NewGeminiAdvisor(adviceout.GeminiConfig{Endpoint: srv.URL, Model: "m"}, nil).Advise(context.Background(), query); err == nil {
		t.Fatalf("missing api key must fail")
	}
}

func TestGeminiAdvisorNoCandidatesIsEmpty(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"candidates":[]}`)
	}))
	defer srv.Close()
	query, _ := domain.NewQuery("Boiling", "hops?", "")
	text, err := adviceout.NewGeminiAdvisor(adviceout.GeminiConfig{Endpoint: srv.URL, Model: "m", APIKey: "k"}, srv.Client()).Advise(context.Background(), query)
	if err != nil || text != "" {
		t.Fatalf("expected empty text without error, got %q %v", text, err)
	}
}
