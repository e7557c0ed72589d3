package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaGenerate(t *testing.T) {
	var gotPath string
	var gotReq ollamaChatReq

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(ollamaChatResp{
			Message: ollamaMsg{Role: "assistant", Content: "hey"},
		})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3:latest")
	text, err := p.Generate(context.Background(), "hi", GenerationConfig{MaxOutputTokens: 64, Temperature: 0.2})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "hey" {
		t.Fatalf("unexpected text: %q", text)
	}
	if gotPath != "/api/chat" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if gotReq.Stream {
		t.Fatalf("expected stream=false")
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" || gotReq.Messages[0].Content != "hi" {
		t.Fatalf("unexpected messages: %+v", gotReq.Messages)
	}
	if gotReq.Options.NumPredict != 64 {
		t.Fatalf("options not forwarded: %+v", gotReq.Options)
	}
}

func TestOllamaGenerate_ErrorPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ollamaChatResp{Error: "model not found"})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "nope")
	if _, err := p.Generate(context.Background(), "hi", GenerationConfig{}); err == nil {
		t.Fatalf("expected error from payload")
	}
}

func TestOllamaGenerate_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3:latest")
	if _, err := p.Generate(context.Background(), "hi", GenerationConfig{}); err == nil {
		t.Fatalf("expected error for non-2xx response")
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Register("Stub", func(model string) (Provider, error) {
		return &stubProvider{name: "stub", text: model}, nil
	})

	p, err := reg.Get("stub", "m1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Name() != "stub" {
		t.Fatalf("unexpected provider: %q", p.Name())
	}

	if _, err := reg.Get("missing", "m1"); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}
