package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWebSearchToolCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Subscription-Token"); got != "test-key" {
			t.Errorf("expected subscription token header, got %q", got)
		}
		if got := r.URL.Query().Get("q"); got != "sui wallet" {
			t.Errorf("expected query 'sui wallet', got %q", got)
		}
		if got := r.URL.Query().Get("count"); got != "2" {
			t.Errorf("expected count 2, got %q", got)
		}
		w.Write([]byte(`{
			"web": {
				"results": [
					{"title": "First", "url": "https://a.example", "description": "alpha"},
					{"title": "Second", "url": "https://b.example", "description": "beta"}
				]
			}
		}`))
	}))
	defer server.Close()

	tool := NewWebSearchTool("test-key")
	tool.baseURL = server.URL

	output, err := tool.Call(context.Background(), `{"query": "sui wallet", "count": 2}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"Web Search Results:", "1. First", "URL: https://a.example", "2. Second", "beta"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestWebSearchToolNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"web": {"results": []}}`))
	}))
	defer server.Close()

	tool := NewWebSearchTool("test-key")
	tool.baseURL = server.URL

	output, err := tool.Call(context.Background(), `{"query": "obscure"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, "No results found.") {
		t.Errorf("unexpected output: %s", output)
	}
}

func TestWebSearchToolCountClamping(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount string
	}{
		{name: "default", input: `{"query": "x"}`, wantCount: "5"},
		{name: "negative", input: `{"query": "x", "count": -3}`, wantCount: "5"},
		{name: "above max", input: `{"query": "x", "count": 50}`, wantCount: "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotCount string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotCount = r.URL.Query().Get("count")
				w.Write([]byte(`{"web": {"results": []}}`))
			}))
			defer server.Close()

			tool := NewWebSearchTool("test-key")
			tool.baseURL = server.URL

			if _, err := tool.Call(context.Background(), tt.input); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotCount != tt.wantCount {
				t.Errorf("expected count %s, got %s", tt.wantCount, gotCount)
			}
		})
	}
}

func TestWebSearchToolErrors(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		input   string
		wantErr string
	}{
		{name: "missing query", apiKey: "key", input: `{}`, wantErr: "query is required"},
		{name: "blank query", apiKey: "key", input: `{"query": "   "}`, wantErr: "query is required"},
		{name: "missing api key", apiKey: "", input: `{"query": "x"}`, wantErr: "not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := NewWebSearchTool(tt.apiKey)
			_, err := tool.Call(context.Background(), tt.input)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
