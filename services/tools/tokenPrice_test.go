package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTokenPriceToolCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/token/price" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("token"); got != "eth" {
			t.Errorf("expected token query 'eth', got %q", got)
		}
		w.Write([]byte(`{
			"data": {
				"data": [{
					"fromCoin": {"symbol": "ETH", "name": "Ethereum"},
					"toCoin": {"symbol": "USDT"},
					"usdLast": 3000.5,
					"last": 2999.8,
					"changePercent": -1.2,
					"high": 3100,
					"low": 2950,
					"exchangeName": "Binance",
					"url": "https://example.com/eth"
				}]
			}
		}`))
	}))
	defer server.Close()

	tool := NewTokenPriceTool(server.URL)

	output, err := tool.Call(context.Background(), `{"token": "ETH"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var info map[string]interface{}
	if err := json.Unmarshal([]byte(output), &info); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if info["symbol"] != "ETH" {
		t.Errorf("expected symbol ETH, got %v", info["symbol"])
	}
	if info["price_usd"] != 3000.5 {
		t.Errorf("expected price_usd 3000.5, got %v", info["price_usd"])
	}
	if info["quote_currency"] != "USDT" {
		t.Errorf("expected quote_currency USDT, got %v", info["quote_currency"])
	}
	if info["exchange"] != "Binance" {
		t.Errorf("expected exchange Binance, got %v", info["exchange"])
	}
}

func TestTokenPriceToolNoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"data": []}}`))
	}))
	defer server.Close()

	tool := NewTokenPriceTool(server.URL)

	output, err := tool.Call(context.Background(), `{"token": "nosuchcoin"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, "No price information found for token 'nosuchcoin'") {
		t.Errorf("unexpected output: %s", output)
	}
}

func TestTokenPriceToolErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	tests := []struct {
		name    string
		baseURL string
		input   string
		wantErr string
	}{
		{name: "missing token", baseURL: server.URL, input: `{}`, wantErr: "token is required"},
		{name: "invalid input", baseURL: server.URL, input: `not json`, wantErr: "failed to parse"},
		{name: "unconfigured", baseURL: "", input: `{"token": "eth"}`, wantErr: "not configured"},
		{name: "upstream failure", baseURL: server.URL, input: `{"token": "eth"}`, wantErr: "status 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := NewTokenPriceTool(tt.baseURL)
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
