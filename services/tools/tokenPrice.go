package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"omnibot/services/agent"

	"github.com/invopop/jsonschema"
)

type TokenPriceToolInput struct {
	Token string `json:"token" jsonschema:"required,description=The cryptocurrency token symbol (e.g. 'btc' or 'eth' or 'sui')"`
}

// TokenPriceTool fetches the current market data for a token from the
// price API.
type TokenPriceTool struct {
	baseURL string
	client  *http.Client
}

func NewTokenPriceTool(baseURL string) *TokenPriceTool {
	return &TokenPriceTool{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(),
	}
}

func (t *TokenPriceTool) Name() string {
	return "get_token_price"
}

func (t *TokenPriceTool) Description() string {
	return "Get the current price of a specified cryptocurrency token"
}

func (t *TokenPriceTool) InputSchema() *jsonschema.Schema {
	return agent.GenerateSchema[TokenPriceToolInput]()
}

type tokenPricePayload struct {
	Data struct {
		Data []struct {
			FromCoin struct {
				Symbol string `json:"symbol"`
				Name   string `json:"name"`
			} `json:"fromCoin"`
			ToCoin struct {
				Symbol string `json:"symbol"`
			} `json:"toCoin"`
			USDLast       float64 `json:"usdLast"`
			Last          float64 `json:"last"`
			ChangePercent float64 `json:"changePercent"`
			High          float64 `json:"high"`
			Low           float64 `json:"low"`
			ExchangeName  string  `json:"exchangeName"`
			URL           string  `json:"url"`
		} `json:"data"`
	} `json:"data"`
}

func (t *TokenPriceTool) Call(ctx context.Context, input string) (string, error) {
	var params TokenPriceToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse token price input: %v", err)
	}

	token := strings.ToLower(strings.TrimSpace(params.Token))
	if token == "" {
		return "", fmt.Errorf("token is required")
	}
	if t.baseURL == "" {
		return "", fmt.Errorf("price lookup is not configured: missing API URL")
	}

	var payload tokenPricePayload
	endpoint := t.baseURL + "/api/token/price?token=" + url.QueryEscape(token)
	if err := getJSON(ctx, t.client, endpoint, nil, &payload); err != nil {
		return "", fmt.Errorf("error fetching price information: %v", err)
	}

	if len(payload.Data.Data) == 0 {
		return fmt.Sprintf("No price information found for token '%s'", token), nil
	}

	ticker := payload.Data.Data[0]
	quote := ticker.ToCoin.Symbol
	if quote == "" {
		quote = "USDT"
	}

	info := map[string]interface{}{
		"symbol":             ticker.FromCoin.Symbol,
		"name":               ticker.FromCoin.Name,
		"price_usd":          ticker.USDLast,
		"price":              ticker.Last,
		"quote_currency":     quote,
		"change_24h_percent": ticker.ChangePercent,
		"high_24h":           ticker.High,
		"low_24h":            ticker.Low,
		"exchange":           ticker.ExchangeName,
		"url":                ticker.URL,
	}

	result, err := json.Marshal(info)
	if err != nil {
		return "", fmt.Errorf("error processing price information: %v", err)
	}
	return string(result), nil
}
