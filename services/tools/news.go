package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"omnibot/services/agent"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
)

const cryptorankNewsURL = "https://api.cryptorank.io/v0/news"

type NewsToolInput struct{}

// NewsTool fetches the latest SUI ecosystem news from Cryptorank.
type NewsTool struct {
	baseURL string
	client  *http.Client
}

func NewNewsTool() *NewsTool {
	return &NewsTool{
		baseURL: cryptorankNewsURL,
		client:  newHTTPClient(),
	}
}

func (t *NewsTool) Name() string {
	return "get_news"
}

func (t *NewsTool) Description() string {
	return "Get the latest news about the SUI cryptocurrency"
}

func (t *NewsTool) InputSchema() *jsonschema.Schema {
	return agent.GenerateSchema[NewsToolInput]()
}

type newsItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

func (t *NewsTool) Call(ctx context.Context, input string) (string, error) {
	var params NewsToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse news input: %v", err)
	}

	var payload struct {
		Data []newsItem `json:"data"`
	}

	endpoint := t.baseURL + "?lang=en&coinKeys=sui&withFullContent=true"
	if err := getJSON(ctx, t.client, endpoint, nil, &payload); err != nil {
		return "", fmt.Errorf("failed to fetch news: %v", err)
	}

	items := lo.Slice(payload.Data, 0, 5)

	result, err := json.Marshal(map[string]interface{}{
		"status": "success",
		"data":   items,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode news: %v", err)
	}
	return string(result), nil
}
