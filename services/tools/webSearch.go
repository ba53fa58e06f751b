package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"omnibot/services/agent"

	"github.com/invopop/jsonschema"
)

const braveSearchURL = "https://api.search.brave.com/res/v1/web/search"

type WebSearchToolInput struct {
	Query string `json:"query" jsonschema:"required,description=The search query"`
	Count int    `json:"count,omitempty" jsonschema:"description=Number of results to return (max 10; default 5)"`
}

// WebSearchTool searches the web through the Brave Search API.
type WebSearchTool struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewWebSearchTool(apiKey string) *WebSearchTool {
	return &WebSearchTool{
		apiKey:  apiKey,
		baseURL: braveSearchURL,
		client:  newHTTPClient(),
	}
}

func (t *WebSearchTool) Name() string {
	return "search_web"
}

func (t *WebSearchTool) Description() string {
	return "Search the web for information using the Brave Search API"
}

func (t *WebSearchTool) InputSchema() *jsonschema.Schema {
	return agent.GenerateSchema[WebSearchToolInput]()
}

func (t *WebSearchTool) Call(ctx context.Context, input string) (string, error) {
	var params WebSearchToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse web search input: %v", err)
	}

	if strings.TrimSpace(params.Query) == "" {
		return "", fmt.Errorf("query is required")
	}
	if t.apiKey == "" {
		return "", fmt.Errorf("web search is not configured: missing API key")
	}

	count := params.Count
	if count <= 0 {
		count = 5
	}
	if count > 10 {
		count = 10
	}

	query := url.Values{}
	query.Set("q", params.Query)
	query.Set("count", strconv.Itoa(count))

	var result struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}

	headers := map[string]string{"X-Subscription-Token": t.apiKey}
	if err := getJSON(ctx, t.client, t.baseURL+"?"+query.Encode(), headers, &result); err != nil {
		return "", fmt.Errorf("web search failed: %v", err)
	}

	var sb strings.Builder
	sb.WriteString("Web Search Results:\n\n")

	if len(result.Web.Results) == 0 {
		sb.WriteString("No results found.")
		return sb.String(), nil
	}

	for i, item := range result.Web.Results {
		fmt.Fprintf(&sb, "%d. %s\n   URL: %s\n   %s\n\n", i+1, item.Title, item.URL, item.Description)
	}

	return sb.String(), nil
}
