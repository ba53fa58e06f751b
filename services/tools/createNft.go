package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"omnibot/services/agent"

	"github.com/invopop/jsonschema"
)

type CreateNftToolInput struct {
	Name        string `json:"name" jsonschema:"required,description=The name of the NFT"`
	Description string `json:"description" jsonschema:"required,description=A description of the NFT"`
	URL         string `json:"url" jsonschema:"required,description=URL to the NFT's image or media"`
	Network     string `json:"network" jsonschema:"required,enum=mainnet,enum=testnet,enum=devnet,description=The network to create the NFT on"`
	UserID      int64  `json:"user_id" jsonschema:"required,description=The Telegram user ID of the NFT creator"`
}

// CreateNftTool mints a new NFT through the relayer API.
type CreateNftTool struct {
	baseURL string
	client  *http.Client
}

func NewCreateNftTool(baseURL string) *CreateNftTool {
	return &CreateNftTool{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(),
	}
}

func (t *CreateNftTool) Name() string {
	return "create_nft"
}

func (t *CreateNftTool) Description() string {
	return "Create a new NFT on the Sui blockchain"
}

func (t *CreateNftTool) InputSchema() *jsonschema.Schema {
	return agent.GenerateSchema[CreateNftToolInput]()
}

func (t *CreateNftTool) Call(ctx context.Context, input string) (string, error) {
	var params CreateNftToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse create NFT input: %v", err)
	}

	if strings.TrimSpace(params.Name) == "" {
		return "", fmt.Errorf("name is required")
	}
	if strings.TrimSpace(params.URL) == "" {
		return "", fmt.Errorf("url is required")
	}
	if params.Network == "" {
		return "", fmt.Errorf("network parameter is required, please specify 'mainnet', 'testnet', or 'devnet'")
	}
	if !validNetwork(params.Network) {
		return "", invalidNetworkError()
	}
	if params.UserID == 0 {
		return "", fmt.Errorf("user_id is required")
	}
	if t.baseURL == "" {
		return "", fmt.Errorf("NFT creation is not configured: missing relayer URL")
	}

	payload := map[string]interface{}{
		"name":        params.Name,
		"description": params.Description,
		"url":         params.URL,
		"network":     params.Network,
		"user_id":     params.UserID,
	}

	var result map[string]interface{}
	if err := postJSON(ctx, t.client, t.baseURL+"/api/sui/nft", payload, &result); err != nil {
		return "", fmt.Errorf("failed to create NFT on %s: %v", params.Network, err)
	}

	out, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode NFT response: %v", err)
	}
	return string(out), nil
}
