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

type CreateTokenToolInput struct {
	Name          string `json:"name" jsonschema:"required,description=The name of the token"`
	Symbol        string `json:"symbol" jsonschema:"required,description=The symbol of the token (e.g. BTC or ETH)"`
	InitSupply    int64  `json:"init_supply" jsonschema:"required,description=The initial supply of the token"`
	WalletAddress string `json:"wallet_address" jsonschema:"required,description=The Sui wallet address of the token creator"`
	Network       string `json:"network" jsonschema:"required,enum=mainnet,enum=testnet,enum=devnet,description=The network to create the token on"`
	Description   string `json:"description,omitempty" jsonschema:"description=A description of the token and its purpose"`
	ImageURL      string `json:"image_url,omitempty" jsonschema:"description=URL to the token's image or logo"`
}

// CreateTokenTool mints a new token through the relayer API.
type CreateTokenTool struct {
	baseURL string
	client  *http.Client
}

func NewCreateTokenTool(baseURL string) *CreateTokenTool {
	return &CreateTokenTool{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(),
	}
}

func (t *CreateTokenTool) Name() string {
	return "create_token"
}

func (t *CreateTokenTool) Description() string {
	return "Create a new token on the Sui blockchain"
}

func (t *CreateTokenTool) InputSchema() *jsonschema.Schema {
	return agent.GenerateSchema[CreateTokenToolInput]()
}

func (t *CreateTokenTool) Call(ctx context.Context, input string) (string, error) {
	var params CreateTokenToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse create token input: %v", err)
	}

	if strings.TrimSpace(params.Name) == "" || strings.TrimSpace(params.Symbol) == "" {
		return "", fmt.Errorf("name and symbol are required")
	}
	if strings.TrimSpace(params.WalletAddress) == "" {
		return "", fmt.Errorf("wallet_address is required")
	}
	if !validNetwork(params.Network) {
		return "", invalidNetworkError()
	}
	if t.baseURL == "" {
		return "", fmt.Errorf("token creation is not configured: missing relayer URL")
	}

	payload := map[string]interface{}{
		"name":           params.Name,
		"symbol":         params.Symbol,
		"description":    params.Description,
		"image_url":      params.ImageURL,
		"init_supply":    params.InitSupply,
		"wallet_address": params.WalletAddress,
		"network":        params.Network,
	}

	var result map[string]interface{}
	if err := postJSON(ctx, t.client, t.baseURL+"/api/sui/token", payload, &result); err != nil {
		return "", fmt.Errorf("failed to create token on %s: %v", params.Network, err)
	}

	out, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode token response: %v", err)
	}
	return string(out), nil
}
