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

type SwitchAccountToolInput struct {
	UserID  int64  `json:"user_id" jsonschema:"required,description=The Telegram user ID"`
	Address string `json:"address" jsonschema:"required,description=The Sui wallet address to switch to"`
	Network string `json:"network" jsonschema:"required,enum=mainnet,enum=testnet,enum=devnet,description=The network to switch to"`
}

// SwitchAccountTool changes a user's active wallet address.
type SwitchAccountTool struct {
	baseURL string
	client  *http.Client
}

func NewSwitchAccountTool(baseURL string) *SwitchAccountTool {
	return &SwitchAccountTool{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(),
	}
}

func (t *SwitchAccountTool) Name() string {
	return "switch_account"
}

func (t *SwitchAccountTool) Description() string {
	return "Switch the active Sui wallet address for a user"
}

func (t *SwitchAccountTool) InputSchema() *jsonschema.Schema {
	return agent.GenerateSchema[SwitchAccountToolInput]()
}

func (t *SwitchAccountTool) Call(ctx context.Context, input string) (string, error) {
	var params SwitchAccountToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse switch account input: %v", err)
	}

	if params.UserID == 0 {
		return "", fmt.Errorf("user_id is required")
	}
	if strings.TrimSpace(params.Address) == "" {
		return "", fmt.Errorf("address is required")
	}
	if !validNetwork(params.Network) {
		return "", invalidNetworkError()
	}
	if t.baseURL == "" {
		return "", fmt.Errorf("account switching is not configured: missing relayer URL")
	}

	payload := map[string]interface{}{
		"user_id": params.UserID,
		"address": params.Address,
		"network": params.Network,
	}

	var result map[string]interface{}
	if err := postJSON(ctx, t.client, t.baseURL+"/api/sui/account/switch", payload, &result); err != nil {
		return "", fmt.Errorf("failed to switch active address: %v", err)
	}

	out, err := json.Marshal(map[string]interface{}{
		"status":  "success",
		"message": "Successfully switched active address",
		"data":    result,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode switch response: %v", err)
	}
	return string(out), nil
}
