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

type CreateAccountToolInput struct {
	Network string `json:"network" jsonschema:"required,enum=mainnet,enum=testnet,enum=devnet,description=The network to create the account on"`
	Scheme  string `json:"scheme,omitempty" jsonschema:"enum=secp256k1,enum=ed25519,description=The cryptographic scheme to use (default: secp256k1)"`
	UserID  int64  `json:"user_id,omitempty" jsonschema:"description=The Telegram user_id of the user creating the account"`
}

// CreateAccountTool creates a new wallet account through the relayer API.
type CreateAccountTool struct {
	baseURL string
	client  *http.Client
}

func NewCreateAccountTool(baseURL string) *CreateAccountTool {
	return &CreateAccountTool{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(),
	}
}

func (t *CreateAccountTool) Name() string {
	return "create_account"
}

func (t *CreateAccountTool) Description() string {
	return "Create a new wallet account on the Sui blockchain. Network parameter is required (mainnet/testnet/devnet)."
}

func (t *CreateAccountTool) InputSchema() *jsonschema.Schema {
	return agent.GenerateSchema[CreateAccountToolInput]()
}

func (t *CreateAccountTool) Call(ctx context.Context, input string) (string, error) {
	var params CreateAccountToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse create account input: %v", err)
	}

	if params.Network == "" {
		return "", fmt.Errorf("network parameter is required, please specify 'mainnet', 'testnet', or 'devnet'")
	}
	if !validNetwork(params.Network) {
		return "", invalidNetworkError()
	}
	if t.baseURL == "" {
		return "", fmt.Errorf("account creation is not configured: missing relayer URL")
	}

	scheme := params.Scheme
	if scheme == "" {
		scheme = "secp256k1"
	}

	payload := map[string]interface{}{
		"scheme":  scheme,
		"network": params.Network,
	}
	if params.UserID != 0 {
		payload["user_id"] = params.UserID
	}

	var result map[string]interface{}
	if err := postJSON(ctx, t.client, t.baseURL+"/api/sui/account", payload, &result); err != nil {
		return "", fmt.Errorf("failed to create wallet account: %v", err)
	}

	out, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode account response: %v", err)
	}
	return string(out), nil
}
