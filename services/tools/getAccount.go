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

type GetAccountToolInput struct {
	UserID     int64  `json:"user_id" jsonschema:"required,description=The Telegram user ID to get the account for"`
	PrivateKey bool   `json:"privatekey,omitempty" jsonschema:"description=Whether to include the private key in the response"`
	Network    string `json:"network,omitempty" jsonschema:"enum=mainnet,enum=testnet,enum=devnet,description=The network to get the account from (default: mainnet)"`
}

// GetAccountTool looks up a user's wallet account through the relayer API.
type GetAccountTool struct {
	baseURL string
	client  *http.Client
}

func NewGetAccountTool(baseURL string) *GetAccountTool {
	return &GetAccountTool{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(),
	}
}

func (t *GetAccountTool) Name() string {
	return "get_account"
}

func (t *GetAccountTool) Description() string {
	return "Get a user's Sui wallet account information"
}

func (t *GetAccountTool) InputSchema() *jsonschema.Schema {
	return agent.GenerateSchema[GetAccountToolInput]()
}

func (t *GetAccountTool) Call(ctx context.Context, input string) (string, error) {
	var params GetAccountToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse get account input: %v", err)
	}

	if params.UserID == 0 {
		return "", fmt.Errorf("user_id is required")
	}
	if params.Network != "" && !validNetwork(params.Network) {
		return "", invalidNetworkError()
	}
	if t.baseURL == "" {
		return "", fmt.Errorf("account lookup is not configured: missing relayer URL")
	}

	query := url.Values{}
	query.Set("user_id", strconv.FormatInt(params.UserID, 10))
	if params.PrivateKey {
		query.Set("privatekey", "true")
	}
	if params.Network != "" {
		query.Set("network", params.Network)
	}

	var result map[string]interface{}
	endpoint := t.baseURL + "/api/sui/account/by-user?" + query.Encode()
	if err := getJSON(ctx, t.client, endpoint, nil, &result); err != nil {
		return "", fmt.Errorf("failed to get account: %v", err)
	}

	out, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode account response: %v", err)
	}
	return string(out), nil
}

type GetAccountDetailToolInput struct {
	Address string `json:"address" jsonschema:"required,description=The Sui wallet address to fetch details for"`
	Network string `json:"network,omitempty" jsonschema:"enum=mainnet,enum=testnet,enum=devnet,description=The network to get the account from (default: mainnet)"`
}

// GetAccountDetailTool fetches balances, tokens and NFTs held by an address.
type GetAccountDetailTool struct {
	baseURL string
	client  *http.Client
}

func NewGetAccountDetailTool(baseURL string) *GetAccountDetailTool {
	return &GetAccountDetailTool{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(),
	}
}

func (t *GetAccountDetailTool) Name() string {
	return "get_account_detail"
}

func (t *GetAccountDetailTool) Description() string {
	return "Get detailed Sui account info such as balance, tokens, NFTs, and on-chain objects by wallet address"
}

func (t *GetAccountDetailTool) InputSchema() *jsonschema.Schema {
	return agent.GenerateSchema[GetAccountDetailToolInput]()
}

type accountDetailPayload struct {
	Status string `json:"status"`
	Data   struct {
		Address  string `json:"address"`
		Balances []struct {
			Symbol   string `json:"symbol"`
			Balance  string `json:"balance"`
			Decimals int    `json:"decimals"`
		} `json:"balances"`
		NFTs []struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"nfts"`
	} `json:"data"`
}

func (t *GetAccountDetailTool) Call(ctx context.Context, input string) (string, error) {
	var params GetAccountDetailToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse get account detail input: %v", err)
	}

	if strings.TrimSpace(params.Address) == "" {
		return "", fmt.Errorf("address is required")
	}
	if params.Network != "" && !validNetwork(params.Network) {
		return "", invalidNetworkError()
	}
	if t.baseURL == "" {
		return "", fmt.Errorf("account lookup is not configured: missing relayer URL")
	}

	query := url.Values{}
	query.Set("address", params.Address)
	if params.Network != "" {
		query.Set("network", params.Network)
	}

	var payload accountDetailPayload
	endpoint := t.baseURL + "/api/sui/account/detail?" + query.Encode()
	if err := getJSON(ctx, t.client, endpoint, nil, &payload); err != nil {
		return "", fmt.Errorf("failed to get account detail: %v", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Account %s\n", payload.Data.Address)

	if len(payload.Data.Balances) == 0 {
		sb.WriteString("Balances: none\n")
	} else {
		sb.WriteString("Balances:\n")
		for _, b := range payload.Data.Balances {
			fmt.Fprintf(&sb, "  %s: %s\n", b.Symbol, formatBalance(b.Balance, b.Decimals))
		}
	}

	if len(payload.Data.NFTs) > 0 {
		sb.WriteString("NFTs:\n")
		for _, nft := range payload.Data.NFTs {
			fmt.Fprintf(&sb, "  %s (%s)\n", nft.Name, nft.URL)
		}
	}

	return sb.String(), nil
}

// formatBalance renders a raw on-chain balance using the coin's decimals.
func formatBalance(balance string, decimals int) string {
	raw, err := strconv.ParseFloat(balance, 64)
	if err != nil {
		return balance
	}
	for i := 0; i < decimals; i++ {
		raw /= 10
	}
	return strconv.FormatFloat(raw, 'f', 6, 64)
}
