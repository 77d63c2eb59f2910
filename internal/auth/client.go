package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Client resolves tokens against the identity provider. With keys configured
// it verifies tokens locally, otherwise it calls the provider's user
// endpoint with the bearer token.
type Client struct {
	baseURL    string
	keys       *Keys
	httpClient *http.Client
}

func NewClient(baseURL string, keys *Keys) (*Client, error) {
	if baseURL == "" && keys == nil {
		return nil, fmt.Errorf("identity provider url and jwt secret are both unset")
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		keys:       keys,
		httpClient: http.DefaultClient,
	}, nil
}

func (c *Client) ResolveToken(ctx context.Context, token string) (Identity, error) {
	if c.keys != nil {
		return c.keys.ParseToken(token)
	}

	httpQuery := fmt.Sprintf("%s/auth/v1/user", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, httpQuery, nil)
	if err != nil {
		return Identity{}, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("error fetching identity provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Identity{}, ErrInvalidToken
	}

	var identity Identity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return Identity{}, fmt.Errorf("error decoding identity provider response: %w", err)
	}
	if identity.ID == "" {
		return Identity{}, ErrInvalidToken
	}

	return identity, nil
}
