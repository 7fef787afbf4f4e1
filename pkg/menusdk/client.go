package menusdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Client talks to the menu service. Public endpoints are methods on Client;
// protected ones need a Session from WithToken.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a menu service client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Session sends a bearer token with every request. The token is obtained
// from the identity provider; the menu service never issues one.
type Session struct {
	client *Client
	token  string
}

// WithToken returns a session that authenticates with token.
func (c *Client) WithToken(token string) *Session {
	return &Session{client: c, token: token}
}

// ListDrinks fetches the public menu.
func (c *Client) ListDrinks(ctx context.Context) ([]ShortDrink, error) {
	resp, err := c.do(ctx, http.MethodGet, "/drinks", "", nil)
	if err != nil {
		return nil, err
	}

	var out ShortDrinksResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Drinks, nil
}

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// GetReadiness checks if the service is ready.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *Client) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// DrinksDetail fetches the menu with full recipes. Requires get:drinks-detail.
func (s *Session) DrinksDetail(ctx context.Context) ([]Drink, error) {
	resp, err := s.client.do(ctx, http.MethodGet, "/drinks-detail", s.token, nil)
	if err != nil {
		return nil, err
	}

	var out DrinksResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Drinks, nil
}

// CreateDrink adds a drink to the menu. Requires post:drinks.
func (s *Session) CreateDrink(ctx context.Context, req DrinkRequest) (*Drink, error) {
	return s.writeDrink(ctx, http.MethodPost, "/drinks", req)
}

// UpdateDrink replaces the title and recipe of a drink. Requires patch:drinks.
func (s *Session) UpdateDrink(ctx context.Context, id int64, req DrinkRequest) (*Drink, error) {
	return s.writeDrink(ctx, http.MethodPatch, "/drinks/"+strconv.FormatInt(id, 10), req)
}

// DeleteDrink removes a drink and returns its id. Requires delete:drinks.
func (s *Session) DeleteDrink(ctx context.Context, id int64) (int64, error) {
	resp, err := s.client.do(ctx, http.MethodDelete, "/drinks/"+strconv.FormatInt(id, 10), s.token, nil)
	if err != nil {
		return 0, err
	}

	var out DeleteResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return 0, err
	}
	return out.Delete, nil
}

func (s *Session) writeDrink(ctx context.Context, method, path string, req DrinkRequest) (*Drink, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := s.client.do(ctx, method, path, s.token, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var out DrinksResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	if len(out.Drinks) != 1 {
		return nil, fmt.Errorf("expected one drink in response, got %d", len(out.Drinks))
	}
	return &out.Drinks[0], nil
}

// do performs a request. An empty token sends no Authorization header.
func (c *Client) do(ctx context.Context, method, path, token string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

// decodeJSON decodes a JSON response into target, or returns an *APIError
// when the status is not the expected one.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		if err := parseErrorResponse(resp, bodyBytes); err != nil {
			return err
		}
		return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
