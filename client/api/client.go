package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TokenFunc supplies the bearer token for a request. Nil disables auth.
type TokenFunc func(ctx context.Context) (string, error)

// Client is a minimal GraphQL HTTP client for the rental API.
type Client struct {
	endpoint string
	token    TokenFunc
	httpc    *http.Client
	logger   *zap.Logger
}

// New creates a client for the given GraphQL endpoint.
func New(endpoint string, token TokenFunc, log *zap.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		token:    token,
		httpc:    &http.Client{Timeout: 30 * time.Second},
		logger:   log,
	}
}

// GraphQLError is a non-transport failure reported by the server.
type GraphQLError struct {
	Message    string                 `json:"message"`
	Extensions map[string]interface{} `json:"extensions"`
}

func (e *GraphQLError) Error() string { return e.Message }

// Code returns the stable error code from the extensions, if any.
func (e *GraphQLError) Code() string {
	code, _ := e.Extensions["code"].(string)
	return code
}

type response struct {
	Data   jsoniter.RawMessage `json:"data"`
	Errors []GraphQLError      `json:"errors"`
}

// Do executes one GraphQL request and unmarshals the data payload into out
// (which may be nil when the caller ignores the payload).
func (c *Client) Do(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	payload, err := json.Marshal(map[string]interface{}{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	if c.token != nil {
		token, err := c.token(ctx)
		if err != nil {
			return fmt.Errorf("failed to obtain token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(body.Errors) > 0 {
		return &body.Errors[0]
	}

	if out != nil && len(body.Data) > 0 {
		if err := json.Unmarshal(body.Data, out); err != nil {
			return fmt.Errorf("failed to decode data: %w", err)
		}
	}
	return nil
}
