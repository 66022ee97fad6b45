package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/alfredjeanlab/relay/internal/identity"
	"github.com/alfredjeanlab/relay/internal/model"
)

// HTTPClient implements RelayClient using the relay HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	who        string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:4000"). Every request carries the caller identity
// in the X-User header. When token is non-empty, an Authorization header is
// set on every request.
func NewHTTPClient(baseURL, token string, who model.Identity) (*HTTPClient, error) {
	encoded, err := identity.Encode(who)
	if err != nil {
		return nil, fmt.Errorf("encoding identity: %w", err)
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		who:        encoded,
		httpClient: &http.Client{},
	}, nil
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Channels ---

func (c *HTTPClient) ListChannels(ctx context.Context) ([]*model.Channel, error) {
	var resp struct {
		Channels []*model.Channel `json:"channels"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/channels", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Channels, nil
}

func (c *HTTPClient) CreateChannel(ctx context.Context, req *CreateChannelRequest) (*model.Channel, error) {
	var ch model.Channel
	if err := c.doJSON(ctx, http.MethodPost, "/v1/channels", req, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (c *HTTPClient) GetChannel(ctx context.Context, id, before string) (*ChannelPage, error) {
	path := "/v1/channels/" + url.PathEscape(id)
	if before != "" {
		path += "?before=" + url.QueryEscape(before)
	}
	var page ChannelPage
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *HTTPClient) UpdateChannel(ctx context.Context, id string, req *UpdateChannelRequest) (*model.Channel, error) {
	var ch model.Channel
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/channels/"+url.PathEscape(id), req, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (c *HTTPClient) DeleteChannel(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/channels/"+url.PathEscape(id), nil, nil)
}

// --- Membership ---

func (c *HTTPClient) AddMember(ctx context.Context, channelID string, member model.Identity) error {
	path := "/v1/channels/" + url.PathEscape(channelID) + "/members"
	return c.doJSON(ctx, http.MethodPost, path, member, nil)
}

func (c *HTTPClient) RemoveMember(ctx context.Context, channelID, memberID string) error {
	path := "/v1/channels/" + url.PathEscape(channelID) + "/members"
	return c.doJSON(ctx, http.MethodDelete, path, model.Identity{ID: memberID}, nil)
}

// --- Messages ---

func (c *HTTPClient) ListMessages(ctx context.Context, channelID, before string) ([]*model.Message, error) {
	path := "/v1/channels/" + url.PathEscape(channelID) + "/messages"
	if before != "" {
		path += "?before=" + url.QueryEscape(before)
	}
	var resp struct {
		Messages []*model.Message `json:"messages"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

func (c *HTTPClient) PostMessage(ctx context.Context, channelID, body string) (*model.Message, error) {
	req := map[string]string{"body": body}
	var m model.Message
	if err := c.doJSON(ctx, http.MethodPost, "/v1/channels/"+url.PathEscape(channelID), req, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *HTTPClient) EditMessage(ctx context.Context, messageID, body string) (*model.Message, error) {
	req := map[string]string{"body": body}
	var m model.Message
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/messages/"+url.PathEscape(messageID), req, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *HTTPClient) DeleteMessage(ctx context.Context, messageID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/messages/"+url.PathEscape(messageID), nil, nil)
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- internal helpers ---

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded (for DELETE/204 responses).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(identity.Header, c.who)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content — success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
