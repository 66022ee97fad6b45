package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alfredjeanlab/relay/internal/identity"
	"github.com/alfredjeanlab/relay/internal/model"
)

// testHandler captures the incoming request details and returns a canned response.
type testHandler struct {
	// captured from the request
	method      string
	path        string
	query       string
	body        string
	contentType string
	userHeader  string
	authHeader  string

	// canned response
	statusCode   int
	responseBody string
}

func (h *testHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.method = r.Method
	h.path = r.URL.Path
	h.query = r.URL.RawQuery
	h.contentType = r.Header.Get("Content-Type")
	h.userHeader = r.Header.Get(identity.Header)
	h.authHeader = r.Header.Get("Authorization")
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		h.body = string(data)
	}

	w.Header().Set("Content-Type", "application/json")
	if h.statusCode != 0 {
		w.WriteHeader(h.statusCode)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	if h.responseBody != "" {
		_, _ = w.Write([]byte(h.responseBody))
	}
}

// newTestClient creates an HTTPClient pointed at a test server with the given handler.
func newTestClient(t *testing.T, h http.Handler, token string) (*HTTPClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	c, err := NewHTTPClient(srv.URL, token, model.Identity{ID: "alice"})
	if err != nil {
		srv.Close()
		t.Fatalf("NewHTTPClient() error = %v", err)
	}
	return c, srv
}

func TestHTTPClient_CreateChannel(t *testing.T) {
	h := &testHandler{
		statusCode: http.StatusCreated,
		responseBody: `{
			"id": "ch-abc123",
			"name": "builds",
			"description": "build notifications",
			"visibility": "private",
			"members": ["bob"],
			"creator": {"id": "alice"},
			"createdAt": "2026-01-15T10:00:00Z"
		}`,
	}
	c, srv := newTestClient(t, h, "")
	defer srv.Close()

	req := &CreateChannelRequest{
		Name:        "builds",
		Description: "build notifications",
		Visibility:  "private",
		Members:     []model.Identity{{ID: "bob"}},
	}

	ch, err := c.CreateChannel(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateChannel() error = %v", err)
	}

	if h.method != http.MethodPost {
		t.Errorf("method = %q, want POST", h.method)
	}
	if h.path != "/v1/channels" {
		t.Errorf("path = %q, want /v1/channels", h.path)
	}
	if h.contentType != "application/json" {
		t.Errorf("content-type = %q, want application/json", h.contentType)
	}

	var reqBody map[string]any
	if err := json.Unmarshal([]byte(h.body), &reqBody); err != nil {
		t.Fatalf("unmarshaling request body: %v", err)
	}
	if reqBody["name"] != "builds" {
		t.Errorf("request name = %v, want builds", reqBody["name"])
	}
	if reqBody["visibility"] != "private" {
		t.Errorf("request visibility = %v, want private", reqBody["visibility"])
	}

	if ch.ID != "ch-abc123" {
		t.Errorf("channel id = %q, want ch-abc123", ch.ID)
	}
	if len(ch.Members) != 1 || ch.Members[0] != "bob" {
		t.Errorf("channel members = %v, want [bob]", ch.Members)
	}
}

func TestHTTPClient_SendsIdentityHeader(t *testing.T) {
	h := &testHandler{responseBody: `{"channels": []}`}
	c, srv := newTestClient(t, h, "")
	defer srv.Close()

	if _, err := c.ListChannels(context.Background()); err != nil {
		t.Fatalf("ListChannels() error = %v", err)
	}

	if h.userHeader == "" {
		t.Fatal("identity header not set")
	}
	who, err := identity.Decode(h.userHeader)
	if err != nil {
		t.Fatalf("decoding identity header: %v", err)
	}
	if who.ID != "alice" {
		t.Errorf("identity id = %q, want alice", who.ID)
	}
}

func TestHTTPClient_SendsBearerToken(t *testing.T) {
	h := &testHandler{responseBody: `{"channels": []}`}
	c, srv := newTestClient(t, h, "sekrit")
	defer srv.Close()

	if _, err := c.ListChannels(context.Background()); err != nil {
		t.Fatalf("ListChannels() error = %v", err)
	}
	if h.authHeader != "Bearer sekrit" {
		t.Errorf("authorization = %q, want Bearer sekrit", h.authHeader)
	}
}

func TestHTTPClient_GetChannel(t *testing.T) {
	h := &testHandler{
		responseBody: `{
			"channel": {"id": "ch-abc123", "name": "general", "visibility": "public", "members": [], "creator": {"id": "system"}, "createdAt": "2026-01-15T10:00:00Z"},
			"messages": [
				{"id": "msg-0000000000000002", "channelID": "ch-abc123", "body": "second", "creator": {"id": "bob"}, "createdAt": "2026-01-15T10:01:00Z"},
				{"id": "msg-0000000000000001", "channelID": "ch-abc123", "body": "first", "creator": {"id": "alice"}, "createdAt": "2026-01-15T10:00:30Z"}
			]
		}`,
	}
	c, srv := newTestClient(t, h, "")
	defer srv.Close()

	page, err := c.GetChannel(context.Background(), "ch-abc123", "")
	if err != nil {
		t.Fatalf("GetChannel() error = %v", err)
	}
	if h.path != "/v1/channels/ch-abc123" {
		t.Errorf("path = %q, want /v1/channels/ch-abc123", h.path)
	}
	if h.query != "" {
		t.Errorf("query = %q, want empty", h.query)
	}
	if page.Channel.Name != "general" {
		t.Errorf("channel name = %q, want general", page.Channel.Name)
	}
	if len(page.Messages) != 2 || page.Messages[0].Body != "second" {
		t.Errorf("messages = %v, want 2 newest-first", page.Messages)
	}
}

func TestHTTPClient_GetChannelBefore(t *testing.T) {
	h := &testHandler{responseBody: `{"channel": {"id": "ch-abc123", "creator": {"id": "system"}}, "messages": []}`}
	c, srv := newTestClient(t, h, "")
	defer srv.Close()

	if _, err := c.GetChannel(context.Background(), "ch-abc123", "msg-0000000000000009"); err != nil {
		t.Fatalf("GetChannel() error = %v", err)
	}
	if h.query != "before=msg-0000000000000009" {
		t.Errorf("query = %q, want before cursor", h.query)
	}
}

func TestHTTPClient_UpdateChannel(t *testing.T) {
	h := &testHandler{
		responseBody: `{"id": "ch-abc123", "name": "renamed", "visibility": "public", "members": [], "creator": {"id": "alice"}, "createdAt": "2026-01-15T10:00:00Z"}`,
	}
	c, srv := newTestClient(t, h, "")
	defer srv.Close()

	desc := "new topic"
	ch, err := c.UpdateChannel(context.Background(), "ch-abc123", &UpdateChannelRequest{Name: "renamed", Description: &desc})
	if err != nil {
		t.Fatalf("UpdateChannel() error = %v", err)
	}
	if h.method != http.MethodPatch {
		t.Errorf("method = %q, want PATCH", h.method)
	}
	if h.path != "/v1/channels/ch-abc123" {
		t.Errorf("path = %q", h.path)
	}
	if ch.Name != "renamed" {
		t.Errorf("channel name = %q, want renamed", ch.Name)
	}
}

func TestHTTPClient_DeleteChannel(t *testing.T) {
	h := &testHandler{statusCode: http.StatusNoContent}
	c, srv := newTestClient(t, h, "")
	defer srv.Close()

	if err := c.DeleteChannel(context.Background(), "ch-abc123"); err != nil {
		t.Fatalf("DeleteChannel() error = %v", err)
	}
	if h.method != http.MethodDelete {
		t.Errorf("method = %q, want DELETE", h.method)
	}
}

func TestHTTPClient_Membership(t *testing.T) {
	h := &testHandler{statusCode: http.StatusNoContent}
	c, srv := newTestClient(t, h, "")
	defer srv.Close()

	if err := c.AddMember(context.Background(), "ch-abc123", model.Identity{ID: "bob"}); err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}
	if h.method != http.MethodPost || h.path != "/v1/channels/ch-abc123/members" {
		t.Errorf("request = %s %s, want POST /v1/channels/ch-abc123/members", h.method, h.path)
	}
	var member map[string]any
	if err := json.Unmarshal([]byte(h.body), &member); err != nil {
		t.Fatalf("unmarshaling member body: %v", err)
	}
	if member["id"] != "bob" {
		t.Errorf("member id = %v, want bob", member["id"])
	}

	if err := c.RemoveMember(context.Background(), "ch-abc123", "bob"); err != nil {
		t.Fatalf("RemoveMember() error = %v", err)
	}
	if h.method != http.MethodDelete {
		t.Errorf("method = %q, want DELETE", h.method)
	}
}

func TestHTTPClient_PostMessage(t *testing.T) {
	h := &testHandler{
		statusCode:   http.StatusCreated,
		responseBody: `{"id": "msg-0000000000000001", "channelID": "ch-abc123", "body": "hello", "creator": {"id": "alice"}, "createdAt": "2026-01-15T10:00:00Z"}`,
	}
	c, srv := newTestClient(t, h, "")
	defer srv.Close()

	m, err := c.PostMessage(context.Background(), "ch-abc123", "hello")
	if err != nil {
		t.Fatalf("PostMessage() error = %v", err)
	}
	if h.method != http.MethodPost || h.path != "/v1/channels/ch-abc123" {
		t.Errorf("request = %s %s, want POST /v1/channels/ch-abc123", h.method, h.path)
	}
	if m.Body != "hello" {
		t.Errorf("message body = %q, want hello", m.Body)
	}
}

func TestHTTPClient_ListMessages(t *testing.T) {
	h := &testHandler{responseBody: `{"messages": [{"id": "msg-0000000000000001", "channelID": "ch-abc123", "body": "hi", "creator": {"id": "alice"}, "createdAt": "2026-01-15T10:00:00Z"}]}`}
	c, srv := newTestClient(t, h, "")
	defer srv.Close()

	msgs, err := c.ListMessages(context.Background(), "ch-abc123", "msg-0000000000000005")
	if err != nil {
		t.Fatalf("ListMessages() error = %v", err)
	}
	if h.path != "/v1/channels/ch-abc123/messages" {
		t.Errorf("path = %q", h.path)
	}
	if h.query != "before=msg-0000000000000005" {
		t.Errorf("query = %q, want before cursor", h.query)
	}
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
}

func TestHTTPClient_EditDeleteMessage(t *testing.T) {
	h := &testHandler{responseBody: `{"id": "msg-0000000000000001", "channelID": "ch-abc123", "body": "edited", "creator": {"id": "alice"}, "createdAt": "2026-01-15T10:00:00Z", "editedAt": "2026-01-15T10:05:00Z"}`}
	c, srv := newTestClient(t, h, "")
	defer srv.Close()

	m, err := c.EditMessage(context.Background(), "msg-0000000000000001", "edited")
	if err != nil {
		t.Fatalf("EditMessage() error = %v", err)
	}
	if h.method != http.MethodPatch || h.path != "/v1/messages/msg-0000000000000001" {
		t.Errorf("request = %s %s, want PATCH /v1/messages/msg-0000000000000001", h.method, h.path)
	}
	if m.EditedAt == nil {
		t.Error("editedAt not populated")
	}

	h.statusCode = http.StatusNoContent
	h.responseBody = ""
	if err := c.DeleteMessage(context.Background(), "msg-0000000000000001"); err != nil {
		t.Fatalf("DeleteMessage() error = %v", err)
	}
	if h.method != http.MethodDelete {
		t.Errorf("method = %q, want DELETE", h.method)
	}
}

func TestHTTPClient_APIError(t *testing.T) {
	h := &testHandler{
		statusCode:   http.StatusForbidden,
		responseBody: `{"error": "not a member of this channel"}`,
	}
	c, srv := newTestClient(t, h, "")
	defer srv.Close()

	_, err := c.GetChannel(context.Background(), "ch-abc123", "")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", apiErr.StatusCode)
	}
	if apiErr.Message != "not a member of this channel" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestHTTPClient_APIErrorPlainBody(t *testing.T) {
	h := &testHandler{
		statusCode:   http.StatusBadGateway,
		responseBody: `upstream unavailable`,
	}
	c, srv := newTestClient(t, h, "")
	defer srv.Close()

	_, err := c.Health(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.Message != "upstream unavailable" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestHTTPClient_Health(t *testing.T) {
	h := &testHandler{responseBody: `{"status": "ok"}`}
	c, srv := newTestClient(t, h, "")
	defer srv.Close()

	status, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if status != "ok" {
		t.Errorf("status = %q, want ok", status)
	}
	if h.path != "/v1/health" {
		t.Errorf("path = %q, want /v1/health", h.path)
	}
}
