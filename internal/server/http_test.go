package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alfredjeanlab/relay/internal/events"
	"github.com/alfredjeanlab/relay/internal/identity"
	"github.com/alfredjeanlab/relay/internal/model"
)

// doJSON performs a request as the given identity, with an optional JSON
// body, and returns the recorder.
func doJSON(t *testing.T, handler http.Handler, who model.Identity, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if who.ID != "" {
		raw, err := identity.Encode(who)
		if err != nil {
			t.Fatalf("encode identity: %v", err)
		}
		req.Header.Set(identity.Header, raw)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// requireStatus asserts the recorder has the expected HTTP status code.
func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("expected status %d, got %d; body: %s", code, rec.Code, rec.Body.String())
	}
}

// decodeJSON decodes the recorder's response body into v.
func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestHTTPIdentityRequired(t *testing.T) {
	handler, _, _, _ := newTestHandler()

	rec := doJSON(t, handler, model.Identity{}, "GET", "/v1/channels", nil)
	requireStatus(t, rec, http.StatusUnauthorized)

	// Garbage header is rejected too.
	req := httptest.NewRequest("GET", "/v1/channels", nil)
	req.Header.Set(identity.Header, "not base64 json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	requireStatus(t, rr, http.StatusUnauthorized)

	// Health needs no identity.
	rec = doJSON(t, handler, model.Identity{}, "GET", "/v1/health", nil)
	requireStatus(t, rec, http.StatusOK)
}

func TestHTTPAuthMiddleware(t *testing.T) {
	s, _, _, _ := newTestServer()
	handler := s.NewHTTPHandler("sekrit")

	raw, _ := identity.Encode(u1)

	do := func(authHeader string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/v1/channels", nil)
		req.Header.Set(identity.Header, raw)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	requireStatus(t, do(""), http.StatusUnauthorized)
	requireStatus(t, do("Basic abc"), http.StatusUnauthorized)
	requireStatus(t, do("Bearer wrong"), http.StatusUnauthorized)
	requireStatus(t, do("Bearer sekrit"), http.StatusOK)

	// Health is exempt from auth.
	req := httptest.NewRequest("GET", "/v1/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	requireStatus(t, rec, http.StatusOK)
}

func TestHTTPChannelLifecycle(t *testing.T) {
	handler, _, _, pub := newTestHandler()

	// Create.
	rec := doJSON(t, handler, u1, "POST", "/v1/channels", map[string]any{
		"name": "team", "visibility": "private", "members": []map[string]string{{"id": "u2"}},
	})
	requireStatus(t, rec, http.StatusCreated)
	var ch model.Channel
	decodeJSON(t, rec, &ch)
	if ch.ID == "" || ch.Name != "team" || len(ch.Members) != 1 {
		t.Fatalf("unexpected channel: %+v", ch)
	}

	// Duplicate name conflicts.
	rec = doJSON(t, handler, u2, "POST", "/v1/channels", map[string]any{"name": "team"})
	requireStatus(t, rec, http.StatusConflict)

	// List reflects visibility: u3 sees nothing.
	rec = doJSON(t, handler, u3, "GET", "/v1/channels", nil)
	requireStatus(t, rec, http.StatusOK)
	var listResp struct {
		Channels []*model.Channel `json:"channels"`
	}
	decodeJSON(t, rec, &listResp)
	if len(listResp.Channels) != 0 {
		t.Fatalf("expected no channels for u3, got %d", len(listResp.Channels))
	}

	// Get returns the channel and a message page for members.
	rec = doJSON(t, handler, u2, "GET", "/v1/channels/"+ch.ID, nil)
	requireStatus(t, rec, http.StatusOK)
	var getResp struct {
		Channel  *model.Channel   `json:"channel"`
		Messages []*model.Message `json:"messages"`
	}
	decodeJSON(t, rec, &getResp)
	if getResp.Channel.ID != ch.ID || getResp.Messages == nil {
		t.Fatalf("unexpected get response: %+v", getResp)
	}

	// Non-member is forbidden, absent channel is not found.
	requireStatus(t, doJSON(t, handler, u3, "GET", "/v1/channels/"+ch.ID, nil), http.StatusForbidden)
	requireStatus(t, doJSON(t, handler, u1, "GET", "/v1/channels/ch-missing", nil), http.StatusNotFound)

	// Update.
	rec = doJSON(t, handler, u1, "PATCH", "/v1/channels/"+ch.ID, map[string]any{"name": "crew"})
	requireStatus(t, rec, http.StatusOK)
	requireStatus(t, doJSON(t, handler, u2, "PATCH", "/v1/channels/"+ch.ID, map[string]any{"name": "mine"}), http.StatusForbidden)
	requireStatus(t, doJSON(t, handler, u1, "PATCH", "/v1/channels/"+ch.ID, map[string]any{}), http.StatusBadRequest)

	// Members.
	requireStatus(t, doJSON(t, handler, u1, "POST", "/v1/channels/"+ch.ID+"/members", map[string]string{"id": "u3"}), http.StatusNoContent)
	requireStatus(t, doJSON(t, handler, u1, "DELETE", "/v1/channels/"+ch.ID+"/members", map[string]string{"id": "u3"}), http.StatusNoContent)
	requireStatus(t, doJSON(t, handler, u2, "POST", "/v1/channels/"+ch.ID+"/members", map[string]string{"id": "u3"}), http.StatusForbidden)

	// Delete.
	requireStatus(t, doJSON(t, handler, u2, "DELETE", "/v1/channels/"+ch.ID, nil), http.StatusForbidden)
	requireStatus(t, doJSON(t, handler, u1, "DELETE", "/v1/channels/"+ch.ID, nil), http.StatusNoContent)
	requireStatus(t, doJSON(t, handler, u1, "GET", "/v1/channels/"+ch.ID, nil), http.StatusNotFound)

	// create, update, delete: one event each; membership and failures none.
	evts := pub.events()
	if len(evts) != 3 {
		t.Fatalf("expected 3 events, got %d", len(evts))
	}
	if evts[2].topic != events.TopicChannelDelete {
		t.Fatalf("got last topic=%q", evts[2].topic)
	}
}

func TestHTTPMessageLifecycle(t *testing.T) {
	handler, _, _, pub := newTestHandler()

	rec := doJSON(t, handler, u1, "POST", "/v1/channels", map[string]any{
		"name": "team", "visibility": "private", "members": []map[string]string{{"id": "u2"}},
	})
	requireStatus(t, rec, http.StatusCreated)
	var ch model.Channel
	decodeJSON(t, rec, &ch)

	// Post into the channel.
	rec = doJSON(t, handler, u1, "POST", "/v1/channels/"+ch.ID, map[string]string{"body": "hi"})
	requireStatus(t, rec, http.StatusCreated)
	var m model.Message
	decodeJSON(t, rec, &m)
	if m.Creator.ID != "u1" || m.Body != "hi" {
		t.Fatalf("unexpected message: %+v", m)
	}

	// Outsiders cannot post or read.
	requireStatus(t, doJSON(t, handler, u3, "POST", "/v1/channels/"+ch.ID, map[string]string{"body": "x"}), http.StatusForbidden)
	requireStatus(t, doJSON(t, handler, u3, "GET", "/v1/channels/"+ch.ID+"/messages", nil), http.StatusForbidden)

	// The member reads the page.
	rec = doJSON(t, handler, u2, "GET", "/v1/channels/"+ch.ID+"/messages", nil)
	requireStatus(t, rec, http.StatusOK)
	var listResp struct {
		Messages []*model.Message `json:"messages"`
	}
	decodeJSON(t, rec, &listResp)
	if len(listResp.Messages) != 1 || listResp.Messages[0].ID != m.ID {
		t.Fatalf("unexpected page: %+v", listResp.Messages)
	}

	// Edit: creator only.
	requireStatus(t, doJSON(t, handler, u2, "PATCH", "/v1/messages/"+m.ID, map[string]string{"body": "nope"}), http.StatusForbidden)
	rec = doJSON(t, handler, u1, "PATCH", "/v1/messages/"+m.ID, map[string]string{"body": "hi again"})
	requireStatus(t, rec, http.StatusOK)
	decodeJSON(t, rec, &m)
	if m.Body != "hi again" || m.EditedAt == nil {
		t.Fatalf("unexpected edited message: %+v", m)
	}

	// Delete: creator only, then gone.
	requireStatus(t, doJSON(t, handler, u2, "DELETE", "/v1/messages/"+m.ID, nil), http.StatusForbidden)
	requireStatus(t, doJSON(t, handler, u1, "DELETE", "/v1/messages/"+m.ID, nil), http.StatusNoContent)
	requireStatus(t, doJSON(t, handler, u1, "PATCH", "/v1/messages/"+m.ID, map[string]string{"body": "x"}), http.StatusNotFound)

	// channel-new, message-new, message-update, message-delete.
	evts := pub.events()
	if len(evts) != 4 {
		t.Fatalf("expected 4 events, got %d", len(evts))
	}
	me := evts[1].event.(events.MessageEvent)
	if len(me.RecipientIDs) != 1 || me.RecipientIDs[0] != "u2" {
		t.Fatalf("got recipients=%v", me.RecipientIDs)
	}
}

func TestHTTPBadJSON(t *testing.T) {
	handler, _, _, _ := newTestHandler()

	raw, _ := identity.Encode(u1)
	for _, tc := range []struct {
		method string
		path   string
	}{
		{"POST", "/v1/channels"},
		{"PATCH", "/v1/channels/ch-x"},
		{"POST", "/v1/channels/ch-x"},
		{"POST", "/v1/channels/ch-x/members"},
		{"PATCH", "/v1/messages/msg-x"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, bytes.NewReader([]byte("{not json")))
		req.Header.Set(identity.Header, raw)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s %s: expected 400, got %d", tc.method, tc.path, rec.Code)
		}
	}
}
