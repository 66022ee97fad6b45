package server

import (
	"encoding/json"
	"net/http"

	"github.com/alfredjeanlab/relay/internal/identity"
)

// postMessageInput is the body for posting or editing a message.
type postMessageInput struct {
	Body string `json:"body"`
}

// handleListMessages handles GET /v1/channels/{id}/messages.
func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	who, _ := identity.FromContext(r.Context())
	id := r.PathValue("id")

	msgs, err := s.ListMessages(r.Context(), who, id, r.URL.Query().Get("before"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

// handlePostMessage handles POST /v1/channels/{id}.
func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	who, _ := identity.FromContext(r.Context())
	id := r.PathValue("id")

	var in postMessageInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	m, err := s.PostMessage(r.Context(), who, id, in.Body)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, m)
}

// handleEditMessage handles PATCH /v1/messages/{id}.
func (s *Server) handleEditMessage(w http.ResponseWriter, r *http.Request) {
	who, _ := identity.FromContext(r.Context())
	id := r.PathValue("id")

	var in postMessageInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	m, err := s.EditMessage(r.Context(), who, id, in.Body)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, m)
}

// handleDeleteMessage handles DELETE /v1/messages/{id}.
func (s *Server) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	who, _ := identity.FromContext(r.Context())
	id := r.PathValue("id")

	if err := s.DeleteMessage(r.Context(), who, id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
