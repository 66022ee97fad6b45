package server

import (
	"encoding/json"
	"net/http"

	"github.com/alfredjeanlab/relay/internal/identity"
	"github.com/alfredjeanlab/relay/internal/model"
)

// handleListChannels handles GET /v1/channels.
func (s *Server) handleListChannels(w http.ResponseWriter, r *http.Request) {
	who, _ := identity.FromContext(r.Context())

	channels, err := s.ListChannels(r.Context(), who)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"channels": channels})
}

// handleCreateChannel handles POST /v1/channels.
func (s *Server) handleCreateChannel(w http.ResponseWriter, r *http.Request) {
	who, _ := identity.FromContext(r.Context())

	var in createChannelInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ch, err := s.CreateChannel(r.Context(), who, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, ch)
}

// handleGetChannel handles GET /v1/channels/{id}. The response carries the
// channel plus a page of its newest messages; a "before" query parameter
// pages backward through history.
func (s *Server) handleGetChannel(w http.ResponseWriter, r *http.Request) {
	who, _ := identity.FromContext(r.Context())
	id := r.PathValue("id")

	ch, msgs, err := s.GetChannel(r.Context(), who, id, r.URL.Query().Get("before"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"channel":  ch,
		"messages": msgs,
	})
}

// handleUpdateChannel handles PATCH /v1/channels/{id}.
func (s *Server) handleUpdateChannel(w http.ResponseWriter, r *http.Request) {
	who, _ := identity.FromContext(r.Context())
	id := r.PathValue("id")

	var in updateChannelInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ch, err := s.UpdateChannel(r.Context(), who, id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ch)
}

// handleDeleteChannel handles DELETE /v1/channels/{id}.
func (s *Server) handleDeleteChannel(w http.ResponseWriter, r *http.Request) {
	who, _ := identity.FromContext(r.Context())
	id := r.PathValue("id")

	if err := s.DeleteChannel(r.Context(), who, id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleAddMember handles POST /v1/channels/{id}/members. The body is the
// member identity to add.
func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	who, _ := identity.FromContext(r.Context())
	id := r.PathValue("id")

	var member model.Identity
	if err := json.NewDecoder(r.Body).Decode(&member); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.AddMember(r.Context(), who, id, member); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleRemoveMember handles DELETE /v1/channels/{id}/members. The body
// names the member id to remove.
func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	who, _ := identity.FromContext(r.Context())
	id := r.PathValue("id")

	var member model.Identity
	if err := json.NewDecoder(r.Body).Decode(&member); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.RemoveMember(r.Context(), who, id, member.ID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
