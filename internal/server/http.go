package server

import (
	"encoding/json"
	"errors"
	"net/http"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header. Every route except health
// also requires an X-User identity header.
func (s *Server) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/channels", s.handleListChannels)
	mux.HandleFunc("POST /v1/channels", s.handleCreateChannel)
	mux.HandleFunc("GET /v1/channels/{id}", s.handleGetChannel)
	mux.HandleFunc("POST /v1/channels/{id}", s.handlePostMessage)
	mux.HandleFunc("PATCH /v1/channels/{id}", s.handleUpdateChannel)
	mux.HandleFunc("DELETE /v1/channels/{id}", s.handleDeleteChannel)
	mux.HandleFunc("GET /v1/channels/{id}/messages", s.handleListMessages)
	mux.HandleFunc("POST /v1/channels/{id}/members", s.handleAddMember)
	mux.HandleFunc("DELETE /v1/channels/{id}/members", s.handleRemoveMember)
	mux.HandleFunc("PATCH /v1/messages/{id}", s.handleEditMessage)
	mux.HandleFunc("DELETE /v1/messages/{id}", s.handleDeleteMessage)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	return LoggingMiddleware(RecoveryMiddleware(AuthMiddleware(authToken, IdentityMiddleware(mux))))
}

// handleHealth handles GET /v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service-layer error kinds onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var (
		ie inputError
		ce conflictError
		ne notFoundError
		fe forbiddenError
	)
	switch {
	case errors.As(err, &ie):
		writeError(w, http.StatusBadRequest, ie.Error())
	case errors.As(err, &ce):
		writeError(w, http.StatusConflict, ce.Error())
	case errors.As(err, &ne):
		writeError(w, http.StatusNotFound, ne.Error())
	case errors.As(err, &fe):
		writeError(w, http.StatusForbidden, fe.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
