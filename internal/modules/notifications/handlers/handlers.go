// Package handlers provides HTTP handlers for notification management.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/eyaachaabene/agrimarket/internal/modules/notifications"
)

// Handler handles notification HTTP requests.
// The authenticated user id arrives from the session layer; here it is read
// from the X-User-Id header the auth middleware sets upstream.
type Handler struct {
	repo *notifications.Repository
	log  zerolog.Logger
}

// NewHandler creates a new notification handler
func NewHandler(repo *notifications.Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "notifications").Logger(),
	}
}

// HandleList returns the user's notifications, newest first.
// GET /api/notifications?unread=true
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	if userID == "" {
		h.writeError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"

	list, err := h.repo.ListForUser(userID, unreadOnly)
	if err != nil {
		h.log.Error().Err(err).Str("user", userID).Msg("Failed to list notifications")
		h.writeError(w, http.StatusInternalServerError, "Failed to list notifications")
		return
	}

	if list == nil {
		list = []notifications.Notification{}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": list,
	})
}

// HandleMarkRead sets the read flag on one notification.
// PATCH /api/notifications/{id}/read
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	if userID == "" {
		h.writeError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	id := chi.URLParam(r, "id")

	ok, err := h.repo.MarkRead(userID, id)
	if err != nil {
		h.log.Error().Err(err).Str("notification", id).Msg("Failed to mark notification read")
		h.writeError(w, http.StatusInternalServerError, "Failed to mark notification read")
		return
	}
	if !ok {
		h.writeError(w, http.StatusNotFound, "Notification not found")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleDelete removes one notification.
// DELETE /api/notifications/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	if userID == "" {
		h.writeError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	id := chi.URLParam(r, "id")

	ok, err := h.repo.Delete(userID, id)
	if err != nil {
		h.log.Error().Err(err).Str("notification", id).Msg("Failed to delete notification")
		h.writeError(w, http.StatusInternalServerError, "Failed to delete notification")
		return
	}
	if !ok {
		h.writeError(w, http.StatusNotFound, "Notification not found")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// requestUserID extracts the authenticated user id set by the auth layer.
func requestUserID(r *http.Request) string {
	return r.Header.Get("X-User-Id")
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
