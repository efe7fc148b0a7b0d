package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"clementus360/wellness-sessions/config"
	"clementus360/wellness-sessions/middleware"
	"clementus360/wellness-sessions/sessions"
	"clementus360/wellness-sessions/types"
)

type Handler struct {
	service    *sessions.Service
	production bool
}

func New(service *sessions.Service, production bool) *Handler {
	return &Handler{service: service, production: production}
}

// callerOrReject returns the authenticated caller. Routes behind AuthMiddleware
// always have one; this guards against a route being registered without it.
func callerOrReject(w http.ResponseWriter, r *http.Request) (types.Caller, bool) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
	}
	return caller, ok
}

// GetPublicSessionsHandler lists published sessions with their author. No auth.
func (h *Handler) GetPublicSessionsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListPublic(r.Context())
	if err != nil {
		h.writeServiceError(w, err, "Failed to fetch sessions")
		return
	}

	writeJSON(w, http.StatusOK, types.GetPublicSessionsResponse{
		Success:  true,
		Sessions: list,
	})
}

func (h *Handler) GetMySessionsHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}

	list, err := h.service.ListMine(r.Context(), caller.UserID)
	if err != nil {
		h.writeServiceError(w, err, "Failed to fetch your sessions")
		return
	}

	writeJSON(w, http.StatusOK, types.GetSessionsResponse{
		Success:  true,
		Sessions: types.Views(list),
	})
}

func (h *Handler) GetMySessionHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}

	sessionID := r.PathValue("id")
	if sessionID == "" {
		writeError(w, "Missing session ID", http.StatusBadRequest)
		return
	}

	session, err := h.service.Get(r.Context(), caller.UserID, sessionID)
	if err != nil {
		h.writeServiceError(w, err, "Failed to fetch session")
		return
	}

	writeJSON(w, http.StatusOK, types.SessionResponse{
		Success: true,
		Session: session.View(),
	})
}

// SaveDraftHandler creates a draft, or updates the caller's session when sessionId is set.
func (h *Handler) SaveDraftHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}

	var body types.SaveDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.Logger.Warn("Invalid draft request body: ", err)
		writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(body.Title) == "" || strings.TrimSpace(body.ContentURL) == "" {
		writeError(w, "Title and content URL are required", http.StatusBadRequest)
		return
	}

	session, err := h.service.SaveDraft(r.Context(), caller, sessions.DraftInput{
		Title:      body.Title,
		Tags:       body.Tags,
		ContentURL: body.ContentURL,
		SessionID:  strings.TrimSpace(body.SessionID),
	})
	if err != nil {
		h.writeServiceError(w, err, "Failed to save draft")
		return
	}

	writeJSON(w, http.StatusOK, types.SessionResponse{
		Success: true,
		Message: "Draft saved successfully",
		Session: session.View(),
	})
}

func (h *Handler) PublishSessionHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}

	var body types.PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.SessionID) == "" {
		config.Logger.Warn("Invalid or missing session ID in publish request: ", err)
		writeError(w, "Session ID is required", http.StatusBadRequest)
		return
	}

	session, err := h.service.Publish(r.Context(), caller.UserID, strings.TrimSpace(body.SessionID))
	if err != nil {
		h.writeServiceError(w, err, "Failed to publish session")
		return
	}

	writeJSON(w, http.StatusOK, types.SessionResponse{
		Success: true,
		Message: "Session published successfully",
		Session: session.View(),
	})
}

func (h *Handler) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}

	sessionID := r.PathValue("id")
	if sessionID == "" {
		writeError(w, "Missing session ID", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), caller.UserID, sessionID); err != nil {
		h.writeServiceError(w, err, "Failed to delete session")
		return
	}

	writeJSON(w, http.StatusOK, types.DeleteSessionResponse{
		Success: true,
		Message: "Session deleted successfully",
	})
}

// MeHandler returns the identity resolved from the bearer token.
func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, types.MeResponse{Success: true, User: caller})
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.HealthResponse{
		Status:  "OK",
		Message: "Wellness session API is running",
	})
}

func (h *Handler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeError(w, "Route not found", http.StatusNotFound)
}
