package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"clementus360/wellness-sessions/config"
	"clementus360/wellness-sessions/types"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, message string, status int) {
	resp := types.ErrorResponse{
		Success:      false,
		ErrorMessage: message,
	}
	writeJSON(w, status, resp)
}

// writeServiceError maps a service error onto the response status. Unexpected
// failures get the generic message; err is only echoed outside production.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error, generic string) {
	var ve *types.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, ve.Error(), http.StatusBadRequest)
	case errors.Is(err, types.ErrNotFound):
		writeError(w, "Session not found", http.StatusNotFound)
	default:
		config.Logger.Error(generic+": ", err)
		resp := types.ErrorResponse{
			Success:      false,
			ErrorMessage: generic,
		}
		if !h.production {
			resp.Message = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, resp)
	}
}
