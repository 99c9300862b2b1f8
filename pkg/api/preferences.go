package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/campuskit/notify/pkg/delivery"
	"github.com/campuskit/notify/pkg/preferences"
)

func (h *Handler) getPreferences(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	pref, err := h.prefs.GetOrCreate(r.Context(), userID)
	if err != nil {
		h.logError(r, "get preferences", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pref)
}

func (h *Handler) putPreferences(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var pref preferences.Preference
	if err := decodeJSON(r, &pref); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	// The path owns the identity; a mismatched body is a client error.
	if pref.UserID != "" && pref.UserID != userID {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user id in body does not match path"})
		return
	}
	pref.UserID = userID

	if err := h.prefs.Set(r.Context(), pref); err != nil {
		h.logError(r, "set preferences", err)
		writeError(w, err)
		return
	}

	stored, err := h.prefs.Get(r.Context(), userID)
	if err != nil {
		h.logError(r, "reload preferences", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (h *Handler) recipientAttempts(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	attempts, err := h.tracker.RecipientHistory(r.Context(), userID, limit, offset)
	if err != nil {
		h.logError(r, "list recipient attempts", err)
		writeError(w, err)
		return
	}
	if attempts == nil {
		attempts = []delivery.Attempt{}
	}
	writeJSON(w, http.StatusOK, attempts)
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
