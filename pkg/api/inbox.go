package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campuskit/notify/pkg/inbox"
	"github.com/campuskit/notify/pkg/notification"
)

func (h *Handler) listInbox(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	opts := inbox.ListOptions{
		Limit:      queryInt(r, "limit", 50),
		Offset:     queryInt(r, "offset", 0),
		OnlyUnread: r.URL.Query().Get("unread") == "true",
	}
	for _, raw := range r.URL.Query()["category"] {
		cat := notification.Category(raw)
		if !cat.Valid() {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("unknown category %q", raw)})
			return
		}
		opts.Categories = append(opts.Categories, cat)
	}

	messages, err := h.inbox.List(r.Context(), userID, opts)
	if err != nil {
		h.logError(r, "list inbox", err)
		writeError(w, err)
		return
	}
	if messages == nil {
		messages = []inbox.Message{}
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *Handler) unreadCount(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	count, err := h.inbox.CountUnread(r.Context(), userID)
	if err != nil {
		h.logError(r, "count unread", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"unread": count})
}

type messageIDsRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req messageIDsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}
	if len(req.IDs) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no message ids"})
		return
	}

	if err := h.inbox.MarkRead(r.Context(), userID, req.IDs...); err != nil {
		h.logError(r, "mark messages read", err)
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteMessages(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req messageIDsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}
	if len(req.IDs) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no message ids"})
		return
	}

	if err := h.inbox.Delete(r.Context(), userID, req.IDs...); err != nil {
		h.logError(r, "delete messages", err)
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
