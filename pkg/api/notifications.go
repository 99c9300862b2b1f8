package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campuskit/notify/pkg/delivery"
	"github.com/campuskit/notify/pkg/notifier"
)

func (h *Handler) sendNotification(w http.ResponseWriter, r *http.Request) {
	var req notifier.SendRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	res, err := h.svc.Send(r.Context(), req)
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			h.logError(r, "send notification", err)
		}
		writeError(w, err)
		return
	}

	status := http.StatusCreated
	if res.Queued || res.Scheduled {
		status = http.StatusAccepted
	}
	writeJSON(w, status, res)
}

func (h *Handler) notificationAttempts(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid notification id"})
		return
	}

	attempts, err := h.tracker.History(r.Context(), id)
	if err != nil {
		h.logError(r, "list notification attempts", err)
		writeError(w, err)
		return
	}
	if attempts == nil {
		attempts = []delivery.Attempt{}
	}
	writeJSON(w, http.StatusOK, attempts)
}

func (h *Handler) notificationStats(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid notification id"})
		return
	}

	stats, err := h.tracker.Stats(r.Context(), id)
	if err != nil {
		h.logError(r, "aggregate notification stats", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type bounceRequest struct {
	Reason string `json:"reason"`
}

// confirmDelivered is the provider webhook target for delivery receipts.
func (h *Handler) confirmDelivered(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid attempt id"})
		return
	}

	attempt, err := h.tracker.Deliver(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attempt)
}

// recordBounce is the provider webhook target for bounce reports.
func (h *Handler) recordBounce(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid attempt id"})
		return
	}

	var req bounceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	attempt, err := h.tracker.Bounce(r.Context(), id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attempt)
}
