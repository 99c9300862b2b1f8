package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/campuskit/notify/pkg/delivery"
	"github.com/campuskit/notify/pkg/inbox"
	"github.com/campuskit/notify/pkg/notifier"
	"github.com/campuskit/notify/pkg/preferences"
	"github.com/campuskit/notify/pkg/scheduler"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

// statusFor maps domain errors onto HTTP status codes. Anything
// unrecognised is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, notifier.ErrNoRecipients),
		errors.Is(err, notifier.ErrNoContent),
		errors.Is(err, notifier.ErrNoChannels),
		errors.Is(err, notifier.ErrInvalidCategory),
		errors.Is(err, notifier.ErrInvalidPriority),
		errors.Is(err, notifier.ErrInvalidChannel),
		errors.Is(err, preferences.ErrInvalidTimeOfDay),
		errors.Is(err, preferences.ErrMissingUserID):
		return http.StatusUnprocessableEntity
	case errors.Is(err, notifier.ErrUnknownRecipient),
		errors.Is(err, delivery.ErrNotFound),
		errors.Is(err, inbox.ErrNotFound),
		errors.Is(err, preferences.ErrNotFound),
		errors.Is(err, scheduler.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, delivery.ErrInvalidTransition),
		errors.Is(err, scheduler.ErrNotCancellable):
		return http.StatusConflict
	case errors.Is(err, notifier.ErrSchedulingUnavailable):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
