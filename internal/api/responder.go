package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/utakatalp/league-engine/internal/league"
	"github.com/utakatalp/league-engine/internal/live"
	"github.com/utakatalp/league-engine/internal/logging"
	"github.com/utakatalp/league-engine/internal/store"
)

const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error(logger, "failed to encode response", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	body := map[string]string{"error": message}
	if reqID := requestIDFromContext(r.Context()); reqID != "" {
		body["request_id"] = reqID
	}
	writeJSON(w, status, body, logger)
}

// fail maps err to a status code and writes it. Unexpected errors are logged and
// reported without detail.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	logger := s.loggerFor(r)
	status := statusFor(err)
	msg := err.Error()
	var rejection *live.RejectionError
	switch {
	case errors.As(err, &rejection):
		msg = rejection.Reason
	case status == http.StatusInternalServerError:
		logging.Error(logger, "request failed", err)
		msg = "internal error"
	}
	writeError(w, r, status, msg, logger)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, league.ErrNotEnoughTeams):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrTeamNotFound),
		errors.Is(err, store.ErrFixtureNotFound),
		errors.Is(err, errSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, live.ErrRejected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, live.ErrDecisionPending),
		errors.Is(err, live.ErrNoDecisionPending),
		errors.Is(err, live.ErrMatchFinished),
		errors.Is(err, store.ErrAlreadyPlayed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return nil
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}
