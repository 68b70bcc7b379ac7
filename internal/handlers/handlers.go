package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/vancomm/boomsweeper/internal/mines"
	"github.com/vancomm/boomsweeper/internal/session"
)

var ErrNoSession = errors.New("no game session")

func SendJSON(w http.ResponseWriter, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Add("Content-Type", "application/json")
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, logger *slog.Logger, v any) {
	_, err := SendJSON(w, v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error(
			"unable to send response",
			slog.Any("response", v),
			slog.Any("error", err),
		)
	}
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}

func statusOf(err error) int {
	var decodeErr schema.MultiError
	switch {
	case errors.Is(err, mines.ErrInvalidArgument), errors.As(err, &decodeErr):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotFound), errors.Is(err, ErrNoSession):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// sendError answers with the status err maps to. Internal errors are
// logged and not shown to the client.
func sendError(w http.ResponseWriter, logger *slog.Logger, err error, msg string) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.Error(msg, slog.Any("error", err))
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(wrapError(err)); err != nil {
		logger.Error("unable to send error", slog.Any("error", err))
	}
}
