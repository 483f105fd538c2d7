package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"jobboard/internal/apperr"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const msgTooLarge = "Request body too large"

type errorBody struct {
	Error string `json:"error"`
}

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// fail maps err onto a response. Internal failures are logged and reported
// with the operation's generic message so causes never leak to clients.
func fail(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error, generic string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, msgTooLarge)
		return
	}

	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		writeError(w, http.StatusNotFound, apperr.MessageOf(err))
	case apperr.KindInvalidInput:
		writeError(w, http.StatusBadRequest, apperr.MessageOf(err))
	default:
		logger.Error(generic,
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.Error(err),
			zap.ByteString("stack", apperr.StackOf(err)))
		writeError(w, http.StatusInternalServerError, generic)
	}
}
