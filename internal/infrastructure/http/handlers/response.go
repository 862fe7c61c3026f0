package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/render"
	"github.com/rs/zerolog"

	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeErr sends JSON { "error": message, "code": errCode }. If errCode is empty, a default is used from code.
func writeErr(w http.ResponseWriter, r *http.Request, code int, errCode string, message string) {
	if errCode == "" {
		errCode = defaultErrCode(code)
	}
	render.Status(r, code)
	render.JSON(w, r, errorResponse{Error: message, Code: errCode})
}

func defaultErrCode(httpCode int) string {
	switch httpCode {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusForbidden:
		return ErrCodeForbidden
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusTooManyRequests:
		return ErrCodeAccountLocked
	default:
		return ErrCodeInternal
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, v interface{}) {
	render.Status(r, code)
	render.JSON(w, r, v)
}

// writeDomainErr maps application errors to HTTP. Anything unrecognised is logged and hidden behind a 500.
func writeDomainErr(w http.ResponseWriter, r *http.Request, log zerolog.Logger, err error) {
	var locked *domerrors.LockedError
	switch {
	case errors.As(err, &locked):
		w.Header().Set("Retry-After", strconv.Itoa(locked.RetryAfterSeconds))
		writeErr(w, r, http.StatusTooManyRequests, ErrCodeAccountLocked, domerrors.ErrAccountLocked.Error())
	case errors.Is(err, domerrors.ErrAccountLocked):
		writeErr(w, r, http.StatusTooManyRequests, ErrCodeAccountLocked, err.Error())
	case errors.Is(err, domerrors.ErrInvalidCredentials):
		writeErr(w, r, http.StatusUnauthorized, ErrCodeInvalidCredentials, err.Error())
	case errors.Is(err, domerrors.ErrEmailAlreadyRegistered):
		writeErr(w, r, http.StatusBadRequest, ErrCodeEmailAlreadyRegistered, err.Error())
	case errors.Is(err, domerrors.ErrInvalidInput):
		writeErr(w, r, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
	case errors.Is(err, domerrors.ErrUnauthorized):
		writeErr(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, err.Error())
	case errors.Is(err, domerrors.ErrForbidden):
		writeErr(w, r, http.StatusForbidden, ErrCodeForbidden, err.Error())
	case errors.Is(err, domerrors.ErrNotFound):
		writeErr(w, r, http.StatusNotFound, ErrCodeNotFound, err.Error())
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeErr(w, r, http.StatusInternalServerError, ErrCodeInternal, "internal error")
	}
}
