package response

import (
	"encoding/json"
	"net/http"

	apperr "github.com/sefworks/partner-portal/domain/error"
)

// ErrorBody is the structured error shape every endpoint responds
// with: the taxonomy kind plus a human-readable message.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(payload)
}

func Success(w http.ResponseWriter, statusCode int, payload interface{}) {
	WriteJSON(w, statusCode, payload)
}

func Error(w http.ResponseWriter, statusCode int, kind, message string) {
	WriteJSON(w, statusCode, ErrorBody{
		Error:   kind,
		Message: message,
	})
}

// AppError maps a domain error to its HTTP status and wire shape.
// Errors outside the catalog come back as a generic dependency error
// so internals never leak.
func AppError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	if kind == "" {
		Error(w, http.StatusInternalServerError, string(apperr.KindDependency), "Internal server error")
		return
	}
	Error(w, apperr.GetHTTPStatusCode(err), string(kind), err.Error())
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, string(apperr.KindValidation), message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, string(apperr.KindAuthentication), message)
}

func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, string(apperr.KindAuthorization), message)
}

func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, "not_found", message)
}

func InternalServerError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, string(apperr.KindDependency), message)
}
