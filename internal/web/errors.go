package web

// errors.go turns session errors into responses. Technical details are
// logged with the request ID; clients get the core.MapError message, as JSON
// for /api routes and as plain text otherwise.

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/stockaudit/internal/core"
	"github.com/JonMunkholm/stockaudit/internal/logging"
)

// ErrorResponse is the JSON body of an API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// errBadRequest marks malformed client input.
var errBadRequest = errors.New("bad request")

// statusFor picks the HTTP status for a session error.
func statusFor(err error) int {
	var impErr *core.ImportError
	var expErr *core.ExportError
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrSessionState):
		return http.StatusConflict
	case errors.As(err, &expErr), errors.As(err, &impErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes a user-facing error response.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	userMsg := core.MapError(err)
	if errors.Is(err, errBadRequest) {
		userMsg = core.UserMessage{Message: strings.TrimSuffix(err.Error(), ": "+errBadRequest.Error()), Code: "REQ001"}
	}

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	if wantsJSON(r) {
		writeJSON(w, status, ErrorResponse{
			Error:   userMsg.Message,
			Message: userMsg.Message,
			Action:  userMsg.Action,
			Code:    userMsg.Code,
		})
		return
	}
	http.Error(w, userMsg.Message+" ("+userMsg.Code+")", status)
}

// wantsJSON checks if the client prefers a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}
