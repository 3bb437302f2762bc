package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// ErrMissingID is returned when an update or delete names no todo.
var ErrMissingID = errors.New("todo id is required")

// FetchError is the one error kind the client reports for a failed round
// trip: a non-2xx status, a transport failure (StatusCode 0) or a success
// body that could not be turned into todos.
type FetchError struct {
	Op         string
	StatusCode int
	StatusText string
	Reason     string
	Err        error

	body []byte
}

func (e *FetchError) Error() string {
	return "failed to " + e.Op + ": " + e.Reason
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err is a 401 or 403 from the API.
func IsUnauthorized(err error) bool {
	var fe *FetchError
	if !errors.As(err, &fe) {
		return false
	}
	return fe.StatusCode == http.StatusUnauthorized || fe.StatusCode == http.StatusForbidden
}

// StatusCode returns the HTTP status behind err, or 0.
func StatusCode(err error) int {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.StatusCode
	}
	return 0
}

func statusError(op string, resp *http.Response, body []byte) *FetchError {
	text := reasonPhrase(resp)
	return &FetchError{
		Op:         op,
		StatusCode: resp.StatusCode,
		StatusText: text,
		Reason:     text,
		body:       body,
	}
}

func networkError(op string, err error) *FetchError {
	return &FetchError{
		Op:     op,
		Reason: "network error: " + err.Error(),
		Err:    err,
	}
}

func responseError(op string, status int, err error) *FetchError {
	return &FetchError{
		Op:         op,
		StatusCode: status,
		StatusText: http.StatusText(status),
		Reason:     "invalid response: " + err.Error(),
		Err:        err,
	}
}

// reasonPhrase is the text the server put after the status code, falling
// back to the standard text for the code.
func reasonPhrase(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	if text == "" {
		text = "status " + strconv.Itoa(resp.StatusCode)
	}
	return text
}

// serverMessage digs a {"message": "..."} out of an error body.
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
