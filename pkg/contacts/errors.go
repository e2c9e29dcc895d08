package contacts

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// StatusError reports a non-success HTTP status with no usable error body.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("contacts api: http error, status %d", e.Status)
}

// ValidationError carries the server-side validation message the API
// returns for rejected create/update bodies. Error() is the message
// verbatim, as the server phrased it.
type ValidationError struct {
	Status int
	Msg    string
}

func (e *ValidationError) Error() string { return e.Msg }

// validationBody is the FastAPI error envelope: {"detail":[{"msg":"..."}]}.
type validationBody struct {
	Detail []struct {
		Msg string `json:"msg"`
	} `json:"detail"`
}

// errorFromBody extracts the validation message from an error body.
// Malformed or empty bodies fall back to the plain status error rather
// than failing while parsing the failure.
func errorFromBody(status int, body []byte) error {
	var vb validationBody
	if err := json.Unmarshal(body, &vb); err == nil && len(vb.Detail) > 0 {
		if msg := strings.TrimSpace(vb.Detail[0].Msg); msg != "" {
			return &ValidationError{Status: status, Msg: msg}
		}
	}
	return &StatusError{Status: status}
}

// responseSnippet trims an error body for log output.
func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
