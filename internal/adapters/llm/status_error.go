// Package llm talks to language model endpoints: the application's own chat
// gateway on the way out of a chat session, and the model providers behind it.
package llm

import (
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody caps how much of a failed response body is kept.
const maxErrorBody = 4 << 10

// StatusError is returned when an endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("llm endpoint returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("llm endpoint returned status %d: %s", e.StatusCode, e.Body)
}

// HTTPStatus reports the status code of the failed response.
func (e *StatusError) HTTPStatus() int {
	return e.StatusCode
}

// statusErrorFrom drains and closes resp.Body.
func statusErrorFrom(resp *http.Response) *StatusError {
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
}
