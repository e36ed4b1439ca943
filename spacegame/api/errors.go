package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Error is a failure reported by the game API.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

// DecodeError turns a non-2xx response into an *Error and closes the body.
// The message is the server's "detail" field when present, otherwise
// fallback.
func DecodeError(resp *http.Response, fallback string) error {
	defer resp.Body.Close()

	apiErr := &Error{Status: resp.StatusCode, Detail: fallback}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}

	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}

	switch detail := payload.Detail.(type) {
	case string:
		if detail != "" {
			apiErr.Detail = detail
		}
	case nil:
	default:
		// validation errors come back as a list of objects
		if raw, err := json.Marshal(detail); err == nil {
			apiErr.Detail = fmt.Sprintf("%s: %s", fallback, raw)
		}
	}

	return apiErr
}
