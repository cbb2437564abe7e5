package adapter

import (
	"github.com/lambda-feedback/appshim/event"
)

// errorBody is the body of adapter error responses.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Trace   string `json:"trace,omitempty"`
}

// newErrorResponse creates a new json error response.
func newErrorResponse(status int, title string, err error, trace string) event.Response {
	return newJSONResponse(status, errorBody{
		Error:   title,
		Message: err.Error(),
		Trace:   trace,
	})
}
