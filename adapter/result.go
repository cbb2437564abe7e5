package adapter

import (
	"errors"
	"net/http"

	"github.com/lambda-feedback/appshim/event"
)

// ErrMissingStatus is returned when the application answers without
// a status code.
var ErrMissingStatus = errors.New("application response is missing a status code")

// Result is the outcome of delegating a request to the application,
// either a response or the error that prevented one.
type Result struct {
	response event.Response
	err      error
}

// Success creates a successful result.
func Success(res event.Response) Result {
	return Result{response: res}
}

// Failure creates a failed result.
func Failure(err error) Result {
	return Result{err: err}
}

// Ok reports whether the result is a success.
func (r Result) Ok() bool {
	return r.err == nil
}

// Response returns the response of a successful result.
func (r Result) Response() event.Response {
	return r.response
}

// Err returns the error of a failed result.
func (r Result) Err() error {
	return r.err
}

// StatusCode returns the status code the result will be answered with.
func (r Result) StatusCode() int {
	if r.err != nil {
		return http.StatusInternalServerError
	}

	return r.response.StatusCode
}
