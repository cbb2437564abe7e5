package application

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime/debug"

	"github.com/lambda-feedback/appshim/event"
)

// Handler serves requests with an in-process http.Handler.
type Handler struct {
	handler http.Handler
}

var _ Application = (*Handler)(nil)

// FromHandler wraps an http.Handler as an Application.
func FromHandler(handler http.Handler) *Handler {
	return &Handler{handler: handler}
}

// Serve invokes the handler with the translated request. A panic
// raised by the handler is returned as a *PanicError.
func (h *Handler) Serve(ctx context.Context, req event.Request) (res event.Response, err error) {
	r, err := req.HTTPRequest(ctx, nil)
	if err != nil {
		return res, err
	}

	defer func() {
		if v := recover(); v != nil {
			// the stdlib sentinel asks the server to abort the response
			if v == http.ErrAbortHandler {
				err = http.ErrAbortHandler
				return
			}
			err = NewPanicError(v, debug.Stack())
		}
	}()

	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, r)

	result := w.Result()

	return event.NewResponse(result.StatusCode, result.Header, w.Body.Bytes()), nil
}
