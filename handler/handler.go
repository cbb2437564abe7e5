package handler

import (
	"context"
	"io"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/lambda-feedback/appshim/adapter"
	"github.com/lambda-feedback/appshim/event"
)

// EventHandler handles invocation events.
type EventHandler interface {
	Handle(ctx context.Context, req event.Request) event.Response
	BadRequest(req event.Request, err error) event.Response
}

var _ EventHandler = (*adapter.Adapter)(nil)

type AdapterHandlerParams struct {
	fx.In

	Adapter *adapter.Adapter
	Log     *zap.Logger
}

func NewAdapterHandler(params AdapterHandlerParams) *AdapterHandler {
	return &AdapterHandler{
		handler: params.Adapter,
		log:     params.Log,
	}
}

// AdapterHandler serves http requests through the adapter.
type AdapterHandler struct {
	handler EventHandler
	log     *zap.Logger
}

func (h *AdapterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
	)

	var response event.Response

	// Read the body
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("failed to read body", zap.Error(err))
		response = h.handler.BadRequest(event.FromHTTP(r, nil), err)
	} else {
		// Handle the request
		response = h.handler.Handle(r.Context(), event.FromHTTP(r, body))
	}

	// Write response headers, status code and body
	if err := response.Write(w); err != nil {
		log.Debug("failed to write response", zap.Error(err))
	}
}
