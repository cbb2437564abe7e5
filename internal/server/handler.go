package server

import (
	"net/http"

	"go.uber.org/fx"
)

type HttpHandler struct {
	Name    string
	Handler http.Handler
}

type HttpHandlerResult struct {
	fx.Out

	Handler *HttpHandler `group:"handlers"`
}

func AsHttpHandler(
	name string,
	handler http.Handler,
) HttpHandlerResult {
	return HttpHandlerResult{
		Handler: &HttpHandler{
			Name:    name,
			Handler: handler,
		},
	}
}

// NewRouter routes requests to the handlers by exact path match.
// The handler named "/" receives every other request with its path
// untouched, unlike http.ServeMux which redirects unclean paths.
func NewRouter(handlers []*HttpHandler) http.Handler {
	var fallback http.Handler = http.NotFoundHandler()
	routes := make(map[string]http.Handler, len(handlers))

	for _, h := range handlers {
		if h.Name == "/" {
			fallback = h.Handler
			continue
		}
		routes[h.Name] = h.Handler
	}

	if len(routes) == 0 {
		return fallback
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := routes[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}

		fallback.ServeHTTP(w, r)
	})
}
