package adapter

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/lambda-feedback/appshim/event"
)

type healthResponder struct {
	paths   map[string]struct{}
	message string
}

type healthBody struct {
	Status     string     `json:"status"`
	Message    string     `json:"message"`
	ServerInfo serverInfo `json:"server_info"`
}

type serverInfo struct {
	Path   string `json:"path"`
	Method string `json:"method"`
}

func newHealthResponder(cfg HealthConfig) healthResponder {
	paths := make(map[string]struct{}, len(cfg.Paths))
	for _, path := range cfg.Paths {
		// an empty path would shadow the application root
		if p := normalizePath(path); p != "" {
			paths[p] = struct{}{}
		}
	}

	return healthResponder{
		paths:   paths,
		message: cfg.Message,
	}
}

// match reports whether the path is a health check path.
// The comparison is case-sensitive.
func (h healthResponder) match(path string) bool {
	_, ok := h.paths[normalizePath(path)]
	return ok
}

func (h healthResponder) respond(req event.Request) event.Response {
	return newJSONResponse(http.StatusOK, healthBody{
		Status:  "ok",
		Message: h.message,
		ServerInfo: serverInfo{
			Path:   req.Path,
			Method: req.Method,
		},
	})
}

func normalizePath(path string) string {
	return strings.Trim(path, "/")
}

// newJSONResponse creates a new json response.
func newJSONResponse(status int, v any) event.Response {
	body, err := json.Marshal(v)
	if err != nil {
		return event.Response{
			StatusCode: http.StatusInternalServerError,
			Headers:    map[string]string{},
		}
	}

	return event.Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}
