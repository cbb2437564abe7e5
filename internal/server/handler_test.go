package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func textHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body + " " + r.URL.Path))
	})
}

func TestNewRouter_SingleRoute(t *testing.T) {
	root := textHandler("root")

	router := NewRouter([]*HttpHandler{{Name: "/", Handler: root}})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/x/../y", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "root /x/../y", w.Body.String())
}

func TestNewRouter_ExactRoutes(t *testing.T) {
	router := NewRouter([]*HttpHandler{
		{Name: "/metrics", Handler: textHandler("metrics")},
		{Name: "/", Handler: textHandler("root")},
	})

	tests := map[string]string{
		"/metrics":       "metrics /metrics",
		"/metrics/":      "root /metrics/",
		"//metrics":      "root //metrics",
		"/api//health":   "root /api//health",
		"/x/../metrics":  "root /x/../metrics",
		"/anything/else": "root /anything/else",
	}

	for path, expected := range tests {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, expected, w.Body.String())
		})
	}
}

func TestNewRouter_NoRoot(t *testing.T) {
	router := NewRouter([]*HttpHandler{{Name: "/metrics", Handler: textHandler("metrics")}})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/other", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
