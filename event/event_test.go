package event_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lambda-feedback/appshim/event"
)

func TestFromHTTP(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "http://api.example.com/api/items?page=2", strings.NewReader("data"))
	r.Header.Add("Accept", "text/html")
	r.Header.Add("Accept", "application/json")

	req := event.FromHTTP(r, []byte("data"))

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/items", req.Path)
	assert.Equal(t, "2", req.Query().Get("page"))
	assert.Equal(t, "text/html, application/json", req.Header("accept"))
	assert.Equal(t, "api.example.com", req.Header("Host"))
	assert.Equal(t, "data", string(req.Body))
}

func TestRequest_HTTPRequest(t *testing.T) {
	req := event.Request{
		Method:   http.MethodPut,
		Path:     "/api/items/1",
		RawQuery: "force=true",
		Headers:  map[string]string{"Content-Type": "text/plain", "Host": "app.local"},
		Body:     []byte("payload"),
	}

	r, err := req.HTTPRequest(context.Background(), mustParse(t, "http://127.0.0.1:8000/"))
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, r.Method)
	assert.Equal(t, "http://127.0.0.1:8000/api/items/1?force=true", r.URL.String())
	assert.Equal(t, "app.local", r.Host)
	assert.Equal(t, "text/plain", r.Header.Get("Content-Type"))
	assert.EqualValues(t, 7, r.ContentLength)

	body, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(body))
}

func TestRequest_HTTPRequest_ServerSide(t *testing.T) {
	req := event.Request{Method: http.MethodGet, Path: "/"}

	r, err := req.HTTPRequest(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, "/", r.RequestURI)
	assert.Equal(t, "/", r.URL.Path)
}

func TestRequest_HTTPRequest_EscapedPath(t *testing.T) {
	tests := []struct {
		path    string
		decoded string
		uri     string
	}{
		{"/files/100%25", "/files/100%", "/files/100%25"},
		{"/files/a%3Fb", "/files/a?b", "/files/a%3Fb"},
		{"/files/a%2Fb", "/files/a/b", "/files/a%2Fb"},
		{"/x/../y", "/x/../y", "/x/../y"},
		{"/files/100%", "/files/100%", "/files/100%25"},
		{"/my file", "/my file", "/my%20file"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := event.Request{Method: http.MethodGet, Path: tt.path}

			r, err := req.HTTPRequest(context.Background(), nil)
			require.NoError(t, err)

			assert.Equal(t, tt.decoded, r.URL.Path)
			assert.Equal(t, tt.uri, r.RequestURI)
			assert.Empty(t, r.URL.RawQuery)
		})
	}
}

func TestRequest_HTTPRequest_BasePath(t *testing.T) {
	req := event.Request{Method: http.MethodGet, Path: "/files/a%2Fb", RawQuery: "z=1&a=2&flag"}

	r, err := req.HTTPRequest(context.Background(), mustParse(t, "http://127.0.0.1:8000/app/"))
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8000/app/files/a%2Fb?z=1&a=2&flag", r.URL.String())
	assert.Equal(t, "/app/files/a/b", r.URL.Path)
	assert.Equal(t, "127.0.0.1:8000", r.Host)
}

func TestRequest_URL(t *testing.T) {
	assert.Equal(t, "/", event.Request{}.URL())
	assert.Equal(t, "/a%3Fb?flag&b=2&a=1", event.Request{Path: "/a%3Fb", RawQuery: "flag&b=2&a=1"}.URL())
}

func TestFromHTTP_PreservesRawPathAndQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/files/100%25/a%3Fb?z=1&a=2&flag", nil)

	req := event.FromHTTP(r, nil)

	assert.Equal(t, "/files/100%25/a%3Fb", req.Path)
	assert.Equal(t, "z=1&a=2&flag", req.RawQuery)
	assert.Equal(t, []string{""}, req.Query()["flag"])
}

func mustParse(t *testing.T, rawURL string) *url.URL {
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return u
}

func TestNewResponse(t *testing.T) {
	header := http.Header{}
	header.Set("content-type", "text/html")
	header.Add("Set-Cookie", "a=1")
	header.Add("Set-Cookie", "b=2")

	res := event.NewResponse(http.StatusCreated, header, []byte("<p>ok</p>"))

	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, "text/html", res.Headers["Content-Type"])
	assert.Equal(t, []string{"a=1", "b=2"}, res.MultiValueHeaders["Set-Cookie"])
	assert.Equal(t, "<p>ok</p>", res.Body)
	assert.False(t, res.IsBase64Encoded)

	assert.Equal(t, []string{"a=1", "b=2"}, res.Header().Values("Set-Cookie"))
}

func TestNewResponse_Binary(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47, 0xff}

	res := event.NewResponse(http.StatusOK, nil, payload)
	assert.True(t, res.IsBase64Encoded)

	raw, err := res.RawBody()
	require.NoError(t, err)
	assert.Equal(t, payload, raw)
}

func TestResponse_SetHeader(t *testing.T) {
	res := event.Response{
		Headers: map[string]string{"access-control-allow-origin": "https://evil.example.com"},
		MultiValueHeaders: map[string][]string{
			"Vary": {"Accept", "Cookie"},
		},
	}

	res.SetHeader("Access-Control-Allow-Origin", "*")
	res.SetHeader("vary", "Origin")

	assert.Equal(t, map[string]string{
		"Access-Control-Allow-Origin": "*",
		"Vary":                        "Origin",
	}, res.Headers)
	assert.Empty(t, res.MultiValueHeaders)
}

func TestResponse_Write(t *testing.T) {
	res := event.Response{
		StatusCode: http.StatusAccepted,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       `{"ok":true}`,
	}

	w := httptest.NewRecorder()
	require.NoError(t, res.Write(w))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "11", w.Header().Get("Content-Length"))
	assert.Equal(t, `{"ok":true}`, w.Body.String())
}
