package event

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Request is the inbound invocation event, as seen by the adapter.
type Request struct {
	// Method is the upper-case HTTP method.
	Method string

	// Path is the escaped request path, always starting with a slash.
	Path string

	// RawQuery is the encoded query string, without the leading '?'.
	RawQuery string

	// Headers holds the request headers. Multi-valued
	// headers are joined with ", ".
	Headers map[string]string

	// Body is the raw request body.
	Body []byte
}

// Header returns the value of the header with the given name,
// matched case-insensitively.
func (r Request) Header(name string) string {
	if v, ok := r.Headers[name]; ok {
		return v
	}

	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}

	return ""
}

// Query parses the raw query string. Malformed pairs are dropped.
func (r Request) Query() url.Values {
	query, _ := url.ParseQuery(r.RawQuery)
	return query
}

// URL returns the escaped path and the raw query string.
func (r Request) URL() string {
	return r.target().RequestURI()
}

func (r Request) target() *url.URL {
	rawPath := escapePath(r.Path)
	path, _ := url.PathUnescape(rawPath)

	return &url.URL{
		Path:     path,
		RawPath:  rawPath,
		RawQuery: r.RawQuery,
	}
}

// HTTPRequest translates the event into an *http.Request addressed
// at the given base URL. The base path is prepended to the request
// path as is. A nil base yields a server-side request with a
// relative URL.
func (r Request) HTTPRequest(ctx context.Context, base *url.URL) (*http.Request, error) {
	target := r.target()

	if base != nil {
		target.Scheme = base.Scheme
		target.User = base.User
		target.Host = base.Host
		target.RawPath = strings.TrimSuffix(base.EscapedPath(), "/") + target.RawPath
		target.Path = strings.TrimSuffix(base.Path, "/") + target.Path
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, "/", bytes.NewReader(r.Body))
	if err != nil {
		return nil, err
	}

	req.URL = target
	req.Host = target.Host

	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	if host := r.Header("Host"); host != "" {
		req.Host = host
	}

	req.ContentLength = int64(len(r.Body))
	if base == nil {
		req.RequestURI = target.RequestURI()
	}

	return req, nil
}

// FromHTTP translates an *http.Request and its already
// consumed body into an event.
func FromHTTP(r *http.Request, body []byte) Request {
	headers := make(map[string]string, len(r.Header)+1)
	for k, v := range r.Header {
		headers[k] = strings.Join(v, ", ")
	}

	if r.Host != "" {
		headers["Host"] = r.Host
	}

	path := r.URL.EscapedPath()
	if path == "" {
		path = "/"
	}

	return Request{
		Method:   strings.ToUpper(r.Method),
		Path:     path,
		RawQuery: r.URL.RawQuery,
		Headers:  headers,
		Body:     body,
	}
}

// escapePath returns path in its escaped form. A path that is
// not a valid escaped path is taken as unescaped and encoded.
func escapePath(path string) string {
	if path == "" {
		return "/"
	}

	if unescaped, err := url.PathUnescape(path); err == nil {
		u := url.URL{Path: unescaped, RawPath: path}
		if u.EscapedPath() == path {
			return path
		}
	}

	return (&url.URL{Path: path}).EscapedPath()
}

// Response is the outbound response returned to the platform.
type Response struct {
	StatusCode        int                 `json:"statusCode"`
	Headers           map[string]string   `json:"headers"`
	MultiValueHeaders map[string][]string `json:"multiValueHeaders,omitempty"`
	Body              string              `json:"body"`
	IsBase64Encoded   bool                `json:"isBase64Encoded,omitempty"`
}

// NewResponse creates a response from an http.Header and raw body.
// Bodies that are not valid UTF-8 are base64 encoded.
func NewResponse(status int, header http.Header, body []byte) Response {
	res := Response{
		StatusCode: status,
		Headers:    make(map[string]string, len(header)),
	}

	for k, v := range header {
		if len(v) == 0 {
			continue
		}

		key := http.CanonicalHeaderKey(k)
		res.Headers[key] = v[0]

		if len(v) > 1 {
			if res.MultiValueHeaders == nil {
				res.MultiValueHeaders = make(map[string][]string)
			}
			res.MultiValueHeaders[key] = append([]string(nil), v...)
		}
	}

	if utf8.Valid(body) {
		res.Body = string(body)
	} else {
		res.Body = base64.StdEncoding.EncodeToString(body)
		res.IsBase64Encoded = true
	}

	return res
}

// SetHeader sets a single-valued header, replacing any previous value.
func (r *Response) SetHeader(key, value string) {
	key = http.CanonicalHeaderKey(key)

	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}

	for k := range r.Headers {
		if k != key && strings.EqualFold(k, key) {
			delete(r.Headers, k)
		}
	}

	r.Headers[key] = value
	delete(r.MultiValueHeaders, key)
}

// Header reconstructs the response headers as an http.Header.
func (r Response) Header() http.Header {
	header := make(http.Header, len(r.Headers))

	for k, v := range r.Headers {
		header.Set(k, v)
	}

	for k, v := range r.MultiValueHeaders {
		header.Del(k)
		for _, vv := range v {
			header.Add(k, vv)
		}
	}

	return header
}

// RawBody returns the body bytes, decoding base64 if necessary.
func (r Response) RawBody() ([]byte, error) {
	if !r.IsBase64Encoded {
		return []byte(r.Body), nil
	}

	return base64.StdEncoding.DecodeString(r.Body)
}

// Write writes the response to w.
func (r Response) Write(w http.ResponseWriter) error {
	body, err := r.RawBody()
	if err != nil {
		return err
	}

	header := r.Header()

	keys := make([]string, 0, len(header))
	for k := range header {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		for _, v := range header[k] {
			w.Header().Add(k, v)
		}
	}

	if w.Header().Get("Content-Length") == "" {
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	}

	w.WriteHeader(r.StatusCode)

	_, err = w.Write(body)
	return err
}
