package adapter

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/lambda-feedback/appshim/event"
)

const wildcardOrigin = "*"

// corsPolicy resolves and attaches CORS headers.
type corsPolicy struct {
	origins     []string
	wildcard    bool
	methods     string
	headers     string
	maxAge      string
	credentials bool
}

func newCorsPolicy(cfg CorsConfig) corsPolicy {
	p := corsPolicy{
		methods:     strings.Join(cfg.AllowMethods, ", "),
		headers:     strings.Join(cfg.AllowHeaders, ", "),
		credentials: cfg.AllowCredentials,
	}

	for _, origin := range cfg.AllowOrigins {
		origin = strings.TrimSpace(origin)
		switch origin {
		case "":
			continue
		case wildcardOrigin:
			p.wildcard = true
		default:
			p.origins = append(p.origins, strings.TrimSuffix(origin, "/"))
		}
	}

	// an empty policy must still yield an origin
	if len(p.origins) == 0 {
		p.wildcard = true
	}

	if cfg.MaxAge > 0 {
		p.maxAge = strconv.Itoa(cfg.MaxAge)
	}

	return p
}

// origin returns the allowed origin for the request origin, and
// whether the value depends on the request.
func (p corsPolicy) origin(requested string) (string, bool) {
	for _, origin := range p.origins {
		if requested != "" && strings.EqualFold(origin, requested) {
			return requested, true
		}
	}

	if p.wildcard {
		return wildcardOrigin, false
	}

	return p.origins[0], true
}

// apply attaches the CORS headers to the response, replacing
// whatever the application set.
func (p corsPolicy) apply(res *event.Response, req event.Request) {
	origin, varies := p.origin(req.Header("Origin"))

	res.SetHeader("Access-Control-Allow-Origin", origin)

	if p.methods != "" {
		res.SetHeader("Access-Control-Allow-Methods", p.methods)
	}
	if p.headers != "" {
		res.SetHeader("Access-Control-Allow-Headers", p.headers)
	}
	if p.maxAge != "" {
		res.SetHeader("Access-Control-Max-Age", p.maxAge)
	}
	if p.credentials && origin != wildcardOrigin {
		res.SetHeader("Access-Control-Allow-Credentials", "true")
	}
	if varies {
		addVary(res, "Origin")
	}
}

func addVary(res *event.Response, value string) {
	existing := res.Header().Values("Vary")
	for _, v := range existing {
		for _, part := range strings.Split(v, ",") {
			if strings.EqualFold(strings.TrimSpace(part), value) {
				return
			}
		}
	}

	res.SetHeader("Vary", strings.Join(append(existing, value), ", "))
}

// WithCors wraps a handler serving a route next to the adapter.
// Preflight requests are answered by the adapter, every other
// response carries the adapter's CORS headers.
func (a *Adapter) WithCors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := event.FromHTTP(r, nil)

		if req.Method == http.MethodOptions {
			if err := a.Handle(r.Context(), req).Write(w); err != nil {
				a.log.Debug("failed to write response", zap.Error(err))
			}
			return
		}

		var res event.Response
		a.cors.apply(&res, req)

		for k, v := range res.Headers {
			w.Header().Set(k, v)
		}

		next.ServeHTTP(w, r)
	})
}
