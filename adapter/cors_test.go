package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lambda-feedback/appshim/event"
)

func TestCorsPolicy_Origin(t *testing.T) {
	tests := []struct {
		name      string
		origins   []string
		requested string
		want      string
		varies    bool
	}{
		{"wildcard", []string{"*"}, "https://app.example.com", "*", false},
		{"empty policy", nil, "https://app.example.com", "*", false},
		{"echo match", []string{"https://app.example.com"}, "https://app.example.com", "https://app.example.com", true},
		{"trailing slash", []string{"https://app.example.com/"}, "https://app.example.com", "https://app.example.com", true},
		{"no match falls back to first", []string{"https://a.example.com", "https://b.example.com"}, "https://evil.example.com", "https://a.example.com", true},
		{"no match with wildcard", []string{"https://a.example.com", "*"}, "https://evil.example.com", "*", false},
		{"no request origin", []string{"https://a.example.com"}, "", "https://a.example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newCorsPolicy(CorsConfig{AllowOrigins: tt.origins})

			got, varies := p.origin(tt.requested)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.varies, varies)
		})
	}
}

func TestCorsPolicy_Apply_OverridesApplication(t *testing.T) {
	p := newCorsPolicy(CorsConfig{AllowOrigins: []string{"https://app.example.com"}})

	res := event.Response{
		StatusCode: 200,
		Headers: map[string]string{
			"access-control-allow-origin": "https://other.example.com",
			"Vary":                        "Accept-Encoding",
		},
	}

	p.apply(&res, event.Request{Headers: map[string]string{"origin": "https://app.example.com"}})

	assert.Equal(t, "https://app.example.com", res.Headers["Access-Control-Allow-Origin"])
	assert.NotContains(t, res.Headers, "access-control-allow-origin")
	assert.Equal(t, "Accept-Encoding, Origin", res.Headers["Vary"])
}

func TestCorsPolicy_Apply_VaryOnce(t *testing.T) {
	p := newCorsPolicy(CorsConfig{AllowOrigins: []string{"https://app.example.com"}})

	res := event.Response{StatusCode: 200, Headers: map[string]string{"Vary": "origin"}}

	p.apply(&res, event.Request{})

	assert.Equal(t, "origin", res.Headers["Vary"])
}

func TestCorsPolicy_Apply_Credentials(t *testing.T) {
	t.Run("wildcard", func(t *testing.T) {
		p := newCorsPolicy(CorsConfig{AllowOrigins: []string{"*"}, AllowCredentials: true})

		res := event.Response{StatusCode: 200}
		p.apply(&res, event.Request{})

		assert.NotContains(t, res.Headers, "Access-Control-Allow-Credentials")
	})

	t.Run("explicit origin", func(t *testing.T) {
		p := newCorsPolicy(CorsConfig{AllowOrigins: []string{"https://app.example.com"}, AllowCredentials: true})

		res := event.Response{StatusCode: 200}
		p.apply(&res, event.Request{})

		assert.Equal(t, "true", res.Headers["Access-Control-Allow-Credentials"])
	})
}

func TestHealthResponder_Match(t *testing.T) {
	h := newHealthResponder(HealthConfig{Paths: []string{"/api/health/", "", "/"}})

	assert.True(t, h.match("/api/health"))
	assert.True(t, h.match("api/health/"))
	assert.False(t, h.match("/"))
	assert.False(t, h.match(""))
	assert.False(t, h.match("/api/Health"))
	assert.False(t, h.match("/api/health/db"))
}
