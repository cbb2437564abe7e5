package adapter

type Config struct {
	// Cors is the CORS policy applied to every response
	Cors CorsConfig `conf:"cors"`

	// Health configures the health check responder
	Health HealthConfig `conf:"health"`

	// Errors configures the delegation error responses
	Errors ErrorConfig `conf:"errors"`
}

type CorsConfig struct {
	// AllowOrigins is the list of allowed origins, "*" allows any origin
	AllowOrigins []string `conf:"allow_origins"`

	// AllowMethods is the list of methods announced to preflight requests
	AllowMethods []string `conf:"allow_methods"`

	// AllowHeaders is the list of headers announced to preflight requests
	AllowHeaders []string `conf:"allow_headers"`

	// MaxAge is the number of seconds a preflight result may be cached
	MaxAge int `conf:"max_age"`

	// AllowCredentials indicates if credentials are allowed. It has
	// no effect if the resolved origin is the wildcard.
	AllowCredentials bool `conf:"allow_credentials"`
}

type HealthConfig struct {
	// Paths are the health check paths, compared without
	// leading and trailing slashes
	Paths []string `conf:"paths"`

	// Message is the message included in the health check response
	Message string `conf:"message"`
}

type ErrorConfig struct {
	// ExposeTrace includes the captured stack of a panicking
	// application in the error response
	ExposeTrace bool `conf:"expose_trace"`
}

var DefaultConfig = Config{
	Cors: CorsConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:       86400,
	},
	Health: HealthConfig{
		Paths:   []string{"health", "api/health"},
		Message: "API is up and running",
	},
}
