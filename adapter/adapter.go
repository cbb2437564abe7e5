package adapter

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/lambda-feedback/appshim/application"
	"github.com/lambda-feedback/appshim/event"
)

// Outcomes of an invocation, as reported to the Recorder.
const (
	OutcomePreflight  = "preflight"
	OutcomeHealth     = "health"
	OutcomeApp        = "app"
	OutcomeError      = "error"
	OutcomeBadRequest = "bad_request"
)

var redactedHeaders = map[string]struct{}{
	"authorization":       {},
	"cookie":              {},
	"proxy-authorization": {},
}

// Recorder records invocation metrics.
type Recorder interface {
	Invocation(outcome string)
	Delegation(status int, elapsed time.Duration)
}

// Reporter reports failed delegations.
type Reporter interface {
	Report(ctx context.Context, err error, requestID string)
}

// Params defines the dependencies for the adapter.
type Params struct {
	fx.In

	Config Config

	Application application.Application

	Recorder Recorder `optional:"true"`

	Reporter Reporter `optional:"true"`

	Log *zap.Logger
}

// Adapter answers CORS preflight and health check requests, and
// delegates everything else to the wrapped application.
type Adapter struct {
	app      application.Application
	cors     corsPolicy
	health   healthResponder
	trace    bool
	decoder  *event.Decoder
	recorder Recorder
	reporter Reporter

	log *zap.Logger
}

// New creates a new adapter.
func New(params Params) (*Adapter, error) {
	if params.Application == nil {
		return nil, errors.New("adapter: application is required")
	}

	decoder, err := event.NewDecoder()
	if err != nil {
		return nil, err
	}

	a := &Adapter{
		app:      params.Application,
		cors:     newCorsPolicy(params.Config.Cors),
		health:   newHealthResponder(params.Config.Health),
		trace:    params.Config.Errors.ExposeTrace,
		decoder:  decoder,
		recorder: params.Recorder,
		reporter: params.Reporter,
		log:      params.Log,
	}

	if a.recorder == nil {
		a.recorder = nopRecorder{}
	}
	if a.reporter == nil {
		a.reporter = nopReporter{}
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}

	return a, nil
}

// Handle handles a single invocation. It always returns a response,
// failures of the application are converted to error responses.
func (a *Adapter) Handle(ctx context.Context, req event.Request) event.Response {
	id := requestID(ctx, req)

	log := a.log.With(
		zap.String("request_id", id),
		zap.String("method", req.Method),
		zap.String("path", req.Path),
	)

	log.Debug("request received", zap.Any("headers", redact(req.Headers)))

	var res event.Response

	switch {
	case req.Method == http.MethodOptions:
		// preflight requests never reach the application
		res = event.Response{StatusCode: http.StatusNoContent, Headers: map[string]string{}}
		a.recorder.Invocation(OutcomePreflight)
	case a.health.match(req.Path):
		res = a.health.respond(req)
		a.recorder.Invocation(OutcomeHealth)
	default:
		res = a.respond(ctx, log, id, a.dispatch(ctx, req))
	}

	a.cors.apply(&res, req)

	log.Debug("request handled", zap.Int("status", res.StatusCode))

	return res
}

// HandleEvent decodes a raw invocation event and handles it. Events
// that cannot be decoded are answered with a bad request response.
func (a *Adapter) HandleEvent(ctx context.Context, data []byte) event.Response {
	req, err := a.decoder.Decode(data)
	if err != nil {
		a.log.Debug("invalid event", zap.Error(err))
		return a.BadRequest(event.Request{}, err)
	}

	return a.Handle(ctx, req)
}

// BadRequest answers a request that could not be read.
func (a *Adapter) BadRequest(req event.Request, err error) event.Response {
	a.recorder.Invocation(OutcomeBadRequest)

	res := newErrorResponse(http.StatusBadRequest, "Bad Request", err, "")
	a.cors.apply(&res, req)

	return res
}

// dispatch calls the application and captures its outcome. Panics
// are recovered, so the caller always receives a result.
func (a *Adapter) dispatch(ctx context.Context, req event.Request) (result Result) {
	start := time.Now()

	defer func() {
		if v := recover(); v != nil {
			result = Failure(application.NewPanicError(v, debug.Stack()))
		}

		a.recorder.Delegation(result.StatusCode(), time.Since(start))
	}()

	res, err := a.app.Serve(ctx, req)
	if err != nil {
		return Failure(err)
	}

	if res.StatusCode == 0 {
		return Failure(ErrMissingStatus)
	}

	return Success(res)
}

// respond converts the result of a delegation into a response.
func (a *Adapter) respond(ctx context.Context, log *zap.Logger, id string, result Result) event.Response {
	if result.Ok() {
		a.recorder.Invocation(OutcomeApp)
		return result.Response()
	}

	err := result.Err()

	log.Error("application failed", zap.Error(err))
	a.reporter.Report(ctx, err, id)
	a.recorder.Invocation(OutcomeError)

	var trace string
	var perr *application.PanicError
	if a.trace && errors.As(err, &perr) {
		trace = string(perr.Stack)
	}

	return newErrorResponse(http.StatusInternalServerError, "Server Error", err, trace)
}

func requestID(ctx context.Context, req event.Request) string {
	if id := req.Header("X-Request-Id"); id != "" {
		return id
	}

	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}

	return uuid.NewString()
}

func redact(headers map[string]string) map[string]string {
	redacted := make(map[string]string, len(headers))
	for k, v := range headers {
		if _, ok := redactedHeaders[strings.ToLower(k)]; ok {
			v = "[redacted]"
		}
		redacted[k] = v
	}

	return redacted
}

type nopRecorder struct{}

func (nopRecorder) Invocation(string) {}

func (nopRecorder) Delegation(int, time.Duration) {}

type nopReporter struct{}

func (nopReporter) Report(context.Context, error, string) {}
