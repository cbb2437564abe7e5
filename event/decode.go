package event

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/lambda-feedback/appshim/event/schema"
)

var ErrInvalidBody = errors.New("invalid base64 body")

// rawEvent covers the generic and API Gateway v1 event shapes, as
// well as the inner payload of a legacy Vercel invoke envelope.
type rawEvent struct {
	Action                          string              `json:"Action"`
	Method                          string              `json:"method"`
	HTTPMethod                      string              `json:"httpMethod"`
	Path                            string              `json:"path"`
	Headers                         map[string]*string  `json:"headers"`
	MultiValueHeaders               map[string][]string `json:"multiValueHeaders"`
	QueryStringParameters           map[string]*string  `json:"queryStringParameters"`
	MultiValueQueryStringParameters map[string][]string `json:"multiValueQueryStringParameters"`
	Body                            *string             `json:"body"`
	IsBase64Encoded                 bool                `json:"isBase64Encoded"`
	Encoding                        string              `json:"encoding"`
}

// Decoder decodes raw invocation events into requests.
type Decoder struct {
	schema *schema.Schema
}

// NewDecoder creates a decoder validating events
// against the embedded event schema.
func NewDecoder() (*Decoder, error) {
	s, err := schema.NewEventSchema()
	if err != nil {
		return nil, err
	}

	return &Decoder{schema: s}, nil
}

// Decode validates and decodes a raw invocation event.
func (d *Decoder) Decode(data []byte) (Request, error) {
	evt, err := d.parse(data)
	if err != nil {
		return Request{}, err
	}

	// unwrap legacy vercel invoke envelopes
	if evt.Action == "Invoke" && evt.Body != nil {
		evt, err = d.parse([]byte(*evt.Body))
		if err != nil {
			return Request{}, fmt.Errorf("invalid invoke payload: %w", err)
		}
	}

	return evt.request()
}

func (d *Decoder) parse(data []byte) (rawEvent, error) {
	var evt rawEvent

	if err := d.schema.Validate(data); err != nil {
		return evt, err
	}

	if err := json.Unmarshal(data, &evt); err != nil {
		return evt, fmt.Errorf("invalid event: %w", err)
	}

	return evt, nil
}

func (e rawEvent) request() (Request, error) {
	method := e.Method
	if method == "" {
		method = e.HTTPMethod
	}
	if method == "" {
		method = http.MethodGet
	}

	path, rawQuery, _ := strings.Cut(e.Path, "?")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	// parameters already present in the path query keep their order
	query, _ := url.ParseQuery(rawQuery)

	extra := url.Values{}
	for k, v := range e.MultiValueQueryStringParameters {
		if !query.Has(k) {
			extra[k] = append([]string(nil), v...)
		}
	}
	for k, v := range e.QueryStringParameters {
		if v != nil && !query.Has(k) && !extra.Has(k) {
			extra.Set(k, *v)
		}
	}

	if len(extra) > 0 {
		if rawQuery != "" {
			rawQuery += "&"
		}
		rawQuery += extra.Encode()
	}

	headers := make(map[string]string, len(e.Headers))
	for k, v := range e.Headers {
		if v != nil {
			headers[k] = *v
		}
	}
	for k, v := range e.MultiValueHeaders {
		if len(v) > 0 {
			headers[k] = strings.Join(v, ", ")
		}
	}

	var body []byte
	if e.Body != nil {
		body = []byte(*e.Body)

		if e.IsBase64Encoded || e.Encoding == "base64" {
			decoded, err := base64.StdEncoding.DecodeString(*e.Body)
			if err != nil {
				return Request{}, fmt.Errorf("%w: %v", ErrInvalidBody, err)
			}
			body = decoded
		}
	}

	return Request{
		Method:   strings.ToUpper(method),
		Path:     escapePath(path),
		RawQuery: rawQuery,
		Headers:  headers,
		Body:     body,
	}, nil
}
