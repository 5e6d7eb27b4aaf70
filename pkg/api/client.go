// Package api calls the storefront backend.
//
// Every response body is the envelope {success, message, data, pagination}.
// Requests always carry an Authorization header: "Bearer <token>" when a
// token is available and an empty value otherwise. The client never retries
// and never refreshes credentials on its own.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/storefront-client/internal/serviceerr"
)

const maxResponseSize = 10 << 20

// TokenSource yields the current access credential, or "" when there is none.
type TokenSource interface {
	AccessToken(ctx context.Context) string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) { c.tokens = tokens }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTokenSource returns a copy of the client that authenticates with tokens.
func (c *Client) WithTokenSource(tokens TokenSource) *Client {
	clone := *c
	clone.tokens = tokens

	return &clone
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request describes one call of an Endpoint.
type Request struct {
	Endpoint Endpoint
	// PathArgs fill the verbs of Endpoint.Path.
	PathArgs []any
	Query    map[string]string
	// Body is JSON encoded when not nil.
	Body any
	// Token overrides the client's TokenSource.
	Token string
}

// Do performs the request and decodes the envelope.
// A non-2xx status yields a *serviceerr.Error coded after the status;
// a 2xx envelope with success=false is returned as is, see Result.Unwrap.
func Do[T any](ctx context.Context, c *Client, req Request) (result Result[T], err error) {
	ep := req.Endpoint
	ctx = slogctx.With(ctx,
		commoncfg.AttrRequestID, uuid.NewString(),
		commoncfg.AttrOperation, ep.Name,
	)

	ctx, span := tracer().Start(ctx, ep.Name, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", ep.Method),
			attribute.String("url.template", ep.Path),
		),
	)
	defer span.End()

	status := 0
	start := time.Now()
	defer func() {
		attrs := metric.WithAttributes(
			attribute.String(commoncfg.AttrOperation, ep.Name),
			attribute.Int("http.response.status_code", status),
		)
		m := loadMeters()
		if m.requests != nil {
			m.requests.Add(ctx, 1, attrs)
		}
		if m.duration != nil {
			m.duration.Record(ctx, time.Since(start).Milliseconds(), attrs)
		}

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return result, fmt.Errorf("building %s request: %w", ep.Name, err)
	}

	slogctx.Debug(ctx, "Calling storefront API", "method", ep.Method, "url", httpReq.URL.String())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return result, fmt.Errorf("calling %s: %w", ep.Name, err)
	}
	defer resp.Body.Close()

	status = resp.StatusCode
	span.SetAttributes(attribute.Int("http.response.status_code", status))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return result, fmt.Errorf("reading %s response: %w", ep.Name, err)
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return result, fmt.Errorf("calling %s: %w", ep.Name, statusError(status, body))
	}

	if len(bytes.TrimSpace(body)) == 0 {
		result.Success = true
		return result, nil
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return result, fmt.Errorf("decoding %s response: %w", ep.Name, err)
	}

	return result, nil
}

// Call performs the request and unwraps the envelope.
func Call[T any](ctx context.Context, c *Client, req Request) (T, error) {
	result, err := Do[T](ctx, c, req)
	if err != nil {
		var zero T
		return zero, err
	}

	return result.Unwrap()
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	u, err := url.Parse(c.baseURL + req.Endpoint.path(req.PathArgs...))
	if err != nil {
		return nil, fmt.Errorf("parsing url: %w", err)
	}
	if len(req.Query) > 0 {
		values := make(url.Values, len(req.Query))
		for k, v := range req.Query {
			values.Set(k, v)
		}
		u.RawQuery = values.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Endpoint.Method, u.String(), body)
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	token := req.Token
	if token == "" && c.tokens != nil {
		token = c.tokens.AccessToken(ctx)
	}
	httpReq.Header.Set("Authorization", BearerHeader(token))

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	return httpReq, nil
}

// BearerHeader is the Authorization value for token; empty when token is empty.
func BearerHeader(token string) string {
	if token == "" {
		return ""
	}

	return "Bearer " + token
}

func statusError(status int, body []byte) *serviceerr.Error {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Message == "" {
		return serviceerr.New(serviceerr.CodeFromHTTPStatus(status), http.StatusText(status))
	}

	return serviceerr.New(serviceerr.CodeFromHTTPStatus(status), envelope.Message)
}
