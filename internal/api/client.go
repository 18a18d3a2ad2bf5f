// Package api wraps the storefront backend REST API: authentication,
// favorites and products. Every failure is returned as an
// *errors.ShopError whose Message is ready to show to the user.
package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/felixgeelhaar/shopfront/internal/errors"
	"github.com/felixgeelhaar/shopfront/internal/log"
	"github.com/felixgeelhaar/shopfront/internal/telemetry"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:3005"

// RequestIDHeader carries a per-call UUID so client and server logs can be
// correlated.
const RequestIDHeader = "X-Request-ID"

// maxBodySize caps how much of a response body is read.
const maxBodySize = 4 << 20

// TokenStore is where the bearer token lives. Reads must be cheap; writes
// persist before returning.
type TokenStore interface {
	Token(ctx context.Context) string
	SetToken(ctx context.Context, token string) error
}

// Observer receives one notification per completed backend call. status is
// 0 when no response was received; errKind is empty on success.
type Observer interface {
	ObserveAPICall(endpoint Endpoint, method string, status int, errKind string, duration time.Duration)
}

// ResponseValidator checks a successful response against the backend
// contract.
type ResponseValidator interface {
	ValidateResponse(ctx context.Context, req *http.Request, status int, header http.Header, body []byte) error
}

// Client is the storefront backend API client
type Client struct {
	baseURL    string
	http       *retryablehttp.Client
	tokens     TokenStore
	translator *Translator
	tracer     trace.Tracer
	observer   Observer
	validator  ResponseValidator
	strict     bool
	userAgent  string
	logger     *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each attempt. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.HTTPClient.Timeout = d }
}

// WithRetry configures retries of idempotent GET requests.
func WithRetry(max int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.http.RetryMax = max
		if waitMin > 0 {
			c.http.RetryWaitMin = waitMin
		}
		if waitMax > 0 {
			c.http.RetryWaitMax = waitMax
		}
	}
}

// WithTranslator sets the error message translator.
func WithTranslator(t *Translator) Option {
	return func(c *Client) { c.translator = t }
}

// WithTracerProvider traces every call with tp.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) { c.tracer = tp.Tracer("github.com/felixgeelhaar/shopfront/internal/api") }
}

// WithObserver reports call outcomes to o.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithValidator checks 2xx responses with v. In strict mode a violation
// fails the call; otherwise it is only logged.
func WithValidator(v ResponseValidator, strict bool) Option {
	return func(c *Client) {
		c.validator = v
		c.strict = strict
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithLogger sets the logger, which also receives retry diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a new API client. tokens may be nil for a client that
// only calls public endpoints.
func NewClient(baseURL string, tokens TokenStore, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.RetryMax = 2
	rc.CheckRetry = retryPolicy
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       rc,
		tokens:     tokens,
		translator: NewTranslator(LocaleES),
		tracer:     noop.NewTracerProvider().Tracer(""),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = log.OrDefault(c.logger)
	rc.Logger = c.logger.With("component", "http")

	return c
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Translator returns the translator used for error messages.
func (c *Client) Translator() *Translator { return c.translator }

type methodKey struct{}

// retryPolicy retries only GETs. POST and DELETE must reach the backend at
// most once.
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if method, _ := ctx.Value(methodKey{}).(string); method != http.MethodGet {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// call describes one backend request.
type call struct {
	endpoint Endpoint
	method   string
	path     string
	body     any
	auth     bool // fails fast without a token
}

// envelope is the {data: ...} wrapper most endpoints use.
type envelope[T any] struct {
	Data T `json:"data"`
}

// do performs the request and decodes a 2xx body into target (if non-nil).
func (c *Client) do(ctx context.Context, rc call, target any) (err error) {
	token := ""
	if c.tokens != nil {
		token = c.tokens.Token(ctx)
	}
	if rc.auth && token == "" {
		return errors.NewNotAuthenticatedError()
	}

	requestID := uuid.NewString()
	ctx, span := telemetry.StartAPISpan(ctx, c.tracer, string(rc.endpoint), rc.method, rc.path)
	span.SetAttributes(attribute.String("request_id", requestID))
	defer span.End()

	start := time.Now()
	status := 0
	defer func() {
		duration := time.Since(start)
		kind := ""
		if err != nil {
			telemetry.RecordError(span, err)
			kind = errors.KindUnknown.String()
			if shopErr, ok := errors.As(err); ok {
				kind = shopErr.Kind().String()
			}
			c.logger.WithError(err).DebugContext(ctx, "api call failed",
				"endpoint", string(rc.endpoint), "duration", duration)
		} else {
			telemetry.RecordSuccess(span, attribute.Int("http.response.status_code", status))
			c.logger.DebugContext(ctx, "api call",
				"endpoint", string(rc.endpoint), "status", status,
				"request_id", requestID, "duration", duration)
		}
		if c.observer != nil {
			c.observer.ObserveAPICall(rc.endpoint, rc.method, status, kind, duration)
		}
	}()

	var body []byte
	if rc.body != nil {
		body, err = json.Marshal(rc.body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	req, err := retryablehttp.NewRequestWithContext(
		context.WithValue(ctx, methodKey{}, rc.method), rc.method, c.baseURL+rc.path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportError(ctx, rc, requestID, err)
	}
	defer resp.Body.Close()

	status = resp.StatusCode
	span.SetAttributes(attribute.Int("http.response.status_code", status))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return c.transportError(ctx, rc, requestID, err)
	}

	if status < 200 || status >= 300 {
		return c.httpError(rc, status, raw, requestID)
	}

	if c.validator != nil {
		if verr := c.validator.ValidateResponse(ctx, req.Request, status, resp.Header, raw); verr != nil {
			if c.strict {
				return errors.Wrap(errors.ErrCodeAPIContractViolation, c.translator.Decode(), verr).
					WithRequest(rc.path, status, requestID)
			}
			c.logger.WarnContext(ctx, "response does not match the API contract",
				"endpoint", string(rc.endpoint), "request_id", requestID, "error", verr.Error())
		}
	}

	if status == http.StatusNoContent || target == nil {
		return nil
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return errors.Wrap(errors.ErrCodeAPIDecode, c.translator.Decode(),
			fmt.Errorf("failed to decode response: %w", err)).
			WithRequest(rc.path, status, requestID)
	}

	return nil
}

func (c *Client) transportError(ctx context.Context, rc call, requestID string, err error) error {
	if stderrors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}

	code, msg := errors.ErrCodeNetworkUnreachable, c.translator.Network()
	if isTimeout(err) {
		code, msg = errors.ErrCodeNetworkTimeout, c.translator.Timeout()
	}
	return errors.Wrap(code, msg, err).
		WithRequest(rc.path, 0, requestID).
		WithSuggestion(fmt.Sprintf("Check that the backend at %s is running", c.baseURL)).
		WithSuggestion("Set api.base_url or SHOPFRONT_API_BASE_URL to point at another backend")
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}

func (c *Client) httpError(rc call, status int, raw []byte, requestID string) error {
	msg := c.translator.HTTPError(rc.endpoint, status, backendMessage(raw))
	shopErr := errors.Wrap(errors.CodeForStatus(status), msg,
		fmt.Errorf("%s %s returned %d", rc.method, rc.path, status)).
		WithRequest(rc.path, status, requestID)

	switch {
	case status == http.StatusUnauthorized && rc.endpoint == EndpointMe,
		status == http.StatusUnauthorized && !rc.endpoint.IsAuth():
		shopErr.WithSuggestion("Run 'shopfront auth login' to sign in again")
	case status >= 500:
		shopErr.WithSuggestion("The backend reported an internal error; retry later")
	}
	return shopErr
}

// backendMessage extracts the message from an error body: the JSON
// "message" field (a string or a list of strings), or the raw text when
// the body is not a JSON object. HTML error pages are ignored.
func backendMessage(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return ""
	}

	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		if strings.HasPrefix(text, "<") {
			return ""
		}
		return text
	}
	if len(payload.Message) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(payload.Message, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(payload.Message, &list); err == nil {
		return strings.Join(list, "; ")
	}
	return ""
}
