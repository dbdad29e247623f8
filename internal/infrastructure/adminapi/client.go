package adminapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"dealsadmin/internal/domain"
	"dealsadmin/internal/domain/entity"
	"dealsadmin/pkg/contextx"
	"dealsadmin/pkg/httpx"
	"dealsadmin/pkg/logx"
	"dealsadmin/pkg/rest"
)

var (
	json   = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals
	logger = contextx.LoggerFromContextOrDefault          //nolint:gochecknoglobals
)

const DefaultBaseURL = "http://localhost:8000"

const (
	msgLoginFailed   = "Login failed"
	msgFetchFailed   = "Failed to fetch deals"
	msgApproveFailed = "Approve failed"
	msgRejectFailed  = "Reject failed"
)

// Operation names used in logs and metrics.
const (
	OpLogin       = "login"
	OpListDeals   = "list_deals"
	OpApproveDeal = "approve_deal"
	OpRejectDeal  = "reject_deal"
)

type observer interface {
	ObserveAPICall(operation string, status int, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveAPICall(string, int, time.Duration) {}

// Authenticator supplies the bearer token for deal calls. Authenticate is
// called when no token is present or the backend answers 401.
type Authenticator interface {
	Authenticate(ctx context.Context) error
	BearerToken() string
}

// Client talks to the admin REST API. The zero session client can only log
// in; use WithSession for deal calls.
type Client struct {
	baseURL   string
	transport http.RoundTripper
	timeout   time.Duration
	plain     *http.Client
	http      *http.Client
	observer  observer
	validate  *validator.Validate
}

type Option func(*Client)

// WithTransport replaces the underlying transport. Logging is still applied
// on top of it.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}

// WithTimeout sets an overall per-call timeout. Zero means none.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func WithObserver(o observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   normalizeBaseURL(baseURL),
		transport: http.DefaultTransport,
		observer:  nopObserver{},
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.transport = httpx.NewLoggingRoundTripper(
		c.transport,
		httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
		httpx.WithLogFieldMaxLen(logFieldMaxLen),
	)
	c.plain = &http.Client{
		Transport: c.transport,
		Timeout:   c.timeout,
	}
	c.http = c.plain

	return c
}

const logFieldMaxLen = 4096

// WithSession returns a client that authorizes deal calls with auth.
func (c *Client) WithSession(auth Authenticator) *Client {
	clone := *c
	clone.http = &http.Client{
		Transport: httpx.NewAuthBearerRoundTripper(c.transport, auth),
		Timeout:   c.timeout,
	}

	return &clone
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login exchanges credentials for an access token. It never sends a bearer
// header.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	status, payload, err := c.call(ctx, OpLogin, c.plain, http.MethodPost, "/admin/auth/login", nil,
		rest.LoginRequest{Email: email, Password: password})
	if err != nil {
		return "", domain.NewAuthError(msgLoginFailed, err)
	}

	if !isSuccess(status) {
		return "", domain.NewAuthError(detailOr(payload, msgLoginFailed), statusError(status))
	}

	var resp rest.LoginResponse
	if err = json.Unmarshal(payload, &resp); err != nil {
		return "", domain.NewAuthError(msgLoginFailed, fmt.Errorf("json.Unmarshal: %w", err))
	}

	if resp.AccessToken == "" {
		return "", domain.NewAuthError(msgLoginFailed, errors.New("response without access_token"))
	}

	return resp.AccessToken, nil
}

// ListDeals returns deals in server order. StatusAll or an empty status
// lists every deal.
func (c *Client) ListDeals(ctx context.Context, status entity.DealStatus) ([]entity.Deal, error) {
	var query url.Values
	if status.Valid() {
		query = url.Values{"status": []string{status.String()}}
	}

	code, payload, err := c.call(ctx, OpListDeals, c.http, http.MethodGet, "/admin/deals", query, nil)
	if err != nil {
		return nil, domain.NewFetchError(msgFetchFailed, err)
	}

	if !isSuccess(code) {
		return nil, domain.NewFetchError(msgFetchFailed, statusError(code))
	}

	var deals []entity.Deal
	if err = json.Unmarshal(payload, &deals); err != nil {
		return nil, domain.NewFetchError(msgFetchFailed, fmt.Errorf("json.Unmarshal: %w", err))
	}

	for i := range deals {
		if err = c.validate.Struct(deals[i]); err != nil {
			return nil, domain.NewFetchError(msgFetchFailed, fmt.Errorf("validate.Struct: deal #%d: %w", i, err))
		}
	}

	return deals, nil
}

func (c *Client) ApproveDeal(ctx context.Context, id entity.DealID) (entity.Deal, error) {
	return c.review(ctx, OpApproveDeal, id, "approve", msgApproveFailed)
}

func (c *Client) RejectDeal(ctx context.Context, id entity.DealID) (entity.Deal, error) {
	return c.review(ctx, OpRejectDeal, id, "reject", msgRejectFailed)
}

func (c *Client) review(
	ctx context.Context,
	operation string,
	id entity.DealID,
	verb string,
	fallback string,
) (entity.Deal, error) {
	path := "/admin/deals/" + url.PathEscape(id.String()) + "/" + verb

	status, payload, err := c.call(ctx, operation, c.http, http.MethodPost, path, nil, nil)
	if err != nil {
		return entity.Deal{}, domain.NewActionError(fallback, err)
	}

	if !isSuccess(status) {
		return entity.Deal{}, domain.NewActionError(detailOr(payload, fallback), statusError(status))
	}

	var deal entity.Deal
	if err = json.Unmarshal(payload, &deal); err != nil {
		return entity.Deal{}, domain.NewActionError(fallback, fmt.Errorf("json.Unmarshal: %w", err))
	}

	return deal, nil
}

func (c *Client) call(
	ctx context.Context,
	operation string,
	client *http.Client,
	method string,
	path string,
	query url.Values,
	body any,
) (int, []byte, error) {
	ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldOperation, operation)))

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("json.Marshal: %w", err)
		}

		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()

	resp, err := client.Do(req)
	if err != nil {
		c.observer.ObserveAPICall(operation, 0, time.Since(start))

		return 0, nil, fmt.Errorf("client.Do: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)

	c.observer.ObserveAPICall(operation, resp.StatusCode, time.Since(start))

	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("io.ReadAll: %w", err)
	}

	return resp.StatusCode, payload, nil
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

func statusError(status int) error {
	return fmt.Errorf("unexpected status %d %s", status, http.StatusText(status))
}

// detailOr extracts a string "detail" from an error body. Structured details
// (such as validation error lists) fall back to the generic message.
func detailOr(payload []byte, fallback string) string {
	var body rest.ErrorDetail
	if err := json.Unmarshal(payload, &body); err != nil {
		return fallback
	}

	if detail, ok := body.Detail.(string); ok && strings.TrimSpace(detail) != "" {
		return detail
	}

	return fallback
}

func normalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultBaseURL
	}

	return strings.TrimSuffix(raw, "/")
}
