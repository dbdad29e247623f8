package tests

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// APIClient drives an HTTP server from tests. It keeps cookies between calls
// and never follows redirects, so tests can assert on Location headers.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAPIClient(baseURL string) APIClient {
	jar, _ := cookiejar.New(nil) //nolint:errcheck // nil options never fail

	return APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Get returns the response and its body. dest, when set, receives the decoded
// JSON body of a 2xx response.
func (a APIClient) Get(
	ctx context.Context,
	endpoint string,
	dest any,
) (*http.Response, string, error) {
	return a.httpRequest(ctx, http.MethodGet, endpoint, nil, http.NoBody, dest)
}

func (a APIClient) Post(
	ctx context.Context,
	endpoint string,
	request any,
	dest any,
) (*http.Response, string, error) {
	b, err := json.Marshal(request)
	if err != nil {
		return nil, "", fmt.Errorf("json.Marshal: %w", err)
	}

	headers := http.Header{"Content-Type": {"application/json"}}

	return a.httpRequest(ctx, http.MethodPost, endpoint, headers, bytes.NewReader(b), dest)
}

func (a APIClient) PostForm(
	ctx context.Context,
	endpoint string,
	values url.Values,
) (*http.Response, string, error) {
	headers := http.Header{"Content-Type": {"application/x-www-form-urlencoded"}}

	return a.httpRequest(ctx, http.MethodPost, endpoint, headers, strings.NewReader(values.Encode()), nil)
}

func (a APIClient) httpRequest(
	ctx context.Context,
	httpMethod string,
	endpoint string,
	headers http.Header,
	payload io.Reader,
	dest any,
) (*http.Response, string, error) {
	req, err := http.NewRequestWithContext(ctx, httpMethod, a.baseURL+endpoint, payload)
	if err != nil {
		return nil, "", fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	for k, v := range headers {
		req.Header[k] = v
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("httpClient.Do: %w", err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("io.ReadAll: %w", err)
	}

	slog.Debug("test request", slog.String("method", httpMethod), slog.String("endpoint", endpoint), slog.Int("status", resp.StatusCode))

	if err = parseResponse(resp, body, dest); err != nil {
		return nil, "", fmt.Errorf("parseResponse: %w", err)
	}

	return resp, string(body), nil
}

func parseResponse(r *http.Response, body []byte, dest any) error {
	if r.StatusCode < http.StatusOK || r.StatusCode >= http.StatusMultipleChoices || dest == nil {
		return nil
	}

	if err := json.Unmarshal(body, dest); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	return nil
}

// Cookie returns the named cookie the client holds for the base URL.
func (a APIClient) Cookie(name string) (*http.Cookie, bool) {
	u, err := url.Parse(a.baseURL)
	if err != nil {
		return nil, false
	}

	for _, c := range a.httpClient.Jar.Cookies(u) {
		if c.Name == name {
			return c, true
		}
	}

	return nil, false
}
