package svix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/swhkit/webhooks/observability"
)

// HTTPClient talks to a delivery service server over its REST API.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *slog.Logger
	tracer  *observability.Tracer
}

var _ Client = (*HTTPClient)(nil)

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithHTTPClient replaces the underlying http.Client, e.g. to set timeouts.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(h *HTTPClient) { h.client = c }
}

// WithLogger sets the structured logger for request logging.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(h *HTTPClient) { h.logger = logger }
}

// NewHTTPClient creates a client for the server at serverURL, authenticating
// every request with the given bearer token.
func NewHTTPClient(serverURL, authToken string, opts ...ClientOption) *HTTPClient {
	h := &HTTPClient{
		baseURL: serverURL,
		token:   authToken,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  slog.Default(),
		tracer:  observability.NewTracer(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// do performs one REST call, decoding a JSON response into out when out is
// non-nil. Non-2xx responses are decoded into *Error.
func (h *HTTPClient) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("svix: encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	u := h.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("svix: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+h.token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	ctx, span := h.tracer.StartRequestSpan(ctx, method, path)
	resp, err := h.client.Do(req.WithContext(ctx))
	if err != nil {
		h.tracer.EndRequestSpan(span, 0, err)
		return fmt.Errorf("svix: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	h.tracer.EndRequestSpan(span, resp.StatusCode, nil)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return h.decodeError(resp)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("svix: decode response: %w", err)
		}
	}
	return nil
}

// decodeError turns a non-2xx response into *Error, keeping the remote code
// and detail verbatim.
func (h *HTTPClient) decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var remote struct {
		Code   string `json:"code"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &remote); err != nil || remote.Code == "" {
		remote.Code = "http_error_" + strconv.Itoa(resp.StatusCode)
		remote.Detail = string(raw)
	}

	h.logger.Debug("delivery service error",
		"status", resp.StatusCode,
		"code", remote.Code,
		"detail", remote.Detail,
	)

	return &Error{Code: remote.Code, Detail: remote.Detail, Status: resp.StatusCode}
}

func (h *HTTPClient) ApplicationGetOrCreate(ctx context.Context, app ApplicationIn) (*ApplicationOut, error) {
	var out ApplicationOut
	q := url.Values{"get_if_exists": {"true"}}
	if err := h.do(ctx, http.MethodPost, "/api/v1/app", q, app, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *HTTPClient) EventTypeCreate(ctx context.Context, et EventTypeIn) (*EventTypeOut, error) {
	var out EventTypeOut
	if err := h.do(ctx, http.MethodPost, "/api/v1/event-type", nil, et, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *HTTPClient) EventTypeUpdate(ctx context.Context, name string, et EventTypeUpdate) (*EventTypeOut, error) {
	var out EventTypeOut
	path := "/api/v1/event-type/" + url.PathEscape(name)
	if err := h.do(ctx, http.MethodPut, path, nil, et, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *HTTPClient) EventTypeGet(ctx context.Context, name string) (*EventTypeOut, error) {
	var out EventTypeOut
	path := "/api/v1/event-type/" + url.PathEscape(name)
	if err := h.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *HTTPClient) EventTypeDelete(ctx context.Context, name string) error {
	path := "/api/v1/event-type/" + url.PathEscape(name)
	return h.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (h *HTTPClient) EventTypeList(ctx context.Context, opts EventTypeListOptions) (ListResponse[EventTypeOut], error) {
	q := url.Values{}
	if opts.Iterator != "" {
		q.Set("iterator", opts.Iterator)
	}
	if opts.WithContent {
		q.Set("with_content", "true")
	}
	if opts.IncludeArchived {
		q.Set("include_archived", "true")
	}

	var out ListResponse[EventTypeOut]
	err := h.do(ctx, http.MethodGet, "/api/v1/event-type", q, nil, &out)
	return out, err
}

func (h *HTTPClient) EndpointCreate(ctx context.Context, appUID string, ep EndpointIn) (*EndpointOut, error) {
	var out EndpointOut
	path := "/api/v1/app/" + url.PathEscape(appUID) + "/endpoint"
	if err := h.do(ctx, http.MethodPost, path, nil, ep, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *HTTPClient) EndpointUpdateHeaders(ctx context.Context, appUID, endpointUID string, headers map[string]string) error {
	path := "/api/v1/app/" + url.PathEscape(appUID) + "/endpoint/" + url.PathEscape(endpointUID) + "/headers"
	in := map[string]any{"headers": headers}
	return h.do(ctx, http.MethodPut, path, nil, in, nil)
}

func (h *HTTPClient) EndpointList(ctx context.Context, appUID string, opts EndpointListOptions) (ListResponse[EndpointOut], error) {
	q := url.Values{}
	if opts.Iterator != "" {
		q.Set("iterator", opts.Iterator)
	}
	if opts.Order != "" {
		q.Set("order", string(opts.Order))
	}

	var out ListResponse[EndpointOut]
	path := "/api/v1/app/" + url.PathEscape(appUID) + "/endpoint"
	err := h.do(ctx, http.MethodGet, path, q, nil, &out)
	return out, err
}

func (h *HTTPClient) EndpointGetSecret(ctx context.Context, appUID, endpointUID string) (string, error) {
	var out struct {
		Key string `json:"key"`
	}
	path := "/api/v1/app/" + url.PathEscape(appUID) + "/endpoint/" + url.PathEscape(endpointUID) + "/secret"
	if err := h.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return "", err
	}
	return out.Key, nil
}

func (h *HTTPClient) EndpointDelete(ctx context.Context, appUID, endpointUID string) error {
	path := "/api/v1/app/" + url.PathEscape(appUID) + "/endpoint/" + url.PathEscape(endpointUID)
	return h.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (h *HTTPClient) MessageCreate(ctx context.Context, appUID string, msg MessageIn) (*MessageOut, error) {
	var out MessageOut
	path := "/api/v1/app/" + url.PathEscape(appUID) + "/msg"
	if err := h.do(ctx, http.MethodPost, path, nil, msg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *HTTPClient) AttemptedMessageList(ctx context.Context, appUID, endpointUID string, opts AttemptListOptions) (ListResponse[EndpointMessageOut], error) {
	var out ListResponse[EndpointMessageOut]
	path := "/api/v1/app/" + url.PathEscape(appUID) + "/endpoint/" + url.PathEscape(endpointUID) + "/msg"
	err := h.do(ctx, http.MethodGet, path, attemptQuery(opts), nil, &out)
	return out, err
}

func (h *HTTPClient) AttemptList(ctx context.Context, appUID, endpointUID string, opts AttemptListOptions) (ListResponse[MessageAttemptOut], error) {
	var out ListResponse[MessageAttemptOut]
	path := "/api/v1/app/" + url.PathEscape(appUID) + "/attempt/endpoint/" + url.PathEscape(endpointUID)
	err := h.do(ctx, http.MethodGet, path, attemptQuery(opts), nil, &out)
	return out, err
}

func attemptQuery(opts AttemptListOptions) url.Values {
	q := url.Values{}
	if opts.Iterator != "" {
		q.Set("iterator", opts.Iterator)
	}
	if opts.Before != nil {
		q.Set("before", opts.Before.UTC().Format(time.RFC3339))
	}
	if opts.After != nil {
		q.Set("after", opts.After.UTC().Format(time.RFC3339))
	}
	return q
}
