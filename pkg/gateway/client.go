package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-formwizard/internal/contract"
)

const (
	pathApplicationForm = "/application-forms/{appId}"
	pathSection         = "/application-forms/{appId}/sections/{sectionId}"
	pathSectionOrder    = "/application-forms/{appId}/sections/{sectionId}/order/{increment}"
	pathQuestions       = "/application-forms/{appId}/sections/{sectionId}/questions"
	pathQuestion        = "/application-forms/{appId}/sections/{sectionId}/questions/{questionId}"
	pathQuestionOrder   = "/application-forms/{appId}/sections/{sectionId}/questions/{questionId}/order/{increment}"
)

const maxErrorBody = 1 << 20

// Option configures the HTTP gateway client.
type Option func(*Client)

// WithHTTPClient injects the HTTP client used for backend calls.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout bounds every backend call. Zero leaves the context deadline in
// charge.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithContract enables outbound payload checks against the backend OpenAPI
// document. Rejected payloads surface as ValidationError without a network
// call.
func WithContract(validator *contract.Validator) Option {
	return func(c *Client) {
		c.contract = validator
	}
}

// WithHeader adds a static header to every backend request.
func WithHeader(name, value string) Option {
	return func(c *Client) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		c.headers.Set(name, value)
	}
}

// Client implements Gateway over the backend's HTTP API.
type Client struct {
	base     *url.URL
	http     *http.Client
	timeout  time.Duration
	contract *contract.Validator
	headers  http.Header
}

var _ Gateway = (*Client)(nil)

// New constructs a client for the backend rooted at baseURL.
func New(baseURL string, options ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("gateway: base url is required")
	}
	base, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("gateway: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("gateway: base url %q must be absolute", baseURL)
	}

	c := &Client{
		base:    base,
		http:    http.DefaultClient,
		headers: make(http.Header),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

type call struct {
	op       string
	method   string
	template string
	path     string
	query    url.Values
	body     any
	resource string
	id       string
}

func (c *Client) GetApplicationForm(ctx context.Context, appID string) (ApplicationForm, error) {
	var out ApplicationForm
	err := c.do(ctx, call{
		op:       "get application form",
		method:   http.MethodGet,
		template: pathApplicationForm,
		path:     "/application-forms/" + url.PathEscape(appID),
		resource: "application form",
		id:       appID,
	}, &out)
	return out, err
}

func (c *Client) GetSection(ctx context.Context, appID, sectionID string) (Section, error) {
	var out Section
	err := c.do(ctx, call{
		op:       "get section",
		method:   http.MethodGet,
		template: pathSection,
		path:     sectionPath(appID, sectionID),
		resource: "section",
		id:       sectionID,
	}, &out)
	return out, err
}

func (c *Client) GetQuestion(ctx context.Context, appID, sectionID, questionID string) (Question, error) {
	var out Question
	err := c.do(ctx, call{
		op:       "get question",
		method:   http.MethodGet,
		template: pathQuestion,
		path:     questionPath(appID, sectionID, questionID),
		resource: "question",
		id:       questionID,
	}, &out)
	return out, err
}

func (c *Client) CreateQuestion(ctx context.Context, appID, sectionID string, payload QuestionPayload) (string, error) {
	var out struct {
		ID         string `json:"id"`
		QuestionID string `json:"questionId"`
	}
	err := c.do(ctx, call{
		op:       "create question",
		method:   http.MethodPost,
		template: pathQuestions,
		path:     sectionPath(appID, sectionID) + "/questions",
		body:     payload,
		resource: "section",
		id:       sectionID,
	}, &out)
	if err != nil {
		return "", err
	}
	if out.QuestionID != "" {
		return out.QuestionID, nil
	}
	return out.ID, nil
}

func (c *Client) PatchQuestion(ctx context.Context, appID, sectionID, questionID string, payload QuestionPayload) error {
	return c.do(ctx, call{
		op:       "patch question",
		method:   http.MethodPatch,
		template: pathQuestion,
		path:     questionPath(appID, sectionID, questionID),
		body:     payload,
		resource: "question",
		id:       questionID,
	}, nil)
}

func (c *Client) ReorderQuestion(ctx context.Context, appID, sectionID, questionID string, increment, version int) error {
	return c.do(ctx, call{
		op:       "reorder question",
		method:   http.MethodPatch,
		template: pathQuestionOrder,
		path:     questionPath(appID, sectionID, questionID) + "/order/" + strconv.Itoa(increment),
		query:    url.Values{"version": {strconv.Itoa(version)}},
		resource: "question",
		id:       questionID,
	}, nil)
}

func (c *Client) ReorderSection(ctx context.Context, appID, sectionID string, increment, version int) error {
	return c.do(ctx, call{
		op:       "reorder section",
		method:   http.MethodPatch,
		template: pathSectionOrder,
		path:     sectionPath(appID, sectionID) + "/order/" + strconv.Itoa(increment),
		query:    url.Values{"version": {strconv.Itoa(version)}},
		resource: "section",
		id:       sectionID,
	}, nil)
}

func (c *Client) do(ctx context.Context, in call, out any) error {
	var body io.Reader
	if in.body != nil {
		if c.contract != nil {
			if err := c.contract.ValidateBody(in.method, in.template, in.body); err != nil {
				return contractFailure(in.op, err)
			}
		}
		raw, err := json.Marshal(in.body)
		if err != nil {
			return &TransportError{Op: in.op, Err: fmt.Errorf("encode body: %w", err)}
		}
		body = bytes.NewReader(raw)
	}

	reqCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target, err := url.Parse(c.base.String() + in.path)
	if err != nil {
		return &TransportError{Op: in.op, Err: fmt.Errorf("build url: %w", err)}
	}
	if len(in.query) > 0 {
		target.RawQuery = in.query.Encode()
	}

	req, err := http.NewRequestWithContext(reqCtx, in.method, target.String(), body)
	if err != nil {
		return &TransportError{Op: in.op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for name, values := range c.headers {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: in.op, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return &TransportError{Op: in.op, Status: resp.StatusCode, Err: err}
		}
		if len(bytes.TrimSpace(raw)) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return &TransportError{Op: in.op, Status: resp.StatusCode, Err: fmt.Errorf("decode body: %w", err)}
		}
		return nil
	}

	return c.failure(in, resp)
}

func (c *Client) failure(in call, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	switch resp.StatusCode {
	case http.StatusNotFound:
		return &NotFoundError{Resource: in.resource, ID: in.id}
	case http.StatusConflict, http.StatusPreconditionFailed:
		return &TransportError{Op: in.op, Status: resp.StatusCode, Err: ErrVersionConflict}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if fields := decodeFieldErrors(raw); len(fields) > 0 {
			return &ValidationError{Op: in.op, Fields: fields}
		}
	}
	return &TransportError{Op: in.op, Status: resp.StatusCode}
}

type errorBody struct {
	FieldErrors []FieldError `json:"fieldErrors"`
	Errors      []FieldError `json:"errors"`
}

func decodeFieldErrors(raw []byte) []FieldError {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil
	}
	fields := body.FieldErrors
	if len(fields) == 0 {
		fields = body.Errors
	}
	out := make([]FieldError, 0, len(fields))
	for _, fe := range fields {
		if strings.TrimSpace(fe.FieldName) == "" {
			continue
		}
		out = append(out, fe)
	}
	return out
}

func contractFailure(op string, err error) error {
	var contractErr *contract.Error
	if !errors.As(err, &contractErr) {
		return &TransportError{Op: op, Err: err}
	}
	fields := make([]FieldError, 0, len(contractErr.Issues))
	for _, issue := range contractErr.Issues {
		fields = append(fields, FieldError{FieldName: issue.Field, ErrorMessage: issue.Message})
	}
	return &ValidationError{Op: op, Fields: fields}
}

func sectionPath(appID, sectionID string) string {
	return "/application-forms/" + url.PathEscape(appID) + "/sections/" + url.PathEscape(sectionID)
}

func questionPath(appID, sectionID, questionID string) string {
	return sectionPath(appID, sectionID) + "/questions/" + url.PathEscape(questionID)
}
