// Package httpstore is the draft store adapter for the external session
// service. The session is identified to the service by cookie.
package httpstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-formwizard/pkg/draftstore"
)

// DefaultCookieName is the cookie the session service reads.
const DefaultCookieName = "session_id"

// Option configures the Store.
type Option func(*Store)

// WithHTTPClient injects the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Store) {
		if client != nil {
			s.http = client
		}
	}
}

// WithCookieName overrides the session cookie name.
func WithCookieName(name string) Option {
	return func(s *Store) {
		if strings.TrimSpace(name) != "" {
			s.cookie = name
		}
	}
}

// WithTimeout bounds each call to the session service.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Store) {
		s.timeout = timeout
	}
}

// Store implements draftstore.Store over HTTP. It does not implement
// draftstore.Discarder: drafts live until the session expires.
type Store struct {
	base    string
	http    *http.Client
	cookie  string
	timeout time.Duration
}

var _ draftstore.Store = (*Store)(nil)

// New returns a store for the session service rooted at baseURL.
func New(baseURL string, options ...Option) (*Store, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("httpstore: base url is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("httpstore: parse base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("httpstore: base url %q must be absolute", baseURL)
	}

	s := &Store{
		base:   trimmed,
		http:   http.DefaultClient,
		cookie: DefaultCookieName,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Get fetches the whole draft object. A missing object is an empty draft.
func (s *Store) Get(ctx context.Context, sessionID string, ns draftstore.Namespace) (draftstore.Fields, error) {
	if err := draftstore.CheckKey(sessionID, ns); err != nil {
		return nil, err
	}
	endpoint := s.base + "/sessions/object/" + url.PathEscape(string(ns))

	raw, found, err := s.send(ctx, http.MethodGet, endpoint, sessionID, nil)
	if err != nil {
		return nil, err
	}
	out := draftstore.Fields{}
	if !found || len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("httpstore: decode draft %s: %w", ns, err)
	}
	return out, nil
}

// Field fetches one draft field. Non-JSON bodies are returned as strings.
func (s *Store) Field(ctx context.Context, sessionID string, ns draftstore.Namespace, name string) (any, bool, error) {
	if err := draftstore.CheckKey(sessionID, ns); err != nil {
		return nil, false, err
	}
	endpoint := s.base + "/sessions/" + url.PathEscape(string(ns)+"."+name)

	raw, found, err := s.send(ctx, http.MethodGet, endpoint, sessionID, nil)
	if err != nil || !found {
		return nil, false, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, nil
	}
	var value any
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return string(trimmed), true, nil
	}
	if value == nil {
		return nil, false, nil
	}
	return value, true, nil
}

// Merge sends the partial field map to the batch-add endpoint.
func (s *Store) Merge(ctx context.Context, sessionID string, ns draftstore.Namespace, fields draftstore.Fields) error {
	if err := draftstore.CheckKey(sessionID, ns); err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("httpstore: encode fields: %w", err)
	}
	endpoint := s.base + "/sessions/batch-add?" + url.Values{"objectKey": {string(ns)}}.Encode()

	_, found, err := s.send(ctx, http.MethodPatch, endpoint, sessionID, body)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("httpstore: merge %s: session not found", ns)
	}
	return nil
}

func (s *Store) send(ctx context.Context, method, endpoint, sessionID string, body []byte) ([]byte, bool, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, false, fmt.Errorf("httpstore: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(&http.Cookie{Name: s.cookie, Value: sessionID})

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("httpstore: %s %s: %w", method, req.URL.Path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, false, fmt.Errorf("httpstore: %s %s: unexpected status %d", method, req.URL.Path, resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("httpstore: read body: %w", err)
	}
	return raw, true, nil
}
