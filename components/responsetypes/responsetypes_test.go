package responsetypes_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/components/responsetypes"
	"github.com/goliatone/go-formwizard/pkg/responsetype"
)

type handlerResponse struct {
	Data []responsetypes.Option `json:"data"`
}

func get(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, handlerResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var payload handlerResponse
	if rec.Code == http.StatusOK {
		if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return rec, payload
}

func values(opts []responsetypes.Option) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		out = append(out, o.Value)
	}
	return out
}

func TestHandler_EmptyQueryListsCatalog(t *testing.T) {
	rec, payload := get(t, responsetypes.NewHandler(), "/api/response-types")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content type, got %q", ct)
	}
	if len(payload.Data) != 9 || payload.Data[0].Value != "YesNo" {
		t.Fatalf("unexpected catalog listing %v", values(payload.Data))
	}
}

func TestHandler_EmptyQueryNoneMode(t *testing.T) {
	h := responsetypes.NewHandler(responsetypes.WithEmptySearchMode(responsetypes.EmptySearchNone))
	_, payload := get(t, h, "/api/response-types")
	if payload.Data == nil || len(payload.Data) != 0 {
		t.Fatalf("expected empty data array, got %#v", payload.Data)
	}
}

func TestHandler_QueryRanksPrefixFirst(t *testing.T) {
	_, payload := get(t, responsetypes.NewHandler(), "/api/response-types?q=answer")
	if diff := cmp.Diff([]string{"ShortAnswer", "LongAnswer"}, values(payload.Data)); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}

	_, payload = get(t, responsetypes.NewHandler(), "/api/response-types?q=long")
	want := []responsetypes.Option{{
		Value:       "LongAnswer",
		Label:       "Long answer",
		Description: "Free text with a word limit.",
		Next:        "add-word-count",
	}}
	if diff := cmp.Diff(want, payload.Data); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_NextFilterAndLimit(t *testing.T) {
	_, payload := get(t, responsetypes.NewHandler(), "/api/response-types?next=question-options")
	if diff := cmp.Diff([]string{"Dropdown", "MultipleSelection"}, values(payload.Data)); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}

	_, payload = get(t, responsetypes.NewHandler(responsetypes.WithMaxLimit(2)), "/api/response-types?next=none&limit=10")
	if diff := cmp.Diff([]string{"YesNo", "ShortAnswer"}, values(payload.Data)); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_CustomCatalog(t *testing.T) {
	catalog, err := responsetype.LoadCatalog([]byte("types:\n  - tag: Colour\n    label: Colour picker\n"))
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	_, payload := get(t, responsetypes.NewHandler(responsetypes.WithCatalog(catalog)), "/api/response-types?q=col")
	if diff := cmp.Diff([]string{"Colour"}, values(payload.Data)); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_MethodAndGuard(t *testing.T) {
	rec := httptest.NewRecorder()
	responsetypes.NewHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/response-types", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}

	guarded := responsetypes.NewHandler(responsetypes.WithGuard(func(*http.Request) error {
		return responsetypes.StatusError{Code: http.StatusUnauthorized, Err: errors.New("no session")}
	}))
	rec, _ = get(t, guarded, "/api/response-types")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRegisterRoutes(t *testing.T) {
	if got := responsetypes.MountPath("/admin/"); got != "/admin/api/response-types" {
		t.Fatalf("unexpected mount path %q", got)
	}

	mux := http.NewServeMux()
	pattern, err := responsetypes.New().RegisterRoutes(mux, "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	rec, payload := get(t, mux, pattern+"?q=date")
	if rec.Code != http.StatusOK || len(payload.Data) != 1 {
		t.Fatalf("unexpected response %d %v", rec.Code, payload.Data)
	}
	if _, err := responsetypes.RegisterRoutes(nil, ""); err == nil {
		t.Fatalf("expected error for nil mux")
	}
}

func TestRegisterRoutes_CustomPathParamAndDefaultLimit(t *testing.T) {
	component := responsetypes.New(
		responsetypes.WithRoutePath("types"),
		responsetypes.WithSearchParam("term"),
		responsetypes.WithDefaultLimit(1),
	)
	mux := http.NewServeMux()
	pattern, err := component.RegisterRoutes(mux, "/admin")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if pattern != "/admin/types" {
		t.Fatalf("unexpected pattern %q", pattern)
	}

	cases := []struct {
		target string
		want   []string
	}{
		{target: "/admin/types?term=answer", want: []string{"ShortAnswer"}},
		{target: "/admin/types?term=answer&limit=5", want: []string{"ShortAnswer", "LongAnswer"}},
		{target: "/admin/types?q=answer", want: []string{"YesNo"}},
	}
	for _, tc := range cases {
		rec, payload := get(t, mux, tc.target)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", tc.target, rec.Code)
		}
		if diff := cmp.Diff(tc.want, values(payload.Data)); diff != "" {
			t.Fatalf("%s: results mismatch (-want +got):\n%s", tc.target, diff)
		}
	}
}
