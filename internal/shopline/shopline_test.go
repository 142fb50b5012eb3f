package shopline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestProducts_ForwardsTokenAndParams(t *testing.T) {
	var gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/products" {
			t.Errorf("path = %s, want /v1/products", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	raw, err := c.Products(context.Background(), "tok123", ListParams{Page: 2, Limit: 50, Status: "active"})
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	if string(raw) != `{"items":[]}` {
		t.Errorf("body = %s", raw)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotQuery != "limit=50&page=2&status=active" {
		t.Errorf("query = %q", gotQuery)
	}
}

func TestShop_OmitsUnsetFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Errorf("query = %q, want empty", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("Authorization should be omitted when no token supplied")
		}
		w.Write([]byte(`{"name":"demo"}`))
	}))
	defer srv.Close()

	if _, err := New(srv.URL).Shop(context.Background(), ""); err != nil {
		t.Fatalf("Shop: %v", err)
	}
}

func TestGet_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Orders(context.Background(), "tok", ListParams{})
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %v, want *UpstreamError", err)
	}
	if ue.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want 403", ue.StatusCode)
	}
}
