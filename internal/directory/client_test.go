package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListOfficersSortedByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("capability"); got != "procurement_officer" {
			t.Errorf("capability = %q, want procurement_officer", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("authorization = %q, want bearer token", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": 9, "name": "zoe"}, {"id": 2, "name": "ana"}, {"id": 5, "name": "ben"}]`))
	}))
	defer srv.Close()

	officers, err := NewHTTPClient(srv.URL, "tok").ListOfficers(context.Background())
	if err != nil {
		t.Fatalf("ListOfficers: %v", err)
	}
	if len(officers) != 3 {
		t.Fatalf("expected 3 officers, got %d", len(officers))
	}
	for i, want := range []int64{2, 5, 9} {
		if officers[i].ID != want {
			t.Errorf("officers[%d].ID = %d, want %d", i, officers[i].ID, want)
		}
	}
}

func TestListOfficersErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := NewHTTPClient(srv.URL, "").ListOfficers(context.Background()); err == nil {
		t.Error("expected error for 403 response")
	}
}

func TestListOfficersNoToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("expected no authorization header, got %q", got)
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	officers, err := NewHTTPClient(srv.URL, "").ListOfficers(context.Background())
	if err != nil {
		t.Fatalf("ListOfficers: %v", err)
	}
	if len(officers) != 0 {
		t.Errorf("expected empty pool, got %d", len(officers))
	}
}
