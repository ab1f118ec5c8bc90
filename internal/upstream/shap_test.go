package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestFetchSummary_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/shap-summary" {
			t.Errorf("path = %q, want /shap-summary", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Contract_Month-to-month": 0.42, "tenure": 0.31}`))
	}))
	defer srv.Close()

	client := NewShapClient(srv.URL)
	summary, err := client.FetchSummary(context.Background())
	if err != nil {
		t.Fatalf("FetchSummary() error = %v", err)
	}
	if len(summary) != 2 {
		t.Fatalf("summary has %d entries, want 2", len(summary))
	}
	if summary["tenure"] != 0.31 {
		t.Errorf("summary[tenure] = %v, want 0.31", summary["tenure"])
	}
}

func TestFetchSummary_RetriesServerErrors(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"tenure": 0.5}`))
	}))
	defer srv.Close()

	client := NewShapClient(srv.URL)
	summary, err := client.FetchSummary(context.Background())
	if err != nil {
		t.Fatalf("FetchSummary() error = %v", err)
	}
	if got := atomic.LoadInt64(&calls); got < 3 {
		t.Errorf("server called %d times, want at least 3", got)
	}
	if summary["tenure"] != 0.5 {
		t.Errorf("summary[tenure] = %v, want 0.5", summary["tenure"])
	}
}

func TestFetchSummary_PermanentOnClientError(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewShapClient(srv.URL)
	if _, err := client.FetchSummary(context.Background()); err == nil {
		t.Fatal("FetchSummary() should fail on 404")
	}
	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Errorf("server called %d times, want 1 (no retry on 4xx)", got)
	}
}

func TestFetchSummary_EmptyBaseURL(t *testing.T) {
	client := NewShapClient("")
	if _, err := client.FetchSummary(context.Background()); err == nil {
		t.Fatal("FetchSummary() with empty base URL should fail")
	}
}

func TestFetchSummary_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewShapClient(srv.URL)
	if _, err := client.FetchSummary(ctx); err == nil {
		t.Fatal("FetchSummary() with cancelled context should fail")
	}
}
