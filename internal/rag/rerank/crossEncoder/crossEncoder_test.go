package crossEncoder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTEI(t *testing.T, handler func(w http.ResponseWriter, req rerankRequest)) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /rerank", func(w http.ResponseWriter, r *http.Request) {
		var req rerankRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		handler(w, req)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestScorePairs_MapsScoresBackToInputOrder(t *testing.T) {
	srv := newTEI(t, func(w http.ResponseWriter, req rerankRequest) {
		if !req.RawScores || req.Query != "pto policy" || len(req.Texts) != 3 {
			t.Errorf("unexpected request %+v", req)
		}
		// TEI answers sorted by score, not by input position
		_ = json.NewEncoder(w).Encode([]rankedText{
			{Index: 2, Score: 7.5},
			{Index: 0, Score: 1.25},
			{Index: 1, Score: -3},
		})
	})

	c, err := newWithClient(context.Background(), srv.URL+"/", srv.Client())
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.ScorePairs(context.Background(), "pto policy", []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1.25, -3, 7.5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("score[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScorePairs_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler func(w http.ResponseWriter, req rerankRequest)
	}{
		{"server error", func(w http.ResponseWriter, _ rerankRequest) {
			http.Error(w, "model overloaded", http.StatusServiceUnavailable)
		}},
		{"missing index", func(w http.ResponseWriter, _ rerankRequest) {
			_ = json.NewEncoder(w).Encode([]rankedText{{Index: 0, Score: 1}})
		}},
		{"out of range index", func(w http.ResponseWriter, _ rerankRequest) {
			_ = json.NewEncoder(w).Encode([]rankedText{{Index: 0, Score: 1}, {Index: 5, Score: 1}})
		}},
		{"garbage body", func(w http.ResponseWriter, _ rerankRequest) {
			_, _ = w.Write([]byte("not json"))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTEI(t, tt.handler)
			c, err := newWithClient(context.Background(), srv.URL, srv.Client())
			if err != nil {
				t.Fatal(err)
			}
			if _, err := c.ScorePairs(context.Background(), "q", []string{"a", "b"}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNew_UnavailableService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := newWithClient(context.Background(), srv.URL, srv.Client()); err == nil {
		t.Error("expected unhealthy service to be rejected")
	}
	if _, err := New(context.Background(), ""); err == nil {
		t.Error("expected empty url to be rejected")
	}
}
