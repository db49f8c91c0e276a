package helius

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestParseTransactions_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Query().Get("api-key") != "test-key" {
			t.Errorf("missing api-key query parameter")
		}
		var req map[string][]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req["transactions"]) != 2 {
			t.Errorf("expected 2 signatures, got %d", len(req["transactions"]))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"signature":"sig1","timestamp":1700000000,"type":"SWAP"}]`))
	}))
	defer srv.Close()

	client := NewHTTPClient("test-key", WithBaseURL(srv.URL))
	txs, err := client.ParseTransactions(context.Background(), []string{"sig1", "sig2"})
	if err != nil {
		t.Fatalf("ParseTransactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
	if txs[0].Signature != "sig1" || txs[0].Type != "SWAP" {
		t.Errorf("unexpected transaction: %+v", txs[0])
	}
}

func TestParseTransactions_BatchLimit(t *testing.T) {
	client := NewHTTPClient("test-key")
	sigs := make([]string, MaxParseBatch+1)
	if _, err := client.ParseTransactions(context.Background(), sigs); err == nil {
		t.Error("expected error for oversized batch")
	}
}

func TestParseTransactions_EmptyBatch(t *testing.T) {
	client := NewHTTPClient("test-key")
	txs, err := client.ParseTransactions(context.Background(), nil)
	if err != nil {
		t.Fatalf("expected nil error for empty batch, got %v", err)
	}
	if txs != nil {
		t.Errorf("expected nil result, got %v", txs)
	}
}

func TestAddressTransactions_Pagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("before"); got != "sig-cursor" {
			t.Errorf("expected before=sig-cursor, got %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "50" {
			t.Errorf("expected limit=50, got %q", got)
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewHTTPClient("test-key", WithBaseURL(srv.URL))
	txs, err := client.AddressTransactions(context.Background(), "some-address", "sig-cursor", 50)
	if err != nil {
		t.Fatalf("AddressTransactions: %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("expected empty page, got %d", len(txs))
	}
}

func TestDo_RetriesOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewHTTPClient("test-key",
		WithBaseURL(srv.URL),
		WithRetryDelay(time.Millisecond),
	)
	if _, err := client.AddressTransactions(context.Background(), "addr", "", 0); err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 calls, got %d", calls.Load())
	}
}

func TestDo_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewHTTPClient("bad-key",
		WithBaseURL(srv.URL),
		WithRetryDelay(time.Millisecond),
	)
	if _, err := client.AddressTransactions(context.Background(), "addr", "", 0); err == nil {
		t.Fatal("expected error for 401")
	}
	if calls.Load() != 1 {
		t.Errorf("expected exactly 1 call, got %d", calls.Load())
	}
}
