package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"SignalRank/internal/model"
)

func newFakeAPI(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *TelegramNotifier) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	n := NewTelegramNotifier("test-token", "42", "")
	n.BaseURL = srv.URL
	return srv, n
}

func TestSend_PostsHTMLMessage(t *testing.T) {
	var got sendMessageRequest
	_, n := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/bottest-token/sendMessage") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"ok":true}`))
	})

	if err := n.Send("<b>hello</b>"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got.ChatID != "42" || got.Text != "<b>hello</b>" || got.ParseMode != "HTML" {
		t.Errorf("unexpected payload: %+v", got)
	}
}

func TestSend_RejectedByAPI(t *testing.T) {
	_, n := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	})
	err := n.Send("x")
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("expected rejection error, got %v", err)
	}
}

func TestSend_HTTPError(t *testing.T) {
	_, n := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	})
	if err := n.Send("x"); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestSendWithRetry_EventualSuccess(t *testing.T) {
	var calls atomic.Int32
	_, n := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "flaky", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := n.SendWithRetry(ctx, "x", 3); err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 attempts, got %d", calls.Load())
	}
}

func TestSendWithRetry_ContextCancelled(t *testing.T) {
	_, n := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := n.SendWithRetry(ctx, "x", 5); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFormatDailyReport(t *testing.T) {
	date := time.Date(2023, 10, 16, 0, 0, 0, 0, time.UTC)
	records := []model.ScoreRecord{
		{Symbol: "NVDA", Score: 7, Rank: 1},
		{Symbol: "AAPL", Score: -2, Rank: 2},
	}
	got := FormatDailyReport(date, records)
	for _, want := range []string{"2023-10-16", "#1 NVDA: +7", "#2 AAPL: -2"} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}

	empty := FormatDailyReport(date, nil)
	if !strings.Contains(empty, "No scores") {
		t.Errorf("empty report should say so:\n%s", empty)
	}
}

func TestFormatBacktestReport(t *testing.T) {
	pair := model.ThresholdPair{M: 2, N: -20}
	results := []model.BacktestDayResult{
		{Date: time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)},
		{
			Date:            time.Date(2023, 5, 2, 0, 0, 0, 0, time.UTC),
			TotalInvestment: 500059.30,
			TotalEarning:    510000,
			NetEarning:      9940.70,
			ReturnRate:      1.95,
		},
	}
	got := FormatBacktestReport(pair, results)
	for _, want := range []string{"buy ≥ 2", "sell ≤ -20", "2 trading days", "9940.70", "1.95%"} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}
}
