package fetcher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestClientMissingBaseURL(t *testing.T) {
	c := NewClient(Options{}, noopLogger())
	if _, err := c.Leaderboard(context.Background()); err == nil {
		t.Fatal("未配置 base_url 时应报错")
	}
}

func TestClientHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	if _, err := c.Leaderboard(context.Background()); err == nil {
		t.Fatal("HTTP 502 应返回错误")
	}
}

func TestClientMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	if _, err := c.DecisionsByModel(context.Background(), "gpt-5"); err == nil {
		t.Fatal("畸形响应应返回错误")
	}
}

func TestClientDecisionsByModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/decisions" {
			t.Fatalf("路径应为 /decisions, 实际 %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("model_id"); got != "gpt-5" {
			t.Fatalf("model_id 参数不正确: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{
				"model_id":    "gpt-5",
				"target_date": "2025-09-17T00:00:00Z",
				"decided_at":  "2025-09-17T08:30:00Z",
				"event_decisions": []map[string]any{
					{
						"event_id":    "e1",
						"title":       "Fed cuts in September",
						"unallocated": 0.2,
						"market_decisions": []map[string]any{
							{
								"market_id":             "m1",
								"question":              "Will the Fed cut 25bps?",
								"estimated_probability": 0.65,
								"bet":                   0.4,
								"confidence":            7,
							},
						},
					},
				},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, Timeout: time.Second, UserAgent: "test"}, noopLogger())
	decisions, err := c.DecisionsByModel(context.Background(), "gpt-5")
	if err != nil {
		t.Fatalf("成功响应不应报错: %v", err)
	}
	if len(decisions) != 1 {
		t.Fatalf("期望 1 条决策, 实际 %d", len(decisions))
	}

	d := decisions[0]
	if d.ModelID != "gpt-5" || len(d.Events) != 1 {
		t.Fatalf("decision decoded incorrectly: %#v", d)
	}
	md := d.Events[0].Markets[0]
	if md.Bet.String() != "0.4" || md.EstimatedProbability.String() != "0.65" {
		t.Fatalf("market decision decoded incorrectly: %#v", md)
	}
}

func TestClientDecisionsByDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("date"); got != "2025-09-17" {
			t.Fatalf("date 参数不正确: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	date := time.Date(2025, 9, 17, 0, 0, 0, 0, time.UTC)
	if _, err := c.DecisionsByDate(context.Background(), date); err != nil {
		t.Fatalf("成功响应不应报错: %v", err)
	}
}

func TestClientEventByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/events/e1" {
			t.Fatalf("路径应为 /events/e1, 实际 %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":    "e1",
			"title": "Fed cuts in September",
			"markets": []map[string]any{
				{
					"id":       "m1",
					"question": "Will the Fed cut 25bps?",
					"prices": map[string]any{
						"market_id": "m1",
						"points": []map[string]any{
							{"date": "2025-09-17T00:00:00Z", "price": 0.3},
						},
					},
				},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	event, err := c.EventByID(context.Background(), "e1")
	if err != nil {
		t.Fatalf("成功响应不应报错: %v", err)
	}
	if len(event.Markets) != 1 || len(event.Markets[0].Prices.Points) != 1 {
		t.Fatalf("event decoded incorrectly: %#v", event)
	}
	if event.Markets[0].Prices.Points[0].Price.String() != "0.3" {
		t.Fatalf("price decoded incorrectly: %s", event.Markets[0].Prices.Points[0].Price)
	}
}
