// README: Smoke and load checks: HTTP contract, order persistence in Postgres, sessions in Redis, throughput.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
	StatusSkip = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client

	// lastOrderID is set by the confirmation check and read by the DB check.
	lastOrderID string
}

type Result struct {
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}

	return results
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	acct := r.cfg.AccountID
	confirm := map[string]any{"message": "Confirm order: Yes, product: TV, plan: Basic", "accountId": acct}

	return []TestCase{
		{
			Name: "Env: Postgres connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: StatusSkip, Note: "db not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: StatusSkip, Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "Migration: tables exist",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: StatusSkip, Note: "db not configured"}
				}
				tables, err := extractTables(r.cfg.MigrationsDir)
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				for _, t := range tables {
					var exists bool
					err := r.db.QueryRow(ctx,
						"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
						t,
					).Scan(&exists)
					if err != nil {
						return Result{Status: StatusFail, Note: err.Error()}
					}
					if !exists {
						return Result{Status: StatusFail, Note: "missing table: " + t}
					}
				}
				return Result{Status: StatusPass, Note: fmt.Sprintf("tables=%d", len(tables))}
			},
		},

		httpCase("API: health", http.MethodGet, base+"/health", nil, http.StatusOK),
		httpCase("API: catalog", http.MethodGet, base+"/api/catalog", nil, http.StatusOK),
		httpCase("Account: get", http.MethodGet, base+"/api/accounts/"+acct, nil, http.StatusOK),
		httpCase("Account: unknown -> 404", http.MethodGet, base+"/api/accounts/ghost-account", nil, http.StatusNotFound),

		// Chat contract
		httpCase("Chat: missing fields -> 400", http.MethodPost, base+"/api/chat", map[string]any{}, http.StatusBadRequest),
		httpCase("Chat: unknown account -> 404", http.MethodPost, base+"/api/chat", map[string]any{"message": "hi", "accountId": "ghost-account"}, http.StatusNotFound),
		{
			Name: "Chat: confirmation commits an order",
			Run: func(ctx context.Context, r *Runner) Result {
				var out struct {
					OrderPlaced bool   `json:"orderPlaced"`
					OrderID     string `json:"orderId"`
				}
				start := time.Now()
				status, err := r.postJSON(ctx, base+"/api/chat", confirm, &out)
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				latency := time.Since(start)
				if status != http.StatusOK || !out.OrderPlaced || out.OrderID == "" {
					return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("status=%d orderPlaced=%v", status, out.OrderPlaced)}
				}
				r.lastOrderID = out.OrderID
				return Result{Status: StatusPass, Latency: latency, Note: out.OrderID}
			},
		},
		{
			Name: "DB: committed order persisted",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: StatusSkip, Note: "db not configured"}
				}
				if r.lastOrderID == "" {
					return Result{Status: StatusSkip, Note: "no order committed"}
				}
				var status string
				err := r.db.QueryRow(ctx, "SELECT status FROM orders WHERE id = $1 AND account_id = $2", r.lastOrderID, acct).Scan(&status)
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				if status != "Active" {
					return Result{Status: StatusFail, Note: "status=" + status}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "Redis: session recorded",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: StatusSkip, Note: "redis not configured"}
				}
				n, err := r.redis.LLen(ctx, "carebot:session:"+acct).Result()
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				if n < 3 {
					return Result{Status: StatusFail, Note: fmt.Sprintf("turns=%d", n)}
				}
				return Result{Status: StatusPass, Note: fmt.Sprintf("turns=%d", n)}
			},
		},
		httpCase("Session: get", http.MethodGet, base+"/api/accounts/"+acct+"/session", nil, http.StatusOK),
		httpCase("Session: reset", http.MethodDelete, base+"/api/accounts/"+acct+"/session", nil, http.StatusOK),

		// Direct orders
		httpCase("Order: create", http.MethodPost, base+"/api/orders", map[string]any{
			"accountId":   acct,
			"productName": "Internet",
			"plan":        "Premium",
		}, http.StatusCreated),
		httpCase("Order: unknown product -> 400", http.MethodPost, base+"/api/orders", map[string]any{
			"accountId":   acct,
			"productName": "Fax",
			"plan":        "Premium",
		}, http.StatusBadRequest),

		{
			Name: "Concurrency: parallel confirmations",
			Run: func(ctx context.Context, r *Runner) Result {
				return concurrentConfirm(ctx, r, base+"/api/chat", confirm)
			},
		},

		// Load
		{
			Name: "Perf: catalog throughput",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, http.MethodGet, base+"/api/catalog", nil)
			},
		},
		{
			Name: "Perf: account lookup throughput",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, http.MethodGet, base+"/api/accounts/"+acct, nil)
			},
		},
	}
}

func httpCase(name, method, url string, body any, okStatuses ...int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			start := time.Now()
			resp, err := r.do(ctx, method, url, body)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			latency := time.Since(start)

			if contains(okStatuses, resp.StatusCode) {
				return Result{Status: StatusPass, Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
			}
			return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
		},
	}
}

func (r *Runner) do(ctx context.Context, method, url string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return r.httpc.Do(req)
}

func (r *Runner) postJSON(ctx context.Context, url string, body, out any) (int, error) {
	resp, err := r.do(ctx, http.MethodPost, url, body)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, err
	}
	return resp.StatusCode, nil
}

// concurrentConfirm fires the same confirmation in parallel. Without the
// duplicate guard every request commits its own order; with it exactly one does.
func concurrentConfirm(ctx context.Context, r *Runner, url string, payload any) Result {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		ids    = make(map[string]bool)
		failed int
	)
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var out struct {
				OrderPlaced bool   `json:"orderPlaced"`
				OrderID     string `json:"orderId"`
			}
			status, err := r.postJSON(ctx, url, payload, &out)
			mu.Lock()
			defer mu.Unlock()
			if err != nil || status != http.StatusOK {
				failed++
				return
			}
			if out.OrderPlaced {
				ids[out.OrderID] = true
			}
		}()
	}
	wg.Wait()

	note := fmt.Sprintf("committed=%d failed=%d", len(ids), failed)
	if failed > 0 {
		return Result{Status: StatusFail, Note: note}
	}
	if len(ids) == r.cfg.Concurrency || len(ids) <= 1 {
		return Result{Status: StatusPass, Note: note}
	}
	return Result{Status: StatusFail, Note: note + " (guard partially applied)"}
}

func perfLoad(ctx context.Context, r *Runner, method, url string, payload any) Result {
	end := time.Now().Add(r.cfg.Duration)
	var count int64
	var errCount int64
	var mu sync.Mutex
	wg := sync.WaitGroup{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				resp, err := r.do(ctx, method, url, payload)
				if err != nil {
					mu.Lock()
					errCount++
					mu.Unlock()
					continue
				}
				_, _ = io.Copy(io.Discard, resp.Body)
				_ = resp.Body.Close()
				mu.Lock()
				count++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: StatusFail, Note: "no requests completed"}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: StatusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount)}
}

func contains(list []int, v int) bool {
	for _, i := range list {
		if i == v {
			return true
		}
	}
	return false
}

var createTableRe = regexp.MustCompile(`(?i)create\s+table\s+if\s+not\s+exists\s+([a-zA-Z0-9_]+)`)

func extractTables(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, err
	}
	var tables []string
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}
		for _, m := range createTableRe.FindAllStringSubmatch(string(b), -1) {
			tables = append(tables, m[1])
		}
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("no tables declared in %s", dir)
	}
	return tables, nil
}
