// README: Smoke and load checks: infra reachability, order CRUD, quotes, export auth, throughput.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"orderdesk/internal/infra"
)

const (
	statusPass = "PASS"
	statusFail = "FAIL"
	statusSkip = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client

	// orderID is set by the create check and reused by later checks.
	orderID string
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
		httpc: &http.Client{Timeout: 10 * time.Second},
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

func delhiMumbai() map[string]any {
	return map[string]any{
		"source_city":      "Delhi",
		"destination_city": "Mumbai",
		"departure_date":   "2016-01-01",
		"arrival_date":     "2016-01-03",
		"bogie_count":      2,
		"wheel_count":      4,
	}
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Name: "Env: Postgres connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: statusFail, Note: "db not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: statusSkip, Note: "order cache disabled"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "Migration: apply (optional)",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration {
					return Result{Status: statusSkip, Note: "apply-migration=false"}
				}
				if r.db == nil {
					return Result{Status: statusFail, Note: "db not configured"}
				}
				if err := infra.ApplyMigrations(ctx, r.db, r.cfg.MigrationsDir); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "Migration: tables exist",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: statusFail, Note: "db not configured"}
				}
				tables, err := extractTables(r.cfg.MigrationsDir)
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				for _, t := range tables {
					var exists bool
					err := r.db.QueryRow(ctx,
						"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
						t,
					).Scan(&exists)
					if err != nil {
						return Result{Status: statusFail, Note: err.Error()}
					}
					if !exists {
						return Result{Status: statusFail, Note: "missing table: " + t}
					}
				}
				return Result{Status: statusPass, Note: fmt.Sprintf("%d tables", len(tables))}
			},
		},
		statusCase("API: health", http.MethodGet, base+"/health", nil, "", http.StatusOK),
		{
			Name: "Order: create derives totals",
			Run: func(ctx context.Context, r *Runner) Result {
				var out struct {
					ID        string `json:"id"`
					TotalDays int    `json:"total_days"`
					TotalCost int64  `json:"total_cost"`
				}
				res, code := r.doJSON(ctx, http.MethodPost, base+"/api/orders", delhiMumbai(), "", &out)
				if res.Status != "" {
					return res
				}
				if code != http.StatusCreated {
					return Result{Status: statusFail, Note: fmt.Sprintf("status=%d", code)}
				}
				if out.TotalDays != 2 || out.TotalCost != 310640 {
					return Result{Status: statusFail, Note: fmt.Sprintf("totals=(%d,%d)", out.TotalDays, out.TotalCost)}
				}
				r.orderID = out.ID
				return Result{Status: statusPass, Note: "id=" + out.ID}
			},
		},
		{
			Name: "Order: get created",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.orderID == "" {
					return Result{Status: statusSkip, Note: "no order created"}
				}
				return expectStatus(ctx, r, http.MethodGet, base+"/api/orders/"+r.orderID, nil, "", http.StatusOK)
			},
		},
		statusCase("Order: bad date -> 400", http.MethodPost, base+"/api/orders", map[string]any{
			"source_city":      "Delhi",
			"destination_city": "Mumbai",
			"departure_date":   "yesterday",
			"arrival_date":     "2016-01-03",
		}, "", http.StatusBadRequest),
		statusCase("Order: unknown id -> 404", http.MethodGet, base+"/api/orders/00000000-0000-0000-0000-000000000000", nil, "", http.StatusNotFound),
		statusCase("Order: list", http.MethodGet, base+"/api/orders", nil, "", http.StatusOK),
		statusCase("Quote: Delhi -> Mumbai", http.MethodPost, base+"/api/quotes", delhiMumbai(), "", http.StatusOK),
		statusCase("Export: create without token -> 401", http.MethodPost, base+"/api/spreadsheets", nil, "", http.StatusUnauthorized),
		{
			Name: "Export: create and sync",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.cfg.SheetsToken == "" {
					return Result{Status: statusSkip, Note: "sheets-token not set"}
				}
				var sp struct {
					ID string `json:"id"`
				}
				res, code := r.doJSON(ctx, http.MethodPost, base+"/api/spreadsheets", nil, r.cfg.SheetsToken, &sp)
				if res.Status != "" {
					return res
				}
				if code != http.StatusCreated {
					return Result{Status: statusFail, Note: fmt.Sprintf("create status=%d", code)}
				}
				return expectStatus(ctx, r, http.MethodPost, base+"/api/spreadsheets/"+sp.ID+"/sync", nil, r.cfg.SheetsToken, http.StatusOK)
			},
		},
		{
			Name: "Concurrency: upserts on one order",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.orderID == "" {
					return Result{Status: statusSkip, Note: "no order created"}
				}
				return concurrentUpsert(ctx, r, base+"/api/orders/"+r.orderID)
			},
		},
		{
			Name: "Order: delete created",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.orderID == "" {
					return Result{Status: statusSkip, Note: "no order created"}
				}
				return expectStatus(ctx, r, http.MethodDelete, base+"/api/orders/"+r.orderID, nil, "", http.StatusNoContent)
			},
		},
		{
			Name: "Perf: quote throughput",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/api/quotes", delhiMumbai())
			},
		},
	}
}

func statusCase(name, method, url string, body any, token string, want int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			return expectStatus(ctx, r, method, url, body, token, want)
		},
	}
}

func expectStatus(ctx context.Context, r *Runner, method, url string, body any, token string, want int) Result {
	start := time.Now()
	res, code := r.doJSON(ctx, method, url, body, token, nil)
	if res.Status != "" {
		return res
	}
	latency := time.Since(start)
	if code != want {
		return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("status=%d want=%d", code, want)}
	}
	return Result{Status: statusPass, Latency: latency, Note: fmt.Sprintf("status=%d", code)}
}

// doJSON sends body as JSON and decodes the response into out when non-nil.
// A non-empty Result.Status means the request itself failed.
func (r *Runner) doJSON(ctx context.Context, method, url string, body any, token string, out any) (Result, int) {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return Result{Status: statusFail, Note: err.Error()}, 0
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := r.httpc.Do(req)
	if err != nil {
		return Result{Status: statusFail, Note: err.Error()}, 0
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return Result{Status: statusFail, Note: "decode: " + err.Error()}, resp.StatusCode
		}
		return Result{}, resp.StatusCode
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return Result{}, resp.StatusCode
}

// concurrentUpsert fires parallel edits at one order and checks every one
// succeeds and the final totals match one of the submitted payloads.
func concurrentUpsert(ctx context.Context, r *Runner, url string) Result {
	var wg sync.WaitGroup
	var ok atomic.Int64
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body := delhiMumbai()
			body["wheel_count"] = i % 5
			res, code := r.doJSON(ctx, http.MethodPut, url, body, "", nil)
			if res.Status == "" && code == http.StatusOK {
				ok.Add(1)
			}
		}(i)
	}
	wg.Wait()

	if int(ok.Load()) != r.cfg.Concurrency {
		return Result{Status: statusFail, Note: fmt.Sprintf("success=%d/%d", ok.Load(), r.cfg.Concurrency)}
	}
	var final struct {
		WheelCount int   `json:"wheel_count"`
		TotalCost  int64 `json:"total_cost"`
	}
	res, _ := r.doJSON(ctx, http.MethodGet, url, nil, "", &final)
	if res.Status != "" {
		return res
	}
	want := int64(2*1412*50 + final.WheelCount*1412*30)
	if final.TotalCost != want {
		return Result{Status: statusFail, Note: fmt.Sprintf("torn write: cost=%d want=%d", final.TotalCost, want)}
	}
	return Result{Status: statusPass, Note: fmt.Sprintf("success=%d", ok.Load())}
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				res, code := r.doJSON(ctx, http.MethodPost, url, payload, "", nil)
				if res.Status != "" || code >= 500 {
					errCount.Add(1)
					continue
				}
				count.Add(1)
			}
		}()
	}
	wg.Wait()

	if count.Load() == 0 {
		return Result{Status: statusFail, Note: "no requests completed"}
	}
	rps := float64(count.Load()) / r.cfg.Duration.Seconds()
	return Result{Status: statusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount.Load())}
}

var createTableRe = regexp.MustCompile(`(?i)create\s+table\s+if\s+not\s+exists\s+([a-zA-Z0-9_]+)`)

func extractTables(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	var tables []string
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}
		for _, stmt := range infra.SplitSQL(infra.StripSQLComments(string(b))) {
			if m := createTableRe.FindStringSubmatch(stmt); m != nil {
				tables = append(tables, m[1])
			}
		}
	}
	return tables, nil
}
