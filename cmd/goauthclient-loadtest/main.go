package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	goAuthClient "github.com/MrEthical07/goAuthClient"
	"github.com/MrEthical07/goAuthClient/credential"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// apiStub simulates the remote API: bearer-checked application routes, a
// token exchange endpoint, and a CSRF endpoint. Rotating the accepted token
// mid-run produces the 401 storms the pipeline exists to absorb.
type apiStub struct {
	mu           sync.Mutex
	accepted     string
	generation   int
	refreshCalls atomic.Int64
	csrfCalls    atomic.Int64
}

func (a *apiStub) rotate() {
	a.mu.Lock()
	a.generation++
	a.accepted = fmt.Sprintf("tok-%d", a.generation)
	a.mu.Unlock()
}

func (a *apiStub) current() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.accepted
}

func (a *apiStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		a.refreshCalls.Add(1)
		a.rotate()
		_ = json.NewEncoder(w).Encode(map[string]string{"access": a.current()})
	})
	mux.HandleFunc("/api/csrf/", func(w http.ResponseWriter, r *http.Request) {
		a.csrfCalls.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]string{"csrfToken": "csrf-1"})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+a.current() {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func main() {
	var (
		concurrency = flag.Int("concurrency", 64, "number of concurrent workers")
		ops         = flag.Int("ops", 50000, "total dispatches")
		expireEvery = flag.Duration("expire-every", 250*time.Millisecond, "how often the server invalidates the accepted token")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "ac", "credential key prefix")
	)
	flag.Parse()

	if *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "concurrency and ops must be > 0")
		os.Exit(2)
	}

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		rdb     redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		rdb = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		cleanup = func() {
			_ = rdb.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		rdb = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		cleanup = func() { _ = rdb.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	stub := &apiStub{}
	stub.rotate()
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	cfg := loadtestConfig(server.URL, *prefix)

	client, err := goAuthClient.New().
		WithConfig(cfg).
		WithRedis(rdb).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build client: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	client.SetCredentials(credential.Session{AccessToken: stub.current()})

	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(*expireEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				stub.rotate()
			case <-stop:
				return
			}
		}
	}()

	stats := runDispatchPhase(client, *ops, *concurrency)
	close(stop)

	fmt.Println("---- results ----")
	printStats("dispatch", stats)
	fmt.Printf("refresh calls=%d csrf calls=%d\n", stub.refreshCalls.Load(), stub.csrfCalls.Load())
}

func loadtestConfig(baseURL, prefix string) goAuthClient.Config {
	var cfg goAuthClient.Config
	cfg.Endpoints.BaseURL = baseURL
	cfg.Endpoints.RefreshPath = "/api/token/refresh/"
	cfg.Endpoints.CSRFPath = "/api/csrf/"
	cfg.Refresh.Timeout = 10 * time.Second
	cfg.Refresh.RequestField = "refresh"
	cfg.Refresh.AccessField = "access"
	cfg.Refresh.RotatedField = "refresh"
	cfg.CSRF.Header = "X-CSRFToken"
	cfg.CSRF.ResponseField = "csrfToken"
	cfg.Transport.RequestTimeout = 30 * time.Second
	cfg.Transport.RequestIDHeader = "X-Request-ID"
	cfg.Credential.RedisPrefix = prefix
	cfg.Metrics.Enabled = true
	return cfg
}

func runDispatchPhase(client *goAuthClient.Client, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	ctx := context.Background()
	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				resp, err := client.Do(ctx, &goAuthClient.Request{
					Method: http.MethodGet,
					URL:    fmt.Sprintf("/api/items/%d", i),
				})
				d := time.Since(t0)
				if err != nil || !resp.OK() {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
