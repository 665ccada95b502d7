package goAuthClient

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goAuthClient/credential"
)

func TestMetricsDisabledNoIncrement(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})
	m.Inc(MetricDispatchSuccess)

	if got := m.Value(MetricDispatchSuccess); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestMetricsEnabledIncrement(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Inc(MetricRefreshSuccess)
	m.Inc(MetricRefreshSuccess)
	m.Inc(MetricRefreshSuccess)

	if got := m.Value(MetricRefreshSuccess); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestMetricsConcurrentIncrementSafe(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const goroutines = 32
	const perG = 4000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perG; j++ {
				m.Inc(MetricRefreshTriggered)
			}
		}()
	}
	wg.Wait()

	want := uint64(goroutines * perG)
	if got := m.Value(MetricRefreshTriggered); got != want {
		t.Fatalf("expected %d, got %d", want, got)
	}
}

func TestMetricsHistogramBucketCorrectness(t *testing.T) {
	m := NewMetrics(MetricsConfig{
		Enabled:                 true,
		EnableLatencyHistograms: true,
	})

	observations := []time.Duration{
		5 * time.Millisecond,
		10 * time.Millisecond,
		25 * time.Millisecond,
		50 * time.Millisecond,
		100 * time.Millisecond,
		250 * time.Millisecond,
		500 * time.Millisecond,
		700 * time.Millisecond,
	}

	for _, d := range observations {
		m.Observe(MetricDispatchLatency, d)
	}

	snap := m.Snapshot()
	buckets := snap.Histograms[MetricDispatchLatency]
	if len(buckets) != 8 {
		t.Fatalf("expected 8 buckets, got %d", len(buckets))
	}

	for i, v := range buckets {
		if v != 1 {
			t.Fatalf("bucket %d expected 1, got %d", i, v)
		}
	}
}

func TestMetricsSnapshotConsistency(t *testing.T) {
	m := NewMetrics(MetricsConfig{
		Enabled:                 true,
		EnableLatencyHistograms: true,
	})
	m.Inc(MetricDispatchSuccess)
	m.Inc(MetricAuthChallenge)
	m.Inc(MetricAuthChallenge)
	m.Observe(MetricDispatchLatency, 2*time.Millisecond)

	snap := m.Snapshot()

	if snap.Counters[MetricDispatchSuccess] != 1 {
		t.Fatalf("expected MetricDispatchSuccess=1 got %d", snap.Counters[MetricDispatchSuccess])
	}
	if snap.Counters[MetricAuthChallenge] != 2 {
		t.Fatalf("expected MetricAuthChallenge=2 got %d", snap.Counters[MetricAuthChallenge])
	}
	if len(snap.Histograms[MetricDispatchLatency]) != 8 {
		t.Fatalf("expected histogram length 8")
	}
	if snap.Histograms[MetricDispatchLatency][0] != 1 {
		t.Fatalf("expected first histogram bucket=1 got %d", snap.Histograms[MetricDispatchLatency][0])
	}
}

func TestRecoveryCycleMetricCounts(t *testing.T) {
	api := newStubAPI(t)

	// Only the refreshed token passes, so the pipeline has to walk the full
	// ladder: stale bearer, bare retry, refresh, replay.
	api.app = func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer T2" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}

	client := newTestClient(t, api, func(cfg *Config) {
		cfg.Metrics.Enabled = true
		cfg.Metrics.EnableLatencyHistograms = true
	})
	client.SetCredentials(credential.Session{AccessToken: "T1", RefreshToken: "R1"})

	resp, err := client.Do(context.Background(), &Request{Method: http.MethodGet, URL: "/api/items"})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if !resp.OK() {
		t.Fatalf("expected recovery to succeed, got %d", resp.StatusCode)
	}

	snap := client.MetricsSnapshot()

	expect := map[MetricID]uint64{
		MetricDispatchSuccess:  1,
		MetricDispatchFailure:  0,
		MetricAuthChallenge:    2,
		MetricBearerDropRetry:  1,
		MetricRefreshTriggered: 1,
		MetricRefreshSuccess:   1,
		MetricRefreshFailure:   0,
		MetricRetryExhausted:   0,
	}
	for id, want := range expect {
		if got := snap.Counters[id]; got != want {
			t.Errorf("metric %d: expected %d, got %d", id, want, got)
		}
	}

	var observed uint64
	for _, v := range snap.Histograms[MetricDispatchLatency] {
		observed += v
	}
	if observed != 3 {
		t.Fatalf("expected 3 latency observations (one per dispatch), got %d", observed)
	}
}
