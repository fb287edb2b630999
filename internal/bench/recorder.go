// Package bench fires the same request many times with bounded concurrency
// and summarises latency with an HDR histogram.
package bench

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Histogram range in microseconds: 1µs to 1h, 3 significant figures.
const (
	histogramMin     = 1
	histogramMax     = 3600000000
	histogramSigFigs = 3
)

// Recorder aggregates latencies and outcome counters. Safe for concurrent
// use.
type Recorder struct {
	// HDR histogram RecordValue is not thread-safe
	hist   *hdrhistogram.Histogram
	histMu sync.Mutex

	statuses   map[int]int64
	statusesMu sync.Mutex

	total   atomic.Int64
	success atomic.Int64
	failed  atomic.Int64
	bytes   atomic.Int64

	start time.Time
}

// NewRecorder creates an empty recorder; the elapsed clock starts now.
func NewRecorder() *Recorder {
	return &Recorder{
		hist:     hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs),
		statuses: make(map[int]int64),
		start:    time.Now(),
	}
}

// Record adds one completed request. code is zero when no response arrived.
func (r *Recorder) Record(latency time.Duration, success bool, bytes int64, code int) {
	micros := latency.Microseconds()
	if micros < histogramMin {
		micros = histogramMin
	}
	if micros > histogramMax {
		micros = histogramMax
	}

	r.histMu.Lock()
	r.hist.RecordValue(micros)
	r.histMu.Unlock()

	if code != 0 {
		r.statusesMu.Lock()
		r.statuses[code]++
		r.statusesMu.Unlock()
	}

	r.total.Add(1)
	r.bytes.Add(bytes)
	if success {
		r.success.Add(1)
	} else {
		r.failed.Add(1)
	}
}

// Snapshot returns the current totals.
func (r *Recorder) Snapshot() Snapshot {
	r.histMu.Lock()
	latency := LatencyStats{
		Min:    micros(r.hist.Min()),
		Max:    micros(r.hist.Max()),
		Mean:   micros(int64(r.hist.Mean())),
		StdDev: micros(int64(r.hist.StdDev())),
		P50:    micros(r.hist.ValueAtQuantile(50)),
		P90:    micros(r.hist.ValueAtQuantile(90)),
		P95:    micros(r.hist.ValueAtQuantile(95)),
		P99:    micros(r.hist.ValueAtQuantile(99)),
		Count:  r.hist.TotalCount(),
	}
	r.histMu.Unlock()

	r.statusesMu.Lock()
	statuses := make([]StatusCount, 0, len(r.statuses))
	for code, n := range r.statuses {
		statuses = append(statuses, StatusCount{Code: code, Count: n})
	}
	r.statusesMu.Unlock()
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Code < statuses[j].Code })

	elapsed := time.Since(r.start)
	total := r.total.Load()
	failed := r.failed.Load()

	rps := 0.0
	if elapsed.Seconds() > 0 {
		rps = float64(total) / elapsed.Seconds()
	}
	errorRate := 0.0
	if total > 0 {
		errorRate = float64(failed) / float64(total)
	}

	return Snapshot{
		TotalRequests:   total,
		SuccessRequests: r.success.Load(),
		FailedRequests:  failed,
		TotalBytes:      r.bytes.Load(),
		Latency:         latency,
		RPS:             rps,
		ErrorRate:       errorRate,
		Statuses:        statuses,
		Elapsed:         elapsed,
	}
}

func micros(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}

// Snapshot is a point-in-time view of a run.
type Snapshot struct {
	TotalRequests   int64         `json:"totalRequests" yaml:"totalRequests"`
	SuccessRequests int64         `json:"successRequests" yaml:"successRequests"`
	FailedRequests  int64         `json:"failedRequests" yaml:"failedRequests"`
	TotalBytes      int64         `json:"totalBytes" yaml:"totalBytes"`
	Latency         LatencyStats  `json:"latency" yaml:"latency"`
	RPS             float64       `json:"rps" yaml:"rps"`
	ErrorRate       float64       `json:"errorRate" yaml:"errorRate"`
	Statuses        []StatusCount `json:"statuses,omitempty" yaml:"statuses,omitempty"`
	Elapsed         time.Duration `json:"elapsed" yaml:"elapsed"`
}

// LatencyStats contains latency statistics.
type LatencyStats struct {
	Min    time.Duration `json:"min" yaml:"min"`
	Max    time.Duration `json:"max" yaml:"max"`
	Mean   time.Duration `json:"mean" yaml:"mean"`
	StdDev time.Duration `json:"stdDev" yaml:"stdDev"`
	P50    time.Duration `json:"p50" yaml:"p50"`
	P90    time.Duration `json:"p90" yaml:"p90"`
	P95    time.Duration `json:"p95" yaml:"p95"`
	P99    time.Duration `json:"p99" yaml:"p99"`
	Count  int64         `json:"count" yaml:"count"`
}

// StatusCount is how many responses carried one status code.
type StatusCount struct {
	Code  int   `json:"code" yaml:"code"`
	Count int64 `json:"count" yaml:"count"`
}
