package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/wesleyorama2/courier/endpoint"
	"github.com/wesleyorama2/courier/header"
	"github.com/wesleyorama2/courier/internal/bench"
)

// Formatter is responsible for formatting HTTP requests and responses in text format
type Formatter struct {
	Verbose bool
	NoColor bool
	Colors  *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	colors := DefaultColorScheme()
	if noColor {
		colors = NoColorScheme()
	}
	return &Formatter{
		Verbose: verbose,
		NoColor: noColor,
		Colors:  colors,
	}
}

// FormatRequest formats an HTTP request for display
func (f *Formatter) FormatRequest(d endpoint.Descriptor) string {
	var buf strings.Builder

	url := ""
	if d.URL != nil {
		url = d.URL.String()
	}
	buf.WriteString(fmt.Sprintf("▶ REQUEST: %s %s\n", f.Colors.Method.Sprint(d.Method.String()), f.Colors.URL.Sprint(url)))

	// Headers, host defaults included
	if d.Headers.Len() > 0 {
		buf.WriteString("  Headers:\n")
		d.Headers.Each(func(field header.Field, value string) {
			buf.WriteString(fmt.Sprintf("    %s: %s\n", f.Colors.HeaderKey.Sprint(field.String()), value))
		})
	}

	if len(d.Body) > 0 {
		buf.WriteString("  Body: ")
		buf.WriteString(f.body(d.Body))
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatResponse formats an HTTP response for display
func (f *Formatter) FormatResponse(resp Response) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("◀ RESPONSE: %s (%dms)\n",
		f.Colors.Status(resp.Status).Sprint(resp.Status.String()),
		resp.Timing.TotalTime.Milliseconds()))

	if f.Verbose {
		t := resp.Timing
		buf.WriteString("  Timing:\n")
		buf.WriteString(fmt.Sprintf("    DNS Lookup:         %dms\n", t.DNSLookupTime.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    TCP Connection:     %dms\n", t.TCPConnectTime.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    TLS Handshake:      %dms\n", t.TLSHandshakeTime.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    Time to First Byte: %dms\n", t.TimeToFirstByte.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    Content Transfer:   %dms\n", t.ContentTransferTime.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    Total:              %dms\n", t.TotalTime.Milliseconds()))

		if len(resp.Header) > 0 {
			buf.WriteString("  Headers:\n")
			for _, key := range sortedKeys(resp.Header) {
				for _, value := range resp.Header[key] {
					buf.WriteString(fmt.Sprintf("    %s: %s\n", f.Colors.HeaderKey.Sprint(key), value))
				}
			}
		}
	}

	if len(resp.Body) > 0 {
		buf.WriteString("  Body:\n")
		buf.WriteString(f.body(resp.Body))
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatChecks formats post-response checks, one line each
func (f *Formatter) FormatChecks(checks []Check) string {
	var buf strings.Builder
	for _, c := range checks {
		icon := SuccessIcon(f.NoColor)
		if !c.Passed {
			icon = ErrorIcon(f.NoColor)
		}
		line := fmt.Sprintf("%s %s", icon, f.Colors.Label.Sprint(c.Type))
		if c.Name != "" {
			line += " " + c.Name
		}
		if c.Value != nil {
			line += fmt.Sprintf(" = %v", c.Value)
		}
		if c.Message != "" {
			line += ": " + c.Message
		}
		buf.WriteString(line + "\n")
	}
	return buf.String()
}

// FormatBench formats a benchmark summary
func (f *Formatter) FormatBench(snap bench.Snapshot) string {
	var buf strings.Builder
	l := snap.Latency

	buf.WriteString(f.Colors.Label.Sprint("Summary") + "\n")
	buf.WriteString(fmt.Sprintf("  Requests:   %d (%s ok, %s failed)\n",
		snap.TotalRequests,
		f.Colors.Success.Sprint(snap.SuccessRequests),
		f.Colors.Error.Sprint(snap.FailedRequests)))
	buf.WriteString(fmt.Sprintf("  Elapsed:    %s\n", snap.Elapsed.Round(time.Millisecond)))
	buf.WriteString(fmt.Sprintf("  Throughput: %.1f req/s\n", snap.RPS))
	buf.WriteString(fmt.Sprintf("  Error rate: %.2f%%\n", snap.ErrorRate*100))
	buf.WriteString(fmt.Sprintf("  Received:   %d bytes\n", snap.TotalBytes))

	buf.WriteString(f.Colors.Label.Sprint("Latency") + "\n")
	buf.WriteString(fmt.Sprintf("  min %s  mean %s  max %s  stddev %s\n",
		roundLatency(l.Min), roundLatency(l.Mean), roundLatency(l.Max), roundLatency(l.StdDev)))
	buf.WriteString(fmt.Sprintf("  p50 %s  p90 %s  p95 %s  p99 %s\n",
		roundLatency(l.P50), roundLatency(l.P90), roundLatency(l.P95), roundLatency(l.P99)))

	if len(snap.Statuses) > 0 {
		buf.WriteString(f.Colors.Label.Sprint("Status codes") + "\n")
		for _, s := range snap.Statuses {
			buf.WriteString(fmt.Sprintf("  %d: %d\n", s.Code, s.Count))
		}
	}

	return buf.String()
}

func roundLatency(d time.Duration) time.Duration {
	return d.Round(10 * time.Microsecond)
}

// body pretty-prints JSON, coloring it unless color is off. Other bodies
// are shown verbatim.
func (f *Formatter) body(b []byte) string {
	if !gjson.ValidBytes(b) {
		return string(b)
	}
	out := pretty.PrettyOptions(b, &pretty.Options{Width: 80, Prefix: "  ", Indent: "  "})
	if !f.NoColor {
		out = pretty.Color(out, nil)
	}
	return strings.TrimRight(string(out), "\n")
}
