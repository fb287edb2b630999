package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/courier/header"
	"github.com/wesleyorama2/courier/host"
	"github.com/wesleyorama2/courier/internal/logging"
	"github.com/wesleyorama2/courier/internal/output"
	"github.com/wesleyorama2/courier/transport"
)

const (
	transportHTTP  = "http"
	transportResty = "resty"
)

// session is the per-invocation state shared by every command: parsed
// global flags, the logger, the transport and the last exchange it saw.
type session struct {
	out       io.Writer
	format    output.OutputFormat
	formatter output.FormatProvider
	verbose   bool
	noColor   bool
	headers   header.Headers
	timeout   time.Duration
	logger    zerolog.Logger
	transport transport.Transport

	mu   sync.Mutex
	last *transport.Exchange
}

func newSession(cmd *cobra.Command) (*session, error) {
	flags := cmd.Flags()
	rawHeaders, _ := flags.GetStringArray("header")
	timeout, _ := flags.GetDuration("timeout")
	verbose, _ := flags.GetBool("verbose")
	noColor, _ := flags.GetBool("no-color")
	formatName, _ := flags.GetString("format")
	logLevel, _ := flags.GetString("log-level")
	transportName, _ := flags.GetString("transport")

	format, err := output.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}

	headers, err := parseHeaders(rawHeaders)
	if err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()
	noColor = output.ColorDisabled(out, noColor)

	logger, err := logging.New(logging.Config{Level: logLevel, NoColor: noColor}, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	s := &session{
		out:       out,
		format:    format,
		formatter: output.GetFormatter(format, verbose, noColor),
		verbose:   verbose,
		noColor:   noColor,
		headers:   headers,
		timeout:   timeout,
		logger:    logger,
	}

	// Create transport
	var base transport.Transport
	switch transportName {
	case transportHTTP:
		base = transport.NewHTTP()
	case transportResty:
		base = transport.NewResty(resty.New())
	default:
		return nil, fmt.Errorf("unknown transport %q (want %s or %s)", transportName, transportHTTP, transportResty)
	}
	s.transport = transport.Observe(base, s.observe)

	return s, nil
}

func (s *session) observe(ex transport.Exchange) {
	s.mu.Lock()
	s.last = &ex
	s.mu.Unlock()
}

// lastMeta returns the metadata of the most recent exchange, if any.
func (s *session) lastMeta() *transport.Metadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil
	}
	return s.last.Meta
}

// newHost completes cfg with the session's transport and logger. Headers
// given with -H override the configuration's; the -t timeout applies when
// cfg has none.
func (s *session) newHost(cfg host.Config) (*host.Host, error) {
	cfg.Headers = cfg.Headers.Merge(s.headers)
	if cfg.Timeout == 0 {
		cfg.Timeout = s.timeout
	}
	cfg.Transport = s.transport
	cfg.Logger = &s.logger
	return host.New(cfg)
}

// send prints the request, executes it and prints the response.
func (s *session) send(ctx context.Context, req *host.Request) (host.Data, error) {
	d, err := req.Descriptor()
	if err != nil {
		return host.Data{}, err
	}

	if s.format == output.FormatText || s.verbose {
		fmt.Fprint(s.out, s.formatter.FormatRequest(d))
	}

	data, err := req.Data(ctx)
	if err != nil {
		return host.Data{}, fmt.Errorf("%s failed: %w", d, err)
	}

	fmt.Fprint(s.out, s.formatter.FormatResponse(output.NewResponse(data, s.lastMeta())))
	return data, nil
}

// parseHeaders reads "Name: value" pairs.
func parseHeaders(raw []string) (header.Headers, error) {
	pairs := make([]string, 0, 2*len(raw))
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return header.Headers{}, fmt.Errorf("invalid header %q (want \"Name: value\")", h)
		}
		pairs = append(pairs, strings.TrimSpace(name), strings.TrimSpace(value))
	}
	return header.New(pairs...), nil
}
