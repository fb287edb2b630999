package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/courier/endpoint"
	"github.com/wesleyorama2/courier/host"
	"github.com/wesleyorama2/courier/internal/bench"
	"github.com/wesleyorama2/courier/method"
)

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench URL",
		Short: "Send a request repeatedly and report latency percentiles",
		Long: `Send the same request -n times across -c concurrent workers and summarise
latency, throughput and status codes. Only 2xx responses count as
successful.`,
		Example: `  courier bench localhost:8080/health -n 1000 -c 20
  courier bench api.example.com/items -X POST --json '{"name":"x"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requests, _ := cmd.Flags().GetInt("requests")
			concurrency, _ := cmd.Flags().GetInt("concurrency")
			rate, _ := cmd.Flags().GetFloat64("rate")
			methodName, _ := cmd.Flags().GetString("method")
			jsonData, _ := cmd.Flags().GetString("json")

			m, err := method.Parse(methodName)
			if err != nil {
				return err
			}

			p, err := bodyParams(jsonData, nil)
			if err != nil {
				return err
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			base, path, err := splitURL(args[0])
			if err != nil {
				return err
			}

			h, err := s.newHost(host.Config{BaseURL: base})
			if err != nil {
				return err
			}

			ep := endpoint.New(m, path)
			if p != nil {
				ep = ep.WithParams(*p)
			}

			opts := bench.Options{
				Requests:    requests,
				Concurrency: concurrency,
				Rate:        rate,
				OnResult: func(i int, res host.Resolved, latency time.Duration) {
					if err := res.Err(); err != nil {
						s.logger.Debug().Int("request", i).Err(err).Dur("latency", latency).Msg("request failed")
						return
					}
					s.logger.Debug().Int("request", i).Int("status", res.Status().Int()).Dur("latency", latency).Msg("request done")
				},
			}

			snap, err := bench.Run(cmd.Context(), opts, func(int) *host.Request {
				return h.Request(ep)
			})
			if errors.Is(err, bench.ErrInvalidOptions) {
				return err
			}

			// An interrupted run still reports what it measured
			fmt.Fprint(s.out, s.formatter.FormatBench(snap))
			return err
		},
	}

	cmd.Flags().IntP("requests", "n", 100, "Total number of requests")
	cmd.Flags().IntP("concurrency", "c", 10, "Number of concurrent workers")
	cmd.Flags().Float64P("rate", "r", 0, "Maximum requests per second (0 for no limit)")
	cmd.Flags().StringP("method", "X", "GET", "HTTP method")
	cmd.Flags().String("json", "", "JSON object to send with each request")
	return cmd
}
