package cli

import (
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/courier/header"
	"github.com/wesleyorama2/courier/host"
)

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get URL",
		Short: "Make a GET request to the specified URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, _ := cmd.Flags().GetStringArray("query")

			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			// Parse URL to determine base URL and path
			base, path, err := splitURL(args[0])
			if err != nil {
				return err
			}

			h, err := s.newHost(host.Config{BaseURL: base})
			if err != nil {
				return err
			}

			_, err = s.send(cmd.Context(), h.Get(path, parseItems(query), header.Headers{}))
			return err
		},
	}

	cmd.Flags().StringArrayP("query", "q", []string{}, "Query parameter as name=value, or a bare name (can be used multiple times)")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete URL",
		Short: "Make a DELETE request to the specified URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			_, err = s.send(cmd.Context(), h.Delete(path, header.Headers{}))
			return err
		},
	}
}
