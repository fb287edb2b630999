package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/courier/endpoint"
	"github.com/wesleyorama2/courier/host"
	"github.com/wesleyorama2/courier/jsonvalue"
	"github.com/wesleyorama2/courier/method"
	"github.com/wesleyorama2/courier/params"
)

// newBodyCmd builds the post, put and patch commands, which differ only in
// the verb.
func newBodyCmd(verb string) *cobra.Command {
	upper := strings.ToUpper(verb)

	cmd := &cobra.Command{
		Use:   verb + " URL",
		Short: fmt.Sprintf("Make a %s request to the specified URL", upper),
		Long: fmt.Sprintf(`Make a %s request. Parameters come from --json (a JSON object sent as
application/json) or from repeated --form name=value pairs (sent as
application/x-www-form-urlencoded). A Content-Type given with -H wins.`, upper),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonData, _ := cmd.Flags().GetString("json")
			form, _ := cmd.Flags().GetStringArray("form")
			queryString, _ := cmd.Flags().GetBool("query-string")

			m, err := method.Parse(verb)
			if err != nil {
				return err
			}
			if queryString {
				m = method.PostQuery
			}

			p, err := bodyParams(jsonData, form)
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

			_, err = s.send(cmd.Context(), h.Request(ep))
			return err
		},
	}

	cmd.Flags().StringP("json", "j", "", "JSON object to send")
	cmd.Flags().StringArrayP("form", "f", []string{}, "Form field as name=value (can be used multiple times)")
	if verb == "post" {
		cmd.Flags().Bool("query-string", false, "Send the parameters in the query string instead of the body")
	}
	cmd.MarkFlagsMutuallyExclusive("json", "form")
	return cmd
}

// bodyParams builds parameters from --json or --form. Neither gives nil.
func bodyParams(jsonData string, form []string) (*params.Params, error) {
	switch {
	case jsonData != "":
		obj, err := jsonvalue.ParseObject([]byte(jsonData))
		if err != nil {
			return nil, fmt.Errorf("invalid --json: %w", err)
		}
		p := params.JSON(obj)
		return &p, nil
	case len(form) > 0:
		p := params.Form(parseItems(form)...)
		return &p, nil
	default:
		return nil, nil
	}
}
