package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/courier/host"
	"github.com/wesleyorama2/courier/internal/config"
	"github.com/wesleyorama2/courier/internal/output"
	"github.com/wesleyorama2/courier/pkg/jsonpath"
	"github.com/wesleyorama2/courier/pkg/jsonschema"
)

// ErrChecksFailed is returned by run when any check did not pass.
var ErrChecksFailed = errors.New("checks failed")

const defaultProfile = "default"

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run named requests from a request file",
		Long: `Run endpoints defined in a YAML or JSON request file against one profile.
Endpoints run in the order given with --endpoint, or in name order when none
is given. Values extracted from one response are available as {{name}} to
the endpoints after it.`,
		Example: `  courier run -c api.yaml -p staging -e login -e profile
  courier run -c api.yaml --var user=alice`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			profileName, _ := cmd.Flags().GetString("profile")
			endpointNames, _ := cmd.Flags().GetStringArray("endpoint")
			rawVars, _ := cmd.Flags().GetStringArray("var")

			// Load configuration
			file, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			profile, err := file.Profile(profileName)
			if err != nil {
				return err
			}

			cliVars, err := parseVars(rawVars)
			if err != nil {
				return err
			}
			vars := config.MergeVariables(profile.Variables, cliVars)

			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			cfg, err := profile.HostConfig(vars)
			if err != nil {
				return err
			}
			h, err := s.newHost(cfg)
			if err != nil {
				return err
			}

			if len(endpointNames) == 0 {
				endpointNames = file.EndpointNames()
			}

			failed := false
			for _, name := range endpointNames {
				checks, err := runEndpoint(cmd.Context(), s, h, file, name, vars)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				fmt.Fprint(s.out, s.formatter.FormatChecks(checks))
				for _, c := range checks {
					if !c.Passed {
						failed = true
					}
				}
			}

			if failed {
				return ErrChecksFailed
			}
			return nil
		},
	}

	cmd.Flags().StringP("config", "c", "courier.yaml", "Request file")
	cmd.Flags().StringP("profile", "p", defaultProfile, "Profile to use")
	cmd.Flags().StringArrayP("endpoint", "e", []string{}, "Endpoint to run (can be used multiple times; default all)")
	cmd.Flags().StringArray("var", []string{}, "Variable as name=value, overriding the profile (can be used multiple times)")
	return cmd
}

// runEndpoint sends one endpoint and checks its response. Extracted values
// are written to vars.
func runEndpoint(ctx context.Context, s *session, h *host.Host, file *config.File, name string, vars map[string]string) ([]output.Check, error) {
	e, err := file.Endpoint(name)
	if err != nil {
		return nil, err
	}

	ep, err := e.Build(vars)
	if err != nil {
		return nil, err
	}

	data, err := s.send(ctx, h.Request(ep))
	if err != nil {
		return nil, err
	}

	checks := []output.Check{{
		Type:   "status",
		Name:   name,
		Value:  data.Status.String(),
		Passed: data.Status.IsSuccess(),
	}}

	// Extract variables
	for _, varName := range sortedNames(e.Extract) {
		value, err := jsonpath.ExtractText(data.Body, e.Extract[varName])
		if err != nil {
			checks = append(checks, output.Check{Type: "extract", Name: varName, Message: err.Error()})
			continue
		}
		vars[varName] = value
		checks = append(checks, output.Check{Type: "extract", Name: varName, Value: value, Passed: true})
	}

	// Validate against schema
	if e.Schema != "" {
		checks = append(checks, schemaCheck(file, e.Schema, data.Body))
	}

	return checks, nil
}

func schemaCheck(file *config.File, name string, body []byte) output.Check {
	check := output.Check{Type: "schema", Name: name}

	raw, err := file.Schema(name)
	if err != nil {
		check.Message = err.Error()
		return check
	}
	schema, err := jsonschema.Compile(raw)
	if err != nil {
		check.Message = err.Error()
		return check
	}
	if err := schema.Validate(body); err != nil {
		check.Message = err.Error()
		return check
	}

	check.Passed = true
	return check
}
