package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/wesleyorama2/courier/graphql"
	"github.com/wesleyorama2/courier/header"
	"github.com/wesleyorama2/courier/host"
	"github.com/wesleyorama2/courier/jsonvalue"
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query URL [QUERY]",
		Short: "Send a GraphQL query",
		Long: `Send a GraphQL query as a JSON POST to URL. The query is given inline or
read from --file. With --object the data.<name> object is unpacked and
GraphQL errors are reported as failures; without it the raw response is
shown.`,
		Example: `  courier query api.example.com/graphql '{ viewer { login } }' --object viewer
  courier query localhost:4000/graphql --file queries/user.graphql --var id=42`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			rawVars, _ := cmd.Flags().GetStringArray("var")
			varsJSON, _ := cmd.Flags().GetString("var-json")
			objectName, _ := cmd.Flags().GetString("object")

			query, err := queryText(args[1:], file)
			if err != nil {
				return err
			}

			variables, err := queryVariables(varsJSON, rawVars)
			if err != nil {
				return err
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			target, err := normalizeURL(args[0])
			if err != nil {
				return err
			}

			h, err := s.newHost(host.Config{BaseURL: target})
			if err != nil {
				return err
			}
			client := graphql.NewClient(h, header.Headers{})

			if objectName == "" {
				_, err = s.send(cmd.Context(), client.Request(query, variables))
				return err
			}

			obj, err := client.Object(cmd.Context(), query, variables, objectName)
			if err != nil {
				return err
			}
			fmt.Fprint(s.out, string(pretty.Pretty(jsonvalue.Marshal(obj.Value()))))
			return nil
		},
	}

	cmd.Flags().String("file", "", "Read the query from a .graphql file")
	cmd.Flags().StringArray("var", []string{}, "Query variable as name=value, sent as a string (can be used multiple times)")
	cmd.Flags().String("var-json", "", "Query variables as a JSON object")
	cmd.Flags().String("object", "", "Unpack data.<object> from the response")
	return cmd
}

// queryText takes the query from the positional argument or from file.
func queryText(args []string, file string) (string, error) {
	switch {
	case len(args) == 1 && file != "":
		return "", errors.New("give the query inline or with --file, not both")
	case len(args) == 1:
		return args[0], nil
	case file != "":
		return graphql.LoadQuery(os.DirFS(filepath.Dir(file)), filepath.Base(file))
	default:
		return "", errors.New("no query given")
	}
}

// queryVariables starts from the --var-json object and adds each --var on top.
func queryVariables(varsJSON string, rawVars []string) (jsonvalue.Object, error) {
	variables := jsonvalue.NewObject()
	if varsJSON != "" {
		obj, err := jsonvalue.ParseObject([]byte(varsJSON))
		if err != nil {
			return jsonvalue.Object{}, fmt.Errorf("invalid --var-json: %w", err)
		}
		variables = obj
	}

	vars, err := parseVars(rawVars)
	if err != nil {
		return jsonvalue.Object{}, err
	}
	for _, name := range sortedNames(vars) {
		variables = variables.With(name, jsonvalue.String(vars[name]))
	}
	return variables, nil
}
