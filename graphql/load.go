package graphql

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// ErrQueryNotFound is returned when a named query file does not exist.
var ErrQueryNotFound = errors.New("graphql: query file not found")

// Extension is appended to query names that have none.
const Extension = ".graphql"

// LoadQuery reads a query template from fsys. name may omit the ".graphql"
// extension. Works with os.DirFS and embed.FS alike.
func LoadQuery(fsys fs.FS, name string) (string, error) {
	if path.Ext(name) == "" {
		name += Extension
	}

	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrQueryNotFound, name)
		}
		return "", fmt.Errorf("graphql: read %s: %w", name, err)
	}

	return strings.TrimSpace(string(data)), nil
}
