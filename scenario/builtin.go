package scenario

import (
	"bytes"
	_ "embed"
	"fmt"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// Builtin returns the embedded catalog of classic optimization scenarios:
// missing index, correlated subquery rewrite, window-function ranking, bulk
// update, full-text search, and materialized summary. The statements are
// written in SQLite dialect.
func Builtin() (*Registry, error) {
	reg, err := LoadCatalog(bytes.NewReader(builtinCatalog))
	if err != nil {
		return nil, fmt.Errorf("builtin catalog: %w", err)
	}

	return reg, nil
}
