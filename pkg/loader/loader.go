// pkg/loader/loader.go
package loader

import (
	"context"
	"fmt"

	"github.com/halilanisa/ecommerce-insights/pkg/model"
)

// Source supplies the eight tables fully materialized, with timestamp
// columns already parsed. Unparseable timestamps become missing values,
// not load failures; a missing table is fatal.
type Source interface {
	// Key identifies the source location for caching.
	Key() string

	// Load reads all eight tables.
	Load(ctx context.Context) (*model.Dataset, error)
}

// LoadError reports a table that could not be read. The pipeline cannot
// run without its full input set, so these are fatal at load time.
type LoadError struct {
	Table string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load table %s: %v", e.Table, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
