// Package sheets defines the port for mirroring transaction changes to
// an external spreadsheet.
package sheets

import (
	"context"

	"rocel/internal/core"
)

// Mirror appends one change row to the external sheet and returns a
// reference to the written row.
type Mirror interface {
	AppendChange(ctx context.Context, op string, tx core.Transaction) (rowRef string, err error)
}
