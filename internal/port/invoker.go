package port

import (
	"context"

	"opsboard/internal/domain"
)

// ProcInvoker is the generic stored-procedure transport every list, export
// and lookup operation goes through. The procedure names and parameter
// shapes are backend contracts; callers treat the call as opaque.
type ProcInvoker interface {
	// Invoke calls a set-returning stored procedure with a single JSON
	// parameter object and returns its rows. An empty result is returned as
	// an empty slice, not an error.
	Invoke(ctx context.Context, procName string, para any) ([]domain.Record, error)
}
