package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/jmoiron/sqlx"

	"opsboard/internal/domain"
	"opsboard/internal/port"
)

// procName restricts invokable procedures to plain identifiers; the
// procedure name is interpolated into the statement and must never carry
// user input.
var procName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

type procInvoker struct {
	db *sqlx.DB
}

// NewProcInvoker creates the Postgres-backed generic procedure transport.
// Procedures are set-returning functions taking one jsonb parameter object.
func NewProcInvoker(db *sqlx.DB) port.ProcInvoker {
	return &procInvoker{db: db}
}

func (i *procInvoker) Invoke(ctx context.Context, proc string, para any) ([]domain.Record, error) {
	if !procName.MatchString(proc) {
		return nil, fmt.Errorf("procInvoker.Invoke: invalid procedure name %q", proc)
	}

	payload, err := json.Marshal(para)
	if err != nil {
		return nil, fmt.Errorf("procInvoker.Invoke %s: encoding para: %w", proc, err)
	}

	query := fmt.Sprintf("SELECT * FROM %s($1::jsonb)", proc)
	rows, err := i.db.QueryxContext(ctx, query, string(payload))
	if err != nil {
		return nil, fmt.Errorf("procInvoker.Invoke %s: %w", proc, err)
	}
	defer rows.Close()

	var out []domain.Record
	for rows.Next() {
		rec := domain.Record{}
		if err := rows.MapScan(rec); err != nil {
			return nil, fmt.Errorf("procInvoker.Invoke %s: scan: %w", proc, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("procInvoker.Invoke %s: rows: %w", proc, err)
	}
	if out == nil {
		out = []domain.Record{}
	}
	return out, nil
}
