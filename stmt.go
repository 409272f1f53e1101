package hdb

import (
	"context"
	"database/sql/driver"

	p "github.com/hdbdrv/hdb/internal/protocol"
)

var (
	_ driver.Stmt              = (*stmt)(nil)
	_ driver.StmtExecContext   = (*stmt)(nil)
	_ driver.StmtQueryContext  = (*stmt)(nil)
	_ driver.NamedValueChecker = (*stmt)(nil)
)

// stmt adapts a protocol.Statement to driver.Stmt.
type stmt struct {
	inner *p.Statement
}

func (s *stmt) Close() error { return s.inner.Close(context.Background()) }

func (s *stmt) NumInput() int { return s.inner.ParameterCount() }

// Exec and Query are the pre-context driver.Stmt methods; database/sql only
// calls them when ExecContext/QueryContext are absent, which is never true
// here.
func (s *stmt) Exec(args []driver.Value) (driver.Result, error) {
	return nil, errDeprecatedStmtMethod
}

func (s *stmt) Query(args []driver.Value) (driver.Rows, error) {
	return nil, errDeprecatedStmtMethod
}

func (s *stmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	res, err := s.inner.Execute(ctx, bindArgs(args))
	if err != nil {
		return nil, err
	}
	if res.ResultSet != nil {
		res.ResultSet.Close(ctx)
	}
	return execResult{rowsAffected: res.RowsAffected}, nil
}

func (s *stmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	res, err := s.inner.Execute(ctx, bindArgs(args))
	if err != nil {
		return nil, err
	}
	if res.ResultSet == nil {
		return emptyRows{}, nil
	}
	return newRows(res.ResultSet), nil
}

// CheckNamedValue lets a *LobWriter pass through to Execute unconverted;
// every other Go type falls back to database/sql's default conversion
// (driver.ErrSkip).
func (s *stmt) CheckNamedValue(nv *driver.NamedValue) error {
	if _, ok := nv.Value.(*LobWriter); ok {
		return nil
	}
	return driver.ErrSkip
}

func bindArgs(args []driver.NamedValue) []any {
	vals := make([]any, len(args))
	for i, a := range args {
		if lw, ok := a.Value.(*LobWriter); ok {
			vals[i] = &p.LobWriter{R: lw.R, IsChar: lw.IsChar}
			continue
		}
		vals[i] = a.Value
	}
	return vals
}
