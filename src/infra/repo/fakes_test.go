package repo

import (
	"context"
	"io"

	"recordkeeper/src/core/ports"
)

// fakeProvider records every call so tests can assert on issued SQL and on
// resource release.
type fakeProvider struct {
	acquireErr error
	nilConn    bool
	conn       *fakeConn
	acquired   int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{conn: &fakeConn{stmt: &fakeStmt{rows: &fakeRows{}}}}
}

func (p *fakeProvider) Acquire(context.Context) (ports.Conn, error) {
	p.acquired++
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	if p.nilConn {
		return nil, nil
	}
	return p.conn, nil
}

func (p *fakeProvider) Health(context.Context) error { return p.acquireErr }

type fakeConn struct {
	prepareErr error
	releaseErr error
	stmt       *fakeStmt
	prepared   []string
	released   int
}

func (c *fakeConn) Prepare(_ context.Context, query string) (ports.Stmt, error) {
	c.prepared = append(c.prepared, query)
	if c.prepareErr != nil {
		return nil, c.prepareErr
	}
	return c.stmt, nil
}

func (c *fakeConn) Release() error {
	c.released++
	return c.releaseErr
}

type fakeStmt struct {
	execErr  error
	queryErr error
	closeErr error
	rows     *fakeRows
	args     [][]any
	closed   int
}

func (s *fakeStmt) Exec(_ context.Context, args ...any) (int64, error) {
	s.args = append(s.args, args)
	if s.execErr != nil {
		return 0, s.execErr
	}
	return 1, nil
}

func (s *fakeStmt) Query(_ context.Context, args ...any) (ports.Rows, error) {
	s.args = append(s.args, args)
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return s.rows, nil
}

func (s *fakeStmt) Close() error {
	s.closed++
	return s.closeErr
}

type fakeRows struct {
	columns  []string
	data     [][]any
	valueErr error
	iterErr  error
	closeErr error
	pos      int
	closed   int
}

func (r *fakeRows) Columns() []string { return r.columns }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Values() ([]any, error) {
	if r.valueErr != nil {
		return nil, r.valueErr
	}
	if r.pos == 0 {
		return nil, io.EOF
	}
	return r.data[r.pos-1], nil
}

func (r *fakeRows) Err() error { return r.iterErr }

func (r *fakeRows) Close() error {
	r.closed++
	return r.closeErr
}
