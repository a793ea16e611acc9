package repo

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recordkeeper/src/core/record"
	"recordkeeper/src/infra/config"
	"recordkeeper/src/infra/db"
	"recordkeeper/src/infra/logger"
)

type person struct {
	ID    int64
	Name  string
	Email string
}

var people = record.MustDescriptor("users", func() *person { return &person{} },
	record.Key(record.Int64("id", func(p *person) *int64 { return &p.ID })),
	record.String("name", func(p *person) *string { return &p.Name }),
	record.String("email", func(p *person) *string { return &p.Email }),
)

// ============================================================================
// Test Helpers
// ============================================================================

// newSQLiteRepo creates a repository over a fresh on-disk SQLite database.
func newSQLiteRepo(t *testing.T, opts ...Option) (*Repository[person], *db.SQLite) {
	t.Helper()
	cfg := config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		Path:         filepath.Join(t.TempDir(), "repo.db"),
		MaxOpenConns: 4,
		MaxIdleConns: 1,
	}
	sq, err := db.OpenSQLite(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { sq.Close() })

	require.NoError(t, sq.EnsureSchema(context.Background(),
		`CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT, email TEXT)`))

	return NewRepository(people, sq, nil, opts...), sq
}

func newFakeRepo(opts ...Option) (*Repository[person], *fakeProvider) {
	p := newFakeProvider()
	return NewRepository(people, p, nil, opts...), p
}

// ============================================================================
// Round trips against SQLite
// ============================================================================

func TestInsertThenSelectByID(t *testing.T) {
	ctx := context.Background()
	r, _ := newSQLiteRepo(t)

	require.NoError(t, r.Insert(ctx, &person{Name: "Ann", Email: "a@x.com"}))

	got, found, err := r.SelectByID(ctx, record.Int(1))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, person{ID: 1, Name: "Ann", Email: "a@x.com"}, got)
}

func TestInsertWithAllFieldsRoundTrips(t *testing.T) {
	ctx := context.Background()
	r, _ := newSQLiteRepo(t)

	in := []person{
		{ID: 10, Name: "Ann", Email: "a@x.com"},
		{ID: 11, Name: "Bob", Email: "b@x.com"},
		{ID: 99, Name: "Čedo", Email: "c@x.com"},
	}
	for i := range in {
		require.NoError(t, r.Insert(ctx, &in[i]))
	}

	for _, want := range in {
		got, found, err := r.SelectByID(ctx, record.Int(want.ID))
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, want, got)
	}
}

func TestUpdateReflectsMutation(t *testing.T) {
	ctx := context.Background()
	r, _ := newSQLiteRepo(t)

	p := person{ID: 5, Name: "Ann", Email: "a@x.com"}
	require.NoError(t, r.Insert(ctx, &p))

	p.Name = "Anne"
	p.Email = ""
	require.NoError(t, r.Update(ctx, &p))

	got, found, err := r.SelectByID(ctx, record.Int(5))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, person{ID: 5, Name: "Anne"}, got)
}

func TestDeleteThenNotFound(t *testing.T) {
	ctx := context.Background()
	r, _ := newSQLiteRepo(t)

	p := person{ID: 3, Name: "Ann"}
	require.NoError(t, r.Insert(ctx, &p))
	require.NoError(t, r.Delete(ctx, &p))

	got, found, err := r.SelectByID(ctx, record.Int(3))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, person{}, got)
}

func TestSelectAllEmptyTable(t *testing.T) {
	r, _ := newSQLiteRepo(t)

	list, err := r.SelectAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestSelectByCondition(t *testing.T) {
	ctx := context.Background()
	r, _ := newSQLiteRepo(t)

	for _, p := range []person{
		{ID: 1, Name: "Ann", Email: "a@x.com"},
		{ID: 2, Name: "Bob", Email: "b@y.com"},
		{ID: 3, Name: "Cid", Email: "c@x.com"},
	} {
		require.NoError(t, r.Insert(ctx, &p))
	}

	list, err := r.SelectByCondition(ctx, record.Where("email LIKE ? ORDER BY id", record.Text("%@x.com")))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ann", list[0].Name)
	assert.Equal(t, "Cid", list[1].Name)

	all, err := r.SelectAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := r.SelectByCondition(ctx, record.Where("id > ?", record.Int(100)))
	require.NoError(t, err)
	assert.Empty(t, none)
}

type event struct {
	ID int64
	At time.Time
}

var events = record.MustDescriptor("events", func() *event { return &event{} },
	record.Key(record.Int64("id", func(e *event) *int64 { return &e.ID })),
	record.Timestamp("at", func(e *event) *time.Time { return &e.At }),
)

func TestTimestampRoundTripsPerColumnType(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, colType := range []string{"TEXT", "DATETIME", "TIMESTAMP", ""} {
		t.Run("type="+colType, func(t *testing.T) {
			ctx := context.Background()
			_, sq := newSQLiteRepo(t)
			require.NoError(t, sq.EnsureSchema(ctx,
				`CREATE TABLE events (id INTEGER PRIMARY KEY, at `+colType+`)`))

			r := NewRepository(events, sq, nil)
			require.NoError(t, r.Insert(ctx, &event{ID: 1, At: at}))

			got, found, err := r.SelectByID(ctx, record.Int(1))
			require.NoError(t, err)
			require.True(t, found)
			assert.True(t, at.Equal(got.At), "got %v", got.At)
		})
	}
}

func TestSQLiteOutOfRangeNumberIsRowMapping(t *testing.T) {
	ctx := context.Background()
	_, sq := newSQLiteRepo(t)
	require.NoError(t, sq.EnsureSchema(ctx, `CREATE TABLE ledger (id REAL PRIMARY KEY, name TEXT, email TEXT)`))
	_, err := sq.DB.ExecContext(ctx, `INSERT INTO ledger (id, name) VALUES (1e20, 'big')`)
	require.NoError(t, err)

	wide := NewRepository(record.MustDescriptor("ledger", func() *person { return &person{} }, people.Fields()...), sq, nil)
	_, err = wide.SelectAll(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, record.ErrRowMapping)
}

func TestSQLiteStatementFailures(t *testing.T) {
	ctx := context.Background()
	r, _ := newSQLiteRepo(t)

	// The driver may compile lazily, so a bad column surfaces at prepare or at execution.
	_, err := r.SelectByCondition(ctx, record.Where("no_such_column = ?", record.Int(1)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, record.ErrStatementPreparation) || errors.Is(err, record.ErrExecution), err.Error())

	p := person{ID: 1, Name: "Ann"}
	require.NoError(t, r.Insert(ctx, &p))
	err = r.Insert(ctx, &p)
	require.Error(t, err)
	assert.ErrorIs(t, err, record.ErrExecution)
}

func TestSQLiteUnknownColumns(t *testing.T) {
	ctx := context.Background()
	strict, sq := newSQLiteRepo(t)

	_, err := sq.DB.ExecContext(ctx, `ALTER TABLE users ADD COLUMN nickname TEXT`)
	require.NoError(t, err)
	_, err = sq.DB.ExecContext(ctx, `INSERT INTO users (id, name, nickname) VALUES (1, 'Ann', 'annie')`)
	require.NoError(t, err)

	_, err = strict.SelectAll(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, record.ErrRowMapping)

	lenient := NewRepository(people, sq, nil, WithIgnoreUnknownColumns())
	list, err := lenient.SelectAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []person{{ID: 1, Name: "Ann"}}, list)
}

// ============================================================================
// Statement construction and fault injection
// ============================================================================

func TestInsertBindsOnlySetFields(t *testing.T) {
	r, p := newFakeRepo()

	require.NoError(t, r.Insert(context.Background(), &person{Name: "Ann", Email: "a@x.com"}))

	assert.Equal(t, []string{"INSERT INTO users (name, email) VALUES (?, ?)"}, p.conn.prepared)
	assert.Equal(t, [][]any{{"Ann", "a@x.com"}}, p.conn.stmt.args)
	assert.Equal(t, 1, p.conn.stmt.closed)
	assert.Equal(t, 1, p.conn.released)
}

func TestUpdateBindsIdentifierLast(t *testing.T) {
	r, p := newFakeRepo()

	require.NoError(t, r.Update(context.Background(), &person{ID: 7, Name: "Ann"}))

	assert.Equal(t, []string{"UPDATE users SET name = ?, email = ? WHERE id = ?"}, p.conn.prepared)
	assert.Equal(t, [][]any{{"Ann", nil, int64(7)}}, p.conn.stmt.args)
}

func TestDeleteBindsIdentifier(t *testing.T) {
	r, p := newFakeRepo()

	require.NoError(t, r.Delete(context.Background(), &person{ID: 7}))

	assert.Equal(t, []string{"DELETE FROM users WHERE id = ?"}, p.conn.prepared)
	assert.Equal(t, [][]any{{int64(7)}}, p.conn.stmt.args)
}

func TestDollarDialect(t *testing.T) {
	r, p := newFakeRepo(WithDialect(Dollar))
	ctx := context.Background()

	require.NoError(t, r.Update(ctx, &person{ID: 7, Name: "Ann"}))
	p.conn.stmt.rows.columns = []string{"id", "name", "email"}
	_, _, err := r.SelectByID(ctx, record.Int(7))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"UPDATE users SET name = $1, email = $2 WHERE id = $3",
		"SELECT * FROM users WHERE id = $1",
	}, p.conn.prepared)
}

func TestPreconditionsIssueNoSQL(t *testing.T) {
	ctx := context.Background()
	r, p := newFakeRepo()

	err := r.Insert(ctx, &person{})
	assert.ErrorIs(t, err, record.ErrNoInsertableFields)

	err = r.Update(ctx, &person{Name: "Ann"})
	assert.ErrorIs(t, err, record.ErrMissingIdentifier)

	err = r.Delete(ctx, &person{Name: "Ann"})
	assert.ErrorIs(t, err, record.ErrMissingIdentifier)

	_, _, err = r.SelectByID(ctx, record.Null())
	assert.ErrorIs(t, err, record.ErrMissingIdentifier)

	for _, err := range []error{r.Insert(ctx, nil), r.Update(ctx, nil), r.Delete(ctx, nil)} {
		assert.ErrorIs(t, err, record.ErrNilRecord)
	}

	assert.Zero(t, p.acquired)
	assert.Empty(t, p.conn.prepared)
}

func TestConnectionUnavailable(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("pool exhausted")

	noProvider := NewRepository[person](people, nil, nil)
	err := noProvider.Insert(ctx, &person{Name: "Ann"})
	assert.ErrorIs(t, err, record.ErrConnectionUnavailable)
	assert.ErrorIs(t, noProvider.Health(ctx), record.ErrConnectionUnavailable)

	r, p := newFakeRepo()
	p.acquireErr = cause
	_, err = r.SelectAll(ctx)
	assert.ErrorIs(t, err, record.ErrConnectionUnavailable)
	assert.ErrorIs(t, err, cause)

	r, p = newFakeRepo()
	p.nilConn = true
	err = r.Delete(ctx, &person{ID: 1})
	assert.ErrorIs(t, err, record.ErrConnectionUnavailable)
}

func TestPreparationFailureReleasesConnection(t *testing.T) {
	r, p := newFakeRepo()
	p.conn.prepareErr = errors.New("syntax error")

	err := r.Insert(context.Background(), &person{Name: "Ann"})
	assert.ErrorIs(t, err, record.ErrStatementPreparation)
	assert.Equal(t, 1, p.conn.released)
	assert.Zero(t, p.conn.stmt.closed)
}

func TestExecutionFailureAggregatesCloseErrors(t *testing.T) {
	r, p := newFakeRepo()
	execErr := errors.New("constraint")
	closeErr := errors.New("stmt close")
	releaseErr := errors.New("conn close")
	p.conn.stmt.execErr = execErr
	p.conn.stmt.closeErr = closeErr
	p.conn.releaseErr = releaseErr

	err := r.Insert(context.Background(), &person{Name: "Ann"})
	require.Error(t, err)
	assert.ErrorIs(t, err, record.ErrExecution)
	assert.ErrorIs(t, err, execErr)
	assert.ErrorIs(t, err, closeErr)
	assert.ErrorIs(t, err, releaseErr)
	assert.Equal(t, 1, p.conn.stmt.closed)
	assert.Equal(t, 1, p.conn.released)
}

func TestCloseFailureAfterSuccessIsLogged(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(config.LogConfig{Level: "debug", Format: "plain"}, &buf)

	p := newFakeProvider()
	p.conn.releaseErr = errors.New("conn close")
	r := NewRepository(people, p, log)

	require.NoError(t, r.Insert(context.Background(), &person{Name: "Ann"}))
	assert.Contains(t, buf.String(), "failed to release database resource")
	assert.Contains(t, buf.String(), "table=users")
	assert.Contains(t, buf.String(), "conn close")
}

func TestSelectFailures(t *testing.T) {
	ctx := context.Background()
	cols := []string{"id", "name", "email"}

	tests := []struct {
		name  string
		setup func(*fakeProvider)
		want  error
	}{
		{"query error", func(p *fakeProvider) { p.conn.stmt.queryErr = errors.New("timeout") }, record.ErrExecution},
		{"unknown column", func(p *fakeProvider) {
			p.conn.stmt.rows.columns = append(cols, "extra")
		}, record.ErrRowMapping},
		{"missing column", func(p *fakeProvider) { p.conn.stmt.rows.columns = cols[:2] }, record.ErrRowMapping},
		{"type mismatch", func(p *fakeProvider) {
			p.conn.stmt.rows.columns = cols
			p.conn.stmt.rows.data = [][]any{{"seven", "Ann", nil}}
		}, record.ErrRowMapping},
		{"unsupported driver type", func(p *fakeProvider) {
			p.conn.stmt.rows.columns = cols
			p.conn.stmt.rows.data = [][]any{{int64(1), struct{}{}, nil}}
		}, record.ErrRowMapping},
		{"short row", func(p *fakeProvider) {
			p.conn.stmt.rows.columns = cols
			p.conn.stmt.rows.data = [][]any{{int64(1)}}
		}, record.ErrRowMapping},
		{"scan error", func(p *fakeProvider) {
			p.conn.stmt.rows.columns = cols
			p.conn.stmt.rows.data = [][]any{{int64(1), "Ann", nil}}
			p.conn.stmt.rows.valueErr = errors.New("scan")
		}, record.ErrRowMapping},
		{"iteration error", func(p *fakeProvider) {
			p.conn.stmt.rows.columns = cols
			p.conn.stmt.rows.iterErr = errors.New("conn reset")
		}, record.ErrExecution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, p := newFakeRepo()
			tt.setup(p)

			list, err := r.SelectAll(ctx)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, list)
			assert.Equal(t, 1, p.conn.released)
			assert.Equal(t, 1, p.conn.stmt.closed)
		})
	}
}

func TestSelectMapsRowsByName(t *testing.T) {
	r, p := newFakeRepo(WithIgnoreUnknownColumns())
	rows := p.conn.stmt.rows
	rows.columns = []string{"email", "ignored", "id", "name"}
	rows.data = [][]any{
		{"a@x.com", 1.5, int32(1), "Ann"},
		{nil, nil, int64(2), []byte("Bob")},
	}

	list, err := r.SelectByCondition(context.Background(), record.Where("id < ?", record.Int(3)))
	require.NoError(t, err)
	assert.Equal(t, []person{
		{ID: 1, Name: "Ann", Email: "a@x.com"},
		{ID: 2, Name: "Bob"},
	}, list)
	assert.Equal(t, [][]any{{int64(3)}}, p.conn.stmt.args)
	assert.Equal(t, 1, rows.closed)
}
