package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"recordkeeper/src/core/ports"
	"recordkeeper/src/core/record"
	"recordkeeper/src/infra/logger"
)

const (
	opInsert = "insert"
	opUpdate = "update"
	opDelete = "delete"
	opSelect = "select"
)

type settings struct {
	dialect       Dialect
	ignoreUnknown bool
}

// Option configures a Repository.
type Option func(*settings)

// WithDialect sets the placeholder dialect. The default is Question.
func WithDialect(d Dialect) Option {
	return func(s *settings) { s.dialect = d }
}

// WithIgnoreUnknownColumns skips result columns the descriptor does not
// declare. By default they fail the read with record.ErrRowMapping.
func WithIgnoreUnknownColumns() Option {
	return func(s *settings) { s.ignoreUnknown = true }
}

// Repository implements ports.RecordRepository for any described type.
type Repository[T any] struct {
	desc     *record.Descriptor[T]
	provider ports.Provider
	cfg      settings
	log      *slog.Logger
}

var _ ports.RecordRepository[struct{}] = (*Repository[struct{}])(nil)

// NewRepository constructs a repository for desc backed by provider.
func NewRepository[T any](desc *record.Descriptor[T], provider ports.Provider, log *slog.Logger, opts ...Option) *Repository[T] {
	var cfg settings
	for _, opt := range opts {
		opt(&cfg)
	}
	if log != nil {
		log = logger.WithTable(log, desc.Table())
	}
	return &Repository[T]{
		desc:     desc,
		provider: provider,
		cfg:      cfg,
		log:      log,
	}
}

func (r *Repository[T]) Health(ctx context.Context) error {
	if r.provider == nil {
		return record.ErrConnectionUnavailable
	}
	return r.provider.Health(ctx)
}

// Insert writes every field of rec whose value is not NULL.
func (r *Repository[T]) Insert(ctx context.Context, rec *T) error {
	if rec == nil {
		return r.fail(opInsert, record.ErrNilRecord, nil)
	}

	var (
		columns []string
		args    []any
	)
	for _, f := range r.desc.Fields() {
		v := f.Get(rec)
		if v.IsNull() {
			continue
		}
		columns = append(columns, f.Name)
		args = append(args, v.Any())
	}
	if len(columns) == 0 {
		return r.fail(opInsert, record.ErrNoInsertableFields, nil)
	}

	return r.exec(ctx, opInsert, insertSQL(r.desc.Table(), columns), args)
}

// Update rewrites every non-identifier field of rec, NULLs included.
func (r *Repository[T]) Update(ctx context.Context, rec *T) error {
	if rec == nil {
		return r.fail(opUpdate, record.ErrNilRecord, nil)
	}
	id, err := r.desc.IdentifierValue(rec)
	if err != nil {
		return r.fail(opUpdate, record.ErrMissingIdentifier, nil)
	}

	key := r.desc.Identifier().Name
	var (
		columns []string
		args    []any
	)
	for _, f := range r.desc.Fields() {
		if f.Identifier {
			continue
		}
		columns = append(columns, f.Name)
		args = append(args, f.Get(rec).Any())
	}
	args = append(args, id.Any())

	return r.exec(ctx, opUpdate, updateSQL(r.desc.Table(), columns, key), args)
}

// Delete removes the row keyed by rec's identifier.
func (r *Repository[T]) Delete(ctx context.Context, rec *T) error {
	if rec == nil {
		return r.fail(opDelete, record.ErrNilRecord, nil)
	}
	id, err := r.desc.IdentifierValue(rec)
	if err != nil {
		return r.fail(opDelete, record.ErrMissingIdentifier, nil)
	}

	key := r.desc.Identifier().Name
	return r.exec(ctx, opDelete, deleteSQL(r.desc.Table(), key), []any{id.Any()})
}

// SelectByID returns the first row whose identifier equals id.
func (r *Repository[T]) SelectByID(ctx context.Context, id record.Value) (T, bool, error) {
	var zero T
	if id.IsNull() {
		return zero, false, r.fail(opSelect, record.ErrMissingIdentifier, nil)
	}

	key := r.desc.Identifier().Name
	list, err := r.SelectByCondition(ctx, record.Where(key+" = ?", id))
	if err != nil {
		return zero, false, err
	}
	if len(list) == 0 {
		return zero, false, nil
	}
	return list[0], true, nil
}

// SelectAll returns every row of the table.
func (r *Repository[T]) SelectAll(ctx context.Context) ([]T, error) {
	return r.SelectByCondition(ctx, record.Filter{})
}

// SelectByCondition runs SELECT * with the filter's condition and maps each
// row onto a fresh blank record.
func (r *Repository[T]) SelectByCondition(ctx context.Context, filter record.Filter) (out []T, err error) {
	query := selectSQL(r.desc.Table(), filter.Condition)
	args := filter.Args()

	conn, err := r.acquire(ctx, opSelect)
	if err != nil {
		return nil, err
	}
	defer func() { err = r.release(opSelect, err, conn.Release) }()

	stmt, err := r.prepare(ctx, conn, opSelect, query, args)
	if err != nil {
		return nil, err
	}
	defer func() { err = r.release(opSelect, err, stmt.Close) }()

	rows, err := stmt.Query(ctx, args...)
	if err != nil {
		return nil, r.fail(opSelect, record.ErrExecution, err)
	}
	defer func() { err = r.release(opSelect, err, rows.Close) }()

	slots, err := r.columnSlots(rows.Columns())
	if err != nil {
		return nil, r.fail(opSelect, record.ErrRowMapping, err)
	}

	fields := r.desc.Fields()
	out = make([]T, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, r.fail(opSelect, record.ErrRowMapping, err)
		}
		if len(values) != len(slots) {
			return nil, r.fail(opSelect, record.ErrRowMapping,
				fmt.Errorf("row has %d values for %d columns", len(values), len(slots)))
		}

		rec := r.desc.New()
		for i, slot := range slots {
			if slot < 0 {
				continue
			}
			v, err := record.FromDriver(values[i])
			if err != nil {
				return nil, r.fail(opSelect, record.ErrRowMapping, fmt.Errorf("column %s: %w", fields[slot].Name, err))
			}
			if err := fields[slot].Set(rec, v); err != nil {
				return nil, r.fail(opSelect, record.ErrRowMapping, err)
			}
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, r.fail(opSelect, record.ErrExecution, err)
	}

	return out, nil
}

// columnSlots maps each result column to a descriptor field index, or -1 for
// an ignored column. Every declared field must be present.
func (r *Repository[T]) columnSlots(columns []string) ([]int, error) {
	slots := make([]int, len(columns))
	seen := make(map[string]bool, len(columns))
	for i, c := range columns {
		j, ok := r.desc.Position(c)
		if !ok {
			if !r.cfg.ignoreUnknown {
				return nil, fmt.Errorf("unexpected column %q", c)
			}
			slots[i] = -1
			continue
		}
		slots[i] = j
		seen[c] = true
	}

	for _, f := range r.desc.Fields() {
		if !seen[f.Name] {
			return nil, fmt.Errorf("column %q missing from result", f.Name)
		}
	}
	return slots, nil
}

func (r *Repository[T]) exec(ctx context.Context, op, query string, args []any) (err error) {
	conn, err := r.acquire(ctx, op)
	if err != nil {
		return err
	}
	defer func() { err = r.release(op, err, conn.Release) }()

	stmt, err := r.prepare(ctx, conn, op, query, args)
	if err != nil {
		return err
	}
	defer func() { err = r.release(op, err, stmt.Close) }()

	affected, err := stmt.Exec(ctx, args...)
	if err != nil {
		return r.fail(op, record.ErrExecution, err)
	}

	logger.Debug(r.log, "statement executed", "op", op, "rows_affected", affected)
	return nil
}

func (r *Repository[T]) acquire(ctx context.Context, op string) (ports.Conn, error) {
	if r.provider == nil {
		return nil, r.fail(op, record.ErrConnectionUnavailable, nil)
	}
	conn, err := r.provider.Acquire(ctx)
	if err != nil {
		return nil, r.fail(op, record.ErrConnectionUnavailable, err)
	}
	if conn == nil {
		return nil, r.fail(op, record.ErrConnectionUnavailable, nil)
	}
	return conn, nil
}

func (r *Repository[T]) prepare(ctx context.Context, conn ports.Conn, op, query string, args []any) (ports.Stmt, error) {
	text := r.cfg.dialect.Rebind(query)
	logger.Debug(r.log, "preparing statement", "op", op, "sql", text, "args", len(args))

	stmt, err := conn.Prepare(ctx, text)
	if err != nil {
		return nil, r.fail(op, record.ErrStatementPreparation, err)
	}
	return stmt, nil
}

// release runs a close function and folds its failure into err. A close
// failure after a successful call is logged rather than returned, since the
// statement has already taken effect.
func (r *Repository[T]) release(op string, err error, closeFn func() error) error {
	cerr := closeFn()
	if cerr == nil {
		return err
	}
	if err != nil {
		return errors.Join(err, cerr)
	}
	logger.Warn(r.log, "failed to release database resource", "op", op, "error", cerr)
	return nil
}

func (r *Repository[T]) fail(op string, kind, err error) error {
	return record.NewError(op, r.desc.Table(), kind, err)
}
