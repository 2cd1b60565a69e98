package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Key is the primary-key type of a table: a UUID or an auto-increment integer.
type Key interface {
	uuid.UUID | int64
}

// Entity is implemented by pointers to model structs.
type Entity[K Key] interface {
	PrimaryKey() K
}

// creator is the optional hook that assigns ids and timestamps before insert.
type creator interface {
	BeforeCreate(now time.Time)
}

// Patch reports the columns a partial update should touch.  Columns that
// are absent from the map keep their stored value.
type Patch interface {
	Changes() map[string]any
}

// Changes is a ready-made Patch.
type Changes map[string]any

func (c Changes) Changes() map[string]any { return c }

// Page selects a window of a listing.
type Page struct {
	Skip  int
	Limit int
}

// Filter is an equality condition on one column.
type Filter struct {
	Column string
	Value  any
}

// Eq builds a Filter.
func Eq(column string, value any) Filter { return Filter{Column: column, Value: value} }

// Store is the uniform set of operations every resource supports.
type Store[E any, K Key] interface {
	List(ctx context.Context, page Page, filters ...Filter) ([]E, error)
	Get(ctx context.Context, id K) (*E, error)
	Create(ctx context.Context, e *E) (*E, error)
	Update(ctx context.Context, id K, p Patch) (*E, error)
	Delete(ctx context.Context, id K) (K, error)
}

// Table describes how an entity maps onto its table.
type Table struct {
	Name          string
	Columns       []string // non-key columns in insert order
	AutoIncrement bool     // the database assigns id
	SoftDelete    string   // boolean flag column; empty means rows are deleted
	OrderBy       string   // listing order; id when empty
}

func (t Table) selectList() string {
	return "id, " + strings.Join(t.Columns, ", ")
}

func (t Table) hasColumn(name string) bool {
	if name == "id" {
		return true
	}
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// CRUD implements Store for any entity described by a Table.
type CRUD[E any, K Key, P interface {
	*E
	Entity[K]
}] struct {
	db    *sqlx.DB
	table Table
	now   func() time.Time
}

// NewCRUD returns a repository over db for the given table.
func NewCRUD[E any, K Key, P interface {
	*E
	Entity[K]
}](db *sqlx.DB, t Table) *CRUD[E, K, P] {
	return &CRUD[E, K, P]{db: db, table: t, now: func() time.Time {
		return time.Now().UTC().Truncate(time.Microsecond)
	}}
}

// DB exposes the handle for repositories that add queries of their own.
func (r *CRUD[E, K, P]) DB() *sqlx.DB { return r.db }

// Table returns the descriptor the repository was built with.
func (r *CRUD[E, K, P]) Table() Table { return r.table }

// List returns up to page.Limit rows after skipping page.Skip, in a stable
// order.  Filters must name known columns.
func (r *CRUD[E, K, P]) List(ctx context.Context, page Page, filters ...Filter) ([]E, error) {
	if page.Skip < 0 || page.Limit < 0 {
		return nil, fmt.Errorf("invalid page skip=%d limit=%d", page.Skip, page.Limit)
	}
	where, args, err := r.where(filters)
	if err != nil {
		return nil, err
	}
	order := "id"
	if r.table.OrderBy != "" {
		order = r.table.OrderBy + ", id"
	}
	q := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s LIMIT ? OFFSET ?",
		r.table.selectList(), r.table.Name, where, order)
	args = append(args, page.Limit, page.Skip)

	out := []E{}
	err = withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return tx.SelectContext(ctx, &out, q, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table.Name, err)
	}
	return out, nil
}

// Get loads one row by id.  ErrNotFound when absent.
func (r *CRUD[E, K, P]) Get(ctx context.Context, id K) (*E, error) {
	var out *E
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		out, err = r.get(ctx, tx, id)
		return err
	})
	return out, err
}

// Create inserts e and returns the stored row.  The id is assigned by the
// entity's BeforeCreate hook or, for auto-increment tables, by the database.
func (r *CRUD[E, K, P]) Create(ctx context.Context, e *E) (*E, error) {
	if c, ok := any(e).(creator); ok {
		c.BeforeCreate(r.now())
	}
	cols := r.table.Columns
	if !r.table.AutoIncrement {
		cols = append([]string{"id"}, cols...)
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (:%s)",
		r.table.Name, strings.Join(cols, ", "), strings.Join(cols, ", :"))

	var out *E
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.NamedExecContext(ctx, q, e)
		if err != nil {
			if isDuplicate(err) {
				return ErrConflict
			}
			return fmt.Errorf("insert %s: %w", r.table.Name, err)
		}
		id := P(e).PrimaryKey()
		if r.table.AutoIncrement {
			last, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("insert %s: last id: %w", r.table.Name, err)
			}
			key, ok := any(last).(K)
			if !ok {
				return fmt.Errorf("insert %s: table is auto-increment but key is %T", r.table.Name, id)
			}
			id = key
		}
		out, err = r.get(ctx, tx, id)
		return err
	})
	return out, err
}

// Update applies the columns carried by p to the row and returns the result.
// An empty patch just returns the current row.
func (r *CRUD[E, K, P]) Update(ctx context.Context, id K, p Patch) (*E, error) {
	changes := p.Changes()
	cols := make([]string, 0, len(changes))
	for c := range changes {
		if c == "id" || !r.table.hasColumn(c) || c == r.table.SoftDelete {
			return nil, fmt.Errorf("update %s: column %q is not writable", r.table.Name, c)
		}
		cols = append(cols, c)
	}
	sort.Strings(cols)

	var out *E
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		// MySQL reports zero affected rows for unchanged values, so existence
		// is checked up front.
		if _, err := r.get(ctx, tx, id); err != nil {
			return err
		}
		if len(cols) > 0 {
			sets := make([]string, len(cols))
			args := make([]any, 0, len(cols)+1)
			for i, c := range cols {
				sets[i] = c + " = ?"
				args = append(args, changes[c])
			}
			args = append(args, id)
			q := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", r.table.Name, strings.Join(sets, ", "))
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				if isDuplicate(err) {
					return ErrConflict
				}
				return fmt.Errorf("update %s: %w", r.table.Name, err)
			}
		}
		var err error
		out, err = r.get(ctx, tx, id)
		return err
	})
	return out, err
}

// Delete removes the row, or flags it when the table soft deletes, and
// returns its id.  A second delete reports ErrNotFound.
func (r *CRUD[E, K, P]) Delete(ctx context.Context, id K) (K, error) {
	var q string
	args := []any{id}
	if r.table.SoftDelete != "" {
		q = fmt.Sprintf("UPDATE %s SET %s = ? WHERE id = ? AND %s = ?",
			r.table.Name, r.table.SoftDelete, r.table.SoftDelete)
		args = []any{true, id, false}
	} else {
		q = fmt.Sprintf("DELETE FROM %s WHERE id = ?", r.table.Name)
	}

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			return fmt.Errorf("delete %s: %w", r.table.Name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete %s: %w", r.table.Name, err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		var zero K
		return zero, err
	}
	return id, nil
}

func (r *CRUD[E, K, P]) get(ctx context.Context, tx *sqlx.Tx, id K) (*E, error) {
	q := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", r.table.selectList(), r.table.Name)
	args := []any{id}
	if r.table.SoftDelete != "" {
		q += " AND " + r.table.SoftDelete + " = ?"
		args = append(args, false)
	}
	var e E
	if err := tx.GetContext(ctx, &e, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", r.table.Name, err)
	}
	return &e, nil
}

func (r *CRUD[E, K, P]) where(filters []Filter) (string, []any, error) {
	conds := make([]string, 0, len(filters)+1)
	args := make([]any, 0, len(filters)+1)
	if r.table.SoftDelete != "" {
		conds = append(conds, r.table.SoftDelete+" = ?")
		args = append(args, false)
	}
	for _, f := range filters {
		if !r.table.hasColumn(f.Column) {
			return "", nil, fmt.Errorf("list %s: unknown filter column %q", r.table.Name, f.Column)
		}
		conds = append(conds, f.Column+" = ?")
		args = append(args, f.Value)
	}
	if len(conds) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on error or panic.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	return fn(tx)
}
