// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type Storage struct {
	db *pgxpool.Pool

	availableMoney ownedTable[domain.AvailableMoney]
	categories     ownedTable[domain.Category]
	spentMoney     ownedTable[domain.SpentMoney]
}

var _ storage.Storage = (*Storage)(nil)

func NewStorage(db *pgxpool.Pool) *Storage {
	return &Storage{
		db:             db,
		availableMoney: newAvailableMoneyTable(db),
		categories:     newCategoryTable(db),
		spentMoney:     newSpentMoneyTable(db),
	}
}

// Connect opens a pool and checks the database answers.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// mapError translates driver errors into storage sentinels.
func mapError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, storage.ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// where accumulates AND-ed conditions written with "?" placeholders and
// numbers them as it goes.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, args ...any) {
	var b strings.Builder
	i := 0
	for _, r := range cond {
		if r == '?' && i < len(args) {
			w.args = append(w.args, args[i])
			i++
			b.WriteString("$" + strconv.Itoa(len(w.args)))
			continue
		}
		b.WriteRune(r)
	}
	w.conds = append(w.conds, b.String())
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.conds, " AND ")
}

// likePattern builds a case-insensitive substring pattern for ILIKE.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// ownedTable runs the owner-scoped, soft-delete aware queries shared by
// every per-user table. The table is always aliased as t.
type ownedTable[T any] struct {
	db      *pgxpool.Pool
	table   string
	from    string
	columns string
	orderBy string
	scan    func(row pgx.Row) (T, error)
}

func (o ownedTable[T]) scope(userID int64) *where {
	w := &where{}
	w.add("t.user_id = ?", userID)
	w.add("t.deleted_at IS NULL")
	return w
}

func (o ownedTable[T]) list(ctx context.Context, w *where, q storage.Query) ([]T, int, error) {
	var total int
	if q.Paginated() {
		err := o.db.QueryRow(ctx, "SELECT COUNT(*) FROM "+o.from+" "+w.String(), w.args...).Scan(&total)
		if err != nil {
			return nil, 0, fmt.Errorf("count %s: %w", o.table, err)
		}
	}

	sql := "SELECT " + o.columns + " FROM " + o.from + " " + w.String() + " ORDER BY " + o.orderBy
	if q.Paginated() {
		sql += fmt.Sprintf(" LIMIT %d OFFSET %d", q.PerPage, q.Offset())
	}
	rows, err := o.db.Query(ctx, sql, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query %s: %w", o.table, err)
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		item, err := o.scan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan %s: %w", o.table, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows %s: %w", o.table, err)
	}
	if !q.Paginated() {
		total = len(items)
	}
	return items, total, nil
}

func (o ownedTable[T]) get(ctx context.Context, userID, id int64) (T, error) {
	w := o.scope(userID)
	w.add("t.id = ?", id)
	item, err := o.scan(o.db.QueryRow(ctx, "SELECT "+o.columns+" FROM "+o.from+" "+w.String(), w.args...))
	if err != nil {
		return item, mapError("get "+o.table, err)
	}
	return item, nil
}

func (o ownedTable[T]) softDelete(ctx context.Context, userID, id int64) error {
	tag, err := o.db.Exec(ctx, `
		UPDATE `+o.table+` SET deleted_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`, id, userID)
	if err != nil {
		return fmt.Errorf("delete %s: %w", o.table, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete %s: %w", o.table, storage.ErrNotFound)
	}
	return nil
}
