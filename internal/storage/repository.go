package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"budgeteer/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository implements the services storage ports on SQLite. Budget
// member lists live in a join table; methods that touch more than one row
// run inside a transaction so partially written state never becomes visible.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, description, amount_cents, type, category, account, notes, status, budget_id
		FROM transactions
		ORDER BY date DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, date, description, amount_cents, type, category, account, notes, status, budget_id
		FROM transactions WHERE id = ?`, id)

	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	return t, err
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, date, description, amount_cents, type, category, account, notes, status, budget_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Date.String(), t.Description, t.Amount.Cents, string(t.Type),
		t.Category, t.Account, t.Notes, string(t.Status), t.BudgetID)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", t.ID,
		"description", t.Description,
		"amount_cents", t.Amount.Cents,
		"type", t.Type)

	return nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET date = ?, description = ?, amount_cents = ?, type = ?, category = ?,
		    account = ?, notes = ?, status = ?, budget_id = ?
		WHERE id = ?`,
		t.Date.String(), t.Description, t.Amount.Cents, string(t.Type), t.Category,
		t.Account, t.Notes, string(t.Status), t.BudgetID, t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res, "transaction", t.ID)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM budget_members WHERE transaction_id = ?`, id); err != nil {
			return fmt.Errorf("delete membership rows: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}
		return requireRow(res, "transaction", id)
	})
}

func (r *SQLiteRepository) BulkCreateTransactions(ctx context.Context, ts []core.Transaction) error {
	if len(ts) == 0 {
		return nil
	}
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO transactions (id, date, description, amount_cents, type, category, account, notes, status, budget_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, t := range ts {
			if err := t.Validate(); err != nil {
				return fmt.Errorf("transaction %s: %w", t.ID, err)
			}
			if _, err := stmt.ExecContext(ctx,
				t.ID, t.Date.String(), t.Description, t.Amount.Cents, string(t.Type),
				t.Category, t.Account, t.Notes, string(t.Status), t.BudgetID); err != nil {
				return fmt.Errorf("insert transaction %s: %w", t.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Transactions bulk-created", "count", len(ts))
	return nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, amount_cents, period, start_date, starting_balance_cents,
		       rollover_day, pinned, display_order, created_at
		FROM budgets
		ORDER BY display_order, title`)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		ids, err := r.memberIDs(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].TransactionIDs = ids
	}
	return out, nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, id string) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, amount_cents, period, start_date, starting_balance_cents,
		       rollover_day, pinned, display_order, created_at
		FROM budgets WHERE id = ?`, id)

	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, fmt.Errorf("budget %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Budget{}, err
	}

	b.TransactionIDs, err = r.memberIDs(ctx, id)
	if err != nil {
		return core.Budget{}, err
	}
	return b, nil
}

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO budgets (id, title, amount_cents, period, start_date, starting_balance_cents,
			                     rollover_day, pinned, display_order, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.ID, b.Title, b.Amount.Cents, string(b.Period), dateOrEmpty(b.StartDate),
			b.StartingBalance.Cents, b.RolloverDay, boolToInt(b.Pinned), b.DisplayOrder,
			timeOrEmpty(b.CreatedAt))
		if err != nil {
			return fmt.Errorf("insert budget: %w", err)
		}
		return replaceMembers(ctx, tx, b.ID, b.TransactionIDs)
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Budget saved to SQLite",
		"id", b.ID,
		"title", b.Title,
		"period", b.Period,
		"amount_cents", b.Amount.Cents)

	return nil
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE budgets
			SET title = ?, amount_cents = ?, period = ?, start_date = ?, starting_balance_cents = ?,
			    rollover_day = ?, pinned = ?, display_order = ?, created_at = ?
			WHERE id = ?`,
			b.Title, b.Amount.Cents, string(b.Period), dateOrEmpty(b.StartDate),
			b.StartingBalance.Cents, b.RolloverDay, boolToInt(b.Pinned), b.DisplayOrder,
			timeOrEmpty(b.CreatedAt), b.ID)
		if err != nil {
			return fmt.Errorf("update budget: %w", err)
		}
		if err := requireRow(res, "budget", b.ID); err != nil {
			return err
		}
		return replaceMembers(ctx, tx, b.ID, b.TransactionIDs)
	})
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM budget_members WHERE budget_id = ?`, id); err != nil {
			return fmt.Errorf("delete membership rows: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete budget: %w", err)
		}
		return requireRow(res, "budget", id)
	})
}

func (r *SQLiteRepository) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) memberIDs(ctx context.Context, budgetID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT transaction_id FROM budget_members
		WHERE budget_id = ? ORDER BY position`, budgetID)
	if err != nil {
		return nil, fmt.Errorf("query budget members: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan member id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func replaceMembers(ctx context.Context, tx *sql.Tx, budgetID string, ids []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM budget_members WHERE budget_id = ?`, budgetID); err != nil {
		return fmt.Errorf("clear membership rows: %w", err)
	}
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO budget_members (budget_id, transaction_id, position) VALUES (?, ?, ?)`,
			budgetID, id, i); err != nil {
			return fmt.Errorf("insert membership row: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t      core.Transaction
		date   string
		ttype  string
		status string
	)
	err := row.Scan(&t.ID, &date, &t.Description, &t.Amount.Cents, &ttype,
		&t.Category, &t.Account, &t.Notes, &status, &t.BudgetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}

	t.Date, err = core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored date %q: %w", date, err)
	}
	t.Type = core.TransactionType(ttype)
	t.Status = core.TransactionStatus(status)
	return t, nil
}

func scanBudget(row rowScanner) (core.Budget, error) {
	var (
		b         core.Budget
		period    string
		startDate string
		pinned    int
		createdAt string
	)
	err := row.Scan(&b.ID, &b.Title, &b.Amount.Cents, &period, &startDate,
		&b.StartingBalance.Cents, &b.RolloverDay, &pinned, &b.DisplayOrder, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Budget{}, err
		}
		return core.Budget{}, fmt.Errorf("scan budget: %w", err)
	}

	b.Period = core.PeriodType(period)
	b.Pinned = pinned != 0
	if startDate != "" {
		b.StartDate, err = core.ParseDate(startDate)
		if err != nil {
			return core.Budget{}, fmt.Errorf("parse stored start date %q: %w", startDate, err)
		}
	}
	if createdAt != "" {
		b.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return core.Budget{}, fmt.Errorf("parse stored created at %q: %w", createdAt, err)
		}
	}
	return b, nil
}

func requireRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, core.ErrNotFound)
	}
	return nil
}

func dateOrEmpty(d core.Date) string {
	if d.IsEmpty() {
		return ""
	}
	return d.String()
}

func timeOrEmpty(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
