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

	"budgetwise/internal/core"

	_ "modernc.org/sqlite"
)

// dateLayout is how transaction dates are stored; lexicographic order equals
// chronological order, so range scans on tx_date work as plain comparisons.
const dateLayout = "2006-01-02"

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

// CreateTransaction validates and stores one transaction, returning its
// assigned ID. The category is normalized before insert.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, userID int64, t core.Transaction) (int64, error) {
	t = t.Normalize()
	if t.Amount < 0 {
		return 0, core.ErrNegativeAmount
	}
	if t.Date.IsZero() {
		return 0, core.ErrZeroDate
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, category, amount, tx_date) VALUES (?, ?, ?, ?)`,
		userID, t.Category, t.Amount, t.Date.Format(dateLayout))
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read transaction id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", id,
		"user_id", userID,
		"category", t.Category,
		"amount", t.Amount,
		"date", t.Date.Format(dateLayout))

	return id, nil
}

// ListTransactions returns a user's transactions dated on or after since,
// ordered by date then ID.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID int64, since time.Time) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, category, amount, tx_date
		 FROM transactions
		 WHERE user_id = ? AND tx_date >= ?
		 ORDER BY tx_date, id`,
		userID, since.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		var t core.Transaction
		var date string
		if err := rows.Scan(&t.ID, &t.Category, &t.Amount, &date); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Date, err = time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", date, err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	return txs, nil
}

// MonthlyIncome returns the user's declared monthly income, or zero when none
// was declared. Zero income disables the income-relative analyzers.
func (r *SQLiteRepository) MonthlyIncome(ctx context.Context, userID int64) (float64, error) {
	var income float64
	err := r.db.QueryRowContext(ctx,
		`SELECT monthly_income FROM incomes WHERE user_id = ?`, userID).Scan(&income)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get monthly income: %w", err)
	}
	return income, nil
}

// SetMonthlyIncome upserts the user's declared monthly income.
func (r *SQLiteRepository) SetMonthlyIncome(ctx context.Context, userID int64, income float64) error {
	if income < 0 {
		return core.ErrNegativeAmount
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO incomes (user_id, monthly_income, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(user_id) DO UPDATE SET monthly_income = excluded.monthly_income, updated_at = CURRENT_TIMESTAMP`,
		userID, income)
	if err != nil {
		return fmt.Errorf("set monthly income: %w", err)
	}

	slog.InfoContext(ctx, "Monthly income saved", "user_id", userID, "income", income)
	return nil
}

// SaveReport appends a generated report payload for later inspection.
func (r *SQLiteRepository) SaveReport(ctx context.Context, userID int64, kind string, payload []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reports (user_id, kind, payload) VALUES (?, ?, ?)`,
		userID, kind, payload)
	if err != nil {
		return fmt.Errorf("save %s report: %w", kind, err)
	}

	slog.InfoContext(ctx, "Report saved", "user_id", userID, "kind", kind, "bytes", len(payload))
	return nil
}

// LatestReport returns the most recent stored payload of the given kind, or
// ok=false when the user has none.
func (r *SQLiteRepository) LatestReport(ctx context.Context, userID int64, kind string) ([]byte, bool, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM reports
		 WHERE user_id = ? AND kind = ?
		 ORDER BY created_at DESC, id DESC LIMIT 1`,
		userID, kind).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get latest %s report: %w", kind, err)
	}
	return payload, true, nil
}

// ListUserIDs returns every user with at least one recorded transaction.
// The worker uses it to recompute reports on startup.
func (r *SQLiteRepository) ListUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT user_id FROM transactions ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list user IDs: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user IDs: %w", err)
	}
	return ids, nil
}

// GetModel implements modelcache.Store.
func (r *SQLiteRepository) GetModel(ctx context.Context, key string) ([]byte, bool, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM trained_models WHERE model_key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get model %s: %w", key, err)
	}
	return payload, true, nil
}

// PutModel implements modelcache.Store. Re-putting a key overwrites the
// previous blob; the cache layer ensures that only happens deliberately.
func (r *SQLiteRepository) PutModel(ctx context.Context, key string, blob []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO trained_models (model_key, payload, trained_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(model_key) DO UPDATE SET payload = excluded.payload, trained_at = CURRENT_TIMESTAMP`,
		key, blob)
	if err != nil {
		return fmt.Errorf("put model %s: %w", key, err)
	}

	slog.InfoContext(ctx, "Trained model stored", "key", key, "bytes", len(blob))
	return nil
}
