package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"ledger/internal/core"
	"ledger/internal/ledger"
	applog "ledger/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteRepository stores the ledgers of every user in one SQLite database.
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

// ForUser returns the ledger.Store for the rows of userID.
func (r *SQLiteRepository) ForUser(userID string) ledger.Store {
	return &sqliteUserStore{repo: r, userID: userID}
}

type sqliteUserStore struct {
	repo   *SQLiteRepository
	userID string
}

func (s *sqliteUserStore) Load(ctx context.Context) (map[string]core.Transaction, error) {
	rows, err := s.repo.db.QueryContext(ctx, `
		SELECT id, type, amount_cents, category, date, description
		FROM transactions
		WHERE user_id = ?`, s.userID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	txns := make(map[string]core.Transaction)
	for rows.Next() {
		var (
			id, typ, cat, date string
			cents              int64
			desc               sql.NullString
		)
		if err := rows.Scan(&id, &typ, &cents, &cat, &date, &desc); err != nil {
			return nil, fmt.Errorf("%w: scan transaction: %v", ledger.ErrCorruptStore, err)
		}
		t := core.NewTransaction(core.Type(typ), core.Money{Cents: cents}, cat, core.DateFromText(date), core.WithID(id))
		if desc.Valid {
			d := desc.String
			t.Description = &d
		}
		txns[id] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txns, nil
}

// Save replaces every row of the user inside one SQL transaction.
func (s *sqliteUserStore) Save(ctx context.Context, txns map[string]core.Transaction) error {
	tx, err := s.repo.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE user_id = ?`, s.userID); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (user_id, id, type, amount_cents, category, date, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for id, t := range txns {
		var desc sql.NullString
		if t.Description != nil {
			desc = sql.NullString{String: *t.Description, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, s.userID, id, string(t.Type), t.Amount.Cents, t.Category, string(t.Date), desc); err != nil {
			return fmt.Errorf("insert transaction %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.DebugContext(ctx, "Ledger rows written",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldBackend, "sqlite",
		applog.FieldUserID, s.userID,
		applog.FieldCount, len(txns))
	return nil
}
