package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"ledger/internal/core"
	"ledger/internal/ledger"
	applog "ledger/internal/log"
)

// JSONFileStore keeps one user's ledger as an indented JSON object mapping
// transaction id to record.
type JSONFileStore struct {
	path string
}

var _ ledger.Store = (*JSONFileStore)(nil)

func NewJSONFileStore(path string) *JSONFileStore {
	return &JSONFileStore{path: path}
}

// UserFile is the ledger file of userID inside dir.
func UserFile(dir, userID string) string {
	return filepath.Join(dir, fmt.Sprintf("transactions_%s.json", userID))
}

// Load reads the file. A missing or empty file is an empty ledger; a file that
// is not a JSON object returns ErrCorruptStore. Single records that do not
// decode are skipped with a warning.
func (s *JSONFileStore) Load(ctx context.Context) (map[string]core.Transaction, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]core.Transaction{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]core.Transaction{}, nil
	}

	var raw map[string]core.Record
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ledger.ErrCorruptStore, s.path, err)
	}

	txns := make(map[string]core.Transaction, len(raw))
	for key, rec := range raw {
		if rec.ID == "" {
			rec.ID = key
		}
		t, err := core.FromRecord(rec)
		if err != nil {
			slog.WarnContext(ctx, "Skipping unreadable transaction record",
				applog.FieldComponent, applog.ComponentStorage,
				applog.FieldPath, s.path,
				applog.FieldTransactionID, key,
				applog.FieldError, err.Error())
			continue
		}
		txns[t.ID] = t
	}
	return txns, nil
}

// Save rewrites the whole file.
func (s *JSONFileStore) Save(ctx context.Context, txns map[string]core.Transaction) error {
	raw := make(map[string]core.Record, len(txns))
	for id, t := range txns {
		raw[id] = t.ToRecord()
	}
	if err := WriteJSON(s.path, raw); err != nil {
		return err
	}
	slog.DebugContext(ctx, "Ledger file written",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldPath, s.path,
		applog.FieldCount, len(raw))
	return nil
}

// JSONDirectory hands out one JSONFileStore per user inside a directory.
type JSONDirectory struct {
	dir string
}

func NewJSONDirectory(dir string) *JSONDirectory {
	return &JSONDirectory{dir: dir}
}

func (d *JSONDirectory) ForUser(userID string) ledger.Store {
	return NewJSONFileStore(UserFile(d.dir, userID))
}
