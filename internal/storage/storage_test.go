package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"ledger/internal/core"
	"ledger/internal/ledger"
)

func sample() map[string]core.Transaction {
	a := core.NewTransaction(core.Income, core.Money{Cents: 100000}, "Salary", "2024-01-05", core.WithID("A"))
	b := core.NewTransaction(core.Expense, core.Money{Cents: 30050}, "Food", "2024-01-10", core.WithID("B"), core.WithDescription("groceries"))
	return map[string]core.Transaction{"A": a, "B": b}
}

// roundTrip checks that every backend returns exactly what it was given.
func roundTrip(t *testing.T, s ledger.Store) {
	t.Helper()
	ctx := context.Background()

	empty, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load before Save: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty store, got %v", empty)
	}

	want := sample()
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Load = %+v, want %+v", got, want)
	}

	delete(want, "A")
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save after delete: %v", err)
	}
	got, err = s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got["A"]; ok || len(got) != 1 {
		t.Fatalf("deleted record still stored: %v", got)
	}
}

func TestJSONFileStoreRoundTrip(t *testing.T) {
	roundTrip(t, NewJSONFileStore(UserFile(t.TempDir(), "u001")))
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	roundTrip(t, NewMemoryStore().ForUser("u001"))
}

func TestSQLiteRoundTrip(t *testing.T) {
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	defer repo.Close()
	roundTrip(t, repo.ForUser("u001"))
}

func TestSQLiteIsolatesUsers(t *testing.T) {
	ctx := context.Background()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer repo.Close()

	if err := repo.ForUser("u001").Save(ctx, sample()); err != nil {
		t.Fatal(err)
	}
	other := map[string]core.Transaction{
		"A": core.NewTransaction(core.Expense, core.Money{Cents: 1}, "Rent", "2024-03-01", core.WithID("A")),
	}
	if err := repo.ForUser("u002").Save(ctx, other); err != nil {
		t.Fatal(err)
	}

	got, err := repo.ForUser("u001").Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, sample()) {
		t.Fatalf("u001 ledger changed by u002 save: %v", got)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	for i := 0; i < 2; i++ {
		repo, err := NewSQLiteRepository(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		repo.Close()
	}
	if err := RunMigrations(path); err != nil {
		t.Errorf("RunMigrations on a current schema: %v", err)
	}
}

func TestJSONFileStoreLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantIDs []string
		wantErr error
	}{
		{"empty file", "   \n", nil, nil},
		{"corrupt", "{not json", nil, ledger.ErrCorruptStore},
		{"array", "[]", nil, ledger.ErrCorruptStore},
		{
			name: "bad record skipped",
			content: `{
  "A": {"id": "A", "type": "income", "amount": 10.5, "category": "Salary", "date": "2024-01-05", "description": null},
  "X": {"id": "X", "type": "gift", "amount": 1, "category": "Other", "date": "2024-01-05", "description": null}
}`,
			wantIDs: []string{"A"},
		},
		{
			name:    "id from key",
			content: `{"K": {"type": "expense", "amount": 3, "category": "Food", "date": "2024-01-05T10:00:00"}}`,
			wantIDs: []string{"K"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "transactions_u001.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			got, err := NewJSONFileStore(path).Load(context.Background())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d records, want %v", len(got), tt.wantIDs)
			}
			for _, id := range tt.wantIDs {
				if _, ok := got[id]; !ok {
					t.Errorf("missing %s", id)
				}
			}
		})
	}
}

func TestJSONFileStoreTruncatesLegacyDates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.json")
	content := `{"K": {"id": "K", "type": "expense", "amount": 3, "category": "Food", "date": "2024-01-05T10:00:00"}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := NewJSONFileStore(path).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got["K"].Date != "2024-01-05" || got["K"].Amount.Cents != 300 {
		t.Fatalf("record = %+v", got["K"])
	}
}

func TestJSONFileStoreLayout(t *testing.T) {
	dir := t.TempDir()
	path := UserFile(dir, "u001")
	if filepath.Base(path) != "transactions_u001.json" {
		t.Fatalf("UserFile = %s", path)
	}
	if err := NewJSONFileStore(path).Save(context.Background(), sample()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"B": {`, `"amount": 300.50`, `"description": "groceries"`, `"description": null`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("file missing %s:\n%s", want, data)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}
