package category

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"ledger/internal/core"
)

type memAccounts struct {
	cats    map[string]core.Categories
	saveErr error
}

func (m *memAccounts) LoadCategories(_ context.Context, userID string) (core.Categories, error) {
	c, ok := m.cats[userID]
	if !ok {
		return core.Categories{}, ErrNoCategories
	}
	return c.Clone(), nil
}

func (m *memAccounts) SaveCategories(_ context.Context, userID string, c core.Categories) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.cats[userID] = c.Clone()
	return nil
}

func newRegistry(t *testing.T) (*Registry, *memAccounts) {
	t.Helper()
	store := &memAccounts{cats: map[string]core.Categories{"u001": core.DefaultCategories()}}
	r, err := Load(context.Background(), store, "u001")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return r, store
}

func TestLoadMissingUser(t *testing.T) {
	store := &memAccounts{cats: map[string]core.Categories{}}
	if _, err := Load(context.Background(), store, "u404"); !errors.Is(err, ErrNoCategories) {
		t.Fatalf("expected ErrNoCategories, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	r, _ := newRegistry(t)
	tests := []struct {
		name    string
		typ     core.Type
		in      string
		want    string
		wantErr error
	}{
		{"known expense", core.Expense, "Food", "Food", nil},
		{"trimmed", core.Income, "  Salary ", "Salary", nil},
		{"wrong list", core.Income, "Food", "", ErrUnknownCategory},
		{"empty", core.Expense, "   ", "", core.ErrEmptyCategory},
		{"bad type", core.Type("gift"), "Food", "", core.ErrInvalidType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Validate(tt.typ, tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || !errors.Is(err, core.ErrValidation) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("Validate = %q, %v", got, err)
			}
		})
	}
}

func TestAdd(t *testing.T) {
	ctx := context.Background()
	r, store := newRegistry(t)

	ok, err := r.Add(ctx, core.Expense, "Pets")
	if err != nil || !ok {
		t.Fatalf("Add = %v, %v", ok, err)
	}
	if !r.Contains(core.Expense, "Pets") || r.Contains(core.Income, "Pets") {
		t.Fatalf("Pets should only be an expense category")
	}
	stored := store.cats["u001"].Expense
	if stored[len(stored)-1] != "Pets" {
		t.Fatalf("Pets not appended to the stored list: %v", stored)
	}

	ok, err = r.Add(ctx, core.Expense, "Pets")
	if ok || err != nil {
		t.Fatalf("duplicate Add = %v, %v", ok, err)
	}
}

func TestAddSaveFailure(t *testing.T) {
	r, store := newRegistry(t)
	store.saveErr = errors.New("read-only")
	before := r.All()
	if ok, err := r.Add(context.Background(), core.Income, "Gifts"); ok || err == nil {
		t.Fatalf("Add = %v, %v", ok, err)
	}
	if !reflect.DeepEqual(r.All(), before) {
		t.Fatalf("failed Add changed the registry")
	}
}

func TestListIsACopy(t *testing.T) {
	r, _ := newRegistry(t)
	l := r.List(core.Income)
	l[0] = "Changed"
	if r.List(core.Income)[0] != "Salary" {
		t.Fatal("List exposed internal state")
	}
}
