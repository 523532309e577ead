// Package category holds the per-user lists of allowed income and expense
// category names.
package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"ledger/internal/core"
	applog "ledger/internal/log"
)

var (
	ErrUnknownCategory = fmt.Errorf("%w: unknown category", core.ErrValidation)
	ErrNoCategories    = errors.New("no categories stored for user")
)

// AccountStore reads and writes the categories kept on a user account.
type AccountStore interface {
	LoadCategories(ctx context.Context, userID string) (core.Categories, error)
	SaveCategories(ctx context.Context, userID string, c core.Categories) error
}

// Registry is the category lists of one user. Lists only grow.
type Registry struct {
	userID string
	store  AccountStore
	cats   core.Categories
}

// Load reads the user's lists from store.
func Load(ctx context.Context, store AccountStore, userID string) (*Registry, error) {
	cats, err := store.LoadCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load categories for %s: %w", userID, err)
	}
	return &Registry{userID: userID, store: store, cats: cats}, nil
}

// List returns a copy of the names allowed for t, in stored order.
func (r *Registry) List(t core.Type) []string {
	return slices.Clone(r.cats.For(t))
}

// All returns a copy of both lists.
func (r *Registry) All() core.Categories {
	return r.cats.Clone()
}

func (r *Registry) Contains(t core.Type, name string) bool {
	return slices.Contains(r.cats.For(t), name)
}

// Validate returns the trimmed name when it is allowed for t.
func (r *Registry) Validate(t core.Type, name string) (string, error) {
	if !t.Valid() {
		return "", core.ErrInvalidType
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", core.ErrEmptyCategory
	}
	if !r.Contains(t, name) {
		return "", fmt.Errorf("%w: %q is not a %s category", ErrUnknownCategory, name, t)
	}
	return name, nil
}

// Add appends name to the list for t and persists. It returns false when the
// name is already present.
func (r *Registry) Add(ctx context.Context, t core.Type, name string) (bool, error) {
	if !t.Valid() {
		return false, core.ErrInvalidType
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return false, core.ErrEmptyCategory
	}
	if r.Contains(t, name) {
		return false, nil
	}

	next := r.cats.Clone()
	switch t {
	case core.Income:
		next.Income = append(next.Income, name)
	case core.Expense:
		next.Expense = append(next.Expense, name)
	}
	if err := r.store.SaveCategories(ctx, r.userID, next); err != nil {
		return false, fmt.Errorf("save categories: %w", err)
	}
	r.cats = next

	slog.InfoContext(ctx, "Category added",
		applog.FieldComponent, applog.ComponentCategory,
		applog.FieldUserID, r.userID,
		applog.FieldType, string(t),
		applog.FieldCategory, name)
	return true, nil
}
