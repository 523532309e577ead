// Package account keeps user credentials and per-user categories in a single
// users.json file.
package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"ledger/internal/category"
	"ledger/internal/core"
	applog "ledger/internal/log"
	"ledger/internal/storage"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCorruptUsers       = errors.New("users file is not valid JSON")
	ErrEmptyUsername      = fmt.Errorf("%w: username cannot be empty", core.ErrValidation)
	ErrEmptyPassword      = fmt.Errorf("%w: password cannot be empty", core.ErrValidation)
)

// User is one entry of the users file, keyed by its id.
type User struct {
	Username   string          `json:"username"`
	Password   string          `json:"password"`
	CreatedAt  time.Time       `json:"created_at"`
	Categories core.Categories `json:"categories"`
}

// Store is the users file. It is not safe for concurrent use across processes.
type Store struct {
	path string
	cost int
	now  func() time.Time
}

type Option func(*Store)

// WithBcryptCost overrides bcrypt.DefaultCost.
func WithBcryptCost(cost int) Option {
	return func(s *Store) { s.cost = cost }
}

func NewStore(path string, opts ...Option) *Store {
	s := &Store{path: path, cost: bcrypt.DefaultCost, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ category.AccountStore = (*Store)(nil)

// Signup creates a user with the default categories and returns its id.
func (s *Store) Signup(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", ErrEmptyUsername
	}
	if password == "" {
		return "", ErrEmptyPassword
	}

	users, err := s.load()
	if err != nil {
		return "", err
	}
	for _, u := range users {
		if u.Username == username {
			return "", fmt.Errorf("%w: %s", ErrUserExists, username)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	id := nextID(users)
	users[id] = User{
		Username:   username,
		Password:   string(hash),
		CreatedAt:  s.now().UTC(),
		Categories: core.DefaultCategories(),
	}
	if err := s.save(users); err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "User registered",
		applog.NewFields().WithComponent(applog.ComponentAccount).WithOperation(applog.OpSignup).
			WithUser(id).ToSlice()...)
	return id, nil
}

// Login returns the id of the user matching username and password.
func (s *Store) Login(ctx context.Context, username, password string) (string, error) {
	users, err := s.load()
	if err != nil {
		return "", err
	}
	username = strings.TrimSpace(username)
	for id, u := range users {
		if u.Username != username {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
			break
		}
		slog.DebugContext(ctx, "User logged in",
			applog.FieldComponent, applog.ComponentAccount, applog.FieldUserID, id)
		return id, nil
	}
	slog.WarnContext(ctx, "Login rejected",
		applog.FieldComponent, applog.ComponentAccount, applog.FieldUsername, username)
	return "", ErrInvalidCredentials
}

// Exists reports whether id names a registered user.
func (s *Store) Exists(id string) (bool, error) {
	users, err := s.load()
	if err != nil {
		return false, err
	}
	_, ok := users[id]
	return ok, nil
}

// IDs returns every registered user id in ascending order.
func (s *Store) IDs() ([]string, error) {
	users, err := s.load()
	if err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(users)), nil
}

// LoadCategories returns the categories stored for userID.
func (s *Store) LoadCategories(_ context.Context, userID string) (core.Categories, error) {
	users, err := s.load()
	if err != nil {
		return core.Categories{}, err
	}
	u, ok := users[userID]
	if !ok {
		return core.Categories{}, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	if u.Categories.Income == nil && u.Categories.Expense == nil {
		return core.Categories{}, fmt.Errorf("%w: %s", category.ErrNoCategories, userID)
	}
	return u.Categories, nil
}

// SaveCategories replaces the categories of userID.
func (s *Store) SaveCategories(_ context.Context, userID string, c core.Categories) error {
	users, err := s.load()
	if err != nil {
		return err
	}
	u, ok := users[userID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	u.Categories = c.Clone()
	users[userID] = u
	return s.save(users)
}

func (s *Store) load() (map[string]User, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]User{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}
	users := map[string]User{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return users, nil
	}
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptUsers, s.path, err)
	}
	return users, nil
}

func (s *Store) save(users map[string]User) error {
	if err := storage.WriteJSON(s.path, users); err != nil {
		return fmt.Errorf("write users file: %w", err)
	}
	return nil
}

// nextID continues the u001, u002, ... sequence after the highest existing id.
func nextID(users map[string]User) string {
	highest := 0
	for id := range users {
		if !strings.HasPrefix(id, "u") {
			continue
		}
		if n, err := strconv.Atoi(id[1:]); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("u%03d", highest+1)
}
