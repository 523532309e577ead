package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"ledger/internal/core"
	"ledger/internal/sheets"
)

// Store keeps written tabs in memory. It stands in for a spreadsheet when no
// Google credentials are configured.
type Store struct {
	mu   sync.Mutex
	tabs map[string][]core.Record
}

var (
	_ sheets.RecordWriter = (*Store)(nil)
	_ sheets.RecordReader = (*Store)(nil)
)

func New() *Store {
	return &Store{tabs: make(map[string][]core.Record)}
}

// WriteRecords replaces the tab and returns a synthetic range reference.
func (s *Store) WriteRecords(_ context.Context, sheet string, records []core.Record) (string, error) {
	if sheet == "" {
		return "", fmt.Errorf("sheet name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tabs[sheet] = slices.Clone(records)
	return fmt.Sprintf("mem:%s!A1:F%d", sheet, len(records)+1), nil
}

func (s *Store) ReadRecords(_ context.Context, sheet string) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, ok := s.tabs[sheet]
	if !ok {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}
	return slices.Clone(recs), nil
}

// Sheets lists the written tab names in order.
func (s *Store) Sheets() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.tabs))
	for name := range s.tabs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
