package google

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"ledger/internal/core"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{ServiceAccountJSON: "{}"})
	if err == nil {
		t.Fatal("expected error for missing spreadsheet id")
	}
	if err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{SpreadsheetID: "test-id"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("expected missing credentials error, got: %v", err)
	}
}

func TestServiceAccountCredentials_Precedence(t *testing.T) {
	got, err := serviceAccountCredentials(Config{
		ServiceAccountJSON:     `{"inline":true}`,
		ServiceAccountFile:     "/does/not/exist.json",
		ApplicationCredentials: "/also/missing.json",
	})
	if err != nil || string(got) != `{"inline":true}` {
		t.Fatalf("inline JSON should win: %s, %v", got, err)
	}

	if _, err := serviceAccountCredentials(Config{ApplicationCredentials: "/also/missing.json"}); err == nil ||
		!strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("expected fallback to application credentials file, got %v", err)
	}
}

func TestClient_NilService(t *testing.T) {
	c := &Client{spreadsheetID: "test"}
	if _, err := c.WriteRecords(context.Background(), "Ledger", nil); err == nil {
		t.Error("expected error with nil service")
	}
	if _, err := c.ReadRecords(context.Background(), "Ledger"); err == nil {
		t.Error("expected error with nil service")
	}
}

func TestRecordRowsRoundTrip(t *testing.T) {
	desc := "weekly shop"
	records := []core.Record{
		{ID: "A", Type: "income", Amount: json.Number("1000.00"), Category: "Salary", Date: "2024-01-05"},
		{ID: "B", Type: "expense", Amount: json.Number("300.50"), Category: "Food", Date: "2024-01-10", Description: &desc},
	}
	rows := recordRows(records)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if !reflect.DeepEqual(rows[0], []any{"id", "type", "amount", "category", "date", "description"}) {
		t.Errorf("header = %v", rows[0])
	}

	got, err := parseRecordRows(rows)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, records) {
		t.Errorf("parseRecordRows = %+v, want %+v", got, records)
	}
}

func TestParseRecordRows(t *testing.T) {
	values := [][]any{
		{"Date", "ID", "Type", "Category", "Amount"},
		{"2024-02-01", "C", "expense", "Rent", 200.0},
		{"", "", "", "", ""},
		{"2024-02-14", "D", "expense", "Food", "50,5"},
	}
	got, err := parseRecordRows(values)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Amount != "200.00" || got[1].Amount != "50.50" || got[1].Description != nil {
		t.Fatalf("parseRecordRows = %+v", got)
	}

	if _, err := parseRecordRows([][]any{{"id", "type"}}); err == nil || !strings.Contains(err.Error(), "unexpected header") {
		t.Errorf("expected header error, got %v", err)
	}
	_, err = parseRecordRows([][]any{{"id", "type", "amount", "category", "date"}, {"X", "income", "lots", "Other", "2024-01-01"}})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestQuoteSheet(t *testing.T) {
	if got := quoteSheet("Ann's ledger"); got != "'Ann''s ledger'" {
		t.Errorf("quoteSheet = %s", got)
	}
}
