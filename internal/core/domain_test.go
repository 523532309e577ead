package core

import (
	"errors"
	"testing"
	"time"
)

func TestDateFromText(t *testing.T) {
	cases := []struct {
		in   string
		want Date
	}{
		{"2024-01-05", "2024-01-05"},
		{"  2024-01-05  ", "2024-01-05"},
		{"2024-01-05T10:30:00", "2024-01-05"},
		{"2024-1-5", "2024-1-5"}, // not validated
		{"", ""},
	}
	for _, tc := range cases {
		if got := DateFromText(tc.in); got != tc.want {
			t.Fatalf("DateFromText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDateFromTime(t *testing.T) {
	d := DateFromTime(time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC))
	if d != "2024-02-29" {
		t.Fatalf("got %q", d)
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-01-05", true},
		{" 2024-12-31 ", true},
		{"2024-02-30", false},
		{"2024/01/05", false},
		{"05-01-2024", false},
		{"", false},
	}
	for _, tc := range cases {
		_, err := ParseDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("%q expected ok, got %v", tc.in, err)
		}
		if !tc.ok && !errors.Is(err, ErrValidation) {
			t.Fatalf("%q expected validation error, got %v", tc.in, err)
		}
	}
}

func TestParseMonth(t *testing.T) {
	if m, err := ParseMonth("2024-02"); err != nil || m != "2024-02" {
		t.Fatalf("expected ok, got %q %v", m, err)
	}
	for _, bad := range []string{"2024-13", "2024", "2024-02-01", "feb"} {
		if _, err := ParseMonth(bad); !errors.Is(err, ErrInvalidMonth) {
			t.Fatalf("%q expected ErrInvalidMonth, got %v", bad, err)
		}
	}
}

func TestParseType(t *testing.T) {
	if typ, err := ParseType(" Income "); err != nil || typ != Income {
		t.Fatalf("expected income, got %q %v", typ, err)
	}
	if _, err := ParseType("transfer"); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestNewTransaction(t *testing.T) {
	a := NewTransaction(Expense, Money{Cents: 100}, "Food", "2024-01-01")
	b := NewTransaction(Expense, Money{Cents: 100}, "Food", "2024-01-01")
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct generated ids, got %q and %q", a.ID, b.ID)
	}
	if a.Description != nil {
		t.Fatalf("expected absent description")
	}

	c := NewTransaction(Income, Money{Cents: 100}, "Salary", "2024-01-01", WithID("fixed"), WithDescription("pay"))
	if c.ID != "fixed" || c.Desc() != "pay" {
		t.Fatalf("options not applied: %+v", c)
	}

	d := NewTransaction(Income, Money{Cents: 100}, "Salary", "2024-01-01", WithID("  "), WithDescription(""))
	if d.ID == "" || d.Description != nil {
		t.Fatalf("blank options should be ignored: %+v", d)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := NewTransaction(Expense, Money{Cents: 100}, "Food", "2025-01-01")
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		txn  Transaction
		want error
	}{
		{Transaction{Type: "gift", Amount: Money{Cents: 1}, Category: "c", Date: "2025-01-01"}, ErrInvalidType},
		{Transaction{Type: Expense, Amount: Money{Cents: 0}, Category: "c", Date: "2025-01-01"}, ErrInvalidAmount},
		{Transaction{Type: Expense, Amount: Money{Cents: -5}, Category: "c", Date: "2025-01-01"}, ErrInvalidAmount},
		{Transaction{Type: Expense, Amount: Money{Cents: 1}, Category: " ", Date: "2025-01-01"}, ErrEmptyCategory},
		{Transaction{Type: Expense, Amount: Money{Cents: 1}, Category: "c", Date: "2025-1-1"}, ErrInvalidDate},
	}
	for i, tc := range bads {
		err := tc.txn.Validate()
		if !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d expected a validation error, got %v", i, err)
		}
	}
}

func TestSigned(t *testing.T) {
	in := Transaction{Type: Income, Amount: Money{Cents: 250}}
	out := Transaction{Type: Expense, Amount: Money{Cents: 250}}
	if in.Signed().Cents != 250 || out.Signed().Cents != -250 {
		t.Fatalf("unexpected signs: %v %v", in.Signed(), out.Signed())
	}
}

func TestRankCategories(t *testing.T) {
	got := RankCategories(map[string]Money{
		"Rent":  {Cents: 200},
		"Food":  {Cents: 300},
		"Bills": {Cents: 200},
	})
	want := []string{"Food", "Bills", "Rent"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("position %d: got %q, want %q", i, got[i].Name, name)
		}
	}
}
