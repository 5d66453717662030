package core

import (
	"errors"
	"testing"
)

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		Type:        Debit,
		Category:    "Food",
		Subcategory: "Groceries",
		Amount:      Money{Cents: 1250},
		Date:        NewDate(2025, 3, 14),
		Description: "weekly shop",
		WalletID:    1,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Transaction)
		want   error
	}{
		{"bad type", func(tx *Transaction) { tx.Type = "TRANSFER" }, ErrInvalidType},
		{"zero amount", func(tx *Transaction) { tx.Amount.Cents = 0 }, ErrInvalidAmount},
		{"negative amount", func(tx *Transaction) { tx.Amount.Cents = -100 }, ErrInvalidAmount},
		{"zero date", func(tx *Transaction) { tx.Date = Date{} }, ErrInvalidDate},
		{"empty category", func(tx *Transaction) { tx.Category = "  " }, ErrEmptyCategory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := valid
			tc.mutate(&tx)
			if err := tx.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestTransactionSigned(t *testing.T) {
	debit := Transaction{Type: Debit, Amount: Money{Cents: 500}}
	if got := debit.Signed().Cents; got != -500 {
		t.Fatalf("debit signed = %d, want -500", got)
	}
	credit := Transaction{Type: Credit, Amount: Money{Cents: 500}}
	if got := credit.Signed().Cents; got != 500 {
		t.Fatalf("credit signed = %d, want 500", got)
	}
}

func TestWalletValidate(t *testing.T) {
	w := Wallet{Name: "Everyday", Currency: "EUR"}
	if err := w.Validate(); err != nil {
		t.Fatalf("valid wallet rejected: %v", err)
	}
	cases := []struct {
		name string
		w    Wallet
	}{
		{"empty name", Wallet{Name: "", Currency: "EUR"}},
		{"short currency", Wallet{Name: "x", Currency: "EU"}},
		{"lowercase currency", Wallet{Name: "x", Currency: "eur"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.w.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-08-03")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Year() != 2025 || d.Month() != 8 || d.Day() != 3 {
		t.Fatalf("unexpected parts: %d-%d-%d", d.Year(), d.Month(), d.Day())
	}
	if d.String() != "2025-08-03" {
		t.Fatalf("round trip = %q", d.String())
	}
	if _, err := ParseDate("03/08/2025"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestVisibleSubcategories(t *testing.T) {
	c := Category{
		Name: "Food",
		Type: Debit,
		Subcategories: []Subcategory{
			{Name: "Groceries"},
			{Name: "Old", Hidden: true},
			{Name: "Restaurants"},
		},
	}
	vis := c.VisibleSubcategories()
	if len(vis) != 2 {
		t.Fatalf("visible = %d, want 2", len(vis))
	}
	for _, s := range vis {
		if s.Hidden {
			t.Fatalf("hidden subcategory %q leaked into visible list", s.Name)
		}
	}
}
