package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

type (
	TransactionType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	User struct {
		ID       int64
		Username string
		Email    string
	}

	Wallet struct {
		ID       int64
		Name     string
		Balance  Money
		Currency string
		OwnerID  int64
	}

	Transaction struct {
		ID          int64
		Type        TransactionType
		Category    string
		Subcategory string
		Amount      Money
		Date        Date
		Description string
		WalletID    int64
	}

	Subcategory struct {
		ID        int64
		Name      string
		IsDefault bool
		Hidden    bool
	}

	Category struct {
		ID            int64
		Name          string
		Type          TransactionType
		IsDefault     bool
		Hidden        bool
		OwnerID       int64
		Subcategories []Subcategory
	}

	// Draft is an unconfirmed transaction produced by the backend classifier,
	// pending user review in the quick-add confirmation form.
	Draft struct {
		Type        TransactionType
		Category    string
		Subcategory string
		Amount      Money
		Date        Date
		Description string
		Confidence  float64
	}
)

var (
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyCategory    = errors.New("empty category")
	ErrInvalidCurrency  = errors.New("invalid currency code")
	ErrEmptyCredentials = errors.New("empty username or password")
)

// IsValid reports whether the type is one of the two wire values.
func (t TransactionType) IsValid() bool {
	return t == Debit || t == Credit
}

// Sign returns -1 for debits and +1 for credits.
func (t TransactionType) Sign() int64 {
	if t == Debit {
		return -1
	}
	return 1
}

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a wire date in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String renders the wire format (YYYY-MM-DD).
func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) Day() int { return d.Time.Day() }

func (d Date) Month() int { return int(d.Time.Month()) }

func (d Date) Year() int { return d.Time.Year() }

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Signed returns the amount with the sign implied by the transaction type.
// Used for local balance adjustments after optimistic list edits.
func (t Transaction) Signed() Money {
	return Money{Cents: t.Type.Sign() * t.Amount.Cents}
}

func (t Transaction) Validate() error {
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (w Wallet) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return ErrEmptyName
	}
	if len(w.Name) > 100 {
		return errors.New("name too long (max 100 characters)")
	}
	if len(w.Currency) != 3 {
		return ErrInvalidCurrency
	}
	for _, r := range w.Currency {
		if r < 'A' || r > 'Z' {
			return ErrInvalidCurrency
		}
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Type.IsValid() {
		return ErrInvalidType
	}
	return nil
}

// VisibleSubcategories filters out hidden entries for selection lists.
func (c Category) VisibleSubcategories() []Subcategory {
	out := make([]Subcategory, 0, len(c.Subcategories))
	for _, s := range c.Subcategories {
		if !s.Hidden {
			out = append(out, s)
		}
	}
	return out
}
