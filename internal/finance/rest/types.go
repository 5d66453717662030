package rest

import (
	"github.com/shopspring/decimal"

	"borsa/internal/core"
)

// Wire DTOs mirrored from the backend. Amounts travel as decimal numbers
// and are converted to int64 cents at the boundary.
type (
	userDTO struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}

	walletDTO struct {
		ID       int64           `json:"id"`
		Name     string          `json:"name"`
		Balance  decimal.Decimal `json:"balance"`
		Currency string          `json:"currency"`
		OwnerID  int64           `json:"ownerId"`
	}

	transactionDTO struct {
		ID          int64           `json:"id"`
		Type        string          `json:"type"`
		Category    string          `json:"category"`
		Subcategory string          `json:"subcategory"`
		Amount      decimal.Decimal `json:"amount"`
		Date        string          `json:"date"`
		Description string          `json:"description"`
		WalletID    int64           `json:"walletId"`
	}

	subcategoryDTO struct {
		ID        int64  `json:"id"`
		Name      string `json:"name"`
		IsDefault bool   `json:"isDefault"`
		Hidden    bool   `json:"hidden"`
	}

	categoryDTO struct {
		ID            int64            `json:"id"`
		Name          string           `json:"name"`
		Type          string           `json:"type"`
		IsDefault     bool             `json:"isDefault"`
		Hidden        bool             `json:"hidden"`
		OwnerID       int64            `json:"ownerId"`
		Subcategories []subcategoryDTO `json:"subcategories"`
	}

	draftDTO struct {
		Type        string          `json:"type"`
		Category    string          `json:"category"`
		Subcategory string          `json:"subcategory"`
		Amount      decimal.Decimal `json:"amount"`
		Date        string          `json:"date"`
		Description string          `json:"description"`
		Confidence  float64         `json:"confidence"`
	}

	categoryAmountDTO struct {
		Category string          `json:"category"`
		Amount   decimal.Decimal `json:"amount"`
	}

	reportDTO struct {
		Year       int                 `json:"year"`
		Month      int                 `json:"month"`
		Debits     decimal.Decimal     `json:"debits"`
		Credits    decimal.Decimal     `json:"credits"`
		ByCategory []categoryAmountDTO `json:"byCategory"`
	}

	registerDTO struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	classifyDTO struct {
		Text string `json:"text"`
	}

	importResultDTO struct {
		Imported int `json:"imported"`
	}

	errorDTO struct {
		Message string `json:"message"`
	}
)

func toCents(d decimal.Decimal) int64 {
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func fromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

func (d walletDTO) toCore() core.Wallet {
	return core.Wallet{
		ID:       d.ID,
		Name:     d.Name,
		Balance:  core.Money{Cents: toCents(d.Balance)},
		Currency: d.Currency,
		OwnerID:  d.OwnerID,
	}
}

func (d userDTO) toCore() core.User {
	return core.User{ID: d.ID, Username: d.Username, Email: d.Email}
}

func (d transactionDTO) toCore() (core.Transaction, error) {
	date, err := core.ParseDate(d.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		ID:          d.ID,
		Type:        core.TransactionType(d.Type),
		Category:    d.Category,
		Subcategory: d.Subcategory,
		Amount:      core.Money{Cents: toCents(d.Amount)},
		Date:        date,
		Description: d.Description,
		WalletID:    d.WalletID,
	}, nil
}

func fromCoreTransaction(t core.Transaction) transactionDTO {
	return transactionDTO{
		ID:          t.ID,
		Type:        string(t.Type),
		Category:    t.Category,
		Subcategory: t.Subcategory,
		Amount:      fromCents(t.Amount.Cents),
		Date:        t.Date.String(),
		Description: t.Description,
		WalletID:    t.WalletID,
	}
}

func (d subcategoryDTO) toCore() core.Subcategory {
	return core.Subcategory{ID: d.ID, Name: d.Name, IsDefault: d.IsDefault, Hidden: d.Hidden}
}

func (d categoryDTO) toCore() core.Category {
	subs := make([]core.Subcategory, 0, len(d.Subcategories))
	for _, s := range d.Subcategories {
		subs = append(subs, s.toCore())
	}
	return core.Category{
		ID:            d.ID,
		Name:          d.Name,
		Type:          core.TransactionType(d.Type),
		IsDefault:     d.IsDefault,
		Hidden:        d.Hidden,
		OwnerID:       d.OwnerID,
		Subcategories: subs,
	}
}

func (d draftDTO) toCore() core.Draft {
	date, err := core.ParseDate(d.Date)
	if err != nil {
		// Classifier dates are best-effort; fall back to today.
		now := core.NewDate(timeNow().Year(), int(timeNow().Month()), timeNow().Day())
		date = now
	}
	return core.Draft{
		Type:        core.TransactionType(d.Type),
		Category:    d.Category,
		Subcategory: d.Subcategory,
		Amount:      core.Money{Cents: toCents(d.Amount)},
		Date:        date,
		Description: d.Description,
		Confidence:  d.Confidence,
	}
}

func (d reportDTO) toCore() core.MonthReport {
	byCat := make([]core.CategoryAmount, 0, len(d.ByCategory))
	for _, c := range d.ByCategory {
		byCat = append(byCat, core.CategoryAmount{
			Name:   c.Category,
			Amount: core.Money{Cents: toCents(c.Amount)},
		})
	}
	return core.MonthReport{
		Year:       d.Year,
		Month:      d.Month,
		Debits:     core.Money{Cents: toCents(d.Debits)},
		Credits:    core.Money{Cents: toCents(d.Credits)},
		ByCategory: byCat,
	}
}
