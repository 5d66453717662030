package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"borsa/internal/core"
)

// parseWalletForm builds a wallet from the create-wallet form. Validation
// happens in core; this only shapes the input.
func parseWalletForm(r *http.Request) (core.Wallet, error) {
	if err := r.ParseForm(); err != nil {
		return core.Wallet{}, err
	}
	w := core.Wallet{
		Name:     sanitizeInput(r.Form.Get("name")),
		Currency: strings.ToUpper(sanitizeInput(r.Form.Get("currency"))),
	}
	if v := strings.TrimSpace(r.Form.Get("balance")); v != "" {
		cents, err := core.ParseDecimalToCents(v)
		if err != nil {
			return core.Wallet{}, err
		}
		w.Balance = core.Money{Cents: cents}
	}
	return w, nil
}

// parseTransactionForm builds a transaction from the add-transaction and
// quick-add confirmation forms. Missing date defaults to today.
func parseTransactionForm(r *http.Request) (core.Transaction, error) {
	if err := r.ParseForm(); err != nil {
		return core.Transaction{}, err
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(r.Form.Get("amount")))
	if err != nil {
		return core.Transaction{}, err
	}

	date, err := parseDateOrToday(r.Form.Get("date"))
	if err != nil {
		return core.Transaction{}, err
	}

	walletID, _ := strconv.ParseInt(strings.TrimSpace(r.Form.Get("wallet_id")), 10, 64)

	return core.Transaction{
		Type:        core.TransactionType(strings.ToUpper(sanitizeInput(r.Form.Get("type")))),
		Category:    sanitizeInput(r.Form.Get("category")),
		Subcategory: sanitizeInput(r.Form.Get("subcategory")),
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Description: sanitizeInput(r.Form.Get("description")),
		WalletID:    walletID,
	}, nil
}

func parseDateOrToday(raw string) (core.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		now := time.Now()
		return core.NewDate(now.Year(), int(now.Month()), now.Day()), nil
	}
	return core.ParseDate(raw)
}
