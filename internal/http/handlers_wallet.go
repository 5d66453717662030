package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"borsa/internal/core"
	"borsa/internal/i18n"
	applog "borsa/internal/log"
)

// walletRow is the template view of a wallet.
type walletRow struct {
	ID       int64
	Name     string
	Balance  string
	Currency string
}

func walletRows(wallets []core.Wallet) []walletRow {
	rows := make([]walletRow, len(wallets))
	for i, w := range wallets {
		rows[i] = walletRow{
			ID:       w.ID,
			Name:     w.Name,
			Balance:  formatAmount(w.Balance.Cents),
			Currency: w.Currency,
		}
	}
	return rows
}

func (s *Server) walletsCacheKey(ctx context.Context) string {
	sess, _ := sessionFrom(ctx)
	return "wallets:" + sess.Username
}

// getWallets reads through the wallet cache. A short timeout keeps slow
// backend calls from hanging page renders.
func (s *Server) getWallets(ctx context.Context) ([]core.Wallet, error) {
	key := s.walletsCacheKey(ctx)
	if wallets, found := s.walletCache.Get(key); found {
		return wallets, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	wallets, err := s.backend.ListWallets(cctx)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	s.walletCache.Set(key, wallets)
	return wallets, nil
}

func (s *Server) invalidateWallets(ctx context.Context) {
	s.walletCache.Delete(s.walletsCacheKey(ctx))
}

func (s *Server) handleWalletsPage(w http.ResponseWriter, r *http.Request) {
	wallets, err := s.getWallets(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, _ := sessionFrom(r.Context())
	s.render(w, r, "wallets.html", struct {
		Username string
		Wallets  []walletRow
	}{sess.Username, walletRows(wallets)})
}

func (s *Server) handleCreateWallet(w http.ResponseWriter, r *http.Request) {
	wallet, err := parseWalletForm(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := wallet.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.backend.CreateWallet(r.Context(), wallet)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.invalidateWallets(r.Context())

	s.logger.InfoContext(r.Context(), "Wallet created",
		applog.FieldWalletID, created.ID,
		applog.FieldOperation, applog.OpCreate)

	NewHTMXResponse().
		TriggerWalletsChanged().
		TriggerFormReset().
		TriggerSuccessNotification(i18n.T(s.language(r), "wallet.created")).
		Header("HX-Redirect", fmt.Sprintf("/wallets/%d", created.ID)).
		Write(w)
}

func (s *Server) handleWalletDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError("invalid wallet id").Write(w)
		return
	}

	wallet, err := s.backend.GetWallet(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	transactions, err := s.backend.ListTransactions(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	categories, err := s.getCategories(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	now := time.Now()
	debitCats := visibleByType(categories, core.Debit)
	data := struct {
		Wallet       walletRow
		Transactions []transactionRow
		DebitCats    []core.Category
		CreditCats   []core.Category
		Subcats      []core.Subcategory
		Today        string
	}{
		Wallet:       walletRows([]core.Wallet{wallet})[0],
		Transactions: transactionRows(transactions),
		DebitCats:    debitCats,
		CreditCats:   visibleByType(categories, core.Credit),
		Today:        now.Format("2006-01-02"),
	}
	if len(debitCats) > 0 {
		data.Subcats = debitCats[0].VisibleSubcategories()
	}
	s.render(w, r, "wallet_detail.html", data)
}

func (s *Server) handleDeleteWallet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError("invalid wallet id").Write(w)
		return
	}
	if err := s.backend.DeleteWallet(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.invalidateWallets(r.Context())

	s.logger.InfoContext(r.Context(), "Wallet deleted",
		applog.FieldWalletID, id,
		applog.FieldOperation, applog.OpDelete)

	NewHTMXResponse().
		TriggerWalletsChanged().
		TriggerSuccessNotification(i18n.T(s.language(r), "wallet.deleted")).
		Header("HX-Redirect", "/wallets").
		Write(w)
}
