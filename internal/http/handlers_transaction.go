package http

import (
	"fmt"
	"net/http"

	"borsa/internal/core"
	"borsa/internal/i18n"
	applog "borsa/internal/log"
)

type transactionRow struct {
	ID          int64
	Type        string
	Category    string
	Subcategory string
	Amount      string
	Signed      string
	Date        string
	Description string
	WalletID    int64
	IsDebit     bool
}

func transactionRows(items []core.Transaction) []transactionRow {
	rows := make([]transactionRow, len(items))
	for i, t := range items {
		rows[i] = transactionRow{
			ID:          t.ID,
			Type:        string(t.Type),
			Category:    t.Category,
			Subcategory: t.Subcategory,
			Amount:      formatAmount(t.Amount.Cents),
			Signed:      formatAmount(t.Signed().Cents),
			Date:        t.Date.String(),
			Description: t.Description,
			WalletID:    t.WalletID,
			IsDebit:     t.Type == core.Debit,
		}
	}
	return rows
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := parseTransactionForm(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	// Validate locally before the backend round trip.
	if err := tx.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.backend.CreateTransaction(r.Context(), tx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.transactionsCreated.Add(1)
	s.invalidateWallets(r.Context())
	s.invalidateReports(r.Context())

	s.logger.InfoContext(r.Context(), "Transaction created",
		applog.FieldWalletID, created.WalletID,
		applog.FieldCategory, created.Category,
		applog.FieldAmount, created.Amount.Cents,
		applog.FieldOperation, applog.OpCreate)

	NewHTMXResponse().
		TriggerTransactionsChanged(created.WalletID).
		TriggerFormReset().
		TriggerSuccessNotification(i18n.T(s.language(r), "tx.created")).
		Header("HX-Refresh", "true").
		Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError("invalid transaction id").Write(w)
		return
	}
	if err := s.backend.DeleteTransaction(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.transactionsDeleted.Add(1)
	s.invalidateWallets(r.Context())
	s.invalidateReports(r.Context())

	s.logger.InfoContext(r.Context(), "Transaction deleted",
		"transaction_id", id,
		applog.FieldOperation, applog.OpDelete)

	NewHTMXResponse().
		TriggerSuccessNotification(i18n.T(s.language(r), "tx.deleted")).
		Header("HX-Refresh", "true").
		Write(w)
}

// handleImportCSV streams the uploaded file to the backend import endpoint.
// Parsing happens server-side; only the row count comes back.
func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	walletID, err := pathID(r)
	if err != nil {
		BadRequestError("invalid wallet id").Write(w)
		return
	}

	// 5 MB is plenty for a bank export.
	if err := r.ParseMultipartForm(5 << 20); err != nil {
		BadRequestError("invalid upload").Write(w)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		BadRequestError("missing file").Write(w)
		return
	}
	defer file.Close()

	imported, err := s.backend.ImportCSV(r.Context(), walletID, header.Filename, file)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.rowsImported.Add(int64(imported))
	s.invalidateWallets(r.Context())
	s.invalidateReports(r.Context())

	s.logger.InfoContext(r.Context(), "CSV imported",
		applog.FieldWalletID, walletID,
		"filename", header.Filename,
		"imported", imported,
		applog.FieldOperation, applog.OpImport)

	message := fmt.Sprintf("%d %s", imported, i18n.T(s.language(r), "import.done"))
	NewHTMXResponse().
		TriggerTransactionsChanged(walletID).
		TriggerSuccessNotification(message).
		Header("HX-Refresh", "true").
		Write(w)
}

// handleRecentTransactions renders the dashboard's recent-activity partial.
func (s *Server) handleRecentTransactions(w http.ResponseWriter, r *http.Request) {
	items, err := s.backend.ListRecent(r.Context(), 10)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, "recent_transactions.html", struct {
		Transactions []transactionRow
	}{transactionRows(items)})
}
