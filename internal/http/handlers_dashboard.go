package http

import (
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"borsa/internal/core"
)

// handleDashboard fans out the three reads the landing page needs and fails
// as a unit if any of them errors.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var (
		wallets []core.Wallet
		recent  []core.Transaction
		report  core.MonthReport
	)

	now := time.Now()
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		wallets, err = s.getWallets(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.backend.ListRecent(ctx, 10)
		return err
	})
	g.Go(func() error {
		var err error
		report, err = s.getMonthReport(ctx, now.Year(), int(now.Month()))
		return err
	})
	if err := g.Wait(); err != nil {
		s.writeError(w, r, err)
		return
	}

	var total int64
	for _, wallet := range wallets {
		total += wallet.Balance.Cents
	}

	sess, _ := sessionFrom(r.Context())
	s.render(w, r, "dashboard.html", struct {
		Username     string
		Wallets      []walletRow
		TotalBalance string
		Transactions []transactionRow
		Year         int
		Month        int
		Debits       string
		Credits      string
		Net          string
	}{
		Username:     sess.Username,
		Wallets:      walletRows(wallets),
		TotalBalance: formatAmount(total),
		Transactions: transactionRows(recent),
		Year:         report.Year,
		Month:        report.Month,
		Debits:       formatAmount(report.Debits.Cents),
		Credits:      formatAmount(report.Credits.Cents),
		Net:          formatAmount(report.Net().Cents),
	})
}
