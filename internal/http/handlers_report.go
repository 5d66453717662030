package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"borsa/internal/core"
	applog "borsa/internal/log"
)

func (s *Server) reportCacheKey(ctx context.Context, year, month int) string {
	sess, _ := sessionFrom(ctx)
	return fmt.Sprintf("report:%s:%04d-%02d", sess.Username, year, month)
}

func (s *Server) getMonthReport(ctx context.Context, year, month int) (core.MonthReport, error) {
	key := s.reportCacheKey(ctx, year, month)
	if report, found := s.reportCache.Get(key); found {
		return report, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	report, err := s.backend.ReadMonthReport(cctx, year, month)
	if err != nil {
		return core.MonthReport{}, fmt.Errorf("read month report (year=%d, month=%d): %w", year, month, err)
	}
	s.reportCache.Set(key, report)
	return report, nil
}

// invalidateReports drops every cached month for the user; a new transaction
// can land in any month.
func (s *Server) invalidateReports(ctx context.Context) {
	sess, _ := sessionFrom(ctx)
	s.reportCache.DeletePrefix("report:" + sess.Username + ":")
}

func (s *Server) handleReportsPage(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)
	s.render(w, r, "reports.html", struct {
		Year  int
		Month int
	}{year, month})
}

type reportView struct {
	Year       int
	Month      int
	Debits     string
	Credits    string
	Net        string
	Empty      bool
	ByCategory []categoryAmountRow
}

type categoryAmountRow struct {
	Name   string
	Amount string
	Width  int
}

func newReportView(report core.MonthReport) reportView {
	view := reportView{
		Year:    report.Year,
		Month:   report.Month,
		Debits:  formatAmount(report.Debits.Cents),
		Credits: formatAmount(report.Credits.Cents),
		Net:     formatAmount(report.Net().Cents),
		Empty:   report.Debits.Cents == 0 && report.Credits.Cents == 0,
	}

	var maxCents int64
	for _, cat := range report.ByCategory {
		if cat.Amount.Cents > maxCents {
			maxCents = cat.Amount.Cents
		}
	}
	for _, cat := range report.ByCategory {
		width := 0
		if maxCents > 0 && cat.Amount.Cents > 0 {
			width = int((cat.Amount.Cents*100 + maxCents/2) / maxCents)
			if width < 2 {
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		view.ByCategory = append(view.ByCategory, categoryAmountRow{
			Name:   cat.Name,
			Amount: formatAmount(cat.Amount.Cents),
			Width:  width,
		})
	}
	return view
}

// handleReportPartial renders the report body for the selected month.
func (s *Server) handleReportPartial(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)
	report, err := s.getMonthReport(r.Context(), year, month)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, "report_body.html", newReportView(report))
}

func (s *Server) handleCategoryChart(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, s.charts.CategoryPie)
}

func (s *Server) handleTotalsChart(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, s.charts.DebitCreditBars)
}

func (s *Server) serveChart(w http.ResponseWriter, r *http.Request, render func(core.MonthReport) ([]byte, error)) {
	year, month := parseYearMonth(r)
	report, err := s.getMonthReport(r.Context(), year, month)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	png, err := render(report)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Chart render failed",
			applog.FieldError, err,
			applog.FieldYear, year,
			applog.FieldMonth, month,
			applog.FieldOperation, applog.OpRender)
		http.Error(w, "chart error", http.StatusInternalServerError)
		return
	}
	if png == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}
