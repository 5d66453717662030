package http

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

// appMetrics holds process counters exposed on /metrics in the Prometheus
// text exposition format.
type appMetrics struct {
	requestsTotal       atomic.Int64
	requestErrors       atomic.Int64
	transactionsCreated atomic.Int64
	transactionsDeleted atomic.Int64
	rowsImported        atomic.Int64
	draftsClassified    atomic.Int64
}

func (m *appMetrics) requestServed(statusCode int) {
	m.requestsTotal.Add(1)
	if statusCode >= 500 {
		m.requestErrors.Add(1)
	}
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	m := s.metrics
	fmt.Fprintf(w, "# TYPE borsa_http_requests_total counter\nborsa_http_requests_total %d\n", m.requestsTotal.Load())
	fmt.Fprintf(w, "# TYPE borsa_http_request_errors_total counter\nborsa_http_request_errors_total %d\n", m.requestErrors.Load())
	fmt.Fprintf(w, "# TYPE borsa_transactions_created_total counter\nborsa_transactions_created_total %d\n", m.transactionsCreated.Load())
	fmt.Fprintf(w, "# TYPE borsa_transactions_deleted_total counter\nborsa_transactions_deleted_total %d\n", m.transactionsDeleted.Load())
	fmt.Fprintf(w, "# TYPE borsa_csv_rows_imported_total counter\nborsa_csv_rows_imported_total %d\n", m.rowsImported.Load())
	fmt.Fprintf(w, "# TYPE borsa_drafts_classified_total counter\nborsa_drafts_classified_total %d\n", m.draftsClassified.Load())
}
