package http

import (
	"fmt"
	"net/http"

	"borsa/internal/core"
	applog "borsa/internal/log"
)

// handleQuickAdd sends the free-text entry to the backend classifier and
// renders the resulting draft as a confirmation form. Nothing is saved yet.
func (s *Server) handleQuickAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("invalid form").Write(w)
		return
	}
	text := sanitizeInput(r.Form.Get("text"))
	if text == "" {
		BadRequestError("empty text").Write(w)
		return
	}

	draft, err := s.backend.Classify(r.Context(), text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.draftsClassified.Add(1)

	s.logger.InfoContext(r.Context(), "Draft classified",
		applog.FieldCategory, draft.Category,
		applog.FieldAmount, draft.Amount.Cents,
		"confidence", draft.Confidence,
		applog.FieldOperation, applog.OpClassify)

	wallets, err := s.getWallets(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	categories, err := s.getCategories(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// The confirmation form shows only categories matching the draft's
	// type; switching type in the UI reloads the dropdowns.
	cats := visibleByType(categories, draft.Type)
	var subcats []core.Subcategory
	for _, c := range cats {
		if c.Name == draft.Category {
			subcats = c.VisibleSubcategories()
			break
		}
	}

	s.render(w, r, "quickadd_draft.html", struct {
		Draft      draftView
		Wallets    []walletRow
		Categories []core.Category
		Subcats    []core.Subcategory
	}{
		Draft:      newDraftView(draft),
		Wallets:    walletRows(wallets),
		Categories: cats,
		Subcats:    subcats,
	})
}

type draftView struct {
	Type        string
	IsDebit     bool
	Category    string
	Subcategory string
	Amount      string
	Date        string
	Description string
	Confidence  string
}

func newDraftView(d core.Draft) draftView {
	return draftView{
		Type:        string(d.Type),
		IsDebit:     d.Type == core.Debit,
		Category:    d.Category,
		Subcategory: d.Subcategory,
		Amount:      formatAmount(d.Amount.Cents),
		Date:        d.Date.String(),
		Description: d.Description,
		Confidence:  fmt.Sprintf("%.0f%%", d.Confidence*100),
	}
}

// handleQuickAddConfirm persists the reviewed draft as a transaction.
func (s *Server) handleQuickAddConfirm(w http.ResponseWriter, r *http.Request) {
	s.handleCreateTransaction(w, r)
}
