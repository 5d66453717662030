package http

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"borsa/internal/core"
	"borsa/internal/i18n"
	applog "borsa/internal/log"
)

func (s *Server) categoriesCacheKey(ctx context.Context) string {
	sess, _ := sessionFrom(ctx)
	return "categories:" + sess.Username
}

func (s *Server) getCategories(ctx context.Context) ([]core.Category, error) {
	key := s.categoriesCacheKey(ctx)
	if cats, found := s.categoryCache.Get(key); found {
		return cats, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	cats, err := s.backend.ListCategories(cctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	s.categoryCache.Set(key, cats)
	return cats, nil
}

func (s *Server) invalidateCategories(ctx context.Context) {
	s.categoryCache.Delete(s.categoriesCacheKey(ctx))
}

func visibleByType(cats []core.Category, typ core.TransactionType) []core.Category {
	var out []core.Category
	for _, c := range cats {
		if !c.Hidden && c.Type == typ {
			out = append(out, c)
		}
	}
	return out
}

func (s *Server) handleCategoriesPage(w http.ResponseWriter, r *http.Request) {
	categories, err := s.getCategories(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, "categories.html", struct {
		Debit  []core.Category
		Credit []core.Category
	}{
		Debit:  byType(categories, core.Debit),
		Credit: byType(categories, core.Credit),
	})
}

// byType keeps hidden entries so the page can offer restore buttons.
func byType(cats []core.Category, typ core.TransactionType) []core.Category {
	var out []core.Category
	for _, c := range cats {
		if c.Type == typ {
			out = append(out, c)
		}
	}
	return out
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("invalid form").Write(w)
		return
	}
	cat := core.Category{
		Name: sanitizeInput(r.Form.Get("name")),
		Type: core.TransactionType(strings.ToUpper(sanitizeInput(r.Form.Get("type")))),
	}
	if err := cat.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.backend.CreateCategory(r.Context(), cat)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.invalidateCategories(r.Context())

	s.logger.InfoContext(r.Context(), "Category created",
		applog.FieldCategory, created.Name,
		applog.FieldOperation, applog.OpCreate)

	NewHTMXResponse().
		TriggerCategoriesChanged().
		TriggerSuccessNotification(i18n.T(s.language(r), "cat.created")).
		Header("HX-Refresh", "true").
		Write(w)
}

func (s *Server) handleCreateSubcategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathID(r)
	if err != nil {
		BadRequestError("invalid category id").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("invalid form").Write(w)
		return
	}
	name := sanitizeInput(r.Form.Get("name"))
	if name == "" {
		s.writeError(w, r, core.ErrEmptyName)
		return
	}

	if _, err := s.backend.CreateSubcategory(r.Context(), categoryID, name); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.invalidateCategories(r.Context())

	NewHTMXResponse().
		TriggerCategoriesChanged().
		TriggerSuccessNotification(i18n.T(s.language(r), "cat.sub_created")).
		Header("HX-Refresh", "true").
		Write(w)
}

// taxonomyToggle covers the four hide/restore endpoints, which differ only
// in the backend call.
func (s *Server) taxonomyToggle(w http.ResponseWriter, r *http.Request, op func(context.Context, int64) error) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError("invalid id").Write(w)
		return
	}
	if err := op(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.invalidateCategories(r.Context())

	NewHTMXResponse().
		TriggerCategoriesChanged().
		TriggerSuccessNotification(i18n.T(s.language(r), "cat.updated")).
		Header("HX-Refresh", "true").
		Write(w)
}

func (s *Server) handleHideCategory(w http.ResponseWriter, r *http.Request) {
	s.taxonomyToggle(w, r, s.backend.HideCategory)
}

func (s *Server) handleRestoreCategory(w http.ResponseWriter, r *http.Request) {
	s.taxonomyToggle(w, r, s.backend.RestoreCategory)
}

func (s *Server) handleHideSubcategory(w http.ResponseWriter, r *http.Request) {
	s.taxonomyToggle(w, r, s.backend.HideSubcategory)
}

func (s *Server) handleRestoreSubcategory(w http.ResponseWriter, r *http.Request) {
	s.taxonomyToggle(w, r, s.backend.RestoreSubcategory)
}

// handleCategoryOptions renders <option> elements for the searchable
// category dropdown, filtered by transaction type and substring query.
func (s *Server) handleCategoryOptions(w http.ResponseWriter, r *http.Request) {
	categories, err := s.getCategories(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	typ := core.TransactionType(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("type"))))
	if !typ.IsValid() {
		typ = core.Debit
	}
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	for _, c := range visibleByType(categories, typ) {
		if query != "" && !strings.Contains(strings.ToLower(c.Name), query) {
			continue
		}
		name := template.HTMLEscapeString(c.Name)
		fmt.Fprintf(w, `<option value="%s">%s</option>`, name, name)
	}
}

// handleSubcategoryOptions renders the dependent subcategory dropdown for a
// selected category. Hidden subcategories stay out of the list.
func (s *Server) handleSubcategoryOptions(w http.ResponseWriter, r *http.Request) {
	categories, err := s.getCategories(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	selected := strings.TrimSpace(r.URL.Query().Get("category"))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	for _, c := range categories {
		if c.Hidden {
			continue
		}
		if c.Name != selected && strconv.FormatInt(c.ID, 10) != selected {
			continue
		}
		for _, sub := range c.VisibleSubcategories() {
			name := template.HTMLEscapeString(sub.Name)
			fmt.Fprintf(w, `<option value="%s">%s</option>`, name, name)
		}
		s.logger.DebugContext(r.Context(), "Subcategory options rendered",
			applog.FieldCategory, c.Name,
			"count", len(c.VisibleSubcategories()))
		return
	}
	// Unknown category: empty list, the select simply clears.
}
