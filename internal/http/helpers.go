package http

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"borsa/internal/core"
	"borsa/internal/finance"
	"borsa/internal/i18n"
	applog "borsa/internal/log"
)

// language resolves the display language: session first, then the lang
// cookie set before login, then the configured default.
func (s *Server) language(r *http.Request) string {
	if sess, ok := sessionFrom(r.Context()); ok && i18n.Supported(sess.Language) {
		return sess.Language
	}
	if cookie, err := r.Cookie("lang"); err == nil && i18n.Supported(cookie.Value) {
		return cookie.Value
	}
	return s.defaultLang
}

// render executes a template from the language-specific set.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	lang := s.language(r)
	t, ok := s.templates[lang]
	if !ok {
		t = s.templates["en"]
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "Template execution failed",
			applog.FieldError, err, "template", name)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// writeError maps a backend or validation error to a toast response.
// *finance.APIError keeps its upstream status; validation errors from core
// surface as 422; anything else is a 500 with a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	lang := s.language(r)

	if apiErr, ok := finance.AsAPIError(err); ok {
		message := apiErr.Message
		if apiErr.Status == http.StatusUnauthorized {
			message = i18n.T(lang, "error.unauthorized")
		}
		if message == "" {
			message = i18n.T(lang, "error.generic")
		}
		ErrorResponse(apiErr.Status, message).Write(w)
		return
	}

	if isValidationError(err) {
		ErrorResponse(http.StatusUnprocessableEntity, err.Error()).Write(w)
		return
	}

	applog.FromContext(r.Context()).ErrorContext(r.Context(), "Unexpected handler error", applog.FieldError, err)
	ErrorResponse(http.StatusInternalServerError, i18n.T(lang, "error.generic")).Write(w)
}

func isValidationError(err error) bool {
	for _, target := range []error{
		core.ErrInvalidType,
		core.ErrInvalidAmount,
		core.ErrInvalidDate,
		core.ErrEmptyName,
		core.ErrEmptyCategory,
		core.ErrInvalidCurrency,
		core.ErrEmptyCredentials,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// parseYearMonth extracts year and month from query parameters, defaulting
// to the current month and clamping month into 1..12.
func parseYearMonth(r *http.Request) (year, month int) {
	now := time.Now()
	year = now.Year()
	month = int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			month = m
		}
	}
	if month < 1 || month > 12 {
		month = int(now.Month())
	}
	return year, month
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// formatAmount formats cents as a decimal string with two places ("12.34").
// Currency codes render next to it in the templates.
func formatAmount(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "." + fmt.Sprintf("%02d", cents%100)
	if neg {
		return "-" + s
	}
	return s
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
