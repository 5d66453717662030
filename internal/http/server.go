package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"borsa/internal/cache"
	"borsa/internal/charts"
	"borsa/internal/core"
	"borsa/internal/finance"
	"borsa/internal/i18n"
	applog "borsa/internal/log"
	"borsa/internal/session"
	appweb "borsa/web"
)

// Options configures a Server. Zero values fall back to sensible defaults.
type Options struct {
	Addr               string
	Backend            finance.Backend
	Sessions           session.Store
	Logger             *applog.Logger
	SessionTTL         time.Duration
	CacheTTL           time.Duration
	CacheMaxSize       int
	RateLimitPerMinute int
	DefaultLanguage    string
}

type Server struct {
	http.Server

	backend  finance.Backend
	sessions session.Store
	charts   *charts.Renderer
	logger   *applog.Logger

	// One parsed template set per language so {{t}} resolves at parse time.
	templates map[string]*template.Template

	rateLimiter *rateLimiter
	metrics     *appMetrics

	walletCache   *cache.TTLCache[[]core.Wallet]
	categoryCache *cache.TTLCache[[]core.Category]
	reportCache   *cache.TTLCache[core.MonthReport]
	janitor       *cache.Janitor

	sessionTTL  time.Duration
	defaultLang string

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(opts Options) (*Server, error) {
	if opts.Backend == nil {
		return nil, fmt.Errorf("backend is required")
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig())
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 12 * time.Hour
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Second
	}
	if opts.CacheMaxSize <= 0 {
		opts.CacheMaxSize = 256
	}
	if opts.RateLimitPerMinute <= 0 {
		opts.RateLimitPerMinute = 60
	}
	if opts.DefaultLanguage == "" || !i18n.Supported(opts.DefaultLanguage) {
		opts.DefaultLanguage = "en"
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:    opts.Addr,
			Handler: mux,
		},
		backend:       opts.Backend,
		sessions:      opts.Sessions,
		charts:        charts.NewRenderer(),
		logger:        opts.Logger.WithComponent(applog.ComponentHTTP),
		rateLimiter:   newRateLimiter(opts.RateLimitPerMinute),
		metrics:       &appMetrics{},
		walletCache:   cache.New[[]core.Wallet](opts.CacheMaxSize, opts.CacheTTL),
		categoryCache: cache.New[[]core.Category](opts.CacheMaxSize, opts.CacheTTL),
		reportCache:   cache.New[core.MonthReport](opts.CacheMaxSize, opts.CacheTTL),
		janitor:       cache.NewJanitor(),
		sessionTTL:    opts.SessionTTL,
		defaultLang:   opts.DefaultLanguage,
	}

	s.janitor.Register(s.walletCache)
	s.janitor.Register(s.categoryCache)
	s.janitor.Register(s.reportCache)
	s.janitor.Start(10 * time.Minute)

	templates, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s.templates = templates

	// Static assets from the embedded FS.
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	// Auth pages carry security headers but no session requirement.
	mux.HandleFunc("GET /login", s.secure(s.handleLoginPage))
	mux.HandleFunc("POST /login", s.secure(s.handleLogin))
	mux.HandleFunc("GET /register", s.secure(s.handleRegisterPage))
	mux.HandleFunc("POST /register", s.secure(s.handleRegister))
	mux.HandleFunc("POST /logout", s.secure(s.handleLogout))
	mux.HandleFunc("POST /language", s.secure(s.handleLanguage))

	authed := func(h http.HandlerFunc) http.HandlerFunc { return s.secure(s.requireSession(h)) }

	mux.HandleFunc("GET /{$}", authed(s.handleDashboard))
	mux.HandleFunc("GET /ui/recent", authed(s.handleRecentTransactions))

	mux.HandleFunc("GET /wallets", authed(s.handleWalletsPage))
	mux.HandleFunc("POST /wallets", authed(s.handleCreateWallet))
	mux.HandleFunc("GET /wallets/{id}", authed(s.handleWalletDetail))
	mux.HandleFunc("DELETE /wallets/{id}", authed(s.handleDeleteWallet))
	mux.HandleFunc("POST /wallets/{id}/import", authed(s.handleImportCSV))

	mux.HandleFunc("POST /transactions", authed(s.handleCreateTransaction))
	mux.HandleFunc("DELETE /transactions/{id}", authed(s.handleDeleteTransaction))

	mux.HandleFunc("GET /categories", authed(s.handleCategoriesPage))
	mux.HandleFunc("POST /categories", authed(s.handleCreateCategory))
	mux.HandleFunc("POST /categories/{id}/subcategories", authed(s.handleCreateSubcategory))
	mux.HandleFunc("POST /categories/{id}/hide", authed(s.handleHideCategory))
	mux.HandleFunc("POST /categories/{id}/restore", authed(s.handleRestoreCategory))
	mux.HandleFunc("POST /subcategories/{id}/hide", authed(s.handleHideSubcategory))
	mux.HandleFunc("POST /subcategories/{id}/restore", authed(s.handleRestoreSubcategory))
	mux.HandleFunc("GET /ui/category-options", authed(s.handleCategoryOptions))
	mux.HandleFunc("GET /ui/subcategory-options", authed(s.handleSubcategoryOptions))

	mux.HandleFunc("POST /quickadd", authed(s.handleQuickAdd))
	mux.HandleFunc("POST /quickadd/confirm", authed(s.handleQuickAddConfirm))

	mux.HandleFunc("GET /reports", authed(s.handleReportsPage))
	mux.HandleFunc("GET /ui/report", authed(s.handleReportPartial))
	mux.HandleFunc("GET /charts/category.png", authed(s.handleCategoryChart))
	mux.HandleFunc("GET /charts/totals.png", authed(s.handleTotalsChart))

	return s, nil
}

func parseTemplates() (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template)
	for _, lang := range i18n.Languages() {
		funcs := template.FuncMap{
			"t":     i18n.Translator(lang),
			"money": formatAmount,
		}
		t, err := template.New("").Funcs(funcs).ParseFS(appweb.TemplatesFS, "templates/*.html")
		if err != nil {
			return nil, fmt.Errorf("language %s: %w", lang, err)
		}
		templates[lang] = t
	}
	return templates, nil
}

// Shutdown stops background goroutines and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.janitor.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
