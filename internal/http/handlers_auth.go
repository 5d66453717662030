package http

import (
	"net/http"

	"borsa/internal/finance"
	"borsa/internal/i18n"
	applog "borsa/internal/log"
)

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "login.html", struct {
		Language  string
		Languages []string
	}{s.language(r), i18n.Languages()})
}

// handleLogin verifies the credentials against the backend, then stores the
// encoded token server-side and hands the browser only a session cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("invalid form").Write(w)
		return
	}
	username := sanitizeInput(r.Form.Get("username"))
	password := r.Form.Get("password")
	lang := s.language(r)

	auth, err := finance.NewBasicAuth(username, password)
	if err != nil {
		ErrorResponse(http.StatusUnprocessableEntity, i18n.T(lang, "auth.failed")).Write(w)
		return
	}

	ctx := finance.WithAuth(r.Context(), auth)
	user, err := s.backend.Login(ctx)
	if err != nil {
		if finance.IsStatus(err, http.StatusUnauthorized) {
			s.logger.WarnContext(r.Context(), "Login rejected",
				applog.FieldUsername, username,
				applog.FieldOperation, applog.OpLogin)
			ErrorResponse(http.StatusUnauthorized, i18n.T(lang, "auth.failed")).Write(w)
			return
		}
		s.writeError(w, r, err)
		return
	}

	sess, err := s.sessions.Create(r.Context(), user.Username, auth.Token, lang, s.sessionTTL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.setSessionCookie(w, sess)

	s.logger.InfoContext(r.Context(), "User logged in",
		applog.FieldUsername, user.Username,
		applog.FieldOperation, applog.OpLogin)

	NewHTMXResponse().Header("HX-Redirect", "/").Write(w)
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "register.html", struct {
		Language  string
		Languages []string
	}{s.language(r), i18n.Languages()})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("invalid form").Write(w)
		return
	}

	req := finance.RegisterRequest{
		Username: sanitizeInput(r.Form.Get("username")),
		Email:    sanitizeInput(r.Form.Get("email")),
		Password: r.Form.Get("password"),
	}
	user, err := s.backend.Register(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.InfoContext(r.Context(), "User registered",
		applog.FieldUsername, user.Username,
		applog.FieldOperation, applog.OpRegister)

	NewHTMXResponse().
		TriggerSuccessNotification(i18n.T(s.language(r), "auth.registered")).
		Header("HX-Redirect", "/login").
		Write(w)
}

// handleLogout drops the server-side session. The stored token dies with it.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if err := s.sessions.Delete(r.Context(), cookie.Value); err != nil {
			s.logger.WarnContext(r.Context(), "Session delete failed",
				applog.FieldError, err,
				applog.FieldOperation, applog.OpLogout)
		}
	}
	s.clearSessionCookie(w)
	NewHTMXResponse().Header("HX-Redirect", "/login").Write(w)
}

// handleLanguage switches the UI language. Logged-in users get it persisted
// on the session; everyone gets the cookie for the login page.
func (s *Server) handleLanguage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("invalid form").Write(w)
		return
	}
	lang := sanitizeInput(r.Form.Get("lang"))
	if !i18n.Supported(lang) {
		BadRequestError("unsupported language").Write(w)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "lang",
		Value:    lang,
		Path:     "/",
		MaxAge:   365 * 24 * 3600,
		SameSite: http.SameSiteLaxMode,
	})

	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if err := s.sessions.SetLanguage(r.Context(), cookie.Value, lang); err != nil {
			s.logger.WarnContext(r.Context(), "Session language update failed", applog.FieldError, err)
		}
	}

	NewHTMXResponse().Header("HX-Refresh", "true").Write(w)
}
