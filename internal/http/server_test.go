package http

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"borsa/internal/finance"
	"borsa/internal/finance/memory"
	applog "borsa/internal/log"
	"borsa/internal/session"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := NewServer(Options{
		Backend:  memory.New(),
		Sessions: session.NewMemoryStore(),
		Logger: applog.New(applog.Config{
			Handler: slog.NewTextHandler(io.Discard, nil),
		}),
	})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func registerUser(t *testing.T, srv *Server, username, password string) {
	t.Helper()
	_, err := srv.backend.Register(context.Background(), finance.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: password,
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
}

func loginUser(t *testing.T, srv *Server, username, password string) *http.Cookie {
	t.Helper()
	rr := postForm(srv, "/login", url.Values{
		"username": {username},
		"password": {password},
	}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("login returned status %d, want 200", rr.Code)
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessionCookie && c.Value != "" {
			return c
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func postForm(srv *Server, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func doGet(srv *Server, target string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func createWallet(t *testing.T, srv *Server, cookie *http.Cookie, name, balance string) string {
	t.Helper()
	rr := postForm(srv, "/wallets", url.Values{
		"name":     {name},
		"currency": {"EUR"},
		"balance":  {balance},
	}, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("create wallet returned status %d: %s", rr.Code, rr.Body.String())
	}
	redirect := rr.Header().Get("HX-Redirect")
	if !strings.HasPrefix(redirect, "/wallets/") {
		t.Fatalf("create wallet HX-Redirect = %q, want /wallets/<id>", redirect)
	}
	return redirect
}

func TestLoginFlow(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "mario", "secret")

	rr := postForm(srv, "/login", url.Values{
		"username": {"mario"},
		"password": {"wrong"},
	}, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("wrong password returned status %d, want 401", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), "show-notification") {
		t.Error("failed login did not trigger a toast notification")
	}

	rr = postForm(srv, "/login", url.Values{
		"username": {"mario"},
		"password": {"secret"},
	}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("login returned status %d, want 200", rr.Code)
	}
	if got := rr.Header().Get("HX-Redirect"); got != "/" {
		t.Errorf("HX-Redirect = %q, want /", got)
	}
	var found bool
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessionCookie {
			found = true
			if !c.HttpOnly {
				t.Error("session cookie is not HttpOnly")
			}
		}
	}
	if !found {
		t.Error("login did not set a session cookie")
	}
}

func TestUnauthenticatedRequestsBounceToLogin(t *testing.T) {
	srv := newTestServer(t)

	rr := doGet(srv, "/", nil)
	if rr.Code != http.StatusSeeOther {
		t.Errorf("full page load returned status %d, want 303", rr.Code)
	}
	if got := rr.Header().Get("Location"); got != "/login" {
		t.Errorf("Location = %q, want /login", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/ui/recent", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("htmx partial returned status %d, want 401", rec.Code)
	}
	if got := rec.Header().Get("HX-Redirect"); got != "/login" {
		t.Errorf("HX-Redirect = %q, want /login", got)
	}
}

func TestStaleSessionCookieIsCleared(t *testing.T) {
	srv := newTestServer(t)

	rr := doGet(srv, "/", &http.Cookie{Name: sessionCookie, Value: "gone"})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	var cleared bool
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessionCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("stale session cookie was not cleared")
	}
}

func TestCreateWalletAndTransaction(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "mario", "secret")
	cookie := loginUser(t, srv, "mario", "secret")

	walletPath := createWallet(t, srv, cookie, "Main", "100")

	rr := doGet(srv, walletPath, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("wallet detail returned status %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Main") {
		t.Error("wallet detail page does not show the wallet name")
	}
	if !strings.Contains(rr.Body.String(), "100.00") {
		t.Error("wallet detail page does not show the starting balance")
	}

	walletID := strings.TrimPrefix(walletPath, "/wallets/")
	rr = postForm(srv, "/transactions", url.Values{
		"wallet_id":   {walletID},
		"type":        {"DEBIT"},
		"category":    {"Food"},
		"subcategory": {"Groceries"},
		"amount":      {"12.50"},
		"date":        {"2025-08-10"},
		"description": {"weekly shop"},
	}, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("create transaction returned status %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), "transactions:changed") {
		t.Error("create transaction did not fire transactions:changed")
	}

	rr = doGet(srv, walletPath, cookie)
	if !strings.Contains(rr.Body.String(), "87.50") {
		t.Error("debit did not reduce the wallet balance on the detail page")
	}
	if !strings.Contains(rr.Body.String(), "weekly shop") {
		t.Error("transaction missing from the wallet detail page")
	}

	rr = doGet(srv, "/ui/recent", cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("recent partial returned status %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "-12.50") {
		t.Error("recent partial does not show the signed amount")
	}
}

func TestInvalidAmountRejectedBeforeBackend(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "mario", "secret")
	cookie := loginUser(t, srv, "mario", "secret")

	walletPath := createWallet(t, srv, cookie, "Main", "100")
	walletID := strings.TrimPrefix(walletPath, "/wallets/")

	rr := postForm(srv, "/transactions", url.Values{
		"wallet_id": {walletID},
		"type":      {"DEBIT"},
		"category":  {"Food"},
		"amount":    {"not-a-number"},
	}, cookie)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid amount returned status %d, want 422", rr.Code)
	}

	rr = doGet(srv, walletPath, cookie)
	if !strings.Contains(rr.Body.String(), "100.00") {
		t.Error("rejected transaction changed the wallet balance")
	}
}

func TestCategoryOptionsFilter(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "mario", "secret")
	cookie := loginUser(t, srv, "mario", "secret")

	rr := doGet(srv, "/ui/category-options?type=CREDIT&q=sal", cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Salary") {
		t.Error("credit options missing Salary")
	}
	if strings.Contains(body, "Food") {
		t.Error("credit options leaked a debit category")
	}
}

func TestSubcategoryOptionsFollowCategory(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "mario", "secret")
	cookie := loginUser(t, srv, "mario", "secret")

	rr := doGet(srv, "/ui/subcategory-options?category=Food", cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Groceries") {
		t.Error("subcategory options missing Groceries")
	}

	rr = doGet(srv, "/ui/subcategory-options?category=NoSuchCategory", cookie)
	if strings.TrimSpace(rr.Body.String()) != "" {
		t.Error("unknown category should render an empty option list")
	}
}

func TestQuickAddRendersDraftForm(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "mario", "secret")
	cookie := loginUser(t, srv, "mario", "secret")
	createWallet(t, srv, cookie, "Main", "100")

	rr := postForm(srv, "/quickadd", url.Values{
		"text": {"groceries at the market 23.50"},
	}, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("quickadd returned status %d: %s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	if !strings.Contains(body, "/quickadd/confirm") {
		t.Error("draft form does not post to the confirm endpoint")
	}
	if !strings.Contains(body, "23.50") {
		t.Error("draft form missing the parsed amount")
	}

	rr = postForm(srv, "/quickadd", url.Values{"text": {""}}, cookie)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("empty quickadd text returned status %d, want 400", rr.Code)
	}
}

func TestReportPartialAndCharts(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "mario", "secret")
	cookie := loginUser(t, srv, "mario", "secret")

	walletPath := createWallet(t, srv, cookie, "Main", "1000")
	walletID := strings.TrimPrefix(walletPath, "/wallets/")

	rr := postForm(srv, "/transactions", url.Values{
		"wallet_id": {walletID},
		"type":      {"DEBIT"},
		"category":  {"Food"},
		"amount":    {"35.00"},
		"date":      {"2025-03-10"},
	}, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("create transaction returned status %d", rr.Code)
	}

	rr = doGet(srv, "/ui/report?year=2025&month=3", cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("report partial returned status %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "35.00") {
		t.Error("report partial missing the month debit total")
	}
	if !strings.Contains(rr.Body.String(), "Food") {
		t.Error("report partial missing the category breakdown")
	}

	rr = doGet(srv, "/ui/report?year=2030&month=1", cookie)
	if !strings.Contains(rr.Body.String(), "placeholder") {
		t.Error("empty month should render the placeholder")
	}

	rr = doGet(srv, "/charts/category.png?year=2025&month=3", cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("category chart returned status %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("chart Content-Type = %q, want image/png", ct)
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("chart response is not a PNG")
	}

	rr = doGet(srv, "/charts/totals.png?year=2030&month=1", cookie)
	if rr.Code != http.StatusNoContent {
		t.Errorf("empty month chart returned status %d, want 204", rr.Code)
	}
}

func TestImportCSVEndpoint(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "mario", "secret")
	cookie := loginUser(t, srv, "mario", "secret")

	walletPath := createWallet(t, srv, cookie, "Main", "1000")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "export.csv")
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	_, _ = io.WriteString(part, "date,type,category,subcategory,amount,description\n")
	_, _ = io.WriteString(part, "2025-08-01,DEBIT,Food,Groceries,12.50,market\n")
	_, _ = io.WriteString(part, "2025-08-02,CREDIT,Salary,Base,1500.00,august\n")
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, walletPath+"/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("import returned status %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), "show-notification") {
		t.Error("import did not trigger a toast with the row count")
	}

	rr = doGet(srv, walletPath, cookie)
	if !strings.Contains(rr.Body.String(), "market") {
		t.Error("imported transaction missing from the wallet page")
	}
}

func TestLanguageSwitch(t *testing.T) {
	srv := newTestServer(t)

	rr := postForm(srv, "/language", url.Values{"lang": {"it"}}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("language switch returned status %d", rr.Code)
	}
	var langCookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == "lang" {
			langCookie = c
		}
	}
	if langCookie == nil || langCookie.Value != "it" {
		t.Fatal("language switch did not set the lang cookie")
	}

	page := doGet(srv, "/login", nil)
	if !strings.Contains(page.Body.String(), "Log in") {
		t.Error("default login page is not in English")
	}

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(langCookie)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), "Accedi") {
		t.Error("login page ignored the lang cookie")
	}

	rr = postForm(srv, "/language", url.Values{"lang": {"xx"}}, nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("unsupported language returned status %d, want 400", rr.Code)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "mario", "secret")
	cookie := loginUser(t, srv, "mario", "secret")

	rr := postForm(srv, "/logout", nil, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("logout returned status %d", rr.Code)
	}

	rr = doGet(srv, "/", cookie)
	if rr.Code != http.StatusSeeOther {
		t.Errorf("request after logout returned status %d, want 303", rr.Code)
	}
}

func TestRateLimitOnMutations(t *testing.T) {
	srv, err := NewServer(Options{
		Backend:            memory.New(),
		Sessions:           session.NewMemoryStore(),
		RateLimitPerMinute: 2,
		Logger: applog.New(applog.Config{
			Handler: slog.NewTextHandler(io.Discard, nil),
		}),
	})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	form := url.Values{"username": {"x"}, "password": {"y"}}
	postForm(srv, "/login", form, nil)
	postForm(srv, "/login", form, nil)
	rr := postForm(srv, "/login", form, nil)
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("third mutation returned status %d, want 429", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("rate limited response missing Retry-After")
	}
}
