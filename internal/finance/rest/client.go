// Package rest implements the finance ports against the collaborator REST
// backend. It is the single path between the UI and the network: build
// headers, attach Basic Auth from the session, perform the request, decode
// JSON, and map non-2xx responses to *finance.APIError.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"borsa/internal/core"
	"borsa/internal/finance"
)

var timeNow = time.Now

type Client struct {
	baseURL string
	httpc   *http.Client
}

// Ensure interface conformance
var _ finance.Backend = (*Client)(nil)

// New creates a client for the backend at baseURL (no trailing slash needed).
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   newPooledHTTPClient(),
	}
}

// NewFromEnv creates a client from BACKEND_URL.
func NewFromEnv() (*Client, error) {
	baseURL := strings.TrimSpace(os.Getenv("BACKEND_URL"))
	if baseURL == "" {
		return nil, errors.New("missing BACKEND_URL")
	}
	return New(baseURL), nil
}

// newPooledHTTPClient builds an HTTP client with connection pooling and
// timeouts tuned for a single upstream host.
func newPooledHTTPClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   30 * time.Second,
	}
}

// do performs one backend call. body (when non-nil) is JSON-encoded; out
// (when non-nil) receives the decoded 2xx response body.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request %s %s: %w", method, path, err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if auth, ok := finance.AuthFromContext(ctx); ok {
		req.Header.Set("Authorization", auth.Header())
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response %s %s: %w", method, path, err)
	}
	return nil
}

// decodeError maps a non-2xx response to *finance.APIError, preferring the
// backend's {"message": ...} payload over the raw body.
func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	var payload errorDTO
	if len(body) > 0 && body[0] == '{' {
		if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
			return finance.NewAPIError(resp.StatusCode, payload.Message)
		}
	}
	return finance.NewAPIError(resp.StatusCode, strings.TrimSpace(string(body)))
}

func (c *Client) Register(ctx context.Context, req finance.RegisterRequest) (core.User, error) {
	var out userDTO
	payload := registerDTO{Username: req.Username, Email: req.Email, Password: req.Password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", payload, &out); err != nil {
		return core.User{}, err
	}
	return out.toCore(), nil
}

func (c *Client) Login(ctx context.Context) (core.User, error) {
	if _, ok := finance.AuthFromContext(ctx); !ok {
		return core.User{}, finance.NewAPIError(http.StatusUnauthorized, "missing credentials")
	}
	var out userDTO
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return core.User{}, err
	}
	return out.toCore(), nil
}

func (c *Client) ListWallets(ctx context.Context) ([]core.Wallet, error) {
	var out []walletDTO
	if err := c.do(ctx, http.MethodGet, "/api/wallets", nil, &out); err != nil {
		return nil, err
	}
	wallets := make([]core.Wallet, 0, len(out))
	for _, w := range out {
		wallets = append(wallets, w.toCore())
	}
	return wallets, nil
}

func (c *Client) GetWallet(ctx context.Context, id int64) (core.Wallet, error) {
	var out walletDTO
	if err := c.do(ctx, http.MethodGet, "/api/wallets/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return core.Wallet{}, err
	}
	return out.toCore(), nil
}

func (c *Client) CreateWallet(ctx context.Context, w core.Wallet) (core.Wallet, error) {
	if err := w.Validate(); err != nil {
		return core.Wallet{}, fmt.Errorf("validation failed: %w", err)
	}
	payload := walletDTO{Name: w.Name, Balance: fromCents(w.Balance.Cents), Currency: w.Currency}
	var out walletDTO
	if err := c.do(ctx, http.MethodPost, "/api/wallets", payload, &out); err != nil {
		return core.Wallet{}, err
	}
	return out.toCore(), nil
}

func (c *Client) DeleteWallet(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/wallets/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) ListTransactions(ctx context.Context, walletID int64) ([]core.Transaction, error) {
	var out []transactionDTO
	path := "/api/wallets/" + strconv.FormatInt(walletID, 10) + "/transactions"
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return decodeTransactions(out)
}

func (c *Client) ListRecent(ctx context.Context, limit int) ([]core.Transaction, error) {
	var out []transactionDTO
	path := "/api/transactions/recent?limit=" + strconv.Itoa(limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return decodeTransactions(out)
}

func decodeTransactions(dtos []transactionDTO) ([]core.Transaction, error) {
	items := make([]core.Transaction, 0, len(dtos))
	for _, d := range dtos {
		t, err := d.toCore()
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", d.ID, err)
		}
		items = append(items, t)
	}
	return items, nil
}

func (c *Client) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validation failed: %w", err)
	}
	var out transactionDTO
	if err := c.do(ctx, http.MethodPost, "/api/transactions", fromCoreTransaction(t), &out); err != nil {
		return core.Transaction{}, err
	}
	return out.toCore()
}

func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/transactions/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) ListCategories(ctx context.Context) ([]core.Category, error) {
	var out []categoryDTO
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &out); err != nil {
		return nil, err
	}
	cats := make([]core.Category, 0, len(out))
	for _, d := range out {
		cats = append(cats, d.toCore())
	}
	return cats, nil
}

func (c *Client) CreateCategory(ctx context.Context, cat core.Category) (core.Category, error) {
	if err := cat.Validate(); err != nil {
		return core.Category{}, fmt.Errorf("validation failed: %w", err)
	}
	payload := categoryDTO{Name: cat.Name, Type: string(cat.Type)}
	var out categoryDTO
	if err := c.do(ctx, http.MethodPost, "/api/categories", payload, &out); err != nil {
		return core.Category{}, err
	}
	return out.toCore(), nil
}

func (c *Client) CreateSubcategory(ctx context.Context, categoryID int64, name string) (core.Subcategory, error) {
	if strings.TrimSpace(name) == "" {
		return core.Subcategory{}, core.ErrEmptyName
	}
	path := "/api/categories/" + strconv.FormatInt(categoryID, 10) + "/subcategories"
	payload := subcategoryDTO{Name: name}
	var out subcategoryDTO
	if err := c.do(ctx, http.MethodPost, path, payload, &out); err != nil {
		return core.Subcategory{}, err
	}
	return out.toCore(), nil
}

func (c *Client) HideCategory(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, "/api/categories/"+strconv.FormatInt(id, 10)+"/hide", nil, nil)
}

func (c *Client) RestoreCategory(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, "/api/categories/"+strconv.FormatInt(id, 10)+"/restore", nil, nil)
}

func (c *Client) HideSubcategory(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, "/api/subcategories/"+strconv.FormatInt(id, 10)+"/hide", nil, nil)
}

func (c *Client) RestoreSubcategory(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, "/api/subcategories/"+strconv.FormatInt(id, 10)+"/restore", nil, nil)
}

func (c *Client) Classify(ctx context.Context, text string) (core.Draft, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return core.Draft{}, errors.New("empty text")
	}
	var out draftDTO
	if err := c.do(ctx, http.MethodPost, "/api/transactions/classify", classifyDTO{Text: text}, &out); err != nil {
		return core.Draft{}, err
	}
	return out.toCore(), nil
}

// ImportCSV streams the file to the backend import endpoint as multipart
// form data. The file is not parsed locally.
func (c *Client) ImportCSV(ctx context.Context, walletID int64, filename string, file io.Reader) (int, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return 0, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return 0, fmt.Errorf("copy csv payload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return 0, fmt.Errorf("finalize multipart body: %w", err)
	}

	path := "/api/wallets/" + strconv.FormatInt(walletID, 10) + "/transactions/import"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return 0, fmt.Errorf("build import request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	if auth, ok := finance.AuthFromContext(ctx); ok {
		req.Header.Set("Authorization", auth.Header())
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, decodeError(resp)
	}
	var out importResultDTO
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode import response: %w", err)
	}
	return out.Imported, nil
}

func (c *Client) ReadMonthReport(ctx context.Context, year, month int) (core.MonthReport, error) {
	if month < 1 || month > 12 {
		return core.MonthReport{}, fmt.Errorf("invalid month: %d", month)
	}
	path := fmt.Sprintf("/api/reports/monthly?year=%d&month=%d", year, month)
	var out reportDTO
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return core.MonthReport{}, err
	}
	return out.toCore(), nil
}
