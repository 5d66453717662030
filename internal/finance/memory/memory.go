// Package memory is an in-process stand-in for the backend REST API, used
// by tests and BACKEND=memory development runs. It mimics the backend's
// observable behavior, including Basic Auth checks and balance updates.
package memory

import (
	"context"
	"encoding/base64"
	"encoding/csv"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"

	"borsa/internal/core"
	"borsa/internal/finance"
)

type account struct {
	user     core.User
	password string
}

type Store struct {
	mu       sync.Mutex
	accounts map[string]*account
	wallets  map[int64]core.Wallet
	txns     map[int64]core.Transaction
	cats     map[int64]*core.Category
	subIndex map[int64]int64 // subcategory ID -> category ID
	nextID   int64
}

// Ensure interface conformance
var _ finance.Backend = (*Store)(nil)

// New creates an empty store seeded with the default taxonomy.
func New() *Store {
	s := &Store{
		accounts: make(map[string]*account),
		wallets:  make(map[int64]core.Wallet),
		txns:     make(map[int64]core.Transaction),
		cats:     make(map[int64]*core.Category),
		subIndex: make(map[int64]int64),
	}
	s.seedDefaults()
	return s
}

var defaultTaxonomy = []struct {
	name string
	typ  core.TransactionType
	subs []string
}{
	{"Food", core.Debit, []string{"Groceries", "Restaurants", "Bar"}},
	{"Home", core.Debit, []string{"Rent", "Utilities", "Maintenance"}},
	{"Transport", core.Debit, []string{"Fuel", "Public transport", "Taxi"}},
	{"Leisure", core.Debit, []string{"Travel", "Sport", "Subscriptions"}},
	{"Salary", core.Credit, []string{"Base", "Bonus"}},
	{"Other income", core.Credit, []string{"Refund", "Gift"}},
}

func (s *Store) seedDefaults() {
	for _, d := range defaultTaxonomy {
		cat := &core.Category{
			ID:        s.allocID(),
			Name:      d.name,
			Type:      d.typ,
			IsDefault: true,
		}
		for _, sub := range d.subs {
			sc := core.Subcategory{ID: s.allocID(), Name: sub, IsDefault: true}
			cat.Subcategories = append(cat.Subcategories, sc)
			s.subIndex[sc.ID] = cat.ID
		}
		s.cats[cat.ID] = cat
	}
}

// allocID must be called with the lock held (or during construction).
func (s *Store) allocID() int64 {
	s.nextID++
	return s.nextID
}

func unauthorized() error {
	return finance.NewAPIError(http.StatusUnauthorized, "invalid credentials")
}

// authenticate resolves the Basic Auth credentials attached to ctx against
// registered accounts. Must be called with the lock held.
func (s *Store) authenticate(ctx context.Context) (core.User, error) {
	auth, ok := finance.AuthFromContext(ctx)
	if !ok {
		return core.User{}, unauthorized()
	}
	raw, err := base64.StdEncoding.DecodeString(auth.Token)
	if err != nil {
		return core.User{}, unauthorized()
	}
	username, password, ok := strings.Cut(string(raw), ":")
	if !ok {
		return core.User{}, unauthorized()
	}
	acc, exists := s.accounts[username]
	if !exists || acc.password != password {
		return core.User{}, unauthorized()
	}
	return acc.user, nil
}

func (s *Store) Register(_ context.Context, req finance.RegisterRequest) (core.User, error) {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return core.User{}, finance.NewAPIError(http.StatusBadRequest, "username and password are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.Username]; exists {
		return core.User{}, finance.NewAPIError(http.StatusConflict, "username already taken")
	}
	user := core.User{ID: s.allocID(), Username: req.Username, Email: req.Email}
	s.accounts[req.Username] = &account{user: user, password: req.Password}
	return user, nil
}

func (s *Store) Login(ctx context.Context) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticate(ctx)
}

func (s *Store) ListWallets(ctx context.Context) ([]core.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, err := s.authenticate(ctx)
	if err != nil {
		return nil, err
	}
	var out []core.Wallet
	for _, w := range s.wallets {
		if w.OwnerID == user.ID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetWallet(ctx context.Context, id int64) (core.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, err := s.authenticate(ctx)
	if err != nil {
		return core.Wallet{}, err
	}
	w, ok := s.wallets[id]
	if !ok || w.OwnerID != user.ID {
		return core.Wallet{}, finance.NewAPIError(http.StatusNotFound, "wallet not found")
	}
	return w, nil
}

func (s *Store) CreateWallet(ctx context.Context, w core.Wallet) (core.Wallet, error) {
	if err := w.Validate(); err != nil {
		return core.Wallet{}, finance.NewAPIError(http.StatusUnprocessableEntity, err.Error())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user, err := s.authenticate(ctx)
	if err != nil {
		return core.Wallet{}, err
	}
	w.ID = s.allocID()
	w.OwnerID = user.ID
	s.wallets[w.ID] = w
	return w, nil
}

func (s *Store) DeleteWallet(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, err := s.authenticate(ctx)
	if err != nil {
		return err
	}
	w, ok := s.wallets[id]
	if !ok || w.OwnerID != user.ID {
		return finance.NewAPIError(http.StatusNotFound, "wallet not found")
	}
	delete(s.wallets, id)
	for tid, t := range s.txns {
		if t.WalletID == id {
			delete(s.txns, tid)
		}
	}
	return nil
}

func (s *Store) ListTransactions(ctx context.Context, walletID int64) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, err := s.authenticate(ctx)
	if err != nil {
		return nil, err
	}
	w, ok := s.wallets[walletID]
	if !ok || w.OwnerID != user.ID {
		return nil, finance.NewAPIError(http.StatusNotFound, "wallet not found")
	}
	var out []core.Transaction
	for _, t := range s.txns {
		if t.WalletID == walletID {
			out = append(out, t)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, err := s.authenticate(ctx)
	if err != nil {
		return nil, err
	}
	var out []core.Transaction
	for _, t := range s.txns {
		if w, ok := s.wallets[t.WalletID]; ok && w.OwnerID == user.ID {
			out = append(out, t)
		}
	}
	sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sortNewestFirst(items []core.Transaction) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date.Time) {
			return items[i].Date.After(items[j].Date.Time)
		}
		return items[i].ID > items[j].ID
	})
}

func (s *Store) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, finance.NewAPIError(http.StatusUnprocessableEntity, err.Error())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user, err := s.authenticate(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	w, ok := s.wallets[t.WalletID]
	if !ok || w.OwnerID != user.ID {
		return core.Transaction{}, finance.NewAPIError(http.StatusNotFound, "wallet not found")
	}
	t.ID = s.allocID()
	s.txns[t.ID] = t
	w.Balance.Cents += t.Signed().Cents
	s.wallets[w.ID] = w
	return t, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, err := s.authenticate(ctx)
	if err != nil {
		return err
	}
	t, ok := s.txns[id]
	if !ok {
		return finance.NewAPIError(http.StatusNotFound, "transaction not found")
	}
	w, ok := s.wallets[t.WalletID]
	if !ok || w.OwnerID != user.ID {
		return finance.NewAPIError(http.StatusNotFound, "transaction not found")
	}
	delete(s.txns, id)
	w.Balance.Cents -= t.Signed().Cents
	s.wallets[w.ID] = w
	return nil
}

func (s *Store) ListCategories(ctx context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, err := s.authenticate(ctx)
	if err != nil {
		return nil, err
	}
	var out []core.Category
	for _, c := range s.cats {
		if c.IsDefault || c.OwnerID == user.ID {
			cp := *c
			cp.Subcategories = append([]core.Subcategory(nil), c.Subcategories...)
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, finance.NewAPIError(http.StatusUnprocessableEntity, err.Error())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user, err := s.authenticate(ctx)
	if err != nil {
		return core.Category{}, err
	}
	c.ID = s.allocID()
	c.OwnerID = user.ID
	c.IsDefault = false
	c.Hidden = false
	c.Subcategories = nil
	s.cats[c.ID] = &c
	return c, nil
}

func (s *Store) CreateSubcategory(ctx context.Context, categoryID int64, name string) (core.Subcategory, error) {
	if strings.TrimSpace(name) == "" {
		return core.Subcategory{}, finance.NewAPIError(http.StatusUnprocessableEntity, "empty name")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.authenticate(ctx); err != nil {
		return core.Subcategory{}, err
	}
	cat, ok := s.cats[categoryID]
	if !ok {
		return core.Subcategory{}, finance.NewAPIError(http.StatusNotFound, "category not found")
	}
	sub := core.Subcategory{ID: s.allocID(), Name: name}
	cat.Subcategories = append(cat.Subcategories, sub)
	s.subIndex[sub.ID] = cat.ID
	return sub, nil
}

func (s *Store) setCategoryHidden(ctx context.Context, id int64, hidden bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.authenticate(ctx); err != nil {
		return err
	}
	cat, ok := s.cats[id]
	if !ok {
		return finance.NewAPIError(http.StatusNotFound, "category not found")
	}
	if cat.IsDefault && hidden {
		return finance.NewAPIError(http.StatusForbidden, "default categories cannot be hidden")
	}
	cat.Hidden = hidden
	return nil
}

func (s *Store) HideCategory(ctx context.Context, id int64) error {
	return s.setCategoryHidden(ctx, id, true)
}

func (s *Store) RestoreCategory(ctx context.Context, id int64) error {
	return s.setCategoryHidden(ctx, id, false)
}

func (s *Store) setSubcategoryHidden(ctx context.Context, id int64, hidden bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.authenticate(ctx); err != nil {
		return err
	}
	catID, ok := s.subIndex[id]
	if !ok {
		return finance.NewAPIError(http.StatusNotFound, "subcategory not found")
	}
	cat := s.cats[catID]
	for i := range cat.Subcategories {
		if cat.Subcategories[i].ID == id {
			if cat.Subcategories[i].IsDefault && hidden {
				return finance.NewAPIError(http.StatusForbidden, "default subcategories cannot be hidden")
			}
			cat.Subcategories[i].Hidden = hidden
			return nil
		}
	}
	return finance.NewAPIError(http.StatusNotFound, "subcategory not found")
}

func (s *Store) HideSubcategory(ctx context.Context, id int64) error {
	return s.setSubcategoryHidden(ctx, id, true)
}

func (s *Store) RestoreSubcategory(ctx context.Context, id int64) error {
	return s.setSubcategoryHidden(ctx, id, false)
}

// ImportCSV accepts rows of date,type,category,subcategory,amount,description
// and creates one transaction per valid row. The real backend owns the
// import format; this fake only needs plausible behavior.
func (s *Store) ImportCSV(ctx context.Context, walletID int64, _ string, file io.Reader) (int, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	imported := 0
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return imported, finance.NewAPIError(http.StatusUnprocessableEntity, "malformed csv")
		}
		if first {
			first = false
			// Tolerate a header row.
			if _, derr := core.ParseDate(record[0]); derr != nil {
				continue
			}
		}
		if len(record) < 5 {
			continue
		}
		date, err := core.ParseDate(record[0])
		if err != nil {
			continue
		}
		cents, err := core.ParseDecimalToCents(record[4])
		if err != nil {
			continue
		}
		t := core.Transaction{
			Type:        core.TransactionType(strings.ToUpper(strings.TrimSpace(record[1]))),
			Category:    strings.TrimSpace(record[2]),
			Subcategory: strings.TrimSpace(record[3]),
			Amount:      core.Money{Cents: cents},
			Date:        date,
			WalletID:    walletID,
		}
		if len(record) > 5 {
			t.Description = strings.TrimSpace(record[5])
		}
		if _, err := s.CreateTransaction(ctx, t); err != nil {
			continue
		}
		imported++
	}
	return imported, nil
}

func (s *Store) ReadMonthReport(ctx context.Context, year, month int) (core.MonthReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, err := s.authenticate(ctx)
	if err != nil {
		return core.MonthReport{}, err
	}
	rep := core.MonthReport{Year: year, Month: month}
	byCat := map[string]int64{}
	var order []string
	for _, t := range s.txns {
		w, ok := s.wallets[t.WalletID]
		if !ok || w.OwnerID != user.ID {
			continue
		}
		if t.Date.Year() != year || t.Date.Month() != month {
			continue
		}
		switch t.Type {
		case core.Credit:
			rep.Credits.Cents += t.Amount.Cents
		default:
			rep.Debits.Cents += t.Amount.Cents
			if _, seen := byCat[t.Category]; !seen {
				order = append(order, t.Category)
			}
			byCat[t.Category] += t.Amount.Cents
		}
	}
	sort.Strings(order)
	for _, name := range order {
		rep.ByCategory = append(rep.ByCategory, core.CategoryAmount{
			Name:   name,
			Amount: core.Money{Cents: byCat[name]},
		})
	}
	return rep, nil
}
