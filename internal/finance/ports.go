// Package finance defines the ports through which the UI reaches the
// backend REST API. Adapters live in the rest and memory subpackages.
package finance

import (
	"context"
	"io"

	"borsa/internal/core"
)

// RegisterRequest carries the fields of the registration form.
type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

// Ports for outbound adapters.
type (
	Authenticator interface {
		// Register creates a new account. No credentials are attached.
		Register(ctx context.Context, req RegisterRequest) (core.User, error)
		// Login verifies the credentials attached to ctx and returns the
		// authenticated user. A bad password surfaces as *APIError 401.
		Login(ctx context.Context) (core.User, error)
	}

	WalletReader interface {
		ListWallets(ctx context.Context) ([]core.Wallet, error)
		GetWallet(ctx context.Context, id int64) (core.Wallet, error)
	}

	WalletWriter interface {
		CreateWallet(ctx context.Context, w core.Wallet) (core.Wallet, error)
		DeleteWallet(ctx context.Context, id int64) error
	}

	TransactionLister interface {
		// ListTransactions returns all transactions of one wallet, newest first.
		ListTransactions(ctx context.Context, walletID int64) ([]core.Transaction, error)
		// ListRecent returns the newest transactions across all wallets.
		ListRecent(ctx context.Context, limit int) ([]core.Transaction, error)
	}

	TransactionWriter interface {
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, id int64) error
	}

	TaxonomyReader interface {
		// ListCategories returns the user's categories with subcategories,
		// hidden entries included.
		ListCategories(ctx context.Context) ([]core.Category, error)
	}

	TaxonomyWriter interface {
		CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
		CreateSubcategory(ctx context.Context, categoryID int64, name string) (core.Subcategory, error)
		HideCategory(ctx context.Context, id int64) error
		RestoreCategory(ctx context.Context, id int64) error
		HideSubcategory(ctx context.Context, id int64) error
		RestoreSubcategory(ctx context.Context, id int64) error
	}

	// Classifier turns free text from the quick-add box into a draft
	// transaction. Classification runs backend-side.
	Classifier interface {
		Classify(ctx context.Context, text string) (core.Draft, error)
	}

	// Importer forwards a CSV file to the backend import endpoint.
	// Parsing is server-side; the returned count is imported rows.
	Importer interface {
		ImportCSV(ctx context.Context, walletID int64, filename string, file io.Reader) (int, error)
	}

	ReportReader interface {
		ReadMonthReport(ctx context.Context, year, month int) (core.MonthReport, error)
	}
)

// Backend is the unified interface the HTTP layer is wired against.
type Backend interface {
	Authenticator
	WalletReader
	WalletWriter
	TransactionLister
	TransactionWriter
	TaxonomyReader
	TaxonomyWriter
	Classifier
	Importer
	ReportReader
}
