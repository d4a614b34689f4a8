// Package port defines the interfaces between services and infrastructure.
package port

import (
	"context"

	"github.com/catatuang/catatuang-gateway/internal/domain"
)

// UpstreamAuth covers the CatatUang authentication endpoints.
type UpstreamAuth interface {
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.Credentials, error)
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.Credentials, error)
	Logout(ctx context.Context) error
	GetProfile(ctx context.Context) (*domain.User, error)
	UpdateProfile(ctx context.Context, req *domain.UpdateProfileRequest) (*domain.User, error)
}

// TransactionAPI covers the CatatUang transaction endpoints.
type TransactionAPI interface {
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) (*domain.Page[domain.Transaction], error)
	ListAllTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error)
	GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error)
	CreateTransaction(ctx context.Context, in *domain.TransactionInput) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, in *domain.TransactionInput) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
	GetSummary(ctx context.Context, startDate, endDate string) (*domain.TransactionSummary, error)
}

// CatalogAPI covers categories, wallet types and wallets.
type CatalogAPI interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, in *domain.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, in *domain.CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	ListWalletTypes(ctx context.Context) ([]domain.WalletType, error)
	CreateWalletType(ctx context.Context, in *domain.WalletTypeInput) (*domain.WalletType, error)
	UpdateWalletType(ctx context.Context, id int64, in *domain.WalletTypeInput) (*domain.WalletType, error)
	DeleteWalletType(ctx context.Context, id int64) error

	ListWallets(ctx context.Context) ([]domain.Wallet, error)
	CreateWallet(ctx context.Context, in *domain.WalletInput) (*domain.Wallet, error)
	UpdateWallet(ctx context.Context, id int64, in *domain.WalletInput) (*domain.Wallet, error)
	DeleteWallet(ctx context.Context, id int64) error
}

// Cache is a TTL key/value cache.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
	DeletePrefix(prefix string)
}
