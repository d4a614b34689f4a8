package domain

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Transaction types as reported by the CatatUang API.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Amount is a monetary value as encoded by the upstream API. The API is
// inconsistent: amounts and balances arrive as JSON numbers, as numeric
// strings ("1500.50"), or as null. Decoding is lenient and never fails;
// anything unparseable becomes 0 so that aggregation stays NaN-free.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*a = 0
		return nil
	}
	*a = Amount(f)
	return nil
}

// Float64 returns the amount as a plain float, guarding against NaN/Inf
// values constructed outside of UnmarshalJSON.
func (a Amount) Float64() float64 {
	f := float64(a)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// User is the authenticated CatatUang account holder.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Category classifies transactions. Type is "income" or "expense".
type Category struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id,omitempty"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Icon   string `json:"icon,omitempty"`
}

// WalletType is a user-defined wallet classification (cash, bank, e-wallet).
type WalletType struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id,omitempty"`
	Name   string `json:"name"`
	Icon   string `json:"icon,omitempty"`
}

// Wallet holds money. Balance passes through Amount coercion because the
// upstream serializes it as a string on some code paths.
type Wallet struct {
	ID         int64       `json:"id"`
	UserID     int64       `json:"user_id,omitempty"`
	TypeID     int64       `json:"user_wallet_type_id,omitempty"`
	Name       string      `json:"name"`
	Balance    Amount      `json:"balance"`
	WalletType *WalletType `json:"user_wallet_type,omitempty"`
}

// Transaction is a single income or expense entry.
type Transaction struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id,omitempty"`
	WalletID        int64     `json:"wallet_id"`
	CategoryID      int64     `json:"category_id"`
	Amount          Amount    `json:"amount"`
	Description     string    `json:"description,omitempty"`
	TransactionDate string    `json:"transaction_date"`
	Type            string    `json:"type"`
	CreatedAt       string    `json:"created_at,omitempty"`
	Wallet          *Wallet   `json:"wallet,omitempty"`
	Category        *Category `json:"category,omitempty"`
}

// TransactionSummary is the upstream pre-aggregated totals for a period.
type TransactionSummary struct {
	Period struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	} `json:"period"`
	Summary struct {
		TotalIncome   Amount `json:"total_income"`
		TotalExpense  Amount `json:"total_expense"`
		Balance       Amount `json:"balance"`
		WalletBalance Amount `json:"wallet_balance"`
	} `json:"summary"`
}

// Page is the Laravel paginator wrapper the upstream uses for list endpoints.
type Page[T any] struct {
	Data        []T `json:"data"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// Envelope is the upstream response wrapper: {status, message, data, errors}.
// Data is decoded lazily because its shape depends on the endpoint.
type Envelope struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

// FlattenErrors joins Laravel field validation messages into one display
// string, fields in stable order.
func (e *Envelope) FlattenErrors() string {
	if len(e.Errors) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var msgs []string
	for _, k := range keys {
		msgs = append(msgs, e.Errors[k]...)
	}
	return strings.Join(msgs, "\n")
}

// --- Request bodies ---

// LoginRequest accepts email or username in the login field.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name                 string `json:"name"`
	Username             string `json:"username"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type UpdateProfileRequest struct {
	Name                 string `json:"name,omitempty"`
	Username             string `json:"username,omitempty"`
	Email                string `json:"email,omitempty"`
	Password             string `json:"password,omitempty"`
	PasswordConfirmation string `json:"password_confirmation,omitempty"`
}

type CategoryInput struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Icon string `json:"icon,omitempty"`
}

type WalletTypeInput struct {
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

type WalletInput struct {
	Name    string   `json:"name"`
	TypeID  int64    `json:"user_wallet_type_id,omitempty"`
	Balance *float64 `json:"balance,omitempty"`
}

type TransactionInput struct {
	WalletID        int64   `json:"wallet_id"`
	CategoryID      int64   `json:"category_id"`
	Amount          float64 `json:"amount"`
	Description     string  `json:"description,omitempty"`
	TransactionDate string  `json:"transaction_date"`
	Type            string  `json:"type"`
}

// TransactionFilter narrows upstream transaction listings.
type TransactionFilter struct {
	StartDate string
	EndDate   string
	Type      string
	WalletID  int64
	Page      int
}

// WalletsOverview is the coerced total balance across all wallets.
type WalletsOverview struct {
	Total   float64  `json:"total"`
	Wallets []Wallet `json:"wallets"`
}

// Credentials is the payload of upstream POST /login and /register:
// the user plus its personal access token.
type Credentials struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// AuthResponse is returned by the gateway on login and register.
type AuthResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
	User      *User  `json:"user"`
}
