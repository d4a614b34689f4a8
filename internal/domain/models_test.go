package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/catatuang/catatuang-gateway/internal/domain"
)

func TestAmount_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want float64
	}{
		{"number", `1500.5`, 1500.5},
		{"integer", `42`, 42},
		{"string number", `"1500.50"`, 1500.5},
		{"string with spaces", `" 250 "`, 250},
		{"null", `null`, 0},
		{"empty string", `""`, 0},
		{"garbage string", `"abc"`, 0},
		{"negative", `-75.25`, -75.25},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var a domain.Amount
			if err := json.Unmarshal([]byte(c.in), &a); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if a.Float64() != c.want {
				t.Errorf("expected %v, got %v", c.want, a.Float64())
			}
		})
	}
}

func TestTransaction_DecodesStringAmount(t *testing.T) {
	raw := `{"id":7,"wallet_id":1,"category_id":2,"amount":"50000.00","transaction_date":"2025-08-30","type":"expense"}`

	var tr domain.Transaction
	if err := json.Unmarshal([]byte(raw), &tr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Amount.Float64() != 50000 {
		t.Errorf("expected amount 50000, got %v", tr.Amount.Float64())
	}
	if tr.Type != domain.TypeExpense {
		t.Errorf("expected type expense, got %q", tr.Type)
	}
}

func TestEnvelope_FlattenErrors(t *testing.T) {
	env := domain.Envelope{
		Errors: map[string][]string{
			"password": {"Password minimal 6 karakter"},
			"email":    {"Email sudah terdaftar", "Email tidak valid"},
		},
	}

	got := env.FlattenErrors()
	want := "Email sudah terdaftar\nEmail tidak valid\nPassword minimal 6 karakter"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestEnvelope_FlattenErrorsEmpty(t *testing.T) {
	var env domain.Envelope
	if got := env.FlattenErrors(); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}
