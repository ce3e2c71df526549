package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestPayment_Validate(t *testing.T) {
	valid := Payment{
		LoanID:      1,
		Amount:      decimal.NewFromInt(100),
		PaymentDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name    string
		mutate  func(p *Payment)
		wantErr error
	}{
		{"valid", func(p *Payment) {}, nil},
		{"missing loan", func(p *Payment) { p.LoanID = 0 }, ErrPaymentLoanIDRequired},
		{"zero amount", func(p *Payment) { p.Amount = decimal.Zero }, ErrPaymentAmountInvalid},
		{"negative amount", func(p *Payment) { p.Amount = decimal.NewFromInt(-1) }, ErrPaymentAmountInvalid},
		{"zero date", func(p *Payment) { p.PaymentDate = time.Time{} }, ErrPaymentDateRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			if err := p.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPayment_Before_Ordering(t *testing.T) {
	d1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	c1 := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	c2 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	amount := decimal.NewFromInt(100)

	tests := []struct {
		name   string
		a, b   Payment
		before bool
	}{
		{
			"earlier payment date wins",
			Payment{ID: 2, Amount: amount, PaymentDate: d1, CreatedAt: c2},
			Payment{ID: 1, Amount: amount, PaymentDate: d2, CreatedAt: c1},
			true,
		},
		{
			"same date, earlier created-at wins",
			Payment{ID: 2, Amount: amount, PaymentDate: d1, CreatedAt: c1},
			Payment{ID: 1, Amount: amount, PaymentDate: d1, CreatedAt: c2},
			true,
		},
		{
			"same date and created-at, lower ID wins",
			Payment{ID: 1, Amount: amount, PaymentDate: d1, CreatedAt: c1},
			Payment{ID: 2, Amount: amount, PaymentDate: d1, CreatedAt: c1},
			true,
		},
		{
			"identical key is not before itself",
			Payment{ID: 1, Amount: amount, PaymentDate: d1, CreatedAt: c1},
			Payment{ID: 1, Amount: amount, PaymentDate: d1, CreatedAt: c1},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Before(&tt.b); got != tt.before {
				t.Errorf("Before() = %v, want %v", got, tt.before)
			}
		})
	}
}
