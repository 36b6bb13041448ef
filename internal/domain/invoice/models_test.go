package invoice

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		paid  int64
		want  Status
	}{
		{"nothing paid", 10000, 0, StatusUnpaid},
		{"partially paid", 10000, 4000, StatusPartPaid},
		{"exactly paid", 10000, 10000, StatusPaid},
		{"overpaid", 10000, 12000, StatusPaid},
		{"zero total", 0, 0, StatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(decimal.NewFromInt(tt.total), decimal.NewFromInt(tt.paid))
			if got != tt.want {
				t.Errorf("DeriveStatus(%d, %d) = %q, want %q", tt.total, tt.paid, got, tt.want)
			}
		})
	}
}

func TestRemaining(t *testing.T) {
	inv := &Invoice{TotalAmount: decimal.NewFromInt(10000), AmountPaid: decimal.NewFromInt(4000)}
	if got := inv.Remaining(); !got.Equal(decimal.NewFromInt(6000)) {
		t.Errorf("Remaining() = %s, want 6000", got)
	}

	inv.AmountPaid = decimal.NewFromInt(11000)
	if got := inv.Remaining(); !got.IsZero() {
		t.Errorf("Remaining() = %s, want 0", got)
	}
}

func TestCreateParamsValidate(t *testing.T) {
	base := CreateParams{
		BusinessID: "biz-1",
		DueDate:    time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		Items:      []ItemInput{{ProductID: "p-1", Quantity: 1}},
	}

	tests := []struct {
		name    string
		mutate  func(p *CreateParams)
		wantErr error
	}{
		{"valid", func(p *CreateParams) {}, nil},
		{"no items", func(p *CreateParams) { p.Items = nil }, ErrNoItems},
		{"zero quantity", func(p *CreateParams) { p.Items = []ItemInput{{ProductID: "p-1"}} }, ErrInvalidQuantity},
		{"missing product", func(p *CreateParams) { p.Items = []ItemInput{{Quantity: 2}} }, ErrProductRequired},
		{"missing due date", func(p *CreateParams) { p.DueDate = time.Time{} }, ErrDueDateRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			if err := p.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
