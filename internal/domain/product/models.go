package product

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Stock movement types
const (
	MovementIn  = "in"
	MovementOut = "out"
)

// Domain errors
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrNameRequired      = errors.New("product name is required")
	ErrInvalidPrice      = errors.New("unit price must be zero or positive")
	ErrInvalidCost       = errors.New("purchase cost must be zero or positive")
	ErrInvalidStock      = errors.New("stock quantity must be zero or positive")
	ErrInvalidReorder    = errors.New("reorder level must be zero or positive")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrUnknownCategory   = errors.New("category is not an account of this business")
)

// Product is an inventory item sold through invoices
type Product struct {
	ID            string          `json:"id"`
	BusinessID    string          `json:"businessId"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Barcode       string          `json:"barcode"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	PurchaseCost  decimal.Decimal `json:"purchaseCost"`
	StockQuantity int             `json:"stockQuantity"`
	ReorderLevel  int             `json:"reorderLevel"`
	CategoryID    *string         `json:"categoryId,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// IsLowStock reports whether the product is at or below its reorder level.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.ReorderLevel
}

// StockMovement records a change to a product's stock level.
type StockMovement struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId"`
	Type        string    `json:"type"`
	Quantity    int       `json:"quantity"`
	ReferenceID *string   `json:"referenceId,omitempty"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CreateParams struct {
	BusinessID    string
	Name          string
	SKU           string
	Barcode       string
	UnitPrice     decimal.Decimal
	PurchaseCost  decimal.Decimal
	StockQuantity int
	ReorderLevel  int
	CategoryID    *string
}

func (p CreateParams) Validate() error {
	if p.BusinessID == "" {
		return errors.New("business ID is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	if p.UnitPrice.IsNegative() {
		return ErrInvalidPrice
	}
	if p.PurchaseCost.IsNegative() {
		return ErrInvalidCost
	}
	if p.StockQuantity < 0 {
		return ErrInvalidStock
	}
	if p.ReorderLevel < 0 {
		return ErrInvalidReorder
	}
	return nil
}

// ListFilter narrows a product listing. Search matches name, SKU and barcode.
type ListFilter struct {
	Search       string
	LowStockOnly bool
	Limit        int
	Offset       int
}
