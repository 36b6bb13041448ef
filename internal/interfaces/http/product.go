package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"bizledger/internal/domain/product"
)

type ProductHandler struct {
	service *product.Service
}

func NewProductHandler(service *product.Service) *ProductHandler {
	return &ProductHandler{service: service}
}

type CreateProductRequest struct {
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Barcode       string          `json:"barcode"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	PurchaseCost  decimal.Decimal `json:"purchaseCost"`
	StockQuantity int             `json:"stockQuantity"`
	ReorderLevel  int             `json:"reorderLevel"`
	CategoryID    *string         `json:"categoryId"`
}

// productResponse adds the derived low-stock flag.
type productResponse struct {
	*product.Product
	LowStock bool `json:"lowStock"`
}

func toProductResponse(p *product.Product) productResponse {
	return productResponse{Product: p, LowStock: p.IsLowStock()}
}

func (h *ProductHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	biz, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	filter := product.ListFilter{Search: q.Get("search")}
	filter.LowStockOnly, _ = strconv.ParseBool(q.Get("low_stock"))
	if filter.Limit, filter.Offset, err = pagination(r); err != nil {
		writeError(w, r, err)
		return
	}

	products, err := h.service.List(r.Context(), biz.ID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]productResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, toProductResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ProductHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	biz, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req CreateProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.service.Create(r.Context(), product.CreateParams{
		BusinessID:    biz.ID,
		Name:          req.Name,
		SKU:           req.SKU,
		Barcode:       req.Barcode,
		UnitPrice:     req.UnitPrice,
		PurchaseCost:  req.PurchaseCost,
		StockQuantity: req.StockQuantity,
		ReorderLevel:  req.ReorderLevel,
		CategoryID:    req.CategoryID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(p))
}

func (h *ProductHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	biz, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.service.Get(r.Context(), biz.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

func (h *ProductHandler) HandleListMovements(w http.ResponseWriter, r *http.Request) {
	biz, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	movements, err := h.service.ListMovements(r.Context(), biz.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(movements))
}
