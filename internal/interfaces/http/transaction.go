package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"bizledger/internal/domain/transaction"
)

// TransactionHandler serves recorded cash movements
type TransactionHandler struct {
	service *transaction.Service
}

func NewTransactionHandler(service *transaction.Service) *TransactionHandler {
	return &TransactionHandler{service: service}
}

type CreateTransactionRequest struct {
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Date            string          `json:"date"`
	CategoryID      *string         `json:"categoryId"`
	BankAccountID   *string         `json:"bankAccountId"`
	Description     string          `json:"description"`
	ReferenceNumber string          `json:"referenceNumber"`
}

// HandleList returns the business's transactions filtered by type, date range
// (from inclusive, to exclusive) and a free-text search.
func (h *TransactionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	biz, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	filter := transaction.ListFilter{
		Type:   q.Get("type"),
		Search: strings.TrimSpace(q.Get("search")),
	}
	if filter.From, err = parseDate("from", q.Get("from")); err != nil {
		writeError(w, r, err)
		return
	}
	if filter.To, err = parseDate("to", q.Get("to")); err != nil {
		writeError(w, r, err)
		return
	}
	if filter.Limit, filter.Offset, err = pagination(r); err != nil {
		writeError(w, r, err)
		return
	}

	txns, err := h.service.List(r.Context(), biz.ID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(txns))
}

func (h *TransactionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	biz, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req CreateTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}

	txn, err := h.service.Create(r.Context(), transaction.CreateParams{
		BusinessID:      biz.ID,
		Type:            req.Type,
		Amount:          req.Amount,
		Date:            date,
		CategoryID:      req.CategoryID,
		BankAccountID:   req.BankAccountID,
		Description:     req.Description,
		ReferenceNumber: req.ReferenceNumber,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, txn)
}

func (h *TransactionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	biz, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), biz.ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
