package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"bizledger/internal/domain/invoice"
	"bizledger/internal/domain/notification"
)

// InvoiceHandler serves invoices, their payments and outbound messages.
type InvoiceHandler struct {
	invoices   *invoice.Service
	reconciler *invoice.Reconciler
	notifier   *notification.Service
}

func NewInvoiceHandler(invoices *invoice.Service, reconciler *invoice.Reconciler, notifier *notification.Service) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, reconciler: reconciler, notifier: notifier}
}

type InvoiceItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type CreateInvoiceRequest struct {
	CustomerID    *string              `json:"customerId"`
	InvoiceNumber string               `json:"invoiceNumber"`
	DueDate       string               `json:"dueDate"`
	Items         []InvoiceItemRequest `json:"items"`
}

type UpdateInvoiceRequest struct {
	TotalAmount *decimal.Decimal `json:"totalAmount"`
	DueDate     *string          `json:"dueDate"`
	CustomerID  *string          `json:"customerId"`
}

type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"paymentMethod"`
	Notes  string          `json:"notes"`
	Date   string          `json:"paymentDate"`
}

func (h *InvoiceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	biz, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	filter := invoice.ListFilter{
		Status:     invoice.Status(q.Get("status")),
		CustomerID: q.Get("customer_id"),
		Search:     q.Get("search"),
	}
	if filter.Limit, filter.Offset, err = pagination(r); err != nil {
		writeError(w, r, err)
		return
	}

	invoices, err := h.invoices.List(r.Context(), biz.ID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(invoices))
}

func (h *InvoiceHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	biz, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req CreateInvoiceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	due, err := parseDate("dueDate", req.DueDate)
	if err != nil {
		writeError(w, r, err)
		return
	}

	items := make([]invoice.ItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, invoice.ItemInput{ProductID: strings.TrimSpace(it.ProductID), Quantity: it.Quantity})
	}

	inv, err := h.invoices.Create(r.Context(), invoice.CreateParams{
		BusinessID:    biz.ID,
		CustomerID:    req.CustomerID,
		InvoiceNumber: req.InvoiceNumber,
		DueDate:       due,
		Items:         items,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

func (h *InvoiceHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	biz, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	inv, err := h.invoices.Get(r.Context(), biz.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	biz, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req UpdateInvoiceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	params := invoice.UpdateParams{
		TotalAmount: req.TotalAmount,
		CustomerID:  req.CustomerID,
	}
	if req.DueDate != nil {
		due, err := parseDate("dueDate", *req.DueDate)
		if err != nil {
			writeError(w, r, err)
			return
		}
		params.DueDate = &due
	}

	inv, err := h.invoices.Update(r.Context(), biz.ID, chi.URLParam(r, "id"), params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	biz, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.invoices.Delete(r.Context(), biz.ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *InvoiceHandler) HandleListPayments(w http.ResponseWriter, r *http.Request) {
	biz, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	payments, err := h.invoices.ListPayments(r.Context(), biz.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(payments))
}

// HandleRecordPayment applies a payment and returns the updated invoice.
func (h *InvoiceHandler) HandleRecordPayment(w http.ResponseWriter, r *http.Request) {
	biz, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req PaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	var date time.Time
	if date, err = parseDate("paymentDate", req.Date); err != nil {
		writeError(w, r, err)
		return
	}

	inv, err := h.reconciler.ApplyPayment(r.Context(), biz.ID, chi.URLParam(r, "id"), invoice.PaymentInput{
		Amount: req.Amount,
		Method: req.Method,
		Notes:  req.Notes,
		Date:   date,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) HandleMarkPaid(w http.ResponseWriter, r *http.Request) {
	biz, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	inv, err := h.reconciler.MarkFullyPaid(r.Context(), biz.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// HandleSend delivers the invoice to the customer. The delivery attempt is
// logged even when it fails.
func (h *InvoiceHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	biz, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	msg, err := h.notifier.SendInvoice(r.Context(), biz.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (h *InvoiceHandler) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	biz, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	msgs, err := h.notifier.ListMessages(r.Context(), biz.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(msgs))
}
