package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"bizledger/internal/domain/customer"
)

type CustomerHandler struct {
	service *customer.Service
}

func NewCustomerHandler(service *customer.Service) *CustomerHandler {
	return &CustomerHandler{service: service}
}

type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (h *CustomerHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	biz, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	filter := customer.ListFilter{Search: r.URL.Query().Get("search")}
	if filter.Limit, filter.Offset, err = pagination(r); err != nil {
		writeError(w, r, err)
		return
	}

	customers, err := h.service.List(r.Context(), biz.ID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(customers))
}

func (h *CustomerHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	biz, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req CreateCustomerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.service.Create(r.Context(), customer.CreateParams{
		BusinessID: biz.ID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CustomerHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	biz, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.service.Get(r.Context(), biz.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CustomerHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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
