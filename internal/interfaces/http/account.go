package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bizledger/internal/domain/account"
)

// AccountHandler serves the chart of accounts
type AccountHandler struct {
	service *account.Service
}

func NewAccountHandler(service *account.Service) *AccountHandler {
	return &AccountHandler{service: service}
}

type CreateAccountRequest struct {
	AccountName string  `json:"accountName"`
	AccountType string  `json:"accountType"`
	ParentID    *string `json:"parentId"`
}

type UpdateAccountRequest struct {
	AccountName *string `json:"accountName"`
	AccountType *string `json:"accountType"`
	ParentID    *string `json:"parentId"`
}

// HandleList returns the chart of accounts. ?type= filters by account type;
// ?grouped=true returns the accounts bucketed by type.
func (h *AccountHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	biz, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	accounts, err := h.service.ListAccounts(r.Context(), biz.ID, q.Get("type"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if grouped, _ := strconv.ParseBool(q.Get("grouped")); grouped {
		writeJSON(w, http.StatusOK, account.GroupByType(accounts))
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(accounts))
}

func (h *AccountHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	biz, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req CreateAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	a, err := h.service.CreateAccount(r.Context(), account.CreateParams{
		BusinessID:  biz.ID,
		AccountName: req.AccountName,
		AccountType: req.AccountType,
		ParentID:    req.ParentID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *AccountHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	biz, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	a, err := h.service.GetAccount(r.Context(), biz.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AccountHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	biz, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req UpdateAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	a, err := h.service.UpdateAccount(r.Context(), biz.ID, chi.URLParam(r, "id"), account.UpdateParams{
		AccountName: req.AccountName,
		AccountType: req.AccountType,
		ParentID:    req.ParentID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AccountHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	biz, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.DeleteAccount(r.Context(), biz.ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleBalances returns the cash position across bank and cash accounts.
func (h *AccountHandler) HandleBalances(w http.ResponseWriter, r *http.Request) {
	biz, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	pos, err := h.service.CashPosition(r.Context(), biz.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pos)
}
