package http

import (
	"context"
	"errors"
	"net/http"

	"bizledger/internal/domain/business"
	"bizledger/internal/shared/apperror"
	"bizledger/internal/shared/middleware"
)

type contextKey int

const businessKey contextKey = iota

// BusinessResolver finds the business owned by an authenticated user.
type BusinessResolver interface {
	ForUser(ctx context.Context, userID string) (*business.Profile, error)
}

// ResolveBusiness loads the caller's business profile and stores it in the
// request context. It must run after middleware.Auth.
func ResolveBusiness(resolver BusinessResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := middleware.UserID(r.Context())
			if !ok {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
				return
			}

			profile, err := resolver.ForUser(r.Context(), userID)
			if err != nil {
				writeError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithBusiness(r.Context(), profile)))
		})
	}
}

// WithBusiness returns a copy of ctx carrying the business profile.
func WithBusiness(ctx context.Context, p *business.Profile) context.Context {
	return context.WithValue(ctx, businessKey, p)
}

func businessFrom(ctx context.Context) (*business.Profile, error) {
	p, ok := ctx.Value(businessKey).(*business.Profile)
	if !ok || p == nil {
		return nil, apperror.NotFound("http.business", errors.New("business profile not resolved"))
	}
	return p, nil
}

// BusinessHandler serves the caller's business profile.
type BusinessHandler struct {
	service *business.Service
}

func NewBusinessHandler(service *business.Service) *BusinessHandler {
	return &BusinessHandler{service: service}
}

type CreateBusinessRequest struct {
	BusinessName   string `json:"businessName"`
	BusinessEmail  string `json:"businessEmail"`
	Phone          string `json:"phone"`
	WhatsAppNumber string `json:"whatsappNumber"`
}

type UpdateBusinessRequest struct {
	BusinessName   *string `json:"businessName"`
	BusinessEmail  *string `json:"businessEmail"`
	Phone          *string `json:"phone"`
	WhatsAppNumber *string `json:"whatsappNumber"`
}

// HandleCreate registers the caller's business. It runs after middleware.Auth
// but before ResolveBusiness, since the profile does not exist yet.
func (h *BusinessHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
		return
	}

	var req CreateBusinessRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.service.Create(r.Context(), business.CreateParams{
		UserID:         userID,
		BusinessName:   req.BusinessName,
		BusinessEmail:  req.BusinessEmail,
		Phone:          req.Phone,
		WhatsAppNumber: req.WhatsAppNumber,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *BusinessHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	biz, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req UpdateBusinessRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.service.Update(r.Context(), biz.ID, business.UpdateParams{
		BusinessName:   req.BusinessName,
		BusinessEmail:  req.BusinessEmail,
		Phone:          req.Phone,
		WhatsAppNumber: req.WhatsAppNumber,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *BusinessHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := businessFrom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
