package handler

import (
	"net/http"

	"github.com/loanworks/loan-engine/internal/auth"
	"github.com/loanworks/loan-engine/internal/domain"
	"github.com/loanworks/loan-engine/internal/service"
	"github.com/loanworks/loan-engine/pkg/response"
)

type AdminHandler struct {
	service *service.LoanService
}

func NewAdminHandler(service *service.LoanService) *AdminHandler {
	return &AdminHandler{service: service}
}

// ListAllLoans handles GET /api/v1/admin/loans
func (h *AdminHandler) ListAllLoans(w http.ResponseWriter, r *http.Request) {
	if err := auth.RequireRole(auth.FromContext(r.Context()), domain.RoleAdmin); err != nil {
		respondPolicy(w, err)
		return
	}

	loans, err := h.service.ListAllLoans(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{"loans": loans})
}
