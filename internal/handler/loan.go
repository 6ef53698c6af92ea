package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/loanworks/loan-engine/internal/auth"
	"github.com/loanworks/loan-engine/internal/domain"
	"github.com/loanworks/loan-engine/internal/service"
	"github.com/loanworks/loan-engine/pkg/response"
)

type LoanHandler struct {
	service   *service.LoanService
	validator *validator.Validate
}

func NewLoanHandler(service *service.LoanService) *LoanHandler {
	return &LoanHandler{
		service:   service,
		validator: newValidator(),
	}
}

// CreateLoan handles POST /api/v1/loans
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())
	if err := auth.RequireRole(identity, domain.RoleUser); err != nil {
		respondPolicy(w, err)
		return
	}

	var request domain.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	result, err := h.service.CreateLoan(r.Context(), identity.UserID, &request)
	if err != nil {
		respondError(w, err)
		return
	}

	response.Created(w, result)
}

// ListLoans handles GET /api/v1/loans
func (h *LoanHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())
	if err := auth.RequireRole(identity, domain.RoleUser); err != nil {
		respondPolicy(w, err)
		return
	}

	loans, err := h.service.ListLoans(r.Context(), identity.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{"loans": loans})
}

// GetSchedule handles GET /api/v1/loans/{loanId}/schedule
func (h *LoanHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())
	if err := auth.RequireRole(identity, domain.RoleUser); err != nil {
		respondPolicy(w, err)
		return
	}

	loanCode := mux.Vars(r)["loanId"]
	schedule, err := h.service.GetSchedule(r.Context(), identity.UserID, loanCode)
	if err != nil {
		respondError(w, err)
		return
	}

	response.Success(w, schedule)
}

// PayInstallment handles POST /api/v1/payment-schedule/pay
func (h *LoanHandler) PayInstallment(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())
	if err := auth.RequireRole(identity, domain.RoleUser); err != nil {
		respondPolicy(w, err)
		return
	}

	var request domain.PayInstallmentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "payment_id must be a valid id")
		return
	}

	entryID, err := uuid.Parse(request.PaymentID)
	if err != nil {
		response.BadRequest(w, "payment_id must be a valid id")
		return
	}

	receipt, err := h.service.PayInstallment(r.Context(), entryID)
	if err != nil {
		respondError(w, err)
		return
	}

	response.Success(w, receipt)
}

// ForecloseLoan handles POST /api/v1/loans/{loanId}/foreclose
func (h *LoanHandler) ForecloseLoan(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())
	if err := auth.RequireRole(identity, domain.RoleUser); err != nil {
		respondPolicy(w, err)
		return
	}

	loanCode := mux.Vars(r)["loanId"]
	result, err := h.service.ForecloseLoan(r.Context(), identity.UserID, loanCode)
	if err != nil {
		respondError(w, err)
		return
	}

	response.Success(w, result)
}

// PreviewForeclosure handles GET /api/v1/loans/{loanId}/foreclosure-details
func (h *LoanHandler) PreviewForeclosure(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())
	if err := auth.RequireRole(identity, domain.RoleUser); err != nil {
		respondPolicy(w, err)
		return
	}

	loanCode := mux.Vars(r)["loanId"]
	quote, err := h.service.PreviewForeclosure(r.Context(), loanCode)
	if err != nil {
		respondError(w, err)
		return
	}

	response.Success(w, quote)
}

func respondPolicy(w http.ResponseWriter, err error) {
	if err == auth.ErrUnauthenticated {
		response.Unauthorized(w, "authentication required")
		return
	}
	response.Forbidden(w, "access denied")
}
