package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/loanworks/loan-engine/internal/domain"
	"github.com/loanworks/loan-engine/internal/service"
	"github.com/loanworks/loan-engine/pkg/response"
)

type AuthHandler struct {
	service   *service.AuthService
	validator *validator.Validate
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{
		service:   service,
		validator: newValidator(),
	}
}

// Register handles POST /api/v1/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var request domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	user, err := h.service.Register(r.Context(), &request)
	if err != nil {
		respondError(w, err)
		return
	}

	response.Created(w, map[string]interface{}{
		"user":    user,
		"message": "Registration successful. Check your email for OTP verification.",
	})
}

// VerifyOTP handles POST /api/v1/verify-otp
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var request domain.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	if err := h.service.VerifyOTP(r.Context(), &request); err != nil {
		respondError(w, err)
		return
	}

	response.Success(w, map[string]string{"message": "Email verified successfully"})
}

// Login handles POST /api/v1/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var request domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	result, err := h.service.Login(r.Context(), &request)
	if err != nil {
		respondError(w, err)
		return
	}

	response.Success(w, result)
}
