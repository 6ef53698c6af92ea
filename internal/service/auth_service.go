package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/loanworks/loan-engine/internal/auth"
	"github.com/loanworks/loan-engine/internal/domain"
	"github.com/loanworks/loan-engine/internal/repository"
	customError "github.com/loanworks/loan-engine/pkg/errors"
	"github.com/loanworks/loan-engine/pkg/utils"
)

// OTPSender delivers a verification code to a user. Actual email transport
// is out of scope; the default implementation just logs the code.
type OTPSender interface {
	SendOTP(ctx context.Context, email, otp string) error
}

// LogOTPSender writes verification codes to the process log.
type LogOTPSender struct{}

func (LogOTPSender) SendOTP(_ context.Context, email, otp string) error {
	log.Printf("verification OTP for %s: %s", email, otp)
	return nil
}

// AuthService handles registration, email verification, and login. The user
// repository is an explicit dependency, never resolved from global state.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	otp      OTPSender
}

func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager, otp OTPSender) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		otp:      otp,
	}
}

// Register creates an unverified account and dispatches its OTP.
func (s *AuthService) Register(ctx context.Context, request *domain.RegisterRequest) (*domain.UserSummary, error) {
	role := strings.ToLower(request.Role)
	if role == "" {
		role = domain.RoleUser
	}
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return nil, customError.WrapValidation("role must be admin or user")
	}

	existing, err := s.userRepo.GetByEmail(ctx, request.Email)
	if err == nil && existing != nil {
		return nil, customError.WrapEmailExists(request.Email)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapPersistence(err)
	}

	hash, err := auth.HashPassword(request.Password)
	if err != nil {
		return nil, customError.WrapValidation("password could not be processed")
	}

	otp := utils.GenerateOTP()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     request.Username,
		Email:        request.Email,
		PasswordHash: hash,
		Role:         role,
		IsVerified:   false,
		OTP:          &otp,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, customError.WrapPersistence(err)
	}

	// Delivery failure must not lose the registration; the code can be
	// resent by registering support tooling against the stored OTP.
	if err := s.otp.SendOTP(ctx, user.Email, otp); err != nil {
		log.Printf("failed to send OTP to %s: %v", user.Email, err)
	}

	return user.Summary(), nil
}

// VerifyOTP marks an account verified when the submitted code matches, and
// clears the stored code.
func (s *AuthService) VerifyOTP(ctx context.Context, request *domain.VerifyOTPRequest) error {
	user, err := s.userRepo.GetByEmail(ctx, request.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return customError.WrapUserNotFound(request.Email)
	}
	if err != nil {
		return customError.WrapPersistence(err)
	}

	if user.OTP == nil || *user.OTP != request.OTP {
		return customError.WrapValidation("invalid OTP")
	}

	user.IsVerified = true
	user.OTP = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return customError.WrapPersistence(err)
	}
	return nil
}

// Login checks credentials and verification state and issues a token pair.
// Wrong email and wrong password produce the same answer.
func (s *AuthService) Login(ctx context.Context, request *domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, request.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapValidation("invalid email or password")
	}
	if err != nil {
		return nil, customError.WrapPersistence(err)
	}

	if !auth.CheckPasswordHash(request.Password, user.PasswordHash) {
		return nil, customError.WrapValidation("invalid email or password")
	}

	if !user.IsVerified {
		return nil, customError.WrapEmailNotVerified(user.Email)
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, customError.WrapPersistence(err)
	}

	return &domain.LoginResponse{
		User:         user.Summary(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}
