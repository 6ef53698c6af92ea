package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/loanworks/loan-engine/internal/auth"
	"github.com/loanworks/loan-engine/internal/config"
	"github.com/loanworks/loan-engine/internal/domain"
	"github.com/loanworks/loan-engine/internal/service"
	customError "github.com/loanworks/loan-engine/pkg/errors"
	"github.com/loanworks/loan-engine/tests/mocks"
)

type loanHandlerFixture struct {
	handler  *LoanHandler
	loanRepo *mocks.MockLoanRepository
	uow      *mocks.MockUnitOfWork
	identity *auth.Identity
}

func newLoanHandlerFixture() *loanHandlerFixture {
	loanRepo := new(mocks.MockLoanRepository)
	uow := &mocks.MockUnitOfWork{Tx: new(mocks.MockTxRepos)}
	svc := service.NewLoanService(loanRepo, uow, nil, &config.Config{})

	return &loanHandlerFixture{
		handler:  NewLoanHandler(svc),
		loanRepo: loanRepo,
		uow:      uow,
		identity: &auth.Identity{UserID: uuid.New(), Email: "alice@example.com", Role: domain.RoleUser},
	}
}

func (f *loanHandlerFixture) request(method, target string, body []byte, identity *auth.Identity, vars map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if identity != nil {
		req = req.WithContext(auth.WithIdentity(req.Context(), identity))
	}
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestLoanHandler_CreateLoan(t *testing.T) {
	validBody := []byte(`{"amount": 120000, "tenure": 12, "interest_rate": 10}`)

	tests := []struct {
		name       string
		body       []byte
		identity   *auth.Identity
		setupMocks func(f *loanHandlerFixture)
		wantStatus int
		wantCode   string
	}{
		{
			name:     "originates a loan",
			body:     validBody,
			identity: &auth.Identity{UserID: uuid.New(), Role: domain.RoleUser},
			setupMocks: func(f *loanHandlerFixture) {
				f.loanRepo.On("CreateWithSchedule", mock.Anything, mock.Anything, mock.Anything).Return(nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "unauthenticated request is rejected",
			body:       validBody,
			identity:   nil,
			setupMocks: func(f *loanHandlerFixture) {},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHORIZED",
		},
		{
			name:       "admin token cannot originate a loan",
			body:       validBody,
			identity:   &auth.Identity{UserID: uuid.New(), Role: domain.RoleAdmin},
			setupMocks: func(f *loanHandlerFixture) {},
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
		},
		{
			name:       "malformed body",
			body:       []byte(`{"amount": `),
			identity:   &auth.Identity{UserID: uuid.New(), Role: domain.RoleUser},
			setupMocks: func(f *loanHandlerFixture) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "zero amount fails validation",
			body:       []byte(`{"amount": 0, "tenure": 12, "interest_rate": 10}`),
			identity:   &auth.Identity{UserID: uuid.New(), Role: domain.RoleUser},
			setupMocks: func(f *loanHandlerFixture) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing tenure fails validation",
			body:       []byte(`{"amount": 120000, "interest_rate": 10}`),
			identity:   &auth.Identity{UserID: uuid.New(), Role: domain.RoleUser},
			setupMocks: func(f *loanHandlerFixture) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLoanHandlerFixture()
			tt.setupMocks(f)

			req := f.request(http.MethodPost, "/api/v1/loans", tt.body, tt.identity, nil)
			rec := httptest.NewRecorder()

			f.handler.CreateLoan(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				payload := decodeError(t, rec)
				assert.Equal(t, tt.wantCode, payload["code"])
			}
			f.loanRepo.AssertExpectations(t)
		})
	}
}

func TestLoanHandler_GetSchedule(t *testing.T) {
	f := newLoanHandlerFixture()
	f.loanRepo.On("GetByCode", mock.Anything, "LOAN404").Return(nil, sql.ErrNoRows)

	req := f.request(http.MethodGet, "/api/v1/loans/LOAN404/schedule", nil, f.identity, map[string]string{"loanId": "LOAN404"})
	rec := httptest.NewRecorder()

	f.handler.GetSchedule(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	payload := decodeError(t, rec)
	assert.Equal(t, customError.ErrCodeNotFound, payload["code"])
}

func TestLoanHandler_PayInstallment(t *testing.T) {
	t.Run("rejects a non-uuid payment id", func(t *testing.T) {
		f := newLoanHandlerFixture()

		req := f.request(http.MethodPost, "/api/v1/payment-schedule/pay",
			[]byte(`{"payment_id": "not-a-uuid"}`), f.identity, nil)
		rec := httptest.NewRecorder()

		f.handler.PayInstallment(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("paying twice answers conflict", func(t *testing.T) {
		f := newLoanHandlerFixture()
		entryID := uuid.New()

		f.uow.On("WithinTx", mock.Anything).Return(nil)
		f.uow.Tx.On("GetEntryForUpdate", mock.Anything, entryID).Return(&domain.PaymentSchedule{
			ID:       entryID,
			LoanCode: "LOAN001",
			Status:   domain.ScheduleStatusPaid,
		}, nil)
		f.uow.Tx.On("GetLoanForUpdate", mock.Anything, "LOAN001").Return(&domain.Loan{
			LoanCode: "LOAN001",
			Status:   domain.LoanStatusActive,
		}, nil)

		req := f.request(http.MethodPost, "/api/v1/payment-schedule/pay",
			[]byte(`{"payment_id": "`+entryID.String()+`"}`), f.identity, nil)
		rec := httptest.NewRecorder()

		f.handler.PayInstallment(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		payload := decodeError(t, rec)
		assert.Equal(t, customError.ErrCodeAlreadyPaid, payload["code"])
	})
}

func TestLoanHandler_ForecloseLoan(t *testing.T) {
	t.Run("closed loan answers unprocessable", func(t *testing.T) {
		f := newLoanHandlerFixture()
		f.uow.On("WithinTx", mock.Anything).Return(nil)
		f.uow.Tx.On("GetActiveLoanForUpdate", mock.Anything, f.identity.UserID, "LOAN001").Return(nil, sql.ErrNoRows)

		req := f.request(http.MethodPost, "/api/v1/loans/LOAN001/foreclose", nil, f.identity, map[string]string{"loanId": "LOAN001"})
		rec := httptest.NewRecorder()

		f.handler.ForecloseLoan(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		payload := decodeError(t, rec)
		assert.Equal(t, customError.ErrCodeNotEligible, payload["code"])
	})
}

func TestLoanHandler_PreviewForeclosure(t *testing.T) {
	f := newLoanHandlerFixture()
	f.loanRepo.On("GetByCode", mock.Anything, "LOAN001").Return(&domain.Loan{
		LoanCode:        "LOAN001",
		Amount:          decimal.NewFromInt(120000),
		AmountPaid:      decimal.Zero,
		AmountRemaining: decimal.NewFromInt(120000),
		Status:          domain.LoanStatusActive,
		CreatedAt:       time.Now(),
	}, nil)

	req := f.request(http.MethodGet, "/api/v1/loans/LOAN001/foreclosure-details", nil, f.identity, map[string]string{"loanId": "LOAN001"})
	rec := httptest.NewRecorder()

	f.handler.PreviewForeclosure(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Data domain.SettlementQuote `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.True(t, decimal.RequireFromString("6000.00").Equal(payload.Data.ForeclosureDiscount))
	assert.True(t, decimal.RequireFromString("114000.00").Equal(payload.Data.FinalSettlementAmount))
}

func TestRespondError_UntypedIsGeneric(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	payload := decodeError(t, rec)
	assert.Equal(t, "internal server error", payload["message"])
}
