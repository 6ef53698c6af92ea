package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/loanworks/loan-engine/internal/config"
	"github.com/loanworks/loan-engine/internal/domain"
	"github.com/loanworks/loan-engine/internal/finance"
	"github.com/loanworks/loan-engine/internal/repository"
	customError "github.com/loanworks/loan-engine/pkg/errors"
	"github.com/loanworks/loan-engine/pkg/utils"
)

// LoanService is the loan engine: origination with schedule materialization,
// installment payment application, and foreclosure settlement. All state
// mutations run inside a single locking transaction via the unit of work.
type LoanService struct {
	loanRepo repository.LoanRepository
	uow      repository.UnitOfWork
	redis    *redis.Client
	config   *config.Config
}

func NewLoanService(
	loanRepo repository.LoanRepository,
	uow repository.UnitOfWork,
	redisClient *redis.Client,
	cfg *config.Config,
) *LoanService {
	return &LoanService{
		loanRepo: loanRepo,
		uow:      uow,
		redis:    redisClient,
		config:   cfg,
	}
}

// CreateLoan originates a loan for a user: computes the EMI terms, generates
// the full amortization schedule, and persists both atomically. The loan code
// is reserved from a sequence inside the same transaction.
func (s *LoanService) CreateLoan(ctx context.Context, ownerID uuid.UUID, request *domain.CreateLoanRequest) (*domain.CreateLoanResponse, error) {
	terms, err := finance.ComputeEMI(request.Amount, request.TenureMonths, request.InterestRate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	startDate := utils.Today()

	loan := &domain.Loan{
		ID:                 uuid.New(),
		UserID:             ownerID,
		Amount:             request.Amount,
		TenureMonths:       request.TenureMonths,
		InterestRate:       request.InterestRate,
		MonthlyInstallment: terms.MonthlyInstallment,
		TotalInterest:      terms.TotalInterest,
		TotalPayable:       terms.TotalPayable,
		Status:             domain.LoanStatusActive,
		AmountPaid:         decimal.Zero,
		AmountRemaining:    request.Amount,
		CreatedAt:          now,
	}

	installments := finance.BuildSchedule(request.Amount, terms.MonthlyInstallment, request.InterestRate, startDate, request.TenureMonths)
	entries := make([]*domain.PaymentSchedule, 0, len(installments))
	for _, installment := range installments {
		entries = append(entries, &domain.PaymentSchedule{
			ID:                 uuid.New(),
			InstallmentNumber:  installment.Number,
			DueDate:            installment.DueDate,
			PrincipalComponent: installment.Principal,
			InterestComponent:  installment.Interest,
			RemainingBalance:   installment.Balance,
			Status:             domain.ScheduleStatusPending,
			CreatedAt:          now,
		})
	}

	if err := s.loanRepo.CreateWithSchedule(ctx, loan, entries); err != nil {
		return nil, customError.WrapPersistence(err)
	}

	s.invalidateLoanCache(ctx, ownerID)

	return &domain.CreateLoanResponse{Loan: loan, Schedule: entries}, nil
}

// ListLoans returns a user's loans, served from the redis cache when warm.
func (s *LoanService) ListLoans(ctx context.Context, ownerID uuid.UUID) ([]*domain.LoanSummary, error) {
	cacheKey := loanCacheKey(ownerID)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var summaries []*domain.LoanSummary
			if err := json.Unmarshal([]byte(cached), &summaries); err == nil {
				return summaries, nil
			}
		}
	}

	loans, err := s.loanRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, customError.WrapPersistence(err)
	}

	summaries := make([]*domain.LoanSummary, 0, len(loans))
	for _, loan := range loans {
		summaries = append(summaries, loan.Summary())
	}

	if s.redis != nil {
		if payload, err := json.Marshal(summaries); err == nil {
			s.redis.Set(ctx, cacheKey, payload, s.config.Redis.GetCacheTTL())
		}
	}

	return summaries, nil
}

// ListAllLoans returns every loan in the system. The API layer gates this
// behind the admin role policy.
func (s *LoanService) ListAllLoans(ctx context.Context) ([]*domain.LoanSummary, error) {
	loans, err := s.loanRepo.ListAll(ctx)
	if err != nil {
		return nil, customError.WrapPersistence(err)
	}

	summaries := make([]*domain.LoanSummary, 0, len(loans))
	for _, loan := range loans {
		summaries = append(summaries, loan.Summary())
	}
	return summaries, nil
}

// GetSchedule returns a loan's amortization schedule for its owner.
func (s *LoanService) GetSchedule(ctx context.Context, ownerID uuid.UUID, loanCode string) (*domain.ScheduleResponse, error) {
	loan, err := s.loanRepo.GetByCode(ctx, loanCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapLoanNotFound(loanCode)
	}
	if err != nil {
		return nil, customError.WrapPersistence(err)
	}
	if loan.UserID != ownerID {
		return nil, customError.WrapLoanNotFound(loanCode)
	}

	entries, err := s.loanRepo.GetSchedule(ctx, loanCode)
	if err != nil {
		return nil, customError.WrapPersistence(err)
	}

	return &domain.ScheduleResponse{LoanCode: loanCode, Schedule: entries}, nil
}

// PayInstallment applies a payment to a single pending schedule entry. The
// entry and its loan are re-read under write locks so a concurrent payment
// on the same entry sees PAID and fails; the loan's paid/remaining amounts,
// next due date, and closing transition commit atomically with the entry.
func (s *LoanService) PayInstallment(ctx context.Context, entryID uuid.UUID) (*domain.PaymentReceipt, error) {
	var receipt *domain.PaymentReceipt

	err := s.uow.WithinTx(ctx, func(tx repository.TxRepos) error {
		entry, err := tx.GetEntryForUpdate(ctx, entryID)
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapPaymentNotFound(entryID.String())
		}
		if err != nil {
			return err
		}

		loan, err := tx.GetLoanForUpdate(ctx, entry.LoanCode)
		if err != nil {
			return err
		}

		if entry.Status != domain.ScheduleStatusPending {
			return customError.WrapAlreadyPaid(entryID.String())
		}

		if err := tx.UpdateEntryStatus(ctx, entry.ID, domain.ScheduleStatusPaid); err != nil {
			return err
		}

		loan.AmountPaid = loan.AmountPaid.Add(loan.MonthlyInstallment)
		loan.AmountRemaining = loan.Amount.Sub(loan.AmountPaid)

		next, err := tx.NextPending(ctx, loan.LoanCode)
		if err != nil {
			return err
		}
		if next != nil {
			dueDate := next.DueDate
			loan.NextDueDate = &dueDate
		} else {
			loan.NextDueDate = nil
			loan.Status = domain.LoanStatusClosed
		}

		if err := tx.UpdateLoan(ctx, loan); err != nil {
			return err
		}

		receipt = &domain.PaymentReceipt{
			EntryID:           entry.ID,
			LoanCode:          loan.LoanCode,
			InstallmentNumber: entry.InstallmentNumber,
			AmountPaid:        loan.MonthlyInstallment,
			LoanAmountPaid:    loan.AmountPaid,
			AmountRemaining:   loan.AmountRemaining,
			NextDueDate:       loan.NextDueDate,
			LoanStatus:        loan.Status,
		}
		s.invalidateLoanCache(ctx, loan.UserID)
		return nil
	})
	if err != nil {
		return nil, asBusinessError(err)
	}

	return receipt, nil
}

// ForecloseLoan settles an active loan early. The settlement sums every
// schedule entry whose due date has elapsed, discounts 5% of the remaining
// interest, closes the loan, and blanket-marks the whole schedule PAID.
func (s *LoanService) ForecloseLoan(ctx context.Context, ownerID uuid.UUID, loanCode string) (*domain.SettlementResult, error) {
	var result *domain.SettlementResult

	err := s.uow.WithinTx(ctx, func(tx repository.TxRepos) error {
		loan, err := tx.GetActiveLoanForUpdate(ctx, ownerID, loanCode)
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapNotEligible(loanCode)
		}
		if err != nil {
			return err
		}

		schedule, err := tx.GetSchedule(ctx, loanCode)
		if err != nil {
			return err
		}

		today := utils.Today()
		settlement := finance.SettleAt(loan, schedule, today)

		loan.Status = domain.LoanStatusClosed
		loan.NextDueDate = nil
		loan.ForeclosureDate = &today
		loan.ForeclosureDiscount = nullDecimal(settlement.Discount)
		loan.FinalSettlementAmount = nullDecimal(settlement.FinalSettlement)

		if err := tx.UpdateLoan(ctx, loan); err != nil {
			return err
		}
		if err := tx.MarkAllPaid(ctx, loanCode); err != nil {
			return err
		}

		result = &domain.SettlementResult{
			LoanCode:              loan.LoanCode,
			ForeclosureDiscount:   settlement.Discount,
			FinalSettlementAmount: settlement.FinalSettlement,
			ForeclosureDate:       today,
			Status:                loan.Status,
		}
		s.invalidateLoanCache(ctx, loan.UserID)
		return nil
	})
	if err != nil {
		return nil, asBusinessError(err)
	}

	return result, nil
}

// PreviewForeclosure quotes an early settlement without touching any state.
func (s *LoanService) PreviewForeclosure(ctx context.Context, loanCode string) (*domain.SettlementQuote, error) {
	loan, err := s.loanRepo.GetByCode(ctx, loanCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapLoanNotFound(loanCode)
	}
	if err != nil {
		return nil, customError.WrapPersistence(err)
	}

	return finance.QuoteSettlement(loan), nil
}

// UpcomingInstallments lists pending installments of active loans falling
// due within the configured reminder window.
func (s *LoanService) UpcomingInstallments(ctx context.Context) ([]*domain.UpcomingInstallment, error) {
	from := utils.Today()
	to := from.AddDate(0, 0, s.config.Business.ReminderDays)

	due, err := s.loanRepo.ListDueBetween(ctx, from, to)
	if err != nil {
		return nil, customError.WrapPersistence(err)
	}
	return due, nil
}

func (s *LoanService) invalidateLoanCache(ctx context.Context, ownerID uuid.UUID) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, loanCacheKey(ownerID)).Err(); err != nil {
		log.Printf("failed to invalidate loan cache for %s: %v", ownerID, err)
	}
}

func nullDecimal(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func loanCacheKey(ownerID uuid.UUID) string {
	return fmt.Sprintf("loans:owner:%s", ownerID)
}

// asBusinessError passes typed errors through and hides raw storage failures
// behind the generic persistence error.
func asBusinessError(err error) error {
	if customError.IsBusiness(err) {
		return err
	}
	return customError.WrapPersistence(err)
}
