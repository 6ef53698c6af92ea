package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/loanworks/loan-engine/internal/config"
	"github.com/loanworks/loan-engine/internal/repository"
	"github.com/loanworks/loan-engine/internal/service"
)

func main() {
	log.Println("Starting loan reminder scheduler...")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	loanRepo := repository.NewLoanRepository(db)
	uow := repository.NewUnitOfWork(db)
	loanService := service.NewLoanService(loanRepo, uow, nil, cfg)

	c := cron.New(cron.WithSeconds())

	// Daily scan at 9 AM for installments falling due soon
	_, err = c.AddFunc("0 0 9 * * *", func() {
		logUpcomingInstallments(loanService)
	})
	if err != nil {
		log.Fatalf("Error scheduling reminder job: %v", err)
	}

	c.Start()
	log.Println("Scheduler started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
}

// logUpcomingInstallments records each installment due within the reminder
// window. Email delivery is intentionally out of scope; ops tooling tails
// these lines.
func logUpcomingInstallments(loanService *service.LoanService) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	due, err := loanService.UpcomingInstallments(ctx)
	if err != nil {
		log.Printf("Error fetching upcoming installments: %v", err)
		return
	}

	log.Printf("Found %d installments due soon", len(due))
	for _, installment := range due {
		log.Printf("Reminder: loan %s installment %d of %s due on %s",
			installment.LoanCode,
			installment.InstallmentNumber,
			installment.Amount.StringFixed(2),
			installment.DueDate.Format("2006-01-02"),
		)
	}
}
