// Package seed populates the store with demo users and loans so a fresh
// in-memory database has something to show. Runs only when the store is
// empty; restarting with a persistent database keeps existing data.
package seed

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	loanDomain "lendora-backend/internal/domain/loan"
	userDomain "lendora-backend/internal/domain/user"
	"lendora-backend/pkg/id"
)

type demoUser struct {
	Name        string
	Email       string
	Role        userDomain.Role
	CreditScore int
	Password    string
}

// Demo credentials are intentionally well-known; this seeds a mock system.
var demoUsers = []demoUser{
	{Name: "Ada Admin", Email: "admin@lendora.dev", Role: userDomain.RoleAdmin, Password: "admin123"},
	{Name: "Bea Borrower", Email: "bea@lendora.dev", Role: userDomain.RoleBorrower, CreditScore: 720, Password: "borrow12"},
	{Name: "Ben Borrower", Email: "ben@lendora.dev", Role: userDomain.RoleBorrower, CreditScore: 655, Password: "borrow34"},
	{Name: "Bella Borrower", Email: "bella@lendora.dev", Role: userDomain.RoleBorrower, CreditScore: 810, Password: "borrow56"},
	{Name: "Len Lender", Email: "len@lendora.dev", Role: userDomain.RoleLender, Password: "lend1234"},
	{Name: "Lena Lender", Email: "lena@lendora.dev", Role: userDomain.RoleLender, Password: "lend5678"},
	{Name: "Ana Analyst", Email: "ana@lendora.dev", Role: userDomain.RoleAnalyst, Password: "analyze1"},
}

// Run inserts the demo data set. It is a no-op when users already exist.
func Run(ctx context.Context, users userDomain.Repository, loans loanDomain.Repository, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	existing, err := users.List(ctx)
	if err != nil {
		return fmt.Errorf("seed: list users: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("seed skipped, store not empty", zap.Int("users", len(existing)))
		return nil
	}

	byEmail := make(map[string]*userDomain.User, len(demoUsers))
	for _, du := range demoUsers {
		u := &userDomain.User{
			UserID:      id.NewID32(),
			Name:        du.Name,
			Email:       du.Email,
			Role:        du.Role,
			CreditScore: du.CreditScore,
			Password:    du.Password,
		}
		if err := users.Create(ctx, u); err != nil {
			return fmt.Errorf("seed: create user %s: %w", du.Email, err)
		}
		byEmail[du.Email] = u
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	bea := byEmail["bea@lendora.dev"]
	ben := byEmail["ben@lendora.dev"]
	bella := byEmail["bella@lendora.dev"]
	lenny := byEmail["len@lendora.dev"]
	lena := byEmail["lena@lendora.dev"]

	type demoLoan struct {
		borrower  *userDomain.User
		lender    *userDomain.User
		amount    float64
		rate      float64
		term      int
		status    loanDomain.Status
		requested time.Time
		paidUpTo  int // installments already settled, for repaying/paid loans
	}
	demoLoans := []demoLoan{
		{borrower: bea, amount: 4000, rate: 8, term: 6, status: loanDomain.StatusPending, requested: today},
		{borrower: ben, amount: 9500, rate: 12.5, term: 12, status: loanDomain.StatusApproved, requested: today.AddDate(0, 0, -7)},
		{borrower: bella, amount: 25000, rate: 6, term: 24, status: loanDomain.StatusRejected, requested: today.AddDate(0, 0, -30)},
		{borrower: bea, lender: lenny, amount: 12000, rate: 10, term: 12, status: loanDomain.StatusRepaying, requested: today.AddDate(0, -4, 0), paidUpTo: 3},
		{borrower: bella, lender: lena, amount: 1200, rate: 10, term: 3, status: loanDomain.StatusPaid, requested: today.AddDate(0, -5, 0), paidUpTo: 3},
	}

	for _, dl := range demoLoans {
		l := &loanDomain.Loan{
			LoanID:          id.NewID32(),
			BorrowerID:      dl.borrower.UserID,
			Amount:          dl.amount,
			InterestRate:    dl.rate,
			TermMonths:      dl.term,
			Status:          dl.status,
			RequestDate:     dl.requested,
			StatusUpdatedAt: dl.requested,
		}
		if dl.lender != nil {
			l.LenderID = dl.lender.UserID
		}
		if err := loans.Create(ctx, l); err != nil {
			return fmt.Errorf("seed: create loan for %s: %w", dl.borrower.Email, err)
		}

		if dl.status != loanDomain.StatusRepaying && dl.status != loanDomain.StatusPaid {
			continue
		}
		installment := math.Round(dl.amount*(1+dl.rate/100)/float64(dl.term)*100) / 100
		schedule := make([]loanDomain.Repayment, 0, dl.term)
		for i := 0; i < dl.term; i++ {
			rep := loanDomain.Repayment{
				RepaymentID: id.RepaymentID(l.LoanID, i+1),
				LoanRef:     l.ID,
				Seq:         i + 1,
				Amount:      installment,
				Date:        dl.requested.AddDate(0, i+1, 0),
				Status:      loanDomain.RepaymentDue,
			}
			if i < dl.paidUpTo {
				rep.Status = loanDomain.RepaymentPaid
			}
			schedule = append(schedule, rep)
		}
		if err := loans.CreateRepayments(ctx, schedule); err != nil {
			return fmt.Errorf("seed: create schedule for %s: %w", l.LoanID, err)
		}
	}

	logger.Info("seeded demo data", zap.Int("users", len(demoUsers)), zap.Int("loans", len(demoLoans)))
	return nil
}
