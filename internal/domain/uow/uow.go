package uow

import (
	"context"

	"lendora-backend/internal/domain/loan"
	"lendora-backend/internal/domain/user"
)

type Repos struct {
	Users user.Repository
	Loans loan.Repository
}

// UnitOfWork runs a mutation atomically: either every write inside fn lands
// or none does. Mutations never partially apply.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinLoanTx locks the loan row up-front, then passes it in.
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
