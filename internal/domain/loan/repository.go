package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	Save(ctx context.Context, l *Loan) error
	CreateRepayments(ctx context.Context, rs []Repayment) error
	SaveRepayment(ctx context.Context, r *Repayment) error
	List(ctx context.Context, f ListFilter) ([]Loan, error)
}

// ListFilter narrows List results; zero values mean "no constraint".
type ListFilter struct {
	BorrowerID string
	LenderID   string
	Status     Status
}
