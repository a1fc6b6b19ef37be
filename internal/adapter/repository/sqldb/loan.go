package sqldb

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	loanDomain "lendora-backend/internal/domain/loan"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

// scheduleOrdered preloads the repayment schedule in installment order, so
// "first due" scans see chronological order.
func scheduleOrdered(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Omit("RepaymentSchedule").Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Preload("RepaymentSchedule", scheduleOrdered).
		Where("loan_id = ?", loanID).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	q := r.db.WithContext(ctx)
	// SQLite has no FOR UPDATE; its single writer already serializes us.
	if r.db.Dialector.Name() == "mysql" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var out loanDomain.Loan
	res := q.
		Preload("RepaymentSchedule", scheduleOrdered).
		Where("loan_id = ?", loanID).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) CreateRepayments(ctx context.Context, rs []loanDomain.Repayment) error {
	if len(rs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rs).Error
}

func (r *LoanRepository) SaveRepayment(ctx context.Context, rep *loanDomain.Repayment) error {
	return r.db.WithContext(ctx).Save(rep).Error
}

func (r *LoanRepository) List(ctx context.Context, f loanDomain.ListFilter) ([]loanDomain.Loan, error) {
	q := r.db.WithContext(ctx).Preload("RepaymentSchedule", scheduleOrdered).Order("id ASC")
	if f.BorrowerID != "" {
		q = q.Where("borrower_id = ?", f.BorrowerID)
	}
	if f.LenderID != "" {
		q = q.Where("lender_id = ?", f.LenderID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var out []loanDomain.Loan
	res := q.Find(&out)
	return out, res.Error
}
