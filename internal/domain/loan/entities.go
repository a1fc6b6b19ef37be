package loan

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	// StatusFunded is a transition trigger, not a resting state: asking for it
	// lands the loan in StatusRepaying and generates the repayment schedule.
	StatusFunded   Status = "funded"
	StatusRepaying Status = "repaying"
	StatusPaid     Status = "paid"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is a known status value (funded included, since it
// is accepted as a transition request).
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusFunded, StatusRepaying, StatusPaid, StatusRejected:
		return true
	}
	return false
}

type RepaymentStatus string

const (
	RepaymentDue  RepaymentStatus = "due"
	RepaymentPaid RepaymentStatus = "paid"
)

var (
	ErrNotFound          = errors.New("loan not found")
	ErrInvalidTransition = errors.New("invalid loan state transition")
	ErrNotBorrower       = errors.New("borrower id does not reference a borrower")
	ErrNotLender         = errors.New("lender id does not reference a lender")
)

// Loan is a borrowing agreement. RequestDate is date-only and immutable.
// RepaymentSchedule is empty until funding and exactly TermMonths entries
// afterwards, ordered by Seq.
type Loan struct {
	ID                uint64         `gorm:"primaryKey;column:id" json:"-"`
	LoanID            string         `gorm:"size:32;uniqueIndex:ux_loans_loan_id_active" json:"loan_id"`
	BorrowerID        string         `gorm:"size:32;index:idx_loans_borrower_active" json:"borrower_id"`
	LenderID          string         `gorm:"size:32;index:idx_loans_lender" json:"lender_id,omitempty"`
	Amount            float64        `gorm:"type:decimal(18,2)" json:"amount"`
	InterestRate      float64        `gorm:"type:decimal(6,2)" json:"interest_rate"`
	TermMonths        int            `json:"term_months"`
	Status            Status         `gorm:"type:varchar(16);default:'pending'" json:"status"`
	RequestDate       time.Time      `gorm:"type:date" json:"request_date"`
	StatusUpdatedAt   time.Time      `gorm:"autoCreateTime" json:"status_updated_at"`
	RepaymentSchedule []Repayment    `gorm:"foreignKey:LoanRef;references:ID" json:"repayment_schedule"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// Repayment is one scheduled installment. Amount is fixed at schedule
// generation; only Status and Date change afterwards (Date holds the due date
// until payment, then the actual payment date).
type Repayment struct {
	ID          uint64          `gorm:"primaryKey;column:id" json:"-"`
	RepaymentID string          `gorm:"size:40;uniqueIndex:ux_repayments_repayment_id" json:"repayment_id"`
	LoanRef     uint64          `gorm:"index:idx_repayments_loan" json:"-"`
	Seq         int             `json:"seq"`
	Amount      float64         `gorm:"type:decimal(18,2)" json:"amount"`
	Date        time.Time       `gorm:"type:date" json:"date"`
	Status      RepaymentStatus `gorm:"type:varchar(8);default:'due'" json:"status"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Repayment) TableName() string { return "repayments" }

// FirstDue returns the first installment still due, in schedule order.
func (l *Loan) FirstDue() *Repayment {
	for i := range l.RepaymentSchedule {
		if l.RepaymentSchedule[i].Status == RepaymentDue {
			return &l.RepaymentSchedule[i]
		}
	}
	return nil
}

// AllPaid reports whether every installment in the schedule is paid.
// An empty schedule counts as not paid (the loan has never been funded).
func (l *Loan) AllPaid() bool {
	if len(l.RepaymentSchedule) == 0 {
		return false
	}
	for i := range l.RepaymentSchedule {
		if l.RepaymentSchedule[i].Status != RepaymentPaid {
			return false
		}
	}
	return true
}

// CanTransition reports whether a loan may move from its current status to
// the target. Same-status calls are allowed so that a lender can be attached
// without touching the lifecycle. Rejected and paid are terminal.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected
	case StatusApproved:
		return to == StatusRepaying
	case StatusRepaying:
		return to == StatusPaid
	}
	return false
}
