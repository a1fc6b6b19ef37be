package loan

import (
	domain "lendora-backend/internal/domain/loan"
)

type CreateLoanInput struct {
	BorrowerID   string  `json:"borrower_id"`
	Amount       float64 `json:"amount"`
	InterestRate float64 `json:"interest_rate"`
	TermMonths   int     `json:"term_months"`
}

type UpdateStatusInput struct {
	LoanID string `json:"loan_id"`
	// Status is the requested target; StatusFunded is overridden to
	// StatusRepaying and triggers schedule generation.
	Status domain.Status `json:"status"`
	// LenderID, when non-empty, is merged into the loan regardless of Status.
	LenderID string `json:"lender_id"`
}

type RepaymentDTO struct {
	RepaymentID string  `json:"repayment_id"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Status      string  `json:"status"`
}

type LoanDTO struct {
	LoanID            string         `json:"loan_id"`
	BorrowerID        string         `json:"borrower_id"`
	LenderID          string         `json:"lender_id,omitempty"`
	Amount            float64        `json:"amount"`
	InterestRate      float64        `json:"interest_rate"`
	TermMonths        int            `json:"term_months"`
	Status            string         `json:"status"`
	RequestDate       string         `json:"request_date"`
	RepaymentSchedule []RepaymentDTO `json:"repayment_schedule"`
}

const dateLayout = "2006-01-02"

func toRepaymentDTO(r *domain.Repayment) RepaymentDTO {
	return RepaymentDTO{
		RepaymentID: r.RepaymentID,
		Amount:      r.Amount,
		Date:        r.Date.Format(dateLayout),
		Status:      string(r.Status),
	}
}

func toDTO(l *domain.Loan) *LoanDTO {
	dto := &LoanDTO{
		LoanID:            l.LoanID,
		BorrowerID:        l.BorrowerID,
		LenderID:          l.LenderID,
		Amount:            l.Amount,
		InterestRate:      l.InterestRate,
		TermMonths:        l.TermMonths,
		Status:            string(l.Status),
		RequestDate:       l.RequestDate.Format(dateLayout),
		RepaymentSchedule: make([]RepaymentDTO, 0, len(l.RepaymentSchedule)),
	}
	for i := range l.RepaymentSchedule {
		dto.RepaymentSchedule = append(dto.RepaymentSchedule, toRepaymentDTO(&l.RepaymentSchedule[i]))
	}
	return dto
}
