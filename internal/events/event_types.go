package events

import (
	"time"

	"lendora-backend/internal/domain/loan"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserCreated       EventType = "user_created"
	EventLoanCreated       EventType = "loan_created"
	EventLoanStatusChanged EventType = "loan_status_changed"
	EventRepaymentApplied  EventType = "repayment_applied"
)

// Event is a domain event emitted after a store mutation applies. Consumers
// subscribe to these instead of watching the collections directly.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserCreatedPayload payload.
type UserCreatedPayload struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// LoanCreatedPayload payload.
type LoanCreatedPayload struct {
	LoanID     string  `json:"loan_id"`
	BorrowerID string  `json:"borrower_id"`
	Amount     float64 `json:"amount"`
}

// LoanStatusChangedPayload payload.
type LoanStatusChangedPayload struct {
	LoanID    string      `json:"loan_id"`
	OldStatus loan.Status `json:"old_status"`
	NewStatus loan.Status `json:"new_status"`
	LenderID  string      `json:"lender_id,omitempty"`
}

// RepaymentAppliedPayload payload.
type RepaymentAppliedPayload struct {
	LoanID      string `json:"loan_id"`
	RepaymentID string `json:"repayment_id"`
	LoanClosed  bool   `json:"loan_closed"`
}
