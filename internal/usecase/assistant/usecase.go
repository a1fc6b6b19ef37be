// Package assistant answers analyst questions over the full loan book by
// handing the serialized collections to a generative model.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	loanDomain "lendora-backend/internal/domain/loan"
	userDomain "lendora-backend/internal/domain/user"
)

// ErrDisabled is returned when no generator is configured (no API key).
var ErrDisabled = errors.New("assistant is not configured")

// ErrEmptyQuestion is returned for blank input.
var ErrEmptyQuestion = errors.New("question must not be empty")

// Generator produces a text answer for a prompt. Satisfied by the gemini
// client.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

type Usecase struct {
	gen   Generator
	users userDomain.Repository
	loans loanDomain.Repository
}

func NewUsecase(gen Generator, users userDomain.Repository, loans loanDomain.Repository) *Usecase {
	return &Usecase{gen: gen, users: users, loans: loans}
}

// Enabled reports whether a generator is wired in.
func (u *Usecase) Enabled() bool { return u.gen != nil }

type promptUser struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	CreditScore int    `json:"creditScore,omitempty"`
}

type promptRepayment struct {
	ID     string  `json:"id"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
	Status string  `json:"status"`
}

type promptLoan struct {
	ID                string            `json:"id"`
	BorrowerID        string            `json:"borrowerId"`
	LenderID          string            `json:"lenderId,omitempty"`
	Amount            float64           `json:"amount"`
	InterestRate      float64           `json:"interestRate"`
	Term              int               `json:"term"`
	Status            string            `json:"status"`
	RequestDate       string            `json:"requestDate"`
	RepaymentSchedule []promptRepayment `json:"repaymentSchedule"`
}

// Ask builds the analyst prompt from the current collections and the question
// and returns the model's markdown answer. Generation failures come back as a
// chat-style apology rather than an error; only configuration and data-access
// problems surface as errors.
func (u *Usecase) Ask(ctx context.Context, question string) (string, error) {
	if u.gen == nil {
		return "", ErrDisabled
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}

	prompt, err := u.buildPrompt(ctx, question)
	if err != nil {
		return "", err
	}

	answer, err := u.gen.GenerateContent(ctx, prompt)
	if err != nil {
		return fmt.Sprintf("Sorry, I encountered an error. %v", err), nil
	}
	return answer, nil
}

func (u *Usecase) buildPrompt(ctx context.Context, question string) (string, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		return "", err
	}
	loans, err := u.loans.List(ctx, loanDomain.ListFilter{})
	if err != nil {
		return "", err
	}

	pu := make([]promptUser, 0, len(users))
	for _, usr := range users {
		pu = append(pu, promptUser{
			ID:          usr.UserID,
			Name:        usr.Name,
			Email:       usr.Email,
			Role:        string(usr.Role),
			CreditScore: usr.CreditScore,
		})
	}
	pl := make([]promptLoan, 0, len(loans))
	for _, l := range loans {
		reps := make([]promptRepayment, 0, len(l.RepaymentSchedule))
		for _, r := range l.RepaymentSchedule {
			reps = append(reps, promptRepayment{
				ID:     r.RepaymentID,
				Amount: r.Amount,
				Date:   r.Date.Format("2006-01-02"),
				Status: string(r.Status),
			})
		}
		pl = append(pl, promptLoan{
			ID:                l.LoanID,
			BorrowerID:        l.BorrowerID,
			LenderID:          l.LenderID,
			Amount:            l.Amount,
			InterestRate:      l.InterestRate,
			Term:              l.TermMonths,
			Status:            string(l.Status),
			RequestDate:       l.RequestDate.Format("2006-01-02"),
			RepaymentSchedule: reps,
		})
	}

	usersJSON, err := json.MarshalIndent(pu, "", "  ")
	if err != nil {
		return "", err
	}
	loansJSON, err := json.MarshalIndent(pl, "", "  ")
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("You are an expert financial data analyst for a loan management company.\n")
	sb.WriteString("Analyze the provided JSON data to answer the user's question.\n")
	sb.WriteString("The data contains two arrays: 'users' and 'loans'.\n")
	sb.WriteString("Provide clear, concise answers. Format your response in simple markdown.\n\n")
	sb.WriteString("Here is the data:\n")
	sb.WriteString("Users: ")
	sb.Write(usersJSON)
	sb.WriteString("\nLoans: ")
	sb.Write(loansJSON)
	sb.WriteString("\n\nQuestion: \"")
	sb.WriteString(question)
	sb.WriteString("\"\n")
	return sb.String(), nil
}
