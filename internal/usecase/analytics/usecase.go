// Package analytics computes the read-only aggregates behind the analyst and
// lender dashboards: status distribution, amount and credit-score histograms,
// per-party summaries.
package analytics

import (
	"context"
	"errors"

	loanDomain "lendora-backend/internal/domain/loan"
	userDomain "lendora-backend/internal/domain/user"
)

// ErrNoData is returned by chart renderers when there is nothing to draw.
var ErrNoData = errors.New("no data")

type Usecase struct {
	loans loanDomain.Repository
	users userDomain.Repository
}

func NewUsecase(loans loanDomain.Repository, users userDomain.Repository) *Usecase {
	return &Usecase{loans: loans, users: users}
}

// statusOrder keeps distributions in lifecycle order rather than map order.
var statusOrder = []loanDomain.Status{
	loanDomain.StatusPending,
	loanDomain.StatusApproved,
	loanDomain.StatusRepaying,
	loanDomain.StatusPaid,
	loanDomain.StatusRejected,
}

// StatusDistribution counts loans per status. Statuses with zero loans are
// omitted, matching the dashboard pie chart.
func (u *Usecase) StatusDistribution(ctx context.Context) ([]StatusCount, error) {
	loans, err := u.loans.List(ctx, loanDomain.ListFilter{})
	if err != nil {
		return nil, err
	}
	return statusDistribution(loans), nil
}

func statusDistribution(loans []loanDomain.Loan) []StatusCount {
	counts := make(map[loanDomain.Status]int)
	for _, l := range loans {
		counts[l.Status]++
	}
	out := make([]StatusCount, 0, len(counts))
	for _, s := range statusOrder {
		if counts[s] > 0 {
			out = append(out, StatusCount{Status: string(s), Count: counts[s]})
		}
	}
	return out
}

// AmountBuckets bins every loan by principal: <5k, 5-10k, 10-20k, >20k.
func (u *Usecase) AmountBuckets(ctx context.Context) ([]Bucket, error) {
	loans, err := u.loans.List(ctx, loanDomain.ListFilter{})
	if err != nil {
		return nil, err
	}
	buckets := []Bucket{
		{Label: "< $5k"},
		{Label: "$5k - $10k"},
		{Label: "$10k - $20k"},
		{Label: "> $20k"},
	}
	for _, l := range loans {
		switch {
		case l.Amount < 5000:
			buckets[0].Count++
		case l.Amount <= 10000:
			buckets[1].Count++
		case l.Amount <= 20000:
			buckets[2].Count++
		default:
			buckets[3].Count++
		}
	}
	return buckets, nil
}

// CreditScoreBuckets bins borrowers by credit score using the usual
// poor/good/very good/excellent cut points.
func (u *Usecase) CreditScoreBuckets(ctx context.Context) ([]Bucket, error) {
	borrowers, err := u.users.ListByRole(ctx, userDomain.RoleBorrower)
	if err != nil {
		return nil, err
	}
	buckets := []Bucket{
		{Label: "< 670 (Poor)"},
		{Label: "670-739 (Good)"},
		{Label: "740-799 (V. Good)"},
		{Label: "800+ (Excellent)"},
	}
	for _, b := range borrowers {
		switch {
		case b.CreditScore < 670:
			buckets[0].Count++
		case b.CreditScore <= 739:
			buckets[1].Count++
		case b.CreditScore <= 799:
			buckets[2].Count++
		default:
			buckets[3].Count++
		}
	}
	return buckets, nil
}

// LenderSummary aggregates a lender's book. Invested counts money on loans
// that reached the repaying stage (or finished); profit is the interest
// portion of every settled installment, floored at zero per installment.
func (u *Usecase) LenderSummary(ctx context.Context, lenderID string) (*LenderSummary, error) {
	loans, err := u.loans.List(ctx, loanDomain.ListFilter{LenderID: lenderID})
	if err != nil {
		return nil, err
	}
	sum := &LenderSummary{LenderID: lenderID}
	for _, l := range loans {
		switch l.Status {
		case loanDomain.StatusRepaying:
			sum.TotalInvested += l.Amount
			sum.ActiveLoans++
		case loanDomain.StatusPaid:
			sum.TotalInvested += l.Amount
		}
		if l.TermMonths <= 0 {
			continue
		}
		principalPerPayment := l.Amount / float64(l.TermMonths)
		for _, rep := range l.RepaymentSchedule {
			if rep.Status != loanDomain.RepaymentPaid {
				continue
			}
			if interest := rep.Amount - principalPerPayment; interest > 0 {
				sum.TotalProfit += interest
			}
		}
	}
	return sum, nil
}

// BorrowerSummary aggregates a borrower's loans. Outstanding is the sum of
// installments still due across all of their schedules.
func (u *Usecase) BorrowerSummary(ctx context.Context, borrowerID string) (*BorrowerSummary, error) {
	loans, err := u.loans.List(ctx, loanDomain.ListFilter{BorrowerID: borrowerID})
	if err != nil {
		return nil, err
	}
	sum := &BorrowerSummary{BorrowerID: borrowerID, TotalLoans: len(loans)}
	for _, l := range loans {
		if l.Status == loanDomain.StatusRepaying {
			sum.ActiveLoans++
		}
		for _, rep := range l.RepaymentSchedule {
			if rep.Status == loanDomain.RepaymentDue {
				sum.Outstanding += rep.Amount
			}
		}
	}
	return sum, nil
}

// PlatformSummary is the whole-book view for the analyst and admin screens.
// Disbursed counts principal on loans that reached repaying or paid.
func (u *Usecase) PlatformSummary(ctx context.Context) (*PlatformSummary, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		return nil, err
	}
	loans, err := u.loans.List(ctx, loanDomain.ListFilter{})
	if err != nil {
		return nil, err
	}
	sum := &PlatformSummary{
		TotalUsers:         len(users),
		TotalLoans:         len(loans),
		StatusDistribution: statusDistribution(loans),
	}
	for _, usr := range users {
		switch usr.Role {
		case userDomain.RoleBorrower:
			sum.TotalBorrowers++
		case userDomain.RoleLender:
			sum.TotalLenders++
		}
	}
	for _, l := range loans {
		if l.Status == loanDomain.StatusRepaying || l.Status == loanDomain.StatusPaid {
			sum.TotalDisbursed += l.Amount
		}
	}
	return sum, nil
}
