package sqldb

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	domain "lendora-backend/internal/domain/loan"
	"lendora-backend/pkg/id"
)

func makeLoan(loanID, borrowerID string) *domain.Loan {
	return &domain.Loan{
		LoanID:          loanID,
		BorrowerID:      borrowerID,
		Amount:          12_000.00,
		InterestRate:    10.0,
		TermMonths:      12,
		Status:          domain.StatusPending,
		RequestDate:     time.Now().UTC().Truncate(24 * time.Hour),
		StatusUpdatedAt: time.Now().UTC(),
	}
}

func TestCreateAndGetByLoanID(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	loanID := id.NewID32()
	borrower := id.NewID32()

	l := makeLoan(loanID, borrower)
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if l.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	got, err := repo.GetByLoanID(ctx, loanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if got.LoanID != loanID || got.BorrowerID != borrower {
		t.Errorf("unexpected loan: %+v", got)
	}
	if len(got.RepaymentSchedule) != 0 {
		t.Errorf("fresh loan has %d installments, want 0", len(got.RepaymentSchedule))
	}
}

func TestGetByLoanID_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)

	_, err := repo.GetByLoanID(context.Background(), "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want gorm.ErrRecordNotFound", err)
	}
}

func TestSchedulePreloadOrder(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	loanID := id.NewID32()
	l := makeLoan(loanID, id.NewID32())
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// insert installments out of order; preload must come back by seq
	base := time.Now().UTC().Truncate(24 * time.Hour)
	rs := []domain.Repayment{
		{RepaymentID: id.RepaymentID(loanID, 2), LoanRef: l.ID, Seq: 2, Amount: 110, Date: base.AddDate(0, 3, 0), Status: domain.RepaymentDue},
		{RepaymentID: id.RepaymentID(loanID, 0), LoanRef: l.ID, Seq: 0, Amount: 110, Date: base.AddDate(0, 1, 0), Status: domain.RepaymentDue},
		{RepaymentID: id.RepaymentID(loanID, 1), LoanRef: l.ID, Seq: 1, Amount: 110, Date: base.AddDate(0, 2, 0), Status: domain.RepaymentDue},
	}
	if err := repo.CreateRepayments(ctx, rs); err != nil {
		t.Fatalf("CreateRepayments: %v", err)
	}

	got, err := repo.GetByLoanID(ctx, loanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if len(got.RepaymentSchedule) != 3 {
		t.Fatalf("schedule len = %d, want 3", len(got.RepaymentSchedule))
	}
	for i, r := range got.RepaymentSchedule {
		if r.Seq != i {
			t.Fatalf("schedule[%d].Seq = %d, want %d", i, r.Seq, i)
		}
	}
}

func TestSaveRepayment_StatusFlip(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	loanID := id.NewID32()
	l := makeLoan(loanID, id.NewID32())
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	rs := []domain.Repayment{{
		RepaymentID: id.RepaymentID(loanID, 0), LoanRef: l.ID, Seq: 0,
		Amount: 110, Date: time.Now().UTC(), Status: domain.RepaymentDue,
	}}
	if err := repo.CreateRepayments(ctx, rs); err != nil {
		t.Fatalf("CreateRepayments: %v", err)
	}

	rs[0].Status = domain.RepaymentPaid
	if err := repo.SaveRepayment(ctx, &rs[0]); err != nil {
		t.Fatalf("SaveRepayment: %v", err)
	}

	got, err := repo.GetByLoanID(ctx, loanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if got.RepaymentSchedule[0].Status != domain.RepaymentPaid {
		t.Fatalf("status = %s, want paid", got.RepaymentSchedule[0].Status)
	}
}

func TestList_Filters(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	borrowerA, borrowerB, lender := id.NewID32(), id.NewID32(), id.NewID32()

	a := makeLoan(id.NewID32(), borrowerA)
	b := makeLoan(id.NewID32(), borrowerB)
	b.Status = domain.StatusRepaying
	b.LenderID = lender
	for _, l := range []*domain.Loan{a, b} {
		if err := repo.Create(ctx, l); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.List(ctx, domain.ListFilter{BorrowerID: borrowerA})
	if err != nil || len(got) != 1 || got[0].LoanID != a.LoanID {
		t.Fatalf("borrower filter got %v err %v", got, err)
	}
	got, err = repo.List(ctx, domain.ListFilter{LenderID: lender})
	if err != nil || len(got) != 1 || got[0].LoanID != b.LoanID {
		t.Fatalf("lender filter got %v err %v", got, err)
	}
	got, err = repo.List(ctx, domain.ListFilter{Status: domain.StatusRepaying})
	if err != nil || len(got) != 1 || got[0].LoanID != b.LoanID {
		t.Fatalf("status filter got %v err %v", got, err)
	}
	got, err = repo.List(ctx, domain.ListFilter{})
	if err != nil || len(got) != 2 {
		t.Fatalf("unfiltered got %d err %v", len(got), err)
	}
}
