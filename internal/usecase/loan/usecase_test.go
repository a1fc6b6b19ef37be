package loan

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	domain "lendora-backend/internal/domain/loan"
	"lendora-backend/internal/domain/uow"
	userDomain "lendora-backend/internal/domain/user"
	"lendora-backend/internal/events"
	"lendora-backend/internal/testutil/loanmock"
	"lendora-backend/internal/testutil/uowmock"
	"lendora-backend/internal/testutil/usermock"
	"lendora-backend/pkg/id"
)

// ----- test doubles -----

// memLoans keeps loans in a map so usecase flows run end to end without a DB.
type memLoans struct {
	byID   map[string]*domain.Loan
	nextPK uint64
}

func newMemLoans() *memLoans { return &memLoans{byID: map[string]*domain.Loan{}} }

func (m *memLoans) repo() *loanmock.Repo {
	return &loanmock.Repo{
		CreateFn: func(ctx context.Context, l *domain.Loan) error {
			m.nextPK++
			l.ID = m.nextPK
			m.byID[l.LoanID] = l
			return nil
		},
		GetByLoanIDFn:          m.get,
		GetByLoanIDForUpdateFn: m.get,
		SaveFn: func(ctx context.Context, l *domain.Loan) error {
			if _, ok := m.byID[l.LoanID]; !ok {
				return gorm.ErrRecordNotFound
			}
			m.byID[l.LoanID] = l
			return nil
		},
		CreateRepaymentsFn: func(ctx context.Context, rs []domain.Repayment) error { return nil },
		SaveRepaymentFn:    func(ctx context.Context, r *domain.Repayment) error { return nil },
		ListFn: func(ctx context.Context, f domain.ListFilter) ([]domain.Loan, error) {
			var out []domain.Loan
			for _, l := range m.byID {
				out = append(out, *l)
			}
			return out, nil
		},
	}
}

func (m *memLoans) get(ctx context.Context, loanID string) (*domain.Loan, error) {
	l, ok := m.byID[loanID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

func memUsers(users ...*userDomain.User) *usermock.Repo {
	byID := map[string]*userDomain.User{}
	for _, u := range users {
		byID[u.UserID] = u
	}
	return &usermock.Repo{
		GetByUserIDFn: func(ctx context.Context, userID string) (*userDomain.User, error) {
			u, ok := byID[userID]
			if !ok {
				return nil, gorm.ErrRecordNotFound
			}
			return u, nil
		},
	}
}

var fixedNow = time.Date(2026, time.January, 15, 10, 30, 0, 0, time.UTC)

func newTestUsecase(t *testing.T, users *usermock.Repo) (*Usecase, *memLoans) {
	t.Helper()
	loans := newMemLoans()
	repo := loans.repo()
	uc := NewUsecase(repo, users, uowmock.Passthrough(uow.Repos{Users: users, Loans: repo}), events.NewInMemoryDispatcher())
	uc.now = func() time.Time { return fixedNow }
	return uc, loans
}

func borrower() *userDomain.User {
	return &userDomain.User{UserID: id.NewID32(), Name: "Bea", Email: "bea@lendora.dev", Role: userDomain.RoleBorrower, CreditScore: 700, Password: "pw"}
}

func lender() *userDomain.User {
	return &userDomain.User{UserID: id.NewID32(), Name: "Len", Email: "len@lendora.dev", Role: userDomain.RoleLender, Password: "pw"}
}

// ----- tests -----

func TestCreate_Success(t *testing.T) {
	b := borrower()
	uc, _ := newTestUsecase(t, memUsers(b))

	dto, err := uc.Create(context.Background(), CreateLoanInput{
		BorrowerID: b.UserID, Amount: 12_000, InterestRate: 10, TermMonths: 12,
	})
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	if len(dto.LoanID) != 32 {
		t.Fatalf("LoanID length: %d", len(dto.LoanID))
	}
	if dto.Status != string(domain.StatusPending) {
		t.Fatalf("status=%s", dto.Status)
	}
	if dto.RequestDate != "2026-01-15" {
		t.Fatalf("request date=%s", dto.RequestDate)
	}
	if len(dto.RepaymentSchedule) != 0 {
		t.Fatalf("fresh loan has %d installments", len(dto.RepaymentSchedule))
	}
}

func TestCreate_InvalidInput(t *testing.T) {
	b := borrower()
	uc, _ := newTestUsecase(t, memUsers(b))

	cases := []CreateLoanInput{
		{BorrowerID: "", Amount: 100, InterestRate: 1, TermMonths: 6},
		{BorrowerID: b.UserID, Amount: 0, InterestRate: 1, TermMonths: 6},
		{BorrowerID: b.UserID, Amount: 100, InterestRate: -1, TermMonths: 6},
		{BorrowerID: b.UserID, Amount: 100, InterestRate: 1, TermMonths: 0},
	}
	for i, in := range cases {
		if _, err := uc.Create(context.Background(), in); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func TestCreate_BorrowerChecks(t *testing.T) {
	l := lender()
	uc, _ := newTestUsecase(t, memUsers(l))

	_, err := uc.Create(context.Background(), CreateLoanInput{BorrowerID: id.NewID32(), Amount: 100, TermMonths: 6})
	if !errors.Is(err, userDomain.ErrNotFound) {
		t.Fatalf("err = %v, want user not found", err)
	}

	_, err = uc.Create(context.Background(), CreateLoanInput{BorrowerID: l.UserID, Amount: 100, TermMonths: 6})
	if !errors.Is(err, domain.ErrNotBorrower) {
		t.Fatalf("err = %v, want ErrNotBorrower", err)
	}
}

func TestUniqueIDsAcrossLoans(t *testing.T) {
	b := borrower()
	uc, _ := newTestUsecase(t, memUsers(b))

	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		dto, err := uc.Create(context.Background(), CreateLoanInput{BorrowerID: b.UserID, Amount: 100, TermMonths: 3})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if _, dup := seen[dto.LoanID]; dup {
			t.Fatalf("duplicate loan id %q", dto.LoanID)
		}
		seen[dto.LoanID] = struct{}{}
	}
}

func createLoan(t *testing.T, uc *Usecase, b *userDomain.User, amount float64, rate float64, term int) string {
	t.Helper()
	dto, err := uc.Create(context.Background(), CreateLoanInput{BorrowerID: b.UserID, Amount: amount, InterestRate: rate, TermMonths: term})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return dto.LoanID
}

func mustUpdate(t *testing.T, uc *Usecase, in UpdateStatusInput) *LoanDTO {
	t.Helper()
	dto, err := uc.UpdateStatus(context.Background(), in)
	if err != nil {
		t.Fatalf("UpdateStatus(%+v): %v", in, err)
	}
	return dto
}

func TestUpdateStatus_FundedGeneratesSchedule(t *testing.T) {
	b, l := borrower(), lender()
	uc, _ := newTestUsecase(t, memUsers(b, l))

	loanID := createLoan(t, uc, b, 1200, 10, 12)
	mustUpdate(t, uc, UpdateStatusInput{LoanID: loanID, Status: domain.StatusApproved})
	dto := mustUpdate(t, uc, UpdateStatusInput{LoanID: loanID, Status: domain.StatusFunded, LenderID: l.UserID})

	// funded is overridden to repaying
	if dto.Status != string(domain.StatusRepaying) {
		t.Fatalf("status = %s, want repaying", dto.Status)
	}
	if dto.LenderID != l.UserID {
		t.Fatalf("lender = %q", dto.LenderID)
	}
	if len(dto.RepaymentSchedule) != 12 {
		t.Fatalf("schedule len = %d, want 12", len(dto.RepaymentSchedule))
	}
	for i, r := range dto.RepaymentSchedule {
		if r.Amount != 110.00 {
			t.Fatalf("installment %d amount = %v, want 110.00", i, r.Amount)
		}
		if r.Status != string(domain.RepaymentDue) {
			t.Fatalf("installment %d status = %s, want due", i, r.Status)
		}
		want := fixedNow.AddDate(0, i+1, 0).Format("2006-01-02")
		if r.Date != want {
			t.Fatalf("installment %d due = %s, want %s", i, r.Date, want)
		}
		if wantID := fmt.Sprintf("%s-%d", loanID, i); r.RepaymentID != wantID {
			t.Fatalf("installment %d id = %s, want %s", i, r.RepaymentID, wantID)
		}
	}
}

func TestUpdateStatus_RoundingPerInstallment(t *testing.T) {
	b := borrower()
	uc, _ := newTestUsecase(t, memUsers(b))

	// 1000 * 1.10 / 3 = 366.666... → every installment 366.67, remainder
	// deliberately not reconciled
	loanID := createLoan(t, uc, b, 1000, 10, 3)
	mustUpdate(t, uc, UpdateStatusInput{LoanID: loanID, Status: domain.StatusApproved})
	dto := mustUpdate(t, uc, UpdateStatusInput{LoanID: loanID, Status: domain.StatusFunded})

	for i, r := range dto.RepaymentSchedule {
		if r.Amount != 366.67 {
			t.Fatalf("installment %d amount = %v, want 366.67", i, r.Amount)
		}
	}
}

func TestUpdateStatus_NotFound(t *testing.T) {
	uc, _ := newTestUsecase(t, memUsers())
	_, err := uc.UpdateStatus(context.Background(), UpdateStatusInput{LoanID: id.NewID32(), Status: domain.StatusApproved})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateStatus_ForwardOnly(t *testing.T) {
	b := borrower()
	uc, _ := newTestUsecase(t, memUsers(b))

	loanID := createLoan(t, uc, b, 100, 0, 2)
	mustUpdate(t, uc, UpdateStatusInput{LoanID: loanID, Status: domain.StatusApproved})

	// approved → pending is a reversal
	if _, err := uc.UpdateStatus(context.Background(), UpdateStatusInput{LoanID: loanID, Status: domain.StatusPending}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
	// approved → rejected is not a legal edge either
	if _, err := uc.UpdateStatus(context.Background(), UpdateStatusInput{LoanID: loanID, Status: domain.StatusRejected}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
	// funding straight from pending must fail: approval comes first
	otherID := createLoan(t, uc, b, 100, 0, 2)
	if _, err := uc.UpdateStatus(context.Background(), UpdateStatusInput{LoanID: otherID, Status: domain.StatusFunded}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestUpdateStatus_LenderAssignmentIndependence(t *testing.T) {
	b, l := borrower(), lender()
	uc, _ := newTestUsecase(t, memUsers(b, l))

	loanID := createLoan(t, uc, b, 500, 5, 6)
	mustUpdate(t, uc, UpdateStatusInput{LoanID: loanID, Status: domain.StatusApproved})

	// same-status call purely to attach the lender
	dto := mustUpdate(t, uc, UpdateStatusInput{LoanID: loanID, Status: domain.StatusApproved, LenderID: l.UserID})
	if dto.Status != string(domain.StatusApproved) {
		t.Fatalf("status = %s, want approved", dto.Status)
	}
	if dto.LenderID != l.UserID {
		t.Fatalf("lender = %q, want %q", dto.LenderID, l.UserID)
	}
	if len(dto.RepaymentSchedule) != 0 {
		t.Fatalf("schedule generated on lender attach: %d installments", len(dto.RepaymentSchedule))
	}
}

func TestUpdateStatus_LenderRoleEnforced(t *testing.T) {
	b, other := borrower(), borrower()
	uc, _ := newTestUsecase(t, memUsers(b, other))

	loanID := createLoan(t, uc, b, 500, 5, 6)
	mustUpdate(t, uc, UpdateStatusInput{LoanID: loanID, Status: domain.StatusApproved})

	_, err := uc.UpdateStatus(context.Background(), UpdateStatusInput{LoanID: loanID, Status: domain.StatusApproved, LenderID: other.UserID})
	if !errors.Is(err, domain.ErrNotLender) {
		t.Fatalf("err = %v, want ErrNotLender", err)
	}
	_, err = uc.UpdateStatus(context.Background(), UpdateStatusInput{LoanID: loanID, Status: domain.StatusApproved, LenderID: id.NewID32()})
	if !errors.Is(err, userDomain.ErrNotFound) {
		t.Fatalf("err = %v, want user not found", err)
	}
}

func TestUpdateStatus_ScheduleNeverRegenerated(t *testing.T) {
	b, l := borrower(), lender()
	uc, store := newTestUsecase(t, memUsers(b, l))

	loanID := createLoan(t, uc, b, 1200, 10, 12)
	mustUpdate(t, uc, UpdateStatusInput{LoanID: loanID, Status: domain.StatusApproved})
	mustUpdate(t, uc, UpdateStatusInput{LoanID: loanID, Status: domain.StatusFunded, LenderID: l.UserID})

	// pay one, then ask for funded again; the paid installment must survive
	if _, err := uc.AddRepayment(context.Background(), loanID, 110); err != nil {
		t.Fatalf("AddRepayment: %v", err)
	}
	dto := mustUpdate(t, uc, UpdateStatusInput{LoanID: loanID, Status: domain.StatusFunded})
	if dto.RepaymentSchedule[0].Status != string(domain.RepaymentPaid) {
		t.Fatalf("schedule regenerated: first installment is %s", dto.RepaymentSchedule[0].Status)
	}
	if got := len(store.byID[loanID].RepaymentSchedule); got != 12 {
		t.Fatalf("stored schedule len = %d, want 12", got)
	}
}

func fundLoan(t *testing.T, uc *Usecase, b, l *userDomain.User, amount, rate float64, term int) string {
	t.Helper()
	loanID := createLoan(t, uc, b, amount, rate, term)
	mustUpdate(t, uc, UpdateStatusInput{LoanID: loanID, Status: domain.StatusApproved})
	mustUpdate(t, uc, UpdateStatusInput{LoanID: loanID, Status: domain.StatusFunded, LenderID: l.UserID})
	return loanID
}

func TestAddRepayment_UnderpaymentNoOp(t *testing.T) {
	b, l := borrower(), lender()
	uc, _ := newTestUsecase(t, memUsers(b, l))
	loanID := fundLoan(t, uc, b, l, 1200, 10, 12) // installment 110.00

	dto, err := uc.AddRepayment(context.Background(), loanID, 109.99)
	if err != nil {
		t.Fatalf("AddRepayment: %v", err)
	}
	if dto.Status != string(domain.StatusRepaying) {
		t.Fatalf("status = %s, want repaying", dto.Status)
	}
	for i, r := range dto.RepaymentSchedule {
		if r.Status != string(domain.RepaymentDue) {
			t.Fatalf("installment %d flipped to %s on underpayment", i, r.Status)
		}
	}
}

func TestAddRepayment_SettlesExactlyOne(t *testing.T) {
	b, l := borrower(), lender()
	uc, _ := newTestUsecase(t, memUsers(b, l))
	loanID := fundLoan(t, uc, b, l, 1200, 10, 12)

	// grossly overpay: still exactly one installment settles
	dto, err := uc.AddRepayment(context.Background(), loanID, 1_000.00)
	if err != nil {
		t.Fatalf("AddRepayment: %v", err)
	}
	paid := 0
	for _, r := range dto.RepaymentSchedule {
		if r.Status == string(domain.RepaymentPaid) {
			paid++
		}
	}
	if paid != 1 {
		t.Fatalf("paid installments = %d, want 1", paid)
	}
	if dto.RepaymentSchedule[0].Status != string(domain.RepaymentPaid) {
		t.Fatal("first due installment was not the one settled")
	}
	// date overwritten with payment date
	if dto.RepaymentSchedule[0].Date != "2026-01-15" {
		t.Fatalf("payment date = %s, want 2026-01-15", dto.RepaymentSchedule[0].Date)
	}
	// amount untouched
	if dto.RepaymentSchedule[0].Amount != 110.00 {
		t.Fatalf("amount changed to %v", dto.RepaymentSchedule[0].Amount)
	}
}

func TestAddRepayment_AllPaidClosesLoan(t *testing.T) {
	b, l := borrower(), lender()
	uc, _ := newTestUsecase(t, memUsers(b, l))

	// single-installment loan: one sufficient payment goes repaying → paid
	loanID := fundLoan(t, uc, b, l, 1000, 0, 1)
	dto, err := uc.AddRepayment(context.Background(), loanID, 1000)
	if err != nil {
		t.Fatalf("AddRepayment: %v", err)
	}
	if dto.Status != string(domain.StatusPaid) {
		t.Fatalf("status = %s, want paid", dto.Status)
	}
}

func TestAddRepayment_PaidScheduleStaysPut(t *testing.T) {
	b, l := borrower(), lender()
	uc, _ := newTestUsecase(t, memUsers(b, l))
	loanID := fundLoan(t, uc, b, l, 1000, 0, 1)

	if _, err := uc.AddRepayment(context.Background(), loanID, 1000); err != nil {
		t.Fatalf("AddRepayment: %v", err)
	}
	// further payments are silent no-ops; nothing reverts
	dto, err := uc.AddRepayment(context.Background(), loanID, 1000)
	if err != nil {
		t.Fatalf("AddRepayment: %v", err)
	}
	if dto.Status != string(domain.StatusPaid) {
		t.Fatalf("status = %s, want paid", dto.Status)
	}
	if dto.RepaymentSchedule[0].Status != string(domain.RepaymentPaid) {
		t.Fatal("installment reverted")
	}
}

func TestAddRepayment_NotFound(t *testing.T) {
	uc, _ := newTestUsecase(t, memUsers())
	if _, err := uc.AddRepayment(context.Background(), id.NewID32(), 100); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestBusyFlag_AdvisoryOnly(t *testing.T) {
	b := borrower()
	uc, _ := newTestUsecase(t, memUsers(b))

	if uc.Busy() {
		t.Fatal("busy before any mutation")
	}
	if _, err := uc.Create(context.Background(), CreateLoanInput{BorrowerID: b.UserID, Amount: 100, TermMonths: 3}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if uc.Busy() {
		t.Fatal("busy after mutation completed")
	}
}
