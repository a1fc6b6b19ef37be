package loan

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"time"

	domain "lendora-backend/internal/domain/loan"
	"lendora-backend/internal/domain/uow"
	userDomain "lendora-backend/internal/domain/user"
	"lendora-backend/internal/events"
	"lendora-backend/pkg/id"

	"gorm.io/gorm"
)

// Usecase owns the loan lifecycle: creation, status transitions, repayment
// schedule generation and repayment application. Mutations are serialized in
// arrival order by a store-wide mutex and each one applies atomically inside
// a transaction with the loan row locked first.
type Usecase struct {
	loans domain.Repository
	users userDomain.Repository
	uow   uow.UnitOfWork
	bus   events.Dispatcher

	mu   sync.Mutex
	busy atomic.Bool

	now func() time.Time
}

func NewUsecase(loans domain.Repository, users userDomain.Repository, tx uow.UnitOfWork, bus events.Dispatcher) *Usecase {
	return &Usecase{loans: loans, users: users, uow: tx, bus: bus, now: time.Now}
}

// Busy reports whether a mutation is currently applying. Advisory only;
// callers are not queued or rejected based on it.
func (u *Usecase) Busy() bool { return u.busy.Load() }

func (u *Usecase) beginMutation() func() {
	u.mu.Lock()
	u.busy.Store(true)
	return func() {
		u.busy.Store(false)
		u.mu.Unlock()
	}
}

// today returns the current calendar date (no time component), UTC.
func (u *Usecase) today() time.Time {
	y, m, d := u.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func (u *Usecase) publish(ctx context.Context, t events.EventType, payload interface{}) {
	if u.bus != nil {
		_ = u.bus.Publish(ctx, events.New(t, payload))
	}
}

// Create registers a new loan request: fresh id, pending status, today's
// request date, empty schedule.
func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*LoanDTO, error) {
	if in.BorrowerID == "" || in.Amount <= 0 || in.InterestRate < 0 || in.TermMonths <= 0 {
		return nil, errors.New("invalid input")
	}
	done := u.beginMutation()
	defer done()

	borrower, err := u.users.GetByUserID(ctx, in.BorrowerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userDomain.ErrNotFound
		}
		return nil, err
	}
	if borrower.Role != userDomain.RoleBorrower {
		return nil, domain.ErrNotBorrower
	}

	l := &domain.Loan{
		LoanID:          id.NewID32(),
		BorrowerID:      in.BorrowerID,
		Amount:          in.Amount,
		InterestRate:    in.InterestRate,
		TermMonths:      in.TermMonths,
		Status:          domain.StatusPending,
		RequestDate:     u.today(),
		StatusUpdatedAt: u.now().UTC(),
	}
	if err := u.loans.Create(ctx, l); err != nil {
		return nil, err
	}

	u.publish(ctx, events.EventLoanCreated, events.LoanCreatedPayload{
		LoanID: l.LoanID, BorrowerID: l.BorrowerID, Amount: l.Amount,
	})
	return toDTO(l), nil
}

// UpdateStatus moves a loan to a new status and/or attaches a lender.
// Requesting StatusFunded lands the loan in StatusRepaying and generates the
// repayment schedule; schedules are never regenerated once set. Transitions
// only ever move forward; same-status calls are permitted so a lender can be
// attached without a lifecycle change.
func (u *Usecase) UpdateStatus(ctx context.Context, in UpdateStatusInput) (*LoanDTO, error) {
	if !in.Status.Valid() {
		return nil, domain.ErrInvalidTransition
	}
	done := u.beginMutation()
	defer done()

	var (
		dto       *LoanDTO
		oldStatus domain.Status
		newStatus domain.Status
	)

	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domain.Loan) error {
		oldStatus = l.Status

		if in.LenderID != "" {
			lender, err := r.Users.GetByUserID(ctx, in.LenderID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return userDomain.ErrNotFound
				}
				return err
			}
			if lender.Role != userDomain.RoleLender {
				return domain.ErrNotLender
			}
			l.LenderID = in.LenderID
		}

		target := in.Status
		var schedule []domain.Repayment
		if in.Status == domain.StatusFunded {
			target = domain.StatusRepaying
			if len(l.RepaymentSchedule) == 0 {
				schedule = u.buildSchedule(l)
			}
		}

		if !domain.CanTransition(l.Status, target) {
			return domain.ErrInvalidTransition
		}
		if l.Status != target {
			l.Status = target
			l.StatusUpdatedAt = u.now().UTC()
		}
		newStatus = l.Status

		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		if len(schedule) > 0 {
			for i := range schedule {
				schedule[i].LoanRef = l.ID
			}
			if err := r.Loans.CreateRepayments(ctx, schedule); err != nil {
				return err
			}
			l.RepaymentSchedule = schedule
		}

		dto = toDTO(l)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	u.publish(ctx, events.EventLoanStatusChanged, events.LoanStatusChangedPayload{
		LoanID: in.LoanID, OldStatus: oldStatus, NewStatus: newStatus, LenderID: in.LenderID,
	})
	return dto, nil
}

// buildSchedule generates TermMonths equal installments of
// round2(amount*(1+rate/100)/term), due on consecutive months starting one
// month from today, all due. The last installment does not absorb the
// rounding remainder, matching the product's observed behavior.
func (u *Usecase) buildSchedule(l *domain.Loan) []domain.Repayment {
	installment := round2((l.Amount * (1 + l.InterestRate/100)) / float64(l.TermMonths))
	today := u.today()

	schedule := make([]domain.Repayment, 0, l.TermMonths)
	for i := 0; i < l.TermMonths; i++ {
		schedule = append(schedule, domain.Repayment{
			RepaymentID: id.RepaymentID(l.LoanID, i),
			Seq:         i,
			Amount:      installment,
			Date:        today.AddDate(0, i+1, 0),
			Status:      domain.RepaymentDue,
		})
	}
	return schedule
}

// AddRepayment settles at most one installment: the first due one, and only
// when the tendered amount covers it. Underpayment, overpayment excess and a
// fully-paid schedule all leave the loan untouched; none of these is an
// error. Once every installment is paid the loan closes.
func (u *Usecase) AddRepayment(ctx context.Context, loanID string, amount float64) (*LoanDTO, error) {
	done := u.beginMutation()
	defer done()

	var (
		dto        *LoanDTO
		settled    string
		loanClosed bool
	)

	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		rep := l.FirstDue()
		if rep == nil || amount < rep.Amount {
			dto = toDTO(l)
			return nil
		}

		rep.Status = domain.RepaymentPaid
		rep.Date = u.today()
		if err := r.Loans.SaveRepayment(ctx, rep); err != nil {
			return err
		}
		settled = rep.RepaymentID

		if l.AllPaid() {
			l.Status = domain.StatusPaid
			l.StatusUpdatedAt = u.now().UTC()
			if err := r.Loans.Save(ctx, l); err != nil {
				return err
			}
			loanClosed = true
		}

		dto = toDTO(l)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if settled != "" {
		u.publish(ctx, events.EventRepaymentApplied, events.RepaymentAppliedPayload{
			LoanID: loanID, RepaymentID: settled, LoanClosed: loanClosed,
		})
	}
	return dto, nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return toDTO(l), nil
}

func (u *Usecase) List(ctx context.Context, f domain.ListFilter) ([]LoanDTO, error) {
	ls, err := u.loans.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(ls))
	for i := range ls {
		out = append(out, *toDTO(&ls[i]))
	}
	return out, nil
}
