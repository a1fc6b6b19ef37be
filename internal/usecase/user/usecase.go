package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	domain "lendora-backend/internal/domain/user"
	"lendora-backend/internal/events"
	"lendora-backend/pkg/id"
	"lendora-backend/pkg/password"
)

type Usecase struct {
	repo domain.Repository
	bus  events.Dispatcher
}

func NewUsecase(r domain.Repository, bus events.Dispatcher) *Usecase {
	return &Usecase{repo: r, bus: bus}
}

type CreateUserInput struct {
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	CreditScore int         `json:"credit_score"`
}

// UserDTO is the read shape handed to HTTP consumers: no password. The only
// surface that ever carries the plaintext password is CreatedUserDTO.
type UserDTO struct {
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	CreditScore int       `json:"credit_score"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreatedUserDTO is returned once, at creation, so the generated password can
// be displayed and discarded. It is never retrievable over HTTP again.
type CreatedUserDTO struct {
	UserDTO
	Password string `json:"password"`
}

func toDTO(u *domain.User) UserDTO {
	return UserDTO{
		UserID:      u.UserID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        string(u.Role),
		CreditScore: u.CreditScore,
		CreatedAt:   u.CreatedAt,
	}
}

// Create appends a new user with a fresh id and a generated 8-character
// password. Duplicate emails are deliberately not rejected: the source system
// never enforced uniqueness and the login flow simply matches the first
// record with equal email and password.
func (u *Usecase) Create(ctx context.Context, in CreateUserInput) (*CreatedUserDTO, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" || !in.Role.Valid() {
		return nil, errors.New("invalid input")
	}

	rec := &domain.User{
		UserID:      id.NewID32(),
		Name:        name,
		Email:       email,
		Role:        in.Role,
		CreditScore: in.CreditScore,
		Password:    password.Generate(password.DefaultLength),
	}
	if rec.Role != domain.RoleBorrower {
		rec.CreditScore = 0
	}

	if err := u.repo.Create(ctx, rec); err != nil {
		return nil, err
	}

	if u.bus != nil {
		_ = u.bus.Publish(ctx, events.New(events.EventUserCreated, events.UserCreatedPayload{
			UserID: rec.UserID, Role: string(rec.Role),
		}))
	}

	return &CreatedUserDTO{UserDTO: toDTO(rec), Password: rec.Password}, nil
}

func (u *Usecase) Get(ctx context.Context, userID string) (*UserDTO, error) {
	rec, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	dto := toDTO(rec)
	return &dto, nil
}

func (u *Usecase) List(ctx context.Context, role domain.Role) ([]UserDTO, error) {
	var (
		recs []domain.User
		err  error
	)
	if role != "" {
		if !role.Valid() {
			return nil, errors.New("invalid role filter")
		}
		recs, err = u.repo.ListByRole(ctx, role)
	} else {
		recs, err = u.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	out := make([]UserDTO, 0, len(recs))
	for i := range recs {
		out = append(out, toDTO(&recs[i]))
	}
	return out, nil
}
