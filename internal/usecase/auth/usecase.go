package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "lendora-backend/internal/domain/user"
)

// ErrSessionNotFound is returned when a session blob is absent or expired.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore parks one JSON blob per key. Redis-backed in full deployments,
// in-process for redis-less demo runs.
type SessionStore interface {
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Del(ctx context.Context, key string) error
}

const (
	sessionKeyPrefix  = "session:user:"
	selectedKeyPrefix = "session:selected:"
	issuer            = "lendora-api"
)

// SessionUser is the session blob: the authenticated user record, password
// included. That is the storage contract this mock system runs on; nothing
// here pretends to be hardened.
type SessionUser struct {
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	CreditScore int    `json:"credit_score"`
	Password    string `json:"password"`
}

type LoginResult struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}

type Usecase struct {
	users  domain.Repository
	store  SessionStore
	secret []byte
	ttl    time.Duration

	now func() time.Time
}

func NewUsecase(users domain.Repository, store SessionStore, secret string, ttl time.Duration) *Usecase {
	return &Usecase{users: users, store: store, secret: []byte(secret), ttl: ttl, now: time.Now}
}

func sessionUser(u *domain.User) SessionUser {
	return SessionUser{
		UserID:      u.UserID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        string(u.Role),
		CreditScore: u.CreditScore,
		Password:    u.Password,
	}
}

// Login matches exact email and password equality. A miss of either kind
// yields the same ErrInvalidCredentials; callers cannot tell which was wrong.
func (u *Usecase) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	rec, err := u.users.GetByCredentials(ctx, email, password)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	sid := uuid.NewString()
	su := sessionUser(rec)
	blob, err := json.Marshal(su)
	if err != nil {
		return nil, err
	}
	if err := u.store.Put(ctx, sessionKeyPrefix+sid, blob, u.ttl); err != nil {
		return nil, err
	}

	token, err := u.signJWT(rec.UserID, sid)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: su}, nil
}

// Logout drops the session blob (and any selected-user blob). A token for an
// already-gone session is fine; logout is idempotent.
func (u *Usecase) Logout(ctx context.Context, token string) error {
	sid, err := u.sessionID(token)
	if err != nil {
		return err
	}
	if err := u.store.Del(ctx, sessionKeyPrefix+sid); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	if err := u.store.Del(ctx, selectedKeyPrefix+sid); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	return nil
}

// CurrentUser resolves a bearer token to its session blob.
func (u *Usecase) CurrentUser(ctx context.Context, token string) (*SessionUser, error) {
	sid, err := u.sessionID(token)
	if err != nil {
		return nil, err
	}
	blob, err := u.store.Get(ctx, sessionKeyPrefix+sid)
	if err != nil {
		return nil, err
	}
	var su SessionUser
	if err := json.Unmarshal(blob, &su); err != nil {
		return nil, err
	}
	return &su, nil
}

// SelectUser pins the "active user" for this session (the switch-active-user
// flow). The target must exist.
func (u *Usecase) SelectUser(ctx context.Context, token, userID string) (*SessionUser, error) {
	sid, err := u.sessionID(token)
	if err != nil {
		return nil, err
	}
	rec, err := u.users.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	su := sessionUser(rec)
	blob, err := json.Marshal(su)
	if err != nil {
		return nil, err
	}
	if err := u.store.Put(ctx, selectedKeyPrefix+sid, blob, u.ttl); err != nil {
		return nil, err
	}
	return &su, nil
}

// SelectedUser returns the pinned user, defaulting to the first available
// user when none was ever selected.
func (u *Usecase) SelectedUser(ctx context.Context, token string) (*SessionUser, error) {
	sid, err := u.sessionID(token)
	if err != nil {
		return nil, err
	}
	blob, err := u.store.Get(ctx, selectedKeyPrefix+sid)
	if err == nil {
		var su SessionUser
		if err := json.Unmarshal(blob, &su); err != nil {
			return nil, err
		}
		return &su, nil
	}
	if !errors.Is(err, ErrSessionNotFound) {
		return nil, err
	}

	all, err := u.users.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, domain.ErrNotFound
	}
	su := sessionUser(&all[0])
	return &su, nil
}

// --- JWT helpers ---

func (u *Usecase) signJWT(userID, sid string) (string, error) {
	now := u.now()
	claims := jwt.MapClaims{
		"sub": userID,
		"sid": sid,
		"iss": issuer,
		"iat": now.Unix(),
		"exp": now.Add(u.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(u.secret)
}

// sessionID validates the token signature and expiry and extracts the
// session id claim.
func (u *Usecase) sessionID(tokenString string) (string, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return u.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(func() time.Time { return u.now() }))
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", errors.New("invalid token: missing session id")
	}
	return sid, nil
}
