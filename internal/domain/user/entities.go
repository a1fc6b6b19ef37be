package user

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleBorrower Role = "borrower"
	RoleLender   Role = "lender"
	RoleAnalyst  Role = "analyst"
)

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleBorrower, RoleLender, RoleAnalyst:
		return true
	}
	return false
}

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// User is an identity record. Roles are mutually exclusive, assigned at
// creation and immutable afterwards. CreditScore is meaningful only for
// borrowers. Password is stored and compared in plaintext.
type User struct {
	ID          uint64         `gorm:"primaryKey;column:id" json:"-"`
	UserID      string         `gorm:"size:32;uniqueIndex:ux_users_user_id_active" json:"user_id"`
	Name        string         `gorm:"size:255" json:"name"`
	Email       string         `gorm:"size:255;index:idx_users_email" json:"email"`
	Role        Role           `gorm:"type:varchar(16)" json:"role"`
	CreditScore int            `json:"credit_score"`
	Password    string         `gorm:"size:64" json:"password"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }
