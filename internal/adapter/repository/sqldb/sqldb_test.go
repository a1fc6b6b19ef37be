package sqldb

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	loanDomain "lendora-backend/internal/domain/loan"
	userDomain "lendora-backend/internal/domain/user"
)

// openTestDB creates an in-memory sqlite DB with the full schema. The domain
// models avoid MySQL-only column types, so the real entities migrate as-is.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// one connection so every query sees the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&userDomain.User{}, &loanDomain.Loan{}, &loanDomain.Repayment{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
