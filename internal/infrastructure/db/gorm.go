package db

import (
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lendora-backend/internal/domain/loan"
	"lendora-backend/internal/domain/user"
)

// OpenGormMySQL connects to MySQL with pooled connections.
func OpenGormMySQL(dsn string) (*gorm.DB, error) {
	db, err := OpenGormWithDialector(mysql.Open(dsn))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	log.Println("gorm: connected (mysql)")
	return db, nil
}

// OpenGormSQLite opens a SQLite database. With the default
// `file::memory:?cache=shared` DSN all state lives in process memory and
// resets on restart, which is exactly the demo contract.
func OpenGormSQLite(dsn string) (*gorm.DB, error) {
	db, err := OpenGormWithDialector(sqlite.Open(dsn))
	if err != nil {
		return nil, err
	}
	// a single connection keeps the shared in-memory DB alive
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	log.Println("gorm: connected (sqlite)")
	return db, nil
}

// OpenGormWithDialector opens gorm over any dialector and verifies the
// connection with a ping.
func OpenGormWithDialector(dial gorm.Dialector) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates the schema for all domain entities.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&user.User{}, &loan.Loan{}, &loan.Repayment{})
}
