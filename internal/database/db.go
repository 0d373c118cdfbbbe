package database

import (
	"github.com/lautaromiller11/PayBoard2-sub000/internal/logger"
	"github.com/lautaromiller11/PayBoard2-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.TaxRule{},
		&model.RateQuote{},
		&model.Bill{},
		&model.Transaction{},
		&model.CalculationLog{},
	)
	if err != nil {
		logger.L.Warn("failed to auto-migrate models", "error", err)
	}

	return db, nil
}
