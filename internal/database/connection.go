// internal/database/connection.go
package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nightpulse/backend/internal/config"
	"github.com/nightpulse/backend/internal/models"
)

var DB *gorm.DB

// connectAttempts with fixed exponential backoff, matching the bootstrap
// policy the rest of the stack uses for its initial session fetch.
const connectAttempts = 3

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	if cfg.LogLevel != "silent" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	var err error
	backoff := time.Second
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err == nil {
			break
		}
		if attempt < connectAttempts {
			logrus.WithError(err).Warnf("Database connect attempt %d failed, retrying in %s", attempt, backoff)
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Database connection established")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Ticket{},
		&models.TicketShare{},
		&models.SocialShare{},
		&models.PaymentTransaction{},
		&models.RewardTier{},
		&models.RewardBenefit{},
		&models.AuditLog{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logrus.Info("Database migrations completed")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_users_role_status ON users(role, status)",
		"CREATE INDEX IF NOT EXISTS idx_users_points ON users(points DESC)",

		"CREATE INDEX IF NOT EXISTS idx_events_organizer ON events(organizer_id)",
		"CREATE INDEX IF NOT EXISTS idx_events_date_status ON events(event_date, status)",
		"CREATE INDEX IF NOT EXISTS idx_events_city ON events(city)",

		"CREATE INDEX IF NOT EXISTS idx_tickets_event_status ON tickets(event_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_tickets_user ON tickets(user_id)",

		"CREATE INDEX IF NOT EXISTS idx_transactions_user ON payment_transactions(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_event ON payment_transactions(event_id)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_status_created ON payment_transactions(status, created_at)",

		"CREATE INDEX IF NOT EXISTS idx_audit_logs_user_action ON audit_logs(user_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, created_at DESC)",

		"CREATE INDEX IF NOT EXISTS idx_events_search ON events USING GIN(to_tsvector('english', name || ' ' || description))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			logrus.WithError(err).Warnf("Failed to create index: %s", index)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// SeedInitialData inserts the reward ladder when it is missing.
func SeedInitialData(db *gorm.DB) error {
	var tierCount int64
	db.Model(&models.RewardTier{}).Count(&tierCount)
	if tierCount > 0 {
		return nil
	}

	logrus.Info("Seeding reward tiers...")

	tiers := []struct {
		name      string
		threshold int64
		perks     []string
		benefits  []models.RewardBenefit
	}{
		{
			name: "Bronze", threshold: 0,
			perks: []string{"early_access_presale"},
			benefits: []models.RewardBenefit{
				{BenefitType: models.BenefitTypeDiscount, Value: 0, Description: "Welcome tier"},
			},
		},
		{
			name: "Silver", threshold: 1000,
			perks: []string{"early_access_presale", "priority_entry"},
			benefits: []models.RewardBenefit{
				{BenefitType: models.BenefitTypeDiscount, Value: 5, Description: "5% off individual tickets"},
			},
		},
		{
			name: "Gold", threshold: 5000,
			perks: []string{"early_access_presale", "priority_entry", "plus_one"},
			benefits: []models.RewardBenefit{
				{BenefitType: models.BenefitTypeDiscount, Value: 10, Description: "10% off all tickets"},
				{BenefitType: models.BenefitTypeDrinkCombo, Value: 1, Description: "One free drink combo per event"},
			},
		},
		{
			name: "Platinum", threshold: 15000,
			perks: []string{"early_access_presale", "priority_entry", "plus_one", "backstage"},
			benefits: []models.RewardBenefit{
				{BenefitType: models.BenefitTypeDiscount, Value: 15, Description: "15% off all tickets"},
				{BenefitType: models.BenefitTypeVIPAccess, Value: 1, Description: "VIP area access"},
			},
		},
	}

	for _, t := range tiers {
		tier := models.RewardTier{
			Name:            t.name,
			PointsThreshold: t.threshold,
			Perks:           t.perks,
		}
		if err := db.Create(&tier).Error; err != nil {
			return fmt.Errorf("failed to seed tier %s: %w", t.name, err)
		}
		for _, b := range t.benefits {
			b.TierID = tier.ID
			if err := db.Create(&b).Error; err != nil {
				return fmt.Errorf("failed to seed benefit for tier %s: %w", t.name, err)
			}
		}
	}

	logrus.Info("Reward tiers seeded")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
