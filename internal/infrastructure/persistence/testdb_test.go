package persistence

import (
	"testing"
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupWaterTestDB opens an in-memory SQLite database with every table
// migrated and the approval status catalog seeded
func setupWaterTestDB(t *testing.T) (*gorm.DB, *GormApprovalStatusRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// A single connection keeps every statement on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&models.ApprovalStatusModel{},
		&models.TariffPlanModel{},
		&models.TariffSlabModel{},
		&models.ConsumptionModel{},
		&models.BillModel{},
		&models.ApprovalRequestModel{},
		&models.AuditLogModel{},
	)
	require.NoError(t, err)

	for _, state := range approval.AllStates() {
		require.NoError(t, db.Create(&models.ApprovalStatusModel{StatusName: state.String()}).Error)
	}
	return db, NewGormApprovalStatusRepository(db)
}

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func dPtr(v string) *decimal.Decimal {
	x := d(v)
	return &x
}

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

var testActor = uuid.MustParse("5b0f3c1e-2a44-4c1a-9a51-7c2d6b8e9f01")
