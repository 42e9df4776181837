package persistence

import (
	"context"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/billing"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const entityBill = "Bill"

// GormBillRepository implements BillRepository using GORM
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: db}
}

// FindByID finds a bill by ID
func (r *GormBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	var model models.BillModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError("find", entityBill, id, err, nil)
	}
	return model.ToDomain(), nil
}

// FindByConsumption finds the bill linked to a consumption record
func (r *GormBillRepository) FindByConsumption(ctx context.Context, consumptionID uuid.UUID) (*billing.Bill, error) {
	var model models.BillModel
	if err := r.db.WithContext(ctx).Where("consumption_id = ?", consumptionID).First(&model).Error; err != nil {
		return nil, translateError("find", entityBill, "consumption "+consumptionID.String(), err, nil)
	}
	return model.ToDomain(), nil
}

// ExistsForConsumption reports whether a bill references the consumption record
func (r *GormBillRepository) ExistsForConsumption(ctx context.Context, consumptionID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BillModel{}).Where("consumption_id = ?", consumptionID).Count(&count).Error
	if err != nil {
		return false, translateError("count", entityBill, nil, err, nil)
	}
	return count > 0, nil
}

// FindAll lists bills, latest billing period first
func (r *GormBillRepository) FindAll(ctx context.Context, filter billing.BillFilter) ([]billing.Bill, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.BillModel{})
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.PaymentStatus != nil {
		query = query.Where("status = ?", filter.PaymentStatus.String())
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, translateError("count", entityBill, nil, err, nil)
	}

	var billModels []models.BillModel
	if err := applyPage(query, filter.Filter).Order(orderClause(filter.Filter, BillSortFields, "billing_period DESC, created_at DESC")).Find(&billModels).Error; err != nil {
		return nil, 0, translateError("list", entityBill, nil, err, nil)
	}

	bills := make([]billing.Bill, len(billModels))
	for i := range billModels {
		bills[i] = *billModels[i].ToDomain()
	}
	return bills, total, nil
}

// Create inserts a bill. The unique index on consumption_id makes a second
// bill for the same record a Conflict even under concurrent issuers.
func (r *GormBillRepository) Create(ctx context.Context, bill *billing.Bill) error {
	err := r.db.WithContext(ctx).Create(models.BillModelFromDomain(bill)).Error
	return translateError("create", entityBill, bill.ID, err, func() error {
		return billing.ErrBillAlreadyIssued(bill.ConsumptionID)
	})
}

// UpdatePaymentStatus writes the payment fields only if the stored status
// still equals from
func (r *GormBillRepository) UpdatePaymentStatus(ctx context.Context, bill *billing.Bill, from billing.PaymentStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.BillModel{}).
		Where("id = ? AND status = ?", bill.ID, from.String()).
		Updates(map[string]any{
			"status":     bill.PaymentStatus.String(),
			"paid_at":    bill.PaidAt,
			"updated_at": bill.UpdatedAt,
			"version":    bill.Version,
		})
	if result.Error != nil {
		return translateError("update", entityBill, bill.ID, result.Error, nil)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.BillModel{}).Where("id = ?", bill.ID).Count(&count).Error; err != nil {
		return translateError("find", entityBill, bill.ID, err, nil)
	}
	if count == 0 {
		return shared.NotFound(entityBill, bill.ID)
	}
	return shared.InvalidState("PAYMENT_STATUS_CHANGED", "Bill payment status was changed concurrently")
}
