package persistence

import (
	"errors"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps GORM errors to domain errors. A unique-index
// violation is reported through onConflict; other failures are wrapped with
// the operation context.
func translateError(op, entity string, id any, err error, onConflict func() error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.NotFound(entity, id)
	case errors.Is(err, gorm.ErrDuplicatedKey) && onConflict != nil:
		return onConflict()
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.Conflict("DUPLICATE_"+entity, entity+" already exists")
	}
	return shared.WrapStorageError(op, entity, id, err)
}
