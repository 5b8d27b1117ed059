package repository

import (
	"context"
	"errors"

	"condocaja/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EgresoRepository interface {
	Create(ctx context.Context, e *model.Egreso) error
	// FindByTransaccion returns (nil, nil) when no copy exists yet.
	FindByTransaccion(ctx context.Context, transaccionID uuid.UUID) (*model.Egreso, error)
}

type egresoRepo struct{ db *gorm.DB }

func NewEgresoRepository(db *gorm.DB) EgresoRepository { return &egresoRepo{db: db} }

func (r *egresoRepo) Create(ctx context.Context, e *model.Egreso) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *egresoRepo) FindByTransaccion(ctx context.Context, transaccionID uuid.UUID) (*model.Egreso, error) {
	var e model.Egreso
	err := r.db.WithContext(ctx).Where("transaccion_id = ?", transaccionID).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
