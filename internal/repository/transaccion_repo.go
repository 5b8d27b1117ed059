package repository

import (
	"context"
	"time"

	"condocaja/internal/dto"
	"condocaja/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransaccionRepository interface {
	Create(ctx context.Context, t *model.Transaccion) error
	CreateTx(tx *gorm.DB, t *model.Transaccion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaccion, error)
	ListByCaja(ctx context.Context, cajaID uuid.UUID) ([]model.Transaccion, error)
	ListByCajaTx(tx *gorm.DB, cajaID uuid.UUID) ([]model.Transaccion, error)
	ListByCajaPaged(ctx context.Context, cajaID uuid.UUID, f dto.TransaccionFilter) ([]model.Transaccion, int64, error)
	// SetEgreso backfills the link to the copied general-ledger record.
	// The only mutation a ledger entry ever receives.
	SetEgreso(ctx context.Context, transaccionID, egresoID uuid.UUID) error
	// ListGastosSinCopia finds gasto entries whose general-ledger copy never
	// landed, for the recovery cron.
	ListGastosSinCopia(ctx context.Context, antesDe time.Time, limit int) ([]model.Transaccion, error)
}

type transaccionRepo struct{ db *gorm.DB }

func NewTransaccionRepository(db *gorm.DB) TransaccionRepository { return &transaccionRepo{db: db} }

func (r *transaccionRepo) Create(ctx context.Context, t *model.Transaccion) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *transaccionRepo) CreateTx(tx *gorm.DB, t *model.Transaccion) error {
	return tx.Create(t).Error
}

func (r *transaccionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaccion, error) {
	var t model.Transaccion
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *transaccionRepo) ListByCaja(ctx context.Context, cajaID uuid.UUID) ([]model.Transaccion, error) {
	var trans []model.Transaccion
	err := r.db.WithContext(ctx).
		Where("caja_chica_id = ?", cajaID).
		Order("created_at ASC").
		Find(&trans).Error
	return trans, err
}

func (r *transaccionRepo) ListByCajaTx(tx *gorm.DB, cajaID uuid.UUID) ([]model.Transaccion, error) {
	var trans []model.Transaccion
	err := tx.Where("caja_chica_id = ?", cajaID).Order("created_at ASC").Find(&trans).Error
	return trans, err
}

func (r *transaccionRepo) ListByCajaPaged(ctx context.Context, cajaID uuid.UUID, f dto.TransaccionFilter) ([]model.Transaccion, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Transaccion{}).Where("caja_chica_id = ?", cajaID)
	if f.Tipo != "" {
		q = q.Where("tipo = ?", f.Tipo)
	}
	if f.Desde != nil {
		q = q.Where("fecha >= ?", *f.Desde)
	}
	if f.Hasta != nil {
		q = q.Where("fecha <= ?", *f.Hasta)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var trans []model.Transaccion
	err := q.Order("fecha DESC, created_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&trans).Error
	return trans, total, err
}

func (r *transaccionRepo) SetEgreso(ctx context.Context, transaccionID, egresoID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Transaccion{}).
		Where("id = ?", transaccionID).
		Update("egreso_id", egresoID).Error
}

func (r *transaccionRepo) ListGastosSinCopia(ctx context.Context, antesDe time.Time, limit int) ([]model.Transaccion, error) {
	var trans []model.Transaccion
	err := r.db.WithContext(ctx).
		Where("tipo = 'gasto' AND egreso_id IS NULL AND created_at < ?", antesDe).
		Order("created_at ASC").
		Limit(limit).
		Find(&trans).Error
	return trans, err
}
