package repository

import (
	"context"

	"condocaja/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CierreRepository interface {
	Create(ctx context.Context, c *model.Cierre) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cierre, error)
	Update(ctx context.Context, c *model.Cierre) error
	UpdateTx(tx *gorm.DB, c *model.Cierre) error
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Cierre, error)
	// ListByCaja filters by period; estado "" lists all states.
	ListByCaja(ctx context.Context, cajaID uuid.UUID, estado string) ([]model.Cierre, error)
	CountByEstadoTx(tx *gorm.DB, cajaID uuid.UUID, estado string) (int64, error)
}

type cierreRepo struct{ db *gorm.DB }

func NewCierreRepository(db *gorm.DB) CierreRepository { return &cierreRepo{db: db} }

func (r *cierreRepo) Create(ctx context.Context, c *model.Cierre) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cierreRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cierre, error) {
	var c model.Cierre
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *cierreRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Cierre, error) {
	var c model.Cierre
	err := tx.First(&c, id).Error
	return &c, err
}

func (r *cierreRepo) Update(ctx context.Context, c *model.Cierre) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *cierreRepo) UpdateTx(tx *gorm.DB, c *model.Cierre) error {
	return tx.Save(c).Error
}

func (r *cierreRepo) ListByCaja(ctx context.Context, cajaID uuid.UUID, estado string) ([]model.Cierre, error) {
	q := r.db.WithContext(ctx).Where("caja_chica_id = ?", cajaID)
	if estado != "" {
		q = q.Where("estado = ?", estado)
	}
	var cierres []model.Cierre
	err := q.Order("created_at DESC").Find(&cierres).Error
	return cierres, err
}

func (r *cierreRepo) CountByEstadoTx(tx *gorm.DB, cajaID uuid.UUID, estado string) (int64, error) {
	var count int64
	err := tx.Model(&model.Cierre{}).
		Where("caja_chica_id = ? AND estado = ?", cajaID, estado).
		Count(&count).Error
	return count, err
}
