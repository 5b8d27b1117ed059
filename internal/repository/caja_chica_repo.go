package repository

import (
	"context"
	"errors"

	"condocaja/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrVersionConflicto signals that the optimistic version check on the
// active-period row failed: another writer got there first.
var ErrVersionConflicto = errors.New("la caja chica fue modificada por otra operación")

type CajaChicaRepository interface {
	Create(ctx context.Context, c *model.CajaChica) error
	CreateTx(tx *gorm.DB, c *model.CajaChica) error
	// FindActiva returns (nil, nil) when no period is active — a valid,
	// non-error state that triggers the setup flow in the client.
	FindActiva(ctx context.Context) (*model.CajaChica, error)
	// FindActivaTx loads the active period inside a transaction; with
	// lock=true it takes a SELECT ... FOR UPDATE row lock, serializing
	// concurrent balance-check-then-write sequences.
	FindActivaTx(tx *gorm.DB, lock bool) (*model.CajaChica, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.CajaChica, error)
	Update(ctx context.Context, c *model.CajaChica) error
	UpdateTx(tx *gorm.DB, c *model.CajaChica) error
	// ListCerradasSinSucesora finds closed periods with no successor link —
	// the dangling state left by an interrupted renovación.
	ListCerradasSinSucesora(ctx context.Context) ([]model.CajaChica, error)
}

type cajaChicaRepo struct{ db *gorm.DB }

func NewCajaChicaRepository(db *gorm.DB) CajaChicaRepository { return &cajaChicaRepo{db: db} }

func (r *cajaChicaRepo) Create(ctx context.Context, c *model.CajaChica) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cajaChicaRepo) CreateTx(tx *gorm.DB, c *model.CajaChica) error {
	return tx.Create(c).Error
}

func (r *cajaChicaRepo) FindActiva(ctx context.Context) (*model.CajaChica, error) {
	var c model.CajaChica
	err := r.db.WithContext(ctx).Where("activa = true").First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cajaChicaRepo) FindActivaTx(tx *gorm.DB, lock bool) (*model.CajaChica, error) {
	q := tx.Where("activa = true")
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var c model.CajaChica
	err := q.First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cajaChicaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CajaChica, error) {
	var c model.CajaChica
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *cajaChicaRepo) Update(ctx context.Context, c *model.CajaChica) error {
	return r.updateConVersion(r.db.WithContext(ctx), c)
}

func (r *cajaChicaRepo) UpdateTx(tx *gorm.DB, c *model.CajaChica) error {
	return r.updateConVersion(tx, c)
}

// updateConVersion performs a compare-and-swap on the Version column. A row
// that was modified since it was read matches zero rows.
func (r *cajaChicaRepo) updateConVersion(db *gorm.DB, c *model.CajaChica) error {
	prev := c.Version
	c.Version = prev + 1
	res := db.Model(&model.CajaChica{}).
		Where("id = ? AND version = ?", c.ID, prev).
		Select("*").Omit("id", "created_at").
		Updates(c)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflicto
	}
	return nil
}

func (r *cajaChicaRepo) ListCerradasSinSucesora(ctx context.Context) ([]model.CajaChica, error) {
	var cajas []model.CajaChica
	err := r.db.WithContext(ctx).
		Where("activa = false AND caja_siguiente_id IS NULL").
		Order("fecha_fin ASC").
		Find(&cajas).Error
	return cajas, err
}
