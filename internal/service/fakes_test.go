package service_test

import (
	"context"
	"errors"
	"time"

	"condocaja/internal/dto"
	"condocaja/internal/model"
	"condocaja/internal/repository"
	"condocaja/internal/service"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repositories backing the service tests. The services run with a
// nil *gorm.DB, so every Tx variant receives tx == nil and behaves like its
// plain counterpart.

// ── CajaChicaRepository ──────────────────────────────────────────────────────

type memCajaRepo struct {
	cajas map[uuid.UUID]*model.CajaChica
}

func newMemCajaRepo() *memCajaRepo {
	return &memCajaRepo{cajas: make(map[uuid.UUID]*model.CajaChica)}
}

func (r *memCajaRepo) Create(_ context.Context, c *model.CajaChica) error {
	return r.CreateTx(nil, c)
}

func (r *memCajaRepo) CreateTx(_ *gorm.DB, c *model.CajaChica) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Activa {
		for _, otra := range r.cajas {
			if otra.Activa {
				return errors.New("duplicate key value violates unique constraint \"uni_caja_chicas_activa\"")
			}
		}
	}
	c.CreatedAt = time.Now()
	clon := *c
	r.cajas[c.ID] = &clon
	return nil
}

func (r *memCajaRepo) FindActiva(_ context.Context) (*model.CajaChica, error) {
	return r.FindActivaTx(nil, false)
}

func (r *memCajaRepo) FindActivaTx(_ *gorm.DB, _ bool) (*model.CajaChica, error) {
	for _, c := range r.cajas {
		if c.Activa {
			clon := *c
			return &clon, nil
		}
	}
	return nil, nil
}

func (r *memCajaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CajaChica, error) {
	c, ok := r.cajas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clon := *c
	return &clon, nil
}

func (r *memCajaRepo) Update(_ context.Context, c *model.CajaChica) error {
	return r.UpdateTx(nil, c)
}

func (r *memCajaRepo) UpdateTx(_ *gorm.DB, c *model.CajaChica) error {
	actual, ok := r.cajas[c.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if actual.Version != c.Version {
		return repository.ErrVersionConflicto
	}
	c.Version++
	clon := *c
	r.cajas[c.ID] = &clon
	return nil
}

func (r *memCajaRepo) ListCerradasSinSucesora(_ context.Context) ([]model.CajaChica, error) {
	var result []model.CajaChica
	for _, c := range r.cajas {
		if !c.Activa && c.CajaSiguienteID == nil {
			result = append(result, *c)
		}
	}
	return result, nil
}

var _ repository.CajaChicaRepository = (*memCajaRepo)(nil)

// ── TransaccionRepository ────────────────────────────────────────────────────

type memTransRepo struct {
	trans []model.Transaccion
}

func newMemTransRepo() *memTransRepo { return &memTransRepo{} }

func (r *memTransRepo) Create(_ context.Context, t *model.Transaccion) error {
	return r.CreateTx(nil, t)
}

func (r *memTransRepo) CreateTx(_ *gorm.DB, t *model.Transaccion) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()
	r.trans = append(r.trans, *t)
	return nil
}

func (r *memTransRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Transaccion, error) {
	for i := range r.trans {
		if r.trans[i].ID == id {
			clon := r.trans[i]
			return &clon, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memTransRepo) ListByCaja(_ context.Context, cajaID uuid.UUID) ([]model.Transaccion, error) {
	return r.ListByCajaTx(nil, cajaID)
}

func (r *memTransRepo) ListByCajaTx(_ *gorm.DB, cajaID uuid.UUID) ([]model.Transaccion, error) {
	var result []model.Transaccion
	for _, t := range r.trans {
		if t.CajaChicaID == cajaID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (r *memTransRepo) ListByCajaPaged(_ context.Context, cajaID uuid.UUID, f dto.TransaccionFilter) ([]model.Transaccion, int64, error) {
	var all []model.Transaccion
	for _, t := range r.trans {
		if t.CajaChicaID != cajaID {
			continue
		}
		if f.Tipo != "" && t.Tipo != f.Tipo {
			continue
		}
		all = append(all, t)
	}
	total := int64(len(all))
	start := (f.Page - 1) * f.Limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *memTransRepo) SetEgreso(_ context.Context, transaccionID, egresoID uuid.UUID) error {
	for i := range r.trans {
		if r.trans[i].ID == transaccionID {
			r.trans[i].EgresoID = &egresoID
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *memTransRepo) ListGastosSinCopia(_ context.Context, antesDe time.Time, limit int) ([]model.Transaccion, error) {
	var result []model.Transaccion
	for _, t := range r.trans {
		if t.Tipo == "gasto" && t.EgresoID == nil && t.CreatedAt.Before(antesDe) {
			result = append(result, t)
			if len(result) == limit {
				break
			}
		}
	}
	return result, nil
}

var _ repository.TransaccionRepository = (*memTransRepo)(nil)

// ── CierreRepository ─────────────────────────────────────────────────────────

type memCierreRepo struct {
	cierres map[uuid.UUID]*model.Cierre
}

func newMemCierreRepo() *memCierreRepo {
	return &memCierreRepo{cierres: make(map[uuid.UUID]*model.Cierre)}
}

func (r *memCierreRepo) Create(_ context.Context, c *model.Cierre) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	clon := *c
	r.cierres[c.ID] = &clon
	return nil
}

func (r *memCierreRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cierre, error) {
	return r.FindByIDTx(nil, id)
}

func (r *memCierreRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Cierre, error) {
	c, ok := r.cierres[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clon := *c
	return &clon, nil
}

func (r *memCierreRepo) Update(_ context.Context, c *model.Cierre) error {
	return r.UpdateTx(nil, c)
}

func (r *memCierreRepo) UpdateTx(_ *gorm.DB, c *model.Cierre) error {
	if _, ok := r.cierres[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clon := *c
	r.cierres[c.ID] = &clon
	return nil
}

func (r *memCierreRepo) ListByCaja(_ context.Context, cajaID uuid.UUID, estado string) ([]model.Cierre, error) {
	var result []model.Cierre
	for _, c := range r.cierres {
		if c.CajaChicaID == cajaID && (estado == "" || c.Estado == estado) {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (r *memCierreRepo) CountByEstadoTx(_ *gorm.DB, cajaID uuid.UUID, estado string) (int64, error) {
	var count int64
	for _, c := range r.cierres {
		if c.CajaChicaID == cajaID && c.Estado == estado {
			count++
		}
	}
	return count, nil
}

var _ repository.CierreRepository = (*memCierreRepo)(nil)

// ── Notificador ──────────────────────────────────────────────────────────────

type memNotificador struct {
	copias  []uuid.UUID
	alertas []int64 // saldo at alert time, centavos
}

func (n *memNotificador) NotificarCopiaEgreso(_ context.Context, transaccionID uuid.UUID) error {
	n.copias = append(n.copias, transaccionID)
	return nil
}

func (n *memNotificador) NotificarSaldoBajo(_ context.Context, _ string, saldo, _ int64) error {
	n.alertas = append(n.alertas, saldo)
	return nil
}

var _ service.Notificador = (*memNotificador)(nil)
