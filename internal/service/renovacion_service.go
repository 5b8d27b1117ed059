package service

import (
	"context"
	"fmt"
	"time"

	"condocaja/internal/dto"
	"condocaja/internal/model"
	"condocaja/internal/money"
	"condocaja/internal/repository"

	"gorm.io/gorm"
)

// RenovacionService closes the active petty-cash period and rolls its final
// balance into a new one. The whole sequence — close, create successor, link
// the chain, seed the new ledger — runs inside ONE transaction with the
// active-period row locked: it either completes or leaves nothing behind.
//
// Preconditions are enforced here, in the core, not delegated to the caller:
// at least one aprobado cierre for the period, and no pendiente cierres.
type RenovacionService interface {
	Renovar(ctx context.Context, actor Actor, req dto.RenovarCajaRequest) (*dto.RenovacionResponse, error)
	// DetectarIncompletas scans for closed periods without a successor — the
	// dangling state a partial rollover (e.g. from a non-transactional
	// store) leaves behind — so operators can repair it.
	DetectarIncompletas(ctx context.Context) ([]dto.CajaChicaResponse, error)
}

type renovacionService struct {
	db         *gorm.DB
	cajaRepo   repository.CajaChicaRepository
	transRepo  repository.TransaccionRepository
	cierreRepo repository.CierreRepository
}

func NewRenovacionService(
	db *gorm.DB,
	cajaRepo repository.CajaChicaRepository,
	transRepo repository.TransaccionRepository,
	cierreRepo repository.CierreRepository,
) RenovacionService {
	return &renovacionService{
		db:         db,
		cajaRepo:   cajaRepo,
		transRepo:  transRepo,
		cierreRepo: cierreRepo,
	}
}

// ── Renovar ──────────────────────────────────────────────────────────────────

func (s *renovacionService) Renovar(ctx context.Context, actor Actor, req dto.RenovarCajaRequest) (*dto.RenovacionResponse, error) {
	var (
		cerrada *model.CajaChica
		nueva   *model.CajaChica
		saldo   int64
	)

	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		caja, err := s.cajaRepo.FindActivaTx(tx, true)
		if err != nil {
			return err
		}
		if caja == nil {
			return ErrCajaNoActiva
		}

		// Business preconditions
		aprobados, err := s.cierreRepo.CountByEstadoTx(tx, caja.ID, "aprobado")
		if err != nil {
			return err
		}
		if aprobados == 0 {
			return ErrSinCierreAprobado
		}
		pendientes, err := s.cierreRepo.CountByEstadoTx(tx, caja.ID, "pendiente")
		if err != nil {
			return err
		}
		if pendientes > 0 {
			return ErrCierrePendiente
		}

		// 1. Closing balance of the still-active period
		trans, err := s.transRepo.ListByCajaTx(tx, caja.ID)
		if err != nil {
			return err
		}
		saldo = CalcularSaldo(trans)
		if saldo < 0 {
			return ErrSaldoNegativo
		}

		ahora := time.Now()

		// 2. Close the current period
		caja.Activa = false
		caja.FechaFin = &ahora
		caja.SaldoFinal = &saldo
		if req.Notas != nil {
			caja.Notas = req.Notas
		}
		if caja.Periodo == "" {
			caja.Periodo = req.PeriodoCierre
		}
		if err := s.cajaRepo.UpdateTx(tx, caja); err != nil {
			return fmt.Errorf("%w: no se pudo cerrar el periodo: %v", ErrRenovacionIncompleta, err)
		}

		// 3. Originate the successor, seeded with the closing balance and
		// inheriting the threshold and linked account
		nueva = &model.CajaChica{
			MontoInicial:   saldo,
			MontoUmbral:    caja.MontoUmbral,
			CuentaID:       caja.CuentaID,
			CuentaNombre:   caja.CuentaNombre,
			Activa:         true,
			Periodo:        req.PeriodoNuevo,
			FechaInicio:    ahora,
			CajaAnteriorID: &caja.ID,
		}
		if err := s.cajaRepo.CreateTx(tx, nueva); err != nil {
			return fmt.Errorf("%w: no se pudo crear el periodo sucesor: %v", ErrRenovacionIncompleta, err)
		}

		// 4. Backfill the chain link on the closed period
		caja.CajaSiguienteID = &nueva.ID
		if err := s.cajaRepo.UpdateTx(tx, caja); err != nil {
			return fmt.Errorf("%w: no se pudo enlazar el periodo sucesor: %v", ErrRenovacionIncompleta, err)
		}

		// 5. Seed the new ledger. Unlike a fresh setup, this seed carries the
		// closed period for traceability.
		semilla := &model.Transaccion{
			Folio:          generarFolio(),
			CajaChicaID:    nueva.ID,
			Tipo:           "inicial",
			Monto:          saldo,
			Descripcion:    fmt.Sprintf("Saldo traspasado del periodo %q", caja.Periodo),
			CajaAnteriorID: &caja.ID,
			Fecha:          ahora,
			UsuarioID:      actor.ID,
			UsuarioNombre:  actor.Nombre,
		}
		if err := s.transRepo.CreateTx(tx, semilla); err != nil {
			return fmt.Errorf("%w: no se pudo sembrar el saldo inicial: %v", ErrRenovacionIncompleta, err)
		}

		cerrada = caja
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.RenovacionResponse{
		CajaCerrada: cajaToResponse(cerrada),
		CajaNueva:   cajaToResponse(nueva),
		SaldoFinal:  money.APesos(saldo),
	}, nil
}

// ── DetectarIncompletas ──────────────────────────────────────────────────────

func (s *renovacionService) DetectarIncompletas(ctx context.Context) ([]dto.CajaChicaResponse, error) {
	cajas, err := s.cajaRepo.ListCerradasSinSucesora(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CajaChicaResponse, 0, len(cajas))
	for i := range cajas {
		resp = append(resp, cajaToResponse(&cajas[i]))
	}
	return resp, nil
}
