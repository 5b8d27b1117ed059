package service

import (
	"context"
	"fmt"
	"time"

	"condocaja/internal/dto"
	"condocaja/internal/infra"
	"condocaja/internal/model"
	"condocaja/internal/money"
	"condocaja/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CierreService implements the reconciliation state machine:
//
//	[sin cierre] --Crear--> pendiente --Aprobar--> aprobado (terminal)
//	                        pendiente --Rechazar--> rechazado (terminal)
//
// Terminal states are enforced here, in the core: a second Aprobar or
// Rechazar on a processed cierre fails, it never silently succeeds.
type CierreService interface {
	Crear(ctx context.Context, actor Actor, req dto.CrearCierreRequest) (*dto.CierreResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.CierreResponse, error)
	Listar(ctx context.Context, f dto.CierreFilter) ([]dto.CierreResponse, error)
	Aprobar(ctx context.Context, actor Actor, id uuid.UUID, req dto.AprobarCierreRequest) (*dto.CierreResponse, error)
	Rechazar(ctx context.Context, actor Actor, id uuid.UUID, req dto.RechazarCierreRequest) (*dto.CierreResponse, error)
	// Acta renders the printable certificate of a processed cierre and
	// returns the path of the generated PDF.
	Acta(ctx context.Context, id uuid.UUID) (string, error)
}

type cierreService struct {
	db         *gorm.DB
	cierreRepo repository.CierreRepository
	cajaRepo   repository.CajaChicaRepository
	transRepo  repository.TransaccionRepository
	pdfPath    string
}

func NewCierreService(
	db *gorm.DB,
	cierreRepo repository.CierreRepository,
	cajaRepo repository.CajaChicaRepository,
	transRepo repository.TransaccionRepository,
	pdfPath string,
) CierreService {
	return &cierreService{
		db:         db,
		cierreRepo: cierreRepo,
		cajaRepo:   cajaRepo,
		transRepo:  transRepo,
		pdfPath:    pdfPath,
	}
}

// ── Crear ────────────────────────────────────────────────────────────────────
// Snapshots the theoretical balance at call time — the cierre is not
// live-linked to the ledger. Does not mutate the ledger.

func (s *cierreService) Crear(ctx context.Context, actor Actor, req dto.CrearCierreRequest) (*dto.CierreResponse, error) {
	montoFisico := money.ACentavos(req.MontoFisico)
	if montoFisico < 0 {
		return nil, ErrFisicoNegativo
	}
	fecha, err := time.Parse("2006-01-02", req.Fecha)
	if err != nil {
		return nil, fmt.Errorf("fecha inválida: %w", err)
	}

	caja, err := s.cajaRepo.FindActiva(ctx)
	if err != nil {
		return nil, err
	}
	if caja == nil {
		return nil, ErrCajaNoActiva
	}

	trans, err := s.transRepo.ListByCaja(ctx, caja.ID)
	if err != nil {
		return nil, err
	}
	teorico := CalcularSaldo(trans)

	cierre := &model.Cierre{
		CajaChicaID:   caja.ID,
		Fecha:         fecha,
		MontoFisico:   montoFisico,
		MontoTeorico:  teorico,
		Diferencia:    montoFisico - teorico,
		Estado:        "pendiente",
		Notas:         req.Notas,
		Periodo:       caja.Periodo,
		UsuarioID:     actor.ID,
		UsuarioNombre: actor.Nombre,
	}
	if err := s.cierreRepo.Create(ctx, cierre); err != nil {
		return nil, err
	}

	resp := cierreToResponse(cierre)
	return &resp, nil
}

// ── Obtener / Listar ─────────────────────────────────────────────────────────

func (s *cierreService) Obtener(ctx context.Context, id uuid.UUID) (*dto.CierreResponse, error) {
	cierre, err := s.cierreRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNoEncontrado
	}
	resp := cierreToResponse(cierre)
	return &resp, nil
}

func (s *cierreService) Listar(ctx context.Context, f dto.CierreFilter) ([]dto.CierreResponse, error) {
	var cajaID uuid.UUID
	if f.CajaChicaID != "" {
		id, err := uuid.Parse(f.CajaChicaID)
		if err != nil {
			return nil, fmt.Errorf("caja_chica_id inválido: %w", err)
		}
		cajaID = id
	} else {
		caja, err := s.cajaRepo.FindActiva(ctx)
		if err != nil {
			return nil, err
		}
		if caja == nil {
			return nil, ErrCajaNoActiva
		}
		cajaID = caja.ID
	}

	cierres, err := s.cierreRepo.ListByCaja(ctx, cajaID, f.Estado)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CierreResponse, 0, len(cierres))
	for i := range cierres {
		resp = append(resp, cierreToResponse(&cierres[i]))
	}
	return resp, nil
}

// ── Aprobar ──────────────────────────────────────────────────────────────────
// With crearAjuste and a non-zero difference, posts exactly one ajuste entry
// whose signed amount equals the difference, so the next balance computation
// lands on the counted physical amount. A zero difference never creates one.

func (s *cierreService) Aprobar(ctx context.Context, actor Actor, id uuid.UUID, req dto.AprobarCierreRequest) (*dto.CierreResponse, error) {
	var cierre *model.Cierre
	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		cierre, err = s.cierreRepo.FindByIDTx(tx, id)
		if err != nil {
			return ErrNoEncontrado
		}
		if cierre.Estado != "pendiente" {
			return ErrCierreTerminal
		}

		if req.CrearAjuste && cierre.Diferencia != 0 {
			caja, err := s.cajaRepo.FindActivaTx(tx, true)
			if err != nil {
				return err
			}
			if caja == nil || caja.ID != cierre.CajaChicaID {
				// The period closed between creation and approval — the
				// ledger of a closed period is immutable
				return fmt.Errorf("no se puede ajustar un periodo cerrado: %w", ErrCajaNoActiva)
			}

			descripcion := fmt.Sprintf("Ajuste por faltante en cierre del %s", cierre.Fecha.Format("02/01/2006"))
			if cierre.Diferencia > 0 {
				descripcion = fmt.Sprintf("Ajuste por sobrante en cierre del %s", cierre.Fecha.Format("02/01/2006"))
			}
			ajuste := &model.Transaccion{
				Folio:         generarFolio(),
				CajaChicaID:   caja.ID,
				Tipo:          "ajuste",
				Monto:         cierre.Diferencia,
				Descripcion:   descripcion,
				CierreID:      &cierre.ID,
				Fecha:         time.Now(),
				UsuarioID:     actor.ID,
				UsuarioNombre: actor.Nombre,
			}
			if err := s.transRepo.CreateTx(tx, ajuste); err != nil {
				return err
			}
			cierre.AjusteTransaccionID = &ajuste.ID
		}

		ahora := time.Now()
		cierre.Estado = "aprobado"
		cierre.AprobadoPor = &actor.Nombre
		cierre.AprobadoAt = &ahora
		return s.cierreRepo.UpdateTx(tx, cierre)
	})
	if err != nil {
		return nil, err
	}

	resp := cierreToResponse(cierre)
	return &resp, nil
}

// ── Rechazar ─────────────────────────────────────────────────────────────────

func (s *cierreService) Rechazar(ctx context.Context, actor Actor, id uuid.UUID, req dto.RechazarCierreRequest) (*dto.CierreResponse, error) {
	var cierre *model.Cierre
	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		cierre, err = s.cierreRepo.FindByIDTx(tx, id)
		if err != nil {
			return ErrNoEncontrado
		}
		if cierre.Estado != "pendiente" {
			return ErrCierreTerminal
		}

		motivo := "Rechazado: " + req.Motivo
		if cierre.Notas != nil && *cierre.Notas != "" {
			motivo = *cierre.Notas + " | " + motivo
		}
		ahora := time.Now()
		cierre.Estado = "rechazado"
		cierre.Notas = &motivo
		// AprobadoPor/At double as "processed by/at" on rejection
		cierre.AprobadoPor = &actor.Nombre
		cierre.AprobadoAt = &ahora
		return s.cierreRepo.UpdateTx(tx, cierre)
	})
	if err != nil {
		return nil, err
	}

	resp := cierreToResponse(cierre)
	return &resp, nil
}

// ── Acta ─────────────────────────────────────────────────────────────────────

func (s *cierreService) Acta(ctx context.Context, id uuid.UUID) (string, error) {
	cierre, err := s.cierreRepo.FindByID(ctx, id)
	if err != nil {
		return "", ErrNoEncontrado
	}
	if cierre.Estado == "pendiente" {
		return "", ErrActaPendiente
	}
	return infra.GenerarActaPDF(cierre, s.pdfPath)
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func cierreToResponse(c *model.Cierre) dto.CierreResponse {
	resp := dto.CierreResponse{
		ID:           c.ID.String(),
		CajaChicaID:  c.CajaChicaID.String(),
		Periodo:      c.Periodo,
		Fecha:        c.Fecha.Format("2006-01-02"),
		MontoFisico:  money.APesos(c.MontoFisico),
		MontoTeorico: money.APesos(c.MontoTeorico),
		Diferencia:   money.APesos(c.Diferencia),
		Estado:       c.Estado,
		Notas:        c.Notas,
		Usuario:      c.UsuarioNombre,
		AprobadoPor:  c.AprobadoPor,
		CreatedAt:    c.CreatedAt.Format(time.RFC3339),
	}
	if c.AprobadoAt != nil {
		t := c.AprobadoAt.Format(time.RFC3339)
		resp.AprobadoAt = &t
	}
	if c.AjusteTransaccionID != nil {
		tid := c.AjusteTransaccionID.String()
		resp.AjusteTransaccionID = &tid
	}
	return resp
}
