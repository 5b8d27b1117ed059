package service

import (
	"context"
	"fmt"
	"time"

	"condocaja/internal/dto"
	"condocaja/internal/model"
	"condocaja/internal/money"
	"condocaja/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Actor identifies the authenticated user performing an operation. The core
// treats identity resolution as an injected concern — it only stamps these
// two values on the records it writes.
type Actor struct {
	ID     uuid.UUID
	Nombre string
}

// Notificador enqueues the best-effort side effects of the recorder. A nil
// Notificador disables them (unit tests).
type Notificador interface {
	NotificarCopiaEgreso(ctx context.Context, transaccionID uuid.UUID) error
	NotificarSaldoBajo(ctx context.Context, periodo string, saldo, umbral int64) error
}

type CajaChicaService interface {
	Configurar(ctx context.Context, actor Actor, req dto.ConfigurarCajaRequest) (*dto.CajaChicaResponse, error)
	// ObtenerActiva returns (nil, nil) when petty cash is not configured —
	// a valid state, not an error.
	ObtenerActiva(ctx context.Context) (*dto.CajaChicaResponse, error)
	ActualizarConfiguracion(ctx context.Context, req dto.ActualizarCajaRequest) (*dto.CajaChicaResponse, error)
	Saldo(ctx context.Context) (*dto.SaldoResponse, error)
	Registrar(ctx context.Context, actor Actor, req dto.RegistrarTransaccionRequest) (*dto.TransaccionResponse, error)
	ListarTransacciones(ctx context.Context, f dto.TransaccionFilter) (*dto.TransaccionListResponse, error)
	Historial(ctx context.Context, cajaID uuid.UUID) (*dto.HistorialCajaResponse, error)
	Cadena(ctx context.Context, cajaID uuid.UUID) ([]dto.EslabonCadena, error)
}

type cajaChicaService struct {
	db          *gorm.DB
	cajaRepo    repository.CajaChicaRepository
	transRepo   repository.TransaccionRepository
	cierreRepo  repository.CierreRepository
	notificador Notificador
}

func NewCajaChicaService(
	db *gorm.DB,
	cajaRepo repository.CajaChicaRepository,
	transRepo repository.TransaccionRepository,
	cierreRepo repository.CierreRepository,
	notificador Notificador,
) CajaChicaService {
	return &cajaChicaService{
		db:          db,
		cajaRepo:    cajaRepo,
		transRepo:   transRepo,
		cierreRepo:  cierreRepo,
		notificador: notificador,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Configurar ───────────────────────────────────────────────────────────────
// Opens the first petty-cash period. Fails when one is already active; the
// partial unique index on activa backs this check at the DB level.

func (s *cajaChicaService) Configurar(ctx context.Context, actor Actor, req dto.ConfigurarCajaRequest) (*dto.CajaChicaResponse, error) {
	montoInicial := money.ACentavos(req.MontoInicial)
	montoUmbral := money.ACentavos(req.MontoUmbral)
	if montoInicial < 0 || montoUmbral < 0 {
		return nil, ErrMontoInvalido
	}

	fechaInicio := time.Now()
	if req.FechaInicio != nil {
		f, err := time.Parse("2006-01-02", *req.FechaInicio)
		if err != nil {
			return nil, fmt.Errorf("fecha_inicio inválida: %w", err)
		}
		fechaInicio = f
	}

	caja := &model.CajaChica{
		MontoInicial: montoInicial,
		MontoUmbral:  montoUmbral,
		CuentaID:     req.CuentaID,
		CuentaNombre: req.CuentaNombre,
		Activa:       true,
		Periodo:      req.Periodo,
		FechaInicio:  fechaInicio,
	}

	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		existente, err := s.cajaRepo.FindActivaTx(tx, true)
		if err != nil {
			return err
		}
		if existente != nil {
			return ErrCajaYaActiva
		}
		if err := s.cajaRepo.CreateTx(tx, caja); err != nil {
			return err
		}
		// Seed the ledger with the opening balance
		semilla := &model.Transaccion{
			Folio:         generarFolio(),
			CajaChicaID:   caja.ID,
			Tipo:          "inicial",
			Monto:         montoInicial,
			Descripcion:   "Saldo inicial de apertura de caja chica",
			Fecha:         fechaInicio,
			UsuarioID:     actor.ID,
			UsuarioNombre: actor.Nombre,
		}
		return s.transRepo.CreateTx(tx, semilla)
	})
	if err != nil {
		return nil, err
	}

	resp := cajaToResponse(caja)
	return &resp, nil
}

// ── ObtenerActiva ────────────────────────────────────────────────────────────

func (s *cajaChicaService) ObtenerActiva(ctx context.Context) (*dto.CajaChicaResponse, error) {
	caja, err := s.cajaRepo.FindActiva(ctx)
	if err != nil {
		return nil, err
	}
	if caja == nil {
		return nil, nil
	}
	resp := cajaToResponse(caja)
	return &resp, nil
}

// ── ActualizarConfiguracion ──────────────────────────────────────────────────
// Mutates non-structural fields only. MontoInicial, Periodo identity and the
// chain links are never touched through this path.

func (s *cajaChicaService) ActualizarConfiguracion(ctx context.Context, req dto.ActualizarCajaRequest) (*dto.CajaChicaResponse, error) {
	caja, err := s.cajaRepo.FindActiva(ctx)
	if err != nil {
		return nil, err
	}
	if caja == nil {
		return nil, ErrCajaNoActiva
	}

	if req.MontoUmbral != nil {
		umbral := money.ACentavos(*req.MontoUmbral)
		if umbral < 0 {
			return nil, ErrMontoInvalido
		}
		caja.MontoUmbral = umbral
	}
	if req.CuentaID != nil {
		caja.CuentaID = *req.CuentaID
	}
	if req.CuentaNombre != nil {
		caja.CuentaNombre = *req.CuentaNombre
	}
	if req.Activa != nil {
		caja.Activa = *req.Activa
	}

	if err := s.cajaRepo.Update(ctx, caja); err != nil {
		return nil, err
	}
	resp := cajaToResponse(caja)
	return &resp, nil
}

// ── Saldo ────────────────────────────────────────────────────────────────────

func (s *cajaChicaService) Saldo(ctx context.Context) (*dto.SaldoResponse, error) {
	caja, err := s.cajaRepo.FindActiva(ctx)
	if err != nil {
		return nil, err
	}
	if caja == nil {
		// No active period: saldo 0, per contract
		return &dto.SaldoResponse{Saldo: money.APesos(0), MontoUmbral: money.APesos(0)}, nil
	}

	trans, err := s.transRepo.ListByCaja(ctx, caja.ID)
	if err != nil {
		return nil, err
	}
	saldo := CalcularSaldo(trans)

	return &dto.SaldoResponse{
		CajaChicaID: caja.ID.String(),
		Periodo:     caja.Periodo,
		Saldo:       money.APesos(saldo),
		MontoUmbral: money.APesos(caja.MontoUmbral),
		BajoUmbral:  saldo < caja.MontoUmbral,
	}, nil
}

// ── Registrar ────────────────────────────────────────────────────────────────
// Appends a ledger entry to the active period. The balance read and the
// insert run inside one transaction with the period row locked, so two
// concurrent gastos cannot both pass the sufficiency check.

func (s *cajaChicaService) Registrar(ctx context.Context, actor Actor, req dto.RegistrarTransaccionRequest) (*dto.TransaccionResponse, error) {
	monto := money.ACentavos(req.Monto)
	if monto <= 0 {
		return nil, ErrMontoInvalido
	}
	if req.Tipo == "ajuste" && req.Sentido == "" {
		return nil, ErrSentidoAjuste
	}
	if req.Categoria != nil && !model.CategoriaValida(*req.Categoria) {
		return nil, ErrCategoriaDesc
	}
	fecha, err := time.Parse("2006-01-02", req.Fecha)
	if err != nil {
		return nil, fmt.Errorf("fecha inválida: %w", err)
	}

	// Ajuste direction is carried in the stored sign
	montoFirmado := monto
	if req.Tipo == "ajuste" && req.Sentido == "faltante" {
		montoFirmado = -monto
	}

	var (
		trans       *model.Transaccion
		saldoFinal  int64
		montoUmbral int64
		periodo     string
	)
	err = runTx(ctx, s.db, func(tx *gorm.DB) error {
		caja, err := s.cajaRepo.FindActivaTx(tx, true)
		if err != nil {
			return err
		}
		if caja == nil {
			return ErrCajaNoActiva
		}

		existentes, err := s.transRepo.ListByCajaTx(tx, caja.ID)
		if err != nil {
			return err
		}
		saldo := CalcularSaldo(existentes)

		if req.Tipo == "gasto" && monto > saldo {
			return &SaldoInsuficienteError{SaldoActual: saldo}
		}

		trans = &model.Transaccion{
			Folio:          generarFolio(),
			CajaChicaID:    caja.ID,
			Tipo:           req.Tipo,
			Monto:          montoFirmado,
			Categoria:      req.Categoria,
			Descripcion:    req.Descripcion,
			Proveedor:      req.Proveedor,
			ComprobanteURL: req.ComprobanteURL,
			Fecha:          fecha,
			UsuarioID:      actor.ID,
			UsuarioNombre:  actor.Nombre,
		}
		if err := s.transRepo.CreateTx(tx, trans); err != nil {
			return err
		}

		saldoFinal = CalcularSaldo(append(existentes, *trans))
		montoUmbral = caja.MontoUmbral
		periodo = caja.Periodo
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Best-effort side effects, after commit: the ledger write is never
	// rolled back when these fail.
	if s.notificador != nil {
		if req.Tipo == "gasto" {
			if err := s.notificador.NotificarCopiaEgreso(ctx, trans.ID); err != nil {
				log.Warn().Err(err).Str("transaccion_id", trans.ID.String()).
					Msg("no se pudo encolar la copia al libro de egresos")
			}
		}
		if montoFirmado < 0 || req.Tipo == "gasto" {
			if saldoFinal < montoUmbral {
				if err := s.notificador.NotificarSaldoBajo(ctx, periodo, saldoFinal, montoUmbral); err != nil {
					log.Warn().Err(err).Msg("no se pudo encolar la alerta de saldo bajo")
				}
			}
		}
	}

	resp := transToResponse(trans)
	return &resp, nil
}

// ── ListarTransacciones ──────────────────────────────────────────────────────

func (s *cajaChicaService) ListarTransacciones(ctx context.Context, f dto.TransaccionFilter) (*dto.TransaccionListResponse, error) {
	caja, err := s.cajaRepo.FindActiva(ctx)
	if err != nil {
		return nil, err
	}
	if caja == nil {
		return nil, ErrCajaNoActiva
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	trans, total, err := s.transRepo.ListByCajaPaged(ctx, caja.ID, f)
	if err != nil {
		return nil, err
	}

	data := make([]dto.TransaccionResponse, 0, len(trans))
	for i := range trans {
		data = append(data, transToResponse(&trans[i]))
	}
	return &dto.TransaccionListResponse{Data: data, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

// ── Historial ────────────────────────────────────────────────────────────────
// Read-only reconstruction of a period: metadata, full ledger and its
// reconciliations. Never mutates state.

func (s *cajaChicaService) Historial(ctx context.Context, cajaID uuid.UUID) (*dto.HistorialCajaResponse, error) {
	caja, err := s.cajaRepo.FindByID(ctx, cajaID)
	if err != nil {
		return nil, ErrNoEncontrado
	}

	trans, err := s.transRepo.ListByCaja(ctx, cajaID)
	if err != nil {
		return nil, err
	}
	cierres, err := s.cierreRepo.ListByCaja(ctx, cajaID, "")
	if err != nil {
		return nil, err
	}

	resp := &dto.HistorialCajaResponse{
		Caja:          cajaToResponse(caja),
		Transacciones: make([]dto.TransaccionResponse, 0, len(trans)),
		Cierres:       make([]dto.CierreResponse, 0, len(cierres)),
	}
	for i := range trans {
		resp.Transacciones = append(resp.Transacciones, transToResponse(&trans[i]))
	}
	for i := range cierres {
		resp.Cierres = append(resp.Cierres, cierreToResponse(&cierres[i]))
	}
	return resp, nil
}

// ── Cadena ───────────────────────────────────────────────────────────────────
// Walks the predecessor chain from the given period back to the origin.

const maxCadena = 200

func (s *cajaChicaService) Cadena(ctx context.Context, cajaID uuid.UUID) ([]dto.EslabonCadena, error) {
	var cadena []dto.EslabonCadena
	siguiente := &cajaID
	for i := 0; siguiente != nil && i < maxCadena; i++ {
		caja, err := s.cajaRepo.FindByID(ctx, *siguiente)
		if err != nil {
			if i == 0 {
				return nil, ErrNoEncontrado
			}
			break
		}
		eslabon := dto.EslabonCadena{
			ID:      caja.ID.String(),
			Periodo: caja.Periodo,
			Activa:  caja.Activa,
		}
		if caja.SaldoFinal != nil {
			sf := money.APesos(*caja.SaldoFinal)
			eslabon.SaldoFinal = &sf
		}
		cadena = append(cadena, eslabon)
		siguiente = caja.CajaAnteriorID
	}
	return cadena, nil
}

// ── Mapping helpers ──────────────────────────────────────────────────────────

func cajaToResponse(c *model.CajaChica) dto.CajaChicaResponse {
	resp := dto.CajaChicaResponse{
		ID:           c.ID.String(),
		MontoInicial: money.APesos(c.MontoInicial),
		MontoUmbral:  money.APesos(c.MontoUmbral),
		CuentaID:     c.CuentaID,
		CuentaNombre: c.CuentaNombre,
		Activa:       c.Activa,
		Periodo:      c.Periodo,
		FechaInicio:  c.FechaInicio.Format("2006-01-02"),
		Notas:        c.Notas,
	}
	if c.FechaFin != nil {
		f := c.FechaFin.Format("2006-01-02")
		resp.FechaFin = &f
	}
	if c.SaldoFinal != nil {
		sf := money.APesos(*c.SaldoFinal)
		resp.SaldoFinal = &sf
	}
	if c.CajaAnteriorID != nil {
		id := c.CajaAnteriorID.String()
		resp.CajaAnteriorID = &id
	}
	if c.CajaSiguienteID != nil {
		id := c.CajaSiguienteID.String()
		resp.CajaSiguienteID = &id
	}
	return resp
}

func transToResponse(t *model.Transaccion) dto.TransaccionResponse {
	resp := dto.TransaccionResponse{
		ID:             t.ID.String(),
		Folio:          t.Folio,
		CajaChicaID:    t.CajaChicaID.String(),
		Tipo:           t.Tipo,
		Monto:          money.APesos(t.Monto),
		Categoria:      t.Categoria,
		Descripcion:    t.Descripcion,
		Proveedor:      t.Proveedor,
		ComprobanteURL: t.ComprobanteURL,
		Fecha:          t.Fecha.Format("2006-01-02"),
		Usuario:        t.UsuarioNombre,
		CreatedAt:      t.CreatedAt.Format(time.RFC3339),
	}
	if t.Categoria != nil {
		etiqueta := model.EtiquetaCategoria(*t.Categoria)
		resp.CategoriaLabel = &etiqueta
	}
	if t.CierreID != nil {
		id := t.CierreID.String()
		resp.CierreID = &id
	}
	return resp
}
