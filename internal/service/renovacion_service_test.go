package service_test

import (
	"context"
	"testing"
	"time"

	"condocaja/internal/dto"
	"condocaja/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renovarReq() dto.RenovarCajaRequest {
	return dto.RenovarCajaRequest{
		PeriodoCierre: "Enero - Junio 2026",
		PeriodoNuevo:  "Julio - Diciembre 2026",
	}
}

func TestRenovarSinCierreAprobado(t *testing.T) {
	e := nuevoEntorno()
	e.configurar(t, 1000, 0)

	_, err := e.renovacion.Renovar(context.Background(), testActor(), renovarReq())
	assert.ErrorIs(t, err, service.ErrSinCierreAprobado)
}

func TestRenovarConCierrePendiente(t *testing.T) {
	e := nuevoEntorno()
	e.configurar(t, 1000, 0)

	aprobado := crearCierre(t, e, 1000)
	_, err := e.cierres.Aprobar(context.Background(), testActor(), uuid.MustParse(aprobado.ID), dto.AprobarCierreRequest{})
	require.NoError(t, err)
	crearCierre(t, e, 995) // queda pendiente

	_, err = e.renovacion.Renovar(context.Background(), testActor(), renovarReq())
	assert.ErrorIs(t, err, service.ErrCierrePendiente)
}

func TestRenovarConservaSaldo(t *testing.T) {
	e := nuevoEntorno()
	actor := testActor()
	e.configurar(t, 1000, 200)

	_, err := e.caja.Registrar(context.Background(), actor, dto.RegistrarTransaccionRequest{
		Tipo:        "gasto",
		Monto:       decimal.NewFromFloat(150.50),
		Descripcion: "Gasto del periodo saliente",
		Fecha:       "2026-05-01",
	})
	require.NoError(t, err)

	cierre := crearCierre(t, e, 849.50)
	_, err = e.cierres.Aprobar(context.Background(), actor, uuid.MustParse(cierre.ID), dto.AprobarCierreRequest{})
	require.NoError(t, err)

	resp, err := e.renovacion.Renovar(context.Background(), actor, renovarReq())
	require.NoError(t, err)

	// Closed period: inactive, stamped with its final balance
	assert.False(t, resp.CajaCerrada.Activa)
	require.NotNil(t, resp.CajaCerrada.SaldoFinal)
	assert.Equal(t, "849.5", resp.CajaCerrada.SaldoFinal.String())
	require.NotNil(t, resp.CajaCerrada.FechaFin)

	// Successor: active, opened with exactly the carried balance, inheriting
	// threshold and linked account
	assert.True(t, resp.CajaNueva.Activa)
	assert.Equal(t, "849.5", resp.CajaNueva.MontoInicial.String())
	assert.Equal(t, "200", resp.CajaNueva.MontoUmbral.String())
	assert.Equal(t, "cta-001", resp.CajaNueva.CuentaID)
	assert.Equal(t, "Julio - Diciembre 2026", resp.CajaNueva.Periodo)

	// Chain linked in both directions
	require.NotNil(t, resp.CajaCerrada.CajaSiguienteID)
	assert.Equal(t, resp.CajaNueva.ID, *resp.CajaCerrada.CajaSiguienteID)
	require.NotNil(t, resp.CajaNueva.CajaAnteriorID)
	assert.Equal(t, resp.CajaCerrada.ID, *resp.CajaNueva.CajaAnteriorID)

	// The new ledger opens with a single seed entry carrying provenance
	nuevaID := uuid.MustParse(resp.CajaNueva.ID)
	trans, err := e.transRepo.ListByCaja(context.Background(), nuevaID)
	require.NoError(t, err)
	require.Len(t, trans, 1)
	assert.Equal(t, "inicial", trans[0].Tipo)
	assert.Equal(t, int64(84950), trans[0].Monto)
	require.NotNil(t, trans[0].CajaAnteriorID)
	assert.Equal(t, resp.CajaCerrada.ID, trans[0].CajaAnteriorID.String())

	// Exactly one active period after the rollover
	activa, err := e.cajaRepo.FindActiva(context.Background())
	require.NoError(t, err)
	require.NotNil(t, activa)
	assert.Equal(t, nuevaID, activa.ID)
}

func TestRenovarSaldoNegativo(t *testing.T) {
	e := nuevoEntorno()
	actor := testActor()
	e.configurar(t, 500, 0)

	// A faltante adjustment larger than the balance drives it negative
	_, err := e.caja.Registrar(context.Background(), actor, dto.RegistrarTransaccionRequest{
		Tipo:        "ajuste",
		Monto:       decimal.NewFromFloat(600),
		Sentido:     "faltante",
		Descripcion: "Faltante mayor al fondo",
		Fecha:       "2026-05-01",
	})
	require.NoError(t, err)

	cierre := crearCierre(t, e, 0)
	_, err = e.cierres.Aprobar(context.Background(), actor, uuid.MustParse(cierre.ID), dto.AprobarCierreRequest{})
	require.NoError(t, err)

	_, err = e.renovacion.Renovar(context.Background(), actor, renovarReq())
	assert.ErrorIs(t, err, service.ErrSaldoNegativo)
}

func TestRenovarSinCajaActiva(t *testing.T) {
	e := nuevoEntorno()
	_, err := e.renovacion.Renovar(context.Background(), testActor(), renovarReq())
	assert.ErrorIs(t, err, service.ErrCajaNoActiva)
}

// ── Historial y cadena ───────────────────────────────────────────────────────

func TestHistorialDePeriodoCerrado(t *testing.T) {
	e := nuevoEntorno()
	actor := testActor()
	e.configurar(t, 1000, 0)

	cierre := crearCierre(t, e, 1000)
	_, err := e.cierres.Aprobar(context.Background(), actor, uuid.MustParse(cierre.ID), dto.AprobarCierreRequest{})
	require.NoError(t, err)

	resp, err := e.renovacion.Renovar(context.Background(), actor, renovarReq())
	require.NoError(t, err)

	hist, err := e.caja.Historial(context.Background(), uuid.MustParse(resp.CajaCerrada.ID))
	require.NoError(t, err)
	assert.False(t, hist.Caja.Activa)
	assert.Len(t, hist.Transacciones, 1) // seed
	assert.Len(t, hist.Cierres, 1)
	assert.Equal(t, "aprobado", hist.Cierres[0].Estado)
}

func TestCadenaDePeriodos(t *testing.T) {
	e := nuevoEntorno()
	actor := testActor()
	e.configurar(t, 1000, 0)

	cierre := crearCierre(t, e, 1000)
	_, err := e.cierres.Aprobar(context.Background(), actor, uuid.MustParse(cierre.ID), dto.AprobarCierreRequest{})
	require.NoError(t, err)

	resp, err := e.renovacion.Renovar(context.Background(), actor, renovarReq())
	require.NoError(t, err)

	cadena, err := e.caja.Cadena(context.Background(), uuid.MustParse(resp.CajaNueva.ID))
	require.NoError(t, err)
	require.Len(t, cadena, 2)
	assert.Equal(t, resp.CajaNueva.ID, cadena[0].ID)
	assert.True(t, cadena[0].Activa)
	assert.Equal(t, resp.CajaCerrada.ID, cadena[1].ID)
	require.NotNil(t, cadena[1].SaldoFinal)
	assert.Equal(t, "1000", cadena[1].SaldoFinal.String())
}

func TestCadenaPeriodoInexistente(t *testing.T) {
	e := nuevoEntorno()
	_, err := e.caja.Cadena(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNoEncontrado)
}

func TestDetectarIncompletas(t *testing.T) {
	e := nuevoEntorno()
	caja := e.configurar(t, 1000, 0)

	// Simulate the dangling state a partial rollover leaves behind:
	// closed, no successor link
	id := uuid.MustParse(caja.ID)
	c, err := e.cajaRepo.FindByID(context.Background(), id)
	require.NoError(t, err)
	ahora := time.Now()
	saldo := int64(100000)
	c.Activa = false
	c.FechaFin = &ahora
	c.SaldoFinal = &saldo
	require.NoError(t, e.cajaRepo.Update(context.Background(), c))

	incompletas, err := e.renovacion.DetectarIncompletas(context.Background())
	require.NoError(t, err)
	require.Len(t, incompletas, 1)
	assert.Equal(t, caja.ID, incompletas[0].ID)
}
