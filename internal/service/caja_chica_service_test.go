package service_test

import (
	"context"
	"errors"
	"testing"

	"condocaja/internal/dto"
	"condocaja/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testActor() service.Actor {
	return service.Actor{ID: uuid.New(), Nombre: "María Tesorera"}
}

type entorno struct {
	cajaRepo   *memCajaRepo
	transRepo  *memTransRepo
	cierreRepo *memCierreRepo
	notif      *memNotificador
	caja       service.CajaChicaService
	cierres    service.CierreService
	renovacion service.RenovacionService
}

func nuevoEntorno() *entorno {
	e := &entorno{
		cajaRepo:   newMemCajaRepo(),
		transRepo:  newMemTransRepo(),
		cierreRepo: newMemCierreRepo(),
		notif:      &memNotificador{},
	}
	e.caja = service.NewCajaChicaService(nil, e.cajaRepo, e.transRepo, e.cierreRepo, e.notif)
	e.cierres = service.NewCierreService(nil, e.cierreRepo, e.cajaRepo, e.transRepo, "/tmp")
	e.renovacion = service.NewRenovacionService(nil, e.cajaRepo, e.transRepo, e.cierreRepo)
	return e
}

func (e *entorno) configurar(t *testing.T, inicial, umbral float64) *dto.CajaChicaResponse {
	t.Helper()
	resp, err := e.caja.Configurar(context.Background(), testActor(), dto.ConfigurarCajaRequest{
		MontoInicial: decimal.NewFromFloat(inicial),
		MontoUmbral:  decimal.NewFromFloat(umbral),
		CuentaID:     "cta-001",
		CuentaNombre: "Cuenta operativa",
		Periodo:      "Enero - Junio 2026",
	})
	require.NoError(t, err)
	return resp
}

// ── Configuración ────────────────────────────────────────────────────────────

func TestConfigurarCaja(t *testing.T) {
	e := nuevoEntorno()
	resp := e.configurar(t, 1000, 200)

	assert.True(t, resp.Activa)
	assert.Equal(t, "Enero - Junio 2026", resp.Periodo)
	assert.Equal(t, "1000", resp.MontoInicial.String())

	// The ledger opens with the seed entry, so saldo == monto inicial
	saldo, err := e.caja.Saldo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1000", saldo.Saldo.String())
	require.Len(t, e.transRepo.trans, 1)
	assert.Equal(t, "inicial", e.transRepo.trans[0].Tipo)
}

func TestConfigurarDuplicada(t *testing.T) {
	e := nuevoEntorno()
	e.configurar(t, 1000, 200)

	_, err := e.caja.Configurar(context.Background(), testActor(), dto.ConfigurarCajaRequest{
		MontoInicial: decimal.NewFromFloat(500),
		MontoUmbral:  decimal.NewFromFloat(100),
		CuentaID:     "cta-002",
		CuentaNombre: "Otra cuenta",
		Periodo:      "Julio - Diciembre 2026",
	})
	assert.ErrorIs(t, err, service.ErrCajaYaActiva)
}

func TestSaldoSinCajaConfigurada(t *testing.T) {
	e := nuevoEntorno()
	saldo, err := e.caja.Saldo(context.Background())
	require.NoError(t, err)
	assert.True(t, saldo.Saldo.IsZero())
}

func TestActualizarUmbral(t *testing.T) {
	e := nuevoEntorno()
	e.configurar(t, 1000, 200)

	nuevo := decimal.NewFromFloat(350)
	resp, err := e.caja.ActualizarConfiguracion(context.Background(), dto.ActualizarCajaRequest{
		MontoUmbral: &nuevo,
	})
	require.NoError(t, err)
	assert.Equal(t, "350", resp.MontoUmbral.String())
	// MontoInicial is never touched through this path
	assert.Equal(t, "1000", resp.MontoInicial.String())
}

// ── Registro de transacciones ────────────────────────────────────────────────

func TestRegistrarGasto(t *testing.T) {
	e := nuevoEntorno()
	e.configurar(t, 1000, 200)

	cat := "mantenimiento"
	resp, err := e.caja.Registrar(context.Background(), testActor(), dto.RegistrarTransaccionRequest{
		Tipo:        "gasto",
		Monto:       decimal.NewFromFloat(150.50),
		Categoria:   &cat,
		Descripcion: "Reparación de bomba de agua",
		Fecha:       "2026-01-15",
	})
	require.NoError(t, err)
	assert.Equal(t, "150.5", resp.Monto.String())
	assert.NotEmpty(t, resp.Folio)
	require.NotNil(t, resp.CategoriaLabel)
	assert.Equal(t, "Mantenimiento", *resp.CategoriaLabel)

	saldo, err := e.caja.Saldo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "849.5", saldo.Saldo.String())

	// The gasto queues its copy to the general ledger
	require.Len(t, e.notif.copias, 1)
}

func TestGastoSaldoInsuficiente(t *testing.T) {
	e := nuevoEntorno()
	e.configurar(t, 100, 0)

	_, err := e.caja.Registrar(context.Background(), testActor(), dto.RegistrarTransaccionRequest{
		Tipo:        "gasto",
		Monto:       decimal.NewFromFloat(100.01),
		Descripcion: "Gasto que excede el saldo",
		Fecha:       "2026-01-15",
	})
	var saldoErr *service.SaldoInsuficienteError
	require.True(t, errors.As(err, &saldoErr))
	assert.Equal(t, int64(10000), saldoErr.SaldoActual)

	// The rejected gasto never touched the ledger
	assert.Len(t, e.transRepo.trans, 1)
}

func TestGastoExacto(t *testing.T) {
	// Spending the full balance down to zero is allowed
	e := nuevoEntorno()
	e.configurar(t, 100, 0)

	_, err := e.caja.Registrar(context.Background(), testActor(), dto.RegistrarTransaccionRequest{
		Tipo:        "gasto",
		Monto:       decimal.NewFromFloat(100),
		Descripcion: "Gasto por el saldo completo",
		Fecha:       "2026-01-15",
	})
	require.NoError(t, err)

	saldo, err := e.caja.Saldo(context.Background())
	require.NoError(t, err)
	assert.True(t, saldo.Saldo.IsZero())
}

func TestReposicionNoValidaSaldo(t *testing.T) {
	e := nuevoEntorno()
	e.configurar(t, 50, 0)

	_, err := e.caja.Registrar(context.Background(), testActor(), dto.RegistrarTransaccionRequest{
		Tipo:        "reposicion",
		Monto:       decimal.NewFromFloat(500),
		Descripcion: "Reposición del fondo",
		Fecha:       "2026-01-20",
	})
	require.NoError(t, err)

	saldo, err := e.caja.Saldo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "550", saldo.Saldo.String())
}

func TestAjusteRequiereSentido(t *testing.T) {
	e := nuevoEntorno()
	e.configurar(t, 1000, 0)

	_, err := e.caja.Registrar(context.Background(), testActor(), dto.RegistrarTransaccionRequest{
		Tipo:        "ajuste",
		Monto:       decimal.NewFromFloat(10),
		Descripcion: "Ajuste sin sentido declarado",
		Fecha:       "2026-01-15",
	})
	assert.ErrorIs(t, err, service.ErrSentidoAjuste)
}

func TestAjusteFaltante(t *testing.T) {
	e := nuevoEntorno()
	e.configurar(t, 1000, 0)

	_, err := e.caja.Registrar(context.Background(), testActor(), dto.RegistrarTransaccionRequest{
		Tipo:        "ajuste",
		Monto:       decimal.NewFromFloat(25.50),
		Sentido:     "faltante",
		Descripcion: "Faltante detectado en conteo",
		Fecha:       "2026-01-15",
	})
	require.NoError(t, err)

	// Stored with negative sign; the API keeps reporting the magnitude's sign
	assert.Equal(t, int64(-2550), e.transRepo.trans[1].Monto)

	saldo, err := e.caja.Saldo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "974.5", saldo.Saldo.String())
}

func TestCategoriaDesconocida(t *testing.T) {
	e := nuevoEntorno()
	e.configurar(t, 1000, 0)

	cat := "jacuzzi"
	_, err := e.caja.Registrar(context.Background(), testActor(), dto.RegistrarTransaccionRequest{
		Tipo:        "gasto",
		Monto:       decimal.NewFromFloat(10),
		Categoria:   &cat,
		Descripcion: "Categoría no catalogada",
		Fecha:       "2026-01-15",
	})
	assert.ErrorIs(t, err, service.ErrCategoriaDesc)
}

func TestRegistrarSinCajaActiva(t *testing.T) {
	e := nuevoEntorno()
	_, err := e.caja.Registrar(context.Background(), testActor(), dto.RegistrarTransaccionRequest{
		Tipo:        "gasto",
		Monto:       decimal.NewFromFloat(10),
		Descripcion: "Sin caja configurada",
		Fecha:       "2026-01-15",
	})
	assert.ErrorIs(t, err, service.ErrCajaNoActiva)
}

func TestMontoNoPositivo(t *testing.T) {
	e := nuevoEntorno()
	e.configurar(t, 1000, 0)

	_, err := e.caja.Registrar(context.Background(), testActor(), dto.RegistrarTransaccionRequest{
		Tipo:        "gasto",
		Monto:       decimal.Zero,
		Descripcion: "Monto cero",
		Fecha:       "2026-01-15",
	})
	assert.ErrorIs(t, err, service.ErrMontoInvalido)
}

func TestAlertaSaldoBajo(t *testing.T) {
	e := nuevoEntorno()
	e.configurar(t, 1000, 900)

	_, err := e.caja.Registrar(context.Background(), testActor(), dto.RegistrarTransaccionRequest{
		Tipo:        "gasto",
		Monto:       decimal.NewFromFloat(150),
		Descripcion: "Gasto que cruza el umbral",
		Fecha:       "2026-01-15",
	})
	require.NoError(t, err)

	require.Len(t, e.notif.alertas, 1)
	assert.Equal(t, int64(85000), e.notif.alertas[0])
}

// ── Listado ──────────────────────────────────────────────────────────────────

func TestListarTransaccionesFiltroTipo(t *testing.T) {
	e := nuevoEntorno()
	e.configurar(t, 1000, 0)

	for i := 0; i < 3; i++ {
		_, err := e.caja.Registrar(context.Background(), testActor(), dto.RegistrarTransaccionRequest{
			Tipo:        "gasto",
			Monto:       decimal.NewFromFloat(10),
			Descripcion: "Gasto de prueba",
			Fecha:       "2026-01-15",
		})
		require.NoError(t, err)
	}

	resp, err := e.caja.ListarTransacciones(context.Background(), dto.TransaccionFilter{Tipo: "gasto", Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Total)
	assert.Len(t, resp.Data, 2)
}

// ── Escenario completo ───────────────────────────────────────────────────────
// Apertura 1000.00 → gasto 150.50 → reposición 100.00 → conteo físico 940.00
// → aprobación con ajuste → el saldo queda exactamente en el monto contado.

func TestEscenarioCompleto(t *testing.T) {
	e := nuevoEntorno()
	actor := testActor()
	e.configurar(t, 1000, 200)

	cat := "limpieza"
	_, err := e.caja.Registrar(context.Background(), actor, dto.RegistrarTransaccionRequest{
		Tipo:        "gasto",
		Monto:       decimal.NewFromFloat(150.50),
		Categoria:   &cat,
		Descripcion: "Insumos de limpieza",
		Fecha:       "2026-02-01",
	})
	require.NoError(t, err)

	saldo, err := e.caja.Saldo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "849.5", saldo.Saldo.String())

	_, err = e.caja.Registrar(context.Background(), actor, dto.RegistrarTransaccionRequest{
		Tipo:        "reposicion",
		Monto:       decimal.NewFromFloat(100),
		Descripcion: "Reposición parcial",
		Fecha:       "2026-02-10",
	})
	require.NoError(t, err)

	saldo, err = e.caja.Saldo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "949.5", saldo.Saldo.String())

	// Conteo físico: 940.00 → diferencia -9.50
	cierre, err := e.cierres.Crear(context.Background(), actor, dto.CrearCierreRequest{
		Fecha:       "2026-02-15",
		MontoFisico: decimal.NewFromFloat(940),
	})
	require.NoError(t, err)
	assert.Equal(t, "949.5", cierre.MontoTeorico.String())
	assert.Equal(t, "-9.5", cierre.Diferencia.String())
	assert.Equal(t, "pendiente", cierre.Estado)

	aprobado, err := e.cierres.Aprobar(context.Background(), actor, uuid.MustParse(cierre.ID), dto.AprobarCierreRequest{CrearAjuste: true})
	require.NoError(t, err)
	assert.Equal(t, "aprobado", aprobado.Estado)
	require.NotNil(t, aprobado.AjusteTransaccionID)

	// After the adjustment the ledger lands exactly on the counted amount
	saldo, err = e.caja.Saldo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "940", saldo.Saldo.String())
}
