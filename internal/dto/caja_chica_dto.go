package dto

import "github.com/shopspring/decimal"

// All amounts cross the API in pesos (major units, decimal). The services
// convert to centavos on the way in and back to pesos on the way out.

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ConfigurarCajaRequest struct {
	MontoInicial decimal.Decimal `json:"monto_inicial" validate:"required"`
	MontoUmbral  decimal.Decimal `json:"monto_umbral"  validate:"required"`
	CuentaID     string          `json:"cuenta_id"     validate:"required"`
	CuentaNombre string          `json:"cuenta_nombre" validate:"required"`
	Periodo      string          `json:"periodo"       validate:"required,min=3,max=100"`
	FechaInicio  *string         `json:"fecha_inicio"  validate:"omitempty,datetime=2006-01-02"`
}

type ActualizarCajaRequest struct {
	MontoUmbral  *decimal.Decimal `json:"monto_umbral"`
	CuentaID     *string          `json:"cuenta_id"     validate:"omitempty,min=1"`
	CuentaNombre *string          `json:"cuenta_nombre" validate:"omitempty,min=1"`
	Activa       *bool            `json:"activa"`
}

type RegistrarTransaccionRequest struct {
	Tipo  string          `json:"tipo"  validate:"required,oneof=gasto reposicion ajuste"`
	Monto decimal.Decimal `json:"monto" validate:"required"`
	// Sentido is required for ajuste only: "sobrante" adds to the balance,
	// "faltante" subtracts from it
	Sentido        string  `json:"sentido"         validate:"omitempty,oneof=sobrante faltante"`
	Descripcion    string  `json:"descripcion"     validate:"required,min=3"`
	Fecha          string  `json:"fecha"           validate:"required,datetime=2006-01-02"`
	Categoria      *string `json:"categoria"`
	Proveedor      *string `json:"proveedor"`
	ComprobanteURL *string `json:"comprobante_url" validate:"omitempty,url"`
}

type RenovarCajaRequest struct {
	PeriodoCierre string  `json:"periodo_cierre" validate:"required,min=3,max=100"`
	Notas         *string `json:"notas"`
	PeriodoNuevo  string  `json:"periodo_nuevo"  validate:"required,min=3,max=100"`
}

type TransaccionFilter struct {
	Desde *string
	Hasta *string
	Tipo  string
	Page  int
	Limit int
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CajaChicaResponse struct {
	ID              string           `json:"id"`
	MontoInicial    decimal.Decimal  `json:"monto_inicial"`
	MontoUmbral     decimal.Decimal  `json:"monto_umbral"`
	CuentaID        string           `json:"cuenta_id"`
	CuentaNombre    string           `json:"cuenta_nombre"`
	Activa          bool             `json:"activa"`
	Periodo         string           `json:"periodo"`
	FechaInicio     string           `json:"fecha_inicio"`
	FechaFin        *string          `json:"fecha_fin"`
	SaldoFinal      *decimal.Decimal `json:"saldo_final"`
	Notas           *string          `json:"notas"`
	CajaAnteriorID  *string          `json:"caja_anterior_id"`
	CajaSiguienteID *string          `json:"caja_siguiente_id"`
}

type SaldoResponse struct {
	CajaChicaID string          `json:"caja_chica_id"`
	Periodo     string          `json:"periodo"`
	Saldo       decimal.Decimal `json:"saldo"`
	MontoUmbral decimal.Decimal `json:"monto_umbral"`
	BajoUmbral  bool            `json:"bajo_umbral"`
}

type TransaccionResponse struct {
	ID             string          `json:"id"`
	Folio          string          `json:"folio"`
	CajaChicaID    string          `json:"caja_chica_id"`
	Tipo           string          `json:"tipo"`
	Monto          decimal.Decimal `json:"monto"`
	Categoria      *string         `json:"categoria"`
	CategoriaLabel *string         `json:"categoria_label"`
	Descripcion    string          `json:"descripcion"`
	Proveedor      *string         `json:"proveedor"`
	ComprobanteURL *string         `json:"comprobante_url"`
	CierreID       *string         `json:"cierre_id"`
	Fecha          string          `json:"fecha"`
	Usuario        string          `json:"usuario"`
	CreatedAt      string          `json:"created_at"`
}

type TransaccionListResponse struct {
	Data  []TransaccionResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

type RenovacionResponse struct {
	CajaCerrada CajaChicaResponse `json:"caja_cerrada"`
	CajaNueva   CajaChicaResponse `json:"caja_nueva"`
	SaldoFinal  decimal.Decimal   `json:"saldo_final"`
}

type HistorialCajaResponse struct {
	Caja          CajaChicaResponse     `json:"caja"`
	Transacciones []TransaccionResponse `json:"transacciones"`
	Cierres       []CierreResponse      `json:"cierres"`
}

// EslabonCadena is one period in the predecessor chain walk.
type EslabonCadena struct {
	ID         string           `json:"id"`
	Periodo    string           `json:"periodo"`
	Activa     bool             `json:"activa"`
	SaldoFinal *decimal.Decimal `json:"saldo_final"`
}
