package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearCierreRequest struct {
	Fecha       string          `json:"fecha"        validate:"required,datetime=2006-01-02"`
	MontoFisico decimal.Decimal `json:"monto_fisico"`
	Notas       *string         `json:"notas"`
}

type AprobarCierreRequest struct {
	// CrearAjuste posts a balancing ajuste entry when the difference is
	// non-zero; with a zero difference no entry is ever created
	CrearAjuste bool `json:"crear_ajuste"`
}

type RechazarCierreRequest struct {
	Motivo string `json:"motivo" validate:"required,min=3"`
}

type CierreFilter struct {
	CajaChicaID string
	Estado      string
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CierreResponse struct {
	ID                  string          `json:"id"`
	CajaChicaID         string          `json:"caja_chica_id"`
	Periodo             string          `json:"periodo"`
	Fecha               string          `json:"fecha"`
	MontoFisico         decimal.Decimal `json:"monto_fisico"`
	MontoTeorico        decimal.Decimal `json:"monto_teorico"`
	Diferencia          decimal.Decimal `json:"diferencia"`
	Estado              string          `json:"estado"`
	Notas               *string         `json:"notas"`
	Usuario             string          `json:"usuario"`
	AprobadoPor         *string         `json:"aprobado_por"`
	AprobadoAt          *string         `json:"aprobado_at"`
	AjusteTransaccionID *string         `json:"ajuste_transaccion_id"`
	CreatedAt           string          `json:"created_at"`
}
