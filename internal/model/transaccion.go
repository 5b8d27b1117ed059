package model

import (
	"time"

	"github.com/google/uuid"
)

// Transaccion is an immutable event in the petty-cash ledger.
// Tipo: "inicial" | "gasto" | "reposicion" | "ajuste"
// Transactions are NEVER modified or deleted — corrections create ajuste
// entries. The only post-insert mutation allowed is the EgresoID backfill
// written by the copy worker.
//
// Monto is stored in centavos. For inicial, gasto and reposicion it is always
// a non-negative magnitude; the effect on the balance is determined by Tipo.
// For ajuste the stored sign IS the direction: positive = sobrante (adds),
// negative = faltante (subtracts).
type Transaccion struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// Folio is the human-readable reference ("CCH-" + 8 random digits).
	// Collisions are not checked — acceptable at expected volumes.
	Folio       string    `gorm:"type:varchar(20);not null;index"`
	CajaChicaID uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo        string    `gorm:"type:varchar(20);not null"`
	Monto       int64     `gorm:"not null"`
	Categoria   *string   `gorm:"type:varchar(40)"`
	Descripcion string    `gorm:"not null"`
	Proveedor   *string
	// ComprobanteURL references an uploaded receipt; upload mechanics are
	// handled elsewhere, only the resulting URL is stored here.
	ComprobanteURL *string
	// CierreID back-references the reconciliation that produced this entry
	// (set only on ajuste entries created by an approval)
	CierreID *uuid.UUID `gorm:"type:uuid"`
	// CajaAnteriorID marks the seed entry of a renovación with the closed
	// period it was rolled over from, for audit traceability
	CajaAnteriorID *uuid.UUID `gorm:"type:uuid"`
	// EgresoID links the denormalized copy in the general expense ledger
	// once the copy worker has written it (gasto entries only)
	EgresoID *uuid.UUID `gorm:"type:uuid"`
	// Fecha is the effective date declared by the user; CreatedAt is the
	// system timestamp
	Fecha         time.Time `gorm:"not null;index"`
	UsuarioID     uuid.UUID `gorm:"type:uuid;not null"`
	UsuarioNombre string    `gorm:"not null"`
	CreatedAt     time.Time
}
