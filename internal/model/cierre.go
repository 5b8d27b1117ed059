package model

import (
	"time"

	"github.com/google/uuid"
)

// Cierre is a reconciliation of the physical cash count against the
// theoretical balance of the ledger.
// Estado: "pendiente" | "aprobado" | "rechazado" — aprobado and rechazado are
// terminal; a processed cierre can never be re-opened.
type Cierre struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// CajaChicaID is stored directly at creation time; membership is never
	// reconstructed by date range.
	CajaChicaID uuid.UUID `gorm:"type:uuid;not null;index"`
	Fecha       time.Time `gorm:"not null"`
	// Amounts in centavos. Diferencia = MontoFisico - MontoTeorico, where
	// MontoTeorico is the ledger balance snapshotted at creation time.
	MontoFisico  int64  `gorm:"not null"`
	MontoTeorico int64  `gorm:"not null"`
	Diferencia   int64  `gorm:"not null"`
	Estado       string `gorm:"type:varchar(20);not null;default:'pendiente';index"`
	Notas        *string
	// Periodo snapshots the period label at creation time so the display
	// stays stable even if the period is later renamed or closed
	Periodo       string    `gorm:"not null"`
	UsuarioID     uuid.UUID `gorm:"type:uuid;not null"`
	UsuarioNombre string    `gorm:"not null"`
	// AprobadoPor / AprobadoAt record the processing actor for BOTH terminal
	// transitions (approval and rejection)
	AprobadoPor *string
	AprobadoAt  *time.Time
	// AjusteTransaccionID is set iff the approval created a balancing entry
	AjusteTransaccionID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt           time.Time
}
