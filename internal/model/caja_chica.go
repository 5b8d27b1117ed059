package model

import (
	"time"

	"github.com/google/uuid"
)

// CajaChica represents one petty-cash period of the condominium.
// Estado de vida: exactly one row has Activa=true at any time; a closed period
// is immutable except for the CajaSiguienteID backfill when its successor is
// created during a renovación.
// Invariant: Activa=true ⇔ FechaFin and SaldoFinal are NULL.
type CajaChica struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// MontoInicial / MontoUmbral are stored in centavos
	MontoInicial int64 `gorm:"not null"`
	MontoUmbral  int64 `gorm:"not null"`
	// Cuenta is the linked financial account (external collaborator)
	CuentaID     string `gorm:"not null"`
	CuentaNombre string `gorm:"not null"`
	Activa       bool   `gorm:"not null;default:true;index"`
	// Periodo is the human label ("Enero - Junio 2026")
	Periodo     string `gorm:"not null"`
	FechaInicio time.Time
	FechaFin    *time.Time
	// SaldoFinal (centavos) is set only when the period closes
	SaldoFinal *int64
	Notas      *string
	// Chain links: singly linked, strictly chronological. At most one
	// predecessor and one successor per period.
	CajaAnteriorID  *uuid.UUID `gorm:"type:uuid"`
	CajaSiguienteID *uuid.UUID `gorm:"type:uuid"`
	// Version guards the active-period pointer against concurrent writers
	Version   int `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
