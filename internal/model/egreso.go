package model

import (
	"time"

	"github.com/google/uuid"
)

// Egreso is the denormalized copy of a petty-cash gasto in the condominium's
// general expense ledger. The copy is written asynchronously and best-effort;
// TransaccionID is unique so a retried job can never duplicate it.
type Egreso struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TransaccionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	// Concepto carries the translated category label, not the raw enum key
	Concepto    string    `gorm:"not null"`
	Monto       int64     `gorm:"not null"`
	Fecha       time.Time `gorm:"not null"`
	Descripcion string    `gorm:"not null"`
	Proveedor   *string
	Origen      string `gorm:"type:varchar(20);not null;default:'caja_chica'"`
	CreatedAt   time.Time
}
