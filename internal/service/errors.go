package service

import "errors"

// Sentinel errors for the petty-cash core. Handlers map these to HTTP
// statuses with errors.Is; messages are user-facing.
var (
	ErrCajaNoActiva   = errors.New("no hay una caja chica activa configurada")
	ErrCajaYaActiva   = errors.New("ya existe una caja chica activa; cierre el periodo actual antes de configurar otro")
	ErrNoEncontrado   = errors.New("registro no encontrado")
	ErrMontoInvalido  = errors.New("el monto debe ser mayor a cero")
	ErrCategoriaDesc  = errors.New("categoría de gasto desconocida")
	ErrSentidoAjuste  = errors.New("un ajuste requiere el sentido: sobrante o faltante")
	ErrSaldoNegativo  = errors.New("no se puede renovar una caja con saldo negativo")
	ErrCierreTerminal = errors.New("el cierre ya fue procesado y no puede modificarse")
	ErrFisicoNegativo = errors.New("el monto físico contado no puede ser negativo")
	ErrActaPendiente  = errors.New("el acta solo está disponible para cierres procesados")

	// Renovación preconditions — enforced in the core, without escape hatch.
	ErrSinCierreAprobado    = errors.New("se requiere al menos un cierre aprobado para renovar el periodo")
	ErrCierrePendiente      = errors.New("existen cierres pendientes; apruébelos o rechácelos antes de renovar")
	ErrRenovacionIncompleta = errors.New("renovación incompleta: el periodo quedó cerrado sin sucesor")
)

// SaldoInsuficienteError carries the current balance (centavos) so callers
// can show it to the user.
type SaldoInsuficienteError struct {
	SaldoActual int64
}

func (e *SaldoInsuficienteError) Error() string {
	return "saldo insuficiente en la caja chica"
}
