package worker

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"condocaja/internal/model"
	"condocaja/internal/repository"
)

// EgresoWorker materializes the denormalized copy of a gasto in the
// condominium's general expense ledger. Idempotent: the unique index on
// transaccion_id plus the FindByTransaccion check make re-deliveries safe.
type EgresoWorker struct {
	transacciones repository.TransaccionRepository
	egresos       repository.EgresoRepository
}

func NewEgresoWorker(transacciones repository.TransaccionRepository, egresos repository.EgresoRepository) *EgresoWorker {
	return &EgresoWorker{transacciones: transacciones, egresos: egresos}
}

func (w *EgresoWorker) Process(ctx context.Context, rdb *redis.Client, payload json.RawMessage) {
	var p CopiaEgresoPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		SendToDLQ(ctx, rdb, QueueEgresos, "copia_egreso", payload, "unmarshal: "+err.Error(), 1)
		return
	}
	transaccionID, err := uuid.Parse(p.TransaccionID)
	if err != nil {
		SendToDLQ(ctx, rdb, QueueEgresos, "copia_egreso", payload, "invalid transaccion_id: "+err.Error(), 1)
		return
	}

	if err := w.copiar(ctx, transaccionID); err != nil {
		log.Error().Str("transaccion_id", p.TransaccionID).Err(err).Msg("failed to copy gasto to egresos")
		SendToDLQ(ctx, rdb, QueueEgresos, "copia_egreso", payload, err.Error(), 1)
		return
	}
}

func (w *EgresoWorker) copiar(ctx context.Context, transaccionID uuid.UUID) error {
	t, err := w.transacciones.FindByID(ctx, transaccionID)
	if err != nil {
		return err
	}
	if t.Tipo != "gasto" {
		log.Warn().Str("transaccion_id", transaccionID.String()).Str("tipo", t.Tipo).Msg("copia job for non-gasto entry ignored")
		return nil
	}

	// Dedupe: a previous delivery may have created the copy but died
	// before backfilling egreso_id on the transaccion.
	existente, err := w.egresos.FindByTransaccion(ctx, transaccionID)
	if err != nil {
		return err
	}
	if existente != nil {
		if t.EgresoID == nil {
			return w.transacciones.SetEgreso(ctx, transaccionID, existente.ID)
		}
		return nil
	}
	if t.EgresoID != nil {
		return nil
	}

	categoria := "otros"
	if t.Categoria != nil {
		categoria = *t.Categoria
	}
	egreso := &model.Egreso{
		TransaccionID: t.ID,
		Concepto:      model.EtiquetaCategoria(categoria),
		Descripcion:   t.Descripcion,
		Proveedor:     t.Proveedor,
		Monto:         t.Monto,
		Fecha:         t.Fecha,
		Origen:        "caja_chica",
	}
	if err := w.egresos.Create(ctx, egreso); err != nil {
		return err
	}
	return w.transacciones.SetEgreso(ctx, transaccionID, egreso.ID)
}
