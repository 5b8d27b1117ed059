package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"condocaja/internal/repository"
)

const (
	copiaCronInterval = 1 * time.Minute
	copiaGracePeriod  = 5 * time.Minute
	copiaBatchSize    = 100
)

// StartCopiaCron re-enqueues gastos whose general-ledger copy never landed
// (crashed worker, Redis flush, DLQ'd job) and flags interrupted renewals.
// It only considers entries older than a grace period so jobs still sitting
// in the queue are not duplicated — duplication is harmless anyway, the
// copy is idempotent.
func StartCopiaCron(ctx context.Context, transacciones repository.TransaccionRepository, cajas repository.CajaChicaRepository, dispatcher *Dispatcher) {
	go func() {
		ticker := time.NewTicker(copiaCronInterval)
		defer ticker.Stop()
		log.Info().Msg("copia cron started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("copia cron shutting down")
				return
			case <-ticker.C:
				reencolarCopias(ctx, transacciones, dispatcher)
				detectarRenovacionesIncompletas(ctx, cajas)
			}
		}
	}()
}

func reencolarCopias(ctx context.Context, transacciones repository.TransaccionRepository, dispatcher *Dispatcher) {
	antesDe := time.Now().Add(-copiaGracePeriod)
	pendientes, err := transacciones.ListGastosSinCopia(ctx, antesDe, copiaBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("copia cron: failed to list gastos without copy")
		return
	}
	if len(pendientes) == 0 {
		return
	}

	requeued := 0
	for _, t := range pendientes {
		if err := dispatcher.NotificarCopiaEgreso(ctx, t.ID); err != nil {
			log.Error().Str("transaccion_id", t.ID.String()).Err(err).Msg("copia cron: re-enqueue failed")
			continue
		}
		requeued++
	}
	log.Info().Int("requeued", requeued).Int("found", len(pendientes)).Msg("copia cron: re-enqueued missing copies")
}

func detectarRenovacionesIncompletas(ctx context.Context, cajas repository.CajaChicaRepository) {
	incompletas, err := cajas.ListCerradasSinSucesora(ctx)
	if err != nil {
		log.Error().Err(err).Msg("copia cron: failed to scan for incomplete renewals")
		return
	}
	for _, c := range incompletas {
		log.Error().
			Str("caja_id", c.ID.String()).
			Str("periodo", c.Periodo).
			Msg("closed period without successor — renewal needs manual completion")
	}
}
