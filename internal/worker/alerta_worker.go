package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"condocaja/internal/infra"
	"condocaja/internal/money"
)

// AlertaWorker sends the low-balance email to the administration mailbox.
type AlertaWorker struct {
	mailer       *infra.Mailer
	destinatario string
}

func NewAlertaWorker(mailer *infra.Mailer, destinatario string) *AlertaWorker {
	return &AlertaWorker{mailer: mailer, destinatario: destinatario}
}

func (w *AlertaWorker) Process(ctx context.Context, rdb *redis.Client, payload json.RawMessage) {
	var p AlertaSaldoPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		SendToDLQ(ctx, rdb, QueueAlertas, "alerta_saldo", payload, "unmarshal: "+err.Error(), 1)
		return
	}
	if w.destinatario == "" {
		log.Warn().Str("periodo", p.Periodo).Msg("low-balance alert skipped: no recipient configured")
		return
	}

	asunto := fmt.Sprintf("Caja chica %s: saldo bajo", p.Periodo)
	cuerpo := fmt.Sprintf(
		"El saldo de la caja chica del periodo %s es de $%s, por debajo del umbral de $%s.\n\n"+
			"Se recomienda registrar una reposición de fondos.",
		p.Periodo,
		money.APesos(p.Saldo).StringFixed(2),
		money.APesos(p.Umbral).StringFixed(2),
	)
	if err := w.mailer.SendAlerta(w.destinatario, asunto, cuerpo); err != nil {
		log.Error().Str("periodo", p.Periodo).Err(err).Msg("failed to send low-balance alert")
		SendToDLQ(ctx, rdb, QueueAlertas, "alerta_saldo", payload, err.Error(), 1)
		return
	}
	log.Info().Str("periodo", p.Periodo).Int64("saldo", p.Saldo).Msg("low-balance alert sent")
}
