package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/biznexa/biznexa-api/internal/application/billing"
	"github.com/biznexa/biznexa-api/pkg/logger"
)

// HandlersRegistry mux de tareas del worker.
type HandlersRegistry struct {
	mux *asynq.ServeMux
}

func NewHandlersRegistry() *HandlersRegistry {
	return &HandlersRegistry{mux: asynq.NewServeMux()}
}

func (r *HandlersRegistry) Register(taskType string, handler asynq.Handler) {
	r.mux.Handle(taskType, handler)
}

func (r *HandlersRegistry) Mux() *asynq.ServeMux {
	return r.mux
}

// RenewalSweeper lo implementa billing.RenewalUseCase.
type RenewalSweeper interface {
	RenewDue(ctx context.Context, batch int) (billing.RenewalReport, error)
}

// RenewalHandler procesa subscription:renew_due.
type RenewalHandler struct {
	sweeper      RenewalSweeper
	defaultBatch int
	log          *logger.Logger
}

func NewRenewalHandler(sweeper RenewalSweeper, defaultBatch int, log *logger.Logger) *RenewalHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &RenewalHandler{sweeper: sweeper, defaultBatch: defaultBatch, log: log.Component("worker.renewal")}
}

// ProcessTask un payload inválido no se reintenta (asynq.SkipRetry).
func (h *RenewalHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p RenewDuePayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("decode %s payload: %v: %w", TypeRenewDue, err, asynq.SkipRetry)
		}
	}
	batch := p.BatchSize
	if batch <= 0 {
		batch = h.defaultBatch
	}

	report, err := h.sweeper.RenewDue(ctx, batch)
	if err != nil {
		return fmt.Errorf("renew due: %w", err)
	}
	h.log.Info().
		Int("processed", report.Processed).
		Int("renewed", report.Renewed).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("barrido de renovaciones completado")
	return nil
}
