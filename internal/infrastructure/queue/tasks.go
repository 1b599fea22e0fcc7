// Package queue tareas asynq del worker: barrido periódico de renovaciones.
package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeRenewDue = "subscription:renew_due"

	QueueCritical = "critical"
	QueueDefault  = "default"
)

// RenewDuePayload BatchSize 0 usa el valor configurado del worker.
type RenewDuePayload struct {
	BatchSize int `json:"batch_size"`
}

// NewRenewDueTask tarea del barrido. Unique evita encolar dos barridos solapados.
func NewRenewDueTask(batch int, every time.Duration) (*asynq.Task, error) {
	payload, err := json.Marshal(RenewDuePayload{BatchSize: batch})
	if err != nil {
		return nil, fmt.Errorf("marshal renew payload: %w", err)
	}
	opts := []asynq.Option{asynq.Queue(QueueCritical), asynq.MaxRetry(3), asynq.Timeout(10 * time.Minute)}
	if every > 0 {
		opts = append(opts, asynq.Unique(every))
	}
	return asynq.NewTask(TypeRenewDue, payload, opts...), nil
}
