package queue_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biznexa/biznexa-api/internal/application/billing"
	"github.com/biznexa/biznexa-api/internal/infrastructure/queue"
	"github.com/biznexa/biznexa-api/pkg/logger"
)

type fakeSweeper struct {
	batch int
	err   error
}

func (f *fakeSweeper) RenewDue(_ context.Context, batch int) (billing.RenewalReport, error) {
	f.batch = batch
	return billing.RenewalReport{Processed: 2, Renewed: 2}, f.err
}

func TestNewRenewDueTask(t *testing.T) {
	task, err := queue.NewRenewDueTask(25, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, queue.TypeRenewDue, task.Type())

	var p queue.RenewDuePayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, 25, p.BatchSize)
}

func TestRenewalHandler_UsesPayloadOrDefaultBatch(t *testing.T) {
	sw := &fakeSweeper{}
	h := queue.NewRenewalHandler(sw, 100, logger.Nop())

	task, err := queue.NewRenewDueTask(10, 0)
	require.NoError(t, err)
	require.NoError(t, h.ProcessTask(context.Background(), task))
	assert.Equal(t, 10, sw.batch)

	require.NoError(t, h.ProcessTask(context.Background(), asynq.NewTask(queue.TypeRenewDue, nil)))
	assert.Equal(t, 100, sw.batch)
}

func TestRenewalHandler_Errors(t *testing.T) {
	h := queue.NewRenewalHandler(&fakeSweeper{}, 100, nil)
	err := h.ProcessTask(context.Background(), asynq.NewTask(queue.TypeRenewDue, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	h = queue.NewRenewalHandler(&fakeSweeper{err: errors.New("db")}, 100, nil)
	err = h.ProcessTask(context.Background(), asynq.NewTask(queue.TypeRenewDue, nil))
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}
