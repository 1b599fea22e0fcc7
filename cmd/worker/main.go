package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/biznexa/biznexa-api/internal/application/billing"
	"github.com/biznexa/biznexa-api/internal/infrastructure/metrics"
	"github.com/biznexa/biznexa-api/internal/infrastructure/payment"
	"github.com/biznexa/biznexa-api/internal/infrastructure/postgres"
	"github.com/biznexa/biznexa-api/internal/infrastructure/queue"
	"github.com/biznexa/biznexa-api/pkg/config"
	"github.com/biznexa/biznexa-api/pkg/logger"
)

// un barrido no se encola de nuevo mientras el anterior esté dentro de esta ventana
const renewUniqueFor = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name + "-worker",
	})
	if !cfg.Redis.Enabled() {
		log.Fatal().Msg("el worker requiere REDIS_ADDR")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	planRepo := postgres.NewPlanRepository(pool)
	subRepo := postgres.NewSubscriptionRepository(pool)

	gateway := payment.NewSimulatedGateway(cfg.Billing, nil)
	subscriptionUC := billing.NewSubscriptionUseCase(txRunner, planRepo, gateway, metrics.New(), log, cfg.Billing.Currency)
	renewalUC := billing.NewRenewalUseCase(subRepo, subscriptionUC, log)

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.Worker.Concurrency,
		Queues: map[string]int{
			queue.QueueCritical: 6,
			queue.QueueDefault:  3,
		},
	})

	registry := queue.NewHandlersRegistry()
	registry.Register(queue.TypeRenewDue, queue.NewRenewalHandler(renewalUC, cfg.Worker.BatchSize, log))

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{Location: time.UTC})
	task, err := queue.NewRenewDueTask(0, renewUniqueFor)
	if err != nil {
		log.Fatal().Err(err).Msg("tarea de renovación")
	}
	entryID, err := scheduler.Register(cfg.Worker.RenewalCron, task)
	if err != nil {
		log.Fatal().Err(err).Str("cron", cfg.Worker.RenewalCron).Msg("programar renovaciones")
	}
	log.Info().
		Str("entry", entryID).
		Str("cron", cfg.Worker.RenewalCron).
		Int("concurrency", cfg.Worker.Concurrency).
		Msg("iniciando worker")

	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("scheduler")
	}
	if err := srv.Start(registry.Mux()); err != nil {
		log.Fatal().Err(err).Msg("servidor asynq")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, deteniendo worker...")
	scheduler.Shutdown()
	srv.Shutdown()
	log.Info().Msg("worker detenido")
}
