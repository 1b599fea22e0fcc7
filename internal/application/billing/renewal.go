package billing

import (
	"context"
	"errors"
	"time"

	"github.com/biznexa/biznexa-api/internal/application/dto"
	"github.com/biznexa/biznexa-api/internal/domain"
	"github.com/biznexa/biznexa-api/internal/domain/repository"
	"github.com/biznexa/biznexa-api/internal/domain/tenant"
	"github.com/biznexa/biznexa-api/pkg/logger"
)

// Renewer renueva la suscripción del tenant del contexto (SubscriptionUseCase.Renew).
type Renewer interface {
	Renew(ctx context.Context) (*dto.RenewResponse, error)
}

// DefaultRenewalBatch tamaño de lote cuando el llamador no indica uno.
const DefaultRenewalBatch = 100

// RenewalReport resultado de un barrido.
type RenewalReport struct {
	Processed int
	Renewed   int
	Skipped   int
	Failed    int
}

// RenewalUseCase barrido de renovaciones vencidas de todos los tenants.
type RenewalUseCase struct {
	subs    repository.SubscriptionRepository
	renewer Renewer
	log     *logger.Logger
	now     func() time.Time
}

// NewRenewalUseCase construye el caso de uso. subs debe estar fuera de cualquier scope.
func NewRenewalUseCase(subs repository.SubscriptionRepository, renewer Renewer, log *logger.Logger) *RenewalUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &RenewalUseCase{
		subs:    subs,
		renewer: renewer,
		log:     log.Component("billing.renewal"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *RenewalUseCase) WithClock(now func() time.Time) *RenewalUseCase {
	uc.now = now
	return uc
}

// RenewDue renueva todas las suscripciones vencidas, de a batch por consulta. Cada una corre
// en su propio scope de tenant y transacción; un fallo se registra y no detiene el barrido.
// El cursor avanza por company_id, así las empresas que fallan no vuelven a ocupar el lote.
// Una suscripción que otro proceso ya renovó se cuenta como Skipped.
func (uc *RenewalUseCase) RenewDue(ctx context.Context, batch int) (RenewalReport, error) {
	var report RenewalReport
	if batch <= 0 {
		batch = DefaultRenewalBatch
	}
	now := uc.now()
	after := ""
	for {
		due, err := uc.subs.ListDueForRenewal(ctx, now, after, batch)
		if err != nil {
			return report, err
		}
		for _, d := range due {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			uc.renewOne(ctx, d, &report)
		}
		if len(due) < batch {
			return report, nil
		}
		after = due[len(due)-1].CompanyID
	}
}

func (uc *RenewalUseCase) renewOne(ctx context.Context, d repository.DueRenewal, report *RenewalReport) {
	report.Processed++
	tctx := tenant.WithCompany(ctx, d.CompanyID)
	res, err := uc.renewer.Renew(tctx)
	switch {
	case err == nil:
		report.Renewed++
		uc.log.Info().
			Str("company_id", d.CompanyID).
			Str("subscription_id", d.SubscriptionID).
			Str("invoice", res.Invoice.Number).
			Msg("suscripción renovada")
	case errors.Is(err, domain.ErrRenewalNotDue), errors.Is(err, domain.ErrAutoRenewDisabled):
		report.Skipped++
	default:
		report.Failed++
		uc.log.Error().Err(err).
			Str("company_id", d.CompanyID).
			Str("subscription_id", d.SubscriptionID).
			Msg("renovación fallida")
	}
}
