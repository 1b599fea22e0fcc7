package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/biznexa/biznexa-api/internal/domain"
	"github.com/biznexa/biznexa-api/internal/domain/tenant"
	"github.com/biznexa/biznexa-api/pkg/logger"
)

// httpError resultado del mapeo de un error de aplicación.
type httpError struct {
	Status  int
	Message string
	Errors  any
}

// reglas de negocio que se informan como 422.
var businessErrors = []error{
	domain.ErrAlreadySubscribed,
	domain.ErrNoSubscription,
	domain.ErrNotAnUpgrade,
	domain.ErrNotADowngrade,
	domain.ErrUsageExceedsLimits,
	domain.ErrAlreadyCancelled,
	domain.ErrRenewalNotDue,
	domain.ErrAutoRenewDisabled,
	domain.ErrLimitReached,
	domain.ErrInsufficientBalance,
	domain.ErrInvoiceAlreadyPaid,
	domain.ErrAlreadyHighlighted,
	domain.ErrSaleAlreadyCancelled,
	domain.ErrStoreNotPublishable,
	domain.ErrInvalidResetToken,
	domain.ErrInsufficientStock,
	domain.ErrDuplicate,
	domain.ErrEmailAlreadyExists,
}

var forbiddenErrors = []error{
	domain.ErrForbidden,
	domain.ErrUserInactive,
	domain.ErrCompanyDisabled,
	domain.ErrSubscriptionExpired,
	domain.ErrFeatureNotInPlan,
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// mapError traduce un error de dominio a status, mensaje y detalle por campo.
// Los tipos se revisan antes que los centinelas que envuelven.
func mapError(err error) httpError {
	var (
		ve   *domain.ValidationError
		le   *domain.LimitError
		ue   *domain.UsageError
		pe   *domain.PaymentError
		ferr *fiber.Error
	)
	switch {
	case errors.As(err, &ve):
		return httpError{Status: fiber.StatusUnprocessableEntity, Message: "los datos enviados no son válidos", Errors: ve.Fields}
	case errors.As(err, &le):
		return httpError{
			Status:  fiber.StatusUnprocessableEntity,
			Message: le.Error(),
			Errors:  fiber.Map{"resource": le.Resource, "limit": le.Limit, "current": le.Current},
		}
	case errors.As(err, &ue):
		return httpError{Status: fiber.StatusUnprocessableEntity, Message: ue.Error(), Errors: fiber.Map{"resources": ue.Resources}}
	case errors.As(err, &pe):
		return httpError{Status: fiber.StatusInternalServerError, Message: pe.Message}
	case errors.As(err, &ferr):
		return httpError{Status: ferr.Code, Message: ferr.Message}
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound), errors.Is(err, tenant.ErrTenantMismatch):
		return httpError{Status: fiber.StatusNotFound, Message: "recurso no encontrado"}
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, tenant.ErrNoTenant):
		return httpError{Status: fiber.StatusUnauthorized, Message: err.Error()}
	case isAny(err, forbiddenErrors):
		return httpError{Status: fiber.StatusForbidden, Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return httpError{Status: fiber.StatusConflict, Message: err.Error()}
	case isAny(err, businessErrors):
		return httpError{Status: fiber.StatusUnprocessableEntity, Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return httpError{Status: fiber.StatusBadRequest, Message: err.Error()}
	default:
		return httpError{Status: fiber.StatusInternalServerError, Message: "error interno del servidor"}
	}
}

// ErrorHandler convierte cualquier error devuelto por un handler al envelope de error.
// Los 500 se registran con el error original; al cliente solo llega el mensaje mapeado.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")
	return func(c *fiber.Ctx, err error) error {
		he := mapError(err)
		if he.Status >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("error no controlado")
		}
		return fail(c, he.Status, he.Message, he.Errors)
	}
}
