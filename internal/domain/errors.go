package domain

import (
	"errors"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")

	// Tenant y suscripción.
	ErrCompanyDisabled      = errors.New("la cuenta de la empresa está deshabilitada")
	ErrSubscriptionExpired  = errors.New("la suscripción está vencida")
	ErrUserInactive         = errors.New("usuario inactivo")
	ErrAlreadySubscribed    = errors.New("ya está suscrito a este plan")
	ErrNoSubscription       = errors.New("no hay una suscripción activa")
	ErrNotAnUpgrade         = errors.New("el plan destino no es un upgrade")
	ErrNotADowngrade        = errors.New("el plan destino no es un downgrade")
	ErrUsageExceedsLimits   = errors.New("el uso actual excede los límites del plan destino")
	ErrAlreadyCancelled     = errors.New("la suscripción ya está cancelada")
	ErrRenewalNotDue        = errors.New("el ciclo actual aún no terminó")
	ErrAutoRenewDisabled    = errors.New("la renovación automática está desactivada")
	ErrLimitReached         = errors.New("se alcanzó el límite del plan")
	ErrFeatureNotInPlan     = errors.New("el plan no incluye esta funcionalidad")
	ErrInsufficientBalance  = errors.New("saldo insuficiente")
	ErrInvoiceAlreadyPaid   = errors.New("la factura ya está pagada")
	ErrAlreadyHighlighted   = errors.New("la empresa ya fue destacada")
	ErrSaleAlreadyCancelled = errors.New("la venta ya está cancelada")
	ErrStoreNotPublishable  = errors.New("la tienda no cumple los requisitos para publicarse")
	ErrInvalidResetToken    = errors.New("token de recuperación inválido o expirado")
)

// ValidationError errores de validación por campo (campo -> mensajes).
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError construye un ValidationError con un único campo.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {msg}}}
}

// Add agrega un mensaje a un campo.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validación fallida: " + strings.Join(keys, ", ")
}

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// PaymentError rechazo del gateway de pagos; Message viene del proveedor.
type PaymentError struct {
	Message string
}

func (e *PaymentError) Error() string { return "pago rechazado: " + e.Message }

// LimitError límite del plan alcanzado para un recurso.
type LimitError struct {
	Resource string // users, products, storage
	Limit    int
	Current  int
}

func (e *LimitError) Error() string { return "límite del plan alcanzado: " + e.Resource }

// Unwrap permite errors.Is(err, ErrLimitReached).
func (e *LimitError) Unwrap() error { return ErrLimitReached }

// UsageError el uso actual impide un downgrade; Resources lista lo excedido.
type UsageError struct {
	Resources []string
}

func (e *UsageError) Error() string {
	return ErrUsageExceedsLimits.Error() + ": " + strings.Join(e.Resources, ", ")
}

// Unwrap permite errors.Is(err, ErrUsageExceedsLimits).
func (e *UsageError) Unwrap() error { return ErrUsageExceedsLimits }
