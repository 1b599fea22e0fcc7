// Package tenant mantiene el tenant del request dentro de context.Context.
//
// Cada request autenticado obtiene un Scope derivado del token; los repositorios
// de entidades del tenant leen el companyID desde aquí y nunca desde la entrada
// del cliente. No hay estado global: el Scope viaja con el contexto.
package tenant

import (
	"context"
	"errors"
)

var (
	// ErrNoTenant el contexto no tiene tenant (request sin autenticar o worker sin scope).
	ErrNoTenant = errors.New("tenant: contexto sin empresa")
	// ErrTenantMismatch se intentó crear una entidad para otra empresa.
	ErrTenantMismatch = errors.New("tenant: company_id distinto al del contexto")
)

// Scope identidad del tenant activo durante un request.
type Scope struct {
	CompanyID string
	UserID    string
	Roles     []string
}

type ctxKey struct{}

// WithScope devuelve un contexto hijo con el tenant.
func WithScope(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// WithCompany atajo para procesos sin usuario (worker, registro).
func WithCompany(ctx context.Context, companyID string) context.Context {
	return WithScope(ctx, Scope{CompanyID: companyID})
}

// FromContext devuelve el Scope si existe.
func FromContext(ctx context.Context) (Scope, bool) {
	s, ok := ctx.Value(ctxKey{}).(Scope)
	if !ok || s.CompanyID == "" {
		return Scope{}, false
	}
	return s, true
}

// CompanyID devuelve el companyID del contexto o ErrNoTenant.
func CompanyID(ctx context.Context) (string, error) {
	s, ok := FromContext(ctx)
	if !ok {
		return "", ErrNoTenant
	}
	return s.CompanyID, nil
}

// Stamp resuelve el companyID de una entidad nueva: vacío toma el del contexto,
// igual al del contexto se acepta, cualquier otro valor es ErrTenantMismatch.
func Stamp(ctx context.Context, explicit string) (string, error) {
	current, err := CompanyID(ctx)
	if err != nil {
		return "", err
	}
	if explicit == "" || explicit == current {
		return current, nil
	}
	return "", ErrTenantMismatch
}
