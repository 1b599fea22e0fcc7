package tenant_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biznexa/biznexa-api/internal/domain/tenant"
)

func TestCompanyID_SinScope(t *testing.T) {
	_, err := tenant.CompanyID(context.Background())
	assert.ErrorIs(t, err, tenant.ErrNoTenant)
}

func TestCompanyID_ScopeVacioNoCuenta(t *testing.T) {
	ctx := tenant.WithScope(context.Background(), tenant.Scope{UserID: "u1"})
	_, err := tenant.CompanyID(ctx)
	assert.ErrorIs(t, err, tenant.ErrNoTenant, "un scope sin company no es un tenant")
}

func TestStamp(t *testing.T) {
	ctx := tenant.WithCompany(context.Background(), "company-a")

	id, err := tenant.Stamp(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "company-a", id, "vacío toma el tenant del contexto")

	id, err = tenant.Stamp(ctx, "company-a")
	require.NoError(t, err)
	assert.Equal(t, "company-a", id)

	_, err = tenant.Stamp(ctx, "company-b")
	assert.ErrorIs(t, err, tenant.ErrTenantMismatch)

	_, err = tenant.Stamp(context.Background(), "")
	assert.ErrorIs(t, err, tenant.ErrNoTenant)
}

// Requests concurrentes con tenants distintos no se contaminan.
func TestScope_AisladoEntreGoroutines(t *testing.T) {
	base := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		want := []string{"company-a", "company-b"}[i%2]
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx := tenant.WithCompany(base, want)
			got, err := tenant.CompanyID(ctx)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()

	_, err := tenant.CompanyID(base)
	assert.ErrorIs(t, err, tenant.ErrNoTenant, "el contexto base sigue sin tenant")
}
