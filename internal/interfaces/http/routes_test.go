package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ──────────────────────────────────────────────────────────────────────────────
// Rutas de catálogo y directorio: validación de entrada
// ──────────────────────────────────────────────────────────────────────────────

func TestBulkUpdate_ValidaEntrada(t *testing.T) {
	app, _ := buildApp(t, activeAccess())

	cases := []struct {
		name, auth, body string
		status           int
	}{
		{"cajero sin products.write", tokenFor(t, "cashier"), `{"action":"activate","products":[{"id":"00000000-0000-0000-0000-000000000001"}]}`, http.StatusForbidden},
		{"acción desconocida", tokenFor(t, "admin"), `{"action":"borrar","products":[{"id":"00000000-0000-0000-0000-000000000001"}]}`, http.StatusUnprocessableEntity},
		{"lista vacía", tokenFor(t, "admin"), `{"action":"activate","products":[]}`, http.StatusUnprocessableEntity},
		{"id que no es uuid", tokenFor(t, "admin"), `{"action":"activate","products":[{"id":"abc"}]}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, env := doRequest(t, app, http.MethodPost, "/api/products/bulk-update", tc.auth, tc.body)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.False(t, env.Success)
		})
	}
}

func TestPublicSearch_SinTokenYTerminoCorto(t *testing.T) {
	app, _ := buildApp(t, activeAccess())

	resp, env := doRequest(t, app, http.MethodGet, "/api/public/market/search?query=a", "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, "ruta pública: valida sin pedir token")
	assert.Contains(t, env.Errors, "query")
}
