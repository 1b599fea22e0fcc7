// Package payment adaptadores del puerto billing.PaymentGateway.
package payment

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/biznexa/biznexa-api/internal/application/billing"
	"github.com/biznexa/biznexa-api/pkg/config"
)

var _ billing.PaymentGateway = (*SimulatedGateway)(nil)

// DeclineMessage mensaje de un rechazo simulado.
const DeclineMessage = "Pagamento recusado. Tente outro método de pagamento."

// Rand fuente de aleatoriedad del gateway. Float64 en [0,1); IntN en [0,n).
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// SimulatedGateway aprueba todos los cobros salvo una fracción de los que superan DeclineAbove.
type SimulatedGateway struct {
	declineAbove decimal.Decimal
	declineRate  float64
	now          func() time.Time

	mu  sync.Mutex
	rnd Rand
}

// NewSimulatedGateway construye el gateway. rnd nil usa math/rand/v2.
func NewSimulatedGateway(cfg config.BillingConfig, rnd Rand) *SimulatedGateway {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15))
	}
	return &SimulatedGateway{
		declineAbove: decimal.NewFromFloat(cfg.DeclineAbove),
		declineRate:  cfg.DeclineRate,
		now:          time.Now,
		rnd:          rnd,
	}
}

// Authorize registra un id METHOD-<unix>-<4 dígitos> o rechaza según la tasa configurada.
func (g *SimulatedGateway) Authorize(ctx context.Context, amount decimal.Decimal, method string) (billing.PaymentResult, error) {
	if err := ctx.Err(); err != nil {
		return billing.PaymentResult{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if amount.GreaterThan(g.declineAbove) && g.rnd.Float64() < g.declineRate {
		return billing.PaymentResult{Success: false, Message: DeclineMessage}, nil
	}
	id := fmt.Sprintf("%s-%d-%04d", strings.ToUpper(method), g.now().Unix(), 1000+g.rnd.IntN(9000))
	return billing.PaymentResult{Success: true, TransactionID: id, Message: "Pagamento processado"}, nil
}

// Simulated siempre true.
func (g *SimulatedGateway) Simulated() bool { return true }
