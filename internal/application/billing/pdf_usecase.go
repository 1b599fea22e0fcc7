package billing

import (
	"context"
	"fmt"

	"github.com/biznexa/biznexa-api/internal/domain"
	"github.com/biznexa/biznexa-api/internal/domain/entity"
	"github.com/biznexa/biznexa-api/internal/domain/repository"
)

// PDFUseCase genera la representación PDF de una factura de suscripción del tenant.
type PDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	companyRepo repository.CompanyRepository
	subRepo     repository.SubscriptionRepository
	planRepo    repository.PlanRepository
	generator   InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	companyRepo repository.CompanyRepository,
	subRepo repository.SubscriptionRepository,
	planRepo repository.PlanRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo: invoiceRepo,
		companyRepo: companyRepo,
		subRepo:     subRepo,
		planRepo:    planRepo,
		generator:   generator,
	}
}

// DownloadInvoicePDF genera el PDF de la factura.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe en el tenant del contexto.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}

	company, err := uc.companyRepo.Current(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, "", domain.ErrNotFound
	}

	plan, err := uc.invoicePlan(ctx, inv, company)
	if err != nil {
		return nil, "", err
	}

	pdfBytes, err = uc.generator.GenerateSubscriptionInvoicePDF(ctx, inv, company, plan)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("fatura_%s.pdf", inv.Number), nil
}

// invoicePlan plan de la suscripción de la factura; si ya no es la vigente, el plan de la empresa.
func (uc *PDFUseCase) invoicePlan(ctx context.Context, inv *entity.Invoice, company *entity.Company) (*entity.Plan, error) {
	planID := company.PlanID
	sub, err := uc.subRepo.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("pdf: obtener suscripción: %w", err)
	}
	if sub != nil && sub.ID == inv.SubscriptionID {
		planID = sub.PlanID
	}
	plan, err := uc.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("pdf: obtener plan: %w", err)
	}
	return plan, nil
}
