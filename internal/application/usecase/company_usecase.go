package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/biznexa/biznexa-api/internal/application/dto"
	"github.com/biznexa/biznexa-api/internal/domain"
	"github.com/biznexa/biznexa-api/internal/domain/entity"
	"github.com/biznexa/biznexa-api/internal/domain/repository"
)

// CompanyUseCase perfil y settings de la empresa del scope.
type CompanyUseCase struct {
	repo repository.CompanyRepository
	now  func() time.Time
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Get empresa del scope.
func (uc *CompanyUseCase) Get(ctx context.Context) (*dto.CompanyResponse, error) {
	company, err := uc.current(ctx)
	if err != nil {
		return nil, err
	}
	out := dto.NewCompanyResponse(company)
	return &out, nil
}

// Update datos de perfil. Plan, vencimiento y estado solo cambian por billing.
func (uc *CompanyUseCase) Update(ctx context.Context, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := uc.current(ctx)
	if err != nil {
		return nil, err
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&company.Name, in.Name)
	set(&company.LegalName, in.LegalName)
	set(&company.TaxID, in.TaxID)
	set(&company.Email, in.Email)
	set(&company.Phone, in.Phone)
	set(&company.Website, in.Website)
	set(&company.Address, in.Address)
	set(&company.City, in.City)
	set(&company.PostalCode, in.PostalCode)
	set(&company.Timezone, in.Timezone)
	set(&company.Language, in.Language)
	if in.State != nil {
		company.State = strings.ToUpper(strings.TrimSpace(*in.State))
	}
	if in.Currency != nil {
		company.Currency = strings.ToUpper(strings.TrimSpace(*in.Currency))
	}
	if company.Name == "" {
		return nil, domain.NewValidationError("name", "requerido")
	}
	company.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	out := dto.NewCompanyResponse(company)
	return &out, nil
}

// Notifications preferencias de avisos.
func (uc *CompanyUseCase) Notifications(ctx context.Context) (*dto.NotificationSettingsDTO, error) {
	company, err := uc.current(ctx)
	if err != nil {
		return nil, err
	}
	out := toNotificationDTO(company.Settings.Notifications)
	return &out, nil
}

// UpdateNotifications reemplaza las preferencias; el resto de los settings se conserva.
func (uc *CompanyUseCase) UpdateNotifications(ctx context.Context, in dto.NotificationSettingsDTO) (*dto.NotificationSettingsDTO, error) {
	company, err := uc.current(ctx)
	if err != nil {
		return nil, err
	}
	settings := company.Settings
	settings.Notifications = entity.NotificationSettings{
		EmailSales:        in.EmailSales,
		EmailLowStock:     in.EmailLowStock,
		EmailBilling:      in.EmailBilling,
		WhatsappOrders:    in.WhatsappOrders,
		LowStockThreshold: in.LowStockThreshold,
	}
	if err := uc.repo.UpdateSettings(ctx, settings); err != nil {
		return nil, err
	}
	out := toNotificationDTO(settings.Notifications)
	return &out, nil
}

// Integrations credenciales de terceros enmascaradas.
func (uc *CompanyUseCase) Integrations(ctx context.Context) (*dto.IntegrationSettingsDTO, error) {
	company, err := uc.current(ctx)
	if err != nil {
		return nil, err
	}
	out := toIntegrationDTO(company.Settings.Integrations.Masked())
	return &out, nil
}

// UpdateIntegrations un campo nil mantiene el valor guardado; "" lo borra.
func (uc *CompanyUseCase) UpdateIntegrations(ctx context.Context, in dto.IntegrationSettingsDTO) (*dto.IntegrationSettingsDTO, error) {
	company, err := uc.current(ctx)
	if err != nil {
		return nil, err
	}
	settings := company.Settings
	cur := &settings.Integrations
	if in.MercadoPagoToken != nil {
		cur.MercadoPagoToken = *in.MercadoPagoToken
	}
	if in.StripeKey != nil {
		cur.StripeKey = *in.StripeKey
	}
	if in.WhatsappToken != nil {
		cur.WhatsappToken = *in.WhatsappToken
	}
	if in.GoogleAnalyticsID != nil {
		cur.GoogleAnalyticsID = *in.GoogleAnalyticsID
	}
	if err := uc.repo.UpdateSettings(ctx, settings); err != nil {
		return nil, err
	}
	out := toIntegrationDTO(settings.Integrations.Masked())
	return &out, nil
}

func (uc *CompanyUseCase) current(ctx context.Context) (*entity.Company, error) {
	company, err := uc.repo.Current(ctx)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return company, nil
}

func toNotificationDTO(n entity.NotificationSettings) dto.NotificationSettingsDTO {
	return dto.NotificationSettingsDTO{
		EmailSales:        n.EmailSales,
		EmailLowStock:     n.EmailLowStock,
		EmailBilling:      n.EmailBilling,
		WhatsappOrders:    n.WhatsappOrders,
		LowStockThreshold: n.LowStockThreshold,
	}
}

func toIntegrationDTO(s entity.IntegrationSettings) dto.IntegrationSettingsDTO {
	return dto.IntegrationSettingsDTO{
		MercadoPagoToken:  &s.MercadoPagoToken,
		StripeKey:         &s.StripeKey,
		WhatsappToken:     &s.WhatsappToken,
		GoogleAnalyticsID: &s.GoogleAnalyticsID,
	}
}
