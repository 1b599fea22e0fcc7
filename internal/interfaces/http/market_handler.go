package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/biznexa/biznexa-api/internal/application/dto"
	"github.com/biznexa/biznexa-api/internal/application/usecase"
)

// MarketHandler directorio de negocios para tenants autenticados.
type MarketHandler struct {
	uc *usecase.MarketUseCase
}

// NewMarketHandler construye el handler.
func NewMarketHandler(uc *usecase.MarketUseCase) *MarketHandler {
	return &MarketHandler{uc: uc}
}

// List godoc
// @Summary      Directorio de negocios
// @Description  Excluye la propia empresa, empresas inactivas y tiendas sin publicar.
// @Tags         market
// @Security     Bearer
// @Produce      json
// @Param        city    query  string  false  "ciudad"
// @Param        state   query  string  false  "UF"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  SuccessEnvelope{data=dto.BusinessListResponse}
// @Router       /api/market [get]
func (h *MarketHandler) List(c *fiber.Ctx) error {
	var in dto.MarketListRequest
	if err := bindQuery(c, &in); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Search godoc
// @Summary      Buscar negocios
// @Tags         market
// @Security     Bearer
// @Produce      json
// @Param        query   query  string  true   "término (mínimo 2 caracteres)"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  SuccessEnvelope{data=dto.BusinessListResponse}
// @Failure      422  {object}  ErrorEnvelope
// @Router       /api/market/search [get]
func (h *MarketHandler) Search(c *fiber.Ctx) error {
	var in dto.MarketListRequest
	if err := bindQuery(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Search(c.UserContext(), in)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// GetBusiness godoc
// @Summary      Ficha de un negocio
// @Tags         market
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  SuccessEnvelope{data=dto.BusinessDetailResponse}
// @Failure      404  {object}  ErrorEnvelope
// @Router       /api/market/business/{id} [get]
func (h *MarketHandler) GetBusiness(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	out, err := h.uc.GetBusiness(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Highlight godoc
// @Summary      Destacar un negocio
// @Description  Se paga con el saldo prepago; el plan debe incluir la feature del tipo.
// @Tags         market
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "clave de reintento"
// @Param        body  body  dto.HighlightRequest  true  "negocio, tipo y duración"
// @Success      201   {object}  SuccessEnvelope{data=dto.HighlightResponse}
// @Failure      403   {object}  ErrorEnvelope  "el plan no incluye la feature"
// @Failure      422   {object}  ErrorEnvelope  "saldo insuficiente o ya destacado"
// @Router       /api/market/highlight [post]
func (h *MarketHandler) Highlight(c *fiber.Ctx) error {
	var in dto.HighlightRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Highlight(c.UserContext(), in)
	if err != nil {
		return err
	}
	return created(c, "negocio destacado", out)
}

// PublicHandler rutas sin autenticación: tienda por slug y directorio.
type PublicHandler struct {
	uc *usecase.PublicUseCase
}

// NewPublicHandler construye el handler.
func NewPublicHandler(uc *usecase.PublicUseCase) *PublicHandler {
	return &PublicHandler{uc: uc}
}

func visitOf(c *fiber.Ctx) dto.VisitInfo {
	return dto.VisitInfo{IP: c.IP(), UserAgent: c.Get(fiber.HeaderUserAgent)}
}

// Store godoc
// @Summary      Tienda pública
// @Tags         public
// @Produce      json
// @Param        slug  path  string  true  "slug de la tienda"
// @Success      200  {object}  SuccessEnvelope{data=dto.PublicStoreResponse}
// @Failure      404  {object}  ErrorEnvelope
// @Router       /api/public/store/{slug} [get]
func (h *PublicHandler) Store(c *fiber.Ctx) error {
	out, err := h.uc.Store(c.UserContext(), c.Params("slug"), visitOf(c))
	if err != nil {
		return err
	}
	return ok(c, out)
}

// StoreProducts godoc
// @Summary      Productos de una tienda pública
// @Tags         public
// @Produce      json
// @Param        slug    path   string  true   "slug de la tienda"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  SuccessEnvelope{data=[]dto.ProductResponse}
// @Failure      404  {object}  ErrorEnvelope
// @Router       /api/public/store/{slug}/products [get]
func (h *PublicHandler) StoreProducts(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := bindQuery(c, &page); err != nil {
		return err
	}
	out, err := h.uc.StoreProducts(c.UserContext(), c.Params("slug"), page)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Businesses godoc
// @Summary      Directorio público
// @Tags         public
// @Produce      json
// @Param        query   query  string  false  "término"
// @Param        city    query  string  false  "ciudad"
// @Param        state   query  string  false  "UF"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  SuccessEnvelope{data=dto.BusinessListResponse}
// @Router       /api/public/market [get]
func (h *PublicHandler) Businesses(c *fiber.Ctx) error {
	var in dto.MarketListRequest
	if err := bindQuery(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Businesses(c.UserContext(), in)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Search godoc
// @Summary      Buscar en el directorio público
// @Tags         public
// @Produce      json
// @Param        query   query  string  true   "término (mínimo 2 caracteres)"
// @Param        city    query  string  false  "ciudad"
// @Param        state   query  string  false  "UF"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  SuccessEnvelope{data=dto.BusinessListResponse}
// @Failure      422  {object}  ErrorEnvelope
// @Router       /api/public/market/search [get]
func (h *PublicHandler) Search(c *fiber.Ctx) error {
	var in dto.MarketListRequest
	if err := bindQuery(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Search(c.UserContext(), in)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Featured godoc
// @Summary      Negocios destacados
// @Description  Hasta 6 negocios con un destaque featured vigente, en orden aleatorio.
// @Tags         public
// @Produce      json
// @Success      200  {object}  SuccessEnvelope{data=[]dto.BusinessResponse}
// @Router       /api/public/market/featured [get]
func (h *PublicHandler) Featured(c *fiber.Ctx) error {
	out, err := h.uc.Featured(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Categories godoc
// @Summary      Categorías del directorio
// @Tags         public
// @Produce      json
// @Success      200  {object}  SuccessEnvelope{data=[]string}
// @Router       /api/public/market/categories [get]
func (h *PublicHandler) Categories(c *fiber.Ctx) error {
	out, err := h.uc.Categories(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, out)
}

// ValidateSlug godoc
// @Summary      Disponibilidad de un slug
// @Tags         public
// @Produce      json
// @Param        slug  path  string  true  "slug propuesto"
// @Success      200  {object}  SuccessEnvelope{data=dto.SlugAvailabilityResponse}
// @Failure      422  {object}  ErrorEnvelope  "el slug queda vacío al normalizar"
// @Router       /api/public/store/{slug}/validate [get]
func (h *PublicHandler) ValidateSlug(c *fiber.Ctx) error {
	out, err := h.uc.ValidateSlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Business godoc
// @Summary      Ficha pública de un negocio
// @Tags         public
// @Produce      json
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  SuccessEnvelope{data=dto.BusinessDetailResponse}
// @Failure      404  {object}  ErrorEnvelope
// @Router       /api/public/market/business/{id} [get]
func (h *PublicHandler) Business(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Business(c.UserContext(), id, visitOf(c))
	if err != nil {
		return err
	}
	return ok(c, out)
}
