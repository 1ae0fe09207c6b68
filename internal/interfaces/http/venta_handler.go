package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pragma/ventas-api/internal/application/dto"
	"github.com/pragma/ventas-api/internal/application/usecase"
	"github.com/pragma/ventas-api/internal/domain"
	"github.com/pragma/ventas-api/internal/domain/entity"
)

// VentaHandler maneja las peticiones HTTP para ventas.
type VentaHandler struct {
	uc *usecase.VentaUseCase
}

// NewVentaHandler construye el handler.
func NewVentaHandler(uc *usecase.VentaUseCase) *VentaHandler {
	return &VentaHandler{uc: uc}
}

// Registrar godoc
// @Summary      Registrar venta
// @Description  Registra una venta descontando stock en el servicio de productos, línea por línea.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegistrarVentaRequest  true  "cliente_id y detalles (producto_id, cantidad)"
// @Success      201   {object}  dto.VentaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/v1/ventas [post]
func (h *VentaHandler) Registrar(c *fiber.Ctx) error {
	var in dto.RegistrarVentaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	venta, err := h.uc.RegistrarVenta(c.Context(), &in)
	if err != nil {
		return responderErrorVenta(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToVentaResponse(venta))
}

// GetByID godoc
// @Summary      Obtener venta por ID
// @Tags         ventas
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.VentaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/ventas/{id} [get]
func (h *VentaHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	venta, err := h.uc.ObtenerVentaPorID(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrVentaNoEncontrada) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "venta no encontrada"})
		}
		if errors.Is(err, domain.ErrEntradaInvalida) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.ToVentaResponse(venta))
}

// List godoc
// @Summary      Listar ventas
// @Tags         ventas
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.VentaListResponse
// @Router       /api/v1/ventas [get]
func (h *VentaHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	ventas, err := h.uc.ListarVentas(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(aListaResponse(ventas, page))
}

// ListByProducto godoc
// @Summary      Listar ventas por producto
// @Tags         ventas
// @Produce      json
// @Param        productoId  path   int  true   "ID del producto"
// @Param        limit       query  int  false  "Límite"  default(20)
// @Param        offset      query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.VentaListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/ventas/producto/{productoId} [get]
func (h *VentaHandler) ListByProducto(c *fiber.Ctx) error {
	productoID, err := c.ParamsInt("productoId")
	if err != nil || productoID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "productoId inválido"})
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	ventas, err := h.uc.ListarVentasPorProducto(c.Context(), int64(productoID), page.Limit, page.Offset)
	if err != nil {
		return responderErrorVenta(c, err)
	}
	return c.JSON(aListaResponse(ventas, page))
}

// ListByFecha godoc
// @Summary      Listar ventas por fecha
// @Tags         ventas
// @Produce      json
// @Param        fecha   path   string  true   "Fecha (YYYY-MM-DD)"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.VentaListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/ventas/fecha/{fecha} [get]
func (h *VentaHandler) ListByFecha(c *fiber.Ctx) error {
	fecha, err := time.Parse("2006-01-02", c.Params("fecha"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida, formato esperado YYYY-MM-DD"})
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	ventas, err := h.uc.ListarVentasPorFecha(c.Context(), fecha, page.Limit, page.Offset)
	if err != nil {
		return responderErrorVenta(c, err)
	}
	return c.JSON(aListaResponse(ventas, page))
}

func aListaResponse(ventas []*entity.Venta, page dto.PageRequest) dto.VentaListResponse {
	items := make([]dto.VentaResponse, 0, len(ventas))
	for _, v := range ventas {
		items = append(items, *dto.ToVentaResponse(v))
	}
	return dto.VentaListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)},
	}
}

// responderErrorVenta mapea cada clase de error del registro a su estado HTTP.
// Cada clase es distinguible para el llamador; ninguna se traga.
func responderErrorVenta(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrEntradaInvalida):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos de la venta inválidos"})
	case errors.Is(err, domain.ErrProductoNoEncontrado):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PRODUCT_NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrStockInsuficiente):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrActualizacionStock):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "STOCK_UPDATE_REJECTED", Message: err.Error()})
	case errors.Is(err, domain.ErrComunicacion):
		// Resultado remoto desconocido: el descuento pudo o no aplicarse.
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "PRODUCTOS_UNAVAILABLE", Message: err.Error()})
	case errors.Is(err, domain.ErrPersistencia):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "SALE_NOT_PERSISTED", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
