package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pragma/ventas-api/internal/domain/entity"
)

// RegistrarVentaRequest entrada para registrar una venta.
// La capa REST ya valida la forma; el caso de uso revalida defensivamente.
type RegistrarVentaRequest struct {
	ClienteID string                `json:"cliente_id" validate:"required"`
	Detalles  []DetalleVentaRequest `json:"detalles" validate:"required,min=1,dive"`
}

// DetalleVentaRequest línea solicitada por el cliente. Nombre, precio y
// subtotal no se aceptan del cliente: se enriquecen desde el catálogo.
type DetalleVentaRequest struct {
	ProductoID int64 `json:"producto_id" validate:"required"`
	Cantidad   int   `json:"cantidad" validate:"required,min=1"`
}

// DetalleVentaResponse salida de una línea de venta.
type DetalleVentaResponse struct {
	ID             string          `json:"id"`
	ProductoID     int64           `json:"producto_id"`
	Nombre         string          `json:"nombre"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	StockRestante  int             `json:"stock_restante"`
}

// VentaResponse salida de una venta.
type VentaResponse struct {
	ID        string                 `json:"id"`
	ClienteID string                 `json:"cliente_id"`
	Fecha     time.Time              `json:"fecha"`
	Total     decimal.Decimal        `json:"total"`
	Detalles  []DetalleVentaResponse `json:"detalles"`
}

// VentaListResponse lista paginada de ventas.
type VentaListResponse struct {
	Items []VentaResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// ToVentaResponse mapea la entidad a su representación de salida.
func ToVentaResponse(v *entity.Venta) *VentaResponse {
	if v == nil {
		return nil
	}
	detalles := make([]DetalleVentaResponse, 0, len(v.Detalles))
	for _, d := range v.Detalles {
		detalles = append(detalles, DetalleVentaResponse{
			ID:             d.ID,
			ProductoID:     d.ProductoID,
			Nombre:         d.Nombre,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
			StockRestante:  d.StockRestante,
		})
	}
	return &VentaResponse{
		ID:        v.ID,
		ClienteID: v.ClienteID,
		Fecha:     v.Fecha,
		Total:     v.Total,
		Detalles:  detalles,
	}
}
