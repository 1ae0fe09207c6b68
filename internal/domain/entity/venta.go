package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pragma/ventas-api/internal/domain"
)

// Venta representa una transacción de venta. Es dueña exclusiva de sus
// detalles (contención unidireccional, sin referencia inversa) y mantiene
// el invariante Total == suma de los subtotales tras cualquier mutación.
type Venta struct {
	ID        string
	ClienteID string
	Fecha     time.Time
	Total     decimal.Decimal
	Detalles  []DetalleVenta
}

// AgregarDetalle añade un detalle y recalcula el total completo.
// Se recalcula siempre en lugar de incrementar para seguir siendo correcto
// ante una futura remoción de detalles.
func (v *Venta) AgregarDetalle(d *DetalleVenta) error {
	if d == nil {
		return domain.ErrEntradaInvalida
	}
	v.Detalles = append(v.Detalles, *d)
	v.recalcularTotal()
	return nil
}

// RemoverDetalle elimina el detalle en la posición dada y recalcula el total.
// No lo usa el flujo de registro; existe por simetría con AgregarDetalle.
func (v *Venta) RemoverDetalle(i int) error {
	if i < 0 || i >= len(v.Detalles) {
		return domain.ErrEntradaInvalida
	}
	v.Detalles = append(v.Detalles[:i], v.Detalles[i+1:]...)
	v.recalcularTotal()
	return nil
}

func (v *Venta) recalcularTotal() {
	total := decimal.Zero
	for _, d := range v.Detalles {
		total = total.Add(d.Subtotal)
	}
	v.Total = total
}
