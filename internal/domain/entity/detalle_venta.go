package entity

import "github.com/shopspring/decimal"

// DetalleVenta es una línea de una venta. Pertenece exclusivamente a su Venta;
// el código que necesite "la venta de este detalle" recibe el contexto explícito
// en lugar de navegar una referencia inversa.
type DetalleVenta struct {
	ID             string
	ProductoID     int64
	Cantidad       int
	Nombre         string          // enriquecido desde la instantánea del producto
	PrecioUnitario decimal.Decimal // precio al momento de la venta, fijado al registrar
	Subtotal       decimal.Decimal // PrecioUnitario * Cantidad
	StockRestante  int             // stock posterior al descuento, reportado por productos
}
