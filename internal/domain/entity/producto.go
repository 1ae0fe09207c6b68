package entity

import "github.com/shopspring/decimal"

// Producto es una instantánea de un producto del catálogo remoto, leída en un
// instante puntual. No es una referencia viva: el stock puede quedar obsoleto
// antes de la llamada de ajuste que depende de él.
type Producto struct {
	ID          int64
	Nombre      string
	Descripcion string
	Precio      decimal.Decimal // precio unitario de venta
	Stock       int             // unidades disponibles al momento de la lectura
}
