package gateway

import (
	"context"

	"github.com/pragma/ventas-api/internal/domain/entity"
)

// ProductoGateway define el puerto de salida hacia el servicio de productos.
// Es el único punto de contacto con el catálogo remoto; traduce los códigos
// de falla remotos a errores de dominio.
type ProductoGateway interface {
	// ObtenerProducto lee una instantánea del producto por ID.
	// Errores: ErrProductoNoEncontrado (404 o cuerpo vacío), ErrComunicacion
	// (falla de transporte), ErrEntradaInvalida (id <= 0).
	ObtenerProducto(ctx context.Context, id int64) (*entity.Producto, error)

	// AjustarStock aplica un delta con signo al stock del producto (negativo
	// descuenta, positivo repone). El stock de la instantánea devuelta es el
	// valor autoritativo posterior a la mutación y prevalece sobre cualquier
	// cálculo local. Errores: ErrProductoNoEncontrado (eliminado entre la
	// lectura y la mutación), ErrActualizacionStock (rechazo de negocio
	// definitivo, no se reintenta), ErrComunicacion (falla de transporte,
	// resultado remoto desconocido).
	AjustarStock(ctx context.Context, id int64, delta int) (*entity.Producto, error)
}
