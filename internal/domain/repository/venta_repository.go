package repository

import (
	"context"
	"time"

	"github.com/pragma/ventas-api/internal/domain/entity"
)

// VentaRepository define el puerto de persistencia para Venta (DIP).
// Guardar escribe la venta y todos sus detalles como una sola unidad;
// las lecturas paginadas son una capacidad ortogonal al flujo de registro.
type VentaRepository interface {
	// Guardar persiste la venta y sus detalles en una transacción y devuelve
	// la venta con los IDs asignados por el almacén.
	Guardar(ctx context.Context, venta *entity.Venta) (*entity.Venta, error)
	ObtenerPorID(ctx context.Context, id string) (*entity.Venta, error)
	Listar(ctx context.Context, limit, offset int) ([]*entity.Venta, error)
	ListarPorProducto(ctx context.Context, productoID int64, limit, offset int) ([]*entity.Venta, error)
	ListarPorFecha(ctx context.Context, fecha time.Time, limit, offset int) ([]*entity.Venta, error)
}
