package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pragma/ventas-api/internal/domain/entity"
	"github.com/pragma/ventas-api/internal/domain/repository"
)

var _ repository.VentaRepository = (*VentaRepo)(nil)

// VentaRepo implementación de VentaRepository sobre PostgreSQL.
// Guardar usa una transacción propia (cabecera + detalles como una unidad);
// las lecturas trabajan directo sobre el pool.
type VentaRepo struct {
	db DB
}

// NewVentaRepository construye el adaptador de persistencia para ventas.
func NewVentaRepository(pool *pgxpool.Pool) *VentaRepo {
	return &VentaRepo{db: pool}
}

// Guardar persiste la venta y todos sus detalles en una transacción
// (Commit si todo ok, Rollback si algo falla) y devuelve una copia de la
// venta con los IDs asignados. Los IDs se asignan sobre la copia, nunca
// sobre el agregado del llamador: si el commit falla, el llamador no debe
// quedar con IDs de una venta que nunca se guardó.
func (r *VentaRepo) Guardar(ctx context.Context, venta *entity.Venta) (*entity.Venta, error) {
	guardada := clonarVenta(venta)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := insertarVenta(ctx, tx, guardada); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return guardada, nil
}

func clonarVenta(v *entity.Venta) *entity.Venta {
	c := *v
	c.Detalles = append([]entity.DetalleVenta(nil), v.Detalles...)
	return &c
}

// ObtenerPorID obtiene una venta con sus detalles. Devuelve nil si no existe.
func (r *VentaRepo) ObtenerPorID(ctx context.Context, id string) (*entity.Venta, error) {
	var v entity.Venta
	err := r.db.QueryRow(ctx,
		`SELECT id, cliente_id, fecha, total FROM ventas WHERE id = $1`, id,
	).Scan(&v.ID, &v.ClienteID, &v.Fecha, &v.Total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get venta: %w", err)
	}
	if err := r.cargarDetalles(ctx, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Listar lista ventas con paginación, las más recientes primero.
func (r *VentaRepo) Listar(ctx context.Context, limit, offset int) ([]*entity.Venta, error) {
	return r.listar(ctx,
		`SELECT id, cliente_id, fecha, total FROM ventas
		 ORDER BY fecha DESC LIMIT $1 OFFSET $2`,
		limit, offset)
}

// ListarPorProducto lista ventas que incluyen el producto dado.
func (r *VentaRepo) ListarPorProducto(ctx context.Context, productoID int64, limit, offset int) ([]*entity.Venta, error) {
	return r.listar(ctx,
		`SELECT DISTINCT v.id, v.cliente_id, v.fecha, v.total
		 FROM ventas v JOIN detalles_venta d ON d.venta_id = v.id
		 WHERE d.producto_id = $3
		 ORDER BY v.fecha DESC LIMIT $1 OFFSET $2`,
		limit, offset, productoID)
}

// ListarPorFecha lista ventas registradas dentro del día dado.
func (r *VentaRepo) ListarPorFecha(ctx context.Context, fecha time.Time, limit, offset int) ([]*entity.Venta, error) {
	inicio := time.Date(fecha.Year(), fecha.Month(), fecha.Day(), 0, 0, 0, 0, fecha.Location())
	fin := inicio.AddDate(0, 0, 1)
	return r.listar(ctx,
		`SELECT id, cliente_id, fecha, total FROM ventas
		 WHERE fecha >= $3 AND fecha < $4
		 ORDER BY fecha DESC LIMIT $1 OFFSET $2`,
		limit, offset, inicio, fin)
}

func (r *VentaRepo) listar(ctx context.Context, query string, limit, offset int, args ...any) ([]*entity.Venta, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	todos := append([]any{limit, offset}, args...)
	rows, err := r.db.Query(ctx, query, todos...)
	if err != nil {
		return nil, fmt.Errorf("list ventas: %w", err)
	}
	defer rows.Close()

	var list []*entity.Venta
	for rows.Next() {
		var v entity.Venta
		if err := rows.Scan(&v.ID, &v.ClienteID, &v.Fecha, &v.Total); err != nil {
			return nil, fmt.Errorf("scan venta: %w", err)
		}
		list = append(list, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, v := range list {
		if err := r.cargarDetalles(ctx, v); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// insertarVenta escribe la cabecera y los detalles usando el Querier dado
// (la transacción de Guardar) y asigna los UUIDs faltantes. La columna
// orden fija la posición de cada detalle dentro de la venta: los UUIDs son
// aleatorios y no sirven para reconstruir el orden de inserción.
func insertarVenta(ctx context.Context, q Querier, venta *entity.Venta) error {
	if venta.ID == "" {
		venta.ID = uuid.New().String()
	}
	_, err := q.Exec(ctx,
		`INSERT INTO ventas (id, cliente_id, fecha, total, created_at)
		 VALUES ($1, $2, $3, $4, now())`,
		venta.ID, venta.ClienteID, venta.Fecha, venta.Total,
	)
	if err != nil {
		return fmt.Errorf("insert venta: %w", err)
	}

	for i := range venta.Detalles {
		d := &venta.Detalles[i]
		if d.ID == "" {
			d.ID = uuid.New().String()
		}
		_, err = q.Exec(ctx,
			`INSERT INTO detalles_venta (id, venta_id, producto_id, nombre, cantidad, precio_unitario, subtotal, stock_restante, orden)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			d.ID, venta.ID, d.ProductoID, d.Nombre, d.Cantidad, d.PrecioUnitario, d.Subtotal, d.StockRestante, i+1,
		)
		if err != nil {
			return fmt.Errorf("insert detalle venta: %w", err)
		}
	}
	return nil
}

func (r *VentaRepo) cargarDetalles(ctx context.Context, v *entity.Venta) error {
	rows, err := r.db.Query(ctx,
		`SELECT id, producto_id, nombre, cantidad, precio_unitario, subtotal, stock_restante
		 FROM detalles_venta WHERE venta_id = $1 ORDER BY orden`, v.ID)
	if err != nil {
		return fmt.Errorf("list detalles venta: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.DetalleVenta
		if err := rows.Scan(&d.ID, &d.ProductoID, &d.Nombre, &d.Cantidad, &d.PrecioUnitario, &d.Subtotal, &d.StockRestante); err != nil {
			return fmt.Errorf("scan detalle venta: %w", err)
		}
		v.Detalles = append(v.Detalles, d)
	}
	return rows.Err()
}
