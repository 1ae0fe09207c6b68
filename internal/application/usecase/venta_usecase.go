package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pragma/ventas-api/internal/application/dto"
	"github.com/pragma/ventas-api/internal/domain"
	"github.com/pragma/ventas-api/internal/domain/entity"
	"github.com/pragma/ventas-api/internal/domain/gateway"
	"github.com/pragma/ventas-api/internal/domain/repository"
	"github.com/pragma/ventas-api/pkg/logger"
)

// VentaUseCase orquesta el registro de ventas contra el catálogo remoto de
// productos: valida la petición, y por cada detalle consulta la instantánea,
// verifica stock, descuenta vía el gateway y enriquece la línea. No existe
// transacción compartida con productos; si una línea intermedia falla, los
// descuentos ya aplicados en líneas anteriores quedan aplicados (sin
// compensación automática) y la venta no se persiste.
type VentaUseCase struct {
	productos gateway.ProductoGateway
	ventas    repository.VentaRepository
	log       *logger.Logger
}

// NewVentaUseCase construye el caso de uso con sus colaboradores inyectados.
func NewVentaUseCase(productos gateway.ProductoGateway, ventas repository.VentaRepository, log *logger.Logger) *VentaUseCase {
	return &VentaUseCase{productos: productos, ventas: ventas, log: log}
}

// RegistrarVenta registra una nueva venta.
//
// Por cada detalle, en el orden de la lista: lee la instantánea del producto,
// verifica stock suficiente, descuenta la cantidad en productos y enriquece la
// línea con nombre, precio al momento de la venta, subtotal y el stock
// restante que reportó la mutación. El orden importa: determina qué producto
// queda con descuento parcial si una línea intermedia falla. Tras todas las
// líneas fija fecha y total y persiste la venta completa una sola vez.
func (uc *VentaUseCase) RegistrarVenta(ctx context.Context, in *dto.RegistrarVentaRequest) (*entity.Venta, error) {
	if err := validarRegistrarVenta(in); err != nil {
		return nil, err
	}

	venta := &entity.Venta{ClienteID: strings.TrimSpace(in.ClienteID)}

	for _, det := range in.Detalles {
		producto, err := uc.productos.ObtenerProducto(ctx, det.ProductoID)
		if err != nil {
			uc.log.Warn().Err(err).Int64("producto_id", det.ProductoID).
				Int("lineas_aplicadas", len(venta.Detalles)).
				Msg("registro de venta abortado al consultar producto")
			return nil, err
		}

		// Verificación local sobre la instantánea. Evita una mutación que se
		// sabe perdedora; el árbitro final de stock negativo es productos.
		if producto.Stock < det.Cantidad {
			uc.log.Warn().Int64("producto_id", det.ProductoID).
				Int("disponible", producto.Stock).Int("solicitado", det.Cantidad).
				Msg("venta rechazada por stock insuficiente")
			return nil, &domain.StockInsuficienteError{
				ProductoID: det.ProductoID,
				Disponible: producto.Stock,
				Solicitado: det.Cantidad,
			}
		}

		// La instantánea pudo quedar obsoleta: productos hace su propia
		// verificación atómica y su rechazo es autoritativo, no se reintenta
		// ni se "corrige" releyendo.
		actualizado, err := uc.productos.AjustarStock(ctx, det.ProductoID, -det.Cantidad)
		if err != nil {
			uc.log.Error().Err(err).Int64("producto_id", det.ProductoID).
				Int("lineas_aplicadas", len(venta.Detalles)).
				Msg("registro de venta abortado al descontar stock; descuentos previos quedan aplicados")
			return nil, err
		}

		detalle := &entity.DetalleVenta{
			ProductoID:     det.ProductoID,
			Cantidad:       det.Cantidad,
			Nombre:         producto.Nombre,
			PrecioUnitario: producto.Precio,
			Subtotal:       producto.Precio.Mul(decimal.NewFromInt(int64(det.Cantidad))),
			StockRestante:  actualizado.Stock,
		}
		if err := venta.AgregarDetalle(detalle); err != nil {
			return nil, err
		}
	}

	if venta.Fecha.IsZero() {
		venta.Fecha = time.Now()
	}

	guardada, err := uc.ventas.Guardar(ctx, venta)
	if err != nil {
		// El modo de falla más peligroso: stock ya descontado en productos y
		// venta sin registrar. Se expone como error propio para conciliación,
		// sin emitir incrementos compensatorios (sin claves de idempotencia
		// un reintento podría descuadrar aún más).
		uc.log.Error().Err(err).Str("cliente_id", venta.ClienteID).
			Int("lineas", len(venta.Detalles)).
			Msg("stock descontado pero venta no persistida; requiere conciliación manual")
		return nil, &domain.PersistenciaError{Causa: err}
	}

	uc.log.Info().Str("venta_id", guardada.ID).Str("cliente_id", guardada.ClienteID).
		Str("total", guardada.Total.String()).Int("lineas", len(guardada.Detalles)).
		Msg("venta registrada")
	return guardada, nil
}

// ObtenerVentaPorID obtiene una venta por su ID.
func (uc *VentaUseCase) ObtenerVentaPorID(ctx context.Context, id string) (*entity.Venta, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrEntradaInvalida
	}
	venta, err := uc.ventas.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	if venta == nil {
		return nil, domain.ErrVentaNoEncontrada
	}
	return venta, nil
}

// ListarVentas lista ventas con paginación.
func (uc *VentaUseCase) ListarVentas(ctx context.Context, limit, offset int) ([]*entity.Venta, error) {
	return uc.ventas.Listar(ctx, limit, offset)
}

// ListarVentasPorProducto lista ventas que incluyen el producto dado.
// Valida primero que el producto exista en el catálogo.
func (uc *VentaUseCase) ListarVentasPorProducto(ctx context.Context, productoID int64, limit, offset int) ([]*entity.Venta, error) {
	if productoID <= 0 {
		return nil, domain.ErrEntradaInvalida
	}
	if _, err := uc.productos.ObtenerProducto(ctx, productoID); err != nil {
		return nil, err
	}
	return uc.ventas.ListarPorProducto(ctx, productoID, limit, offset)
}

// ListarVentasPorFecha lista ventas registradas en la fecha dada (día completo).
func (uc *VentaUseCase) ListarVentasPorFecha(ctx context.Context, fecha time.Time, limit, offset int) ([]*entity.Venta, error) {
	if fecha.IsZero() {
		return nil, domain.ErrEntradaInvalida
	}
	return uc.ventas.ListarPorFecha(ctx, fecha, limit, offset)
}

// validarRegistrarVenta revalida defensivamente la petición aunque la capa
// REST ya haya validado la forma.
func validarRegistrarVenta(in *dto.RegistrarVentaRequest) error {
	if in == nil {
		return domain.ErrEntradaInvalida
	}
	if strings.TrimSpace(in.ClienteID) == "" {
		return domain.ErrEntradaInvalida
	}
	if len(in.Detalles) == 0 {
		return domain.ErrEntradaInvalida
	}
	for _, d := range in.Detalles {
		if d.ProductoID <= 0 || d.Cantidad <= 0 {
			return domain.ErrEntradaInvalida
		}
	}
	return nil
}

// EsErrorDeCliente indica si el error corresponde a datos del llamador
// (útil para la capa REST al decidir 4xx vs 5xx).
func EsErrorDeCliente(err error) bool {
	return errors.Is(err, domain.ErrEntradaInvalida) ||
		errors.Is(err, domain.ErrProductoNoEncontrado) ||
		errors.Is(err, domain.ErrStockInsuficiente)
}
