package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrEntradaInvalida      = errors.New("entrada inválida")
	ErrProductoNoEncontrado = errors.New("producto no encontrado")
	ErrStockInsuficiente    = errors.New("stock insuficiente")
	ErrActualizacionStock   = errors.New("actualización de stock rechazada por productos")
	ErrComunicacion         = errors.New("error de comunicación con el servicio de productos")
	ErrPersistencia         = errors.New("error al persistir la venta")
	ErrVentaNoEncontrada    = errors.New("venta no encontrada")
)

// StockInsuficienteError detalla un rechazo por stock: qué producto, cuánto
// hay disponible y cuánto se pidió. Compatible con errors.Is(err, ErrStockInsuficiente).
type StockInsuficienteError struct {
	ProductoID int64
	Disponible int
	Solicitado int
}

func (e *StockInsuficienteError) Error() string {
	return fmt.Sprintf("stock insuficiente para el producto %d: disponible %d, solicitado %d",
		e.ProductoID, e.Disponible, e.Solicitado)
}

func (e *StockInsuficienteError) Is(target error) bool {
	return target == ErrStockInsuficiente
}

// ProductoNoEncontradoError identifica el producto inexistente. EnMutacion es true
// cuando el producto existía al consultarlo pero ya no al ajustar stock (carrera:
// fue eliminado a mitad de la transacción); merece atención del operador.
type ProductoNoEncontradoError struct {
	ProductoID int64
	EnMutacion bool
}

func (e *ProductoNoEncontradoError) Error() string {
	if e.EnMutacion {
		return fmt.Sprintf("producto %d eliminado durante la venta (no encontrado al ajustar stock)", e.ProductoID)
	}
	return fmt.Sprintf("producto no encontrado con ID: %d", e.ProductoID)
}

func (e *ProductoNoEncontradoError) Is(target error) bool {
	return target == ErrProductoNoEncontrado
}

// ComunicacionError representa una falla de transporte hablando con productos.
// El resultado remoto es desconocido: la llamada pudo o no haberse aplicado,
// y el llamador no debe asumir ninguno de los dos casos.
type ComunicacionError struct {
	Operacion string // "obtener_producto" | "ajustar_stock"
	Intentos  int
	Causa     error
}

func (e *ComunicacionError) Error() string {
	return fmt.Sprintf("comunicación con productos falló (%s, %d intentos, resultado remoto desconocido): %v",
		e.Operacion, e.Intentos, e.Causa)
}

func (e *ComunicacionError) Is(target error) bool {
	return target == ErrComunicacion
}

func (e *ComunicacionError) Unwrap() error { return e.Causa }

// PersistenciaError señala que la venta no pudo guardarse después de que los
// descuentos de stock remotos ya se aplicaron. No hay compensación automática:
// queda stock descontado sin venta registrada y el operador debe conciliar.
type PersistenciaError struct {
	Causa error
}

func (e *PersistenciaError) Error() string {
	return fmt.Sprintf("venta no persistida con stock ya descontado en productos: %v", e.Causa)
}

func (e *PersistenciaError) Is(target error) bool {
	return target == ErrPersistencia
}

func (e *PersistenciaError) Unwrap() error { return e.Causa }
