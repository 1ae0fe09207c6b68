package productos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pragma/ventas-api/internal/domain"
	"github.com/pragma/ventas-api/internal/domain/entity"
	"github.com/pragma/ventas-api/internal/domain/gateway"
	"github.com/pragma/ventas-api/pkg/logger"
)

var _ gateway.ProductoGateway = (*Client)(nil)

// Client implementa ProductoGateway contra la API REST del servicio de
// productos (GET /api/v1/productos/{id} y PATCH /api/v1/productos/{id}/stock).
// Reintenta solo fallas de transporte, nunca después de recibir una respuesta:
// el ajuste de stock no lleva clave de deduplicación y un reintento tras una
// respuesta ambigua podría descontar dos veces.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      RetryConfig
	log        *logger.Logger
}

// Config parámetros del cliente.
type Config struct {
	BaseURL string
	Timeout time.Duration // timeout por llamada; cero usa 5s
	Retry   RetryConfig
}

// NewClient construye el cliente HTTP hacia productos.
func NewClient(cfg Config, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	retry := cfg.Retry
	if retry.MaxIntentos == 0 {
		retry = DefaultRetryConfig()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		retry:      retry,
		log:        log,
	}
}

// productoDTO representación remota de un producto.
type productoDTO struct {
	ID          int64           `json:"id"`
	Nombre      string          `json:"nombre"`
	Descripcion string          `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio"`
	Stock       int             `json:"stock"`
}

func (d *productoDTO) aEntidad() *entity.Producto {
	return &entity.Producto{
		ID:          d.ID,
		Nombre:      d.Nombre,
		Descripcion: d.Descripcion,
		Precio:      d.Precio,
		Stock:       d.Stock,
	}
}

// ObtenerProducto lee una instantánea del producto por ID.
func (c *Client) ObtenerProducto(ctx context.Context, id int64) (*entity.Producto, error) {
	if id <= 0 {
		return nil, domain.ErrEntradaInvalida
	}
	url := fmt.Sprintf("%s/api/v1/productos/%d", c.baseURL, id)

	producto, intentos, err := conReintentos(ctx, c.retry, func() (*entity.Producto, bool, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, true, err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Falla de transporte: no hubo respuesta, es seguro reintentar.
			return nil, false, err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, true, &domain.ProductoNoEncontradoError{ProductoID: id}
		case resp.StatusCode == http.StatusOK:
			p, err := decodificarProducto(resp.Body)
			if err != nil {
				return nil, true, fmt.Errorf("respuesta malformada de productos: %w", err)
			}
			if p == nil {
				// Cuerpo vacío con 200: tratado como inexistente.
				return nil, true, &domain.ProductoNoEncontradoError{ProductoID: id}
			}
			return p.aEntidad(), true, nil
		default:
			return nil, true, fmt.Errorf("estado HTTP inesperado %d de productos", resp.StatusCode)
		}
	})
	if err != nil {
		return nil, clasificarFallo(err, "obtener_producto", intentos)
	}
	return producto, nil
}

// AjustarStock aplica un delta con signo al stock del producto y devuelve la
// instantánea posterior a la mutación reportada por productos.
func (c *Client) AjustarStock(ctx context.Context, id int64, delta int) (*entity.Producto, error) {
	if id <= 0 {
		return nil, domain.ErrEntradaInvalida
	}
	url := fmt.Sprintf("%s/api/v1/productos/%d/stock?cantidad=%s", c.baseURL, id, strconv.Itoa(delta))

	producto, intentos, err := conReintentos(ctx, c.retry, func() (*entity.Producto, bool, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, nil)
		if err != nil {
			return nil, true, err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, false, err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			p, err := decodificarProducto(resp.Body)
			if err != nil {
				return nil, true, fmt.Errorf("respuesta malformada de productos al ajustar stock: %w", err)
			}
			if p == nil {
				return nil, true, fmt.Errorf("respuesta vacía de productos al ajustar stock")
			}
			return p.aEntidad(), true, nil
		case resp.StatusCode == http.StatusNotFound:
			// El producto existía al consultarlo pero ya no: carrera real.
			return nil, true, &domain.ProductoNoEncontradoError{ProductoID: id, EnMutacion: true}
		default:
			// Cualquier otra respuesta es un rechazo definitivo (p. ej. la
			// verificación atómica de productos detectó stock negativo). Se
			// acata sin reintentar ni releer.
			cuerpo, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, true, fmt.Errorf("%w: HTTP %d %s",
				domain.ErrActualizacionStock, resp.StatusCode, strings.TrimSpace(string(cuerpo)))
		}
	})
	if err != nil {
		return nil, clasificarFallo(err, "ajustar_stock", intentos)
	}
	c.log.Debug().Int64("producto_id", id).Int("delta", delta).
		Int("stock_restante", producto.Stock).Msg("stock ajustado en productos")
	return producto, nil
}

// decodificarProducto decodifica el cuerpo; devuelve nil sin error si está vacío.
func decodificarProducto(r io.Reader) (*productoDTO, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	var dto productoDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, err
	}
	return &dto, nil
}

// clasificarFallo traduce el error final a la taxonomía de dominio. Los
// errores de dominio ya clasificados pasan intactos; lo demás (timeouts,
// conexiones caídas, respuestas malformadas, estados inesperados) es falla
// de comunicación con resultado remoto desconocido.
func clasificarFallo(err error, operacion string, intentos int) error {
	if errors.Is(err, domain.ErrProductoNoEncontrado) ||
		errors.Is(err, domain.ErrActualizacionStock) ||
		errors.Is(err, domain.ErrEntradaInvalida) {
		return err
	}
	return &domain.ComunicacionError{Operacion: operacion, Intentos: intentos, Causa: err}
}
