package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pragma/ventas-api/internal/application/usecase"
	"github.com/pragma/ventas-api/internal/domain"
	"github.com/pragma/ventas-api/internal/domain/entity"
	apphttp "github.com/pragma/ventas-api/internal/interfaces/http"
	"github.com/pragma/ventas-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes y helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type gatewayStub struct {
	producto    *entity.Producto
	errConsulta error
	errAjuste   error
}

func (g *gatewayStub) ObtenerProducto(_ context.Context, id int64) (*entity.Producto, error) {
	if g.errConsulta != nil {
		return nil, g.errConsulta
	}
	p := *g.producto
	p.ID = id
	return &p, nil
}

func (g *gatewayStub) AjustarStock(_ context.Context, id int64, delta int) (*entity.Producto, error) {
	if g.errAjuste != nil {
		return nil, g.errAjuste
	}
	p := *g.producto
	p.ID = id
	p.Stock += delta
	return &p, nil
}

type repoStub struct {
	errGuardar error
	guardadas  []*entity.Venta
}

func (r *repoStub) Guardar(_ context.Context, v *entity.Venta) (*entity.Venta, error) {
	if r.errGuardar != nil {
		return nil, r.errGuardar
	}
	v.ID = "venta-1"
	r.guardadas = append(r.guardadas, v)
	return v, nil
}

func (r *repoStub) ObtenerPorID(_ context.Context, id string) (*entity.Venta, error) {
	for _, v := range r.guardadas {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, nil
}

func (r *repoStub) Listar(_ context.Context, _, _ int) ([]*entity.Venta, error) {
	return r.guardadas, nil
}

func (r *repoStub) ListarPorProducto(_ context.Context, _ int64, _, _ int) ([]*entity.Venta, error) {
	return r.guardadas, nil
}

func (r *repoStub) ListarPorFecha(_ context.Context, _ time.Time, _, _ int) ([]*entity.Venta, error) {
	return r.guardadas, nil
}

func buildApp(gw *gatewayStub, repo *repoStub) *fiber.App {
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	uc := usecase.NewVentaUseCase(gw, repo, log)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{VentaUC: uc})
	return app
}

func postVenta(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ventas/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func codigoDeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &body))
	return body.Code
}

func productoBase() *entity.Producto {
	return &entity.Producto{Nombre: "Teclado", Precio: decimal.NewFromFloat(5.0), Stock: 10}
}

// ──────────────────────────────────────────────────────────────────────────────
// POST /api/v1/ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestRegistrarVenta_HTTP201(t *testing.T) {
	repo := &repoStub{}
	app := buildApp(&gatewayStub{producto: productoBase()}, repo)

	resp := postVenta(t, app, `{"cliente_id":"C1","detalles":[{"producto_id":1,"cantidad":2}]}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		ID       string `json:"id"`
		Total    string `json:"total"`
		Detalles []struct {
			Subtotal      string `json:"subtotal"`
			StockRestante int    `json:"stock_restante"`
		} `json:"detalles"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "venta-1", out.ID)
	require.Len(t, out.Detalles, 1)
	assert.Equal(t, 8, out.Detalles[0].StockRestante)
	require.Len(t, repo.guardadas, 1)
}

func TestRegistrarVenta_HTTP400_SinDetalles(t *testing.T) {
	app := buildApp(&gatewayStub{producto: productoBase()}, &repoStub{})

	resp := postVenta(t, app, `{"cliente_id":"C1","detalles":[]}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", codigoDeError(t, resp))
}

func TestRegistrarVenta_HTTP404_ProductoNoExiste(t *testing.T) {
	gw := &gatewayStub{producto: productoBase(), errConsulta: &domain.ProductoNoEncontradoError{ProductoID: 2}}
	app := buildApp(gw, &repoStub{})

	resp := postVenta(t, app, `{"cliente_id":"C1","detalles":[{"producto_id":2,"cantidad":1}]}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "PRODUCT_NOT_FOUND", codigoDeError(t, resp))
}

func TestRegistrarVenta_HTTP409_StockInsuficiente(t *testing.T) {
	gw := &gatewayStub{producto: &entity.Producto{Nombre: "Teclado", Precio: decimal.NewFromFloat(5.0), Stock: 1}}
	app := buildApp(gw, &repoStub{})

	resp := postVenta(t, app, `{"cliente_id":"C1","detalles":[{"producto_id":1,"cantidad":5}]}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", codigoDeError(t, resp))
}

func TestRegistrarVenta_HTTP502_RechazoRemoto(t *testing.T) {
	gw := &gatewayStub{producto: productoBase(), errAjuste: fmt.Errorf("el servicio de productos rechazó el descuento: %w", domain.ErrActualizacionStock)}
	app := buildApp(gw, &repoStub{})

	resp := postVenta(t, app, `{"cliente_id":"C1","detalles":[{"producto_id":1,"cantidad":2}]}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "STOCK_UPDATE_REJECTED", codigoDeError(t, resp))
}

func TestRegistrarVenta_HTTP503_Comunicacion(t *testing.T) {
	gw := &gatewayStub{producto: productoBase(), errAjuste: &domain.ComunicacionError{
		Operacion: "ajustar_stock", Intentos: 3, Causa: errors.New("timeout"),
	}}
	app := buildApp(gw, &repoStub{})

	resp := postVenta(t, app, `{"cliente_id":"C1","detalles":[{"producto_id":1,"cantidad":2}]}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "PRODUCTOS_UNAVAILABLE", codigoDeError(t, resp))
}

// La falla de persistencia se distingue de las demás: el operador necesita
// saber que hay stock descontado sin venta registrada.
func TestRegistrarVenta_HTTP500_NoPersistida(t *testing.T) {
	gw := &gatewayStub{producto: productoBase()}
	app := buildApp(gw, &repoStub{errGuardar: errors.New("conexión perdida")})

	resp := postVenta(t, app, `{"cliente_id":"C1","detalles":[{"producto_id":1,"cantidad":2}]}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "SALE_NOT_PERSISTED", codigoDeError(t, resp))
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas
// ──────────────────────────────────────────────────────────────────────────────

func TestObtenerVenta_HTTP404(t *testing.T) {
	app := buildApp(&gatewayStub{producto: productoBase()}, &repoStub{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ventas/no-existe", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", codigoDeError(t, resp))
}

func TestListarVentasPorFecha_HTTP400_FechaInvalida(t *testing.T) {
	app := buildApp(&gatewayStub{producto: productoBase()}, &repoStub{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ventas/fecha/31-12-2025", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", codigoDeError(t, resp))
}
