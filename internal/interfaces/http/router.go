package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pragma/ventas-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	VentaUC *usecase.VentaUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api/v1")

	ventas := api.Group("/ventas")
	ventaHandler := NewVentaHandler(deps.VentaUC)
	ventas.Post("/", ventaHandler.Registrar)
	ventas.Get("/", ventaHandler.List)
	ventas.Get("/producto/:productoId", ventaHandler.ListByProducto)
	ventas.Get("/fecha/:fecha", ventaHandler.ListByFecha)
	ventas.Get("/:id", ventaHandler.GetByID)
}
