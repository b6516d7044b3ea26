package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (POST /couriers)
	CreateCouriers(ctx echo.Context) error
	// (GET /couriers/{courier_id})
	GetCourier(ctx echo.Context, courierID int64) error
	// (PATCH /couriers/{courier_id})
	PatchCourier(ctx echo.Context, courierID int64) error
	// (POST /orders)
	CreateOrders(ctx echo.Context) error
	// (POST /orders/assign)
	AssignOrders(ctx echo.Context) error
	// (POST /orders/complete)
	CompleteOrder(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) CreateCouriers(ctx echo.Context) error {
	return w.Handler.CreateCouriers(ctx)
}

// GetCourier converts echo context to params.
func (w *ServerInterfaceWrapper) GetCourier(ctx echo.Context) error {
	courierID, err := bindCourierID(ctx)
	if err != nil {
		return ctx.NoContent(http.StatusBadRequest)
	}
	return w.Handler.GetCourier(ctx, courierID)
}

// PatchCourier converts echo context to params.
func (w *ServerInterfaceWrapper) PatchCourier(ctx echo.Context) error {
	courierID, err := bindCourierID(ctx)
	if err != nil {
		return ctx.NoContent(http.StatusBadRequest)
	}
	return w.Handler.PatchCourier(ctx, courierID)
}

func (w *ServerInterfaceWrapper) CreateOrders(ctx echo.Context) error {
	return w.Handler.CreateOrders(ctx)
}

func (w *ServerInterfaceWrapper) AssignOrders(ctx echo.Context) error {
	return w.Handler.AssignOrders(ctx)
}

func (w *ServerInterfaceWrapper) CompleteOrder(ctx echo.Context) error {
	return w.Handler.CompleteOrder(ctx)
}

func bindCourierID(ctx echo.Context) (int64, error) {
	var courierID int64
	err := runtime.BindStyledParameterWithLocation(
		"simple", false, "courier_id", runtime.ParamLocationPath, ctx.Param("courier_id"), &courierID)
	return courierID, err
}

// EchoRouter is the subset of echo.Echo and echo.Group used to register routes.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the router.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.POST("/couriers", wrapper.CreateCouriers)
	router.GET("/couriers/:courier_id", wrapper.GetCourier)
	router.PATCH("/couriers/:courier_id", wrapper.PatchCourier)
	router.POST("/orders", wrapper.CreateOrders)
	router.POST("/orders/assign", wrapper.AssignOrders)
	router.POST("/orders/complete", wrapper.CompleteOrder)
}
