package servers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /health)
	GetHealth(ctx echo.Context) error
	// (GET /orders)
	ListOrders(ctx echo.Context) error
	// (POST /orders)
	CreateOrder(ctx echo.Context) error
	// (GET /orders/{orderId})
	GetOrder(ctx echo.Context, orderId OrderId) error
	// (DELETE /orders/{orderId})
	DeleteOrder(ctx echo.Context, orderId OrderId, params VersionParams) error
	// (PUT /orders/{orderId}/info)
	UpdateOrderInfo(ctx echo.Context, orderId OrderId, params VersionParams) error
	// (POST /orders/{orderId}/positions)
	AddOrderPosition(ctx echo.Context, orderId OrderId) error
	// (PUT /orders/{orderId}/positions/{positionId})
	UpdateOrderPosition(ctx echo.Context, orderId OrderId, positionId PositionId, params VersionParams) error
	// (DELETE /orders/{orderId}/positions/{positionId})
	DeleteOrderPosition(ctx echo.Context, orderId OrderId, positionId PositionId, params VersionParams) error
	// (POST /orders/{orderId}/lock)
	LockOrder(ctx echo.Context, orderId OrderId, params VersionParams) error
	// (POST /orders/{orderId}/reopen)
	ReopenOrder(ctx echo.Context, orderId OrderId, params VersionParams) error
	// (POST /orders/{orderId}/ordered)
	MarkOrderOrdered(ctx echo.Context, orderId OrderId, params VersionParams) error
	// (POST /orders/{orderId}/delivered)
	MarkOrderDelivered(ctx echo.Context, orderId OrderId, params VersionParams) error
	// (POST /orders/{orderId}/revoke)
	RevokeOrder(ctx echo.Context, orderId OrderId, params VersionParams) error
	// (POST /orders/{orderId}/archive)
	ArchiveOrder(ctx echo.Context, orderId OrderId, params VersionParams) error
	// (GET /restaurants/orderable)
	ListOrderableRestaurants(ctx echo.Context, params ListOrderableRestaurantsParams) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) GetHealth(ctx echo.Context) error {
	return w.Handler.GetHealth(ctx)
}

func (w *ServerInterfaceWrapper) ListOrders(ctx echo.Context) error {
	return w.Handler.ListOrders(ctx)
}

func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	return w.Handler.CreateOrder(ctx)
}

func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	orderId, err := bindUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.GetOrder(ctx, orderId)
}

func (w *ServerInterfaceWrapper) DeleteOrder(ctx echo.Context) error {
	return w.withVersion(ctx, w.Handler.DeleteOrder)
}

func (w *ServerInterfaceWrapper) UpdateOrderInfo(ctx echo.Context) error {
	return w.withVersion(ctx, w.Handler.UpdateOrderInfo)
}

func (w *ServerInterfaceWrapper) AddOrderPosition(ctx echo.Context) error {
	orderId, err := bindUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.AddOrderPosition(ctx, orderId)
}

func (w *ServerInterfaceWrapper) UpdateOrderPosition(ctx echo.Context) error {
	return w.withPositionVersion(ctx, w.Handler.UpdateOrderPosition)
}

func (w *ServerInterfaceWrapper) DeleteOrderPosition(ctx echo.Context) error {
	return w.withPositionVersion(ctx, w.Handler.DeleteOrderPosition)
}

func (w *ServerInterfaceWrapper) LockOrder(ctx echo.Context) error {
	return w.withVersion(ctx, w.Handler.LockOrder)
}

func (w *ServerInterfaceWrapper) ReopenOrder(ctx echo.Context) error {
	return w.withVersion(ctx, w.Handler.ReopenOrder)
}

func (w *ServerInterfaceWrapper) MarkOrderOrdered(ctx echo.Context) error {
	return w.withVersion(ctx, w.Handler.MarkOrderOrdered)
}

func (w *ServerInterfaceWrapper) MarkOrderDelivered(ctx echo.Context) error {
	return w.withVersion(ctx, w.Handler.MarkOrderDelivered)
}

func (w *ServerInterfaceWrapper) RevokeOrder(ctx echo.Context) error {
	return w.withVersion(ctx, w.Handler.RevokeOrder)
}

func (w *ServerInterfaceWrapper) ArchiveOrder(ctx echo.Context) error {
	return w.withVersion(ctx, w.Handler.ArchiveOrder)
}

func (w *ServerInterfaceWrapper) ListOrderableRestaurants(ctx echo.Context) error {
	var params ListOrderableRestaurantsParams

	err := runtime.BindQueryParameter("form", true, true, "date", ctx.QueryParams(), &params.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter date: %s", err))
	}

	return w.Handler.ListOrderableRestaurants(ctx, params)
}

func (w *ServerInterfaceWrapper) withVersion(
	ctx echo.Context,
	handler func(echo.Context, OrderId, VersionParams) error,
) error {
	orderId, err := bindUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	params, err := bindVersionParams(ctx)
	if err != nil {
		return err
	}
	return handler(ctx, orderId, params)
}

func (w *ServerInterfaceWrapper) withPositionVersion(
	ctx echo.Context,
	handler func(echo.Context, OrderId, PositionId, VersionParams) error,
) error {
	orderId, err := bindUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	positionId, err := bindUUID(ctx, "positionId")
	if err != nil {
		return err
	}
	params, err := bindVersionParams(ctx)
	if err != nil {
		return err
	}
	return handler(ctx, orderId, positionId, params)
}

func bindUUID(ctx echo.Context, name string) (openapi_types.UUID, error) {
	var id openapi_types.UUID

	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return id, nil
}

func bindVersionParams(ctx echo.Context) (VersionParams, error) {
	var params VersionParams

	valueList, found := ctx.Request().Header[http.CanonicalHeaderKey("If-Match")]
	if !found {
		return params, nil
	}
	if n := len(valueList); n != 1 {
		return params, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Expected one value for If-Match, got %d", n))
	}

	var ifMatch IfMatch
	err := runtime.BindStyledParameterWithOptions("simple", "If-Match", valueList[0], &ifMatch, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationHeader,
		Explode:       false,
		Required:      false,
	})
	if err != nil {
		return params, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter If-Match: %s", err))
	}
	params.IfMatch = &ifMatch

	return params, nil
}

// EchoRouter is satisfied by *echo.Echo and *echo.Group.
type EchoRouter interface {
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers the routes under baseURL, which must
// not end with a slash.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	w := ServerInterfaceWrapper{Handler: si}

	router.GET(baseURL+"/health", w.GetHealth)
	router.GET(baseURL+"/orders", w.ListOrders)
	router.POST(baseURL+"/orders", w.CreateOrder)
	router.GET(baseURL+"/orders/:orderId", w.GetOrder)
	router.DELETE(baseURL+"/orders/:orderId", w.DeleteOrder)
	router.PUT(baseURL+"/orders/:orderId/info", w.UpdateOrderInfo)
	router.POST(baseURL+"/orders/:orderId/positions", w.AddOrderPosition)
	router.PUT(baseURL+"/orders/:orderId/positions/:positionId", w.UpdateOrderPosition)
	router.DELETE(baseURL+"/orders/:orderId/positions/:positionId", w.DeleteOrderPosition)
	router.POST(baseURL+"/orders/:orderId/lock", w.LockOrder)
	router.POST(baseURL+"/orders/:orderId/reopen", w.ReopenOrder)
	router.POST(baseURL+"/orders/:orderId/ordered", w.MarkOrderOrdered)
	router.POST(baseURL+"/orders/:orderId/delivered", w.MarkOrderDelivered)
	router.POST(baseURL+"/orders/:orderId/revoke", w.RevokeOrder)
	router.POST(baseURL+"/orders/:orderId/archive", w.ArchiveOrder)
	router.GET(baseURL+"/restaurants/orderable", w.ListOrderableRestaurants)
}
