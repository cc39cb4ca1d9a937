package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Skym0sh0/in-the-mealtime/internal/core/application/usecases/commands"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/application/usecases/queries"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/kernel"
	"github.com/Skym0sh0/in-the-mealtime/internal/core/domain/model/order"
	"github.com/Skym0sh0/in-the-mealtime/internal/generated/servers"
	"github.com/Skym0sh0/in-the-mealtime/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type (
	OrderCreator interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
	}

	OrderInfoUpdater interface {
		Handle(ctx context.Context, cmd commands.UpdateOrderInfoCommand) (*order.Order, error)
	}

	PositionAdder interface {
		Handle(ctx context.Context, cmd commands.AddOrderPositionCommand) (commands.PositionResult, error)
	}

	PositionUpdater interface {
		Handle(ctx context.Context, cmd commands.UpdateOrderPositionCommand) (commands.PositionResult, error)
	}

	PositionRemover interface {
		Handle(ctx context.Context, cmd commands.RemoveOrderPositionCommand) (commands.PositionResult, error)
	}

	OrderStateChanger interface {
		Handle(ctx context.Context, cmd commands.ChangeOrderStateCommand) (*order.Order, error)
	}

	OrderDeleter interface {
		Handle(ctx context.Context, cmd commands.DeleteOrderCommand) error
	}

	OrderGetter interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (*order.Order, error)
	}

	OrderLister interface {
		Handle(ctx context.Context, query queries.GetOrdersQuery) ([]*order.Order, error)
	}

	OrderableRestaurantLister interface {
		Handle(ctx context.Context, query queries.GetOrderableRestaurantsQuery) ([]queries.GetOrderableRestaurantsQueryResponse, error)
	}
)

// Handlers are the use cases reachable over HTTP.
type Handlers struct {
	CreateOrder     OrderCreator
	UpdateOrderInfo OrderInfoUpdater
	AddPosition     PositionAdder
	UpdatePosition  PositionUpdater
	RemovePosition  PositionRemover
	ChangeState     OrderStateChanger
	DeleteOrder     OrderDeleter

	GetOrder             OrderGetter
	GetOrders            OrderLister
	OrderableRestaurants OrderableRestaurantLister
}

func (h Handlers) validate() error {
	var missing []error
	for name, handler := range map[string]any{
		"CreateOrder":          h.CreateOrder,
		"UpdateOrderInfo":      h.UpdateOrderInfo,
		"AddPosition":          h.AddPosition,
		"UpdatePosition":       h.UpdatePosition,
		"RemovePosition":       h.RemovePosition,
		"ChangeState":          h.ChangeState,
		"DeleteOrder":          h.DeleteOrder,
		"GetOrder":             h.GetOrder,
		"GetOrders":            h.GetOrders,
		"OrderableRestaurants": h.OrderableRestaurants,
	} {
		if handler == nil {
			missing = append(missing, errs.NewValueIsRequiredError(name))
		}
	}
	return errors.Join(missing...)
}

// Server implements servers.ServerInterface on top of the order use cases.
// Every change is recorded on behalf of order.DefaultActor.
type Server struct {
	handlers Handlers
	logger   *slog.Logger
}

var _ servers.ServerInterface = (*Server)(nil)

// NewServer creates a server. Every handler in handlers is required.
func NewServer(handlers Handlers, logger *slog.Logger) (*Server, error) {
	if err := handlers.validate(); err != nil {
		return nil, err
	}
	return &Server{handlers: handlers, logger: logger.With("component", "http")}, nil
}

// GetHealth handles GET /api/v1/health.
func (s *Server) GetHealth(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// ListOrders handles GET /api/v1/orders.
func (s *Server) ListOrders(ctx echo.Context) error {
	orders, err := s.handlers.GetOrders.Handle(ctx.Request().Context(), queries.NewGetOrdersQuery())
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]servers.Order, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	return ctx.JSON(http.StatusOK, response)
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body servers.CreateOrderJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return s.badBody(ctx)
	}

	restaurantID, err := kernel.UUIDFromGoogle(body.RestaurantId)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCreateOrderCommand(restaurantID, body.Date.Time, order.DefaultActor)
	if err != nil {
		return s.fail(ctx, err)
	}

	o, err := s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.respondOrder(ctx, http.StatusCreated, o)
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, orderId servers.OrderId) error {
	id, err := kernel.UUIDFromGoogle(orderId)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	o, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.respondOrder(ctx, http.StatusOK, o)
}

// DeleteOrder handles DELETE /api/v1/orders/{orderId}.
func (s *Server) DeleteOrder(ctx echo.Context, orderId servers.OrderId, params servers.VersionParams) error {
	id, version, err := orderAndVersion(orderId, params)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewDeleteOrderCommand(id, version)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.handlers.DeleteOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// UpdateOrderInfo handles PUT /api/v1/orders/{orderId}/info.
func (s *Server) UpdateOrderInfo(ctx echo.Context, orderId servers.OrderId, params servers.VersionParams) error {
	var body servers.UpdateOrderInfoJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return s.badBody(ctx)
	}

	id, version, err := orderAndVersion(orderId, params)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewUpdateOrderInfoCommand(id, version, toInfo(body), order.DefaultActor)
	if err != nil {
		return s.fail(ctx, err)
	}

	o, err := s.handlers.UpdateOrderInfo.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.respondOrder(ctx, http.StatusOK, o)
}

// AddOrderPosition handles POST /api/v1/orders/{orderId}/positions.
func (s *Server) AddOrderPosition(ctx echo.Context, orderId servers.OrderId) error {
	var body servers.AddOrderPositionJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return s.badBody(ctx)
	}

	id, err := kernel.UUIDFromGoogle(orderId)
	if err != nil {
		return s.fail(ctx, err)
	}

	data, err := toPositionData(body)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewAddOrderPositionCommand(id, data, order.DefaultActor)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.handlers.AddPosition.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.respondPosition(ctx, http.StatusCreated, result)
}

// UpdateOrderPosition handles PUT /api/v1/orders/{orderId}/positions/{positionId}.
// If-Match carries the version of the position, not of the order.
func (s *Server) UpdateOrderPosition(
	ctx echo.Context,
	orderId servers.OrderId,
	positionId servers.PositionId,
	params servers.VersionParams,
) error {
	var body servers.UpdateOrderPositionJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return s.badBody(ctx)
	}

	id, version, err := orderAndVersion(orderId, params)
	if err != nil {
		return s.fail(ctx, err)
	}
	posID, err := kernel.UUIDFromGoogle(positionId)
	if err != nil {
		return s.fail(ctx, err)
	}

	data, err := toPositionData(body)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewUpdateOrderPositionCommand(id, posID, version, data, order.DefaultActor)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.handlers.UpdatePosition.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.respondPosition(ctx, http.StatusOK, result)
}

// DeleteOrderPosition handles DELETE /api/v1/orders/{orderId}/positions/{positionId}.
func (s *Server) DeleteOrderPosition(
	ctx echo.Context,
	orderId servers.OrderId,
	positionId servers.PositionId,
	params servers.VersionParams,
) error {
	id, version, err := orderAndVersion(orderId, params)
	if err != nil {
		return s.fail(ctx, err)
	}
	posID, err := kernel.UUIDFromGoogle(positionId)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewRemoveOrderPositionCommand(id, posID, version, order.DefaultActor)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.handlers.RemovePosition.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.respondPosition(ctx, http.StatusOK, result)
}

func (s *Server) LockOrder(ctx echo.Context, orderId servers.OrderId, params servers.VersionParams) error {
	return s.changeState(ctx, orderId, params, order.Lock)
}

func (s *Server) ReopenOrder(ctx echo.Context, orderId servers.OrderId, params servers.VersionParams) error {
	return s.changeState(ctx, orderId, params, order.Reopen)
}

func (s *Server) MarkOrderOrdered(ctx echo.Context, orderId servers.OrderId, params servers.VersionParams) error {
	return s.changeState(ctx, orderId, params, order.MarkOrdered)
}

func (s *Server) MarkOrderDelivered(ctx echo.Context, orderId servers.OrderId, params servers.VersionParams) error {
	return s.changeState(ctx, orderId, params, order.MarkDelivered)
}

func (s *Server) RevokeOrder(ctx echo.Context, orderId servers.OrderId, params servers.VersionParams) error {
	return s.changeState(ctx, orderId, params, order.Revoke)
}

func (s *Server) ArchiveOrder(ctx echo.Context, orderId servers.OrderId, params servers.VersionParams) error {
	return s.changeState(ctx, orderId, params, order.Archive)
}

// ListOrderableRestaurants handles GET /api/v1/restaurants/orderable.
func (s *Server) ListOrderableRestaurants(ctx echo.Context, params servers.ListOrderableRestaurantsParams) error {
	query, err := queries.NewGetOrderableRestaurantsQuery(params.Date.Time)
	if err != nil {
		return s.fail(ctx, err)
	}

	restaurants, err := s.handlers.OrderableRestaurants.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]servers.Restaurant, len(restaurants))
	for i, r := range restaurants {
		response[i] = servers.Restaurant{Id: r.ID.Google(), Name: r.Name}
	}
	return ctx.JSON(http.StatusOK, response)
}

func (s *Server) changeState(
	ctx echo.Context,
	orderId servers.OrderId,
	params servers.VersionParams,
	transition order.Transition,
) error {
	id, version, err := orderAndVersion(orderId, params)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewChangeOrderStateCommand(id, version, transition, order.DefaultActor)
	if err != nil {
		return s.fail(ctx, err)
	}

	o, err := s.handlers.ChangeState.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.respondOrder(ctx, http.StatusOK, o)
}

// respondOrder writes o with its version as entity tag.
func (s *Server) respondOrder(ctx echo.Context, status int, o *order.Order) error {
	ctx.Response().Header().Set("ETag", formatETag(o.Version()))
	return ctx.JSON(status, toOrderResponse(o))
}

// respondPosition writes the order. The entity tag is the touched position's
// version so it can be replayed as If-Match on the position route. Removals
// carry no tag since the position is gone.
func (s *Server) respondPosition(ctx echo.Context, status int, result commands.PositionResult) error {
	if result.Position != nil {
		ctx.Response().Header().Set("ETag", formatETag(result.Position.Version()))
	}
	return ctx.JSON(status, toOrderResponse(result.Order))
}

func (s *Server) badBody(ctx echo.Context) error {
	return ctx.JSON(http.StatusBadRequest, servers.Error{
		Code:    http.StatusBadRequest,
		Message: "Invalid request body",
	})
}

func (s *Server) fail(ctx echo.Context, err error) error {
	status := statusOf(err)
	message := err.Error()

	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			"method", ctx.Request().Method,
			"path", ctx.Path(),
			"error", err,
		)
		message = http.StatusText(status)
	}

	return ctx.JSON(status, servers.Error{Code: status, Message: message})
}

func orderAndVersion(orderId servers.OrderId, params servers.VersionParams) (kernel.UUID, *kernel.UUID, error) {
	id, err := kernel.UUIDFromGoogle(orderId)
	if err != nil {
		return kernel.UUID{}, nil, err
	}
	version, err := parseIfMatch(params.IfMatch)
	if err != nil {
		return kernel.UUID{}, nil, err
	}
	return id, version, nil
}
