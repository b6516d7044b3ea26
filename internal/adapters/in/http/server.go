package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"courierdispatch/internal/core/application/usecases/commands"
	"courierdispatch/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

type CreateCouriersHandler interface {
	Handle(ctx context.Context, cmd commands.CreateCouriersCommand) error
}

type CreateOrdersHandler interface {
	Handle(ctx context.Context, cmd commands.CreateOrdersCommand) error
}

type PatchCourierHandler interface {
	Handle(ctx context.Context, cmd commands.PatchCourierCommand) (commands.CourierView, error)
}

type AssignOrdersHandler interface {
	Handle(ctx context.Context, cmd commands.AssignOrdersCommand) (commands.AssignOrdersResult, error)
}

type CompleteOrderHandler interface {
	Handle(ctx context.Context, cmd commands.CompleteOrderCommand) error
}

type GetCourierHandler interface {
	Handle(ctx context.Context, query queries.GetCourierQuery) (queries.GetCourierQueryResponse, error)
}

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createCouriersHandler CreateCouriersHandler
	createOrdersHandler   CreateOrdersHandler
	patchCourierHandler   PatchCourierHandler
	assignOrdersHandler   AssignOrdersHandler
	completeOrderHandler  CompleteOrderHandler

	// Query handlers
	getCourierHandler GetCourierHandler

	logger *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createCouriersHandler CreateCouriersHandler,
	createOrdersHandler CreateOrdersHandler,
	patchCourierHandler PatchCourierHandler,
	assignOrdersHandler AssignOrdersHandler,
	completeOrderHandler CompleteOrderHandler,
	getCourierHandler GetCourierHandler,
	logger *slog.Logger,
) *Server {
	return &Server{
		createCouriersHandler: createCouriersHandler,
		createOrdersHandler:   createOrdersHandler,
		patchCourierHandler:   patchCourierHandler,
		assignOrdersHandler:   assignOrdersHandler,
		completeOrderHandler:  completeOrderHandler,
		getCourierHandler:     getCourierHandler,
		logger:                logger.With("component", "http"),
	}
}

// CreateCouriers handles POST /couriers - imports a batch of couriers.
func (s *Server) CreateCouriers(ctx echo.Context) error {
	var request CreateCouriersRequest
	if err := s.bind(ctx, &request); err != nil {
		return ctx.NoContent(http.StatusBadRequest)
	}

	ids := make([]int64, len(request.Data))
	items := make([]commands.CourierItem, 0, len(request.Data))
	invalid := make(map[int64]struct{})
	for i, raw := range request.Data {
		var item CourierItemRequest
		ids[i] = rawItemID(raw).CourierID
		if err := s.decodeItem(ctx, raw, &item); err != nil {
			invalid[ids[i]] = struct{}{}
			continue
		}
		items = append(items, commands.CourierItem{
			ID:           *item.CourierID,
			Type:         *item.CourierType,
			Regions:      item.Regions,
			WorkingHours: item.WorkingHours,
		})
	}

	cmd, err := commands.NewCreateCouriersCommand(items)
	if rejected := mergeRejected(ids, invalid, err); rejected != nil {
		return s.writeError(ctx, commands.NewInvalidItemsError("couriers", rejected))
	}
	if err != nil {
		return s.writeError(ctx, err)
	}

	if err = s.createCouriersHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CouriersCreatedResponse{Couriers: idList(ids)})
}

// CreateOrders handles POST /orders - imports a batch of orders.
func (s *Server) CreateOrders(ctx echo.Context) error {
	var request CreateOrdersRequest
	if err := s.bind(ctx, &request); err != nil {
		return ctx.NoContent(http.StatusBadRequest)
	}

	ids := make([]int64, len(request.Data))
	items := make([]commands.OrderItem, 0, len(request.Data))
	invalid := make(map[int64]struct{})
	for i, raw := range request.Data {
		var item OrderItemRequest
		ids[i] = rawItemID(raw).OrderID
		if err := s.decodeItem(ctx, raw, &item); err != nil {
			invalid[ids[i]] = struct{}{}
			continue
		}
		items = append(items, commands.OrderItem{
			ID:            *item.OrderID,
			Weight:        *item.Weight,
			Region:        *item.Region,
			DeliveryHours: item.DeliveryHours,
		})
	}

	cmd, err := commands.NewCreateOrdersCommand(items)
	if rejected := mergeRejected(ids, invalid, err); rejected != nil {
		return s.writeError(ctx, commands.NewInvalidItemsError("orders", rejected))
	}
	if err != nil {
		return s.writeError(ctx, err)
	}

	if err = s.createOrdersHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, OrdersCreatedResponse{Orders: idList(ids)})
}

// PatchCourier handles PATCH /couriers/{courier_id} - changes type, regions or hours.
func (s *Server) PatchCourier(ctx echo.Context, courierID int64) error {
	var request PatchCourierRequest
	if err := s.bind(ctx, &request); err != nil {
		return ctx.NoContent(http.StatusBadRequest)
	}

	cmd, err := commands.NewPatchCourierCommand(courierID, request.CourierType, request.Regions, request.WorkingHours)
	if err != nil {
		return s.writeError(ctx, err)
	}

	view, err := s.patchCourierHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, CourierResponse{
		CourierID:    view.ID,
		CourierType:  view.Type,
		Regions:      view.Regions,
		WorkingHours: view.WorkingHours,
	})
}

// GetCourier handles GET /couriers/{courier_id} - returns the courier profile.
func (s *Server) GetCourier(ctx echo.Context, courierID int64) error {
	query, err := queries.NewGetCourierQuery(courierID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	profile, err := s.getCourierHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, CourierProfileResponse{
		CourierID:    profile.ID,
		CourierType:  profile.Type,
		Regions:      profile.Regions,
		WorkingHours: profile.WorkingHours,
		Rating:       profile.Rating,
		Earnings:     profile.Earnings,
	})
}

// AssignOrders handles POST /orders/assign - hands available orders to a courier.
func (s *Server) AssignOrders(ctx echo.Context) error {
	var request AssignOrdersRequest
	if err := s.bind(ctx, &request); err != nil {
		return ctx.NoContent(http.StatusBadRequest)
	}

	cmd, err := commands.NewAssignOrdersCommand(*request.CourierID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	result, err := s.assignOrdersHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	response := AssignOrdersResponse{Orders: idList(result.OrderIDs)}
	if result.AssignTime != nil {
		assignTime := formatTime(*result.AssignTime)
		response.AssignTime = &assignTime
	}
	return ctx.JSON(http.StatusOK, response)
}

// CompleteOrder handles POST /orders/complete - marks an assigned order delivered.
func (s *Server) CompleteOrder(ctx echo.Context) error {
	var request CompleteOrderRequest
	if err := s.bind(ctx, &request); err != nil {
		return ctx.NoContent(http.StatusBadRequest)
	}

	completeTime, err := time.Parse(time.RFC3339Nano, *request.CompleteTime)
	if err != nil {
		return ctx.NoContent(http.StatusBadRequest)
	}

	cmd, err := commands.NewCompleteOrderCommand(*request.CourierID, *request.OrderID, completeTime)
	if err != nil {
		return s.writeError(ctx, err)
	}

	if err = s.completeOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, CompleteOrderResponse{OrderID: *request.OrderID})
}

// bind decodes the body strictly and runs the struct validation.
func (s *Server) bind(ctx echo.Context, request any) error {
	if err := ctx.Bind(request); err != nil {
		s.logger.DebugContext(ctx.Request().Context(), "malformed body", slog.Any("error", err))
		return err
	}
	if err := ctx.Validate(request); err != nil {
		s.logger.DebugContext(ctx.Request().Context(), "invalid body", slog.Any("error", err))
		return err
	}
	return nil
}

func (s *Server) decodeItem(ctx echo.Context, raw json.RawMessage, item any) error {
	if err := decodeStrict(raw, item); err != nil {
		return err
	}
	return ctx.Validate(item)
}

func rawItemID(raw json.RawMessage) itemID {
	var id itemID
	_ = json.Unmarshal(raw, &id)
	return id
}

// mergeRejected returns, in request order, the ids of items that failed decoding or
// were refused by the command constructor. It returns nil when nothing was rejected.
func mergeRejected(ids []int64, invalid map[int64]struct{}, cmdErr error) []int64 {
	if rejected, ok := asRejected(cmdErr); ok {
		for _, id := range rejected.IDs {
			invalid[id] = struct{}{}
		}
	}
	if len(invalid) == 0 {
		return nil
	}

	out := make([]int64, 0, len(invalid))
	for _, id := range ids {
		if _, ok := invalid[id]; ok {
			out = append(out, id)
			delete(invalid, id)
		}
	}
	return out
}
