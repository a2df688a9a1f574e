package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// Handlers groups the use cases the HTTP API exposes.
type Handlers struct {
	CreateOrder      commands.CreateOrderCommandHandler
	AcceptOrder      commands.AcceptOrderCommandHandler
	RejectOrder      commands.RejectOrderCommandHandler
	CancelOrder      commands.CancelOrderCommandHandler
	AssignDriver     commands.AssignDriverCommandHandler
	CompletePickup   commands.CompletePickupCommandHandler
	CompleteDelivery commands.CompleteDeliveryCommandHandler
	ReissueCode      commands.ReissueValidationCodeCommandHandler
	TopUpWallet      commands.TopUpWalletCommandHandler
	WithdrawWallet   commands.WithdrawWalletCommandHandler
	RegisterDriver   commands.RegisterDriverCommandHandler

	GetOrder              queries.GetOrderQueryHandler
	GetActiveOrders       queries.GetActiveOrdersQueryHandler
	GetValidationCode     queries.GetValidationCodeQueryHandler
	GetWalletBalance      queries.GetWalletBalanceQueryHandler
	GetWalletTransactions queries.GetWalletTransactionsQueryHandler
	GetAvailableDrivers   queries.GetAvailableDriversQueryHandler
}

// Server translates HTTP requests into commands and queries.
// Handlers return errors; the router's error handler renders them.
type Server struct {
	h Handlers
}

func NewServer(handlers Handlers) *Server {
	return &Server{h: handlers}
}

// CreateOrder handles POST /orders. The actor is the client.
func (s *Server) CreateOrder(c echo.Context) error {
	var req newOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	distributorID, err := toKernelUUID("distributorId", req.DistributorID)
	if err != nil {
		return err
	}

	items := make([]order.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		item, itemErr := order.NewLineItem(it.ProductRef, it.Quantity, kernel.Money(it.UnitPrice))
		if itemErr != nil {
			return itemErr
		}
		items = append(items, item)
	}

	actorID := actorFrom(c)
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), actorID, distributorID, req.IsDelivery, items)
	if err != nil {
		return err
	}
	if err = s.h.CreateOrder.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	return s.respondWithOrder(c, http.StatusCreated, cmd.OrderID(), actorID)
}

// GetOrder handles GET /orders/{id} for any party of the order.
func (s *Server) GetOrder(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}
	return s.respondWithOrder(c, http.StatusOK, orderID, actorFrom(c))
}

// ChangeOrderStatus handles PUT /orders/{id}/status. Only Confirmed and
// Cancelled can be requested here; the other statuses have their own routes.
func (s *Server) ChangeOrderStatus(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}
	var req statusChangeRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}
	target, err := parseStatus(req.Status)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	actorID := actorFrom(c)

	switch target {
	case order.Confirmed:
		cmd, cmdErr := commands.NewAcceptOrderCommand(orderID, actorID)
		if cmdErr != nil {
			return cmdErr
		}
		err = s.h.AcceptOrder.Handle(ctx, cmd)
	case order.Cancelled:
		err = s.cancel(c, orderID, actorID, req.Reason)
	default:
		err = errs.NewInvalidTransitionError("set status "+target.String(), "a status request")
	}
	if err != nil {
		return err
	}

	return s.respondWithOrder(c, http.StatusOK, orderID, actorID)
}

// cancel rejects a Pending order when its distributor asks, and cancels otherwise.
func (s *Server) cancel(c echo.Context, orderID, actorID kernel.UUID, reason string) error {
	ctx := c.Request().Context()

	query, err := queries.NewGetOrderQuery(orderID, actorID)
	if err != nil {
		return err
	}
	current, err := s.h.GetOrder.Handle(ctx, query)
	if err != nil {
		return err
	}

	if current.Status == order.Pending && current.DistributorID.IsEqual(actorID) {
		cmd, cmdErr := commands.NewRejectOrderCommand(orderID, actorID)
		if cmdErr != nil {
			return cmdErr
		}
		return s.h.RejectOrder.Handle(ctx, cmd)
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, actorID, reason)
	if err != nil {
		return err
	}
	return s.h.CancelOrder.Handle(ctx, cmd)
}

// AssignDriver handles POST /distributeurs/orders/assign.
func (s *Server) AssignDriver(c echo.Context) error {
	var req assignmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	orderID, err := toKernelUUID("orderId", req.OrderID)
	if err != nil {
		return err
	}
	driverID, err := toKernelUUID("driverId", req.DriverID)
	if err != nil {
		return err
	}

	actorID := actorFrom(c)
	cmd, err := commands.NewAssignDriverCommand(orderID, driverID, actorID)
	if err != nil {
		return err
	}
	if err = s.h.AssignDriver.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	return s.respondWithOrder(c, http.StatusOK, orderID, actorID)
}

// CompletePickup handles POST /orders/{id}/complete-pickup.
func (s *Server) CompletePickup(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}
	var req handoffRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}

	actorID := actorFrom(c)
	cmd, err := commands.NewCompletePickupCommand(orderID, actorID, req.ValidationCode)
	if err != nil {
		return err
	}
	if err = s.h.CompletePickup.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	return s.respondWithOrder(c, http.StatusOK, orderID, actorID)
}

// ValidateDelivery handles POST /orders/{id}/validate-delivery.
func (s *Server) ValidateDelivery(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}
	var req handoffRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}

	actorID := actorFrom(c)
	cmd, err := commands.NewCompleteDeliveryCommand(orderID, actorID, req.ValidationCode)
	if err != nil {
		return err
	}
	if err = s.h.CompleteDelivery.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	return s.respondWithOrder(c, http.StatusOK, orderID, actorID)
}

// GetValidationCode handles GET /orders/{id}/validation-code. Client only.
func (s *Server) GetValidationCode(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetValidationCodeQuery(orderID, actorFrom(c))
	if err != nil {
		return err
	}

	code, err := s.h.GetValidationCode.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, validationCodeResponse{
		Code:     code.Code,
		Role:     code.Role.String(),
		IssuedAt: code.IssuedAt,
	})
}

// ReissueValidationCode handles POST /orders/{id}/validation-code/reissue.
func (s *Server) ReissueValidationCode(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewReissueValidationCodeCommand(orderID, actorFrom(c))
	if err != nil {
		return err
	}
	if err = s.h.ReissueCode.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetActiveOrders handles GET /distributeurs/{id}/orders/active.
func (s *Server) GetActiveOrders(c echo.Context) error {
	distributorID, err := pathID(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetActiveOrdersQuery(distributorID, actorFrom(c))
	if err != nil {
		return err
	}

	orders, err := s.h.GetActiveOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newOrderResponses(orders))
}

// MoveWalletFunds handles PATCH /wallet/{id}/wallettransaction: a credit tops
// the wallet up, a debit withdraws from it.
func (s *Server) MoveWalletFunds(c echo.Context) error {
	ownerID, err := pathID(c)
	if err != nil {
		return err
	}
	var req walletMovementRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	actorID := actorFrom(c)

	switch req.Type {
	case "credit":
		cmd, cmdErr := commands.NewTopUpWalletCommand(ownerID, actorID, req.Amount, req.Description)
		if cmdErr != nil {
			return cmdErr
		}
		err = s.h.TopUpWallet.Handle(ctx, cmd)
	default:
		cmd, cmdErr := commands.NewWithdrawWalletCommand(ownerID, actorID, req.Amount, req.Description)
		if cmdErr != nil {
			return cmdErr
		}
		err = s.h.WithdrawWallet.Handle(ctx, cmd)
	}
	if err != nil {
		return err
	}

	return s.respondWithBalance(c, ownerID, actorID)
}

// GetWalletBalance handles GET /wallet/{id}/balance.
func (s *Server) GetWalletBalance(c echo.Context) error {
	ownerID, err := pathID(c)
	if err != nil {
		return err
	}
	return s.respondWithBalance(c, ownerID, actorFrom(c))
}

// GetWalletTransactions handles GET /wallet/{id}/transactions?limit=.
func (s *Server) GetWalletTransactions(c echo.Context) error {
	ownerID, err := pathID(c)
	if err != nil {
		return err
	}

	var limit *int
	if err = runtime.BindQueryParameter("form", true, false, "limit", c.QueryParams(), &limit); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("limit", err)
	}

	query, err := queries.NewGetWalletQuery(ownerID, actorFrom(c), valueOr(limit, 0))
	if err != nil {
		return err
	}
	txs, err := s.h.GetWalletTransactions.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newTransactionResponses(txs))
}

// RegisterDriver handles POST /drivers.
func (s *Server) RegisterDriver(c echo.Context) error {
	var req newDriverRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewRegisterDriverCommand(kernel.NewUUID(), req.Name, req.Zone)
	if err != nil {
		return err
	}
	if err = s.h.RegisterDriver.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, driverResponse{
		ID:     cmd.DriverID().Bytes(),
		Name:   cmd.Name(),
		Zone:   cmd.Zone(),
		Status: "Available",
	})
}

// GetAvailableDrivers handles GET /drivers/available?zone=.
func (s *Server) GetAvailableDrivers(c echo.Context) error {
	var zone *string
	if err := runtime.BindQueryParameter("form", true, false, "zone", c.QueryParams(), &zone); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("zone", err)
	}

	drivers, err := s.h.GetAvailableDrivers.Handle(c.Request().Context(), queries.NewGetAvailableDriversQuery(valueOr(zone, "")))
	if err != nil {
		return err
	}

	out := make([]driverResponse, 0, len(drivers))
	for _, d := range drivers {
		out = append(out, newDriverResponse(d))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) respondWithOrder(c echo.Context, status int, orderID, actorID kernel.UUID) error {
	query, err := queries.NewGetOrderQuery(orderID, actorID)
	if err != nil {
		return err
	}
	o, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(status, newOrderResponse(o))
}

func (s *Server) respondWithBalance(c echo.Context, ownerID, actorID kernel.UUID) error {
	query, err := queries.NewGetWalletQuery(ownerID, actorID, 0)
	if err != nil {
		return err
	}
	balance, err := s.h.GetWalletBalance.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, balanceResponse{
		OwnerID:  balance.OwnerID.Bytes(),
		Balance:  balance.Balance.Int64(),
		Currency: balance.Currency,
	})
}

// pathID binds the {id} path parameter the way generated servers do.
func pathID(c echo.Context) (kernel.UUID, error) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	return toKernelUUID("id", id)
}

func bindAndValidate(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return err
	}
	return c.Validate(dst)
}

// valueOr dereferences an optional query parameter.
func valueOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
