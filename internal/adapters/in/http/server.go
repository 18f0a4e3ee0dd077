// Package http exposes the order lifecycle over an echo HTTP API.
// Actor identity arrives in X-Actor-Id and X-Actor-Role headers set by the
// upstream identity layer; this adapter translates HTTP into commands and
// queries and maps domain outcomes to status codes.
package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const (
	headerActorID   = "X-Actor-Id"
	headerActorRole = "X-Actor-Role"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	acceptHandler        commands.AcceptOrderCommandHandler
	cancelHandler        commands.CancelOrderCommandHandler
	markReadyHandler     commands.MarkReadyCommandHandler
	claimHandler         commands.ClaimOrderCommandHandler
	markDeliveredHandler commands.MarkDeliveredCommandHandler
	overrideHandler      commands.AdminOverrideCommandHandler
	confirmHandler       commands.ConfirmPaymentCommandHandler
	failHandler          commands.FailPaymentCommandHandler

	trackingHandler queries.GetOrderTrackingQueryHandler
	earningsHandler queries.GetRiderEarningsQueryHandler

	verifier SignalVerifier
	logger   *slog.Logger
}

// NewServer creates an HTTP server with the required command and query handlers.
func NewServer(
	acceptHandler commands.AcceptOrderCommandHandler,
	cancelHandler commands.CancelOrderCommandHandler,
	markReadyHandler commands.MarkReadyCommandHandler,
	claimHandler commands.ClaimOrderCommandHandler,
	markDeliveredHandler commands.MarkDeliveredCommandHandler,
	overrideHandler commands.AdminOverrideCommandHandler,
	confirmHandler commands.ConfirmPaymentCommandHandler,
	failHandler commands.FailPaymentCommandHandler,
	trackingHandler queries.GetOrderTrackingQueryHandler,
	earningsHandler queries.GetRiderEarningsQueryHandler,
	verifier SignalVerifier,
	logger *slog.Logger,
) *Server {
	return &Server{
		acceptHandler:        acceptHandler,
		cancelHandler:        cancelHandler,
		markReadyHandler:     markReadyHandler,
		claimHandler:         claimHandler,
		markDeliveredHandler: markDeliveredHandler,
		overrideHandler:      overrideHandler,
		confirmHandler:       confirmHandler,
		failHandler:          failHandler,
		trackingHandler:      trackingHandler,
		earningsHandler:      earningsHandler,
		verifier:             verifier,
		logger:               logger.With("component", "http"),
	}
}

// RegisterRoutes mounts all endpoints on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders/:id/accept", s.AcceptOrder)
	api.POST("/orders/:id/reject", s.RejectOrder)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/ready", s.MarkReady)
	api.POST("/orders/:id/claim", s.ClaimOrder)
	api.POST("/orders/:id/delivered", s.MarkDelivered)
	api.POST("/orders/:id/override", s.OverrideOrder)
	api.POST("/payments/webhook", s.PaymentWebhook)
	api.GET("/orders/:id/tracking", s.GetTracking)
	api.GET("/riders/:id/earnings", s.GetRiderEarnings)

	e.GET("/health", s.Health)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// AcceptOrder handles POST /api/v1/orders/:id/accept.
func (s *Server) AcceptOrder(ctx echo.Context) error {
	orderID, actorID, role, ok := s.lifecycleParams(ctx)
	if !ok {
		return nil
	}

	cmd, err := commands.NewAcceptOrderCommand(orderID, actorID, role)
	if err != nil {
		return badRequest(ctx, err)
	}

	status, err := s.acceptHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.domainError(ctx, orderID, err)
	}

	return ctx.JSON(http.StatusOK, TransitionResponse{OrderID: orderID.String(), Status: status.String()})
}

// RejectOrder handles POST /api/v1/orders/:id/reject. A rejection is a
// cancellation performed by the restaurant before acceptance.
func (s *Server) RejectOrder(ctx echo.Context) error {
	if role, err := order.RoleFromString(ctx.Request().Header.Get(headerActorRole)); err == nil &&
		role != order.RoleRestaurant && role != order.RoleAdmin {
		return ctx.JSON(http.StatusForbidden, ErrorResponse{
			Code:    http.StatusForbidden,
			Message: "only the restaurant can reject an order",
		})
	}
	return s.cancel(ctx, "rejected by restaurant")
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	return s.cancel(ctx, "cancelled by requester")
}

func (s *Server) cancel(ctx echo.Context, defaultReason string) error {
	orderID, actorID, role, ok := s.lifecycleParams(ctx)
	if !ok {
		return nil
	}

	var body CancelRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, errors.New("invalid request body"))
	}
	if body.Reason == "" {
		body.Reason = defaultReason
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, actorID, role, body.Reason)
	if err != nil {
		return badRequest(ctx, err)
	}

	status, err := s.cancelHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.domainError(ctx, orderID, err)
	}

	return ctx.JSON(http.StatusOK, TransitionResponse{OrderID: orderID.String(), Status: status.String()})
}

// MarkReady handles POST /api/v1/orders/:id/ready.
func (s *Server) MarkReady(ctx echo.Context) error {
	orderID, actorID, role, ok := s.lifecycleParams(ctx)
	if !ok {
		return nil
	}

	cmd, err := commands.NewMarkReadyCommand(orderID, actorID, role)
	if err != nil {
		return badRequest(ctx, err)
	}

	status, err := s.markReadyHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.domainError(ctx, orderID, err)
	}

	return ctx.JSON(http.StatusOK, TransitionResponse{OrderID: orderID.String(), Status: status.String()})
}

// ClaimOrder handles POST /api/v1/orders/:id/claim. The acting rider claims
// the order; concurrent claims resolve to exactly one winner.
func (s *Server) ClaimOrder(ctx echo.Context) error {
	orderID, actorID, role, ok := s.lifecycleParams(ctx)
	if !ok {
		return nil
	}
	if role != order.RoleRider {
		return ctx.JSON(http.StatusForbidden, ErrorResponse{
			Code:    http.StatusForbidden,
			Message: "only riders can claim orders",
		})
	}

	cmd, err := commands.NewClaimOrderCommand(orderID, actorID)
	if err != nil {
		return badRequest(ctx, err)
	}

	status, err := s.claimHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.domainError(ctx, orderID, err)
	}

	return ctx.JSON(http.StatusOK, TransitionResponse{OrderID: orderID.String(), Status: status.String()})
}

// MarkDelivered handles POST /api/v1/orders/:id/delivered.
func (s *Server) MarkDelivered(ctx echo.Context) error {
	orderID, actorID, role, ok := s.lifecycleParams(ctx)
	if !ok {
		return nil
	}

	cmd, err := commands.NewMarkDeliveredCommand(orderID, actorID, role)
	if err != nil {
		return badRequest(ctx, err)
	}

	status, err := s.markDeliveredHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.domainError(ctx, orderID, err)
	}

	return ctx.JSON(http.StatusOK, TransitionResponse{OrderID: orderID.String(), Status: status.String()})
}

// OverrideOrder handles POST /api/v1/orders/:id/override.
func (s *Server) OverrideOrder(ctx echo.Context) error {
	orderID, actorID, role, ok := s.lifecycleParams(ctx)
	if !ok {
		return nil
	}
	if role != order.RoleAdmin {
		return ctx.JSON(http.StatusForbidden, ErrorResponse{
			Code:    http.StatusForbidden,
			Message: "only admins can override orders",
		})
	}

	var body OverrideRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, errors.New("invalid request body"))
	}

	targetStatus, err := order.StatusFromString(body.TargetStatus)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewAdminOverrideCommand(orderID, actorID, targetStatus, body.Reason)
	if err != nil {
		return badRequest(ctx, err)
	}

	status, err := s.overrideHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.domainError(ctx, orderID, err)
	}

	return ctx.JSON(http.StatusOK, TransitionResponse{OrderID: orderID.String(), Status: status.String()})
}

// PaymentWebhook handles POST /api/v1/payments/webhook. The body is a
// compact JWS signed by the payment provider. Verification failures are
// audit-logged and answered 401; unknown event types are acknowledged so the
// provider stops redelivering them.
func (s *Server) PaymentWebhook(ctx echo.Context) error {
	payload, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return badRequest(ctx, errors.New("failed to read request body"))
	}

	signal, err := s.verifier.Verify(string(payload))
	if err != nil {
		s.logger.WarnContext(ctx.Request().Context(), "rejected payment signal",
			"remote_ip", ctx.RealIP(),
			"error", err,
		)
		return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    http.StatusUnauthorized,
			Message: "signal verification failed",
		})
	}

	switch signal.Event {
	case SignalPaymentSucceeded:
		cmd, cmdErr := commands.NewConfirmPaymentCommand(signal.PaymentRef)
		if cmdErr != nil {
			return badRequest(ctx, cmdErr)
		}
		if handleErr := s.confirmHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
			return s.webhookError(ctx, signal, handleErr)
		}
	case SignalPaymentFailed:
		cmd, cmdErr := commands.NewFailPaymentCommand(signal.PaymentRef, signal.Reason)
		if cmdErr != nil {
			return badRequest(ctx, cmdErr)
		}
		if handleErr := s.failHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
			return s.webhookError(ctx, signal, handleErr)
		}
	default:
		s.logger.InfoContext(ctx.Request().Context(), "ignoring unknown payment signal",
			"event", signal.Event,
			"payment_ref", signal.PaymentRef,
		)
	}

	return ctx.JSON(http.StatusOK, map[string]string{"status": "accepted"})
}

// GetTracking handles GET /api/v1/orders/:id/tracking.
func (s *Server) GetTracking(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return badRequest(ctx, err)
	}

	query, err := queries.NewGetOrderTrackingQuery(orderID)
	if err != nil {
		return badRequest(ctx, err)
	}

	tracking, err := s.trackingHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.domainError(ctx, orderID, err)
	}

	response := TrackingResponse{
		OrderID:      tracking.OrderID.String(),
		Code:         tracking.Code,
		Status:       tracking.Status.String(),
		CancelReason: tracking.CancelReason,
		CreatedAt:    tracking.CreatedAt,
		AssignedAt:   tracking.AssignedAt,
		PickedUpAt:   tracking.PickedUpAt,
		DeliveredAt:  tracking.DeliveredAt,
	}
	if tracking.RiderID != nil {
		rid := tracking.RiderID.String()
		response.RiderID = &rid
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetRiderEarnings handles GET /api/v1/riders/:id/earnings.
func (s *Server) GetRiderEarnings(ctx echo.Context) error {
	riderID, err := pathUUID(ctx, "id")
	if err != nil {
		return badRequest(ctx, err)
	}

	query, err := queries.NewGetRiderEarningsQuery(riderID)
	if err != nil {
		return badRequest(ctx, err)
	}

	earnings, err := s.earningsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.domainError(ctx, riderID, err)
	}

	response := EarningsResponse{
		RiderID:    earnings.RiderID.String(),
		Earnings:   make([]EarningResponse, 0, len(earnings.Earnings)),
		TotalCents: earnings.TotalCents,
	}
	for _, item := range earnings.Earnings {
		response.Earnings = append(response.Earnings, EarningResponse{
			EarningID:   item.EarningID.String(),
			OrderID:     item.OrderID.String(),
			AmountCents: item.AmountCents,
			Basis:       item.Basis,
			CreatedAt:   item.CreatedAt,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// lifecycleParams extracts the order ID from the path and the actor identity
// from the headers. On failure the response has already been written and ok
// is false; the handler must return nil without further work.
func (s *Server) lifecycleParams(ctx echo.Context) (kernel.UUID, kernel.UUID, order.Role, bool) {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		_ = badRequest(ctx, err)
		return kernel.UUID{}, kernel.UUID{}, order.RoleUnknown, false
	}

	rawActor := ctx.Request().Header.Get(headerActorID)
	rawRole := ctx.Request().Header.Get(headerActorRole)
	if rawActor == "" || rawRole == "" {
		_ = ctx.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    http.StatusUnauthorized,
			Message: "actor identity headers are required",
		})
		return kernel.UUID{}, kernel.UUID{}, order.RoleUnknown, false
	}

	actorID, err := kernel.UUIDFromString(rawActor)
	if err != nil {
		_ = badRequest(ctx, err)
		return kernel.UUID{}, kernel.UUID{}, order.RoleUnknown, false
	}

	role, err := order.RoleFromString(rawRole)
	if err != nil {
		_ = badRequest(ctx, err)
		return kernel.UUID{}, kernel.UUID{}, order.RoleUnknown, false
	}

	return orderID, actorID, role, true
}

// domainError maps domain outcomes to HTTP status codes. Lifecycle conflicts
// re-read the current status so the caller can resynchronize.
func (s *Server) domainError(ctx echo.Context, orderID kernel.UUID, err error) error {
	var notFound *errs.ObjectNotFoundError

	switch {
	case errors.Is(err, order.ErrUnauthorized):
		return ctx.JSON(http.StatusForbidden, ErrorResponse{
			Code:    http.StatusForbidden,
			Message: err.Error(),
		})
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrTerminalState),
		errors.Is(err, order.ErrAlreadyClaimed),
		errors.Is(err, order.ErrNotClaimable):
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code:          http.StatusConflict,
			Message:       err.Error(),
			CurrentStatus: s.currentStatus(ctx, orderID),
		})
	case errors.As(err, &notFound):
		return ctx.JSON(http.StatusNotFound, ErrorResponse{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	default:
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			"path", ctx.Path(),
			"error", err,
		)
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "internal error",
		})
	}
}

// webhookError maps command failures during webhook handling. Terminal-state
// rejections answer 409 so the provider can route the case to reconciliation.
func (s *Server) webhookError(ctx echo.Context, signal PaymentSignal, err error) error {
	var notFound *errs.ObjectNotFoundError

	switch {
	case errors.As(err, &notFound):
		return ctx.JSON(http.StatusNotFound, ErrorResponse{
			Code:    http.StatusNotFound,
			Message: "no order for payment reference",
		})
	case errors.Is(err, order.ErrTerminalState):
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	default:
		s.logger.ErrorContext(ctx.Request().Context(), "payment signal processing failed",
			"event", signal.Event,
			"payment_ref", signal.PaymentRef,
			"error", err,
		)
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "internal error",
		})
	}
}

// currentStatus fetches the order's present status for conflict responses.
// Best effort only; an empty string is omitted from the JSON.
func (s *Server) currentStatus(ctx echo.Context, orderID kernel.UUID) string {
	query, err := queries.NewGetOrderTrackingQuery(orderID)
	if err != nil {
		return ""
	}
	tracking, err := s.trackingHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ""
	}
	return tracking.Status.String()
}

func pathUUID(ctx echo.Context, param string) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param(param))
}

func badRequest(ctx echo.Context, err error) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: err.Error(),
	})
}
