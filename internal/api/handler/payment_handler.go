package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
)

// PaymentHandler serves payment orders and the gateway webhook.
type PaymentHandler struct {
	service ports.PaymentService
	log     zerolog.Logger
}

func NewPaymentHandler(service ports.PaymentService, log zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{service: service, log: log}
}

type createPaymentRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

type verifyPaymentRequest struct {
	OrderID string `json:"orderId" validate:"required"`
}

type updatePaymentStatusRequest struct {
	OrderID       string `json:"orderId" validate:"required"`
	TransactionID string `json:"transactionId"`
	PaymentStatus string `json:"paymentStatus" validate:"required,oneof=Pending Paid Failed"`
}

// notificationRequest is the subset of the gateway push the server reads.
// Other fields are ignored.
type notificationRequest struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	TransactionID     string `json:"transaction_id"`
	FraudStatus       string `json:"fraud_status"`
}

type notificationResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Create opens a gateway order for the caller.
//
// @Summary      Create a payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPaymentRequest  true  "Amount"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  messageResponse
// @Failure      502   {object}  messageResponse
// @Router       /payment/create [post]
func (h *PaymentHandler) Create(c echo.Context) error {
	me, err := ctxEmployee(c)
	if err != nil {
		return err
	}
	var req createPaymentRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	p, err := h.service.Create(c.Request().Context(), me, req.Amount)
	if err != nil {
		return err
	}
	return reply(c, http.StatusCreated, echo.Map{
		"paymentId":   p.ID,
		"orderId":     p.OrderID,
		"paymentLink": p.PaymentLink,
		"message":     "Payment initiated, complete the payment using the payment link",
	})
}

// Verify refreshes the caller's order from the gateway.
//
// @Summary      Verify a payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      verifyPaymentRequest  true  "Order id"
// @Success      200   {object}  map[string]any
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      502   {object}  messageResponse
// @Router       /payment/verify [post]
func (h *PaymentHandler) Verify(c echo.Context) error {
	me, err := ctxEmployee(c)
	if err != nil {
		return err
	}
	var req verifyPaymentRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	p, err := h.service.Verify(c.Request().Context(), me, req.OrderID)
	if err != nil {
		return err
	}
	return reply(c, http.StatusOK, echo.Map{"message": "Payment status is " + string(p.PaymentStatus), "payment": p})
}

// Notification receives status pushes from the gateway. Pushes that can
// never succeed (bad signature, unknown order, bad payload) are acknowledged
// with 200 so the gateway stops retrying; transient failures return an error
// status so it retries.
//
// @Summary      Gateway notification
// @Tags         payments
// @Accept       json
// @Produce      json
// @Success      200  {object}  notificationResponse
// @Failure      500  {object}  messageResponse
// @Router       /payment/notification [post]
func (h *PaymentHandler) Notification(c echo.Context) error {
	var req notificationRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil || req.OrderID == "" {
		h.log.Warn().Err(err).Msg("payment notification ignored: invalid payload")
		return c.JSON(http.StatusOK, notificationResponse{Status: "ignored", Reason: "invalid payload"})
	}

	err := h.service.HandleNotification(c.Request().Context(), ports.Notification{
		OrderID:           req.OrderID,
		StatusCode:        req.StatusCode,
		GrossAmount:       req.GrossAmount,
		SignatureKey:      req.SignatureKey,
		TransactionStatus: req.TransactionStatus,
		TransactionID:     req.TransactionID,
		FraudStatus:       req.FraudStatus,
	})
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, notificationResponse{Status: "ok"})
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrValidation):
		h.log.Warn().Err(err).Str("order", req.OrderID).Msg("payment notification ignored")
		return c.JSON(http.StatusOK, notificationResponse{Status: "ignored", Reason: domain.Message(err)})
	}
	return err
}

// List
//
// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        paymentStatus  query     string  false  "Pending, Paid or Failed"
// @Param        page           query     int     false  "Page number"
// @Success      200            {object}  map[string]any
// @Router       /payment [get]
func (h *PaymentHandler) List(c echo.Context) error {
	res, err := h.service.List(c.Request().Context(), params(c))
	if err != nil {
		return err
	}
	return replyList(c, res, listFields{items: "payments", total: "count", filtered: "filteredCount"})
}

// Get
//
// @Summary      Get a payment
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Payment id"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  messageResponse
// @Router       /payment/{id} [get]
func (h *PaymentHandler) Get(c echo.Context) error {
	p, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return reply(c, http.StatusOK, echo.Map{"payment": p})
}

// UpdateStatus overrides a payment's status by hand.
//
// @Summary      Update a payment status
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updatePaymentStatusRequest  true  "Order and status"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /payment/update-status [put]
func (h *PaymentHandler) UpdateStatus(c echo.Context) error {
	var req updatePaymentStatusRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	p, err := h.service.UpdateStatus(c.Request().Context(), req.OrderID, domain.PaymentStatus(req.PaymentStatus), req.TransactionID)
	if err != nil {
		return err
	}
	return reply(c, http.StatusOK, echo.Map{"message": "Payment status updated", "payment": p})
}
