package order

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/codekart/codekart/internal/handlers"
	auth "github.com/codekart/codekart/internal/middleware/auth"
	"github.com/codekart/codekart/internal/models"
	"github.com/codekart/codekart/internal/payments"
)

// CreateCheckoutSession persists a pending order and opens a processor
// checkout session for it. The session carries the order id as metadata so
// confirmation can find its way back.
func (h *Handler) CreateCheckoutSession(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return handlers.Fail(c, http.StatusBadRequest, "invalid request body")
	}
	if len(req.Items) == 0 {
		return handlers.Fail(c, http.StatusBadRequest, "no items in order")
	}
	if err := c.Validate(&req); err != nil {
		return handlers.Fail(c, http.StatusBadRequest, "customer name, email and a valid total are required")
	}

	order, err := h.buildOrder(c, &req)
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return handlers.Fail(c, he.Code, fmt.Sprint(he.Message))
		}
		return handlers.Fail(c, http.StatusInternalServerError, "could not create order")
	}

	if err := h.DB.Create(order).Error; err != nil {
		return handlers.Fail(c, http.StatusInternalServerError, "could not create order")
	}

	session, err := h.Checkout.CreateSession(c.Request().Context(), order)
	if err != nil {
		c.Logger().Errorf("checkout session error: %v", err)
		return handlers.Fail(c, http.StatusInternalServerError, "could not create checkout session")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"session_id": session.ID,
		"url":        session.URL,
		"order_id":   order.ID,
	})
}

type confirmPaymentRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	OrderID   uint   `json:"order_id" validate:"required"`
}

// ConfirmPayment verifies the session with the processor and, only when it
// reports paid, advances the order to paid/processing. Anything else leaves
// the order untouched.
func (h *Handler) ConfirmPayment(c echo.Context) error {
	var req confirmPaymentRequest
	if err := c.Bind(&req); err != nil {
		return handlers.Fail(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return handlers.Fail(c, http.StatusBadRequest, "session_id and order_id are required")
	}

	session, err := h.Checkout.RetrieveSession(c.Request().Context(), req.SessionID)
	if err != nil {
		c.Logger().Errorf("session retrieve error: %v", err)
		return handlers.Fail(c, http.StatusInternalServerError, "could not verify payment")
	}
	if session.PaymentStatus != payments.StatusPaid {
		return handlers.Fail(c, http.StatusBadRequest, "payment not completed")
	}

	var order models.Order
	if err := h.DB.Preload("Items").First(&order, req.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return handlers.Fail(c, http.StatusNotFound, "order not found")
		}
		return handlers.Fail(c, http.StatusInternalServerError, "could not load order")
	}

	order.PaymentStatus = models.PaymentStatusPaid
	order.Status = models.OrderStatusProcessing
	order.StripeSessionID = req.SessionID
	if err := h.DB.Save(&order).Error; err != nil {
		return handlers.Fail(c, http.StatusInternalServerError, "could not update order")
	}

	h.Dispatcher.PaymentConfirmed(&order)

	return handlers.OK(c, http.StatusOK, order)
}

// UploadPaymentScreenshot attaches manual UPI proof to the caller's own
// order and marks it paid. Fulfillment status is left for the admin.
func (h *Handler) UploadPaymentScreenshot(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return handlers.Fail(c, http.StatusBadRequest, "invalid order id")
	}

	file, err := c.FormFile("screenshot")
	if err != nil {
		return handlers.Fail(c, http.StatusBadRequest, "please upload a payment screenshot")
	}

	var order models.Order
	if err := h.DB.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return handlers.Fail(c, http.StatusNotFound, "order not found")
		}
		return handlers.Fail(c, http.StatusInternalServerError, "could not load order")
	}

	userID, _ := auth.UserID(c)
	if order.UserID != nil && *order.UserID != userID {
		return handlers.Fail(c, http.StatusForbidden, "not authorized")
	}

	path, err := h.Uploads.SaveImage(file)
	if err != nil {
		return handlers.Fail(c, http.StatusBadRequest, err.Error())
	}

	order.PaymentScreenshot = path
	order.PaymentStatus = models.PaymentStatusPaid
	if err := h.DB.Save(&order).Error; err != nil {
		return handlers.Fail(c, http.StatusInternalServerError, "could not update order")
	}

	h.Dispatcher.PaymentReceived(&order)

	return handlers.OK(c, http.StatusOK, order)
}
