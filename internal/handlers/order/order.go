package order

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/codekart/codekart/internal/handlers"
	auth "github.com/codekart/codekart/internal/middleware/auth"
	"github.com/codekart/codekart/internal/models"
	"github.com/codekart/codekart/internal/notify"
	"github.com/codekart/codekart/internal/payments"
	"github.com/codekart/codekart/internal/upload"
)

// Handler owns the order lifecycle: creation, payment evidence, fulfillment
// and reporting.
type Handler struct {
	DB         *gorm.DB
	Checkout   payments.CheckoutProvider
	Dispatcher *notify.Dispatcher
	Uploads    *upload.Store
}

type customerInfoRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone"`
}

type orderItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  uint `json:"quantity"`
}

type createOrderRequest struct {
	CustomerInfo customerInfoRequest `json:"customer_info" validate:"required"`
	Items        []orderItemRequest  `json:"items" validate:"required,min=1,dive"`
	TotalAmount  float64             `json:"total_amount" validate:"required,gt=0"`
	Notes        string              `json:"notes"`
}

// cents avoids float comparison noise when checking declared totals.
func cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

type notFoundError struct{ productID uint }

func (e *notFoundError) Error() string {
	return fmt.Sprintf("product not found: %d", e.productID)
}

// snapshotItems validates every referenced product against the catalog and
// captures title/price at this moment. Any missing product fails the whole
// order before anything is persisted.
func (h *Handler) snapshotItems(items []orderItemRequest) ([]models.OrderItem, float64, error) {
	snapshot := make([]models.OrderItem, 0, len(items))
	var total float64

	for _, item := range items {
		var product models.Product
		if err := h.DB.First(&product, item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, &notFoundError{productID: item.ProductID}
			}
			return nil, 0, err
		}

		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}

		snapshot = append(snapshot, models.OrderItem{
			ProductID: product.ID,
			Title:     product.Title,
			Price:     product.Price,
			Quantity:  quantity,
		})
		total += product.Price * float64(quantity)
	}

	return snapshot, total, nil
}

// buildOrder runs validation, snapshotting and the declared-total check
// shared by the free-form and gateway checkout paths.
func (h *Handler) buildOrder(c echo.Context, req *createOrderRequest) (*models.Order, error) {
	items, total, err := h.snapshotItems(req.Items)
	if err != nil {
		var nf *notFoundError
		if errors.As(err, &nf) {
			return nil, echo.NewHTTPError(http.StatusNotFound, nf.Error())
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "could not create order")
	}

	// The total is recomputed from live catalog prices; a declared total
	// that disagrees is rejected rather than trusted.
	if cents(total) != cents(req.TotalAmount) {
		return nil, echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("total amount mismatch: declared %.2f, items sum to %.2f", req.TotalAmount, total))
	}

	order := &models.Order{
		CustomerInfo: models.CustomerInfo{
			Name:  req.CustomerInfo.Name,
			Email: req.CustomerInfo.Email,
			Phone: req.CustomerInfo.Phone,
		},
		Items:         items,
		TotalAmount:   total,
		Notes:         req.Notes,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
	}
	if userID, ok := auth.UserID(c); ok {
		order.UserID = &userID
	}
	return order, nil
}

// CreateOrder handles the free-form checkout path: the order is committed
// first, the notifications follow best-effort.
func (h *Handler) CreateOrder(c echo.Context) error {
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

	h.Dispatcher.OrderCreated(order)

	return handlers.OK(c, http.StatusCreated, order)
}

// GetMyOrders lists the caller's own orders, newest first.
func (h *Handler) GetMyOrders(c echo.Context) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return handlers.Fail(c, http.StatusUnauthorized, "not authenticated")
	}

	var orders []models.Order
	if err := h.DB.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return handlers.Fail(c, http.StatusInternalServerError, "could not list orders")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(orders),
		"data":    orders,
	})
}

// GetOrder returns one order to its owner or to an admin. Others get 403
// without the record being disclosed.
func (h *Handler) GetOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return handlers.Fail(c, http.StatusBadRequest, "invalid order id")
	}

	var order models.Order
	if err := h.DB.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return handlers.Fail(c, http.StatusNotFound, "order not found")
		}
		return handlers.Fail(c, http.StatusInternalServerError, "could not load order")
	}

	userID, _ := auth.UserID(c)
	if order.UserID != nil && *order.UserID != userID && !auth.IsAdmin(c) {
		return handlers.Fail(c, http.StatusForbidden, "not authorized to view this order")
	}

	return handlers.OK(c, http.StatusOK, order)
}
