package order

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/codekart/codekart/internal/handlers"
	"github.com/codekart/codekart/internal/models"
	"github.com/codekart/codekart/internal/util"
)

// GetAllOrders is the paginated admin listing with an optional fulfillment
// status filter.
func (h *Handler) GetAllOrders(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, limit := util.Calculate(page, limit)
	if page < 1 {
		page = 1
	}

	q := h.DB.Model(&models.Order{})
	if status := c.QueryParam("status"); status != "" {
		if !models.ValidOrderStatus(status) {
			return handlers.Fail(c, http.StatusBadRequest, "unknown status")
		}
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return handlers.Fail(c, http.StatusInternalServerError, "could not list orders")
	}

	var orders []models.Order
	if err := q.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return handlers.Fail(c, http.StatusInternalServerError, "could not list orders")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(orders),
		"total":   total,
		"page":    page,
		"pages":   (total + int64(limit) - 1) / int64(limit),
		"data":    orders,
	})
}

type deliverOrderRequest struct {
	DeliveryLink string `json:"delivery_link"`
}

// DeliverOrder forces the order to delivered, records the artifact link and
// stamps the delivery time. There is no precondition on the prior status.
func (h *Handler) DeliverOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return handlers.Fail(c, http.StatusBadRequest, "invalid order id")
	}

	var req deliverOrderRequest
	if err := c.Bind(&req); err != nil {
		return handlers.Fail(c, http.StatusBadRequest, "invalid request body")
	}

	var order models.Order
	if err := h.DB.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return handlers.Fail(c, http.StatusNotFound, "order not found")
		}
		return handlers.Fail(c, http.StatusInternalServerError, "could not load order")
	}

	now := time.Now()
	order.Status = models.OrderStatusDelivered
	order.DeliveryLink = req.DeliveryLink
	order.DeliveredAt = &now
	if err := h.DB.Save(&order).Error; err != nil {
		return handlers.Fail(c, http.StatusInternalServerError, "could not update order")
	}

	return handlers.OK(c, http.StatusOK, order)
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateOrderStatus is the free-form admin override: any of the four states
// may be set regardless of the current one.
func (h *Handler) UpdateOrderStatus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return handlers.Fail(c, http.StatusBadRequest, "invalid order id")
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return handlers.Fail(c, http.StatusBadRequest, "invalid request body")
	}
	if !models.ValidOrderStatus(req.Status) {
		return handlers.Fail(c, http.StatusBadRequest, "unknown status")
	}

	var order models.Order
	if err := h.DB.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return handlers.Fail(c, http.StatusNotFound, "order not found")
		}
		return handlers.Fail(c, http.StatusInternalServerError, "could not load order")
	}

	order.Status = req.Status
	if err := h.DB.Save(&order).Error; err != nil {
		return handlers.Fail(c, http.StatusInternalServerError, "could not update order")
	}

	return handlers.OK(c, http.StatusOK, order)
}

// Stats is the admin dashboard aggregate. Revenue excludes cancelled
// orders.
type Stats struct {
	TotalOrders      int64          `json:"total_orders"`
	PendingOrders    int64          `json:"pending_orders"`
	ProcessingOrders int64          `json:"processing_orders"`
	DeliveredOrders  int64          `json:"delivered_orders"`
	TotalRevenue     float64        `json:"total_revenue"`
	RecentOrders     []models.Order `json:"recent_orders"`
}

func (h *Handler) GetOrderStats(c echo.Context) error {
	var stats Stats

	counts := []struct {
		status string
		dest   *int64
	}{
		{"", &stats.TotalOrders},
		{models.OrderStatusPending, &stats.PendingOrders},
		{models.OrderStatusProcessing, &stats.ProcessingOrders},
		{models.OrderStatusDelivered, &stats.DeliveredOrders},
	}
	for _, count := range counts {
		q := h.DB.Model(&models.Order{})
		if count.status != "" {
			q = q.Where("status = ?", count.status)
		}
		if err := q.Count(count.dest).Error; err != nil {
			return handlers.Fail(c, http.StatusInternalServerError, "could not load stats")
		}
	}

	revenueStatuses := []string{
		models.OrderStatusPending,
		models.OrderStatusProcessing,
		models.OrderStatusDelivered,
	}
	if err := h.DB.Model(&models.Order{}).
		Where("status IN ?", revenueStatuses).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&stats.TotalRevenue).Error; err != nil {
		return handlers.Fail(c, http.StatusInternalServerError, "could not load stats")
	}

	if err := h.DB.Preload("Items").
		Order("created_at DESC").
		Limit(5).
		Find(&stats.RecentOrders).Error; err != nil {
		return handlers.Fail(c, http.StatusInternalServerError, "could not load stats")
	}

	return handlers.OK(c, http.StatusOK, stats)
}
