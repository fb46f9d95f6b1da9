package order

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codekart/codekart/internal/models"
)

func TestDeliverOrderFromPending(t *testing.T) {
	env := newTestEnv(t)
	order := env.createOrder(models.OrderStatusPending, 10, nil)

	rec, c := env.doJSONRequest(http.MethodPut, "/api/orders/1/deliver", map[string]string{
		"delivery_link": "https://files.example/project.zip",
	})
	c.SetParamNames("id")
	c.SetParamValues("1")
	asUser(c, 99, "admin")
	require.NoError(t, env.H.DeliverOrder(c))
	require.Equal(t, http.StatusOK, rec.Code)

	stored := env.reloadOrder(order.ID)
	require.Equal(t, models.OrderStatusDelivered, stored.Status)
	require.Equal(t, "https://files.example/project.zip", stored.DeliveryLink)
	require.NotNil(t, stored.DeliveredAt)
}

func TestDeliverOrderNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPut, "/api/orders/7/deliver", map[string]string{
		"delivery_link": "https://files.example/project.zip",
	})
	c.SetParamNames("id")
	c.SetParamValues("7")
	asUser(c, 99, "admin")
	require.NoError(t, env.H.DeliverOrder(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateOrderStatusFreeForm(t *testing.T) {
	env := newTestEnv(t)
	order := env.createOrder(models.OrderStatusDelivered, 10, nil)

	// any -> any is allowed for the admin override
	rec, c := env.doJSONRequest(http.MethodPut, "/api/orders/1/status", map[string]string{
		"status": models.OrderStatusPending,
	})
	c.SetParamNames("id")
	c.SetParamValues("1")
	asUser(c, 99, "admin")
	require.NoError(t, env.H.UpdateOrderStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, models.OrderStatusPending, env.reloadOrder(order.ID).Status)
}

func TestUpdateOrderStatusRejectsUnknownValue(t *testing.T) {
	env := newTestEnv(t)
	order := env.createOrder(models.OrderStatusPending, 10, nil)

	rec, c := env.doJSONRequest(http.MethodPut, "/api/orders/1/status", map[string]string{
		"status": "shipped",
	})
	c.SetParamNames("id")
	c.SetParamValues("1")
	asUser(c, 99, "admin")
	require.NoError(t, env.H.UpdateOrderStatus(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, models.OrderStatusPending, env.reloadOrder(order.ID).Status)
}

func TestGetAllOrdersStatusFilter(t *testing.T) {
	env := newTestEnv(t)
	env.createOrder(models.OrderStatusPending, 10, nil)
	env.createOrder(models.OrderStatusDelivered, 20, nil)
	env.createOrder(models.OrderStatusDelivered, 30, nil)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/orders/admin/all?status=delivered", nil)
	asUser(c, 99, "admin")
	require.NoError(t, env.H.GetAllOrders(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count int            `json:"count"`
		Total int64          `json:"total"`
		Data  []models.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)
	require.Equal(t, int64(2), resp.Total)
	for _, o := range resp.Data {
		require.Equal(t, models.OrderStatusDelivered, o.Status)
	}
}

func TestGetAllOrdersPagination(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 5; i++ {
		env.createOrder(models.OrderStatusPending, float64(10+i), nil)
	}

	rec, c := env.doJSONRequest(http.MethodGet, "/api/orders/admin/all?page=2&limit=2", nil)
	asUser(c, 99, "admin")
	require.NoError(t, env.H.GetAllOrders(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count int   `json:"count"`
		Total int64 `json:"total"`
		Page  int   `json:"page"`
		Pages int64 `json:"pages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)
	require.Equal(t, int64(5), resp.Total)
	require.Equal(t, 2, resp.Page)
	require.Equal(t, int64(3), resp.Pages)
}

func TestGetOrderStats(t *testing.T) {
	env := newTestEnv(t)
	env.createOrder(models.OrderStatusPending, 10, nil)
	env.createOrder(models.OrderStatusPending, 10, nil)
	env.createOrder(models.OrderStatusProcessing, 20, nil)
	env.createOrder(models.OrderStatusDelivered, 30, nil)
	env.createOrder(models.OrderStatusDelivered, 30, nil)
	env.createOrder(models.OrderStatusDelivered, 30, nil)
	env.createOrder(models.OrderStatusCancelled, 1000, nil)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/orders/admin/stats", nil)
	asUser(c, 99, "admin")
	require.NoError(t, env.H.GetOrderStats(c))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeEnvelope(t, rec)
	var stats Stats
	require.NoError(t, json.Unmarshal(resp.Data, &stats))

	require.Equal(t, int64(7), stats.TotalOrders)
	require.Equal(t, int64(2), stats.PendingOrders)
	require.Equal(t, int64(1), stats.ProcessingOrders)
	require.Equal(t, int64(3), stats.DeliveredOrders)
	// cancelled orders never count towards revenue
	require.Equal(t, float64(130), stats.TotalRevenue)
	require.Len(t, stats.RecentOrders, 5)
}
