package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-manager/internal/logger"
	"restaurant-manager/internal/middleware"
	"restaurant-manager/internal/services"
	"restaurant-manager/internal/storage"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewLogger()
	t.Cleanup(func() { log.Close() })

	store := storage.NewInMemoryStore()
	tableService := services.NewTableService(store, log)
	orderService := services.NewOrderService(store, tableService, nil, log)
	reservationService := services.NewReservationService(store, nil, log)

	tables := NewTableHandler(tableService)
	orders := NewOrderHandler(orderService)
	reservations := NewReservationHandler(reservationService)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Identity(log))
	v1.GET("/tables", tables.List)
	v1.GET("/tables/:id", tables.Get)
	v1.POST("/tables", tables.Create)
	v1.POST("/orders", orders.Create)
	v1.POST("/reservations", reservations.Create)
	v1.GET("/reservations/:id", reservations.Get)
	return router
}

func doRequest(router *gin.Engine, method, path, userID, role string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	if role != "" {
		req.Header.Set("X-User-Role", role)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdentityHeadersRequired(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/tables", "", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/tables", "usr_1", "sommelier", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/tables", "usr_1", "waiter", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateTableRequiresAdminRole(t *testing.T) {
	router := newTestRouter(t)
	body := gin.H{"tableNumber": 1, "capacity": 4}

	w := doRequest(router, http.MethodPost, "/api/v1/tables", "usr_w", "waiter", body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/tables", "usr_a", "admin", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ID     string `json:"id"`
			Number int    `json:"tableNumber"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Data.Number)
	assert.NotEmpty(t, resp.Data.ID)
}

func TestGetMissingTableReturns404(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/tables/tbl_missing", "usr_1", "waiter", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateOrderValidationReturns400(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/orders", "usr_w", "waiter", gin.H{
		"table": "tbl_missing",
		"items": []gin.H{{"name": "Soup", "price": 4.5}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/orders", "usr_w", "waiter", gin.H{"table": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReservationSlotConflictReturns409(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/tables", "usr_a", "admin", gin.H{
		"tableNumber": 1, "capacity": 4,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	booking := gin.H{
		"customerName":  "Alice Chen",
		"customerPhone": "555-0101",
		"date":          "2026-12-24",
		"time":          "19:00",
		"partySize":     2,
		"table":         created.Data.ID,
	}

	w = doRequest(router, http.MethodPost, "/api/v1/reservations", "usr_r", "receptionist", booking)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/reservations", "usr_r", "receptionist", booking)
	assert.Equal(t, http.StatusConflict, w.Code)
}

// Reservations carry customer contact details, so reads are limited to the
// roles that manage them.
func TestGetReservationRequiresManagingRole(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/tables", "usr_a", "admin", gin.H{
		"tableNumber": 1, "capacity": 4,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var table struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &table))

	w = doRequest(router, http.MethodPost, "/api/v1/reservations", "usr_r", "receptionist", gin.H{
		"customerName":  "Alice Chen",
		"customerPhone": "555-0101",
		"date":          "2026-12-24",
		"time":          "19:00",
		"partySize":     2,
		"table":         table.Data.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var booked struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booked))

	w = doRequest(router, http.MethodGet, "/api/v1/reservations/"+booked.Data.ID, "usr_w", "waiter", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/reservations/"+booked.Data.ID, "usr_c", "chef", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/reservations/"+booked.Data.ID, "usr_r", "receptionist", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
