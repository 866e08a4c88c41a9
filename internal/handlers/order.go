package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-manager/internal/middleware"
	"restaurant-manager/internal/models"
	"restaurant-manager/internal/policy"
	"restaurant-manager/internal/services"
	"restaurant-manager/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) List(c *gin.Context) {
	callerID, role := middleware.Caller(c)
	orders, err := h.orderService.List(c.Request.Context(), role, callerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Orders retrieved", orders))
}

func (h *OrderHandler) Kitchen(c *gin.Context) {
	orders, err := h.orderService.KitchenOrders(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Kitchen orders retrieved", orders))
}

func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orderService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Order retrieved", order))
}

func (h *OrderHandler) Create(c *gin.Context) {
	callerID, role := middleware.Caller(c)
	if !policy.Allowed(role, policy.OpCreateOrder) {
		writeForbidden(c)
		return
	}

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), req, callerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.SuccessResponse("Order created", order))
}

func (h *OrderHandler) Update(c *gin.Context) {
	callerID, role := middleware.Caller(c)
	if !policy.Allowed(role, policy.OpUpdateOrder) {
		writeForbidden(c)
		return
	}

	var patch models.OrderPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	order, err := h.orderService.Update(c.Request.Context(), c.Param("id"), patch, role, callerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Order updated", order))
}

func (h *OrderHandler) Delete(c *gin.Context) {
	_, role := middleware.Caller(c)
	if !policy.Allowed(role, policy.OpDeleteOrder) {
		writeForbidden(c)
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Order removed", nil))
}
