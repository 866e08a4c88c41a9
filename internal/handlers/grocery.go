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

type GroceryHandler struct {
	groceryService *services.GroceryService
}

func NewGroceryHandler(groceryService *services.GroceryService) *GroceryHandler {
	return &GroceryHandler{
		groceryService: groceryService,
	}
}

func (h *GroceryHandler) List(c *gin.Context) {
	groceries, err := h.groceryService.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Groceries retrieved", groceries))
}

func (h *GroceryHandler) LowStock(c *gin.Context) {
	groceries, err := h.groceryService.LowStock(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Low stock items retrieved", groceries))
}

func (h *GroceryHandler) Get(c *gin.Context) {
	grocery, err := h.groceryService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Item retrieved", grocery))
}

func (h *GroceryHandler) Create(c *gin.Context) {
	callerID, role := middleware.Caller(c)
	if !policy.Allowed(role, policy.OpWriteGroceries) {
		writeForbidden(c)
		return
	}

	var req models.CreateGroceryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	grocery, err := h.groceryService.Create(c.Request.Context(), req, callerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.SuccessResponse("Item created", grocery))
}

func (h *GroceryHandler) Update(c *gin.Context) {
	callerID, role := middleware.Caller(c)
	if !policy.Allowed(role, policy.OpWriteGroceries) {
		writeForbidden(c)
		return
	}

	var patch models.GroceryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	grocery, err := h.groceryService.Update(c.Request.Context(), c.Param("id"), patch, callerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Item updated", grocery))
}

func (h *GroceryHandler) Delete(c *gin.Context) {
	_, role := middleware.Caller(c)
	if !policy.Allowed(role, policy.OpWriteGroceries) {
		writeForbidden(c)
		return
	}

	if err := h.groceryService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Item removed", nil))
}
