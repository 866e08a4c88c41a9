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

type TableHandler struct {
	tableService *services.TableService
}

func NewTableHandler(tableService *services.TableService) *TableHandler {
	return &TableHandler{
		tableService: tableService,
	}
}

func (h *TableHandler) List(c *gin.Context) {
	tables, err := h.tableService.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Tables retrieved", tables))
}

func (h *TableHandler) Get(c *gin.Context) {
	table, err := h.tableService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Table retrieved", table))
}

func (h *TableHandler) Create(c *gin.Context) {
	_, role := middleware.Caller(c)
	if !policy.Allowed(role, policy.OpWriteTables) {
		writeForbidden(c)
		return
	}

	var req models.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	table, err := h.tableService.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.SuccessResponse("Table created", table))
}

func (h *TableHandler) Update(c *gin.Context) {
	_, role := middleware.Caller(c)
	if !policy.Allowed(role, policy.OpWriteTables) {
		writeForbidden(c)
		return
	}

	var patch models.TablePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	table, err := h.tableService.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Table updated", table))
}

func (h *TableHandler) Delete(c *gin.Context) {
	_, role := middleware.Caller(c)
	if !policy.Allowed(role, policy.OpWriteTables) {
		writeForbidden(c)
		return
	}

	if err := h.tableService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Table removed", nil))
}
