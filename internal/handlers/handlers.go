package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-manager/internal/services"
	"restaurant-manager/internal/utils"
)

// writeServiceError maps service sentinels onto transport statuses. The
// services never retry; any retry policy belongs to the client.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Validation failed", err.Error()))
	case errors.Is(err, services.ErrSlotConflict):
		c.JSON(http.StatusConflict, utils.ErrorResponse("Slot conflict", err.Error()))
	case errors.Is(err, services.ErrNotAuthorized):
		c.JSON(http.StatusForbidden, utils.ErrorResponse("Not authorized", err.Error()))
	case errors.Is(err, services.ErrTableNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrReservationNotFound),
		errors.Is(err, services.ErrGroceryNotFound):
		c.JSON(http.StatusNotFound, utils.ErrorResponse("Not found", err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Internal error", err.Error()))
	}
}

func writeForbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, utils.ErrorResponse("Not authorized", "role lacks permission for this operation"))
}
