package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"restaurant-manager/internal/middleware"
	"restaurant-manager/internal/models"
	"restaurant-manager/internal/policy"
	"restaurant-manager/internal/services"
	"restaurant-manager/internal/utils"
)

type ReservationHandler struct {
	reservationService *services.ReservationService
}

func NewReservationHandler(reservationService *services.ReservationService) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationService,
	}
}

func (h *ReservationHandler) List(c *gin.Context) {
	_, role := middleware.Caller(c)
	if !policy.Allowed(role, policy.OpManageReservations) {
		writeForbidden(c)
		return
	}

	reservations, err := h.reservationService.List(c.Request.Context(),
		c.Query("date"), models.ReservationStatus(c.Query("status")))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Reservations retrieved", reservations))
}

func (h *ReservationHandler) Get(c *gin.Context) {
	_, role := middleware.Caller(c)
	if !policy.Allowed(role, policy.OpManageReservations) {
		writeForbidden(c)
		return
	}

	reservation, err := h.reservationService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Reservation retrieved", reservation))
}

func (h *ReservationHandler) Create(c *gin.Context) {
	callerID, role := middleware.Caller(c)
	if !policy.Allowed(role, policy.OpManageReservations) {
		writeForbidden(c)
		return
	}

	var req models.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	reservation, err := h.reservationService.Create(c.Request.Context(), req, callerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.SuccessResponse("Reservation created", reservation))
}

func (h *ReservationHandler) Update(c *gin.Context) {
	_, role := middleware.Caller(c)
	if !policy.Allowed(role, policy.OpManageReservations) {
		writeForbidden(c)
		return
	}

	var patch models.ReservationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	reservation, err := h.reservationService.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Reservation updated", reservation))
}

func (h *ReservationHandler) Delete(c *gin.Context) {
	_, role := middleware.Caller(c)
	if !policy.Allowed(role, policy.OpManageReservations) {
		writeForbidden(c)
		return
	}

	if err := h.reservationService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Reservation removed", nil))
}

func (h *ReservationHandler) AvailableTables(c *gin.Context) {
	_, role := middleware.Caller(c)
	if !policy.Allowed(role, policy.OpManageReservations) {
		writeForbidden(c)
		return
	}

	partySize := 0
	if raw := c.Query("partySize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid party size", err.Error()))
			return
		}
		partySize = n
	}

	tables, err := h.reservationService.AvailableTables(c.Request.Context(),
		c.Query("date"), c.Query("time"), partySize)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Available tables retrieved", tables))
}
