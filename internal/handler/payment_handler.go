package handler

import (
	"net/http"

	"dealerdesk/internal/middleware"
	"dealerdesk/internal/service"
	"dealerdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) RegisterRoutes(router *gin.RouterGroup) {
	payments := router.Group("/dealership/payments")
	payments.Use(middleware.RequireAuth())
	{
		payments.GET("/:vehicle_id/", h.ListPayments)
		payments.POST("/:vehicle_id/", h.BatchUpsertPayments)
		payments.PUT("/:vehicle_id/:slot_number/", h.UpsertPayment)
		payments.DELETE("/:vehicle_id/:slot_number/", h.DeletePayment)
	}
}

// ListPayments returns all payment slots recorded against a vehicle
// @Summary      List payments
// @Description  Returns every payment slot for a vehicle, both purchase and selling side
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        vehicle_id  path      string  true  "Vehicle ID"
// @Success      200         {object}  response.Response{data=[]service.PaymentSlotResponse}
// @Failure      400         {object}  response.Response
// @Router       /dealership/payments/{vehicle_id}/ [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	slots, err := h.paymentService.ListPayments(c.Request.Context(), c.Param("vehicle_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, slots))
}

// BatchUpsertPayments creates or updates several payment slots in one call
// @Summary      Batch upsert payments
// @Description  Creates or updates each slot in the batch, keyed by (vehicle, slot number, payment type)
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        vehicle_id  path      string                       true  "Vehicle ID"
// @Param        payload     body      service.BatchPaymentRequest  true  "Batch Payment Payload"
// @Success      200         {object}  response.Response{data=[]service.PaymentSlotResponse}
// @Failure      400         {object}  response.Response
// @Router       /dealership/payments/{vehicle_id}/ [post]
func (h *PaymentHandler) BatchUpsertPayments(c *gin.Context) {
	var req service.BatchPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	// The path is the contract; the body field is accepted but must agree
	if req.VehicleID == "" {
		req.VehicleID = c.Param("vehicle_id")
	} else if req.VehicleID != c.Param("vehicle_id") {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "vehicle_id in body does not match path"))
		return
	}

	slots, err := h.paymentService.BatchUpsertPayments(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, slots))
}

// UpsertPayment creates or updates one payment slot
// @Summary      Upsert payment
// @Description  Creates the slot when absent, updates it in place when the identity key already exists
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        vehicle_id   path      string                     true  "Vehicle ID"
// @Param        slot_number  path      string                     true  "Slot number (e.g. Slot 1)"
// @Param        payload      body      service.PaymentSlotRequest true  "Payment Slot Payload"
// @Success      200          {object}  response.Response{data=service.PaymentSlotResponse}
// @Failure      400          {object}  response.Response
// @Router       /dealership/payments/{vehicle_id}/{slot_number}/ [put]
func (h *PaymentHandler) UpsertPayment(c *gin.Context) {
	var req service.PaymentSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	req.SlotNumber = c.Param("slot_number")

	slot, err := h.paymentService.UpsertPayment(c.Request.Context(), currentUserID(c), c.Param("vehicle_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if slot.Created {
		status = http.StatusCreated
	}
	c.JSON(status, response.Success(status, slot))
}

// DeletePayment removes one payment slot
// @Summary      Delete payment
// @Description  Deletes the slot identified by vehicle, slot number, and payment type
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        vehicle_id    path      string  true  "Vehicle ID"
// @Param        slot_number   path      string  true  "Slot number (e.g. Slot 1)"
// @Param        payment_type  query     string  true  "purchase or selling"
// @Success      200           {object}  response.Response
// @Failure      404           {object}  response.Response
// @Router       /dealership/payments/{vehicle_id}/{slot_number}/ [delete]
func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	err := h.paymentService.DeletePayment(
		c.Request.Context(),
		currentUserID(c),
		c.Param("vehicle_id"),
		c.Param("slot_number"),
		c.Query("payment_type"),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Payment deleted successfully"))
}
