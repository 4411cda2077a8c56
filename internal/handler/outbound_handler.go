package handler

import (
	"net/http"

	"dealerdesk/internal/middleware"
	"dealerdesk/internal/service"
	"dealerdesk/pkg/pagination"
	"dealerdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

type OutboundHandler struct {
	outboundService service.OutboundService
	costService     service.CostService
}

func NewOutboundHandler(outboundService service.OutboundService, costService service.CostService) *OutboundHandler {
	return &OutboundHandler{
		outboundService: outboundService,
		costService:     costService,
	}
}

func (h *OutboundHandler) RegisterRoutes(router *gin.RouterGroup) {
	dealership := router.Group("/dealership")
	dealership.Use(middleware.RequireAuth())
	{
		dealership.GET("/vehicle-cost/:vehicle_id/", h.GetVehicleCost)
		dealership.GET("/outbound-vehicle/:vehicle_id/", h.GetOutbound)
		dealership.POST("/outbound-vehicle/:vehicle_id/", h.CreateOutbound)
		dealership.PATCH("/outbound/update/:vehicle_id/", h.UpdateOutbound)
		dealership.GET("/outbound/", h.ListOutbound)
	}
}

// GetVehicleCost returns the derived acquisition cost for a vehicle
// @Summary      Get vehicle cost
// @Description  Returns purchase price, summed maintenance cost, and total cost for a vehicle
// @Tags         outbound
// @Security     BearerAuth
// @Produce      json
// @Param        vehicle_id  path      string  true  "Vehicle ID"
// @Success      200         {object}  response.Response{data=service.CostDetailsResponse}
// @Failure      404         {object}  response.Response
// @Router       /dealership/vehicle-cost/{vehicle_id}/ [get]
func (h *OutboundHandler) GetVehicleCost(c *gin.Context) {
	cost, err := h.costService.GetVehicleCost(c.Request.Context(), c.Param("vehicle_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, cost))
}

// CreateOutbound records a vehicle sale and marks the vehicle as sold
// @Summary      Create outbound record
// @Description  Creates the sale record for a vehicle, validating buyer and pricing fields
// @Tags         outbound
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        vehicle_id  path      string                         true  "Vehicle ID"
// @Param        payload     body      service.CreateOutboundRequest  true  "Create Outbound Payload"
// @Success      201         {object}  response.Response{data=service.OutboundResponse}
// @Failure      400         {object}  response.Response
// @Failure      409         {object}  response.Response
// @Router       /dealership/outbound-vehicle/{vehicle_id}/ [post]
func (h *OutboundHandler) CreateOutbound(c *gin.Context) {
	var req service.CreateOutboundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	record, err := h.outboundService.CreateOutbound(c.Request.Context(), currentUserID(c), c.Param("vehicle_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, record))
}

// UpdateOutbound applies partial edits to an existing sale record
// @Summary      Update outbound record
// @Description  Partially updates the sale record identified by vehicle ID
// @Tags         outbound
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        vehicle_id  path      string                         true  "Vehicle ID"
// @Param        payload     body      service.UpdateOutboundRequest  true  "Update Outbound Payload"
// @Success      200         {object}  response.Response{data=service.OutboundResponse}
// @Failure      400         {object}  response.Response
// @Failure      404         {object}  response.Response
// @Router       /dealership/outbound/update/{vehicle_id}/ [patch]
func (h *OutboundHandler) UpdateOutbound(c *gin.Context) {
	var req service.UpdateOutboundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	record, err := h.outboundService.UpdateOutbound(c.Request.Context(), currentUserID(c), c.Param("vehicle_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, record))
}

// GetOutbound fetches the sale record for a vehicle
// @Summary      Get outbound record
// @Description  Returns the sale record for a vehicle; 404 when the vehicle has not been sold
// @Tags         outbound
// @Security     BearerAuth
// @Produce      json
// @Param        vehicle_id  path      string  true  "Vehicle ID"
// @Success      200         {object}  response.Response{data=service.OutboundResponse}
// @Failure      404         {object}  response.Response
// @Router       /dealership/outbound-vehicle/{vehicle_id}/ [get]
func (h *OutboundHandler) GetOutbound(c *gin.Context) {
	record, err := h.outboundService.GetOutbound(c.Request.Context(), c.Param("vehicle_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, record))
}

// ListOutbound returns sold vehicles, optionally filtered by delivery status
// @Summary      List outbound records
// @Description  Retrieves a paginated list of sale records, optionally filtered by delivery status
// @Tags         outbound
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by delivery status"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /dealership/outbound/ [get]
func (h *OutboundHandler) ListOutbound(c *gin.Context) {
	params := pagination.Parse(c)

	records, total, err := h.outboundService.ListOutbound(c.Request.Context(), c.Query("status"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.Wrap("outbound_records", records, total, params)))
}
