package handler

import (
	"net/http"

	"dealerdesk/internal/middleware"
	"dealerdesk/internal/service"
	"dealerdesk/pkg/pagination"
	"dealerdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

type MaintenanceHandler struct {
	maintenanceService service.MaintenanceService
}

func NewMaintenanceHandler(maintenanceService service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceService: maintenanceService}
}

func (h *MaintenanceHandler) RegisterRoutes(router *gin.RouterGroup) {
	maintenance := router.Group("/dealership/maintenance")
	maintenance.Use(middleware.RequireAuth())
	{
		maintenance.GET("/:vehicle_id/", h.ListByVehicle)
		maintenance.POST("/:vehicle_id/", h.Create)
	}

	records := router.Group("/dealership/maintenance-records")
	records.Use(middleware.RequireAuth())
	{
		records.PUT("/:id/", h.Update)
		records.DELETE("/:id/", h.Delete)
	}
}

// ListByVehicle returns the maintenance history for a vehicle
// @Summary      List maintenance records
// @Description  Retrieves a paginated maintenance history for a vehicle
// @Tags         maintenance
// @Security     BearerAuth
// @Produce      json
// @Param        vehicle_id  path      string  true   "Vehicle ID"
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Number of items per page (default 20)"
// @Success      200         {object}  response.Response{data=object}
// @Failure      400         {object}  response.Response
// @Router       /dealership/maintenance/{vehicle_id}/ [get]
func (h *MaintenanceHandler) ListByVehicle(c *gin.Context) {
	params := pagination.Parse(c)

	records, total, err := h.maintenanceService.ListByVehicle(c.Request.Context(), c.Param("vehicle_id"), params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.Wrap("maintenance_records", records, total, params)))
}

// Create adds a maintenance record to a vehicle
// @Summary      Create maintenance record
// @Description  Records a workshop job and its cost against a vehicle
// @Tags         maintenance
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        vehicle_id  path      string                            true  "Vehicle ID"
// @Param        payload     body      service.CreateMaintenanceRequest  true  "Create Maintenance Payload"
// @Success      201         {object}  response.Response{data=service.MaintenanceResponse}
// @Failure      400         {object}  response.Response
// @Router       /dealership/maintenance/{vehicle_id}/ [post]
func (h *MaintenanceHandler) Create(c *gin.Context) {
	var req service.CreateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	record, err := h.maintenanceService.Create(c.Request.Context(), currentUserID(c), c.Param("vehicle_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, record))
}

// Update edits a maintenance record
// @Summary      Update maintenance record
// @Description  Partially updates a maintenance record by its ID
// @Tags         maintenance
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                            true  "Maintenance Record ID"
// @Param        payload  body      service.UpdateMaintenanceRequest  true  "Update Maintenance Payload"
// @Success      200      {object}  response.Response{data=service.MaintenanceResponse}
// @Failure      400      {object}  response.Response
// @Router       /dealership/maintenance-records/{id}/ [put]
func (h *MaintenanceHandler) Update(c *gin.Context) {
	var req service.UpdateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	record, err := h.maintenanceService.Update(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, record))
}

// Delete removes a maintenance record
// @Summary      Delete maintenance record
// @Description  Deletes a maintenance record by its ID
// @Tags         maintenance
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Maintenance Record ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /dealership/maintenance-records/{id}/ [delete]
func (h *MaintenanceHandler) Delete(c *gin.Context) {
	if err := h.maintenanceService.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Maintenance record deleted successfully"))
}
