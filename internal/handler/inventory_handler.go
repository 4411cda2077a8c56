package handler

import (
	"net/http"

	"dealerdesk/internal/middleware"
	"dealerdesk/internal/service"
	"dealerdesk/pkg/pagination"
	"dealerdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryService service.InventoryService
}

func NewInventoryHandler(inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	dealership := router.Group("/dealership")
	{
		dealership.GET("/live-inventory/", middleware.RequireAuth(), h.ListLiveInventory)

		vehicles := dealership.Group("/vehicles")
		{
			vehicles.GET("/:id/", middleware.RequireAuth(), h.GetVehicle)
			vehicles.POST("/", middleware.RequireRole("admin", "manager"), h.CreateVehicle)
			vehicles.PUT("/:id/", middleware.RequireRole("admin", "manager"), h.UpdateVehicle)
			vehicles.DELETE("/:id/", middleware.RequireRole("admin"), h.DeleteVehicle)
		}
	}
}

// ListLiveInventory returns vehicles still in stock
// @Summary      List live inventory
// @Description  Retrieves a paginated list of vehicles available for sale
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /dealership/live-inventory/ [get]
func (h *InventoryHandler) ListLiveInventory(c *gin.Context) {
	params := pagination.Parse(c)

	vehicles, total, err := h.inventoryService.ListLiveInventory(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.Wrap("vehicles", vehicles, total, params)))
}

// GetVehicle fetches one vehicle with its images
// @Summary      Get vehicle
// @Description  Fetch a single vehicle's detail by ID
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Vehicle ID"
// @Success      200  {object}  response.Response{data=service.VehicleResponse}
// @Failure      404  {object}  response.Response
// @Router       /dealership/vehicles/{id}/ [get]
func (h *InventoryHandler) GetVehicle(c *gin.Context) {
	vehicle, err := h.inventoryService.GetVehicle(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, vehicle))
}

// CreateVehicle adds a vehicle to inventory
// @Summary      Create vehicle
// @Description  Creates a new vehicle in stock with optional image URLs
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateVehicleRequest  true  "Create Vehicle Payload"
// @Success      201      {object}  response.Response{data=service.VehicleResponse}
// @Failure      400      {object}  response.Response
// @Router       /dealership/vehicles/ [post]
func (h *InventoryHandler) CreateVehicle(c *gin.Context) {
	var req service.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	vehicle, err := h.inventoryService.CreateVehicle(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, vehicle))
}

// UpdateVehicle applies partial edits to a vehicle
// @Summary      Update vehicle
// @Description  Partially updates a vehicle's details
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Vehicle ID"
// @Param        payload  body      service.UpdateVehicleRequest  true  "Update Vehicle Payload"
// @Success      200      {object}  response.Response{data=service.VehicleResponse}
// @Failure      400      {object}  response.Response
// @Router       /dealership/vehicles/{id}/ [put]
func (h *InventoryHandler) UpdateVehicle(c *gin.Context) {
	var req service.UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	vehicle, err := h.inventoryService.UpdateVehicle(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, vehicle))
}

// DeleteVehicle removes a vehicle still in stock
// @Summary      Delete vehicle
// @Description  Soft deletes an in-stock vehicle; sold vehicles keep their history
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Vehicle ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /dealership/vehicles/{id}/ [delete]
func (h *InventoryHandler) DeleteVehicle(c *gin.Context) {
	if err := h.inventoryService.DeleteVehicle(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Vehicle deleted successfully"))
}
