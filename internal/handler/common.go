package handler

import (
	"errors"
	"net/http"

	"dealerdesk/internal/service"
	"dealerdesk/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// respondError maps service errors onto the response contract: field-level
// validation failures carry their per-field messages, missing records are 404
// (a benign condition for dependent resources), and the already-sold guard is
// a conflict.
func respondError(c *gin.Context, err error) {
	var fields service.FieldErrors
	switch {
	case errors.As(err, &fields):
		c.JSON(http.StatusBadRequest, response.ValidationError(http.StatusBadRequest, fields.Error(), fields))
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	case errors.Is(err, service.ErrVehicleAlreadySold):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	default:
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	}
}

// currentUserID pulls the authenticated user id set by the auth middleware
func currentUserID(c *gin.Context) string {
	userID, _ := c.Get("userID")
	userIDStr, _ := userID.(string)
	return userIDStr
}
