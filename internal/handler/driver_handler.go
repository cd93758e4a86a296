package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/recharge-travels/service-quotes/internal/application"
	driverDomain "github.com/recharge-travels/service-quotes/internal/domain/driver"
	"github.com/recharge-travels/service-quotes/pkg/auth"
	"github.com/recharge-travels/service-quotes/pkg/middleware"
	"github.com/recharge-travels/service-quotes/pkg/response"
)

const dateLayout = "2006-01-02"

// DriverHandler handles HTTP requests for driver calendars and settlements.
type DriverHandler struct {
	service *application.DriverService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(service *application.DriverService) *DriverHandler {
	return &DriverHandler{service: service}
}

// RegisterRoutes registers all driver routes on the given router group.
func (h *DriverHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	driverOnly := middleware.RequireRole(auth.RoleDriver)

	drivers := r.Group("/api/v1/drivers")
	drivers.Use(authMW)
	{
		drivers.GET("/:id/availability", h.GetCalendar)
		drivers.POST("/:id/availability/check", h.CheckAvailability)

		me := drivers.Group("/me", driverOnly)
		{
			me.GET("/blocks", h.ListBlockedPeriods)
			me.POST("/blocks", h.BlockPeriod)
			me.DELETE("/blocks/:blockId", h.UnblockPeriod)
			me.GET("/settings", h.GetSettings)
			me.PUT("/settings", h.UpdateSettings)
			me.GET("/settlements", h.ListSettlements)
		}
	}
}

// GetCalendar handles GET /api/v1/drivers/:id/availability?start=&end=.
func (h *DriverHandler) GetCalendar(c *gin.Context) {
	driverID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid driver ID")
		return
	}

	start, err := time.Parse(dateLayout, c.Query("start"))
	if err != nil {
		response.BadRequest(c, "start must be a date in YYYY-MM-DD format")
		return
	}
	end, err := time.Parse(dateLayout, c.Query("end"))
	if err != nil {
		response.BadRequest(c, "end must be a date in YYYY-MM-DD format")
		return
	}

	calendar, err := h.service.GetCalendar(c.Request.Context(), driverID, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, calendar)
}

// CheckAvailability handles POST /api/v1/drivers/:id/availability/check.
func (h *DriverHandler) CheckAvailability(c *gin.Context) {
	driverID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid driver ID")
		return
	}

	var body struct {
		Date  string                  `json:"date" binding:"required"`
		Slots []driverDomain.TimeSlot `json:"slots" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	date, err := time.Parse(dateLayout, body.Date)
	if err != nil {
		response.BadRequest(c, "date must be in YYYY-MM-DD format")
		return
	}

	check, err := h.service.CheckAvailability(c.Request.Context(), driverID, date, body.Slots)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, check)
}

// ListBlockedPeriods handles GET /api/v1/drivers/me/blocks.
func (h *DriverHandler) ListBlockedPeriods(c *gin.Context) {
	driverID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	periods, err := h.service.GetBlockedPeriods(c.Request.Context(), driverID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, periods)
}

// BlockPeriod handles POST /api/v1/drivers/me/blocks.
func (h *DriverHandler) BlockPeriod(c *gin.Context) {
	driverID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.BlockPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	period, err := h.service.BlockPeriod(c.Request.Context(), driverID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, period)
}

// UnblockPeriod handles DELETE /api/v1/drivers/me/blocks/:blockId.
func (h *DriverHandler) UnblockPeriod(c *gin.Context) {
	driverID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	blockID, err := uuid.Parse(c.Param("blockId"))
	if err != nil {
		response.BadRequest(c, "invalid block ID")
		return
	}

	if err := h.service.UnblockPeriod(c.Request.Context(), driverID, blockID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"unblocked": true})
}

// GetSettings handles GET /api/v1/drivers/me/settings.
func (h *DriverHandler) GetSettings(c *gin.Context) {
	driverID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	settings, err := h.service.GetSettings(c.Request.Context(), driverID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, settings)
}

// UpdateSettings handles PUT /api/v1/drivers/me/settings.
func (h *DriverHandler) UpdateSettings(c *gin.Context) {
	driverID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var settings driverDomain.AvailabilitySettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	settings.DriverID = driverID

	updated, err := h.service.UpdateSettings(c.Request.Context(), settings)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, updated)
}

// ListSettlements handles GET /api/v1/drivers/me/settlements?limit=.
func (h *DriverHandler) ListSettlements(c *gin.Context) {
	driverID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))

	settlements, err := h.service.GetDriverSettlements(c.Request.Context(), driverID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, settlements)
}
