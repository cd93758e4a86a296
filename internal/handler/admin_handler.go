package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/recharge-travels/service-quotes/internal/application"
	"github.com/recharge-travels/service-quotes/pkg/auth"
	"github.com/recharge-travels/service-quotes/pkg/middleware"
	"github.com/recharge-travels/service-quotes/pkg/response"
)

// AdminHandler handles admin HTTP requests for bookings and settlements.
type AdminHandler struct {
	bookings *application.BookingService
	drivers  *application.DriverService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(bookings *application.BookingService, drivers *application.DriverService) *AdminHandler {
	return &AdminHandler{bookings: bookings, drivers: drivers}
}

// RegisterRoutes registers admin routes.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	adminRole := middleware.RequireRole(auth.RoleAdmin)

	admin := r.Group("/api/v1/admin")
	admin.Use(authMW, adminRole)
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/stats/bookings", h.BookingStats)
		admin.POST("/bookings/:id/confirm", h.ConfirmBooking)
		admin.POST("/bookings/:id/assign-driver", h.AssignDriver)

		admin.GET("/settlements/pending", h.PendingSettlements)
		admin.POST("/drivers/:id/settlements", h.CreateSettlement)
		admin.POST("/settlements/:id/pay", h.PaySettlement)
		admin.POST("/settlements/:id/fail", h.FailSettlement)
	}
}

// ListBookings handles GET /api/v1/admin/bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	bookings, total, err := h.bookings.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, bookings, total, page, limit)
}

// BookingStats handles GET /api/v1/admin/stats/bookings.
func (h *AdminHandler) BookingStats(c *gin.Context) {
	stats, err := h.bookings.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// ConfirmBooking handles POST /api/v1/admin/bookings/:id/confirm. Manual
// confirmation for payments arranged outside the payment pipeline.
func (h *AdminHandler) ConfirmBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.bookings.ConfirmBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// AssignDriver handles POST /api/v1/admin/bookings/:id/assign-driver.
func (h *AdminHandler) AssignDriver(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	var body struct {
		DriverID uuid.UUID `json:"driver_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.bookings.AssignDriver(c.Request.Context(), bookingID, body.DriverID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// PendingSettlements handles GET /api/v1/admin/settlements/pending.
func (h *AdminHandler) PendingSettlements(c *gin.Context) {
	settlements, err := h.drivers.GetPendingSettlements(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, settlements)
}

// CreateSettlement handles POST /api/v1/admin/drivers/:id/settlements.
func (h *AdminHandler) CreateSettlement(c *gin.Context) {
	driverID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid driver ID")
		return
	}

	var req application.CreateSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	settlement, err := h.drivers.CreateSettlement(c.Request.Context(), driverID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, settlement)
}

// PaySettlement handles POST /api/v1/admin/settlements/:id/pay.
func (h *AdminHandler) PaySettlement(c *gin.Context) {
	settlementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid settlement ID")
		return
	}

	var body struct {
		PaymentMethod string `json:"payment_method" binding:"required"`
		BankReference string `json:"bank_reference"`
		Notes         string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	settlement, err := h.drivers.PaySettlement(c.Request.Context(), settlementID, body.PaymentMethod, body.BankReference, body.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, settlement)
}

// FailSettlement handles POST /api/v1/admin/settlements/:id/fail.
func (h *AdminHandler) FailSettlement(c *gin.Context) {
	settlementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid settlement ID")
		return
	}

	var body struct {
		Notes string `json:"notes"`
	}
	_ = c.ShouldBindJSON(&body)

	settlement, err := h.drivers.FailSettlement(c.Request.Context(), settlementID, body.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, settlement)
}
