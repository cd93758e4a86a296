package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/recharge-travels/service-quotes/internal/application"
	"github.com/recharge-travels/service-quotes/internal/domain/pricing"
	"github.com/recharge-travels/service-quotes/internal/domain/quote"
	"github.com/recharge-travels/service-quotes/pkg/response"
)

// QuoteHandler handles HTTP requests for quote computation and the catalog.
type QuoteHandler struct {
	service *application.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(service *application.QuoteService) *QuoteHandler {
	return &QuoteHandler{service: service}
}

// RegisterRoutes registers the public quote routes. Quoting needs no auth so
// prospective customers can price trips before signing up.
func (h *QuoteHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/api/v1/quotes", h.ComputeQuote)
	r.GET("/api/v1/catalog", h.GetCatalog)
}

// ComputeQuote handles POST /api/v1/quotes.
func (h *QuoteHandler) ComputeQuote(c *gin.Context) {
	var sel quote.TripSelection
	if err := c.ShouldBindJSON(&sel); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ComputeQuote(c.Request.Context(), sel)
	if err != nil {
		pricingError(c, err)
		return
	}

	response.Success(c, result)
}

// GetCatalog handles GET /api/v1/catalog.
func (h *QuoteHandler) GetCatalog(c *gin.Context) {
	response.Success(c, h.service.GetCatalog())
}

// pricingError maps pricing sentinel errors to 400 before falling back to the
// shared domain error mapping.
func pricingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pricing.ErrUnknownDestination),
		errors.Is(err, pricing.ErrInvalidTripDuration),
		errors.Is(err, pricing.ErrUnknownLineItem),
		errors.Is(err, pricing.ErrUnsupportedCurrency):
		response.BadRequest(c, err.Error())
	default:
		response.Error(c, err)
	}
}
