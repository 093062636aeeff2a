package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/superpos/terminal-api/internal/application/service"
	"github.com/superpos/terminal-api/internal/presentation/http/dto/response"
)

// CatalogHandler handles product catalog HTTP requests
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// List handles listing products, optionally filtered by a search query.
func (h *CatalogHandler) List(c *gin.Context) {
	products, err := h.catalogService.Search(c.Request.Context(), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Products retrieved successfully", products)
}

// Get handles retrieving a single product
func (h *CatalogHandler) Get(c *gin.Context) {
	product, err := h.catalogService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product retrieved successfully", product)
}

// SmartSearch handles AI-assisted natural-language product search
func (h *CatalogHandler) SmartSearch(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.BadRequest(c, "Query parameter 'q' is required")
		return
	}
	products, err := h.catalogService.SmartSearch(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Products retrieved successfully", products)
}

// GetLowStock handles listing products at or below a stock threshold
func (h *CatalogHandler) GetLowStock(c *gin.Context) {
	threshold := 5
	if t := c.Query("threshold"); t != "" {
		parsed, err := strconv.Atoi(t)
		if err != nil || parsed < 0 {
			response.BadRequest(c, "Invalid threshold")
			return
		}
		threshold = parsed
	}
	products, err := h.catalogService.LowStock(c.Request.Context(), threshold)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Low stock products retrieved successfully", products)
}
