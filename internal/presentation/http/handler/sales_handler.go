package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/superpos/terminal-api/internal/application/service"
	"github.com/superpos/terminal-api/internal/presentation/http/dto/response"
	"github.com/superpos/terminal-api/pkg/pagination"
)

// SalesHandler handles sales history and report HTTP requests
type SalesHandler struct {
	salesService *service.SalesService
}

// NewSalesHandler creates a new sales handler
func NewSalesHandler(salesService *service.SalesService) *SalesHandler {
	return &SalesHandler{salesService: salesService}
}

// List handles listing the sales history, newest first
func (h *SalesHandler) List(c *gin.Context) {
	var params pagination.PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.salesService.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Sales retrieved successfully", result)
}

// Get handles retrieving a single sale
func (h *SalesHandler) Get(c *gin.Context) {
	sale, err := h.salesService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sale retrieved successfully", sale)
}

// Summary handles the aggregate sales report
func (h *SalesHandler) Summary(c *gin.Context) {
	summary, err := h.salesService.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sales summary retrieved successfully", summary)
}
