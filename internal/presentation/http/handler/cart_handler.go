package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/superpos/terminal-api/internal/application/service"
	"github.com/superpos/terminal-api/internal/presentation/http/dto/request"
	"github.com/superpos/terminal-api/internal/presentation/http/dto/response"
)

// CartHandler handles shopping cart HTTP requests
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

type cartView struct {
	Items    interface{} `json:"items"`
	Subtotal float64     `json:"subtotal"`
}

func (h *CartHandler) view() cartView {
	return cartView{
		Items:    h.cartService.Lines(),
		Subtotal: float64(h.cartService.SubtotalCents()) / 100,
	}
}

// Get handles retrieving the current cart
func (h *CartHandler) Get(c *gin.Context) {
	response.OK(c, "Cart retrieved successfully", h.view())
}

// AddItem handles adding a product to the cart
func (h *CartHandler) AddItem(c *gin.Context) {
	var req request.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if _, err := h.cartService.AddProduct(c.Request.Context(), req.ProductID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product added to cart", h.view())
}

// UpdateItem handles adjusting a cart line quantity
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req request.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if _, err := h.cartService.UpdateQuantity(c.Request.Context(), c.Param("product_id"), req.Delta); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cart updated", h.view())
}

// RemoveItem handles removing a cart line
func (h *CartHandler) RemoveItem(c *gin.Context) {
	if _, err := h.cartService.RemoveProduct(c.Request.Context(), c.Param("product_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product removed from cart", h.view())
}
