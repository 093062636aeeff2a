package request

// AddCartItemRequest adds one unit of a product to the cart.
type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// UpdateCartItemRequest adjusts a cart line quantity by a signed delta.
type UpdateCartItemRequest struct {
	Delta int `json:"delta" binding:"required"`
}
