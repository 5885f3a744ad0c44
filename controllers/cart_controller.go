package controllers

import (
	"net/http"
	"strconv"

	apperrors "food-shop/errors"
	"food-shop/middleware"
	"food-shop/services"

	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartService *services.CartService
}

func NewCartController(cartService *services.CartService) *CartController {
	return &CartController{cartService: cartService}
}

type updateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// AddItem adds one unit of a (product, size) pair to the caller's cart
func (cc *CartController) AddItem(c *gin.Context) {
	userID, productID, sizeID, ok := cartLineParams(c)
	if !ok {
		return
	}

	if err := cc.cartService.AddItem(c, userID, productID, sizeID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product added to cart"})
}

// UpdateItem replaces the quantity of an existing cart line
func (cc *CartController) UpdateItem(c *gin.Context) {
	userID, productID, sizeID, ok := cartLineParams(c)
	if !ok {
		return
	}

	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.ErrInvalidQuantity.Wrap(err))
		return
	}

	if err := cc.cartService.UpdateItem(c, userID, productID, sizeID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product quantity updated"})
}

// GetCart returns the caller's full cart with totals
func (cc *CartController) GetCart(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	cart, appErr := cc.cartService.GetCart(c, userID)
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// GetItem returns a single cart line
func (cc *CartController) GetItem(c *gin.Context) {
	userID, productID, sizeID, ok := cartLineParams(c)
	if !ok {
		return
	}

	item, appErr := cc.cartService.GetItem(c, userID, productID, sizeID)
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, item)
}

// RemoveItem deletes a single cart line
func (cc *CartController) RemoveItem(c *gin.Context) {
	userID, productID, sizeID, ok := cartLineParams(c)
	if !ok {
		return
	}

	if err := cc.cartService.RemoveItem(c, userID, productID, sizeID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product removed from cart"})
}

// ClearCart deletes the caller's whole cart
func (cc *CartController) ClearCart(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	if appErr := cc.cartService.ClearCart(c, userID); appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart successfully removed"})
}

// cartLineParams pulls the caller identity and the (product, size) path
// params; it writes the error response itself when anything is off.
func cartLineParams(c *gin.Context) (userID, productID, sizeID uint, ok bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, apperrors.ErrUnauthorized)
		return 0, 0, 0, false
	}

	productID, ok = pathID(c, "product_id")
	if !ok {
		return 0, 0, 0, false
	}
	sizeID, ok = pathID(c, "size_id")
	if !ok {
		return 0, 0, 0, false
	}
	return userID, productID, sizeID, true
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func respondError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	c.JSON(appErr.Code, gin.H{"error": appErr.Message})
}
