package controllers

import (
	"net/http"

	apperrors "food-shop/errors"
	"food-shop/middleware"
	"food-shop/models"
	"food-shop/services"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orderService *services.OrderService
}

func NewOrderController(orderService *services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// Confirm converts the caller's cart into an order
func (oc *OrderController) Confirm(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	var req models.DeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivery data"})
		return
	}

	order, appErr := oc.orderService.Confirm(c, userID, req)
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Order successfully created",
		"order":   order,
	})
}

// GetOrders lists the caller's orders, optionally filtered by ?status=
func (oc *OrderController) GetOrders(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	orders, appErr := oc.orderService.ListOrders(c, userID, c.Query("status"))
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetHistory lists the caller's completed orders
func (oc *OrderController) GetHistory(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	orders, appErr := oc.orderService.ListHistory(c, userID)
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetCurrent lists the caller's orders still in progress
func (oc *OrderController) GetCurrent(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	orders, appErr := oc.orderService.ListCurrent(c, userID)
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrder returns one of the caller's orders
func (oc *OrderController) GetOrder(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	orderID, ok := pathID(c, "order_id")
	if !ok {
		return
	}

	order, appErr := oc.orderService.GetOrder(c, orderID, userID)
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, order)
}

// RepeatOrder copies a past order's lines back into the caller's cart
func (oc *OrderController) RepeatOrder(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	orderID, ok := pathID(c, "order_id")
	if !ok {
		return
	}

	if appErr := oc.orderService.RepeatOrder(c, orderID, userID); appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Products from the order have been added to the cart"})
}
