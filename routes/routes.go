package routes

import (
	"food-shop/controllers"
	apperrors "food-shop/errors"
	"food-shop/middleware"
	"food-shop/services"

	"github.com/gin-gonic/gin"
)

// Register wires all HTTP routes. Cart and order routes require an
// authenticated identity; catalog reads and auth endpoints do not.
func Register(
	r *gin.Engine,
	tokens services.TokenServiceAPI,
	authController *controllers.AuthController,
	productController *controllers.ProductController,
	cartController *controllers.CartController,
	orderController *controllers.OrderController,
) {
	r.NoRoute(func(c *gin.Context) {
		c.JSON(apperrors.ErrNotFound.Code, gin.H{"error": apperrors.ErrNotFound.Message})
	})

	users := r.Group("/users")
	{
		users.POST("/register/", authController.Register)
		users.POST("/login/", authController.Login)
		users.POST("/token/refresh/", authController.Refresh)
		users.POST("/logout/", middleware.AuthMiddleware(tokens), authController.Logout)
	}

	r.GET("/categories/", productController.GetCategories)
	r.GET("/products/", productController.GetProducts)
	r.GET("/products/:product_id/", productController.GetProduct)

	carts := r.Group("/carts")
	carts.Use(middleware.AuthMiddleware(tokens))
	{
		carts.POST("/add/:product_id/:size_id/", cartController.AddItem)
		carts.PATCH("/update/:product_id/:size_id/", cartController.UpdateItem)
		carts.GET("/", cartController.GetCart)
		carts.GET("/:product_id/:size_id/", cartController.GetItem)
		carts.DELETE("/:product_id/:size_id/", cartController.RemoveItem)
		carts.DELETE("/", cartController.ClearCart)
	}

	orders := r.Group("/orders")
	orders.Use(middleware.AuthMiddleware(tokens))
	{
		orders.POST("/confirmation/", orderController.Confirm)
		orders.GET("/", orderController.GetOrders)
		orders.GET("/history/", orderController.GetHistory)
		orders.GET("/current/", orderController.GetCurrent)
		orders.GET("/:order_id/", orderController.GetOrder)
		orders.POST("/repeat/:order_id/", orderController.RepeatOrder)
	}
}
