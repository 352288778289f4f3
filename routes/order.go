package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/juanrobles05/Urban-Loom/controllers/order"
	"github.com/juanrobles05/Urban-Loom/middleware"
	"gorm.io/gorm"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB) {
	orders := r.Group("/orders")

	// websocket endpoint for real-time order updates
	orders.GET("/ws", orderControllers.OrderWebSocketHandler)

	orders.Use(middleware.ValidateToken(db))
	{
		// Available payment methods with display names
		orders.GET("/payment-methods", orderControllers.PaymentMethodsHandler())

		// Assemble the cart into an order (checkout payment step)
		orders.POST("/assemble", orderControllers.AssembleOrderHandler(db))

		// Order history for the requesting user
		orders.GET("/user", orderControllers.GetUserOrdersHandler(db))

		// Single order by id or reference
		orders.GET("/:orderID", orderControllers.GetOrderHandler(db))

		// Download the generated check document
		orders.GET("/:orderID/check", orderControllers.DownloadCheckHandler(db))

		// Cancel an order, restoring stock
		orders.POST("/:orderID/cancel", orderControllers.CancelOrderHandler(db))
	}
}
