package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/juanrobles05/Urban-Loom/controllers/order"
	productControllers "github.com/juanrobles05/Urban-Loom/controllers/product"
	userControllers "github.com/juanrobles05/Urban-Loom/controllers/user"
	"github.com/juanrobles05/Urban-Loom/middleware"
	"gorm.io/gorm"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires API-Key middleware.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		// ──────────────── Catalog ────────────────
		adminGroup.POST("/products", productControllers.CreateProduct(db))       // POST /admin/products
		adminGroup.PUT("/products/:id", productControllers.UpdateProduct(db))    // PUT /admin/products/:id
		adminGroup.DELETE("/products/:id", productControllers.DeleteProduct(db)) // DELETE /admin/products/:id
		adminGroup.POST("/categories", productControllers.CreateCategory(db))    // POST /admin/categories

		// ──────────────── Orders ────────────────
		adminGroup.GET("/orders", orderControllers.GetAllOrdersHandler(db))                  // GET /admin/orders
		adminGroup.PUT("/orders/:orderID/status", orderControllers.UpdateOrderStatusHandler(db)) // PUT /admin/orders/:orderID/status
		adminGroup.GET("/orders/export", orderControllers.ExportOrdersToExcel(db))           // GET /admin/orders/export

		// ──────────────── Accounts ────────────────
		adminGroup.POST("/users/:userID/balance", userControllers.AdjustBalance(db)) // POST /admin/users/:userID/balance
	}
}
