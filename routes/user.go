package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/juanrobles05/Urban-Loom/controllers/cart"
	checkoutControllers "github.com/juanrobles05/Urban-Loom/controllers/checkout"
	productControllers "github.com/juanrobles05/Urban-Loom/controllers/product"
	userControllers "github.com/juanrobles05/Urban-Loom/controllers/user"
	"github.com/juanrobles05/Urban-Loom/middleware"
	"gorm.io/gorm"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(db))
	{
		// ──────────────── User Profile ────────────────
		userGroup.GET("/", userControllers.GetUser(db))    // GET /user/
		userGroup.PUT("/", userControllers.UpdateUser(db)) // PUT /user/

		// ──────────────── Shipping Addresses ────────────────
		userGroup.GET("/addresses", userControllers.GetAddresses(db))          // GET /user/addresses
		userGroup.POST("/addresses", userControllers.CreateAddress(db))        // POST /user/addresses
		userGroup.DELETE("/addresses/:id", userControllers.DeleteAddress(db))  // DELETE /user/addresses/:id

		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetCart(db))               // GET /user/cart
			cartGroup.POST("/", cartControllers.AddLine(db))              // POST /user/cart
			cartGroup.PUT("/:item_id", cartControllers.UpdateLine(db))    // PUT /user/cart/:item_id
			cartGroup.DELETE("/:item_id", cartControllers.RemoveLine(db)) // DELETE /user/cart/:item_id
			cartGroup.DELETE("/", cartControllers.ClearCart(db))          // DELETE /user/cart
		}

		// ──────────────── Checkout Session ────────────────
		userGroup.GET("/checkout", checkoutControllers.GetCheckout(db))               // GET /user/checkout
		userGroup.POST("/checkout/address", checkoutControllers.SetShippingAddress(db)) // POST /user/checkout/address

		// ──────────────── Browse Products ────────────────
		userGroup.GET("/products", productControllers.GetProducts(db))        // GET /user/products
		userGroup.GET("/products/:id", productControllers.GetProductByID(db)) // GET /user/products/:id
		userGroup.GET("/categories", productControllers.GetCategories(db))    // GET /user/categories
	}
}
