package routes

import (
	"refurb/admin"
	"refurb/auth"
	"refurb/cart"
	"refurb/live"
	"refurb/middleware"
	"refurb/orders"
	"refurb/products"
	"refurb/ratelim"
	"refurb/tradein"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.Logout))
	router.POST("/api/auth/token/refresh", rl.Limit(middleware.Authenticate(auth.RefreshToken)))
}

func AddProductRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/products", rl.Limit(products.GetProducts))
	router.GET("/api/products/:productid", rl.Limit(products.GetProduct))
	router.GET("/api/categories", rl.Limit(products.GetCategories))
}

func AddCartRoutes(router *httprouter.Router, h *cart.Handlers) {
	router.GET("/api/cart", h.GetCart)
	router.POST("/api/cart/items", h.AddItem)
	router.PUT("/api/cart/items/:productid", h.UpdateItem)
	router.DELETE("/api/cart/items/:productid", h.RemoveItem)
	router.DELETE("/api/cart", h.ClearCart)
	router.POST("/api/cart/toggle", h.ToggleCart)
}

func AddOrderRoutes(router *httprouter.Router, h *orders.Handlers, rl *ratelim.RateLimiter) {
	router.POST("/api/orders", rl.Limit(middleware.OptionalAuth(h.Checkout)))
	router.GET("/api/orders/track/:ordernum", rl.Limit(orders.TrackOrder))
	router.GET("/api/orders/track/:ordernum/receipt", rl.Limit(orders.PrintReceipt))
	router.GET("/api/orders/mine", middleware.Authenticate(orders.MyOrders))
}

func AddTradeInRoutes(router *httprouter.Router, h *tradein.Handlers, rl *ratelim.RateLimiter) {
	router.POST("/api/tradein", rl.Limit(middleware.OptionalAuth(h.Submit)))
	router.GET("/api/tradein/mine", middleware.Authenticate(tradein.MySubmissions))
	router.GET("/api/tradein/status/:submissionid", rl.Limit(tradein.GetStatus))
	router.POST("/api/tradein/status/:submissionid/respond", rl.Limit(h.Respond))
}

func AddAdminRoutes(router *httprouter.Router, h *admin.Handlers, hub *live.Hub) {
	router.POST("/api/admin/products", middleware.AdminOnly(admin.CreateProduct))
	router.PUT("/api/admin/products/:productid", middleware.AdminOnly(admin.UpdateProduct))
	router.DELETE("/api/admin/products/:productid", middleware.AdminOnly(admin.DeleteProduct))
	router.POST("/api/admin/products/:productid/image", middleware.AdminOnly(admin.UploadProductImage))

	router.GET("/api/admin/orders", middleware.AdminOnly(admin.ListOrders))
	router.PUT("/api/admin/orders/:ordernum/status", middleware.AdminOnly(h.UpdateOrderStatus))

	router.GET("/api/admin/tradein", middleware.AdminOnly(admin.ListTradeIns))
	router.PUT("/api/admin/tradein/:submissionid", middleware.AdminOnly(h.ReviewTradeIn))

	router.GET("/api/admin/events", live.WebSocketHandler(hub))
}
