package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/hamdiks/cardstore/internal/config"     // middleware configuration loaders
	"github.com/hamdiks/cardstore/internal/handler"    // import the handlers that implement business logic
	"github.com/hamdiks/cardstore/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check, used
// by load balancers and monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints and the routes that
// need a valid token but no admin rights.  Signup and login are
// unauthenticated and rate-limited; password change requires a token;
// verify-secret requires an admin token and hands back the elevated one.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, rdb *redis.Client) {
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	g := e.Group("/api/auth", limiter)
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)

	// Authenticated routes live under /api with the JWT middleware. The
	// elevated claim is not needed here: any valid token may change its
	// own password, and verify-secret is exactly the step that produces
	// the elevated token, so it only demands the plain admin claim.
	auth := e.Group("/api")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.PUT("/users/password", a.ChangePassword)
	auth.POST("/admin/verify-secret", a.VerifySecret, middleware.RequireAdmin())
}

// RegisterCatalog registers the unauthenticated browse endpoints.  These
// routes apply the Redis response cache so listing pages do not hit MySQL
// on every render; without Redis the cache degrades to a pass-through.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, rdb *redis.Client) {
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e.GET("/api/products", h.ListProducts, cache)
	e.GET("/api/products/:id", h.GetProduct, cache)
	e.GET("/api/products/name/:name", h.GetProductByName, cache)
	e.GET("/api/product_options/:productId", h.ListOptions, cache)
}

// RegisterAdmin registers the back-office catalog writes and statistics.
// Every route requires a valid JWT carrying both the is_admin and the
// secret_verified claims; the latter only exists in tokens issued by the
// verify-secret endpoint, so the second factor is enforced server-side on
// each request.
func RegisterAdmin(e *echo.Echo, h *handler.AdminProductHandler, jwtSecret string) {
	g := e.Group("/api")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireElevated())

	g.POST("/products", h.Create)
	g.PUT("/products/:id", h.Update)
	g.DELETE("/products/:id", h.Delete)
	g.PUT("/product_options/:id", h.UpdateOption)
	g.DELETE("/product_options/:id", h.DeleteOption)
	g.GET("/products/statistics", h.Statistics)
}

// RegisterOrders registers checkout and order visibility.  Placing an
// order is anonymous (the cart belongs to a guest until checkout) but
// rate-limited; reading orders requires a token, and the all-orders view
// additionally requires the elevated admin claims.
func RegisterOrders(e *echo.Echo, h *handler.OrderHandler, jwtSecret string, rdb *redis.Client) {
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e.POST("/api/orders", h.PlaceOrder, limiter)

	auth := e.Group("/api/orders")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/all", h.ListAll, middleware.RequireElevated())
	auth.GET("/user/:email", h.ListUserOrders)
}

// RegisterCart registers the guest cart endpoints.  They are keyed by the
// X-Guest-ID header rather than a token, so no auth middleware applies.
// The handler is only registered when Redis is available; without it the
// storefront falls back to its purely client-held cart.
func RegisterCart(e *echo.Echo, h *handler.CartHandler) {
	e.GET("/api/cart", h.Get)
	e.POST("/api/cart/items", h.AddItem)
	e.PUT("/api/cart/items/:id", h.SetQuantity)
	e.DELETE("/api/cart/items/:id", h.RemoveItem)
	e.DELETE("/api/cart", h.Clear)
}
