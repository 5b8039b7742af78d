package httpserver

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"obak-storefront/internal/service/assistant"
	"obak-storefront/internal/service/catalog"
	cartsvc "obak-storefront/internal/service/cart"
	"obak-storefront/internal/service/dispatch"
)

// Deps carries the services the router wires handlers to.
type Deps struct {
	Catalog   *catalog.Service
	Cart      *cartsvc.Service
	Pipeline  *dispatch.Pipeline
	Assistant *assistant.Service

	// AdminToken guards the admin CRUD routes. Empty disables admin access.
	AdminToken string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Cart-Key")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, logger: logger}

	api := router.Group("/api")
	{
		api.GET("/products", h.listProducts)
		api.GET("/products/:id", h.getProduct)
		api.GET("/categories", h.listCategories)

		api.POST("/cart/key", h.newCartKey)
		api.GET("/cart", h.getCart)
		api.POST("/cart/items", h.addCartItem)
		api.PATCH("/cart/items", h.updateCartItem)
		api.DELETE("/cart/items/:productID", h.removeCartItem)
		api.DELETE("/cart", h.clearCart)
		api.POST("/cart/checkout", h.checkout)

		api.POST("/assistant/chat", h.assistantChat)
	}

	admin := api.Group("/admin", adminAuth(deps.AdminToken))
	{
		admin.POST("/products", h.createProduct)
		admin.PUT("/products/:id", h.updateProduct)
		admin.DELETE("/products/:id", h.deleteProduct)
		admin.POST("/categories", h.createCategory)
		admin.PUT("/categories/:id", h.updateCategory)
		admin.DELETE("/categories/:id", h.deleteCategory)
	}

	return router
}

type handlers struct {
	deps   Deps
	logger *log.Logger
}

func adminAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "admin access not configured"})
			return
		}
		if c.GetHeader("Authorization") != "Bearer "+token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
