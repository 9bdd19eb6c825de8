package httpserver

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery(), cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")

	customers := api.Group("/customers")
	customers.GET("", listCustomersHandler(deps.Customers))
	customers.POST("/add-customer", createCustomerHandler(deps.Customers))
	customers.GET("/:id", getCustomerHandler(deps.Customers))
	customers.PUT("/:id", updateCustomerHandler(deps.Customers))
	customers.DELETE("/:id", deleteCustomerHandler(deps.Customers))

	address := api.Group("/address")
	address.GET("/counts", addressCountsHandler(deps.Addresses))
	address.GET("/search-address", searchAddressHandler(deps.Addresses))
	address.POST("/:customerId/addresses", addAddressHandler(deps.Addresses))
	address.PATCH("/:customerId/addresses/:addressId", updateAddressHandler(deps.Addresses))
	address.DELETE("/:customerId/addresses/:addressId", removeAddressHandler(deps.Addresses))

	return router
}
