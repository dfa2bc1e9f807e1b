package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/retailrewards/rewards-backend/internal/config"
	"github.com/retailrewards/rewards-backend/internal/handlers"
	"github.com/retailrewards/rewards-backend/internal/middleware"
	"github.com/sirupsen/logrus"
)

// Handlers groups the HTTP handlers mounted by SetupRouter
type Handlers struct {
	Health      *handlers.HealthHandler
	Rewards     *handlers.RewardsHandler
	Transaction *handlers.TransactionHandler
	Customer    *handlers.CustomerHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.ServerConfig, h Handlers, logger *logrus.Logger) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	handlers.RegisterJSONFieldNames()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	api := router.Group("/api")
	{
		api.GET("/health", h.Health.Health)

		rewards := api.Group("/rewards")
		{
			rewards.GET("/customer/:customerId", h.Rewards.GetCustomerRewards)
			rewards.GET("/customers", h.Rewards.GetAllCustomerRewards)
			rewards.GET("/customers/export", h.Rewards.ExportCustomerRewards)
		}

		api.POST("/transactions", h.Transaction.CreateTransaction)

		customers := api.Group("/customers")
		{
			customers.POST("", h.Customer.CreateCustomer)
			customers.GET("", h.Customer.ListCustomers)
			customers.GET("/:id", h.Customer.GetCustomer)
		}
	}

	return router
}
