package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"schedulingengine/handlers"
	"schedulingengine/middleware"
	"schedulingengine/utils"
)

// RegisterHealthRoute registers a health-check endpoint. When the process
// started a dependency health monitor (a Mongo connection configured), the
// latest snapshot is reported alongside the liveness status.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "dependencies": utils.GetHealthStatus()})
	})
}

// RegisterSchedulingRoutes sets up the availability, reservation, and
// blocking endpoints for the scheduling engine.
func RegisterSchedulingRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.POST("/disponibilidad", handlers.BuscarDisponibilidad)
		api.POST("/reservas", handlers.CrearReserva)
		api.POST("/bloqueos", handlers.CrearBloqueo)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterSchedulingRoutes(r)
}
