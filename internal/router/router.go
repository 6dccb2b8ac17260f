package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-finder/config"
	"github.com/pageza/recipe-finder/internal/api"
	"github.com/pageza/recipe-finder/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(cfg *config.Config, recipeHandler *api.RecipeHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(cfg.Environment.GinMode())

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.ErrorHandler(logger),
		middleware.CORS(cfg.CORSOrigins),
	)

	api.RegisterRoutes(router, recipeHandler)

	return router
}
