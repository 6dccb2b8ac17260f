package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-finder/internal/types"
	"github.com/pageza/recipe-finder/internal/version"
)

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, types.HealthResponse{
		Status: "healthy",
		Build:  version.Get(),
	})
}

// RegisterRoutes registers all routes on router
func RegisterRoutes(router *gin.Engine, recipeHandler *RecipeHandler) {
	router.GET("/health", HealthCheck)
	router.GET("/api/health", HealthCheck)

	router.SetHTMLTemplate(Templates())
	recipeHandler.RegisterRoutes(router)
}
