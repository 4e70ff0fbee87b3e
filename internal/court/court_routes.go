package court

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pcmclub/pcm-backend/config"
	"github.com/pcmclub/pcm-backend/internal/middleware"
)

// RegisterCourtRoutes wires court endpoints under /courts.
func RegisterCourtRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	controller := NewCourtController(NewCourtRepository(db))

	courts := rg.Group("/courts")
	{
		courts.GET("", controller.List)

		admin := courts.Group("")
		admin.Use(middleware.AuthMiddleware(cfg.JWT.AccessTokenSecret, db), middleware.RequireAdmin())
		{
			admin.POST("", controller.Create)
			admin.PUT("/:id", controller.Update)
			admin.DELETE("/:id", controller.Deactivate)
		}
	}
}
