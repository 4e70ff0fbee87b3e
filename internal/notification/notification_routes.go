package notification

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pcmclub/pcm-backend/config"
	"github.com/pcmclub/pcm-backend/internal/middleware"
)

// RegisterNotificationRoutes wires notification endpoints under /notifications.
func RegisterNotificationRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	controller := NewNotificationController(NewNotificationRepository(db))

	notifications := rg.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware(cfg.JWT.AccessTokenSecret, db))
	{
		notifications.GET("", controller.List)
		notifications.PUT("/:id/read", controller.MarkRead)
	}
}
