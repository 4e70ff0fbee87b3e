package member

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pcmclub/pcm-backend/config"
	"github.com/pcmclub/pcm-backend/internal/middleware"
)

// RegisterMemberRoutes wires member endpoints under /members.
func RegisterMemberRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	controller := NewMemberController(NewMemberRepository(db))

	members := rg.Group("/members")
	{
		members.GET("/ranking", controller.GetRanking)

		authed := members.Group("")
		authed.Use(middleware.AuthMiddleware(cfg.JWT.AccessTokenSecret, db))
		{
			authed.GET("/me", controller.GetMe)
		}
	}
}
