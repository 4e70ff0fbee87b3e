package tournament

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pcmclub/pcm-backend/config"
	"github.com/pcmclub/pcm-backend/internal/member"
	"github.com/pcmclub/pcm-backend/internal/middleware"
	"github.com/pcmclub/pcm-backend/internal/wallet"
	"github.com/pcmclub/pcm-backend/pkg/events"
)

// RegisterTournamentRoutes wires tournament endpoints under /tournaments.
func RegisterTournamentRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config, pub events.Publisher) {
	ledger := wallet.NewLedger(member.TierThresholds{
		Silver:  cfg.Booking.SilverThreshold,
		Gold:    cfg.Booking.GoldThreshold,
		Diamond: cfg.Booking.DiamondThreshold,
	})
	service := NewTournamentService(db, ledger, pub)
	controller := NewTournamentController(service, NewTournamentRepository(db))

	tournaments := rg.Group("/tournaments")
	{
		tournaments.GET("", controller.List)
		tournaments.GET("/:id", controller.Get)

		authed := tournaments.Group("")
		authed.Use(middleware.AuthMiddleware(cfg.JWT.AccessTokenSecret, db))
		{
			authed.POST("/:id/join", controller.Join)

			admin := authed.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.POST("", controller.Create)
				admin.POST("/:id/schedule", controller.GenerateSchedule)
				admin.POST("/:id/finish", controller.Finish)
				admin.PUT("/matches/:id/result", controller.UpdateMatchResult)
			}
		}
	}
}
