package wallet

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pcmclub/pcm-backend/config"
	"github.com/pcmclub/pcm-backend/internal/member"
	"github.com/pcmclub/pcm-backend/internal/middleware"
	"github.com/pcmclub/pcm-backend/pkg/events"
)

// RegisterWalletRoutes wires wallet endpoints under /wallet.
func RegisterWalletRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config, pub events.Publisher) {
	ledger := NewLedger(member.TierThresholds{
		Silver:  cfg.Booking.SilverThreshold,
		Gold:    cfg.Booking.GoldThreshold,
		Diamond: cfg.Booking.DiamondThreshold,
	})
	controller := NewWalletController(db, NewWalletRepository(db), ledger, pub)

	wallet := rg.Group("/wallet")
	{
		wallet.GET("/payment-info", controller.PaymentInfo)

		authed := wallet.Group("")
		authed.Use(middleware.AuthMiddleware(cfg.JWT.AccessTokenSecret, db))
		{
			authed.GET("/balance", controller.Balance)
			authed.GET("/transactions", controller.MyTransactions)
			authed.POST("/deposit", controller.Deposit)

			admin := authed.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/all-pending", controller.AllPending)
				admin.PUT("/approve/:id", controller.Approve)
				admin.PUT("/reject/:id", controller.Reject)
			}
		}
	}
}
