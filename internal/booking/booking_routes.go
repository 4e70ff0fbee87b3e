package booking

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pcmclub/pcm-backend/config"
	"github.com/pcmclub/pcm-backend/internal/member"
	"github.com/pcmclub/pcm-backend/internal/middleware"
	"github.com/pcmclub/pcm-backend/internal/wallet"
	"github.com/pcmclub/pcm-backend/pkg/events"
)

// RegisterBookingRoutes wires booking endpoints under /bookings.
func RegisterBookingRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config, pub events.Publisher) {
	ledger := wallet.NewLedger(member.TierThresholds{
		Silver:  cfg.Booking.SilverThreshold,
		Gold:    cfg.Booking.GoldThreshold,
		Diamond: cfg.Booking.DiamondThreshold,
	})
	service := NewBookingService(db, ledger, pub, Policy{
		HoldGrace:         cfg.Booking.HoldGrace,
		ReminderLookahead: cfg.Booking.ReminderLookahead,
		RefundCutoffHours: cfg.Booking.RefundCutoffHours,
		RecurringMinTier:  member.Tier(cfg.Booking.RecurringMinTier),
	})
	controller := NewBookingController(service, NewBookingRepository(db))

	bookings := rg.Group("/bookings")
	{
		bookings.GET("/calendar", controller.Calendar)

		authed := bookings.Group("")
		authed.Use(middleware.AuthMiddleware(cfg.JWT.AccessTokenSecret, db))
		{
			authed.POST("", controller.Create)
			authed.POST("/recurring", controller.CreateRecurring)
			authed.POST("/:id/confirm", controller.Confirm)
			authed.POST("/:id/cancel", controller.Cancel)
			authed.GET("/my", controller.MyBookings)
		}
	}
}
