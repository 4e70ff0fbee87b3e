package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/pcmclub/pcm-backend/config"
	"github.com/pcmclub/pcm-backend/internal/booking"
	"github.com/pcmclub/pcm-backend/internal/court"
	"github.com/pcmclub/pcm-backend/internal/member"
	"github.com/pcmclub/pcm-backend/internal/notification"
	"github.com/pcmclub/pcm-backend/internal/tournament"
	"github.com/pcmclub/pcm-backend/internal/wallet"
	"github.com/pcmclub/pcm-backend/pkg/events"
)

func SetupRoutes(db *gorm.DB, cfg *config.Config, pub events.Publisher) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default()) // allows all origins, GET/POST/PUT

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := r.Group("/api")
	member.RegisterMemberRoutes(api, db, cfg)
	wallet.RegisterWalletRoutes(api, db, cfg, pub)
	court.RegisterCourtRoutes(api, db, cfg)
	booking.RegisterBookingRoutes(api, db, cfg, pub)
	tournament.RegisterTournamentRoutes(api, db, cfg, pub)
	notification.RegisterNotificationRoutes(api, db, cfg)

	return r
}
