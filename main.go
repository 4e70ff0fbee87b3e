package main

import (
	"context"
	"os"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/pcmclub/pcm-backend/config"
	_ "github.com/pcmclub/pcm-backend/docs"
	"github.com/pcmclub/pcm-backend/internal/booking"
	"github.com/pcmclub/pcm-backend/internal/court"
	"github.com/pcmclub/pcm-backend/internal/member"
	"github.com/pcmclub/pcm-backend/internal/notification"
	"github.com/pcmclub/pcm-backend/internal/tournament"
	"github.com/pcmclub/pcm-backend/internal/wallet"
	"github.com/pcmclub/pcm-backend/pkg/events"
	"github.com/pcmclub/pcm-backend/routes"
)

// @title PCM Club Booking API
// @version 1.0
// @description Court booking, wallet and tournament backend for the club.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := config.Initialize(); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application")
	}
	cfg := config.GetConfig()
	db := config.DB

	err := db.AutoMigrate(
		&member.Member{},
		&court.Court{},
		&booking.Booking{},
		&wallet.WalletTransaction{},
		&notification.Notification{},
		&tournament.Tournament{},
		&tournament.TournamentParticipant{},
		&tournament.Match{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("auto-migrate failed")
	}

	pub := newPublisher(cfg)
	defer pub.Close()

	scheduler := startReaper(db, cfg, pub)
	defer func() { _ = scheduler.Shutdown() }()

	r := routes.SetupRoutes(db, cfg, pub)

	log.Info().Str("port", cfg.App.Port).Str("env", cfg.App.Env).Msg("starting server")
	if err := r.Run(":" + cfg.App.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// newPublisher connects to the broker when configured and falls back to a
// no-op publisher otherwise, so local development runs without RabbitMQ.
func newPublisher(cfg *config.Config) events.Publisher {
	if cfg.AMQP.URL == "" {
		log.Warn().Msg("AMQP_URL not set, events will not be published")
		return events.Nop{}
	}
	pub, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to rabbitmq")
	}
	return pub
}

// startReaper schedules the periodic sweep that expires stale holds and sends
// booking reminders.
func startReaper(db *gorm.DB, cfg *config.Config, pub events.Publisher) gocron.Scheduler {
	reaper := booking.NewReaper(
		db,
		notification.NewNotificationRepository(db),
		pub,
		booking.Policy{
			HoldGrace:         cfg.Booking.HoldGrace,
			ReminderLookahead: cfg.Booking.ReminderLookahead,
			RefundCutoffHours: cfg.Booking.RefundCutoffHours,
		},
		log.With().Str("component", "reaper").Logger(),
	)

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(cfg.Booking.ReaperInterval),
		gocron.NewTask(func() {
			reaper.RunCycle(context.Background())
		}),
		gocron.WithName("booking-reaper"),
		gocron.WithEventListeners(
			gocron.AfterJobRunsWithPanic(func(_ uuid.UUID, jobName string, recoverData any) {
				log.Error().Str("job", jobName).Any("panic", recoverData).Msg("scheduled job panicked")
			}),
		),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to schedule reaper")
	}

	scheduler.Start()
	return scheduler
}
