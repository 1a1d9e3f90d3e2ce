package service

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"gigmarket/internal/config"
	"gigmarket/internal/realtime"
	"gigmarket/internal/repository"
	"gigmarket/internal/service/auth"
	"gigmarket/internal/service/bid"
	"gigmarket/internal/service/email"
	"gigmarket/internal/service/gig"
	"gigmarket/internal/service/hiring"
	"gigmarket/internal/service/notification"
	"gigmarket/internal/service/user"
)

type Services struct {
	Auth         auth.Service
	User         user.Service
	Gig          gig.Service
	Bid          bid.Service
	Hiring       hiring.Service
	Notification notification.Service
	Email        email.Service
}

func NewServices(
	repos *repository.Repositories,
	redis *redis.Client,
	pusher realtime.Pusher,
	dispatcher *notification.Dispatcher,
	cfg *config.Config,
	logger *slog.Logger,
) *Services {
	emailService := email.NewService(cfg, logger)
	authService := auth.NewService(repos.User, repos.Session, emailService, cfg, logger)
	gigService := gig.NewService(repos.Gig, redis, pusher, cfg.CacheTTL, logger)
	hiringService := hiring.NewService(repos.Hire, logger)
	notificationService := notification.NewService(repos.Notification, repos.User, pusher, emailService, dispatcher, cfg.Locale, logger)

	bidService := bid.NewService(repos.Bid, repos.Gig, hiringService, gigService, logger)
	bidService.SetNotificationService(notificationService)

	return &Services{
		Auth:         authService,
		User:         user.NewService(repos.User, logger),
		Gig:          gigService,
		Bid:          bidService,
		Hiring:       hiringService,
		Notification: notificationService,
		Email:        emailService,
	}
}
