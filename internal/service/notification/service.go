package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"gigmarket/internal/domain"
	"gigmarket/internal/pkg/i18n"
	"gigmarket/internal/realtime"
	"gigmarket/internal/repository"
	"gigmarket/internal/service/email"
	"gigmarket/internal/service/hiring"
)

var ErrNotificationNotFound = errors.New("notification not found")

type Service interface {
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)

	AnnounceHire(ctx context.Context, result *hiring.Result)
	NotifyNewBid(ctx context.Context, bid *domain.Bid, gig *domain.Gig)
}

type service struct {
	notifRepo  repository.NotificationRepository
	userRepo   repository.UserRepository
	pusher     realtime.Pusher
	emailSvc   email.Service
	dispatcher *Dispatcher
	locale     string
	logger     *slog.Logger
}

func NewService(
	notifRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	pusher realtime.Pusher,
	emailSvc email.Service,
	dispatcher *Dispatcher,
	locale string,
	logger *slog.Logger,
) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if locale == "" {
		locale = i18n.DefaultLocale
	}
	return &service{
		notifRepo:  notifRepo,
		userRepo:   userRepo,
		pusher:     pusher,
		emailSvc:   emailSvc,
		dispatcher: dispatcher,
		locale:     locale,
		logger:     logger.With(slog.String("caller", "NotificationService")),
	}
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}

	return domain.NewPaginatedResponse(notifications, params.Page, params.Limit, total), nil
}

func (s *service) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	updated, err := s.notifRepo.MarkAsRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !updated {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.notifRepo.MarkAllAsRead(ctx, userID)
}

func (s *service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}

type bidEvent struct {
	BidID    uuid.UUID        `json:"bid_id"`
	GigID    uuid.UUID        `json:"gig_id"`
	GigTitle string           `json:"gig_title"`
	Status   domain.BidStatus `json:"status"`
	Message  string           `json:"message"`
}

// AnnounceHire queues one job per recipient plus one for the gig rooms.
// It returns once the jobs are queued; failures are only logged.
func (s *service) AnnounceHire(_ context.Context, result *hiring.Result) {
	if result == nil {
		return
	}
	gig := result.Gig
	hired := result.Bid

	s.submit(Job{
		Name: "bid_hired:" + hired.FreelancerID.String(),
		Run: func(ctx context.Context) error {
			notif, err := s.persist(ctx, hired.FreelancerID, domain.NotifBidHired, gig, hired)
			if err != nil {
				return err
			}
			s.push(ctx, hired.FreelancerID, realtime.EventBidHired, notif, gig, hired)
			s.sendHiredEmail(ctx, hired.FreelancerID, gig)
			return nil
		},
	})

	for _, bid := range result.Rejected {
		s.submit(Job{
			Name: "bid_rejected:" + bid.FreelancerID.String(),
			Run: func(ctx context.Context) error {
				notif, err := s.persist(ctx, bid.FreelancerID, domain.NotifBidRejected, gig, bid)
				if err != nil {
					return err
				}
				s.push(ctx, bid.FreelancerID, realtime.EventBidRejected, notif, gig, bid)
				return nil
			},
		})
	}

	s.submit(Job{
		Name: "gig_assigned:" + gig.ID.String(),
		Run: func(ctx context.Context) error {
			var errs []error
			for _, room := range []string{realtime.GigRoom(gig.ID), realtime.RoomGigs} {
				if err := s.pusher.Broadcast(ctx, room, realtime.EventGigAssigned, gig); err != nil {
					errs = append(errs, fmt.Errorf("broadcast to %s: %w", room, err))
				}
			}
			return errors.Join(errs...)
		},
	})
}

// NotifyNewBid tells the gig owner about a new bid.
func (s *service) NotifyNewBid(_ context.Context, bid *domain.Bid, gig *domain.Gig) {
	if bid == nil || gig == nil {
		return
	}
	b, g := *bid, *gig

	s.submit(Job{
		Name: "bid_received:" + g.OwnerID.String(),
		Run: func(ctx context.Context) error {
			notif, err := s.persist(ctx, g.OwnerID, domain.NotifBidReceived, g, b)
			if err != nil {
				return err
			}
			s.push(ctx, g.OwnerID, realtime.EventBidReceived, notif, g, b)
			return nil
		},
	})
}

func (s *service) submit(job Job) {
	if err := s.dispatcher.Submit(job); err != nil {
		s.logger.Error("failed to queue notification job", slog.Any("error", err))
	}
}

func (s *service) persist(ctx context.Context, userID uuid.UUID, typ domain.NotificationType, gig domain.Gig, bid domain.Bid) (*domain.Notification, error) {
	vars := map[string]string{"gig": gig.Title}
	if typ == domain.NotifBidReceived {
		vars["freelancer"] = s.freelancerName(ctx, bid)
	}

	gigID, bidID := gig.ID, bid.ID
	notif := &domain.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Type:    typ,
		Message: i18n.Format(s.locale, string(typ), vars),
		GigID:   &gigID,
		BidID:   &bidID,
	}

	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return nil, fmt.Errorf("persist %s for user %s: %w", typ, userID, err)
	}
	return notif, nil
}

func (s *service) freelancerName(ctx context.Context, bid domain.Bid) string {
	if bid.Freelancer != nil && bid.Freelancer.Name != "" {
		return bid.Freelancer.Name
	}
	user, err := s.userRepo.GetByID(ctx, bid.FreelancerID)
	if err != nil || user == nil {
		return bid.FreelancerID.String()
	}
	return user.Name
}

// push runs only after the notification row exists.
func (s *service) push(ctx context.Context, userID uuid.UUID, name string, notif *domain.Notification, gig domain.Gig, bid domain.Bid) {
	payload := bidEvent{
		BidID:    bid.ID,
		GigID:    gig.ID,
		GigTitle: gig.Title,
		Status:   bid.Status,
		Message:  notif.Message,
	}

	if err := s.pusher.PushToUser(ctx, userID, name, payload); err != nil {
		s.logger.Warn("failed to push event",
			slog.String("event", name), slog.String("user_id", userID.String()), slog.Any("error", err))
	}
	if err := s.pusher.PushToUser(ctx, userID, realtime.EventNotification, notif); err != nil {
		s.logger.Warn("failed to push notification",
			slog.String("user_id", userID.String()), slog.Any("error", err))
	}
}

func (s *service) sendHiredEmail(ctx context.Context, userID uuid.UUID, gig domain.Gig) {
	if s.emailSvc == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || user == nil || user.Email == "" {
		s.logger.Warn("skipping hired email", slog.String("user_id", userID.String()), slog.Any("error", err))
		return
	}
	if err := s.emailSvc.SendHiredEmail(ctx, user.Email, user.Name, gig.Title, gig.ID.String()); err != nil {
		s.logger.Warn("failed to send hired email", slog.String("user_id", userID.String()), slog.Any("error", err))
	}
}
