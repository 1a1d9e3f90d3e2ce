package gig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"

	"gigmarket/internal/domain"
	"gigmarket/internal/pkg/validate"
	"gigmarket/internal/realtime"
	"gigmarket/internal/repository"
)

var (
	ErrGigNotFound = errors.New("gig not found")
	ErrNotOwner    = errors.New("only the gig owner can modify this gig")
	ErrGigNotOpen  = errors.New("only open gigs can be modified")
	ErrHasBids     = errors.New("cannot delete a gig that has bids")
	ErrInvalidGig  = errors.New("invalid gig")
)

const (
	listCachePrefix   = "gigs:list:"
	detailCachePrefix = "gigs:detail:"

	// An invalidation marker holds the time, in microseconds, of the last
	// write that dropped the keys it guards.
	invalidatedPrefix  = "gigs:invalidated:"
	listInvalidatedKey = invalidatedPrefix + "list"
)

// fillScript stores ARGV[1] under KEYS[1] for ARGV[3] milliseconds unless the
// marker in KEYS[2] is newer than the read that produced the value (ARGV[2]).
const fillScript = `
local marker = redis.call('GET', KEYS[2])
if marker and tonumber(marker) >= tonumber(ARGV[2]) then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 1
`

type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input domain.CreateGigInput) (*domain.Gig, error)
	List(ctx context.Context, filter domain.GigFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.Gig], error)
	ListMine(ctx context.Context, ownerID uuid.UUID) ([]domain.Gig, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Gig, error)
	Update(ctx context.Context, userID, id uuid.UUID, input domain.UpdateGigInput) (*domain.Gig, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	InvalidateCache(ctx context.Context, id uuid.UUID)
}

type service struct {
	gigRepo  repository.GigRepository
	redis    *redis.Client
	pusher   realtime.Pusher
	cacheTTL time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

func NewService(gigRepo repository.GigRepository, redis *redis.Client, pusher realtime.Pusher, cacheTTL time.Duration, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		gigRepo:  gigRepo,
		redis:    redis,
		pusher:   pusher,
		cacheTTL: cacheTTL,
		now:      time.Now,
		logger:   logger.With(slog.String("caller", "GigService")),
	}
}

// Create sanitizes the text fields and checks the bounds on what is left, so a
// title made only of markup is rejected instead of being stored empty.
func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input domain.CreateGigInput) (*domain.Gig, error) {
	input.Title = validate.PlainText(input.Title)
	input.Description = validate.RichText(input.Description)
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGig, err)
	}

	gig := &domain.Gig{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Budget:      input.Budget,
		Status:      domain.GigOpen,
		OwnerID:     ownerID,
	}

	if err := s.gigRepo.Create(ctx, gig); err != nil {
		return nil, err
	}

	s.InvalidateCache(ctx, gig.ID)
	s.broadcast(ctx, realtime.EventGigCreated, gig, realtime.RoomGigs)

	return gig, nil
}

func (s *service) List(ctx context.Context, filter domain.GigFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.Gig], error) {
	if filter.Status == "" {
		filter.Status = domain.GigOpen
	}
	filter.Search = strings.TrimSpace(filter.Search)

	cacheKey := fmt.Sprintf("%sstatus:%s:q:%s:page:%d:limit:%d", listCachePrefix, filter.Status, strings.ToLower(filter.Search), params.Page, params.Limit)

	var result domain.PaginatedResponse[domain.Gig]
	if filter.OwnerID == nil && s.getCached(ctx, cacheKey, &result) {
		return result, nil
	}

	readAt := s.now()

	gigs, total, err := s.gigRepo.List(ctx, filter, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Gig]{}, err
	}

	result = domain.NewPaginatedResponse(gigs, params.Page, params.Limit, total)
	if filter.OwnerID == nil {
		s.setCached(ctx, cacheKey, listInvalidatedKey, readAt, result)
	}

	return result, nil
}

func (s *service) ListMine(ctx context.Context, ownerID uuid.UUID) ([]domain.Gig, error) {
	gigs, err := s.gigRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if gigs == nil {
		gigs = []domain.Gig{}
	}
	return gigs, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Gig, error) {
	cacheKey := detailCachePrefix + id.String()

	var cached domain.Gig
	if s.getCached(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	readAt := s.now()
	gig, err := s.gigRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if gig == nil {
		return nil, ErrGigNotFound
	}

	s.setCached(ctx, cacheKey, invalidatedPrefix+id.String(), readAt, gig)
	return gig, nil
}

func (s *service) Update(ctx context.Context, userID, id uuid.UUID, input domain.UpdateGigInput) (*domain.Gig, error) {
	if input.Title != nil {
		input.Title = lo.ToPtr(validate.PlainText(*input.Title))
	}
	if input.Description != nil {
		input.Description = lo.ToPtr(validate.RichText(*input.Description))
	}
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGig, err)
	}

	gig, err := s.gigRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if gig == nil {
		return nil, ErrGigNotFound
	}
	if gig.OwnerID != userID {
		return nil, ErrNotOwner
	}
	if gig.Status != domain.GigOpen {
		return nil, ErrGigNotOpen
	}

	if input.Title != nil {
		gig.Title = *input.Title
	}
	if input.Description != nil {
		gig.Description = *input.Description
	}
	if input.Budget != nil {
		gig.Budget = *input.Budget
	}

	if err := s.gigRepo.Update(ctx, gig); err != nil {
		if errors.Is(err, repository.ErrGigNotOpen) {
			return nil, ErrGigNotOpen
		}
		return nil, err
	}

	s.InvalidateCache(ctx, gig.ID)
	s.broadcast(ctx, realtime.EventGigUpdated, gig, realtime.RoomGigs, realtime.GigRoom(gig.ID))

	return gig, nil
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	gig, err := s.gigRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if gig == nil {
		return ErrGigNotFound
	}
	if gig.OwnerID != userID {
		return ErrNotOwner
	}

	if err := s.gigRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrHasBids) {
			return ErrHasBids
		}
		return err
	}

	s.InvalidateCache(ctx, id)
	s.broadcast(ctx, realtime.EventGigDeleted, map[string]uuid.UUID{"id": id}, realtime.RoomGigs, realtime.GigRoom(id))

	return nil
}

// InvalidateCache drops the cached detail of id and every cached list page.
// The markers go first: a read that started before this call and finishes
// after it cannot put its snapshot back (see fillScript).
func (s *service) InvalidateCache(ctx context.Context, id uuid.UUID) {
	if s.redis == nil {
		return
	}

	if s.cacheTTL > 0 {
		stamp := s.now().UnixMicro()
		for _, marker := range []string{invalidatedPrefix + id.String(), listInvalidatedKey} {
			if err := s.redis.Set(ctx, marker, stamp, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("failed to mark gig cache invalidation", slog.String("key", marker), slog.Any("error", err))
			}
		}
	}

	keys, _ := s.redis.Keys(ctx, listCachePrefix+"*").Result()
	keys = append(keys, detailCachePrefix+id.String())
	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn("failed to invalidate gig cache", slog.String("gig_id", id.String()), slog.Any("error", err))
	}
}

func (s *service) getCached(ctx context.Context, key string, dest interface{}) bool {
	if s.redis == nil {
		return false
	}
	cached, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(cached), dest) == nil
}

// setCached stores value read at readAt, unless marker shows the keys were
// invalidated after that read began.
func (s *service) setCached(ctx context.Context, key, marker string, readAt time.Time, value interface{}) {
	if s.redis == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	err = s.redis.Eval(ctx, fillScript, []string{key, marker}, string(data), readAt.UnixMicro(), s.cacheTTL.Milliseconds()).Err()
	if err != nil {
		s.logger.Debug("gig cache fill skipped", slog.String("key", key), slog.Any("error", err))
	}
}

func (s *service) broadcast(ctx context.Context, name string, payload interface{}, rooms ...string) {
	if s.pusher == nil {
		return
	}
	for _, room := range rooms {
		if err := s.pusher.Broadcast(ctx, room, name, payload); err != nil {
			s.logger.Warn("failed to broadcast gig event",
				slog.String("event", name), slog.String("room", room), slog.Any("error", err))
		}
	}
}
