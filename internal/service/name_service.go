package service

import (
	"context"
	"fmt"

	"github.com/seyborx-dotcom/impulse-bot/internal/domain"
	"github.com/seyborx-dotcom/impulse-bot/internal/repository"
	"github.com/seyborx-dotcom/impulse-bot/pkg/logger"
	"github.com/seyborx-dotcom/impulse-bot/pkg/redis"
)

type nameService struct {
	users repository.UserRepository
	cache *redis.Client
	log   *logger.Logger
}

// NewNameService creates a NameResolver backed by the user store with a
// Redis cache in front of it.
func NewNameService(users repository.UserRepository, cache *redis.Client, log *logger.Logger) NameResolver {
	return &nameService{users: users, cache: cache, log: log}
}

func (s *nameService) Resolve(ctx context.Context, userID int64) string {
	key := fmt.Sprintf(redis.KeyDisplayName, userID)

	if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
		return cached
	} else if err != nil && !redis.IsMiss(err) {
		s.log.WithError(err).Debug("name cache read failed")
	}

	name := domain.FallbackName
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("failed to load user for name")
	} else if user != nil {
		name = user.BestName()
	}

	if err := s.cache.Set(ctx, key, name, redis.TTLDisplayName); err != nil {
		s.log.WithError(err).Debug("name cache write failed")
	}
	return name
}

func (s *nameService) Invalidate(ctx context.Context, userID int64) {
	key := fmt.Sprintf(redis.KeyDisplayName, userID)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.log.WithError(err).Debug("name cache invalidate failed")
	}
}
