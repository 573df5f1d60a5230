package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"mr3x-notificacoes/internal/repository"
)

const (
	cacheKey = "dashboard:stats"
	cacheTTL = 5 * time.Minute
)

type Service interface {
	GetStats(ctx context.Context) (*Stats, error)
	Invalidate(ctx context.Context)
}

type service struct {
	noticeRepo repository.NoticeRepository
	redis      *redis.Client
	loc        *time.Location
	now        func() time.Time
	log        *logrus.Entry
}

// NewService accepts a nil redis client; stats are then computed on every call.
func NewService(noticeRepo repository.NoticeRepository, redis *redis.Client, loc *time.Location, log *logrus.Logger) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		noticeRepo: noticeRepo,
		redis:      redis,
		loc:        loc,
		now:        time.Now,
		log:        log.WithField("component", "dashboard"),
	}
}

func (s *service) GetStats(ctx context.Context) (*Stats, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var stats Stats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	records, err := s.noticeRepo.List(ctx, repository.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to load notices: %w", err)
	}

	stats := ComputeStats(records, s.now().In(s.loc))

	if s.redis != nil {
		if statsJSON, err := json.Marshal(stats); err == nil {
			if err := s.redis.Set(ctx, cacheKey, statsJSON, cacheTTL).Err(); err != nil {
				s.log.WithError(err).Warn("failed to cache dashboard stats")
			}
		}
	}

	return &stats, nil
}

func (s *service) Invalidate(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, cacheKey).Err(); err != nil {
		s.log.WithError(err).Warn("failed to invalidate dashboard stats")
	}
}
