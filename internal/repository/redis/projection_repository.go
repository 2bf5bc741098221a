package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vogiaan1904/ticketbottle-seating/internal/models"
	"github.com/vogiaan1904/ticketbottle-seating/pkg/logger"
)

// ProjectionRepository maintains a read-only view of a venue's seating state
// in Redis. The in-memory controller remains the source of truth.
type ProjectionRepository interface {
	Apply(ctx context.Context, venue string, changes []models.Change) error
	Reset(ctx context.Context, venue string) error
	GetReservations(ctx context.Context, venue string) (map[int64]int64, error)
	GetWaitlist(ctx context.Context, venue string) (map[int64]int64, error)
}

type redisProjectionRepository struct {
	cli redis.Cmdable
	l   logger.Logger
}

func NewRedisProjectionRepository(cli redis.Cmdable, l logger.Logger) ProjectionRepository {
	return &redisProjectionRepository{
		cli: cli,
		l:   l,
	}
}

func (r *redisProjectionRepository) Apply(ctx context.Context, venue string, changes []models.Change) error {
	if len(changes) == 0 {
		return nil
	}

	rKey := reservationsKey(venue)
	wKey := waitlistKey(venue)
	sKey := statsKey(venue)

	pipe := r.cli.TxPipeline()
	for _, c := range changes {
		uID := strconv.FormatInt(c.UserID, 10)
		switch c.Type {
		case models.ChangeSeatAssigned:
			pipe.HSet(ctx, rKey, uID, c.SeatID)
			pipe.HDel(ctx, wKey, uID)
		case models.ChangeSeatReleased:
			pipe.HDel(ctx, rKey, uID)
		case models.ChangeWaitlistJoined, models.ChangePriorityUpdated:
			pipe.HSet(ctx, wKey, uID, c.Priority)
		case models.ChangeWaitlistLeft:
			pipe.HDel(ctx, wKey, uID)
		case models.ChangeSeatsAdded:
			pipe.HIncrBy(ctx, sKey, "total_seats", int64(c.Count))
		}
	}
	pipe.HSet(ctx, sKey, "updated_at", time.Now().UTC().Format(time.RFC3339))

	if _, err := pipe.Exec(ctx); err != nil {
		r.l.Errorf(ctx, "redisProjectionRepository.Apply: %v", err)
		return err
	}

	r.l.Debugf(ctx, "Projection updated - venue: %s, changes: %d", venue, len(changes))

	return nil
}

func (r *redisProjectionRepository) Reset(ctx context.Context, venue string) error {
	if err := r.cli.Del(ctx, reservationsKey(venue), waitlistKey(venue), statsKey(venue)).Err(); err != nil {
		r.l.Errorf(ctx, "redisProjectionRepository.Reset: %v", err)
		return err
	}

	r.l.Infof(ctx, "Projection reset - venue: %s", venue)

	return nil
}

func (r *redisProjectionRepository) GetReservations(ctx context.Context, venue string) (map[int64]int64, error) {
	return r.getInt64Hash(ctx, reservationsKey(venue))
}

func (r *redisProjectionRepository) GetWaitlist(ctx context.Context, venue string) (map[int64]int64, error) {
	return r.getInt64Hash(ctx, waitlistKey(venue))
}

func (r *redisProjectionRepository) getInt64Hash(ctx context.Context, key string) (map[int64]int64, error) {
	raw, err := r.cli.HGetAll(ctx, key).Result()
	if err != nil {
		r.l.Errorf(ctx, "redisProjectionRepository.getInt64Hash: %v", err)
		return nil, err
	}

	out := make(map[int64]int64, len(raw))
	for k, v := range raw {
		uID, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q in %s: %w", k, key, err)
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q for user %d in %s: %w", v, uID, key, err)
		}
		out[uID] = n
	}

	return out, nil
}

func reservationsKey(venue string) string {
	return fmt.Sprintf("seating:%s:reservations", venue)
}

func waitlistKey(venue string) string {
	return fmt.Sprintf("seating:%s:waitlist", venue)
}

func statsKey(venue string) string {
	return fmt.Sprintf("seating:%s:stats", venue)
}
