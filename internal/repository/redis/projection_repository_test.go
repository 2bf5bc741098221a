package repository

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vogiaan1904/ticketbottle-seating/internal/models"
	"github.com/vogiaan1904/ticketbottle-seating/pkg/logger"
)

func TestProjectionKeys(t *testing.T) {
	if got := reservationsKey("hall-a"); got != "seating:hall-a:reservations" {
		t.Errorf("reservationsKey = %q", got)
	}
	if got := waitlistKey("hall-a"); got != "seating:hall-a:waitlist" {
		t.Errorf("waitlistKey = %q", got)
	}
	if got := statsKey("hall-a"); got != "seating:hall-a:stats" {
		t.Errorf("statsKey = %q", got)
	}
}

func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestApplyWithoutChangesSkipsRedis(t *testing.T) {
	cli := unreachableClient()
	defer cli.Close()

	repo := NewRedisProjectionRepository(cli, logger.InitializeTestZapLogger())
	if err := repo.Apply(context.Background(), "hall-a", nil); err != nil {
		t.Errorf("Apply(nil) = %v, want nil", err)
	}
}

func TestApplyReportsConnectionErrors(t *testing.T) {
	cli := unreachableClient()
	defer cli.Close()

	repo := NewRedisProjectionRepository(cli, logger.InitializeTestZapLogger())
	err := repo.Apply(context.Background(), "hall-a", []models.Change{
		{Type: models.ChangeSeatAssigned, UserID: 1, SeatID: 1},
	})
	if err == nil {
		t.Error("expected an error from an unreachable server")
	}
	if err := repo.Reset(context.Background(), "hall-a"); err == nil {
		t.Error("expected Reset to fail against an unreachable server")
	}
}
