package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	repository "github.com/vogiaan1904/ticketbottle-seating/internal/repository/redis"
	pkgLog "github.com/vogiaan1904/ticketbottle-seating/pkg/logger"
)

var (
	out       = flag.String("out", "", "Write the generated commands to this file")
	brokers   = flag.String("kafka", "", "Comma separated Kafka brokers; publishes the commands to seating.commands when set")
	redisAddr = flag.String("redis", "", "Redis address; prints the seating projection after publishing when set")
	venue     = flag.String("venue", "default", "Venue the server was started with")
	seats     = flag.Int("seats", 10, "Seats to initialize")
	users     = flag.Int("users", 30, "Number of distinct user ids")
	ops       = flag.Int("ops", 100, "Number of commands after Initialize")
	seed      = flag.Uint64("seed", 1, "Random seed")
)

type commandEvent struct {
	Command   string    `json:"command"`
	Timestamp time.Time `json:"timestamp"`
}

func main() {
	flag.Parse()

	if *out == "" && *brokers == "" {
		fmt.Println("Error: one of --out or --kafka is required")
		flag.Usage()
		os.Exit(1)
	}

	cmds := generate(rand.New(rand.NewPCG(*seed, *seed+1)))
	fmt.Printf("Generated %d commands\n", len(cmds))

	if *out != "" {
		if err := os.WriteFile(*out, []byte(strings.Join(cmds, "\n")+"\n"), 0o644); err != nil {
			fmt.Printf("Failed to write %s: %v\n", *out, err)
			os.Exit(1)
		}
		fmt.Printf("Commands written to %s\n", *out)
	}

	if *brokers != "" {
		if err := publish(strings.Split(*brokers, ","), cmds); err != nil {
			fmt.Printf("Failed to publish commands: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Published %d commands to seating.commands\n", len(cmds))
	}

	if *redisAddr != "" {
		// The server applies commands asynchronously.
		time.Sleep(2 * time.Second)
		if err := printProjection(context.Background(), *redisAddr, *venue); err != nil {
			fmt.Printf("Failed to read projection: %v\n", err)
			os.Exit(1)
		}
	}
}

func generate(rng *rand.Rand) []string {
	cmds := []string{fmt.Sprintf("Initialize(%d)", *seats)}
	uID := func() int { return rng.IntN(*users) + 1 }

	for range *ops {
		var c string
		switch n := rng.IntN(100); {
		case n < 40:
			c = fmt.Sprintf("Reserve(%d, %d)", uID(), rng.IntN(5)+1)
		case n < 55:
			c = fmt.Sprintf("Cancel(%d, %d)", rng.IntN(*seats)+1, uID())
		case n < 65:
			c = fmt.Sprintf("UpdatePriority(%d, %d)", uID(), rng.IntN(5)+1)
		case n < 72:
			c = fmt.Sprintf("ExitWaitlist(%d)", uID())
		case n < 78:
			c = fmt.Sprintf("AddSeats(%d)", rng.IntN(3)+1)
		case n < 84:
			lo := uID()
			c = fmt.Sprintf("ReleaseSeats(%d, %d)", lo, lo+rng.IntN(3))
		case n < 92:
			c = "Available()"
		default:
			c = "PrintReservations()"
		}
		cmds = append(cmds, c)
	}

	return append(cmds, "Quit()")
}

func publish(brokers []string, cmds []string) error {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForLocal

	prod, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return err
	}
	defer prod.Close()

	for _, c := range cmds {
		val, err := json.Marshal(commandEvent{Command: c, Timestamp: time.Now()})
		if err != nil {
			return err
		}
		// One key keeps every command on the same partition, in order.
		msg := &sarama.ProducerMessage{
			Topic: "seating.commands",
			Key:   sarama.StringEncoder(*venue),
			Value: sarama.ByteEncoder(val),
			Headers: []sarama.RecordHeader{
				{Key: []byte("message_id"), Value: []byte(uuid.New().String())},
			},
		}
		if _, _, err := prod.SendMessage(msg); err != nil {
			return fmt.Errorf("command %q: %w", c, err)
		}
	}

	return nil
}

func printProjection(ctx context.Context, addr, venue string) error {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	l := pkgLog.InitializeZapLogger(pkgLog.ZapConfig{Level: "warn", Mode: "development", Encoding: "console"})
	projRepo := repository.NewRedisProjectionRepository(rdb, l)

	rsv, err := projRepo.GetReservations(ctx, venue)
	if err != nil {
		return err
	}
	wl, err := projRepo.GetWaitlist(ctx, venue)
	if err != nil {
		return err
	}
	total, err := rdb.HGet(ctx, fmt.Sprintf("seating:%s:stats", venue), "total_seats").Result()
	if err != nil && err != redis.Nil {
		return err
	}

	fmt.Printf("Venue %s: total seats %s, reservations %d, waitlist %d\n", venue, total, len(rsv), len(wl))

	users := make([]int64, 0, len(rsv))
	for u := range rsv {
		users = append(users, u)
	}
	slices.Sort(users)
	for _, u := range users {
		fmt.Printf("  Seat %d, User %d\n", rsv[u], u)
	}
	return nil
}
