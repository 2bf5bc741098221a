package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vogiaan1904/ticketbottle-seating/config"
	"github.com/vogiaan1904/ticketbottle-seating/internal/delivery/command"
	grpcSvc "github.com/vogiaan1904/ticketbottle-seating/internal/delivery/grpc"
	"github.com/vogiaan1904/ticketbottle-seating/internal/delivery/kafka/consumer"
	"github.com/vogiaan1904/ticketbottle-seating/internal/delivery/kafka/producer"
	"github.com/vogiaan1904/ticketbottle-seating/internal/infra/redis"
	repo "github.com/vogiaan1904/ticketbottle-seating/internal/repository/redis"
	"github.com/vogiaan1904/ticketbottle-seating/internal/service"
	pkgKafka "github.com/vogiaan1904/ticketbottle-seating/pkg/kafka"
	pkgLog "github.com/vogiaan1904/ticketbottle-seating/pkg/logger"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	l := pkgLog.InitializeZapLogger(pkgLog.ZapConfig{
		Level:    cfg.Log.Level,
		Mode:     cfg.Log.Mode,
		Encoding: cfg.Log.Encoding,
	})
	defer l.Sync()

	ctx = l.WithFields(ctx, "venue", cfg.Seating.Venue)

	tSvc := service.NewTicketService(cfg.JWT, l)
	var notifiers []service.Notifier

	// Redis read model
	if cfg.Redis.Enabled {
		redisCli, err := redis.Connect(ctx, cfg.Redis, l)
		if err != nil {
			l.Fatalf(ctx, "Failed to connect to Redis: %v", err)
		}
		defer redis.Disconnect(context.Background(), redisCli, l)

		projRepo := repo.NewRedisProjectionRepository(redisCli, l)
		if err := projRepo.Reset(ctx, cfg.Seating.Venue); err != nil {
			l.Fatalf(ctx, "Failed to reset seating projection: %v", err)
		}
		notifiers = append(notifiers, service.NewProjectionNotifier(cfg.Seating.Venue, projRepo))
	}

	// Kafka producer
	var prod producer.Producer
	if cfg.Kafka.Enabled {
		kafkaSyncProd, err := pkgKafka.NewProducer(pkgKafka.ProducerConfig{
			Brokers:      cfg.Kafka.Brokers,
			RetryMax:     cfg.Kafka.ProducerRetryMax,
			RequiredAcks: cfg.Kafka.ProducerRequiredAcks,
		})
		if err != nil {
			l.Fatalf(ctx, "Failed to initialize Kafka producer: %v", err)
		}
		prod = producer.NewProducer(kafkaSyncProd, l)
		defer prod.Close()

		notifiers = append(notifiers, service.NewEventNotifier(cfg.Seating.Venue, prod, tSvc, l))
	}

	// Services
	rsvSvc := service.NewReservationService(
		service.NewNotifiers(notifiers...),
		l,
		service.WithMaxSeats(cfg.Seating.MaxSeats),
	)
	if cfg.Seating.InitialSeats > 0 {
		if _, err := rsvSvc.Initialize(ctx, cfg.Seating.InitialSeats); err != nil {
			l.Fatalf(ctx, "Failed to initialize seats: %v", err)
		}
	}
	ex := command.NewExecutor(rsvSvc, l)

	g, gCtx := errgroup.WithContext(ctx)

	// Kafka command consumer
	if cfg.Kafka.Enabled {
		kafkaConsGr, err := pkgKafka.NewConsumer(pkgKafka.ConsumerConfig{
			Brokers: cfg.Kafka.Brokers,
			GroupID: cfg.Kafka.ConsumerGroupID,
		})
		if err != nil {
			l.Fatalf(ctx, "Failed to initialize Kafka consumer: %v", err)
		}

		cons := consumer.NewConsumer(kafkaConsGr, ex, prod, cfg.Seating.Venue, l)
		g.Go(func() error {
			if err := cons.Start(gCtx); err != nil {
				return err
			}
			<-gCtx.Done()
			return cons.Close()
		})
	}

	// gRPC server
	lnr, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.GRpcPort))
	if err != nil {
		l.Fatalf(ctx, "gRPC server failed to listen: %v", err)
	}

	gRpcSrv := grpc.NewServer()
	grpcSvc.RegisterSeatingServiceServer(gRpcSrv, grpcSvc.NewGrpcService(ex, tSvc, l))

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus(grpcSvc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gRpcSrv, healthSrv)

	g.Go(func() error {
		l.Infof(ctx, "gRPC server is listening on port: %d", cfg.Server.GRpcPort)
		if err := gRpcSrv.Serve(lnr); err != nil {
			return fmt.Errorf("failed to serve gRPC: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		l.Info(ctx, "Server shutting down...")
		healthSrv.Shutdown()
		gracefulStop(gRpcSrv, cfg.Server.ShutdownTimeout)
		return nil
	})

	if err := g.Wait(); err != nil {
		l.Errorf(ctx, "Server stopped with error: %v", err)
	}

	if snap, err := rsvSvc.Snapshot(context.Background()); err == nil {
		l.Infow(ctx, "Final seating state",
			"total_seats", snap.TotalSeats,
			"free_seats", len(snap.FreeSeats),
			"reservations", len(snap.Reservations),
			"waitlist", len(snap.Waitlist),
		)
	}

	l.Info(ctx, "Server exited")
}

// gracefulStop waits for in-flight RPCs up to timeout, then forces the stop.
func gracefulStop(srv *grpc.Server, timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		srv.Stop()
	}
}
