package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightpath/config"
	"github.com/Domenick1991/flightpath/internal/cache"
	"github.com/Domenick1991/flightpath/internal/domain"
	"github.com/Domenick1991/flightpath/internal/kafka"
	"github.com/Domenick1991/flightpath/internal/notify"
	"github.com/Domenick1991/flightpath/internal/repository"
	"github.com/Domenick1991/flightpath/internal/service/airports"
	"github.com/Domenick1991/flightpath/internal/service/flightpath"
	"github.com/Domenick1991/flightpath/internal/service/simulation"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.FlightPath.CacheTTLSeconds)*time.Second)
	defer redisCache.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	airportService := airports.NewAirportService(repository.NewAirportRepository(pool), redisCache)
	pathService := flightpath.NewPathService(repository.NewFlightPathRepository(pool), airportService, redisCache)

	runner := simulation.NewRunner(
		pathService,
		simulation.NewSimulator(),
		simulation.NewKafkaEmitter(producer, cfg.Kafka.PositionsTopic),
		cfg.Worker.MaxConcurrentFlights,
	)
	tracker := notify.NewTracker()

	requests := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.SimulationTopic)
	defer requests.Close()
	positions := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.PositionsGroupID, cfg.Kafka.PositionsTopic)
	defer positions.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return requests.Consume(gctx, kafka.JSONHandler(func(ctx context.Context, req domain.SimulationRequest) error {
			return runner.Start(ctx, req)
		}))
	})
	g.Go(func() error {
		return positions.Consume(gctx, kafka.JSONHandler(tracker.Send))
	})

	log.Printf("worker started requests=%s positions=%s max_flights=%d",
		cfg.Kafka.SimulationTopic, cfg.Kafka.PositionsTopic, cfg.Worker.MaxConcurrentFlights)

	if err := g.Wait(); err != nil {
		log.Printf("consumer stopped: %v", err)
	}
	runner.Wait()
	log.Printf("worker stopped in_flight=%d", tracker.InFlight())
}
