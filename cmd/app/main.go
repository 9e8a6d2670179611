package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightpath/api"
	"github.com/Domenick1991/flightpath/config"
	"github.com/Domenick1991/flightpath/internal/bootstrap"
	"github.com/Domenick1991/flightpath/internal/cache"
	"github.com/Domenick1991/flightpath/internal/kafka"
	"github.com/Domenick1991/flightpath/internal/render"
	"github.com/Domenick1991/flightpath/internal/repository"
	"github.com/Domenick1991/flightpath/internal/service/airports"
	"github.com/Domenick1991/flightpath/internal/service/flightpath"
	"github.com/Domenick1991/flightpath/internal/service/simulation"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
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

	if cfg.Database.Migrate {
		if err := repository.Migrate(ctx, pool); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.FlightPath.CacheTTLSeconds)*time.Second)
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		log.Printf("redis unavailable addr=%s err=%v", cfg.Redis.Addr, err)
	}

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	if err := producer.CheckConnection(ctx); err != nil {
		log.Printf("kafka unavailable brokers=%v err=%v", cfg.Kafka.Brokers, err)
	}

	airportRepo := repository.NewAirportRepository(pool)
	pathRepo := repository.NewFlightPathRepository(pool)

	airportService := airports.NewAirportService(airportRepo, redisCache)
	pathService := flightpath.NewPathService(
		pathRepo,
		airportService,
		redisCache,
		flightpath.WithSegments(cfg.FlightPath.Segments),
		flightpath.WithCurveParams(cfg.FlightPath.CurveParams()),
	)

	animation := time.Duration(cfg.FlightPath.AnimationSeconds) * time.Second
	scheduler := simulation.NewScheduler(
		pathService,
		producer.WithRetry(cfg.Kafka.PublishMaxRetries),
		cfg.Kafka.SimulationTopic,
		animation,
	)

	handlers := bootstrap.Handlers{
		Airports: api.NewAirportHandler(airportService),
		Paths: api.NewPathHandler(
			pathService,
			scheduler,
			render.NewRenderer(cfg.Render),
			simulation.NewSimulator(),
			animation,
		),
	}

	log.Printf("starting http=%s grpc=%s", cfg.HTTP.Address, cfg.GRPC.Address)
	if err := bootstrap.Run(ctx, cfg, handlers); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
