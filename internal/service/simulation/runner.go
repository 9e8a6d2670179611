package simulation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Domenick1991/flightpath/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidDuration is returned for simulations shorter than one second.
var ErrInvalidDuration = errors.New("duration must be at least 1s")

type Publisher interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type PathGetter interface {
	Get(ctx context.Context, id string) (*domain.FlightPath, error)
}

// KafkaEmitter publishes every position to a topic keyed by flight ID.
type KafkaEmitter struct {
	publisher Publisher
	topic     string
}

func NewKafkaEmitter(publisher Publisher, topic string) *KafkaEmitter {
	return &KafkaEmitter{publisher: publisher, topic: topic}
}

func (e *KafkaEmitter) Emit(ctx context.Context, event domain.PositionEvent) error {
	return e.publisher.Publish(ctx, e.topic, event.FlightID, event)
}

type FlightUseCase interface {
	Request(ctx context.Context, pathID string, duration time.Duration) (*domain.SimulationRequest, error)
}

// Scheduler asks the worker to fly a stored path.
type Scheduler struct {
	paths           PathGetter
	publisher       Publisher
	topic           string
	defaultDuration time.Duration
}

func NewScheduler(paths PathGetter, publisher Publisher, topic string, defaultDuration time.Duration) *Scheduler {
	return &Scheduler{paths: paths, publisher: publisher, topic: topic, defaultDuration: defaultDuration}
}

func (s *Scheduler) Request(ctx context.Context, pathID string, duration time.Duration) (*domain.SimulationRequest, error) {
	if duration == 0 {
		duration = s.defaultDuration
	}
	if duration < time.Second {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidDuration, duration)
	}

	// Reject unknown paths before anything reaches the broker.
	if _, err := s.paths.Get(ctx, pathID); err != nil {
		return nil, err
	}

	req := &domain.SimulationRequest{
		FlightID:        uuid.NewString(),
		PathID:          pathID,
		DurationSeconds: int(duration.Round(time.Second) / time.Second),
	}
	if err := s.publisher.Publish(ctx, s.topic, req.FlightID, req); err != nil {
		return nil, fmt.Errorf("request simulation of path %s: %w", pathID, err)
	}
	return req, nil
}

var _ FlightUseCase = (*Scheduler)(nil)

// Runner flies requested simulations, at most limit at a time.
type Runner struct {
	paths     PathGetter
	simulator *Simulator
	emitter   Emitter
	group     errgroup.Group
}

func NewRunner(paths PathGetter, simulator *Simulator, emitter Emitter, limit int) *Runner {
	r := &Runner{paths: paths, simulator: simulator, emitter: emitter}
	if limit > 0 {
		r.group.SetLimit(limit)
	}
	return r
}

// Start launches the flight in the background. It blocks while the runner is
// at its concurrency limit.
func (r *Runner) Start(ctx context.Context, req domain.SimulationRequest) error {
	path, err := r.paths.Get(ctx, req.PathID)
	if err != nil {
		log.Printf("simulation skipped flight_id=%s path_id=%s err=%v", req.FlightID, req.PathID, err)
		return nil
	}

	duration := time.Duration(req.DurationSeconds) * time.Second
	r.group.Go(func() error {
		log.Printf("simulation started flight_id=%s path_id=%s steps=%d duration=%s", req.FlightID, path.ID, len(path.Points), duration)
		if err := r.simulator.Run(ctx, req.FlightID, path, duration, r.emitter); err != nil {
			log.Printf("simulation stopped flight_id=%s err=%v", req.FlightID, err)
			return nil
		}
		log.Printf("simulation finished flight_id=%s", req.FlightID)
		return nil
	})
	return nil
}

// Wait blocks until all started flights have returned.
func (r *Runner) Wait() {
	_ = r.group.Wait()
}
