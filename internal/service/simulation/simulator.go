package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flightpath/internal/domain"
	"github.com/Domenick1991/flightpath/internal/geo"
)

// Emitter receives every position of a simulated flight in order.
type Emitter interface {
	Emit(ctx context.Context, event domain.PositionEvent) error
}

type EmitterFunc func(ctx context.Context, event domain.PositionEvent) error

func (f EmitterFunc) Emit(ctx context.Context, event domain.PositionEvent) error {
	return f(ctx, event)
}

// Simulator moves a plane along a path: for N points and a total duration D
// it emits step i of the path every D/N, starting immediately with step 0.
type Simulator struct {
	now       func() time.Time
	newTicker func(time.Duration) ticker
}

type ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

func NewSimulator() *Simulator {
	return &Simulator{
		now:       time.Now,
		newTicker: func(d time.Duration) ticker { return timeTicker{time.NewTicker(d)} },
	}
}

// Interval is the time between two emitted steps.
func Interval(duration time.Duration, points int) time.Duration {
	if points <= 0 {
		return duration
	}
	return duration / time.Duration(points)
}

// Run blocks until every step has been emitted, ctx is canceled or the
// emitter fails.
func (s *Simulator) Run(ctx context.Context, flightID string, path *domain.FlightPath, duration time.Duration, out Emitter) error {
	if path == nil || len(path.Points) == 0 {
		return geo.ErrEmptyPath
	}
	if duration <= 0 {
		return errors.New("simulation duration must be positive")
	}

	total := len(path.Points)
	interval := Interval(duration, total)
	if interval <= 0 {
		interval = time.Nanosecond
	}

	t := s.newTicker(interval)
	defer t.Stop()

	for step := 0; step < total; step++ {
		if step > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C():
			}
		}

		pos, err := geo.StepAt(path.Points, step)
		if err != nil {
			return err
		}

		fraction := 1.0
		if total > 1 {
			fraction = float64(step) / float64(total-1)
		}

		event := domain.PositionEvent{
			FlightID:   flightID,
			PathID:     path.ID,
			Step:       step,
			TotalSteps: total,
			Fraction:   fraction,
			Position:   pos,
			EmittedAt:  s.now(),
		}
		if err := out.Emit(ctx, event); err != nil {
			return fmt.Errorf("emit step %d of flight %s: %w", step, flightID, err)
		}
	}
	return nil
}
