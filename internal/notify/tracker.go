package notify

import (
	"context"
	"log"
	"sync"

	"github.com/Domenick1991/flightpath/internal/domain"
)

// landedLimit bounds how many arrived flight IDs are remembered.
const landedLimit = 4096

// Tracker follows flights from the positions topic and announces arrivals.
// Steps of a flight that already arrived are ignored.
type Tracker struct {
	mu          sync.Mutex
	last        map[string]domain.PositionEvent
	landed      map[string]struct{}
	landedOrder []string
	arrived     func(domain.PositionEvent)
}

func NewTracker() *Tracker {
	return &Tracker{
		last:   make(map[string]domain.PositionEvent),
		landed: make(map[string]struct{}),
		arrived: func(e domain.PositionEvent) {
			log.Printf("flight arrived flight_id=%s path_id=%s steps=%d at=%s", e.FlightID, e.PathID, e.TotalSteps, e.Position)
		},
	}
}

// OnArrival replaces the arrival callback.
func (t *Tracker) OnArrival(fn func(domain.PositionEvent)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.arrived = fn
}

func (t *Tracker) Send(ctx context.Context, event domain.PositionEvent) error {
	t.mu.Lock()
	if _, ok := t.landed[event.FlightID]; ok {
		t.mu.Unlock()
		return nil
	}
	if prev, ok := t.last[event.FlightID]; ok && prev.Step >= event.Step {
		t.mu.Unlock()
		return nil
	}
	if event.Arrived() {
		delete(t.last, event.FlightID)
		t.markLanded(event.FlightID)
		fn := t.arrived
		t.mu.Unlock()
		fn(event)
		return nil
	}
	t.last[event.FlightID] = event
	t.mu.Unlock()
	return nil
}

// Last returns the latest known position of an in-flight flight.
func (t *Tracker) Last(flightID string) (domain.PositionEvent, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.last[flightID]
	return e, ok
}

// InFlight reports how many flights have not arrived yet.
func (t *Tracker) InFlight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.last)
}

func (t *Tracker) markLanded(flightID string) {
	if len(t.landedOrder) >= landedLimit {
		delete(t.landed, t.landedOrder[0])
		t.landedOrder = t.landedOrder[1:]
	}
	t.landed[flightID] = struct{}{}
	t.landedOrder = append(t.landedOrder, flightID)
}
