package relay

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/config"
	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/event"
	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/proto"
	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/transport"
	"github.com/sirupsen/logrus"
)

const eventQueueSize = 256

type (
	// Relay pairs connections into sessions and forwards gameplay messages
	// between the two peers of a session.
	//
	// All session and connection state is owned by a single goroutine which
	// processes one event at a time. Transport callbacks only enqueue events.
	Relay struct {
		// events is the queue of work for the relay loop
		events chan event.Event

		// done is closed when the relay is stopping
		done     chan struct{}
		stopOnce sync.Once
		wg       sync.WaitGroup

		logger *logrus.Entry

		// cfg, registry and sessions are owned by the relay loop
		cfg      *config.Config
		registry *registry
		sessions *sessionStore

		// ticker drives liveness sweeps; nil until Start
		ticker *time.Ticker

		// state is the query state this relay reports player counts into, may be nil
		state *proto.QueryState

		// now is the clock used for shot timestamps
		now func() time.Time

		connections    int64
		sessionCount   int64
		pairedSessions int64
		pointsToWin    int64
	}

	// Stats is a point in time summary of the relay.
	Stats struct {
		Connections    int `json:"connections"`
		Sessions       int `json:"sessions"`
		PairedSessions int `json:"pairedSessions"`
		PointsToWin    int `json:"pointsToWin"`
	}
)

// Compile-time check that Relay implements transport.Handler.
var _ transport.Handler = (*Relay)(nil)

// New creates a relay configured with cfg. Player counts are reported into
// state when it is not nil.
func New(logger *logrus.Entry, cfg *config.Config, state *proto.QueryState) *Relay {
	r := &Relay{
		events:   make(chan event.Event, eventQueueSize),
		done:     make(chan struct{}),
		logger:   logger,
		cfg:      cfg,
		registry: newRegistry(),
		sessions: newSessionStore(),
		state:    state,
		now:      time.Now,
	}
	r.publish()

	return r
}

// Start starts the relay loop and the liveness timer.
func (r *Relay) Start() {
	r.ticker = time.NewTicker(r.cfg.Interval())

	r.wg.Add(1)
	go r.processEvents()

	r.logger.
		WithField("liveness_interval", r.cfg.Interval().String()).
		WithField("points_to_win", r.cfg.PointsToWin).
		Info("relay started")
}

// Stop stops the liveness timer, terminates every remaining connection and
// waits for the relay loop to exit. Events queued after Stop are dropped.
func (r *Relay) Stop() {
	r.stopOnce.Do(func() {
		close(r.done)
	})
	r.wg.Wait()
}

// Connected implements transport.Handler.
func (r *Relay) Connected(c transport.Conn) {
	r.enqueue(event.Event{Type: event.Connected, Conn: c})
}

// Message implements transport.Handler.
func (r *Relay) Message(c transport.Conn, data []byte) {
	r.enqueue(event.Event{Type: event.Message, Conn: c, Data: data})
}

// Alive implements transport.Handler.
func (r *Relay) Alive(c transport.Conn) {
	r.enqueue(event.Event{Type: event.Alive, Conn: c})
}

// Disconnected implements transport.Handler.
func (r *Relay) Disconnected(c transport.Conn) {
	r.enqueue(event.Event{Type: event.Disconnected, Conn: c})
}

// Reconfigure hands a new configuration to the relay loop.
func (r *Relay) Reconfigure(cfg *config.Config) {
	r.enqueue(event.Event{Type: event.Reconfigured, Config: cfg})
}

// TerminateAll terminates every connection and clears all sessions.
func (r *Relay) TerminateAll() {
	r.enqueue(event.Event{Type: event.TerminateAll})
}

// Stats returns a summary published by the relay loop after each lifecycle change.
func (r *Relay) Stats() Stats {
	return Stats{
		Connections:    int(atomic.LoadInt64(&r.connections)),
		Sessions:       int(atomic.LoadInt64(&r.sessionCount)),
		PairedSessions: int(atomic.LoadInt64(&r.pairedSessions)),
		PointsToWin:    int(atomic.LoadInt64(&r.pointsToWin)),
	}
}

func (r *Relay) enqueue(ev event.Event) {
	select {
	case r.events <- ev:
	case <-r.done:
	}
}

// processEvents is the relay loop.
func (r *Relay) processEvents() {
	defer r.wg.Done()
	defer r.ticker.Stop()

	for {
		select {
		case ev := <-r.events:
			r.handle(ev)

		case <-r.ticker.C:
			r.sweep()

		case <-r.done:
			r.terminateAll()
			r.logger.Info("relay stopped")

			return
		}
	}
}

// handle processes a single event to completion.
func (r *Relay) handle(ev event.Event) {
	switch ev.Type {
	case event.Connected:
		if _, ok := r.registry.lookup(ev.Conn); ok {
			return
		}

		rec := r.registry.register(ev.Conn, r.logger)
		rec.logger.Info("client connected")
		r.publish()

	case event.Message:
		rec, ok := r.registry.lookup(ev.Conn)
		if !ok {
			return
		}

		r.dispatch(rec, ev.Data)

	case event.Alive:
		r.registry.markAlive(ev.Conn)

	case event.Disconnected:
		r.cleanup(ev.Conn)

	case event.Reconfigured:
		r.reconfigure(ev.Config)

	case event.TerminateAll:
		r.terminateAll()

	default:
		r.logger.WithField("event", ev.Type.String()).Warn("unhandled event")
	}
}

// cleanup releases the slot held by c, deletes its session once both slots
// are empty and removes its record. Cleanup of an unknown connection is a
// no-op, so it runs at most once per connection.
func (r *Relay) cleanup(c transport.Conn) {
	rec, ok := r.registry.remove(c)
	if !ok {
		return
	}

	if rec.state == assigned {
		if s, ok := r.sessions.get(rec.sessionID); ok {
			s.release(rec.role, c)
			if s.Occupancy() == 0 {
				r.sessions.delete(s.ID)
				rec.logger.Debug("session deleted")
			}
		}
	}

	rec.logger.Info("client disconnected")
	r.publish()
}

func (r *Relay) terminateAll() {
	// cleanup deletes the visited entry from the map being ranged over.
	for c := range r.registry.records {
		c.Terminate()
		r.cleanup(c)
	}
}

func (r *Relay) reconfigure(cfg *config.Config) {
	if cfg == nil {
		return
	}

	if r.ticker != nil && cfg.Interval() != r.cfg.Interval() {
		r.ticker.Reset(cfg.Interval())
	}

	r.cfg = cfg
	r.publish()

	r.logger.
		WithField("liveness_interval", cfg.Interval().String()).
		WithField("points_to_win", cfg.PointsToWin).
		Info("configuration reloaded")
}

// publish copies counters which are read outside the relay loop.
func (r *Relay) publish() {
	atomic.StoreInt64(&r.connections, int64(r.registry.len()))
	atomic.StoreInt64(&r.sessionCount, int64(r.sessions.len()))
	atomic.StoreInt64(&r.pairedSessions, int64(r.sessions.paired()))
	atomic.StoreInt64(&r.pointsToWin, int64(r.cfg.PointsToWin))

	if r.state != nil {
		r.state.SetCurrentPlayers(r.registry.len())
	}
}

// timestamp returns the current time in milliseconds since the epoch.
func (r *Relay) timestamp() float64 {
	return float64(r.now().UnixMilli())
}
