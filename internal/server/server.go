// Package server assembles the content API: the read/write endpoints,
// the realtime event stream, and the change-propagation wiring between
// the store, the event bus, and the prefetch runner.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/verdantlabs/verdant/internal/content"
	"github.com/verdantlabs/verdant/internal/prefetch"
	"github.com/verdantlabs/verdant/internal/server/cache"
	"github.com/verdantlabs/verdant/internal/server/events"
	"github.com/verdantlabs/verdant/internal/server/events/adapters"
	"github.com/verdantlabs/verdant/internal/server/sse"
	ws "github.com/verdantlabs/verdant/internal/server/websocket"
	"github.com/verdantlabs/verdant/internal/store"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	store      *store.Store
	cache      *cache.Cache
	bus        *events.Bus
	sseHandler *sse.Handler
	wsHub      *ws.Hub
	upgrader   websocket.Upgrader
	prefetcher *prefetch.Runner
	logger     *zerolog.Logger
	config     Config
	ctx        context.Context
	cancel     context.CancelFunc
}

// New creates a server around an existing content store.
func New(st *store.Store, cfg Config, logger *zerolog.Logger) *Server {
	if cfg.Heartbeat <= 0 {
		cfg.Heartbeat = sse.DefaultHeartbeat
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}

	bus := events.NewBus(logger)
	wsHub := ws.NewHub(logger)
	bus.Register(adapters.NewWebSocketSubscriber(wsHub))

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		store:      st,
		cache:      cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		bus:        bus,
		sseHandler: sse.NewHandler(bus, cfg.Heartbeat, logger),
		wsHub:      wsHub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		prefetcher: prefetch.New(cfg.PrefetchCommand, logger),
		logger:     logger,
		config:     cfg,
		ctx:        ctx,
		cancel:     cancel,
	}

	s.connectHooks()
	return s
}

// connectHooks bridges committed store mutations to the propagation
// pipeline: one broadcast and one prefetch trigger per change. The hook
// only enqueues; neither call blocks on the network or the external
// process.
func (s *Server) connectHooks() {
	s.store.OnChange(func(change content.Change) {
		s.bus.Broadcast(events.Update(change))
		s.prefetcher.Trigger(change.Reason())

		s.logger.Debug().
			Str("kind", string(change.Kind)).
			Str("action", string(change.Action)).
			Msg("Change event published")
	})
}

// Start launches the background transports.
func (s *Server) Start() {
	go s.wsHub.Run(s.ctx)
	s.logger.Info().Msg("Realtime transports started")
}

// Handler returns the configured http.Handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// Bus returns the event bus, mainly for tests.
func (s *Server) Bus() *events.Bus {
	return s.bus
}

// Prefetcher returns the prefetch runner, mainly for tests.
func (s *Server) Prefetcher() *prefetch.Runner {
	return s.prefetcher
}

// Shutdown stops background services and drops all subscribers.
func (s *Server) Shutdown(context.Context) error {
	s.logger.Info().Msg("Shutting down server background services")
	s.cancel()
	s.bus.Shutdown()
	return nil
}

// handleWebSocket upgrades a request onto the hub.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(uuid.New().String(), s.wsHub, conn)
	s.wsHub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
