package server

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/majkelowskiii/jack-of-all-trades/internal/blackjack"
	"github.com/majkelowskiii/jack-of-all-trades/internal/holdem"
)

// Server hosts the trainer HTTP API and a websocket snapshot stream.
// Both trainer tables are single-session: one blackjack session and
// one poker table per process.
type Server struct {
	cfg         *ServerConfig
	sessionID   string
	blackjack   *blackjack.Manager
	holdem      *holdem.Manager
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
}

// NewServer wires the trainer managers behind the HTTP API. The RNG
// seeds both tables' shuffles.
func NewServer(cfg *ServerConfig, logger *log.Logger, rng *rand.Rand) *Server {
	sessionID := uuid.New().String()
	serverLogger := logger.WithPrefix("server").With("session", sessionID)
	return &Server{
		cfg:       cfg,
		sessionID: sessionID,
		blackjack: blackjack.NewManager(logger, rng),
		holdem:    holdem.NewManager(logger, rng),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// local trainer, allow all origins
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      serverLogger,
	}
}

// Handler builds the route table. Exposed separately from Start so
// tests can drive the API through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/blackjack/table", s.handleBlackjackTable)
	mux.HandleFunc("POST /api/v1/blackjack/config", s.handleBlackjackConfig)
	mux.HandleFunc("POST /api/v1/blackjack/table/action", s.handleBlackjackAction)
	mux.HandleFunc("POST /api/v1/blackjack/table/next-hand", s.handleBlackjackNextHand)

	mux.HandleFunc("GET /api/v1/poker/table", s.handlePokerTable)
	mux.HandleFunc("POST /api/v1/poker/table/action", s.handlePokerAction)
	mux.HandleFunc("POST /api/v1/poker/table/next-hand", s.handlePokerNextHand)

	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /health", s.handleHealth)

	return mux
}

// Start runs the connection hub and the HTTP listener until the
// context is cancelled, then shuts the listener down gracefully.
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.cfg.GetServerAddress(),
		Handler: s.Handler(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.run(ctx)
		return nil
	})
	g.Go(func() error {
		s.logger.Info("starting trainer server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down")
		return httpServer.Shutdown(context.Background())
	})

	return g.Wait()
}

// run handles websocket connection lifecycle
func (s *Server) run(ctx context.Context) {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("client connected", "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.connections[conn]; ok {
				delete(s.connections, conn)
				_ = conn.Close()
			}
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("client disconnected", "total", total)

		case <-ctx.Done():
			s.mu.Lock()
			for conn := range s.connections {
				_ = conn.Close()
			}
			s.connections = make(map[*Connection]bool)
			s.mu.Unlock()
			return
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger)
	s.register <- client
	client.Start()

	go func() {
		<-client.Done()
		s.unregister <- client
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}

// broadcast pushes a snapshot update to every subscriber
func (s *Server) broadcast(msg []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for conn := range s.connections {
		if !conn.Send(msg) {
			s.logger.Warn("dropping update for slow client")
		}
	}
}
