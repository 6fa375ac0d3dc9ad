// Package ws runs a simulation loop and streams world snapshots to websocket
// clients. Clients may pause, resume, single-step or reset the simulation.
package ws

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"clothsim/internal/physics"

	"github.com/gorilla/websocket"
)

const (
	DefaultUpdateInterval = 50 * time.Millisecond
	commandQueueSize      = 64
)

// WorldFactory builds a fresh world. It is called once on startup and again on
// every reset command.
type WorldFactory func() (*physics.World, error)

// Server owns the world. Only the goroutine running Run touches it; connection
// handlers talk to it through the command queue and read the latest snapshot.
type Server struct {
	upgrader websocket.Upgrader
	factory  WorldFactory
	world    *physics.World
	interval time.Duration
	substeps int
	logger   *log.Logger

	commands chan string

	clientsMu sync.RWMutex
	clients   map[*SafeWriter]struct{}

	latestMu sync.RWMutex
	latest   *StateMessage
}

type Option func(*Server)

func WithUpdateInterval(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithSubsteps sets how many ticks run per update interval.
func WithSubsteps(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.substeps = n
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewServer(factory WorldFactory, opts ...Option) (*Server, error) {
	s := &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		factory:  factory,
		interval: DefaultUpdateInterval,
		substeps: 1,
		logger:   log.Default(),
		commands: make(chan string, commandQueueSize),
		clients:  make(map[*SafeWriter]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	w, err := factory()
	if err != nil {
		return nil, fmt.Errorf("build world: %w", err)
	}
	s.world = w
	s.publish()
	return s, nil
}

// HandleWS upgrades the request, sends the latest state and then forwards the
// client's commands until it disconnects.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("[WSServer] upgrade error: %v", err)
		return
	}

	client := NewSafeWriter(conn)
	defer func() {
		s.removeClient(client)
		client.Close()
	}()

	if err := client.WriteJSON(NewInfoMessage("connected to clothsim")); err != nil {
		s.logger.Printf("[WSServer] error sending welcome message: %v", err)
		return
	}
	if err := client.WriteJSON(s.Latest()); err != nil {
		s.logger.Printf("[WSServer] error sending state: %v", err)
		return
	}
	s.addClient(client)
	s.logger.Printf("[WSServer] client connected from %s", conn.RemoteAddr())

	for {
		_, data, err := client.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Printf("[WSServer] read error: %v", err)
			}
			break
		}

		msg, err := ParseMessage(data)
		if err != nil {
			s.logger.Printf("[WSServer] %v", err)
			continue
		}
		cmd, ok := msg.(*CommandMessage)
		if !ok {
			continue
		}
		select {
		case s.commands <- cmd.Command:
		default:
			s.logger.Printf("[WSServer] command queue full, dropping %q", cmd.Command)
		}
	}

	s.logger.Printf("[WSServer] client disconnected: %s", conn.RemoteAddr())
}

// Run advances the world every update interval and broadcasts the result. It
// returns when ctx is cancelled, closing every client.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer s.closeClients()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-s.commands:
			if err := s.apply(cmd); err != nil {
				s.logger.Printf("[WSServer] command %q: %v", cmd, err)
			}
			s.publish()
			s.broadcast()
		case <-ticker.C:
			for i := 0; i < s.substeps; i++ {
				s.world.AdvanceTick()
			}
			s.publish()
			s.broadcast()
		}
	}
}

func (s *Server) apply(cmd string) error {
	switch cmd {
	case CommandPause:
		s.world.Paused = true
	case CommandResume:
		s.world.Paused = false
	case CommandStep:
		paused := s.world.Paused
		s.world.Paused = false
		s.world.AdvanceTick()
		s.world.Paused = paused
	case CommandReset:
		w, err := s.factory()
		if err != nil {
			return err
		}
		w.Paused = s.world.Paused
		s.world = w
	default:
		return errors.New("unknown command")
	}
	return nil
}

func (s *Server) publish() {
	msg := NewStateMessage(s.world.Snapshot(), s.world.Paused)
	s.latestMu.Lock()
	s.latest = msg
	s.latestMu.Unlock()
}

// Latest is the most recent published state.
func (s *Server) Latest() *StateMessage {
	s.latestMu.RLock()
	defer s.latestMu.RUnlock()
	return s.latest
}

func (s *Server) broadcast() {
	msg := s.Latest()

	s.clientsMu.RLock()
	clients := make([]*SafeWriter, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.clientsMu.RUnlock()

	for _, c := range clients {
		if err := c.WriteJSON(msg); err != nil {
			s.logger.Printf("[WSServer] dropping client: %v", err)
			s.removeClient(c)
			c.Close()
		}
	}
}

func (s *Server) addClient(c *SafeWriter) {
	s.clientsMu.Lock()
	s.clients[c] = struct{}{}
	s.clientsMu.Unlock()
}

func (s *Server) removeClient(c *SafeWriter) {
	s.clientsMu.Lock()
	delete(s.clients, c)
	s.clientsMu.Unlock()
}

func (s *Server) ClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

func (s *Server) closeClients() {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for c := range s.clients {
		c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		c.Close()
		delete(s.clients, c)
	}
}
