// Package transport streams render frames to websocket clients and feeds
// their input back into the simulation.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/beehive/game"
	"github.com/pthm-cable/beehive/systems"
)

const (
	writeTimeout = 5 * time.Second
	readTimeout  = 60 * time.Second
	maxMessage   = 4 * 1024
)

// InputSink accepts remote input. Enqueue must be safe for concurrent use.
type InputSink interface {
	Enqueue(ev systems.InputEvent) bool
}

// Server fans frames out to clients through per-client buffers. A client
// whose buffer is full misses frames instead of stalling the tick.
type Server struct {
	sink  InputSink
	world WorldInfo
	queue int

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[uint64]chan []byte
	nextID  atomic.Uint64

	droppedFrames atomic.Uint64
	droppedInputs atomic.Uint64
	badInputs     atomic.Uint64
}

// NewServer creates a server. queue is the per-client frame buffer.
// A nil sink drops all input until SetInputSink is called.
func NewServer(sink InputSink, world WorldInfo, queue int) *Server {
	if queue <= 0 {
		queue = 16
	}
	return &Server{
		sink:  sink,
		world: world,
		queue: queue,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
		clients: make(map[uint64]chan []byte),
	}
}

// SetInputSink replaces the input sink. Call it before serving; the game
// and the server each need the other at construction.
func (s *Server) SetInputSink(sink InputSink) {
	s.sink = sink
}

// Publish encodes f once and offers it to every client without blocking.
func (s *Server) Publish(f game.Frame) {
	b, err := json.Marshal(FrameMsg{Type: TypeFrame, Frame: f})
	if err != nil {
		slog.Error("encode frame", "tick", f.Tick, "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, out := range s.clients {
		select {
		case out <- b:
		default:
			s.droppedFrames.Add(1)
		}
	}
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// DroppedFrames returns how many frames slow clients missed.
func (s *Server) DroppedFrames() uint64 { return s.droppedFrames.Load() }

// DroppedInputs returns how many valid inputs the sink refused.
func (s *Server) DroppedInputs() uint64 { return s.droppedInputs.Load() }

// BadInputs returns how many client messages could not be decoded.
func (s *Server) BadInputs() uint64 { return s.badInputs.Load() }

func (s *Server) addClient(out chan []byte) uint64 {
	id := s.nextID.Add(1)
	s.mu.Lock()
	s.clients[id] = out
	s.mu.Unlock()
	return id
}

func (s *Server) removeClient(id uint64) {
	s.mu.Lock()
	delete(s.clients, id)
	s.mu.Unlock()
}

// Handler upgrades the request and serves one client until it disconnects.
func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.SetReadLimit(maxMessage)

		welcome, err := json.Marshal(WelcomeMsg{Type: TypeWelcome, World: s.world})
		if err != nil {
			return
		}
		out := make(chan []byte, s.queue)
		out <- welcome
		id := s.addClient(out)
		defer s.removeClient(id)
		slog.Info("client connected", "client", id, "remote", r.RemoteAddr)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine.
		writeErr := make(chan error, 1)
		go func() {
			for {
				select {
				case <-ctx.Done():
					writeErr <- ctx.Err()
					return
				case b := <-out:
					_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						writeErr <- err
						cancel()
						return
					}
				}
			}
		}()

		s.readInputs(conn, id)

		cancel()
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))

		// Best-effort wait for the writer to stop so it doesn't outlive conn.
		select {
		case <-writeErr:
		case <-time.After(500 * time.Millisecond):
		}
		slog.Info("client disconnected", "client", id)
	}
}

// readInputs forwards client input until the connection fails.
func (s *Server) readInputs(conn *websocket.Conn, id uint64) {
	for {
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("client read ended", "client", id, "error", err)
			}
			return
		}
		var in InputMsg
		if err := json.Unmarshal(msg, &in); err != nil {
			s.badInputs.Add(1)
			continue
		}
		ev, err := in.Event()
		if err != nil {
			s.badInputs.Add(1)
			slog.Debug("rejected input", "client", id, "error", err)
			continue
		}
		if s.sink == nil || !s.sink.Enqueue(ev) {
			s.droppedInputs.Add(1)
		}
	}
}

// ListenAndServe serves the websocket endpoint at /ws until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	slog.Info("transport listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
