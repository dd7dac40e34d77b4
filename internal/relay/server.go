package relay

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/rocketscienceinc/caro-backend/internal/entity"
	"github.com/rocketscienceinc/caro-backend/internal/metrics"
	"github.com/rocketscienceinc/caro-backend/internal/protocol"
	"github.com/rocketscienceinc/caro-backend/internal/repository"
)

// matchRecorder persists the outcome of finished games.
type matchRecorder interface {
	Record(ctx context.Context, match *repository.MatchRecord) error
}

// StatusReport is a point-in-time summary of the server for its HTTP surface.
type StatusReport struct {
	Running     bool `json:"running"`
	Rooms       int  `json:"rooms"`
	ActiveRooms int  `json:"active_rooms"`
	Connections int  `json:"connections"`
}

// Server accepts game connections, gates them behind the shared secret,
// matches them into rooms and runs one message loop per connection.
type Server struct {
	logger  *slog.Logger
	matches matchRecorder
	notify  func(status string)

	gate *gatekeeper
	mm   *matchmaker

	mu       sync.Mutex
	listener net.Listener
	conns    map[*client]struct{}
	running  bool
}

// New - builds a server. notify is the optional status callback for the UI
// collaborator; pass nil to rely on logs only.
func New(logger *slog.Logger, secret string, matches matchRecorder, notify func(status string)) *Server {
	return &Server{
		logger:  logger.With("component", "relay"),
		matches: matches,
		notify:  notify,
		gate:    newGatekeeper(logger, secret),
		mm:      newMatchmaker(),
		conns:   make(map[*client]struct{}),
	}
}

// Start - listens on the port and serves connections until the context is
// canceled or Stop is called.
func (that *Server) Start(ctx context.Context, port string) error {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", port, err)
	}

	that.mu.Lock()
	if that.running {
		that.mu.Unlock()
		_ = listener.Close()
		return nil
	}
	that.listener = listener
	that.running = true
	that.mu.Unlock()

	that.report(fmt.Sprintf("Server Status: Running on port %s", port))

	go func() {
		<-ctx.Done()
		that.Stop()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if !that.isRunning() {
				return nil
			}
			return fmt.Errorf("failed to accept connection: %w", err)
		}

		go that.handleConn(ctx, conn)
	}
}

// Stop - best-effort shutdown notice to every connection, then closes
// everything and clears the session registry. Idempotent.
func (that *Server) Stop() {
	that.mu.Lock()
	if !that.running {
		that.mu.Unlock()
		return
	}
	that.running = false

	listener := that.listener
	that.listener = nil

	conns := make([]*client, 0, len(that.conns))
	for cl := range that.conns {
		conns = append(conns, cl)
	}
	that.mu.Unlock()

	if listener != nil {
		_ = listener.Close()
	}

	// failures here are swallowed: the server is tearing down anyway
	for _, cl := range conns {
		_ = cl.send(protocol.CmdStopServer, "Server is shutting down")
	}
	for _, cl := range conns {
		cl.close()
	}

	that.mm.clear()
	that.report("Server Status: Not Running")
}

// Addr - the bound listen address, empty when not running.
func (that *Server) Addr() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.listener == nil {
		return ""
	}

	return that.listener.Addr().String()
}

// Snapshot - summary for the HTTP status endpoint.
func (that *Server) Snapshot() StatusReport {
	rooms, playing := that.mm.snapshot()

	that.mu.Lock()
	defer that.mu.Unlock()

	return StatusReport{
		Running:     that.running,
		Rooms:       rooms,
		ActiveRooms: playing,
		Connections: len(that.conns),
	}
}

func (that *Server) isRunning() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.running
}

func (that *Server) report(status string) {
	that.logger.Info(status)

	if that.notify != nil {
		that.notify(status)
	}
}

func (that *Server) track(cl *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.conns[cl] = struct{}{}
}

func (that *Server) untrack(cl *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.conns, cl)
}

// handleConn - the per-connection worker: gatekeeping, matchmaking, then the
// message loop until the stream closes.
func (that *Server) handleConn(ctx context.Context, conn net.Conn) {
	log := that.logger.With("remote", conn.RemoteAddr().String())

	metrics.TotalConnections.Inc()
	metrics.ActiveConnections.Inc()
	defer metrics.ActiveConnections.Dec()

	cl := newClient(conn)
	that.track(cl)
	defer that.untrack(cl)
	defer cl.close()

	if err := that.gate.admit(cl); err != nil {
		log.Info("connection rejected", "error", err)
		return
	}

	sess, slot, started := that.mm.assign(cl)
	log = log.With("room", sess.room.ID, "slot", slot)

	that.report(fmt.Sprintf("Player joined Room %d. Players: %d/2", sess.room.ID, sess.occupiedCount()))
	if started {
		that.report(fmt.Sprintf("Room %d: Game started. Player X's turn.", sess.room.ID))
	}

	that.serve(ctx, log, cl, sess, slot)
	that.handleLeave(sess, slot, cl)
}

// serve - reads framed messages and dispatches them until the stream closes
// or a command terminates the binding.
func (that *Server) serve(ctx context.Context, log *slog.Logger, cl *client, sess *session, slot int) {
	for {
		line, err := cl.readLine()

		if len(line) > 0 {
			for _, msg := range protocol.Decode(line) {
				if quit := that.dispatch(ctx, log, sess, slot, msg); quit {
					return
				}
			}
		}

		if err != nil {
			return
		}
	}
}

func (that *Server) dispatch(ctx context.Context, log *slog.Logger, sess *session, slot int, msg protocol.Message) bool {
	switch msg.Command {
	case protocol.CmdMove:
		that.handleMove(ctx, log, sess, slot, msg.Payload)
	case protocol.CmdChat:
		that.handleChat(sess, slot, msg.Payload)
	case protocol.CmdSurrender:
		return that.handleSurrender(ctx, log, sess, slot)
	case protocol.CmdRestart:
		that.handleRestart(log, sess, slot)
	case protocol.CmdDisconnect:
		return true
	default:
		log.Debug("dropping unknown command", "command", msg.Command)
	}

	return false
}

// handleLeave - clears the worker's slot after its loop ends. A slot already
// vacated (surrender) is left alone, and so is everything during shutdown,
// when Stop owns the teardown.
func (that *Server) handleLeave(sess *session, slot int, cl *client) {
	if !that.isRunning() {
		return
	}

	sess.mu.Lock()

	if sess.slots[slot] != cl {
		sess.mu.Unlock()
		return
	}

	sess.slots[slot] = nil
	sess.room.Leave(slot)

	if remaining := sess.slots[1-slot]; remaining != nil {
		_ = remaining.send(protocol.CmdDisconnect, entity.LabelForSlot(slot)+" disconnected")
		_ = remaining.send(protocol.CmdWaitForOpponent, "Waiting for an opponent...")
	}

	count := sess.room.OccupiedCount()
	sess.mu.Unlock()

	that.report(fmt.Sprintf("Room %d: Player disconnected. %d/2 players.", sess.room.ID, count))
}
