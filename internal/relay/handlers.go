package relay

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/rocketscienceinc/caro-backend/internal/entity"
	"github.com/rocketscienceinc/caro-backend/internal/metrics"
	"github.com/rocketscienceinc/caro-backend/internal/protocol"
	"github.com/rocketscienceinc/caro-backend/internal/repository"
)

// handleMove - validates and applies a move. Invalid moves are dropped
// without a reply; the validation errors are only logged for operators.
func (that *Server) handleMove(ctx context.Context, log *slog.Logger, sess *session, slot int, payload string) {
	row, col, err := parseMove(payload)
	if err != nil {
		log.Debug("dropping malformed move", "payload", payload, "error", err)
		return
	}

	sess.mu.Lock()

	outcome, err := sess.room.ApplyMove(slot, row, col)
	if err != nil {
		sess.mu.Unlock()
		log.Debug("dropping invalid move", "row", row, "col", col, "error", err)
		return
	}

	metrics.MovesTotal.Inc()
	sess.broadcast(protocol.CmdMove, fmt.Sprintf("%d,%d,%d", row, col, slot))

	roomID := sess.room.ID
	moves := sess.room.Moves
	role := entity.RoleForSlot(slot)

	var record *repository.MatchRecord

	switch outcome {
	case entity.OutcomeWin:
		reason := fmt.Sprintf("Player %s wins!", role)
		sess.broadcast(protocol.CmdGameOver, reason)
		metrics.GamesFinished.WithLabelValues("win").Inc()
		record = newMatchRecord(roomID, role, reason, moves)
	case entity.OutcomeDraw:
		reason := "Draw!"
		sess.broadcast(protocol.CmdGameOver, reason)
		metrics.GamesFinished.WithLabelValues("draw").Inc()
		record = newMatchRecord(roomID, entity.PlayerTie, reason, moves)
	}

	nextRole := entity.RoleForSlot(sess.room.Turn)
	sess.mu.Unlock()

	if record == nil {
		that.report(fmt.Sprintf("Room %d: Player %s's turn", roomID, nextRole))
		return
	}

	that.report(fmt.Sprintf("Room %d: %s", roomID, record.Reason))
	that.recordMatch(ctx, log, record)
}

// handleChat - relays a chat line to both slots, labeled by sender.
func (that *Server) handleChat(sess *session, slot int, payload string) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.broadcast(protocol.CmdChat, fmt.Sprintf("%s: %s", entity.LabelForSlot(slot), payload))
}

// handleSurrender - ends the game in the opponent's favor, vacates the
// sender's slot and reports whether the sender's loop should terminate.
func (that *Server) handleSurrender(ctx context.Context, log *slog.Logger, sess *session, slot int) bool {
	sess.mu.Lock()

	if err := sess.room.Surrender(); err != nil {
		sess.mu.Unlock()
		log.Debug("dropping surrender", "error", err)
		return false
	}

	role := entity.RoleForSlot(slot)
	reason := fmt.Sprintf("Player %s surrendered!", role)
	sess.broadcast(protocol.CmdGameOver, reason)
	metrics.GamesFinished.WithLabelValues("surrender").Inc()

	record := newMatchRecord(sess.room.ID, entity.RoleForSlot(1-slot), reason, sess.room.Moves)

	sess.slots[slot] = nil
	sess.room.Leave(slot)

	if remaining := sess.slots[1-slot]; remaining != nil {
		_ = remaining.send(protocol.CmdWaitForOpponent, "Waiting for an opponent...")
	}

	roomID := sess.room.ID
	sess.mu.Unlock()

	that.report(fmt.Sprintf("Room %d: %s", roomID, reason))
	that.recordMatch(ctx, log, record)

	return true
}

// handleRestart - starts a fresh game in a finished room on either player's
// request.
func (that *Server) handleRestart(log *slog.Logger, sess *session, slot int) {
	sess.mu.Lock()

	if err := sess.room.Restart(); err != nil {
		sess.mu.Unlock()
		log.Debug("dropping restart", "slot", slot, "error", err)
		return
	}

	sess.broadcast(protocol.CmdRestart, "")

	roomID := sess.room.ID
	sess.mu.Unlock()

	that.report(fmt.Sprintf("Room %d: Game restarted. Player X's turn.", roomID))
}

func (that *Server) recordMatch(ctx context.Context, log *slog.Logger, record *repository.MatchRecord) {
	if that.matches == nil {
		return
	}

	if err := that.matches.Record(ctx, record); err != nil {
		log.Error("failed to record match", "error", err)
	}
}

func newMatchRecord(roomID int, winner, reason string, moves int) *repository.MatchRecord {
	return &repository.MatchRecord{
		RoomID:     roomID,
		Winner:     winner,
		Reason:     reason,
		Moves:      moves,
		FinishedAt: time.Now().UTC(),
	}
}

func parseMove(payload string) (int, int, error) {
	rowPart, colPart, found := strings.Cut(payload, ",")
	if !found {
		return 0, 0, fmt.Errorf("missing coordinate separator in %q", payload)
	}

	row, err := strconv.Atoi(strings.TrimSpace(rowPart))
	if err != nil {
		return 0, 0, fmt.Errorf("bad row: %w", err)
	}

	col, err := strconv.Atoi(strings.TrimSpace(colPart))
	if err != nil {
		return 0, 0, fmt.Errorf("bad column: %w", err)
	}

	return row, col, nil
}
