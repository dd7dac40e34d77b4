package entity

import (
	"fmt"

	"github.com/rocketscienceinc/caro-backend/internal/apperror"
)

const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusGameOver = "gameover"

	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"

	EmptyCell = ""
)

// MoveOutcome is the result of a validated move.
type MoveOutcome int

const (
	OutcomeNext MoveOutcome = iota
	OutcomeWin
	OutcomeDraw
)

// Room represents one two-player match: the board, two positional slots, the
// lifecycle status and whose turn it is. Slot 0 is always X and moves first.
// Rooms are emptied and reused, never destroyed while the server runs.
type Room struct {
	ID       int
	Board    *Board
	Status   string
	Turn     int
	Moves    int
	Occupied [2]bool
}

func NewRoom(id int) *Room {
	return &Room{
		ID:     id,
		Board:  NewBoard(),
		Status: StatusWaiting,
	}
}

// Join - takes the lowest-indexed free slot and reports whether the room is
// now full, which starts the game.
func (that *Room) Join() (int, bool, error) {
	slot := -1

	for i := range that.Occupied {
		if !that.Occupied[i] {
			slot = i
			break
		}
	}

	if slot < 0 {
		return 0, false, apperror.ErrRoomFull
	}

	that.Occupied[slot] = true

	if that.OccupiedCount() == 2 {
		that.Status = StatusPlaying
		that.Turn = 0
		return slot, true, nil
	}

	return slot, false, nil
}

// Leave - clears a slot and reverts the room to a fresh waiting state. The
// board is always reset when a slot is lost, regardless of game progress.
func (that *Room) Leave(slot int) {
	that.Occupied[slot] = false
	that.Board.Reset()
	that.Status = StatusWaiting
	that.Turn = 0
	that.Moves = 0
}

func (that *Room) OccupiedCount() int {
	count := 0
	for _, occupied := range that.Occupied {
		if occupied {
			count++
		}
	}

	return count
}

func (that *Room) IsEmpty() bool {
	return that.OccupiedCount() == 0
}

func (that *Room) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Room) IsPlaying() bool {
	return that.Status == StatusPlaying
}

func (that *Room) IsGameOver() bool {
	return that.Status == StatusGameOver
}

// ApplyMove - validates and applies a move by the given slot, advancing the
// turn or ending the game. The turn check and the board write happen together,
// so callers serializing on the room cannot race two moves past each other.
func (that *Room) ApplyMove(slot, row, col int) (MoveOutcome, error) {
	if !that.IsPlaying() {
		return OutcomeNext, apperror.ErrGameNotStarted
	}

	if that.Turn != slot {
		return OutcomeNext, apperror.ErrNotYourTurn
	}

	if !that.Board.InBounds(row, col) {
		return OutcomeNext, fmt.Errorf("%w: %d,%d", apperror.ErrCellOutOfRange, row, col)
	}

	if that.Board.At(row, col) != CellEmpty {
		return OutcomeNext, apperror.ErrCellOccupied
	}

	that.Board.Place(row, col, MarkForSlot(slot))
	that.Moves++

	if that.Board.CheckWin(row, col) {
		that.Status = StatusGameOver
		return OutcomeWin, nil
	}

	if that.Board.IsFull() {
		that.Status = StatusGameOver
		return OutcomeDraw, nil
	}

	that.Turn = 1 - that.Turn

	return OutcomeNext, nil
}

// Surrender - ends the game in progress; the opponent becomes the winner.
func (that *Room) Surrender() error {
	if !that.IsPlaying() {
		return apperror.ErrGameNotStarted
	}

	that.Status = StatusGameOver

	return nil
}

// Restart - starts a fresh game in a finished room. Either slot may request
// it, there is no confirmation round-trip.
func (that *Room) Restart() error {
	if !that.IsGameOver() {
		return apperror.ErrGameNotFinished
	}

	that.Board.Reset()
	that.Status = StatusPlaying
	that.Turn = 0
	that.Moves = 0

	return nil
}

// MarkForSlot - the cell mark bound to a slot: slot 0 is X, slot 1 is O.
func MarkForSlot(slot int) Cell {
	if slot == 0 {
		return CellX
	}
	return CellO
}

// RoleForSlot - the player role string bound to a slot.
func RoleForSlot(slot int) string {
	return MarkForSlot(slot).Mark()
}

// LabelForSlot - the human label used in chat and disconnect notices.
func LabelForSlot(slot int) string {
	return fmt.Sprintf("Player %d", slot+1)
}
