package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/caro-backend/internal/apperror"
)

func newPlayingRoom(t *testing.T) *Room {
	t.Helper()

	room := NewRoom(0)

	slot, started, err := room.Join()
	require.NoError(t, err)
	require.Equal(t, 0, slot)
	require.False(t, started)

	slot, started, err = room.Join()
	require.NoError(t, err)
	require.Equal(t, 1, slot)
	require.True(t, started)

	return room
}

func TestRoom_Join(t *testing.T) {
	t.Run("First joiner takes slot 0 and waits", func(t *testing.T) {
		// Given: a fresh room
		room := NewRoom(0)

		// When: one player joins
		slot, started, err := room.Join()

		// Then: they hold slot 0 and the room keeps waiting
		require.NoError(t, err)
		assert.Equal(t, 0, slot)
		assert.False(t, started)
		assert.True(t, room.IsWaiting())
	})

	t.Run("Second joiner fills slot 1 and starts the game", func(t *testing.T) {
		room := newPlayingRoom(t)

		assert.True(t, room.IsPlaying())
		assert.Equal(t, 0, room.Turn)
	})

	t.Run("Third joiner is rejected", func(t *testing.T) {
		room := newPlayingRoom(t)

		_, _, err := room.Join()

		require.ErrorIs(t, err, apperror.ErrRoomFull)
		assert.Equal(t, 2, room.OccupiedCount())
	})

	t.Run("Freed slot is taken again at the lowest index", func(t *testing.T) {
		// Given: a full room that lost its first player
		room := newPlayingRoom(t)
		room.Leave(0)

		// When: a new player joins
		slot, started, err := room.Join()

		// Then: they take slot 0 and the game starts again
		require.NoError(t, err)
		assert.Equal(t, 0, slot)
		assert.True(t, started)
	})
}

func TestRoom_ApplyMove(t *testing.T) {
	t.Run("Move before the game starts is rejected", func(t *testing.T) {
		room := NewRoom(0)

		_, err := room.ApplyMove(0, 7, 7)

		require.ErrorIs(t, err, apperror.ErrGameNotStarted)
	})

	t.Run("Out of turn move is rejected", func(t *testing.T) {
		room := newPlayingRoom(t)

		// When: slot 1 tries to move first
		_, err := room.ApplyMove(1, 7, 7)

		// Then: the move is rejected and the board stays empty
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, CellEmpty, room.Board.At(7, 7))
	})

	t.Run("Out of range move is rejected", func(t *testing.T) {
		room := newPlayingRoom(t)

		_, err := room.ApplyMove(0, -1, 7)
		require.ErrorIs(t, err, apperror.ErrCellOutOfRange)

		_, err = room.ApplyMove(0, 7, BoardSize)
		require.ErrorIs(t, err, apperror.ErrCellOutOfRange)
	})

	t.Run("Occupied cell is never overwritten", func(t *testing.T) {
		// Given: slot 0 already played 7,7
		room := newPlayingRoom(t)
		_, err := room.ApplyMove(0, 7, 7)
		require.NoError(t, err)

		// When: slot 1 targets the same cell
		_, err = room.ApplyMove(1, 7, 7)

		// Then: the move is rejected and the mark stays
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, CellX, room.Board.At(7, 7))
	})

	t.Run("Turn alternates between slots", func(t *testing.T) {
		room := newPlayingRoom(t)

		outcome, err := room.ApplyMove(0, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, OutcomeNext, outcome)
		assert.Equal(t, 1, room.Turn)

		outcome, err = room.ApplyMove(1, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, OutcomeNext, outcome)
		assert.Equal(t, 0, room.Turn)

		// Then: the same slot can never move twice in a row
		_, err = room.ApplyMove(1, 2, 0)
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("Fifth in a row wins and ends the game", func(t *testing.T) {
		// Given: slot 0 building a row with slot 1 answering elsewhere
		room := newPlayingRoom(t)
		for i := 0; i < 4; i++ {
			_, err := room.ApplyMove(0, 7, 7+i)
			require.NoError(t, err)
			_, err = room.ApplyMove(1, 0, i)
			require.NoError(t, err)
		}

		// When: slot 0 places the fifth mark in the row
		outcome, err := room.ApplyMove(0, 7, 11)

		// Then: the game is over with a win
		require.NoError(t, err)
		assert.Equal(t, OutcomeWin, outcome)
		assert.True(t, room.IsGameOver())
		assert.Equal(t, 9, room.Moves)

		// Then: no further move is accepted
		_, err = room.ApplyMove(1, 0, 10)
		require.ErrorIs(t, err, apperror.ErrGameNotStarted)
	})
}

func TestRoom_DrawOnFullBoard(t *testing.T) {
	// Given: a game with every cell filled except the last, in a coloring
	// that contains no five in a row
	room := newPlayingRoom(t)
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if row == BoardSize-1 && col == BoardSize-1 {
				continue
			}
			room.Board.Place(row, col, drawPattern(row, col))
		}
	}

	// When: the owner of the last cell's mark fills it
	room.Turn = 1

	outcome, err := room.ApplyMove(1, BoardSize-1, BoardSize-1)

	// Then: the game ends in a draw
	require.NoError(t, err)
	assert.Equal(t, OutcomeDraw, outcome)
	assert.True(t, room.IsGameOver())
}

func TestRoom_Surrender(t *testing.T) {
	t.Run("Surrender ends a game in progress", func(t *testing.T) {
		room := newPlayingRoom(t)

		require.NoError(t, room.Surrender())
		assert.True(t, room.IsGameOver())
	})

	t.Run("Surrender outside a game is rejected", func(t *testing.T) {
		room := NewRoom(0)

		require.ErrorIs(t, room.Surrender(), apperror.ErrGameNotStarted)
	})
}

func TestRoom_Restart(t *testing.T) {
	t.Run("Restart clears the board and hands the turn to slot 0", func(t *testing.T) {
		// Given: a finished game with marks on the board
		room := newPlayingRoom(t)
		_, err := room.ApplyMove(0, 3, 3)
		require.NoError(t, err)
		require.NoError(t, room.Surrender())

		// When: either side requests a restart
		require.NoError(t, room.Restart())

		// Then: the board is empty, slot 0 moves first, the game is on
		assert.True(t, room.IsPlaying())
		assert.Equal(t, 0, room.Turn)
		assert.Equal(t, 0, room.Moves)
		for row := 0; row < BoardSize; row++ {
			for col := 0; col < BoardSize; col++ {
				require.Equal(t, CellEmpty, room.Board.At(row, col))
			}
		}
	})

	t.Run("Restart of an unfinished game is rejected", func(t *testing.T) {
		room := newPlayingRoom(t)

		require.ErrorIs(t, room.Restart(), apperror.ErrGameNotFinished)
	})
}

func TestRoom_Leave(t *testing.T) {
	// Given: a game in progress with marks on the board
	room := newPlayingRoom(t)
	_, err := room.ApplyMove(0, 7, 7)
	require.NoError(t, err)

	// When: slot 1 leaves
	room.Leave(1)

	// Then: the room survives as an empty-board waiting room
	assert.True(t, room.IsWaiting())
	assert.Equal(t, 1, room.OccupiedCount())
	assert.Equal(t, CellEmpty, room.Board.At(7, 7))
	assert.Equal(t, 0, room.ID)
}

func TestRoleForSlot(t *testing.T) {
	assert.Equal(t, PlayerX, RoleForSlot(0))
	assert.Equal(t, PlayerO, RoleForSlot(1))
	assert.Equal(t, "Player 1", LabelForSlot(0))
	assert.Equal(t, "Player 2", LabelForSlot(1))
}
