package apperror

import "errors"

var (
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrCellOutOfRange  = errors.New("cell is out of range")
	ErrGameNotStarted  = errors.New("game is not started")
	ErrGameNotFinished = errors.New("game is not finished")
	ErrRoomFull        = errors.New("room already has two players")
	ErrWrongSecret     = errors.New("wrong shared secret")
)
