package model

import "errors"

var (
	ErrOutOfBounds         = errors.New("coordinate out of bounds")
	ErrEmptySource         = errors.New("no piece at source square")
	ErrIllegalMove         = errors.New("illegal move")
	ErrUnresolvedPromotion = errors.New("promotion piece not chosen")
	ErrMalformedNotation   = errors.New("malformed move notation")
	ErrGameEnded           = errors.New("game has ended")

	// ErrPromotionPending is returned by MovePiece while a pawn on the back
	// rank is still waiting for its promotion piece.
	ErrPromotionPending = errors.New("promotion pending")
	ErrInvalidPromotion = errors.New("invalid promotion piece")
	ErrOutOfTurn        = errors.New("not this color's turn")
)
