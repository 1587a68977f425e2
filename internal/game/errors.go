package game

import "errors"

var (
	ErrDeckExhausted     = errors.New("deck exhausted")
	ErrInvalidChoice     = errors.New("invalid choice")
	ErrInvalidBet        = errors.New("invalid bet")
	ErrInvalidTransition = errors.New("invalid turn transition")
	ErrBetMismatch       = errors.New("bets do not match players")
)
