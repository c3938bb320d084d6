package engine

import "errors"

var (
	// ErrInsufficientFunds is returned when the balance does not cover a spin.
	// The player has already been notified through the Prompter.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrSpinInProgress is returned for requests made while a spin or a
	// Mega-Wild move is in flight. Callers drop it silently.
	ErrSpinInProgress = errors.New("spin in progress")

	// ErrBonusActive is returned for bonus purchases while a bonus runs.
	ErrBonusActive = errors.New("bonus already active")
)
