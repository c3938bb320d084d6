package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BetLimits bounds the adjustable bet.
type BetLimits struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Step decimal.Decimal
}

// Session is the player's wallet and stake for one play session.
type Session struct {
	ID      string
	Balance decimal.Decimal
	Bet     decimal.Decimal
	Limits  BetLimits
}

// NewSession starts a session with the given opening balance and bet.
// The bet is clamped into limits.
func NewSession(balance, bet decimal.Decimal, limits BetLimits) *Session {
	s := &Session{
		ID:      uuid.NewString(),
		Balance: balance.Round(2),
		Limits:  limits,
	}
	s.Bet = s.clamp(bet)
	return s
}

// CanAfford reports whether the balance covers amount.
func (s *Session) CanAfford(amount decimal.Decimal) bool {
	return s.Balance.GreaterThanOrEqual(amount)
}

// Debit removes amount from the balance. It returns false and leaves the
// balance untouched when funds are short.
func (s *Session) Debit(amount decimal.Decimal) bool {
	if !s.CanAfford(amount) {
		return false
	}
	s.Balance = s.Balance.Sub(amount).Round(2)
	return true
}

// Credit adds amount, rounded to cents, to the balance and returns the
// credited value.
func (s *Session) Credit(amount decimal.Decimal) decimal.Decimal {
	amount = amount.Round(2)
	if amount.IsPositive() {
		s.Balance = s.Balance.Add(amount)
	}
	return amount
}

// AdjustBet moves the bet by steps increments, clamped to the limits.
// It reports whether the bet changed.
func (s *Session) AdjustBet(steps int) bool {
	next := s.clamp(s.Bet.Add(s.Limits.Step.Mul(decimal.NewFromInt(int64(steps)))))
	if next.Equal(s.Bet) {
		return false
	}
	s.Bet = next
	return true
}

func (s *Session) clamp(bet decimal.Decimal) decimal.Decimal {
	bet = bet.Round(2)
	if bet.LessThan(s.Limits.Min) {
		return s.Limits.Min
	}
	if bet.GreaterThan(s.Limits.Max) {
		return s.Limits.Max
	}
	return bet
}
