package entities

import (
	"errors"

	"routeScope/internal/fullmath"
	"routeScope/internal/tickmath"
)

var (
	ErrInvalidDenominator = errors.New("invalid denominator")
	ErrDivisionByZero     = fullmath.ErrDivisionByZero

	ErrTickOutOfBounds  = tickmath.ErrTickOutOfBounds
	ErrPriceOutOfBounds = tickmath.ErrPriceOutOfBounds
	ErrInvalidTick      = errors.New("invalid tick")
	ErrInvalidTickList  = errors.New("invalid tick list")

	ErrChainMismatch          = errors.New("chain id mismatch")
	ErrPathMismatch           = errors.New("pool path mismatch")
	ErrInputCurrencyMismatch  = errors.New("input currency mismatch")
	ErrOutputCurrencyMismatch = errors.New("output currency mismatch")
	ErrCurrencyMismatch       = errors.New("currency mismatch")
	ErrDuplicatePools         = errors.New("duplicate pools")
	ErrNoPools                = errors.New("no pools")

	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrNegativeSlippage      = errors.New("negative slippage tolerance")

	ErrInvalidAddress   = errors.New("invalid address")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrUnknownChain     = errors.New("unknown chain")
	ErrInvalidOption    = errors.New("invalid option")
	ErrMultipleRoutes   = errors.New("trade has multiple routes")
	ErrInvalidTradeType = errors.New("invalid trade type")
)
