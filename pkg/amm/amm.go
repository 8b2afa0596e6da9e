/*
Package amm computes constant-product swap quotes for the Coconut liquidity
pool. The formula matches the one the contract applies on swapTokens, so a
quote taken against the current reserves is exactly what a swap sent in the
same block would return.
*/
package amm

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// MaxSlippageBPS is 100% expressed in basis points.
const MaxSlippageBPS = 10000

var (
	// ErrInsufficientLiquidity is returned when the pool can't pay anything
	// for the input given.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	// ErrSlippageExceeded is returned by Check when the quote is below the
	// requested minimum.
	ErrSlippageExceeded = errors.New("slippage tolerance exceeded")
	// ErrOutOfRange is returned for negative values and values not fitting
	// into 256 bits.
	ErrOutOfRange = errors.New("amount out of range")
)

// Reserves is the pool state relevant for pricing.
type Reserves struct {
	Coco *big.Int
	Usdc *big.Int
}

// Quote returns the output amount for the given input:
// out = in * reserveOut / (reserveIn + in).
func Quote(amountIn, reserveIn, reserveOut *big.Int) (*big.Int, error) {
	in, err := toU256(amountIn)
	if err != nil {
		return nil, fmt.Errorf("amount in: %w", err)
	}
	rIn, err := toU256(reserveIn)
	if err != nil {
		return nil, fmt.Errorf("reserve in: %w", err)
	}
	rOut, err := toU256(reserveOut)
	if err != nil {
		return nil, fmt.Errorf("reserve out: %w", err)
	}
	if rOut.IsZero() {
		return nil, ErrInsufficientLiquidity
	}
	denom, overflow := new(uint256.Int).AddOverflow(rIn, in)
	if overflow {
		return nil, ErrOutOfRange
	}
	if denom.IsZero() {
		return nil, ErrInsufficientLiquidity
	}
	out, overflow := new(uint256.Int).MulDivOverflow(in, rOut, denom)
	if overflow {
		return nil, ErrOutOfRange
	}
	return out.ToBig(), nil
}

// QuoteSwap quotes a swap in the given direction, cocoIn means COCO is sold
// for USDC.
func (r Reserves) QuoteSwap(cocoIn bool, amountIn *big.Int) (*big.Int, error) {
	if cocoIn {
		return Quote(amountIn, r.Coco, r.Usdc)
	}
	return Quote(amountIn, r.Usdc, r.Coco)
}

// MinOut applies the slippage tolerance (in basis points) to the quoted
// amount, rounding down.
func MinOut(quoted *big.Int, slippageBPS uint) (*big.Int, error) {
	if slippageBPS > MaxSlippageBPS {
		return nil, fmt.Errorf("slippage %d bps exceeds %d", slippageBPS, MaxSlippageBPS)
	}
	q, err := toU256(quoted)
	if err != nil {
		return nil, err
	}
	res, overflow := new(uint256.Int).MulDivOverflow(q,
		uint256.NewInt(uint64(MaxSlippageBPS-slippageBPS)), uint256.NewInt(MaxSlippageBPS))
	if overflow {
		return nil, ErrOutOfRange
	}
	return res.ToBig(), nil
}

// Check returns ErrSlippageExceeded if out is below minOut.
func Check(out, minOut *big.Int) error {
	if out.Cmp(minOut) < 0 {
		return fmt.Errorf("%w: got %s, want at least %s", ErrSlippageExceeded, out, minOut)
	}
	return nil
}

func toU256(v *big.Int) (*uint256.Int, error) {
	if v == nil {
		return new(uint256.Int), nil
	}
	if v.Sign() < 0 {
		return nil, ErrOutOfRange
	}
	u, overflow := uint256.FromBig(v)
	if overflow {
		return nil, ErrOutOfRange
	}
	return u, nil
}
