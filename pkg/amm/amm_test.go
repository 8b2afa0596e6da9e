package amm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuote(t *testing.T) {
	testCases := []struct {
		in, rIn, rOut int64
		out           int64
	}{
		{100, 1000, 1000, 90},
		{1000, 1000, 1000, 500},
		{1, 1000, 1000, 0},
		{50, 0, 700, 700},
		{0, 10, 10, 0},
	}
	for _, tc := range testCases {
		out, err := Quote(big.NewInt(tc.in), big.NewInt(tc.rIn), big.NewInt(tc.rOut))
		require.NoError(t, err)
		require.Equal(t, tc.out, out.Int64(), "in=%d rIn=%d rOut=%d", tc.in, tc.rIn, tc.rOut)
	}
}

func TestQuoteWide(t *testing.T) {
	maxU64 := new(big.Int).SetUint64(^uint64(0))
	out, err := Quote(maxU64, maxU64, maxU64)
	require.NoError(t, err)
	exp := new(big.Int).Rsh(maxU64, 1)
	require.Equal(t, 0, exp.Cmp(out))
}

func TestQuoteErrors(t *testing.T) {
	_, err := Quote(big.NewInt(1), big.NewInt(10), big.NewInt(0))
	require.ErrorIs(t, err, ErrInsufficientLiquidity)

	_, err = Quote(big.NewInt(0), big.NewInt(0), big.NewInt(10))
	require.ErrorIs(t, err, ErrInsufficientLiquidity)

	_, err = Quote(big.NewInt(-1), big.NewInt(10), big.NewInt(10))
	require.ErrorIs(t, err, ErrOutOfRange)

	huge := new(big.Int).Lsh(big.NewInt(1), 256)
	_, err = Quote(big.NewInt(1), huge, big.NewInt(10))
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestQuoteSwap(t *testing.T) {
	r := Reserves{Coco: big.NewInt(2000), Usdc: big.NewInt(1000)}

	out, err := r.QuoteSwap(true, big.NewInt(2000))
	require.NoError(t, err)
	require.Equal(t, int64(500), out.Int64())

	out, err = r.QuoteSwap(false, big.NewInt(1000))
	require.NoError(t, err)
	require.Equal(t, int64(1000), out.Int64())
}

func TestMinOut(t *testing.T) {
	m, err := MinOut(big.NewInt(1000), 50)
	require.NoError(t, err)
	require.Equal(t, int64(995), m.Int64())

	m, err = MinOut(big.NewInt(999), 0)
	require.NoError(t, err)
	require.Equal(t, int64(999), m.Int64())

	m, err = MinOut(big.NewInt(999), MaxSlippageBPS)
	require.NoError(t, err)
	require.Equal(t, int64(0), m.Int64())

	_, err = MinOut(big.NewInt(1), MaxSlippageBPS+1)
	require.Error(t, err)
}

func TestCheck(t *testing.T) {
	require.NoError(t, Check(big.NewInt(10), big.NewInt(10)))
	require.ErrorIs(t, Check(big.NewInt(9), big.NewInt(10)), ErrSlippageExceeded)
}
