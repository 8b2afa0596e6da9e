package rwa

import (
	"fmt"
	"math/big"

	"github.com/coconut-rwa/coconut/cli/options"
	"github.com/coconut-rwa/coconut/pkg/amm"
	"github.com/coconut-rwa/coconut/pkg/coconut"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

// DefaultSlippageBPS is the swap slippage tolerance used when neither
// --min-out nor --slippage is given.
const DefaultSlippageBPS = 50

var swapFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "usdc-in",
		Usage: "swap USDC for COCO instead of COCO for USDC",
	},
	cli.StringFlag{
		Name:  "min-out",
		Usage: "minimum accepted output amount (quoted output minus --slippage if not given)",
	},
	cli.UintFlag{
		Name:  "slippage",
		Usage: "slippage tolerance in basis points",
		Value: DefaultSlippageBPS,
	},
}

func newPoolCommands() []cli.Command {
	return []cli.Command{{
		Name:  "pool",
		Usage: "operate the COCO/USDC liquidity pool",
		Subcommands: []cli.Command{
			{
				Name:      "create",
				Usage:     "create the liquidity pool",
				UsageText: "coconut pool create [options] <initial-liquidity>",
				Action:    withSession(createPool),
				Flags:     options.Common(),
			},
			{
				Name:      "add",
				Usage:     "add COCO and deposited USDC to the pool",
				UsageText: "coconut pool add [options] <coco-amount> <usdc-amount>",
				Action:    withSession(addLiquidity),
				Flags:     options.Common(),
			},
			{
				Name:      "swap",
				Usage:     "swap tokens using the pool",
				UsageText: "coconut pool swap [options] <amount-in>",
				Action:    withSession(swap),
				Flags:     append(options.Common(), swapFlags...),
			},
			{
				Name:      "quote",
				Usage:     "print the expected swap output for the current reserves",
				UsageText: "coconut pool quote [options] <amount-in>",
				Action:    withReader(quote),
				Flags:     append(options.Common(), swapFlags...),
			},
			{
				Name:   "show",
				Usage:  "print pool reserves",
				Action: withReader(showPool),
				Flags:  options.Common(),
			},
		},
	}}
}

func createPool(s *session) error {
	liq, err := intArg(s.ctx, 0, "initial liquidity")
	if err != nil {
		return err
	}
	h, vub, err := s.ctr.CreateLiquidityPool(s.prov.Sender(), liq)
	_, err = s.confirm("createLiquidityPool", h, vub, err)
	return err
}

func addLiquidity(s *session) error {
	coco, err := intArg(s.ctx, 0, "COCO amount")
	if err != nil {
		return err
	}
	usdc, err := intArg(s.ctx, 1, "USDC amount")
	if err != nil {
		return err
	}
	h, vub, err := s.ctr.AddLiquidity(s.prov.Sender(), coco, usdc)
	_, err = s.confirm("addLiquidity", h, vub, err)
	return err
}

// minOut returns --min-out if set, otherwise the output quoted for the
// current pool reserves reduced by --slippage.
func minOut(ctx *cli.Context, r *coconut.ContractReader, cocoIn bool, amountIn *big.Int) (*big.Int, error) {
	if s := ctx.String("min-out"); s != "" {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok || v.Sign() < 0 {
			return nil, fmt.Errorf("invalid min-out %q", s)
		}
		return v, nil
	}
	pool, err := r.GetPool()
	if err != nil {
		return nil, err
	}
	quoted, err := pool.Reserves().QuoteSwap(cocoIn, amountIn)
	if err != nil {
		return nil, err
	}
	return amm.MinOut(quoted, ctx.Uint("slippage"))
}

func swap(s *session) error {
	amountIn, err := intArg(s.ctx, 0, "amount")
	if err != nil {
		return err
	}
	cocoIn := !s.ctx.Bool("usdc-in")
	minAmount, err := minOut(s.ctx, &s.ctr.ContractReader, cocoIn, amountIn)
	if err != nil {
		return err
	}
	s.log.Debug("swapping", zap.Bool("cocoIn", cocoIn),
		zap.Stringer("amountIn", amountIn), zap.Stringer("minOut", minAmount))
	h, vub, err := s.ctr.SwapTokens(s.prov.Sender(), cocoIn, amountIn, minAmount)
	res, err := s.confirm("swapTokens", h, vub, err)
	if err != nil {
		return err
	}
	evs, err := coconut.TokensSwappedEventsFromApplicationLog(appLog(res))
	if err != nil {
		return err
	}
	for _, ev := range evs {
		fmt.Fprintf(s.out, "Swapped %s for %s\n", ev.AmountIn, ev.AmountOut)
	}
	return nil
}

func quote(r *reader) error {
	amountIn, err := intArg(r.ctx, 0, "amount")
	if err != nil {
		return err
	}
	cocoIn := !r.ctx.Bool("usdc-in")
	pool, err := r.ctr.GetPool()
	if err != nil {
		return err
	}
	out, err := pool.Reserves().QuoteSwap(cocoIn, amountIn)
	if err != nil {
		return err
	}
	minAmount, err := minOut(r.ctx, r.ctr, cocoIn, amountIn)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Amount out:\t%s\n", out)
	fmt.Fprintf(r.out, "Minimum out:\t%s\n", minAmount)
	return nil
}

func showPool(r *reader) error {
	pool, err := r.ctr.GetPool()
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Liquidity:\t%s\n", pool.TotalLiquidity)
	fmt.Fprintf(r.out, "COCO reserve:\t%s\n", pool.CocoReserve)
	fmt.Fprintf(r.out, "USDC reserve:\t%s\n", pool.UsdcReserve)
	return nil
}
