/*
Package rwa contains the commands operating the Coconut program: hotels,
COCO tokens, the liquidity pool, staking, rentals, confidential transfers
and USDC deposits.
*/
package rwa

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/coconut-rwa/coconut/cli/flags"
	"github.com/coconut-rwa/coconut/cli/options"
	"github.com/coconut-rwa/coconut/pkg/coconut"
	"github.com/coconut-rwa/coconut/pkg/journal"
	"github.com/coconut-rwa/coconut/pkg/metrics"
	"github.com/coconut-rwa/coconut/pkg/program"
	"github.com/coconut-rwa/coconut/pkg/provider"
	"github.com/coconut-rwa/coconut/pkg/workspace"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

// session is an opened connection to the program with a signer.
type session struct {
	ctx     *cli.Context
	out     io.Writer
	log     *zap.Logger
	prov    *provider.Provider
	ctr     *coconut.Contract
	program string
	journal *journal.Journal
	metrics *metrics.Collector
}

// reader is an opened read-only connection to the program.
type reader struct {
	ctx *cli.Context
	out io.Writer
	ctr *coconut.ContractReader
}

// NewCommands returns all program operation commands.
func NewCommands() []cli.Command {
	var cmds []cli.Command
	cmds = append(cmds, newHotelCommands()...)
	cmds = append(cmds, newTokenCommands()...)
	cmds = append(cmds, newPoolCommands()...)
	cmds = append(cmds, newStakeCommands()...)
	cmds = append(cmds, newRentalCommands()...)
	cmds = append(cmds, newTransferCommands()...)
	cmds = append(cmds, newUsdcCommands()...)
	cmds = append(cmds, newHistoryCommands()...)
	return cmds
}

// withSession wraps a state-changing command action.
func withSession(fn func(s *session) error) func(*cli.Context) error {
	return func(ctx *cli.Context) error {
		ws, err := options.GetWorkspace(ctx)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		log, err := options.GetLogger(ctx, ws)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		defer func() { _ = log.Sync() }()

		gctx, cancel := options.GetTimeoutContext(ctx, true)
		defer cancel()

		prov, err := options.GetProvider(gctx, ctx, ws, log)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		defer prov.Close()

		name := ctx.String("program")
		h, _, err := workspace.New(ws).Resolve(name, prov.Actor())
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		j, err := options.OpenJournal(ctx)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		if j != nil {
			defer j.Close()
		}
		s := &session{
			ctx:     ctx,
			out:     ctx.App.Writer,
			log:     log.With(zap.String("program", name)),
			prov:    prov,
			ctr:     coconut.New(prov.Actor(), h),
			program: name,
			journal: j,
			metrics: options.GetMetrics(ctx),
		}
		err = fn(s)
		if werr := options.WriteMetrics(ctx, s.metrics); werr != nil {
			log.Warn("failed to write metrics", zap.Error(werr))
		}
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		return nil
	}
}

// withReader wraps a read-only command action, no wallet is needed.
func withReader(fn func(r *reader) error) func(*cli.Context) error {
	return func(ctx *cli.Context) error {
		ws, err := options.GetWorkspace(ctx)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		gctx, cancel := options.GetTimeoutContext(ctx, false)
		defer cancel()

		inv, h, closer, err := options.GetInvoker(gctx, ctx, ws)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		defer closer()
		if err := fn(&reader{ctx: ctx, out: ctx.App.Writer, ctr: coconut.NewReader(inv, h)}); err != nil {
			return cli.NewExitError(err, 1)
		}
		return nil
	}
}

// confirm waits for the transaction sent and records the outcome.
func (s *session) confirm(method string, h util.Uint256, vub uint32, err error) (*state.AppExecResult, error) {
	start := time.Now()
	res, err := s.prov.Actor().Wait(h, vub, err)
	res, err = program.Confirm(method, res, err)
	took := time.Since(start)
	s.metrics.Observe(s.program, method, took, err)
	s.record(method, h, res, err)
	if err != nil {
		return nil, err
	}
	s.log.Info("transaction accepted", zap.String("method", method),
		zap.String("hash", res.Container.StringLE()), zap.Duration("took", took))
	fmt.Fprintf(s.out, "Transaction: %s\n", res.Container.StringLE())
	return res, nil
}

func (s *session) record(method string, h util.Uint256, res *state.AppExecResult, err error) {
	if s.journal == nil || h.Equals(util.Uint256{}) {
		return
	}
	r := journal.Record{Program: s.program, Method: method, Hash: h, Time: time.Now()}
	var txErr *program.TransactionError
	switch {
	case res != nil:
		r.State = res.VMState
	case errors.As(err, &txErr):
		r.State = txErr.State
		r.Exception = txErr.Exception
	}
	if jerr := s.journal.Put(r); jerr != nil {
		s.log.Warn("failed to write journal", zap.Error(jerr))
	}
}

func appLog(res *state.AppExecResult) *result.ApplicationLog {
	return &result.ApplicationLog{
		Container:  res.Container,
		Executions: []state.Execution{res.Execution},
	}
}

// intArg parses the i-th argument as a non-negative integer.
func intArg(ctx *cli.Context, i int, name string) (*big.Int, error) {
	s := ctx.Args().Get(i)
	if s == "" {
		return nil, fmt.Errorf("missing %s argument", name)
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid %s %q", name, s)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("negative %s", name)
	}
	return v, nil
}

// accountArg parses the i-th argument as an account, --address is used if
// it's missing.
func accountArg(ctx *cli.Context, i int) (util.Uint160, error) {
	if s := ctx.Args().Get(i); s != "" {
		return provider.ParseAddress(s)
	}
	if addr, ok := ctx.Generic("address").(*flags.Address); ok && addr.IsSet {
		return addr.Uint160(), nil
	}
	return util.Uint160{}, errors.New("missing account argument")
}
