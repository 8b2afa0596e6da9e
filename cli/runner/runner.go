/*
Package runner contains the "test" command: the program initialization
check which calls initialize once and prints the transaction signature.
*/
package runner

import (
	"context"

	"github.com/coconut-rwa/coconut/cli/options"
	"github.com/coconut-rwa/coconut/pkg/driver"
	"github.com/coconut-rwa/coconut/pkg/provider"
	"github.com/coconut-rwa/coconut/pkg/workspace"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

// NewCommands returns the "test" command.
func NewCommands() []cli.Command {
	// No --journal, the driver leaves no local records.
	testFlags := make([]cli.Flag, 0, len(options.RPC)+len(options.Wallet)+len(options.Workspace)+3)
	testFlags = append(testFlags, options.RPC...)
	testFlags = append(testFlags, options.Wallet...)
	testFlags = append(testFlags, options.Workspace...)
	testFlags = append(testFlags, options.Debug, options.MetricsFile, cli.StringFlag{
		Name:  "signature-format",
		Value: string(driver.FormatHex),
		Usage: "transaction signature format: hex or base58",
	})
	return []cli.Command{{
		Name:      "test",
		Usage:     "Call initialize of the program and print the transaction signature",
		UsageText: "coconut test [-r endpoint] [-w wallet] [--program name] [--signature-format hex|base58]",
		Description: `Connects to the cluster, resolves the program from the workspace, sends
   exactly one initialize transaction and waits for it to be accepted. On
   success the signature is printed as

     Your transaction signature <signature>

   Any failure is reported on stderr with a non-zero exit code and nothing
   is printed on stdout. Initialization is not idempotent, running this
   against an already initialized program fails.
`,
		Action: runTest,
		Flags:  testFlags,
	}}
}

func runTest(ctx *cli.Context) error {
	ws, err := options.GetWorkspace(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	log, err := options.GetLogger(ctx, ws)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() { _ = log.Sync() }()

	format, err := driver.ParseFormat(ctx.String("signature-format"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	m := options.GetMetrics(ctx)

	gctx, cancel := options.GetTimeoutContext(ctx, true)
	defer cancel()

	dial := func(c context.Context) (*provider.Provider, error) {
		return options.GetProvider(c, ctx, ws, log)
	}
	d := driver.New(dial, workspace.New(ws), ctx.App.Writer,
		driver.WithLogger(log),
		driver.WithMetrics(m),
		driver.WithProgram(ctx.String("program")),
		driver.WithFormat(format),
	)
	_, err = d.Run(gctx)
	if werr := options.WriteMetrics(ctx, m); werr != nil {
		log.Warn("failed to write metrics", zap.Error(werr))
	}
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}
