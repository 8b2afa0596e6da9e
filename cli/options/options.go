/*
Package options contains a set of common CLI options and helper functions to use them.
*/
package options

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/coconut-rwa/coconut/cli/flags"
	"github.com/coconut-rwa/coconut/cli/input"
	"github.com/coconut-rwa/coconut/pkg/config"
	"github.com/coconut-rwa/coconut/pkg/journal"
	"github.com/coconut-rwa/coconut/pkg/metrics"
	"github.com/coconut-rwa/coconut/pkg/provider"
	"github.com/coconut-rwa/coconut/pkg/workspace"
	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultTimeout is the default timeout used for read-only RPC requests.
	DefaultTimeout = 10 * time.Second
	// DefaultAwaitableTimeout is the default timeout used for commands that
	// send a transaction and wait for it. It covers about three blocks of a
	// network with 15 second blocks.
	DefaultAwaitableTimeout = 3 * 15 * time.Second
)

// RPCEndpointFlag is a long flag name for an RPC endpoint. It can be used to
// check for flag presence in the context.
const RPCEndpointFlag = "rpc-endpoint"

// Wallet is a set of flags used for wallet operations.
var Wallet = []cli.Flag{cli.StringFlag{
	Name:  "wallet, w",
	Usage: "wallet to use to get the key for transaction signing; conflicts with --wallet-config flag",
}, cli.StringFlag{
	Name:  "wallet-config",
	Usage: "path to wallet config to use to get the key for transaction signing; conflicts with --wallet flag",
}, flags.AddressFlag{
	Name:  "address, a",
	Usage: "signer account address or hash (default wallet account is used if not given)",
}}

// RPC is a set of flags used for RPC connections (endpoint and timeout).
var RPC = []cli.Flag{
	cli.StringFlag{
		Name:  RPCEndpointFlag + ", r",
		Usage: "RPC node address (" + config.EnvProviderURL + " is used if not given)",
	},
	cli.DurationFlag{
		Name:  "timeout, s",
		Usage: "Timeout for the operation (10s for queries, 45s for transactions by default)",
	},
}

// Workspace is a set of flags selecting the workspace file and the program.
var Workspace = []cli.Flag{
	cli.StringFlag{
		Name:  "workspace",
		Usage: "path to the workspace file (" + config.EnvWorkspace + " or ./" + config.DefaultWorkspaceFile + " by default)",
	},
	cli.StringFlag{
		Name:  "program",
		Value: "Coconut",
		Usage: "program name in the workspace",
	},
	cli.StringFlag{
		Name:  "hash",
		Usage: "program script hash, overrides the workspace entry",
	},
}

// Debug is a flag for commands that allow debug logging.
var Debug = cli.BoolFlag{
	Name:  "debug, d",
	Usage: "enable debug logging (overrides configuration)",
}

// Journal is a flag enabling the transaction journal.
var Journal = cli.StringFlag{
	Name:  "journal",
	Usage: "path to the transaction journal database",
}

// MetricsFile is a flag enabling metrics dump on exit.
var MetricsFile = cli.StringFlag{
	Name:  "metrics-file",
	Usage: "write run metrics in Prometheus text format to this file",
}

// Common returns all flags for commands talking to a program.
func Common() []cli.Flag {
	res := make([]cli.Flag, 0, len(RPC)+len(Wallet)+len(Workspace)+3)
	res = append(res, RPC...)
	res = append(res, Wallet...)
	res = append(res, Workspace...)
	return append(res, Debug, Journal, MetricsFile)
}

var (
	errConflictingWalletFlags = errors.New("--wallet flag conflicts with --wallet-config flag, please, provide one of them to specify wallet location")
	errNoProgram              = errors.New("no program name given, use '--program'")
)

// GetTimeoutContext returns a context.Context with the default or a user-set
// timeout, await selects the default for transaction sending commands.
func GetTimeoutContext(ctx *cli.Context, await bool) (context.Context, func()) {
	dur := ctx.Duration("timeout")
	if dur == 0 {
		dur = DefaultTimeout
		if await {
			dur = DefaultAwaitableTimeout
		}
	}
	return context.WithTimeout(context.Background(), dur)
}

// GetWorkspace loads the workspace and applies command line overrides on top
// of the file and the environment.
func GetWorkspace(ctx *cli.Context) (config.Workspace, error) {
	ws, err := config.Load(ctx.String("workspace"))
	if err != nil {
		return config.Workspace{}, err
	}
	ws.Provider.Wallet = ws.ResolvePath(ws.Provider.Wallet)
	if ep := ctx.String(RPCEndpointFlag); ep != "" {
		ws.Provider.Cluster = ep
	}

	wPath := ctx.String("wallet")
	walletConfigPath := ctx.String("wallet-config")
	if len(wPath) != 0 && len(walletConfigPath) != 0 {
		return config.Workspace{}, errConflictingWalletFlags
	}
	if len(walletConfigPath) != 0 {
		cfg, err := ReadWalletConfig(walletConfigPath)
		if err != nil {
			return config.Workspace{}, err
		}
		ws.Provider.Wallet = cfg.Path
		ws.Provider.Password = cfg.Password
	} else if len(wPath) != 0 {
		ws.Provider.Wallet = wPath
	}
	if addr, ok := ctx.Generic("address").(*flags.Address); ok && addr.IsSet {
		ws.Provider.Address = "0x" + addr.Uint160().StringLE()
	}

	if h := ctx.String("hash"); h != "" {
		name := ctx.String("program")
		if name == "" {
			return config.Workspace{}, errNoProgram
		}
		if ws.Programs == nil {
			ws.Programs = make(map[string]config.Program)
		}
		ws.Programs[name] = config.Program{Hash: h}
	}
	return ws, nil
}

// GetLogger creates the logger for the command using workspace settings and
// the debug flag.
func GetLogger(ctx *cli.Context, ws config.Workspace) (*zap.Logger, error) {
	logCfg := ws.Logging
	logCfg.LogPath = ws.ResolvePath(logCfg.LogPath)
	return HandleLoggingParams(ctx.Bool("debug"), logCfg)
}

// HandleLoggingParams reads logging parameters.
// If a user selected debug level -- function enables it.
// If logPath is configured -- function creates a dir and a file for logging.
func HandleLoggingParams(debug bool, cfg config.Logging) (*zap.Logger, error) {
	var (
		level = zapcore.InfoLevel
		err   error
	)
	if len(cfg.LogLevel) > 0 {
		level, err = zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("log setting: %w", err)
		}
	}
	if debug {
		level = zapcore.DebugLevel
	}

	cc := zap.NewProductionConfig()
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	cc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cc.Encoding = "console"
	if cfg.LogEncoding != "" {
		cc.Encoding = cfg.LogEncoding
	}
	cc.Level = zap.NewAtomicLevelAt(level)
	cc.Sampling = nil

	if logPath := cfg.LogPath; logPath != "" {
		if err := io.MakeDirForFile(logPath, "logger"); err != nil {
			return nil, err
		}
		cc.OutputPaths = []string{logPath}
	}

	return cc.Build()
}

// ProviderOptions returns provider options prompting for the password on
// the command's error writer.
func ProviderOptions(ctx *cli.Context, log *zap.Logger) provider.Options {
	return provider.Options{
		Logger:   log,
		Password: input.PasswordReader(ctx.App.ErrWriter),
	}
}

// GetProvider opens the provider for the workspace.
func GetProvider(gctx context.Context, ctx *cli.Context, ws config.Workspace, log *zap.Logger) (*provider.Provider, error) {
	return provider.Open(gctx, ws.Provider, ProviderOptions(ctx, log))
}

// GetInvoker connects to the cluster without a signer and returns an invoker
// for read-only calls along with the resolved program hash. The returned
// function closes the connection.
func GetInvoker(gctx context.Context, ctx *cli.Context, ws config.Workspace) (*invoker.Invoker, util.Uint160, func(), error) {
	if err := ws.Provider.Validate(); err != nil {
		return nil, util.Uint160{}, nil, err
	}
	c, err := provider.Dial(gctx, ws.Provider)
	if err != nil {
		return nil, util.Uint160{}, nil, err
	}
	inv := invoker.New(c, nil)
	h, _, err := workspace.New(ws).Resolve(ctx.String("program"), inv)
	if err != nil {
		c.Close()
		return nil, util.Uint160{}, nil, err
	}
	return inv, h, c.Close, nil
}

// GetMetrics returns a metrics collector if --metrics-file is given, nil
// otherwise.
func GetMetrics(ctx *cli.Context) *metrics.Collector {
	if ctx.String("metrics-file") == "" {
		return nil
	}
	return metrics.New()
}

// WriteMetrics dumps the collector into the --metrics-file, nil collector is
// ignored.
func WriteMetrics(ctx *cli.Context, m *metrics.Collector) error {
	if m == nil {
		return nil
	}
	return m.WriteFile(ctx.String("metrics-file"))
}

// OpenJournal opens the --journal database, nil journal is returned if it's
// not given.
func OpenJournal(ctx *cli.Context) (*journal.Journal, error) {
	path := ctx.String("journal")
	if path == "" {
		return nil, nil
	}
	return journal.Open(path)
}

// ReadWalletConfig reads wallet config from the given path.
func ReadWalletConfig(configPath string) (*config.Wallet, error) {
	configData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read wallet config: %w", err)
	}

	cfg := &config.Wallet{}

	err = yaml.Unmarshal(configData, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet config YAML: %w", err)
	}
	return cfg, nil
}
