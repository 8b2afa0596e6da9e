package options

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/coconut-rwa/coconut/pkg/config"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
	"go.uber.org/zap/zapcore"
)

func newContext(t *testing.T, args ...string) *cli.Context {
	set := flag.NewFlagSet("flagSet", flag.ContinueOnError)
	for _, f := range Common() {
		f.Apply(set)
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func writeWorkspace(t *testing.T, data string) string {
	path := filepath.Join(t.TempDir(), "coconut.yml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	for _, k := range []string{config.EnvProviderURL, config.EnvWallet, config.EnvWalletPassword, config.EnvAddress, config.EnvWorkspace} {
		t.Setenv(k, "")
	}
}

func TestGetTimeoutContext(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		start := time.Now()
		ctx := newContext(t)
		actualCtx, cancel := GetTimeoutContext(ctx, false)
		defer cancel()
		end := time.Now()
		dl, _ := actualCtx.Deadline()
		require.True(t, start.Before(dl) && dl.Before(end.Add(DefaultTimeout)))
	})

	t.Run("await", func(t *testing.T) {
		start := time.Now()
		ctx := newContext(t)
		actualCtx, cancel := GetTimeoutContext(ctx, true)
		defer cancel()
		dl, _ := actualCtx.Deadline()
		require.True(t, dl.After(start.Add(DefaultTimeout)))
	})

	t.Run("set", func(t *testing.T) {
		start := time.Now()
		ctx := newContext(t, "--timeout", "20ns")
		actualCtx, cancel := GetTimeoutContext(ctx, true)
		defer cancel()
		end := time.Now()
		dl, _ := actualCtx.Deadline()
		require.True(t, start.Before(dl) && dl.Before(end.Add(time.Nanosecond*20)))
	})
}

func TestGetWorkspace(t *testing.T) {
	clearEnv(t)
	path := writeWorkspace(t, `
Provider:
  Cluster: http://127.0.0.1:20331
  Wallet: wallet.json
Programs:
  Coconut:
    Hash: "0x0000000000000000000000000000000000c0c0c0"
`)
	dir := filepath.Dir(path)

	t.Run("file", func(t *testing.T) {
		ws, err := GetWorkspace(newContext(t, "--workspace", path))
		require.NoError(t, err)
		require.Equal(t, "http://127.0.0.1:20331", ws.Provider.Cluster)
		require.Equal(t, filepath.Join(dir, "wallet.json"), ws.Provider.Wallet)
	})

	t.Run("overrides", func(t *testing.T) {
		acc := util.Uint160{1, 2, 3}
		ws, err := GetWorkspace(newContext(t,
			"--workspace", path,
			"-r", "ws://localhost:20332/ws",
			"-w", "other.json",
			"-a", address.Uint160ToString(acc),
			"--program", "Mango",
			"--hash", "0x"+acc.StringLE(),
		))
		require.NoError(t, err)
		require.Equal(t, "ws://localhost:20332/ws", ws.Provider.Cluster)
		require.Equal(t, "other.json", ws.Provider.Wallet)
		require.Equal(t, "0x"+acc.StringLE(), ws.Provider.Address)
		require.Equal(t, "0x"+acc.StringLE(), ws.Programs["Mango"].Hash)
		require.Contains(t, ws.Programs, "Coconut")
	})

	t.Run("wallet config", func(t *testing.T) {
		wc := filepath.Join(t.TempDir(), "wallet.yml")
		require.NoError(t, os.WriteFile(wc, []byte("Path: /tmp/w.json\nPassword: pass\n"), 0o644))
		ws, err := GetWorkspace(newContext(t, "--workspace", path, "--wallet-config", wc))
		require.NoError(t, err)
		require.Equal(t, "/tmp/w.json", ws.Provider.Wallet)
		require.Equal(t, "pass", ws.Provider.Password)
	})

	t.Run("conflicting wallet flags", func(t *testing.T) {
		_, err := GetWorkspace(newContext(t, "--workspace", path, "-w", "a.json", "--wallet-config", "b.yml"))
		require.ErrorIs(t, err, errConflictingWalletFlags)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := GetWorkspace(newContext(t, "--workspace", filepath.Join(dir, "nope.yml")))
		require.Error(t, err)
	})
}

func TestHandleLoggingParams(t *testing.T) {
	t.Run("bad level", func(t *testing.T) {
		_, err := HandleLoggingParams(false, config.Logging{LogLevel: "loud"})
		require.Error(t, err)
	})

	t.Run("default", func(t *testing.T) {
		log, err := HandleLoggingParams(false, config.Logging{})
		require.NoError(t, err)
		require.True(t, log.Core().Enabled(zapcore.InfoLevel))
		require.False(t, log.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("debug and file", func(t *testing.T) {
		logPath := filepath.Join(t.TempDir(), "logs", "coconut.log")
		log, err := HandleLoggingParams(true, config.Logging{LogLevel: "warn", LogPath: logPath, LogEncoding: "json"})
		require.NoError(t, err)
		require.True(t, log.Core().Enabled(zapcore.DebugLevel))
		log.Debug("hello")
		_ = log.Sync()
		data, err := os.ReadFile(logPath)
		require.NoError(t, err)
		require.Contains(t, string(data), `"msg":"hello"`)
	})
}

func TestMetricsAndJournal(t *testing.T) {
	ctx := newContext(t)
	require.Nil(t, GetMetrics(ctx))
	require.NoError(t, WriteMetrics(ctx, nil))
	j, err := OpenJournal(ctx)
	require.NoError(t, err)
	require.Nil(t, j)

	dir := t.TempDir()
	ctx = newContext(t, "--metrics-file", filepath.Join(dir, "coconut.prom"), "--journal", filepath.Join(dir, "journal.db"))
	m := GetMetrics(ctx)
	require.NotNil(t, m)
	require.NoError(t, WriteMetrics(ctx, m))
	require.FileExists(t, filepath.Join(dir, "coconut.prom"))

	j, err = OpenJournal(ctx)
	require.NoError(t, err)
	require.NoError(t, j.Close())
}
