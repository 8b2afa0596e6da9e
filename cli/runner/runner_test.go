package runner

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/coconut-rwa/coconut/pkg/config"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

func setExitFunc() <-chan int {
	ch := make(chan int, 1)
	cli.OsExiter = func(code int) {
		ch <- code
	}
	return ch
}

func checkExit(t *testing.T, ch <-chan int, code int) {
	select {
	case c := <-ch:
		require.Equal(t, code, c)
	default:
		require.Fail(t, "no exit was called")
	}
}

func newApp(out *bytes.Buffer) *cli.App {
	ctl := cli.NewApp()
	ctl.Writer = out
	ctl.ErrWriter = new(bytes.Buffer)
	ctl.Commands = NewCommands()
	return ctl
}

func writeWorkspace(t *testing.T, data string) string {
	path := filepath.Join(t.TempDir(), config.DefaultWorkspaceFile)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestTestFlags(t *testing.T) {
	cmd := NewCommands()[0]
	names := make(map[string]bool)
	for _, f := range cmd.Flags {
		names[f.GetName()] = true
	}
	require.True(t, names["metrics-file"])
	require.True(t, names["signature-format"])
	require.False(t, names["journal"])

	out := new(bytes.Buffer)
	ctl := newApp(out)
	ctl.ErrWriter = new(bytes.Buffer)
	err := ctl.Run([]string{"coconut", "test", "--journal", filepath.Join(t.TempDir(), "j.db")})
	require.ErrorContains(t, err, "flag provided but not defined")
	require.NotContains(t, out.String(), "Your transaction signature")
}

func TestRunTestFails(t *testing.T) {
	for _, env := range []string{config.EnvProviderURL, config.EnvWallet, config.EnvWalletPassword, config.EnvAddress, config.EnvWorkspace} {
		t.Setenv(env, "")
	}

	t.Run("no cluster", func(t *testing.T) {
		out := new(bytes.Buffer)
		ws := writeWorkspace(t, "Programs:\n  Coconut:\n    Hash: \"0x00000000000000000000000000000000000017c0\"\n")
		ch := setExitFunc()
		err := newApp(out).Run([]string{"coconut", "test", "--workspace", ws})
		require.ErrorContains(t, err, config.ErrNoCluster.Error())
		checkExit(t, ch, 1)
		require.Empty(t, out.String())
	})
	t.Run("no wallet", func(t *testing.T) {
		out := new(bytes.Buffer)
		ws := writeWorkspace(t, "Provider:\n  Cluster: http://127.0.0.1:1\n")
		ch := setExitFunc()
		err := newApp(out).Run([]string{"coconut", "test", "--workspace", ws})
		require.ErrorContains(t, err, config.ErrNoWallet.Error())
		checkExit(t, ch, 1)
		require.Empty(t, out.String())
	})
	t.Run("bad format", func(t *testing.T) {
		out := new(bytes.Buffer)
		ws := writeWorkspace(t, "Provider:\n  Cluster: http://127.0.0.1:1\n")
		ch := setExitFunc()
		err := newApp(out).Run([]string{"coconut", "test", "--workspace", ws, "--signature-format", "base64"})
		require.Error(t, err)
		checkExit(t, ch, 1)
		require.Empty(t, out.String())
	})
	t.Run("bad workspace", func(t *testing.T) {
		out := new(bytes.Buffer)
		ws := writeWorkspace(t, "Unknown: 1\n")
		ch := setExitFunc()
		err := newApp(out).Run([]string{"coconut", "test", "--workspace", ws})
		require.Error(t, err)
		checkExit(t, ch, 1)
	})
}
