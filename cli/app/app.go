package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/coconut-rwa/coconut/cli/runner"
	"github.com/coconut-rwa/coconut/cli/rwa"
	"github.com/coconut-rwa/coconut/pkg/config"
	"github.com/urfave/cli"
)

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "Coconut\nVersion: %s\nGoVersion: %s\n",
		config.Version,
		runtime.Version(),
	)
}

// New creates a Coconut instance of [cli.App] with all commands included.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "coconut"
	ctl.Version = config.Version
	ctl.Usage = "Test driver and client for the Coconut RWA program"
	ctl.ErrWriter = os.Stderr

	ctl.Commands = append(ctl.Commands, runner.NewCommands()...)
	ctl.Commands = append(ctl.Commands, rwa.NewCommands()...)
	return ctl
}
