package rwa

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/coconut-rwa/coconut/cli/options"
	"github.com/urfave/cli"
)

func newHistoryCommands() []cli.Command {
	return []cli.Command{{
		Name:      "history",
		Usage:     "print transactions recorded in the journal",
		UsageText: "coconut history --journal <file> [--limit N]",
		Action:    history,
		Flags: []cli.Flag{
			options.Journal,
			cli.IntFlag{
				Name:  "limit, n",
				Usage: "number of most recent records to print (0 for all)",
				Value: 20,
			},
		},
	}}
}

func history(ctx *cli.Context) error {
	j, err := options.OpenJournal(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if j == nil {
		return cli.NewExitError(errors.New("no journal given"), 1)
	}
	defer j.Close()

	recs, err := j.List(ctx.Int("limit"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	w := tabwriter.NewWriter(ctx.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tPROGRAM\tMETHOD\tSTATE\tHASH")
	for _, r := range recs {
		state := r.State.String()
		if r.Exception != "" {
			state += ": " + r.Exception
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Time.Format(time.RFC3339), r.Program, r.Method, state, r.Hash.StringLE())
	}
	return w.Flush()
}
