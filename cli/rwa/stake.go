package rwa

import (
	"fmt"

	"github.com/coconut-rwa/coconut/cli/options"
	"github.com/coconut-rwa/coconut/pkg/coconut"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/urfave/cli"
)

func newStakeCommands() []cli.Command {
	return []cli.Command{{
		Name:  "stake",
		Usage: "stake COCO tokens for rewards",
		Subcommands: []cli.Command{
			{
				Name:      "add",
				Usage:     "stake COCO tokens of the signer",
				UsageText: "coconut stake add [options] <amount>",
				Action:    withSession(stake),
				Flags:     options.Common(),
			},
			{
				Name:      "remove",
				Usage:     "unstake COCO tokens and collect rewards",
				UsageText: "coconut stake remove [options] <amount>",
				Action:    withSession(unstake),
				Flags:     options.Common(),
			},
			{
				Name:      "show",
				Usage:     "print staking position of the account",
				UsageText: "coconut stake show [options] [account]",
				Action:    withReader(showStake),
				Flags:     options.Common(),
			},
		},
	}}
}

func stake(s *session) error {
	amount, err := intArg(s.ctx, 0, "amount")
	if err != nil {
		return err
	}
	h, vub, err := s.ctr.StakeCocoTokens(s.prov.Sender(), amount)
	_, err = s.confirm("stakeCocoTokens", h, vub, err)
	return err
}

func unstake(s *session) error {
	amount, err := intArg(s.ctx, 0, "amount")
	if err != nil {
		return err
	}
	h, vub, err := s.ctr.UnstakeCocoTokens(s.prov.Sender(), amount)
	res, err := s.confirm("unstakeCocoTokens", h, vub, err)
	if err != nil {
		return err
	}
	evs, err := coconut.TokensUnstakedEventsFromApplicationLog(appLog(res))
	if err != nil {
		return err
	}
	for _, ev := range evs {
		fmt.Fprintf(s.out, "Unstaked %s, rewards %s\n", ev.Amount, ev.Rewards)
	}
	return nil
}

func showStake(r *reader) error {
	acc, err := accountArg(r.ctx, 0)
	if err != nil {
		return err
	}
	st, err := r.ctr.GetStake(acc)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Owner:\t\t%s\n", address.Uint160ToString(acc))
	fmt.Fprintf(r.out, "Amount:\t\t%s\n", st.Amount)
	fmt.Fprintf(r.out, "Last stake:\t%s\n", st.LastStake)
	return nil
}
