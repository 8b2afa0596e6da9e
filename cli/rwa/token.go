package rwa

import (
	"fmt"

	"github.com/coconut-rwa/coconut/cli/options"
	"github.com/coconut-rwa/coconut/pkg/coconut"
	"github.com/coconut-rwa/coconut/pkg/provider"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/urfave/cli"
)

func newTokenCommands() []cli.Command {
	return []cli.Command{{
		Name:  "token",
		Usage: "issue and inspect COCO tokens",
		Subcommands: []cli.Command{
			{
				Name:      "issue",
				Usage:     "mint COCO tokens to the recipient (program authority only)",
				UsageText: "coconut token issue [options] <recipient> <amount>",
				Action:    withSession(issueTokens),
				Flags:     options.Common(),
			},
			{
				Name:      "balance",
				Usage:     "print COCO and deposited USDC balances of the account",
				UsageText: "coconut token balance [options] [account]",
				Action:    withReader(showBalance),
				Flags:     options.Common(),
			},
			{
				Name:   "mint",
				Usage:  "print program authority and COCO total supply",
				Action: withReader(showMint),
				Flags:  options.Common(),
			},
		},
	}}
}

func issueTokens(s *session) error {
	to, err := provider.ParseAddress(s.ctx.Args().Get(0))
	if err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	amount, err := intArg(s.ctx, 1, "amount")
	if err != nil {
		return err
	}
	h, vub, err := s.ctr.IssueCocoTokens(to, amount)
	res, err := s.confirm("issueCocoTokens", h, vub, err)
	if err != nil {
		return err
	}
	evs, err := coconut.CocoTokensIssuedEventsFromApplicationLog(appLog(res))
	if err != nil {
		return err
	}
	for _, ev := range evs {
		fmt.Fprintf(s.out, "Issued %s COCO to %s\n", ev.Amount, address.Uint160ToString(ev.Recipient))
	}
	return nil
}

func showBalance(r *reader) error {
	acc, err := accountArg(r.ctx, 0)
	if err != nil {
		return err
	}
	coco, err := r.ctr.BalanceOf(acc)
	if err != nil {
		return err
	}
	usdc, err := r.ctr.UsdcBalanceOf(acc)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Account:\t%s\n", address.Uint160ToString(acc))
	fmt.Fprintf(r.out, "COCO:\t\t%s\n", coco)
	fmt.Fprintf(r.out, "USDC:\t\t%s\n", usdc)
	return nil
}

func showMint(r *reader) error {
	m, err := r.ctr.GetMint()
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Authority:\t%s\n", address.Uint160ToString(m.Authority))
	fmt.Fprintf(r.out, "Total supply:\t%s\n", m.TotalSupply)
	return nil
}
