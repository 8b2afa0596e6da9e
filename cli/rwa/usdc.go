package rwa

import (
	"github.com/coconut-rwa/coconut/cli/options"
	"github.com/urfave/cli"
)

func newUsdcCommands() []cli.Command {
	return []cli.Command{{
		Name:  "usdc",
		Usage: "move stable tokens in and out of the program",
		Subcommands: []cli.Command{
			{
				Name:      "deposit",
				Usage:     "transfer stable tokens of the signer to the program",
				UsageText: "coconut usdc deposit [options] <amount>",
				Action:    withSession(depositUsdc),
				Flags:     options.Common(),
			},
			{
				Name:      "withdraw",
				Usage:     "withdraw deposited stable tokens back to the signer",
				UsageText: "coconut usdc withdraw [options] <amount>",
				Action:    withSession(withdrawUsdc),
				Flags:     options.Common(),
			},
		},
	}}
}

func depositUsdc(s *session) error {
	amount, err := intArg(s.ctx, 0, "amount")
	if err != nil {
		return err
	}
	h, vub, err := s.ctr.DepositUsdc(amount)
	_, err = s.confirm("transfer", h, vub, err)
	return err
}

func withdrawUsdc(s *session) error {
	amount, err := intArg(s.ctx, 0, "amount")
	if err != nil {
		return err
	}
	h, vub, err := s.ctr.WithdrawUsdc(s.prov.Sender(), amount)
	_, err = s.confirm("withdrawUsdc", h, vub, err)
	return err
}
