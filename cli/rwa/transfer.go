package rwa

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/coconut-rwa/coconut/cli/options"
	"github.com/coconut-rwa/coconut/pkg/coconut"
	"github.com/coconut-rwa/coconut/pkg/provider"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/urfave/cli"
)

func newTransferCommands() []cli.Command {
	return []cli.Command{{
		Name:  "transfer",
		Usage: "transfer COCO tokens",
		Subcommands: []cli.Command{
			{
				Name:      "confidential",
				Usage:     "transfer with a hidden amount commitment",
				UsageText: "coconut transfer confidential [options] <recipient> [commitment-hex]",
				Description: `Sends a confidential transfer to the recipient. The commitment is a
   32-byte hex string, a random one is generated if it's omitted.`,
				Action: withSession(confidentialTransfer),
				Flags:  options.Common(),
			},
		},
	}}
}

// commitmentArg parses the commitment given or generates a random one.
func commitmentArg(s string) ([]byte, error) {
	if s == "" {
		c := make([]byte, coconut.CommitmentLen)
		if _, err := rand.Read(c); err != nil {
			return nil, err
		}
		return c, nil
	}
	c, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid commitment: %w", err)
	}
	if len(c) != coconut.CommitmentLen {
		return nil, fmt.Errorf("invalid commitment length %d, expected %d", len(c), coconut.CommitmentLen)
	}
	return c, nil
}

func confidentialTransfer(s *session) error {
	to, err := provider.ParseAddress(s.ctx.Args().Get(0))
	if err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	c, err := commitmentArg(s.ctx.Args().Get(1))
	if err != nil {
		return err
	}
	h, vub, err := s.ctr.ConfidentialTransfer(s.prov.Sender(), to, c)
	res, err := s.confirm("confidentialTransfer", h, vub, err)
	if err != nil {
		return err
	}
	evs, err := coconut.ConfidentialTransferEventsFromApplicationLog(appLog(res))
	if err != nil {
		return err
	}
	for _, ev := range evs {
		fmt.Fprintf(s.out, "Commitment %s sent to %s\n", hex.EncodeToString(ev.Commitment), address.Uint160ToString(ev.Recipient))
	}
	return nil
}
