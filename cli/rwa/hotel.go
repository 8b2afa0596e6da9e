package rwa

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/coconut-rwa/coconut/cli/options"
	"github.com/coconut-rwa/coconut/pkg/coconut"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/urfave/cli"
)

func newHotelCommands() []cli.Command {
	return []cli.Command{{
		Name:  "hotel",
		Usage: "register and inspect hotels",
		Subcommands: []cli.Command{
			{
				Name:      "init",
				Usage:     "register a new hotel owned by the signer",
				UsageText: "coconut hotel init [options] <name> <room-count>",
				Action:    withSession(initHotel),
				Flags:     options.Common(),
			},
			{
				Name:      "verify",
				Usage:     "mark a hotel as verified (program authority only)",
				UsageText: "coconut hotel verify [options] <hotel-id>",
				Action:    withSession(verifyHotel),
				Flags:     options.Common(),
			},
			{
				Name:      "show",
				Usage:     "print hotel details",
				UsageText: "coconut hotel show [options] <hotel-id>",
				Action:    withReader(showHotel),
				Flags:     options.Common(),
			},
		},
	}}
}

func initHotel(s *session) error {
	name := s.ctx.Args().Get(0)
	if name == "" {
		return errors.New("missing hotel name argument")
	}
	rooms, err := intArg(s.ctx, 1, "room count")
	if err != nil {
		return err
	}
	h, vub, err := s.ctr.InitializeHotel(s.prov.Sender(), name, rooms)
	res, err := s.confirm("initializeHotel", h, vub, err)
	if err != nil {
		return err
	}
	evs, err := coconut.HotelInitializedEventsFromApplicationLog(appLog(res))
	if err != nil {
		return err
	}
	for _, ev := range evs {
		fmt.Fprintf(s.out, "Hotel ID: %s\n", ev.ID)
	}
	return nil
}

func verifyHotel(s *session) error {
	id, err := intArg(s.ctx, 0, "hotel id")
	if err != nil {
		return err
	}
	h, vub, err := s.ctr.VerifyHotel(id)
	_, err = s.confirm("verifyHotel", h, vub, err)
	return err
}

func showHotel(r *reader) error {
	id, err := intArg(r.ctx, 0, "hotel id")
	if err != nil {
		return err
	}
	hotel, err := r.ctr.GetHotel(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "ID:\t\t%s\n", id)
	fmt.Fprintf(r.out, "Name:\t\t%s\n", hotel.Name)
	fmt.Fprintf(r.out, "Owner:\t\t%s\n", address.Uint160ToString(hotel.Owner))
	fmt.Fprintf(r.out, "Rooms:\t\t%s\n", hotel.RoomCount)
	fmt.Fprintf(r.out, "Verified:\t%s\n", strconv.FormatBool(hotel.Verified))
	return nil
}
