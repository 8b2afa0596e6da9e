package rwa

import (
	"fmt"
	"strconv"

	"github.com/coconut-rwa/coconut/cli/options"
	"github.com/coconut-rwa/coconut/pkg/coconut"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/urfave/cli"
)

func newRentalCommands() []cli.Command {
	return []cli.Command{{
		Name:  "rental",
		Usage: "list and rent hotel rooms",
		Subcommands: []cli.Command{
			{
				Name:      "list",
				Usage:     "offer a room of the signer's hotel for rent",
				UsageText: "coconut rental list [options] <hotel-id> <room> <price>",
				Action:    withSession(createListing),
				Flags:     options.Common(),
			},
			{
				Name:      "rent",
				Usage:     "rent a room paying with deposited USDC",
				UsageText: "coconut rental rent [options] <hotel-id> <room> <duration> <usdc-amount>",
				Action:    withSession(rentRoom),
				Flags:     options.Common(),
			},
			{
				Name:      "show",
				Usage:     "print rental listing details",
				UsageText: "coconut rental show [options] <hotel-id> <room>",
				Action:    withReader(showListing),
				Flags:     options.Common(),
			},
		},
	}}
}

func createListing(s *session) error {
	hotel, err := intArg(s.ctx, 0, "hotel id")
	if err != nil {
		return err
	}
	room, err := intArg(s.ctx, 1, "room")
	if err != nil {
		return err
	}
	price, err := intArg(s.ctx, 2, "price")
	if err != nil {
		return err
	}
	h, vub, err := s.ctr.CreateRentalListing(s.prov.Sender(), hotel, room, price)
	_, err = s.confirm("createRentalListing", h, vub, err)
	return err
}

func rentRoom(s *session) error {
	hotel, err := intArg(s.ctx, 0, "hotel id")
	if err != nil {
		return err
	}
	room, err := intArg(s.ctx, 1, "room")
	if err != nil {
		return err
	}
	duration, err := intArg(s.ctx, 2, "duration")
	if err != nil {
		return err
	}
	amount, err := intArg(s.ctx, 3, "USDC amount")
	if err != nil {
		return err
	}
	h, vub, err := s.ctr.RentRoom(s.prov.Sender(), hotel, room, duration, amount)
	res, err := s.confirm("rentRoom", h, vub, err)
	if err != nil {
		return err
	}
	evs, err := coconut.RoomRentedEventsFromApplicationLog(appLog(res))
	if err != nil {
		return err
	}
	for _, ev := range evs {
		fmt.Fprintf(s.out, "Rented room %s of hotel %s for %s, paid %s\n", ev.Room, ev.HotelID, ev.Duration, ev.Amount)
	}
	return nil
}

func showListing(r *reader) error {
	hotel, err := intArg(r.ctx, 0, "hotel id")
	if err != nil {
		return err
	}
	room, err := intArg(r.ctx, 1, "room")
	if err != nil {
		return err
	}
	l, err := r.ctr.GetListing(hotel, room)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Hotel:\t\t%s\n", l.HotelID)
	fmt.Fprintf(r.out, "Room:\t\t%s\n", l.Room)
	fmt.Fprintf(r.out, "Owner:\t\t%s\n", address.Uint160ToString(l.Owner))
	fmt.Fprintf(r.out, "Price:\t\t%s\n", l.Price)
	fmt.Fprintf(r.out, "Active:\t\t%s\n", strconv.FormatBool(l.Active))
	return nil
}
