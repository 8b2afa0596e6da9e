package coconut

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// InitializedEvent represents "Initialized" event emitted by the contract.
type InitializedEvent struct {
	Authority util.Uint160
}

// HotelInitializedEvent represents "HotelInitialized" event.
type HotelInitializedEvent struct {
	ID        *big.Int
	Owner     util.Uint160
	Name      string
	RoomCount *big.Int
}

// HotelVerifiedEvent represents "HotelVerified" event.
type HotelVerifiedEvent struct {
	ID    *big.Int
	Owner util.Uint160
}

// CocoTokensIssuedEvent represents "CocoTokensIssued" event.
type CocoTokensIssuedEvent struct {
	Amount    *big.Int
	Recipient util.Uint160
}

// TokensSwappedEvent represents "TokensSwapped" event.
type TokensSwappedEvent struct {
	User      util.Uint160
	AmountIn  *big.Int
	AmountOut *big.Int
}

// TokensUnstakedEvent represents "TokensUnstaked" event.
type TokensUnstakedEvent struct {
	User    util.Uint160
	Amount  *big.Int
	Rewards *big.Int
}

// RoomRentedEvent represents "RoomRented" event.
type RoomRentedEvent struct {
	HotelID  *big.Int
	Renter   util.Uint160
	Room     *big.Int
	Duration *big.Int
	Amount   *big.Int
}

// ConfidentialTransferEvent represents "ConfidentialTransfer" event.
type ConfidentialTransferEvent struct {
	Sender     util.Uint160
	Recipient  util.Uint160
	Commitment []byte
}

type fromStackArray interface {
	FromStackItem(item *stackitem.Array) error
}

// eventsFromLog decodes all events with the given name from the log.
func eventsFromLog[T any, PT interface {
	*T
	fromStackArray
}](log *result.ApplicationLog, name string) ([]*T, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}
	var res []*T
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != name {
				continue
			}
			event := PT(new(T))
			if err := event.FromStackItem(e.Item); err != nil {
				return nil, fmt.Errorf("failed to deserialize %s from stackitem (execution #%d, event #%d): %w", name, i, j, err)
			}
			res = append(res, (*T)(event))
		}
	}
	return res, nil
}

// InitializedEventsFromApplicationLog retrieves all "Initialized" events.
func InitializedEventsFromApplicationLog(log *result.ApplicationLog) ([]*InitializedEvent, error) {
	return eventsFromLog[InitializedEvent](log, "Initialized")
}

// HotelInitializedEventsFromApplicationLog retrieves all "HotelInitialized"
// events.
func HotelInitializedEventsFromApplicationLog(log *result.ApplicationLog) ([]*HotelInitializedEvent, error) {
	return eventsFromLog[HotelInitializedEvent](log, "HotelInitialized")
}

// HotelVerifiedEventsFromApplicationLog retrieves all "HotelVerified" events.
func HotelVerifiedEventsFromApplicationLog(log *result.ApplicationLog) ([]*HotelVerifiedEvent, error) {
	return eventsFromLog[HotelVerifiedEvent](log, "HotelVerified")
}

// CocoTokensIssuedEventsFromApplicationLog retrieves all "CocoTokensIssued"
// events.
func CocoTokensIssuedEventsFromApplicationLog(log *result.ApplicationLog) ([]*CocoTokensIssuedEvent, error) {
	return eventsFromLog[CocoTokensIssuedEvent](log, "CocoTokensIssued")
}

// TokensSwappedEventsFromApplicationLog retrieves all "TokensSwapped" events.
func TokensSwappedEventsFromApplicationLog(log *result.ApplicationLog) ([]*TokensSwappedEvent, error) {
	return eventsFromLog[TokensSwappedEvent](log, "TokensSwapped")
}

// TokensUnstakedEventsFromApplicationLog retrieves all "TokensUnstaked"
// events.
func TokensUnstakedEventsFromApplicationLog(log *result.ApplicationLog) ([]*TokensUnstakedEvent, error) {
	return eventsFromLog[TokensUnstakedEvent](log, "TokensUnstaked")
}

// RoomRentedEventsFromApplicationLog retrieves all "RoomRented" events.
func RoomRentedEventsFromApplicationLog(log *result.ApplicationLog) ([]*RoomRentedEvent, error) {
	return eventsFromLog[RoomRentedEvent](log, "RoomRented")
}

// ConfidentialTransferEventsFromApplicationLog retrieves all
// "ConfidentialTransfer" events.
func ConfidentialTransferEventsFromApplicationLog(log *result.ApplicationLog) ([]*ConfidentialTransferEvent, error) {
	return eventsFromLog[ConfidentialTransferEvent](log, "ConfidentialTransfer")
}

func eventItems(item *stackitem.Array, n int) ([]stackitem.Item, error) {
	if item == nil {
		return nil, errors.New("nil item")
	}
	return structItems(item, n)
}

// FromStackItem converts provided [stackitem.Array] to InitializedEvent.
func (e *InitializedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventItems(item, 1)
	if err != nil {
		return err
	}
	if e.Authority, err = toUint160(arr[0]); err != nil {
		return fmt.Errorf("field Authority: %w", err)
	}
	return nil
}

// FromStackItem converts provided [stackitem.Array] to HotelInitializedEvent.
func (e *HotelInitializedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventItems(item, 4)
	if err != nil {
		return err
	}
	if e.ID, err = arr[0].TryInteger(); err != nil {
		return fmt.Errorf("field ID: %w", err)
	}
	if e.Owner, err = toUint160(arr[1]); err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}
	if e.Name, err = toString(arr[2]); err != nil {
		return fmt.Errorf("field Name: %w", err)
	}
	if e.RoomCount, err = arr[3].TryInteger(); err != nil {
		return fmt.Errorf("field RoomCount: %w", err)
	}
	return nil
}

// FromStackItem converts provided [stackitem.Array] to HotelVerifiedEvent.
func (e *HotelVerifiedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventItems(item, 2)
	if err != nil {
		return err
	}
	if e.ID, err = arr[0].TryInteger(); err != nil {
		return fmt.Errorf("field ID: %w", err)
	}
	if e.Owner, err = toUint160(arr[1]); err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}
	return nil
}

// FromStackItem converts provided [stackitem.Array] to CocoTokensIssuedEvent.
func (e *CocoTokensIssuedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventItems(item, 2)
	if err != nil {
		return err
	}
	if e.Amount, err = arr[0].TryInteger(); err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}
	if e.Recipient, err = toUint160(arr[1]); err != nil {
		return fmt.Errorf("field Recipient: %w", err)
	}
	return nil
}

// FromStackItem converts provided [stackitem.Array] to TokensSwappedEvent.
func (e *TokensSwappedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventItems(item, 3)
	if err != nil {
		return err
	}
	if e.User, err = toUint160(arr[0]); err != nil {
		return fmt.Errorf("field User: %w", err)
	}
	if e.AmountIn, err = arr[1].TryInteger(); err != nil {
		return fmt.Errorf("field AmountIn: %w", err)
	}
	if e.AmountOut, err = arr[2].TryInteger(); err != nil {
		return fmt.Errorf("field AmountOut: %w", err)
	}
	return nil
}

// FromStackItem converts provided [stackitem.Array] to TokensUnstakedEvent.
func (e *TokensUnstakedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventItems(item, 3)
	if err != nil {
		return err
	}
	if e.User, err = toUint160(arr[0]); err != nil {
		return fmt.Errorf("field User: %w", err)
	}
	if e.Amount, err = arr[1].TryInteger(); err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}
	if e.Rewards, err = arr[2].TryInteger(); err != nil {
		return fmt.Errorf("field Rewards: %w", err)
	}
	return nil
}

// FromStackItem converts provided [stackitem.Array] to RoomRentedEvent.
func (e *RoomRentedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventItems(item, 5)
	if err != nil {
		return err
	}
	if e.HotelID, err = arr[0].TryInteger(); err != nil {
		return fmt.Errorf("field HotelID: %w", err)
	}
	if e.Renter, err = toUint160(arr[1]); err != nil {
		return fmt.Errorf("field Renter: %w", err)
	}
	if e.Room, err = arr[2].TryInteger(); err != nil {
		return fmt.Errorf("field Room: %w", err)
	}
	if e.Duration, err = arr[3].TryInteger(); err != nil {
		return fmt.Errorf("field Duration: %w", err)
	}
	if e.Amount, err = arr[4].TryInteger(); err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}
	return nil
}

// FromStackItem converts provided [stackitem.Array] to
// ConfidentialTransferEvent.
func (e *ConfidentialTransferEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventItems(item, 3)
	if err != nil {
		return err
	}
	if e.Sender, err = toUint160(arr[0]); err != nil {
		return fmt.Errorf("field Sender: %w", err)
	}
	if e.Recipient, err = toUint160(arr[1]); err != nil {
		return fmt.Errorf("field Recipient: %w", err)
	}
	if e.Commitment, err = arr[2].TryBytes(); err != nil {
		return fmt.Errorf("field Commitment: %w", err)
	}
	return nil
}
