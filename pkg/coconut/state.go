package coconut

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/coconut-rwa/coconut/pkg/amm"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Mint is the COCO issuance record.
type Mint struct {
	Authority   util.Uint160
	TotalSupply *big.Int
}

// Hotel is a registered hotel.
type Hotel struct {
	Owner     util.Uint160
	Name      string
	RoomCount *big.Int
	Verified  bool
}

// Pool is the COCO/USDC liquidity pool state.
type Pool struct {
	TotalLiquidity *big.Int
	CocoReserve    *big.Int
	UsdcReserve    *big.Int
}

// Stake is an account staking position. LastStake is the block timestamp
// (milliseconds) of the last stake or unstake.
type Stake struct {
	Owner     util.Uint160
	Amount    *big.Int
	LastStake *big.Int
}

// Listing is a hotel room offered for rent.
type Listing struct {
	Owner   util.Uint160
	HotelID *big.Int
	Room    *big.Int
	Price   *big.Int
	Active  bool
}

// Reserves returns the pool reserves for quoting swaps.
func (p *Pool) Reserves() amm.Reserves {
	return amm.Reserves{Coco: p.CocoReserve, Usdc: p.UsdcReserve}
}

func structItems(item stackitem.Item, n int) ([]stackitem.Item, error) {
	if item == nil {
		return nil, errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, errors.New("not an array")
	}
	if len(arr) != n {
		return nil, fmt.Errorf("wrong number of structure elements: %d instead of %d", len(arr), n)
	}
	return arr, nil
}

func toUint160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	return util.Uint160DecodeBytesBE(b)
}

func toString(item stackitem.Item) (string, error) {
	b, err := item.TryBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// FromStackItem retrieves fields of Mint from the given [stackitem.Item].
func (res *Mint) FromStackItem(item stackitem.Item) error {
	arr, err := structItems(item, 2)
	if err != nil {
		return err
	}
	if res.Authority, err = toUint160(arr[0]); err != nil {
		return fmt.Errorf("field Authority: %w", err)
	}
	if res.TotalSupply, err = arr[1].TryInteger(); err != nil {
		return fmt.Errorf("field TotalSupply: %w", err)
	}
	return nil
}

// FromStackItem retrieves fields of Hotel from the given [stackitem.Item].
func (res *Hotel) FromStackItem(item stackitem.Item) error {
	arr, err := structItems(item, 4)
	if err != nil {
		return err
	}
	if res.Owner, err = toUint160(arr[0]); err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}
	if res.Name, err = toString(arr[1]); err != nil {
		return fmt.Errorf("field Name: %w", err)
	}
	if res.RoomCount, err = arr[2].TryInteger(); err != nil {
		return fmt.Errorf("field RoomCount: %w", err)
	}
	if res.Verified, err = arr[3].TryBool(); err != nil {
		return fmt.Errorf("field Verified: %w", err)
	}
	return nil
}

// FromStackItem retrieves fields of Pool from the given [stackitem.Item].
func (res *Pool) FromStackItem(item stackitem.Item) error {
	arr, err := structItems(item, 3)
	if err != nil {
		return err
	}
	if res.TotalLiquidity, err = arr[0].TryInteger(); err != nil {
		return fmt.Errorf("field TotalLiquidity: %w", err)
	}
	if res.CocoReserve, err = arr[1].TryInteger(); err != nil {
		return fmt.Errorf("field CocoReserve: %w", err)
	}
	if res.UsdcReserve, err = arr[2].TryInteger(); err != nil {
		return fmt.Errorf("field UsdcReserve: %w", err)
	}
	return nil
}

// FromStackItem retrieves fields of Stake from the given [stackitem.Item].
func (res *Stake) FromStackItem(item stackitem.Item) error {
	arr, err := structItems(item, 3)
	if err != nil {
		return err
	}
	if res.Owner, err = toUint160(arr[0]); err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}
	if res.Amount, err = arr[1].TryInteger(); err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}
	if res.LastStake, err = arr[2].TryInteger(); err != nil {
		return fmt.Errorf("field LastStake: %w", err)
	}
	return nil
}

// FromStackItem retrieves fields of Listing from the given [stackitem.Item].
func (res *Listing) FromStackItem(item stackitem.Item) error {
	arr, err := structItems(item, 5)
	if err != nil {
		return err
	}
	if res.Owner, err = toUint160(arr[0]); err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}
	if res.HotelID, err = arr[1].TryInteger(); err != nil {
		return fmt.Errorf("field HotelID: %w", err)
	}
	if res.Room, err = arr[2].TryInteger(); err != nil {
		return fmt.Errorf("field Room: %w", err)
	}
	if res.Price, err = arr[3].TryInteger(); err != nil {
		return fmt.Errorf("field Price: %w", err)
	}
	if res.Active, err = arr[4].TryBool(); err != nil {
		return fmt.Errorf("field Active: %w", err)
	}
	return nil
}
