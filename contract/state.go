package coconut

import "github.com/nspcc-dev/neo-go/pkg/interop"

// Mint is the COCO token issuance record created by initialize.
type Mint struct {
	Authority   interop.Hash160
	TotalSupply int
}

// Hotel is a registered hotel.
type Hotel struct {
	Owner     interop.Hash160
	Name      string
	RoomCount int
	Verified  bool
}

// Pool is the single COCO/USDC liquidity pool.
type Pool struct {
	TotalLiquidity int
	CocoReserve    int
	UsdcReserve    int
}

// Stake is a staking position, LastStake is the block time in milliseconds.
type Stake struct {
	Owner     interop.Hash160
	Amount    int
	LastStake int
}

// Listing is a room offered for rent.
type Listing struct {
	Owner   interop.Hash160
	HotelID int
	Room    int
	Price   int
	Active  bool
}
