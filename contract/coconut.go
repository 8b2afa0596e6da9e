// Package coconut contains the Coconut RWA contract: hotels, the COCO token,
// a COCO/USDC liquidity pool, staking, room rentals and confidential
// transfers. USDC is tracked as an internal ledger backed by deposits of the
// stable token chosen on deploy (GAS by default).
package coconut

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Storage key prefixes.
const (
	prefixMint         = "m"
	prefixStable       = "t"
	prefixHotelCounter = "c"
	prefixHotel        = "h"
	prefixPool         = "p"
	prefixStake        = "s"
	prefixListing      = "l"
	prefixCoco         = "b"
	prefixUsdc         = "u"
)

const (
	maxRoomCount = 65535
	// maxAmount keeps all balances and reserves within 64 bits.
	maxAmount = 9223372036854775807
	// rewardDivisor gives one token per billion staked token-seconds.
	rewardDivisor = 1000000000
	commitmentLen = 32
)

func _deploy(data any, isUpdate bool) {
	if isUpdate {
		return
	}
	ctx := storage.GetContext()
	stable := interop.Hash160(gas.Hash)
	if data != nil {
		h := data.(interop.Hash160)
		if len(h) != interop.Hash160Len {
			panic("invalid stable token hash")
		}
		stable = h
	}
	storage.Put(ctx, prefixStable, stable)
}

// Initialize creates the COCO mint record with the transaction sender as
// the authority. It can only be called once.
func Initialize() {
	ctx := storage.GetContext()
	if storage.Get(ctx, prefixMint) != nil {
		panic("already initialized")
	}
	authority := runtime.GetScriptContainer().Sender
	putMint(ctx, Mint{Authority: authority})
	runtime.Notify("Initialized", authority)
}

// IsInitialized tells whether Initialize was called.
func IsInitialized() bool {
	return storage.Get(storage.GetReadOnlyContext(), prefixMint) != nil
}

// GetMint returns the COCO mint record.
func GetMint() Mint {
	return getMint(storage.GetReadOnlyContext())
}

// StableToken returns the hash of the token backing USDC balances.
func StableToken() interop.Hash160 {
	return storage.Get(storage.GetReadOnlyContext(), prefixStable).(interop.Hash160)
}

// InitializeHotel registers a new hotel and returns its ID.
func InitializeHotel(owner interop.Hash160, name string, roomCount int) int {
	checkAccount(owner)
	if roomCount <= 0 || roomCount > maxRoomCount {
		panic("invalid room count")
	}
	ctx := storage.GetContext()
	var id int
	if v := storage.Get(ctx, prefixHotelCounter); v != nil {
		id = v.(int)
	}
	id++
	storage.Put(ctx, prefixHotelCounter, id)
	putHotel(ctx, id, Hotel{Owner: owner, Name: name, RoomCount: roomCount})
	runtime.Notify("HotelInitialized", id, owner, name, roomCount)
	return id
}

// VerifyHotel marks the hotel as verified, only the mint authority can do
// that.
func VerifyHotel(id int) {
	ctx := storage.GetContext()
	checkAuthority(ctx)
	h := getHotel(ctx, id)
	h.Verified = true
	putHotel(ctx, id, h)
	runtime.Notify("HotelVerified", id, h.Owner)
}

// GetHotel returns the hotel with the given ID.
func GetHotel(id int) Hotel {
	return getHotel(storage.GetReadOnlyContext(), id)
}

// IssueCocoTokens mints amount of COCO to the given account.
func IssueCocoTokens(to interop.Hash160, amount int) {
	ctx := storage.GetContext()
	checkAuthority(ctx)
	checkHash(to)
	checkAmount(amount)
	m := getMint(ctx)
	m.TotalSupply = add(m.TotalSupply, amount)
	putMint(ctx, m)
	addBalance(ctx, prefixCoco, to, amount)
	runtime.Notify("CocoTokensIssued", amount, to)
}

// BalanceOf returns the COCO balance of the account.
func BalanceOf(account interop.Hash160) int {
	return getBalance(storage.GetReadOnlyContext(), prefixCoco, account)
}

// UsdcBalanceOf returns the USDC balance of the account.
func UsdcBalanceOf(account interop.Hash160) int {
	return getBalance(storage.GetReadOnlyContext(), prefixUsdc, account)
}

// CreateLiquidityPool creates the pool with empty reserves.
func CreateLiquidityPool(creator interop.Hash160, initialLiquidity int) {
	checkAccount(creator)
	checkAmount(initialLiquidity)
	ctx := storage.GetContext()
	if storage.Get(ctx, prefixPool) != nil {
		panic("pool already exists")
	}
	putPool(ctx, Pool{TotalLiquidity: initialLiquidity})
	runtime.Notify("LiquidityPoolCreated", creator, initialLiquidity)
}

// GetPool returns the liquidity pool state.
func GetPool() Pool {
	return getPool(storage.GetReadOnlyContext())
}

// AddLiquidity moves COCO and USDC from the user's balances into the pool.
func AddLiquidity(user interop.Hash160, cocoAmount, usdcAmount int) {
	checkAccount(user)
	checkAmount(cocoAmount)
	checkAmount(usdcAmount)
	ctx := storage.GetContext()
	p := getPool(ctx)
	subBalance(ctx, prefixCoco, user, cocoAmount, "insufficient funds")
	subBalance(ctx, prefixUsdc, user, usdcAmount, "insufficient funds")
	p.CocoReserve = add(p.CocoReserve, cocoAmount)
	p.UsdcReserve = add(p.UsdcReserve, usdcAmount)
	if cocoAmount < usdcAmount {
		p.TotalLiquidity = add(p.TotalLiquidity, cocoAmount)
	} else {
		p.TotalLiquidity = add(p.TotalLiquidity, usdcAmount)
	}
	putPool(ctx, p)
	runtime.Notify("LiquidityAdded", user, cocoAmount, usdcAmount)
}

// SwapTokens sells amountIn of COCO (cocoIn) or USDC for the other token
// using the constant product formula and returns the amount bought.
func SwapTokens(user interop.Hash160, cocoIn bool, amountIn, minAmountOut int) int {
	checkAccount(user)
	checkAmount(amountIn)
	ctx := storage.GetContext()
	p := getPool(ctx)
	reserveIn, reserveOut := p.UsdcReserve, p.CocoReserve
	inPrefix, outPrefix := prefixUsdc, prefixCoco
	if cocoIn {
		reserveIn, reserveOut = p.CocoReserve, p.UsdcReserve
		inPrefix, outPrefix = prefixCoco, prefixUsdc
	}
	if reserveOut == 0 || reserveIn+amountIn == 0 {
		panic("insufficient liquidity")
	}
	amountOut := amountIn * reserveOut / (reserveIn + amountIn)
	if amountOut < minAmountOut {
		panic("slippage tolerance exceeded")
	}
	subBalance(ctx, inPrefix, user, amountIn, "insufficient funds")
	addBalance(ctx, outPrefix, user, amountOut)
	if cocoIn {
		p.CocoReserve = add(p.CocoReserve, amountIn)
		p.UsdcReserve -= amountOut
	} else {
		p.UsdcReserve = add(p.UsdcReserve, amountIn)
		p.CocoReserve -= amountOut
	}
	putPool(ctx, p)
	runtime.Notify("TokensSwapped", user, amountIn, amountOut)
	return amountOut
}

// StakeCocoTokens locks COCO from the staker's balance.
func StakeCocoTokens(staker interop.Hash160, amount int) {
	checkAccount(staker)
	checkAmount(amount)
	ctx := storage.GetContext()
	subBalance(ctx, prefixCoco, staker, amount, "insufficient funds")
	s := getStake(ctx, staker)
	s.Amount = add(s.Amount, amount)
	s.LastStake = runtime.GetTime()
	putStake(ctx, s)
	runtime.Notify("TokensStaked", staker, amount)
}

// UnstakeCocoTokens unlocks amount of staked COCO and pays rewards for the
// whole position, rewards are newly minted. It returns the rewards paid.
func UnstakeCocoTokens(staker interop.Hash160, amount int) int {
	checkAccount(staker)
	checkAmount(amount)
	ctx := storage.GetContext()
	s := getStake(ctx, staker)
	if s.Amount < amount {
		panic("insufficient staked amount")
	}
	now := runtime.GetTime()
	rewards := s.Amount * ((now - s.LastStake) / 1000) / rewardDivisor
	s.Amount -= amount
	s.LastStake = now
	putStake(ctx, s)
	if rewards > 0 {
		m := getMint(ctx)
		m.TotalSupply = add(m.TotalSupply, rewards)
		putMint(ctx, m)
	}
	addBalance(ctx, prefixCoco, staker, add(amount, rewards))
	runtime.Notify("TokensUnstaked", staker, amount, rewards)
	return rewards
}

// GetStake returns the staking position of the account.
func GetStake(staker interop.Hash160) Stake {
	return getStake(storage.GetReadOnlyContext(), staker)
}

// CreateRentalListing offers a hotel room for rent, only the hotel owner can
// do that.
func CreateRentalListing(owner interop.Hash160, hotelID, room, price int) {
	checkAccount(owner)
	checkAmount(price)
	ctx := storage.GetContext()
	h := getHotel(ctx, hotelID)
	if !h.Owner.Equals(owner) {
		panic("unauthorized operation")
	}
	checkRoom(h, room)
	l := Listing{Owner: owner, HotelID: hotelID, Room: room, Price: price, Active: true}
	storage.Put(ctx, listingKey(hotelID, room), std.Serialize(l))
	runtime.Notify("RentalListingCreated", hotelID, owner, room, price)
}

// GetListing returns the rental listing for the hotel room.
func GetListing(hotelID, room int) Listing {
	b := storage.Get(storage.GetReadOnlyContext(), listingKey(hotelID, room))
	if b == nil {
		panic("listing not found")
	}
	return std.Deserialize(b.([]byte)).(Listing)
}

// RentRoom pays usdcAmount from the renter to the hotel owner for the room.
func RentRoom(renter interop.Hash160, hotelID, room, duration, usdcAmount int) {
	checkAccount(renter)
	checkAmount(usdcAmount)
	if duration <= 0 {
		panic("invalid duration")
	}
	ctx := storage.GetContext()
	h := getHotel(ctx, hotelID)
	checkRoom(h, room)
	subBalance(ctx, prefixUsdc, renter, usdcAmount, "insufficient funds")
	addBalance(ctx, prefixUsdc, h.Owner, usdcAmount)
	runtime.Notify("RoomRented", hotelID, renter, room, duration, usdcAmount)
}

// ConfidentialTransfer moves one COCO unit from sender to recipient, the
// amount commitment is only validated and published.
func ConfidentialTransfer(sender, recipient interop.Hash160, encryptedAmount []byte) {
	checkAccount(sender)
	checkHash(recipient)
	if len(encryptedAmount) != commitmentLen {
		panic("invalid encrypted amount")
	}
	ctx := storage.GetContext()
	subBalance(ctx, prefixCoco, sender, 1, "confidential transfer failed")
	addBalance(ctx, prefixCoco, recipient, 1)
	runtime.Notify("ConfidentialTransfer", sender, recipient, encryptedAmount)
}

// OnNEP17Payment credits stable token deposits to the sender's USDC balance.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	ctx := storage.GetContext()
	stable := storage.Get(ctx, prefixStable).(interop.Hash160)
	if !runtime.GetCallingScriptHash().Equals(stable) {
		panic("unsupported token")
	}
	if from == nil {
		return
	}
	addBalance(ctx, prefixUsdc, from, amount)
	runtime.Notify("UsdcDeposited", from, amount)
}

// WithdrawUsdc pays USDC balance back in the stable token.
func WithdrawUsdc(owner interop.Hash160, amount int) {
	checkAccount(owner)
	checkAmount(amount)
	ctx := storage.GetContext()
	subBalance(ctx, prefixUsdc, owner, amount, "insufficient funds")
	stable := storage.Get(ctx, prefixStable).(interop.Hash160)
	ok := contract.Call(stable, "transfer", contract.All,
		runtime.GetExecutingScriptHash(), owner, amount, nil).(bool)
	if !ok {
		panic("transfer failed")
	}
	runtime.Notify("UsdcWithdrawn", owner, amount)
}

func checkHash(h interop.Hash160) {
	if len(h) != interop.Hash160Len {
		panic("invalid account")
	}
}

func checkAccount(h interop.Hash160) {
	checkHash(h)
	if !runtime.CheckWitness(h) {
		panic("unauthorized operation")
	}
}

func checkAuthority(ctx storage.Context) {
	if !runtime.CheckWitness(getMint(ctx).Authority) {
		panic("unauthorized operation")
	}
}

func checkAmount(amount int) {
	if amount < 0 || amount > maxAmount {
		panic("invalid amount")
	}
}

func checkRoom(h Hotel, room int) {
	if room <= 0 || room > h.RoomCount {
		panic("invalid room number")
	}
}

func add(a, b int) int {
	s := a + b
	if s > maxAmount {
		panic("arithmetic overflow")
	}
	return s
}

func getMint(ctx storage.Context) Mint {
	b := storage.Get(ctx, prefixMint)
	if b == nil {
		panic("not initialized")
	}
	return std.Deserialize(b.([]byte)).(Mint)
}

func putMint(ctx storage.Context, m Mint) {
	storage.Put(ctx, prefixMint, std.Serialize(m))
}

func hotelKey(id int) string {
	return prefixHotel + std.Itoa10(id)
}

func getHotel(ctx storage.Context, id int) Hotel {
	b := storage.Get(ctx, hotelKey(id))
	if b == nil {
		panic("hotel not found")
	}
	return std.Deserialize(b.([]byte)).(Hotel)
}

func putHotel(ctx storage.Context, id int, h Hotel) {
	storage.Put(ctx, hotelKey(id), std.Serialize(h))
}

func getPool(ctx storage.Context) Pool {
	b := storage.Get(ctx, prefixPool)
	if b == nil {
		panic("pool not found")
	}
	return std.Deserialize(b.([]byte)).(Pool)
}

func putPool(ctx storage.Context, p Pool) {
	storage.Put(ctx, prefixPool, std.Serialize(p))
}

func getStake(ctx storage.Context, staker interop.Hash160) Stake {
	b := storage.Get(ctx, append([]byte(prefixStake), staker...))
	if b == nil {
		return Stake{Owner: staker}
	}
	return std.Deserialize(b.([]byte)).(Stake)
}

func putStake(ctx storage.Context, s Stake) {
	storage.Put(ctx, append([]byte(prefixStake), s.Owner...), std.Serialize(s))
}

func listingKey(hotelID, room int) string {
	return prefixListing + std.Itoa10(hotelID) + "." + std.Itoa10(room)
}

func getBalance(ctx storage.Context, prefix string, h interop.Hash160) int {
	v := storage.Get(ctx, append([]byte(prefix), h...))
	if v == nil {
		return 0
	}
	return v.(int)
}

func addBalance(ctx storage.Context, prefix string, h interop.Hash160, amount int) {
	storage.Put(ctx, append([]byte(prefix), h...), add(getBalance(ctx, prefix, h), amount))
}

func subBalance(ctx storage.Context, prefix string, h interop.Hash160, amount int, msg string) {
	bal := getBalance(ctx, prefix, h)
	if bal < amount {
		panic(msg)
	}
	key := append([]byte(prefix), h...)
	if bal == amount {
		storage.Delete(ctx, key)
		return
	}
	storage.Put(ctx, key, bal-amount)
}
