/*
Package coconut provides RPC wrappers for the Coconut contract. ContractReader
covers the safe methods, Contract adds the state-changing ones. Every
state-changing method sends a transaction signed by the actor and returns
its hash and ValidUntilBlock, the caller awaits it with the actor's Wait.
*/
package coconut

import (
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/nep17"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// CommitmentLen is the size of the confidential transfer amount commitment.
const CommitmentLen = 32

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker
	nep17.Actor

	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	Sender() util.Uint160
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract provides full Coconut interface, both safe and state-changing
// methods.
type Contract struct {
	ContractReader

	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using the given contract
// hash and Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using the given contract hash and
// Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// Hash returns the contract script hash.
func (c *ContractReader) Hash() util.Uint160 {
	return c.hash
}

type stateItem interface {
	FromStackItem(item stackitem.Item) error
}

func itemTo[T any, PT interface {
	*T
	stateItem
}](item stackitem.Item, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	res := PT(new(T))
	if err := res.FromStackItem(item); err != nil {
		return nil, err
	}
	return (*T)(res), nil
}

// IsInitialized invokes `isInitialized` method of contract.
func (c *ContractReader) IsInitialized() (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isInitialized"))
}

// GetMint invokes `getMint` method of contract.
func (c *ContractReader) GetMint() (*Mint, error) {
	return itemTo[Mint](unwrap.Item(c.invoker.Call(c.hash, "getMint")))
}

// StableToken invokes `stableToken` method of contract.
func (c *ContractReader) StableToken() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "stableToken"))
}

// GetHotel invokes `getHotel` method of contract.
func (c *ContractReader) GetHotel(id *big.Int) (*Hotel, error) {
	return itemTo[Hotel](unwrap.Item(c.invoker.Call(c.hash, "getHotel", id)))
}

// BalanceOf invokes `balanceOf` method of contract.
func (c *ContractReader) BalanceOf(account util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "balanceOf", account))
}

// UsdcBalanceOf invokes `usdcBalanceOf` method of contract.
func (c *ContractReader) UsdcBalanceOf(account util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "usdcBalanceOf", account))
}

// GetPool invokes `getPool` method of contract.
func (c *ContractReader) GetPool() (*Pool, error) {
	return itemTo[Pool](unwrap.Item(c.invoker.Call(c.hash, "getPool")))
}

// GetStake invokes `getStake` method of contract.
func (c *ContractReader) GetStake(staker util.Uint160) (*Stake, error) {
	return itemTo[Stake](unwrap.Item(c.invoker.Call(c.hash, "getStake", staker)))
}

// GetListing invokes `getListing` method of contract.
func (c *ContractReader) GetListing(hotelID, room *big.Int) (*Listing, error) {
	return itemTo[Listing](unwrap.Item(c.invoker.Call(c.hash, "getListing", hotelID, room)))
}

// Initialize creates a transaction invoking `initialize` method of the
// contract.
func (c *Contract) Initialize() (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "initialize")
}

// InitializeHotel creates a transaction invoking `initializeHotel` method of
// the contract.
func (c *Contract) InitializeHotel(owner util.Uint160, name string, roomCount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "initializeHotel", owner, name, roomCount)
}

// VerifyHotel creates a transaction invoking `verifyHotel` method of the
// contract.
func (c *Contract) VerifyHotel(id *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "verifyHotel", id)
}

// IssueCocoTokens creates a transaction invoking `issueCocoTokens` method of
// the contract.
func (c *Contract) IssueCocoTokens(to util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "issueCocoTokens", to, amount)
}

// CreateLiquidityPool creates a transaction invoking `createLiquidityPool`
// method of the contract.
func (c *Contract) CreateLiquidityPool(creator util.Uint160, initialLiquidity *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "createLiquidityPool", creator, initialLiquidity)
}

// AddLiquidity creates a transaction invoking `addLiquidity` method of the
// contract.
func (c *Contract) AddLiquidity(user util.Uint160, coco, usdc *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "addLiquidity", user, coco, usdc)
}

// SwapTokens creates a transaction invoking `swapTokens` method of the
// contract.
func (c *Contract) SwapTokens(user util.Uint160, cocoIn bool, amountIn, minAmountOut *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "swapTokens", user, cocoIn, amountIn, minAmountOut)
}

// StakeCocoTokens creates a transaction invoking `stakeCocoTokens` method of
// the contract.
func (c *Contract) StakeCocoTokens(staker util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "stakeCocoTokens", staker, amount)
}

// UnstakeCocoTokens creates a transaction invoking `unstakeCocoTokens` method
// of the contract.
func (c *Contract) UnstakeCocoTokens(staker util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "unstakeCocoTokens", staker, amount)
}

// CreateRentalListing creates a transaction invoking `createRentalListing`
// method of the contract.
func (c *Contract) CreateRentalListing(owner util.Uint160, hotelID, room, price *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "createRentalListing", owner, hotelID, room, price)
}

// RentRoom creates a transaction invoking `rentRoom` method of the contract.
func (c *Contract) RentRoom(renter util.Uint160, hotelID, room, duration, usdcAmount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "rentRoom", renter, hotelID, room, duration, usdcAmount)
}

// ConfidentialTransfer creates a transaction invoking `confidentialTransfer`
// method of the contract.
func (c *Contract) ConfidentialTransfer(sender, recipient util.Uint160, commitment []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "confidentialTransfer", sender, recipient, commitment)
}

// WithdrawUsdc creates a transaction invoking `withdrawUsdc` method of the
// contract.
func (c *Contract) WithdrawUsdc(owner util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "withdrawUsdc", owner, amount)
}

// DepositUsdc transfers amount of the stable token from the actor's account
// to the contract which credits it to the USDC balance.
func (c *Contract) DepositUsdc(amount *big.Int) (util.Uint256, uint32, error) {
	stable, err := c.StableToken()
	if err != nil {
		return util.Uint256{}, 0, err
	}
	return nep17.New(c.actor, stable).Transfer(c.actor.Sender(), c.hash, amount, nil)
}
