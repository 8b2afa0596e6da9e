package coconut_test

import (
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

type env struct {
	e     *neotest.Executor
	c     *neotest.ContractInvoker
	hash  util.Uint160
	gasID util.Uint160
}

func newCoconut(t *testing.T, initialize bool) *env {
	bc, acc := chain.NewSingle(t)
	e := neotest.NewExecutor(t, bc, acc, acc)
	ctr := neotest.CompileFile(t, e.CommitteeHash, ".", "coconut.yml")
	e.DeployContract(t, ctr, nil)

	c := e.CommitteeInvoker(ctr.Hash)
	if initialize {
		c.Invoke(t, stackitem.Null{}, "initialize")
	}
	return &env{e: e, c: c, hash: ctr.Hash, gasID: e.NativeHash(t, nativenames.Gas)}
}

// user creates a funded account and an invoker signed by it.
func (v *env) user(t *testing.T) (neotest.Signer, *neotest.ContractInvoker) {
	acc := v.e.NewAccount(t)
	return acc, v.c.WithSigners(acc)
}

// deposit credits USDC to the account by sending GAS to the contract.
func (v *env) deposit(t *testing.T, acc neotest.Signer, amount int64) {
	v.e.NewInvoker(v.gasID, acc).Invoke(t, true, "transfer", acc.ScriptHash(), v.hash, amount, nil)
}

func (v *env) balance(t *testing.T, method string, h util.Uint160) int64 {
	s, err := v.c.TestInvoke(t, method, h)
	require.NoError(t, err)
	return s.Pop().BigInt().Int64()
}

func structFields(t *testing.T, c *neotest.ContractInvoker, method string, args ...any) []stackitem.Item {
	s, err := c.TestInvoke(t, method, args...)
	require.NoError(t, err)
	arr, ok := s.Pop().Item().Value().([]stackitem.Item)
	require.True(t, ok)
	return arr
}

func TestInitialize(t *testing.T) {
	v := newCoconut(t, false)

	v.c.Invoke(t, false, "isInitialized")
	v.c.InvokeFail(t, "not initialized", "getMint")
	v.c.Invoke(t, stackitem.Null{}, "initialize")
	v.c.Invoke(t, true, "isInitialized")

	mint := structFields(t, v.c, "getMint")
	require.Len(t, mint, 2)
	authority, err := mint[0].TryBytes()
	require.NoError(t, err)
	require.Equal(t, v.c.CommitteeHash.BytesBE(), authority)
	require.Equal(t, int64(0), mint[1].Value().(*big.Int).Int64())

	t.Run("repeated", func(t *testing.T) {
		v.c.InvokeFail(t, "already initialized", "initialize")
	})
	t.Run("stable token", func(t *testing.T) {
		v.c.Invoke(t, v.gasID.BytesBE(), "stableToken")
	})
}

func TestHotel(t *testing.T) {
	v := newCoconut(t, true)
	owner, oc := v.user(t)

	oc.InvokeFail(t, "invalid room count", "initializeHotel", owner.ScriptHash(), "Palm", 0)
	oc.InvokeFail(t, "invalid room count", "initializeHotel", owner.ScriptHash(), "Palm", 65536)
	v.c.InvokeFail(t, "unauthorized operation", "initializeHotel", owner.ScriptHash(), "Palm", 10)

	oc.Invoke(t, 1, "initializeHotel", owner.ScriptHash(), "Palm", 10)
	oc.Invoke(t, 2, "initializeHotel", owner.ScriptHash(), "Sand", 3)

	h := structFields(t, v.c, "getHotel", 1)
	require.Len(t, h, 4)
	name, err := h[1].TryBytes()
	require.NoError(t, err)
	require.Equal(t, "Palm", string(name))
	verified, err := h[3].TryBool()
	require.NoError(t, err)
	require.False(t, verified)

	oc.InvokeFail(t, "unauthorized operation", "verifyHotel", 1)
	v.c.InvokeFail(t, "hotel not found", "verifyHotel", 3)
	v.c.Invoke(t, stackitem.Null{}, "verifyHotel", 1)

	h = structFields(t, v.c, "getHotel", 1)
	verified, err = h[3].TryBool()
	require.NoError(t, err)
	require.True(t, verified)
	v.c.InvokeFail(t, "hotel not found", "getHotel", 5)
}

func TestIssue(t *testing.T) {
	v := newCoconut(t, true)
	user, uc := v.user(t)

	uc.InvokeFail(t, "unauthorized operation", "issueCocoTokens", user.ScriptHash(), 100)
	v.c.InvokeFail(t, "invalid amount", "issueCocoTokens", user.ScriptHash(), -1)
	v.c.Invoke(t, stackitem.Null{}, "issueCocoTokens", user.ScriptHash(), 100)
	v.c.Invoke(t, stackitem.Null{}, "issueCocoTokens", user.ScriptHash(), 50)
	require.Equal(t, int64(150), v.balance(t, "balanceOf", user.ScriptHash()))

	mint := structFields(t, v.c, "getMint")
	require.Equal(t, int64(150), mint[1].Value().(*big.Int).Int64())

	max := int64(9223372036854775807)
	v.c.InvokeFail(t, "arithmetic overflow", "issueCocoTokens", user.ScriptHash(), max)

	t.Run("not initialized", func(t *testing.T) {
		n := newCoconut(t, false)
		n.c.InvokeFail(t, "not initialized", "issueCocoTokens", user.ScriptHash(), 1)
	})
}

func TestPool(t *testing.T) {
	v := newCoconut(t, true)
	user, uc := v.user(t)

	uc.InvokeFail(t, "pool not found", "addLiquidity", user.ScriptHash(), 1, 1)
	uc.Invoke(t, stackitem.Null{}, "createLiquidityPool", user.ScriptHash(), 5)
	uc.InvokeFail(t, "pool already exists", "createLiquidityPool", user.ScriptHash(), 5)

	v.c.Invoke(t, stackitem.Null{}, "issueCocoTokens", user.ScriptHash(), 3000)
	v.deposit(t, user, 1500)
	require.Equal(t, int64(1500), v.balance(t, "usdcBalanceOf", user.ScriptHash()))

	uc.InvokeFail(t, "insufficient funds", "addLiquidity", user.ScriptHash(), 3001, 1000)
	uc.InvokeFail(t, "insufficient funds", "addLiquidity", user.ScriptHash(), 2000, 1501)
	uc.Invoke(t, stackitem.Null{}, "addLiquidity", user.ScriptHash(), 2000, 1000)

	p := structFields(t, v.c, "getPool")
	require.Equal(t, int64(1005), p[0].Value().(*big.Int).Int64())
	require.Equal(t, int64(2000), p[1].Value().(*big.Int).Int64())
	require.Equal(t, int64(1000), p[2].Value().(*big.Int).Int64())

	uc.InvokeFail(t, "slippage tolerance exceeded", "swapTokens", user.ScriptHash(), true, 1000, 334)
	uc.Invoke(t, 333, "swapTokens", user.ScriptHash(), true, 1000, 333)
	require.Equal(t, int64(0), v.balance(t, "balanceOf", user.ScriptHash()))
	require.Equal(t, int64(833), v.balance(t, "usdcBalanceOf", user.ScriptHash()))

	p = structFields(t, v.c, "getPool")
	require.Equal(t, int64(3000), p[1].Value().(*big.Int).Int64())
	require.Equal(t, int64(667), p[2].Value().(*big.Int).Int64())

	uc.InvokeFail(t, "insufficient funds", "swapTokens", user.ScriptHash(), true, 10, 0)
	uc.Invoke(t, 1666, "swapTokens", user.ScriptHash(), false, 833, 0)
	require.Equal(t, int64(1666), v.balance(t, "balanceOf", user.ScriptHash()))

	t.Run("empty reserves", func(t *testing.T) {
		n := newCoconut(t, true)
		nu, nc := n.user(t)
		nc.Invoke(t, stackitem.Null{}, "createLiquidityPool", nu.ScriptHash(), 0)
		nc.InvokeFail(t, "insufficient liquidity", "swapTokens", nu.ScriptHash(), true, 10, 0)
	})
}

func TestStaking(t *testing.T) {
	v := newCoconut(t, true)
	user, uc := v.user(t)
	const amount = 5_000_000_000

	v.c.Invoke(t, stackitem.Null{}, "issueCocoTokens", user.ScriptHash(), amount)
	uc.InvokeFail(t, "insufficient funds", "stakeCocoTokens", user.ScriptHash(), amount+1)
	uc.Invoke(t, stackitem.Null{}, "stakeCocoTokens", user.ScriptHash(), amount)
	require.Equal(t, int64(0), v.balance(t, "balanceOf", user.ScriptHash()))

	s := structFields(t, v.c, "getStake", user.ScriptHash())
	require.Equal(t, int64(amount), s[1].Value().(*big.Int).Int64())

	v.e.AddNewBlock(t)
	v.e.AddNewBlock(t)

	uc.InvokeFail(t, "insufficient staked amount", "unstakeCocoTokens", user.ScriptHash(), amount+1)
	tx := uc.PrepareInvoke(t, "unstakeCocoTokens", user.ScriptHash(), amount)
	v.e.AddNewBlock(t, tx)
	res := v.e.CheckHalt(t, tx.Hash())
	require.Len(t, res.Stack, 1)
	rewards := res.Stack[0].Value().(*big.Int).Int64()
	require.GreaterOrEqual(t, rewards, int64(0))
	require.Equal(t, amount+rewards, v.balance(t, "balanceOf", user.ScriptHash()))

	mint := structFields(t, v.c, "getMint")
	require.Equal(t, amount+rewards, mint[1].Value().(*big.Int).Int64())
	require.Len(t, res.Events, 1)
	require.Equal(t, "TokensUnstaked", res.Events[0].Name)
}

func TestRental(t *testing.T) {
	v := newCoconut(t, true)
	owner, oc := v.user(t)
	renter, rc := v.user(t)

	oc.Invoke(t, 1, "initializeHotel", owner.ScriptHash(), "Palm", 4)
	rc.InvokeFail(t, "unauthorized operation", "createRentalListing", renter.ScriptHash(), 1, 2, 100)
	oc.InvokeFail(t, "invalid room number", "createRentalListing", owner.ScriptHash(), 1, 5, 100)
	oc.InvokeFail(t, "hotel not found", "createRentalListing", owner.ScriptHash(), 2, 1, 100)
	oc.Invoke(t, stackitem.Null{}, "createRentalListing", owner.ScriptHash(), 1, 2, 100)

	l := structFields(t, v.c, "getListing", 1, 2)
	require.Len(t, l, 5)
	require.Equal(t, int64(100), l[3].Value().(*big.Int).Int64())
	v.c.InvokeFail(t, "listing not found", "getListing", 1, 3)

	v.deposit(t, renter, 250)
	rc.InvokeFail(t, "invalid room number", "rentRoom", renter.ScriptHash(), 1, 0, 3, 100)
	rc.InvokeFail(t, "insufficient funds", "rentRoom", renter.ScriptHash(), 1, 2, 3, 251)
	rc.Invoke(t, stackitem.Null{}, "rentRoom", renter.ScriptHash(), 1, 2, 3, 200)
	require.Equal(t, int64(50), v.balance(t, "usdcBalanceOf", renter.ScriptHash()))
	require.Equal(t, int64(200), v.balance(t, "usdcBalanceOf", owner.ScriptHash()))

	t.Run("withdraw", func(t *testing.T) {
		oc.InvokeFail(t, "insufficient funds", "withdrawUsdc", owner.ScriptHash(), 201)
		oc.Invoke(t, stackitem.Null{}, "withdrawUsdc", owner.ScriptHash(), 200)
		require.Equal(t, int64(0), v.balance(t, "usdcBalanceOf", owner.ScriptHash()))
	})
}

func TestConfidentialTransfer(t *testing.T) {
	v := newCoconut(t, true)
	sender, sc := v.user(t)
	recipient := v.e.NewAccount(t)
	commitment := make([]byte, 32)

	sc.InvokeFail(t, "invalid encrypted amount", "confidentialTransfer", sender.ScriptHash(), recipient.ScriptHash(), make([]byte, 31))
	sc.InvokeFail(t, "confidential transfer failed", "confidentialTransfer", sender.ScriptHash(), recipient.ScriptHash(), commitment)

	v.c.Invoke(t, stackitem.Null{}, "issueCocoTokens", sender.ScriptHash(), 2)
	sc.Invoke(t, stackitem.Null{}, "confidentialTransfer", sender.ScriptHash(), recipient.ScriptHash(), commitment)
	require.Equal(t, int64(1), v.balance(t, "balanceOf", sender.ScriptHash()))
	require.Equal(t, int64(1), v.balance(t, "balanceOf", recipient.ScriptHash()))
}

func TestOnNEP17Payment(t *testing.T) {
	v := newCoconut(t, true)
	user, _ := v.user(t)
	neoID := v.e.NativeHash(t, nativenames.Neo)

	v.e.NewInvoker(neoID, v.e.Validator).InvokeFail(t, "unsupported token", "transfer",
		v.e.Validator.ScriptHash(), v.hash, 1, nil)
	v.deposit(t, user, 10)
	require.Equal(t, int64(10), v.balance(t, "usdcBalanceOf", user.ScriptHash()))
}
