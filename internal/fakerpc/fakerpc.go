/*
Package fakerpc provides an in-memory RPC client that implements everything
actor, invoker and the polling waiter need. It's used by tests to run the
real transaction creation and awaiting code without a node.
*/
package fakerpc

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/config/netmode"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
)

// ErrNotFound is returned by GetApplicationLog for unknown transactions.
var ErrNotFound = errors.New("unknown transaction")

// Call is a recorded InvokeFunction request.
type Call struct {
	Contract util.Uint160
	Method   string
	Params   []smartcontract.Parameter
}

// Client is a fake RPC client. Zero value is not usable, use New.
type Client struct {
	// InvokeState is the VM state returned for test invocations, "HALT" by
	// default.
	InvokeState string
	// InvokeFault is the fault exception returned for test invocations.
	InvokeFault string
	// InvokeStack is the result stack of test invocations.
	InvokeStack []stackitem.Item
	// InvokeErr fails test invocations.
	InvokeErr error
	// SendErr fails SendRawTransaction.
	SendErr error
	// VersionErr fails GetVersion.
	VersionErr error
	// ExecState is the VM state recorded for accepted transactions.
	ExecState vmstate.State
	// ExecFault is the fault exception recorded for accepted transactions.
	ExecFault string
	// ExecStack is the result stack recorded for accepted transactions.
	ExecStack []stackitem.Item
	// ExecEvents are notifications recorded for accepted transactions.
	ExecEvents []state.NotificationEvent
	// Drop makes sent transactions never appear in the chain.
	Drop bool
	// Advance makes every GetBlockCount call produce a new block.
	Advance bool

	ctx     context.Context
	version *result.Version
	height  atomic.Uint32

	lock   sync.Mutex
	calls  []Call
	sent   []*transaction.Transaction
	logs   map[util.Uint256]*result.ApplicationLog
	closed bool
}

// New creates a client with a unit test network version and the chain at
// height 10.
func New() *Client {
	c := &Client{
		InvokeState: vmstate.Halt.String(),
		ExecState:   vmstate.Halt,
		ctx:         context.Background(),
		version: &result.Version{
			Protocol: result.Protocol{
				Network:              netmode.UnitTestNet,
				MillisecondsPerBlock: 20,
				ValidatorsCount:      1,
			},
		},
		logs: make(map[util.Uint256]*result.ApplicationLog),
	}
	c.height.Store(11)
	return c
}

// WithContext sets the client context used by the waiter.
func (c *Client) WithContext(ctx context.Context) *Client {
	c.ctx = ctx
	return c
}

func (c *Client) invokeResult() (*result.Invoke, error) {
	if c.InvokeErr != nil {
		return nil, c.InvokeErr
	}
	return &result.Invoke{
		State:          c.InvokeState,
		GasConsumed:    100_0000,
		FaultException: c.InvokeFault,
		Stack:          c.InvokeStack,
	}, nil
}

// InvokeContractVerify implements invoker.RPCInvoke.
func (c *Client) InvokeContractVerify(contract util.Uint160, params []smartcontract.Parameter, signers []transaction.Signer, witnesses ...transaction.Witness) (*result.Invoke, error) {
	return c.invokeResult()
}

// InvokeFunction implements invoker.RPCInvoke.
func (c *Client) InvokeFunction(contract util.Uint160, operation string, params []smartcontract.Parameter, signers []transaction.Signer) (*result.Invoke, error) {
	c.lock.Lock()
	c.calls = append(c.calls, Call{Contract: contract, Method: operation, Params: params})
	c.lock.Unlock()
	return c.invokeResult()
}

// InvokeScript implements invoker.RPCInvoke.
func (c *Client) InvokeScript(script []byte, signers []transaction.Signer) (*result.Invoke, error) {
	return c.invokeResult()
}

// CalculateNetworkFee implements actor.RPCActor.
func (c *Client) CalculateNetworkFee(tx *transaction.Transaction) (int64, error) {
	return 12345, nil
}

// GetBlockCount implements actor.RPCActor.
func (c *Client) GetBlockCount() (uint32, error) {
	if c.Advance {
		return c.height.Add(1), nil
	}
	return c.height.Load(), nil
}

// GetVersion implements actor.RPCActor.
func (c *Client) GetVersion() (*result.Version, error) {
	if c.VersionErr != nil {
		return nil, c.VersionErr
	}
	v := *c.version
	return &v, nil
}

// SendRawTransaction implements actor.RPCActor. Unless Drop is set the
// transaction is immediately "accepted" with ExecState.
func (c *Client) SendRawTransaction(tx *transaction.Transaction) (util.Uint256, error) {
	if c.SendErr != nil {
		return util.Uint256{}, c.SendErr
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	c.sent = append(c.sent, tx)
	h := tx.Hash()
	if !c.Drop {
		c.logs[h] = &result.ApplicationLog{
			Container:     h,
			IsTransaction: true,
			Executions: []state.Execution{{
				Trigger:        trigger.Application,
				VMState:        c.ExecState,
				GasConsumed:    tx.SystemFee,
				FaultException: c.ExecFault,
				Stack:          c.ExecStack,
				Events:         c.ExecEvents,
			}},
		}
	}
	return h, nil
}

// TerminateSession implements invoker.RPCSessions.
func (c *Client) TerminateSession(sessionID uuid.UUID) (bool, error) {
	return false, nil
}

// TraverseIterator implements invoker.RPCSessions.
func (c *Client) TraverseIterator(sessionID, iteratorID uuid.UUID, maxItemsCount int) ([]stackitem.Item, error) {
	return nil, nil
}

// Context implements waiter.RPCPollingBased.
func (c *Client) Context() context.Context {
	return c.ctx
}

// GetApplicationLog implements waiter.RPCPollingBased.
func (c *Client) GetApplicationLog(hash util.Uint256, trig *trigger.Type) (*result.ApplicationLog, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	l, ok := c.logs[hash]
	if !ok {
		return nil, ErrNotFound
	}
	return l, nil
}

// Close implements provider.RPC.
func (c *Client) Close() {
	c.lock.Lock()
	c.closed = true
	c.lock.Unlock()
}

// Closed tells whether Close was called.
func (c *Client) Closed() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.closed
}

// Sent returns transactions passed to SendRawTransaction.
func (c *Client) Sent() []*transaction.Transaction {
	c.lock.Lock()
	defer c.lock.Unlock()
	return append([]*transaction.Transaction(nil), c.sent...)
}

// Calls returns recorded InvokeFunction requests.
func (c *Client) Calls() []Call {
	c.lock.Lock()
	defer c.lock.Unlock()
	return append([]Call(nil), c.calls...)
}
