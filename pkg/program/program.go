/*
Package program provides handles for deployed programs (contracts) and a
way to call their methods. A Program binds a script hash and, optionally,
the manifest describing its interface to an actor; MethodCall sends a single
transaction and waits for its confirmation.

	prog := program.New("Coconut", hash, m, act)
	h, err := prog.Methods("initialize").RPC()
*/
package program

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// ErrMethodNotFound is returned when the method with the given number of
// parameters is not a part of the program's ABI.
var ErrMethodNotFound = errors.New("method not found in program ABI")

// Invoker performs read-only calls.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
}

// Actor sends transactions and waits for them, actor.Actor implements it.
type Actor interface {
	Invoker

	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	Wait(h util.Uint256, vub uint32, err error) (*state.AppExecResult, error)
}

// Program is a handle of a deployed program. It's read-only once created.
type Program struct {
	name     string
	hash     util.Uint160
	manifest *manifest.Manifest
	actor    Actor
}

// MethodCall is a prepared invocation of a program method.
type MethodCall struct {
	prog   *Program
	method string
	params []any
	err    error
}

// New creates a program handle. m may be nil if the interface description is
// not known, no local ABI checks are performed then.
func New(name string, hash util.Uint160, m *manifest.Manifest, act Actor) *Program {
	return &Program{
		name:     name,
		hash:     hash,
		manifest: m,
		actor:    act,
	}
}

// Name returns the program name.
func (p *Program) Name() string {
	return p.name
}

// Hash returns the program script hash.
func (p *Program) Hash() util.Uint160 {
	return p.hash
}

// Manifest returns the program manifest if known.
func (p *Program) Manifest() *manifest.Manifest {
	return p.manifest
}

// Methods prepares a call of the given method with the given parameters.
// ABI mismatch is reported by RPC and View.
func (p *Program) Methods(method string, params ...any) *MethodCall {
	mc := &MethodCall{prog: p, method: method, params: params}
	if p.manifest != nil && p.manifest.ABI.GetMethod(method, len(params)) == nil {
		mc.err = fmt.Errorf("%w: %s/%d of %s", ErrMethodNotFound, method, len(params), p.name)
	}
	return mc
}

// Method returns the method name.
func (m *MethodCall) Method() string {
	return m.method
}

// RPC sends the transaction once and waits for it to be accepted. It returns
// the transaction hash if the transaction is executed successfully. Node
// rejections and faulted executions are returned as TransactionError,
// transport failures as provider.ConnectionError.
func (m *MethodCall) RPC() (util.Uint256, error) {
	res, err := m.Exec()
	if err != nil {
		return util.Uint256{}, err
	}
	return res.Container, nil
}

// Exec is like RPC, but returns the whole execution result, it's useful for
// methods returning values or emitting events.
func (m *MethodCall) Exec() (*state.AppExecResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	res, err := m.prog.actor.Wait(m.prog.actor.SendCall(m.prog.hash, m.method, m.params...))
	return Confirm(m.method, res, err)
}

// View performs a read-only test invocation of the method.
func (m *MethodCall) View() (*result.Invoke, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.prog.actor.Call(m.prog.hash, m.method, m.params...)
}
