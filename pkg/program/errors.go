package program

import (
	"errors"
	"fmt"

	"github.com/coconut-rwa/coconut/pkg/provider"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/waiter"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
)

// TransactionError is returned when the remote system rejects a call: the
// transaction can't be created or sent, it's not accepted in time or its
// execution ends in a FAULT state.
type TransactionError struct {
	Method string
	// Hash is set if the transaction made it to the chain.
	Hash util.Uint256
	// State is the VM state of the execution if there was one.
	State vmstate.State
	// Exception is the fault exception of the execution if any.
	Exception string
	Err       error
}

// ErrFault is wrapped by TransactionError for faulted executions.
var ErrFault = errors.New("execution faulted")

// Error implements the error interface.
func (e *TransactionError) Error() string {
	if e.Err == ErrFault {
		return fmt.Sprintf("transaction %s (%s) failed: %s state, exception: %s", e.Hash.StringLE(), e.Method, e.State, e.Exception)
	}
	return fmt.Sprintf("%s transaction failed: %v", e.Method, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransactionError) Unwrap() error {
	return e.Err
}

// Confirm classifies the result of actor's Wait. Successful HALT executions
// are returned as is. A transaction that is not accepted before its
// ValidUntilBlock or before the context deadline is a TransactionError.
func Confirm(method string, res *state.AppExecResult, err error) (*state.AppExecResult, error) {
	if err != nil {
		var connErr *provider.ConnectionError
		if errors.As(err, &connErr) {
			return nil, err
		}
		if errors.Is(err, waiter.ErrContextDone) || errors.Is(err, waiter.ErrTxNotAccepted) {
			return nil, &TransactionError{Method: method, Err: err}
		}
		if provider.IsTransportError(err) {
			return nil, &provider.ConnectionError{Err: err}
		}
		return nil, &TransactionError{Method: method, Err: err}
	}
	if !res.VMState.HasFlag(vmstate.Halt) {
		return nil, &TransactionError{
			Method:    method,
			Hash:      res.Container,
			State:     res.VMState,
			Exception: res.FaultException,
			Err:       ErrFault,
		}
	}
	return res, nil
}
