package dbscope

import "errors"

// Setup errors. They are returned immediately and never retried.
var (
	// ErrPoolAlreadySet is returned by WithPool when the context chain already
	// carries a pool.
	ErrPoolAlreadySet = errors.New("pool already established on context")

	// ErrPoolNotSet is returned when an operation needs a pool and the context
	// chain carries none.
	ErrPoolNotSet = errors.New("pool not set on context")

	// ErrTxNotSet is returned when an operation needs a transaction and the
	// context chain carries none.
	ErrTxNotSet = errors.New("transaction not set on context")

	// ErrPoolClosed is returned by GetRequest after ClosePool, and by drivers
	// asked to connect a closed pool.
	ErrPoolClosed = errors.New("pool is closed")

	// ErrTxFinalized is returned by GetTxRequest after Commit or Rollback.
	ErrTxFinalized = errors.New("transaction already committed or rolled back")

	// ErrRequestCanceled is returned when a canceled request is executed.
	ErrRequestCanceled = errors.New("request canceled")
)

// Driver signals. Drivers return errors matching these with errors.Is.
var (
	// ErrAlreadyBegun is returned by Transaction.Begin on a begun transaction.
	ErrAlreadyBegun = errors.New("transaction has already begun")

	// ErrNotBegun is returned by Transaction.Commit and Transaction.Rollback
	// when there is nothing to finalize.
	ErrNotBegun = errors.New("transaction has not begun")

	// ErrRequestInProgress is returned by Transaction.Commit and
	// Transaction.Rollback while a statement on the transaction is running.
	ErrRequestInProgress = errors.New("cannot finalize transaction while a request is in progress")

	// ErrNotConnected is returned by drivers asked to run a statement before
	// the pool is connected.
	ErrNotConnected = errors.New("pool is not connected")
)

// BenignBeginSignals lists the Begin failures that mean the transaction is
// already usable. A racing request that lost the begin race sees one of them.
var BenignBeginSignals = []error{ErrAlreadyBegun}

// BenignFinalizeSignals lists the Commit/Rollback failures that mean there was
// nothing to finalize. ErrRequestInProgress is deliberately absent.
var BenignFinalizeSignals = []error{ErrNotBegun}

// IsBenignBegin reports whether err is one of BenignBeginSignals.
func IsBenignBegin(err error) bool {
	return matchesAny(err, BenignBeginSignals)
}

// IsBenignFinalize reports whether err is one of BenignFinalizeSignals.
func IsBenignFinalize(err error) bool {
	return matchesAny(err, BenignFinalizeSignals)
}

func matchesAny(err error, signals []error) bool {
	if err == nil {
		return false
	}
	for _, s := range signals {
		if errors.Is(err, s) {
			return true
		}
	}
	return false
}
