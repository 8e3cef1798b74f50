package ledger

import "errors"

var (
	// ErrRPC marks transport or protocol level failures talking to the
	// ledger node.
	ErrRPC = errors.New("ledger rpc error")

	// ErrTransactionRejected means the node accepted the request but the
	// transaction itself was refused.
	ErrTransactionRejected = errors.New("transaction rejected by ledger")

	ErrInvalidKeypair = errors.New("invalid relayer keypair")
)
