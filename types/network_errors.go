package types

import (
	"fmt"
	"time"
)

// TxNoConfirmationErr is returned when the wait budget runs out before every tracked tx resolved.
type TxNoConfirmationErr struct {
	Chain   string
	Pending int
	Total   int
	Elapsed time.Duration
}

func NewTxNoConfirmationErr(chain string, pending, total int, elapsed time.Duration) error {
	return &TxNoConfirmationErr{
		Chain:   chain,
		Pending: pending,
		Total:   total,
		Elapsed: elapsed,
	}
}

func (e *TxNoConfirmationErr) Error() string {
	return fmt.Sprintf("no confirmation for %d of %d txs on chain %s after %s", e.Pending, e.Total,
		e.Chain, e.Elapsed)
}

// InvalidHeightErr means a chain returned a block height that cannot be represented. This is
// corrupt data, not a slow chain.
type InvalidHeightErr struct {
	Revision uint64
	Height   int64
	Reason   string
}

func NewInvalidHeightErr(revision uint64, height int64, reason string) error {
	return &InvalidHeightErr{
		Revision: revision,
		Height:   height,
		Reason:   reason,
	}
}

func (e *InvalidHeightErr) Error() string {
	return fmt.Sprintf("cannot build height from revision %d and block height %d: %s", e.Revision,
		e.Height, e.Reason)
}

type InvalidRecordErr struct {
	Hash   TxHash
	Reason string
}

func NewInvalidRecordErr(hash TxHash, reason string) error {
	return &InvalidRecordErr{Hash: hash, Reason: reason}
}

func (e *InvalidRecordErr) Error() string {
	return fmt.Sprintf("invalid tracking record for tx %s: %s", e.Hash, e.Reason)
}
