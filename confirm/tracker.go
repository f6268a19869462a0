package confirm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sisu-network/lib/log"
	"github.com/sisu-network/txconfirm/events"
	"github.com/sisu-network/txconfirm/types"
	"github.com/sisu-network/txconfirm/utils"
)

const (
	WaitBackoff = 300 * time.Millisecond
	RpcTimeOut  = 5 * time.Second
)

// QueryClient looks up the on-chain result of a tx. It returns nil without error when the chain
// does not know the tx yet.
type QueryClient interface {
	QueryTx(ctx context.Context, hash types.TxHash) (*types.TxQueryResult, error)
}

// EventDecoder turns one raw chain event into zero or more canonical events.
type EventDecoder func(height types.Height, event types.RawEvent) []types.Event

// Tracker polls a chain until a batch of broadcast txs is included in blocks.
type Tracker struct {
	chainId    types.ChainId
	client     QueryClient
	decoder    EventDecoder
	backoff    time.Duration
	rpcTimeout time.Duration
}

// NewTracker creates a tracker. A nil decoder falls back to events.DefaultDecoder and non positive
// durations fall back to WaitBackoff and RpcTimeOut.
func NewTracker(chainId types.ChainId, client QueryClient, decoder EventDecoder,
	backoff, rpcTimeout time.Duration) *Tracker {
	if decoder == nil {
		decoder = events.DefaultDecoder
	}
	if backoff <= 0 {
		backoff = WaitBackoff
	}
	if rpcTimeout <= 0 {
		rpcTimeout = RpcTimeOut
	}

	return &Tracker{
		chainId:    chainId,
		client:     client,
		decoder:    decoder,
		backoff:    backoff,
		rpcTimeout: rpcTimeout,
	}
}

// WaitForBlockCommits polls the chain with the default backoff until every record is resolved or
// the timeout elapses.
func WaitForBlockCommits(chainId types.ChainId, client QueryClient, decoder EventDecoder,
	timeout time.Duration, records []*types.TxSyncResult) error {
	return NewTracker(chainId, client, decoder, WaitBackoff, RpcTimeOut).WaitForBlockCommits(timeout, records)
}

func (t *Tracker) ChainId() types.ChainId {
	return t.chainId
}

// WaitForBlockCommits updates records in place. Query failures only delay resolution; the call
// fails with TxNoConfirmationErr once the timeout is exceeded, or with InvalidHeightErr when the
// chain reports a height that cannot be represented. Records resolved before a failure keep their
// events.
func (t *Tracker) WaitForBlockCommits(timeout time.Duration, records []*types.TxSyncResult) error {
	for _, record := range records {
		if record.Status.IsPending() && record.Status.MessageCount < 1 {
			return types.NewInvalidRecordErr(record.Hash, "message count must be at least 1")
		}
	}

	start := time.Now()
	log.Infof("Waiting for commit of tx hashes on chain %s: %s", t.chainId, joinHashes(records))

	for {
		elapsed := time.Since(start)

		if types.AllResolved(records) {
			log.Verbosef("Retrieved %d tx results on chain %s after %dms", len(records), t.chainId,
				elapsed.Milliseconds())
			return nil
		}

		if elapsed > timeout {
			return types.NewTxNoConfirmationErr(t.chainId.String(), types.CountPending(records),
				len(records), elapsed)
		}

		time.Sleep(t.backoff)

		for _, record := range records {
			err := t.updateTxSyncResult(record)
			if err == nil {
				continue
			}

			var heightErr *types.InvalidHeightErr
			if errors.As(err, &heightErr) {
				log.Errorf("Chain %s returned an invalid height for tx %s, err = %v", t.chainId,
					record.Hash, err)
				return err
			}

			// Retried on the next pass.
			log.Debugf("Failed to update tx %s on chain %s, err = %v", record.Hash, t.chainId, err)
		}
	}
}

func (t *Tracker) updateTxSyncResult(record *types.TxSyncResult) error {
	if !record.Status.IsPending() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), t.rpcTimeout)
	response, err := t.client.QueryTx(ctx, record.Hash)
	cancel()

	if err != nil {
		return fmt.Errorf("query tx: %w", err)
	}
	if response == nil {
		return nil
	}

	if response.IsErr() {
		message := fmt.Sprintf("deliver_tx for %s reports error: code=%d, log=%q", record.Hash,
			response.Code, response.Log)

		errEvents := make([]types.Event, record.Status.MessageCount)
		for i := range errEvents {
			errEvents[i] = types.NewChainErrorEvent(message)
		}

		record.Resolve(response.Height, response.Code, response.Log, errEvents)
		return nil
	}

	height, err := t.qualifyHeight(response.Height)
	if err != nil {
		return err
	}

	decoded := make([]types.Event, 0, len(response.Events))
	for _, raw := range response.Events {
		decoded = append(decoded, t.decoder(height, raw)...)
	}

	record.Resolve(response.Height, response.Code, response.Log, decoded)
	return nil
}

func (t *Tracker) qualifyHeight(blockHeight int64) (types.Height, error) {
	revision := t.chainId.Version()

	h, err := utils.Int64ToUint64(blockHeight)
	if err != nil {
		return types.Height{}, types.NewInvalidHeightErr(revision, blockHeight, err.Error())
	}

	return types.NewHeight(revision, h)
}

func joinHashes(records []*types.TxSyncResult) string {
	hashes := make([]string, len(records))
	for i, record := range records {
		hashes[i] = record.Hash.String()
	}

	return strings.Join(hashes, ", ")
}
