package server

import (
	"errors"
	"time"

	"github.com/sisu-network/lib/log"
	"github.com/sisu-network/txconfirm/types"
)

// Processor is the part of core.Processor the api needs.
type Processor interface {
	AwaitConfirmations(chain string, records []*types.TxSyncResult, timeout time.Duration) error
	GetTxResult(chain string, hash types.TxHash) (*types.TxSyncResult, error)
	SetUpstreamReady(isReady bool)
}

type ApiHandler struct {
	processor Processor
}

func NewApi(processor Processor) *ApiHandler {
	return &ApiHandler{
		processor: processor,
	}
}

// Empty function for checking health only.
func (api *ApiHandler) CheckHealth() {
}

// Called by the upstream server to indicate that it is ready to receive track updates.
func (api *ApiHandler) SetUpstreamReady(isReady bool) {
	api.processor.SetUpstreamReady(isReady)
}

// AwaitConfirmations blocks until every tx in the request is included in a block or the timeout
// elapses. A timeout is not an error: the result is returned with TimedOut set and the txs that
// were not found still pending.
func (api *ApiHandler) AwaitConfirmations(request *types.AwaitRequest) (*types.AwaitResult, error) {
	records := make([]*types.TxSyncResult, 0, len(request.Txs))
	for _, tx := range request.Txs {
		records = append(records, types.NewTxSyncResult(tx.Hash, tx.MessageCount))
	}

	timeout := time.Duration(request.TimeoutMs) * time.Millisecond
	err := api.processor.AwaitConfirmations(request.Chain, records, timeout)

	var timeoutErr *types.TxNoConfirmationErr
	if errors.As(err, &timeoutErr) {
		log.Warnf("Await timed out on chain %s, pending = %d", request.Chain, timeoutErr.Pending)
		return &types.AwaitResult{Records: records, TimedOut: true}, nil
	}
	if err != nil {
		return nil, err
	}

	return &types.AwaitResult{Records: records}, nil
}

func (api *ApiHandler) GetTxResult(chain string, hash string) (*types.TxSyncResult, error) {
	txHash, err := types.ParseTxHash(hash)
	if err != nil {
		return nil, err
	}

	return api.processor.GetTxResult(chain, txHash)
}
