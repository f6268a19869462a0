package eth

import (
	"context"
	"errors"
	"strconv"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/sisu-network/txconfirm/types"
)

const (
	RawEventTypeLog = "evm_log"

	// Receipts carry no error code. A reverted tx is reported with this code.
	ReceiptFailureCode = 1
)

// ReceiptFetcher answers tx queries from transaction receipts.
type ReceiptFetcher struct {
	chain  string
	client EthClient
}

func NewReceiptFetcher(chain string, client EthClient) *ReceiptFetcher {
	return &ReceiptFetcher{
		chain:  chain,
		client: client,
	}
}

func (rf *ReceiptFetcher) QueryTx(ctx context.Context, hash types.TxHash) (*types.TxQueryResult, error) {
	receipt, err := rf.client.TransactionReceipt(ctx, common.Hash(hash))
	if errors.Is(err, ethereum.NotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, nil
	}

	height := int64(-1)
	if receipt.BlockNumber != nil && receipt.BlockNumber.IsInt64() {
		height = receipt.BlockNumber.Int64()
	}

	result := &types.TxQueryResult{
		Hash:   hash,
		Height: height,
		Events: logsToRawEvents(receipt.Logs),
	}

	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		result.Code = ReceiptFailureCode
		result.Log = "execution reverted"
	}

	return result, nil
}

func logsToRawEvents(logs []*ethtypes.Log) []types.RawEvent {
	ret := make([]types.RawEvent, 0, len(logs))
	for _, l := range logs {
		attrs := []types.EventAttribute{
			{Key: "address", Value: l.Address.Hex()},
			{Key: "log_index", Value: strconv.FormatUint(uint64(l.Index), 10)},
		}
		for i, topic := range l.Topics {
			attrs = append(attrs, types.EventAttribute{Key: "topic_" + strconv.Itoa(i), Value: topic.Hex()})
		}
		attrs = append(attrs, types.EventAttribute{Key: "data", Value: hexutil.Encode(l.Data)})

		ret = append(ret, types.RawEvent{Type: RawEventTypeLog, Attributes: attrs})
	}

	return ret
}
