package tendermint

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sisu-network/txconfirm/config"
	"github.com/sisu-network/txconfirm/network"
	"github.com/sisu-network/txconfirm/types"
	"github.com/sisu-network/txconfirm/utils"
)

// grpcCodeNotFound is the gRPC status code the Cosmos gateway uses for unknown txs.
const grpcCodeNotFound = 5

// LcdClient queries tx results from the Cosmos SDK REST gateway.
type LcdClient struct {
	chain string
	urls  []string
	http  network.Http
}

func NewLcdClient(cfg config.Chain, httpClient network.Http) *LcdClient {
	urls := make([]string, len(cfg.Rpcs))
	for i, rpc := range cfg.Rpcs {
		urls[i] = strings.TrimSuffix(rpc, "/")
	}

	return &LcdClient{
		chain: cfg.Chain,
		urls:  urls,
		http:  httpClient,
	}
}

func (c *LcdClient) QueryTx(ctx context.Context, hash types.TxHash) (*types.TxQueryResult, error) {
	if len(c.urls) == 0 {
		return nil, NewNoHealthyClientErr(c.chain)
	}

	// Shuffle urls so that we will use different lcd each time.
	var err error
	for _, url := range utils.Shuffle(c.urls) {
		var result *types.TxQueryResult
		result, err = c.getTx(ctx, url, hash)
		if err == nil {
			return result, nil
		}
	}

	return nil, err
}

func (c *LcdClient) getTx(ctx context.Context, url string, hash types.TxHash) (*types.TxQueryResult, error) {
	body, status, err := c.http.Get(ctx, fmt.Sprintf("%s/cosmos/tx/v1beta1/txs/%s", url, hash))
	if err != nil {
		return nil, err
	}

	response := new(lcdTxResponse)
	if err := json.Unmarshal(body, response); err != nil {
		return nil, fmt.Errorf("cannot decode lcd response, status = %d: %w", status, err)
	}

	if response.TxResponse == nil {
		if response.Code != nil && *response.Code == grpcCodeNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("lcd error, status = %d, message = %s", status, response.Message)
	}

	if status != http.StatusOK {
		return nil, fmt.Errorf("unexpected lcd status %d", status)
	}

	tx := response.TxResponse
	height, err := parseHeight(tx.Height)
	if err != nil {
		return nil, err
	}

	return &types.TxQueryResult{
		Hash:      hash,
		Height:    height,
		Code:      tx.Code,
		Codespace: tx.Codespace,
		Log:       tx.RawLog,
		Events:    toRawEvents(tx.Events),
	}, nil
}
