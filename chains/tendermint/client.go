package tendermint

import (
	"context"
	"fmt"

	"github.com/sisu-network/lib/log"
	"github.com/sisu-network/txconfirm/config"
	"github.com/sisu-network/txconfirm/types"
	"github.com/ybbus/jsonrpc/v3"
)

// Client queries tx results from Tendermint RPC endpoints with tx_search.
type Client struct {
	chain   string
	clients []jsonrpc.RPCClient
}

func NewClient(cfg config.Chain) *Client {
	clients := make([]jsonrpc.RPCClient, 0, len(cfg.Rpcs))
	for _, rpc := range cfg.Rpcs {
		log.Info("Adding tendermint client at rpc: ", rpc)
		clients = append(clients, jsonrpc.NewClient(rpc))
	}

	return &Client{
		chain:   cfg.Chain,
		clients: clients,
	}
}

func (c *Client) QueryTx(ctx context.Context, hash types.TxHash) (*types.TxQueryResult, error) {
	if len(c.clients) == 0 {
		return nil, NewNoHealthyClientErr(c.chain)
	}

	return executeWithClients(c.clients, func(client jsonrpc.RPCClient) (*types.TxQueryResult, bool, error) {
		return c.searchTx(ctx, client, hash)
	})
}

// searchTx returns nil when the node does not index the tx yet. An RPC level error stops trying
// other clients since every node would answer the same way.
func (c *Client) searchTx(ctx context.Context, client jsonrpc.RPCClient, hash types.TxHash) (*types.TxQueryResult, bool, error) {
	params := &txSearchParams{
		Query: fmt.Sprintf("tx.hash='%s'", hash),
		Prove: false,
	}

	res, err := client.Call(ctx, "tx_search", params)
	if err != nil {
		if rpcErr, ok := err.(*jsonrpc.RPCError); ok {
			return nil, true, rpcErr
		}
		return nil, false, err
	}

	if res.Error != nil {
		return nil, true, res.Error
	}

	result := new(txSearchResult)
	if err := res.GetObject(result); err != nil {
		return nil, false, err
	}

	if len(result.Txs) == 0 {
		return nil, false, nil
	}

	tx := result.Txs[0]
	height, err := parseHeight(tx.Height)
	if err != nil {
		return nil, false, err
	}

	return &types.TxQueryResult{
		Hash:      hash,
		Height:    height,
		Code:      tx.TxResult.Code,
		Codespace: tx.TxResult.Codespace,
		Log:       tx.TxResult.Log,
		Events:    toRawEvents(tx.TxResult.Events),
	}, false, nil
}

type NoHealthyClientErr struct {
	chain string
}

func NewNoHealthyClientErr(chain string) error {
	return &NoHealthyClientErr{chain: chain}
}

func (e *NoHealthyClientErr) Error() string {
	return fmt.Sprintf("No healthy client for chain %s", e.chain)
}
