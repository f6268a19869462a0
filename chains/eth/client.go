package eth

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sisu-network/lib/log"
	"github.com/sisu-network/txconfirm/utils"
)

type NoHealthyClientErr struct {
	chain string
}

func NewNoHealthyClientErr(chain string) error {
	return &NoHealthyClientErr{chain: chain}
}

func (e *NoHealthyClientErr) Error() string {
	return fmt.Sprintf("No healthy client for chain %s", e.chain)
}

// A wrapper around eth.client so that we can mock in tests.
type EthClient interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error)
}

type defaultEthClient struct {
	chain string
	rpcs  []string

	clients []*ethclient.Client
	lock    *sync.RWMutex
}

// NewEthClients returns a client that spreads calls over every rpc that can be dialed. Dialing is
// retried on the first call when none succeeded here.
func NewEthClients(chain string, rpcs []string) EthClient {
	c := &defaultEthClient{
		chain: chain,
		rpcs:  rpcs,
		lock:  &sync.RWMutex{},
	}
	c.dial()

	return c
}

func (c *defaultEthClient) dial() {
	clients := make([]*ethclient.Client, 0, len(c.rpcs))
	for _, rpc := range c.rpcs {
		client, err := ethclient.Dial(rpc)
		if err != nil {
			log.Errorf("Cannot dial rpc %s for chain %s, err = %v", rpc, c.chain, err)
			continue
		}

		log.Info("Adding eth client at rpc: ", rpc)
		clients = append(clients, client)
	}

	c.lock.Lock()
	c.clients = clients
	c.lock.Unlock()
}

func (c *defaultEthClient) getClients() []*ethclient.Client {
	c.lock.RLock()
	empty := len(c.clients) == 0
	c.lock.RUnlock()

	if empty {
		c.dial()
	}

	c.lock.RLock()
	defer c.lock.RUnlock()

	// Shuffle rpcs so that we will use different rpc each time.
	return utils.Shuffle(c.clients)
}

func (c *defaultEthClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error) {
	clients := c.getClients()
	if len(clients) == 0 {
		return nil, NewNoHealthyClientErr(c.chain)
	}

	var err error
	for _, client := range clients {
		var receipt *ethtypes.Receipt
		receipt, err = client.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
	}

	return nil, err
}
