package tendermint

import (
	"github.com/sisu-network/txconfirm/utils"
	"github.com/ybbus/jsonrpc/v3"
)

// executeWithClients tries to execute a function with a list of RPC clients in random order. If
// any of the execution finishes (either with success or failure), the loop through clients list
// will stop. The passed in params f will inform executeWithClients when to stop execution in its
// return value.
func executeWithClients[T any](originalClients []jsonrpc.RPCClient, f func(client jsonrpc.RPCClient) (T, bool, error)) (T, error) {
	clients := utils.Shuffle(originalClients)
	var err error
	var stop bool
	var result T
	for _, client := range clients {
		if result, stop, err = f(client); err == nil || stop {
			return result, err
		}
	}

	return result, err
}
