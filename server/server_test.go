package server

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sisu-network/txconfirm/types"
	"github.com/stretchr/testify/require"
)

type mockProcessor struct {
	AwaitConfirmationsFunc func(chain string, records []*types.TxSyncResult, timeout time.Duration) error
	GetTxResultFunc        func(chain string, hash types.TxHash) (*types.TxSyncResult, error)
	SetUpstreamReadyFunc   func(isReady bool)
}

func (m *mockProcessor) AwaitConfirmations(chain string, records []*types.TxSyncResult, timeout time.Duration) error {
	if m.AwaitConfirmationsFunc != nil {
		return m.AwaitConfirmationsFunc(chain, records, timeout)
	}

	return nil
}

func (m *mockProcessor) GetTxResult(chain string, hash types.TxHash) (*types.TxSyncResult, error) {
	if m.GetTxResultFunc != nil {
		return m.GetTxResultFunc(chain, hash)
	}

	return nil, nil
}

func (m *mockProcessor) SetUpstreamReady(isReady bool) {
	if m.SetUpstreamReadyFunc != nil {
		m.SetUpstreamReadyFunc(isReady)
	}
}

func dialServer(t *testing.T, processor Processor) *rpc.Client {
	srv, err := NewServer(NewApi(processor), 0)
	require.NoError(t, err)

	httpServer := httptest.NewServer(srv.Handler())
	t.Cleanup(httpServer.Close)

	client, err := rpc.DialContext(context.Background(), httpServer.URL)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return client
}

func TestApiHandler(t *testing.T) {
	t.Run("check_health", func(t *testing.T) {
		client := dialServer(t, &mockProcessor{})
		err := client.CallContext(context.Background(), nil, "txconfirm_checkHealth")
		require.NoError(t, err)
	})

	t.Run("set_upstream_ready", func(t *testing.T) {
		ready := false
		client := dialServer(t, &mockProcessor{
			SetUpstreamReadyFunc: func(isReady bool) {
				ready = isReady
			},
		})

		err := client.CallContext(context.Background(), nil, "txconfirm_setUpstreamReady", true)
		require.NoError(t, err)
		require.True(t, ready)
	})

	t.Run("await_confirmations", func(t *testing.T) {
		var gotChain string
		var gotTimeout time.Duration
		client := dialServer(t, &mockProcessor{
			AwaitConfirmationsFunc: func(chain string, records []*types.TxSyncResult, timeout time.Duration) error {
				gotChain = chain
				gotTimeout = timeout
				for _, record := range records {
					record.Resolve(10, 0, "", []types.Event{})
				}
				return nil
			},
		})

		request := &types.AwaitRequest{
			Chain:     "ibc-1",
			Txs:       []types.AwaitTx{{Hash: types.TxHash{1}, MessageCount: 1}},
			TimeoutMs: 2000,
		}
		result := &types.AwaitResult{}
		err := client.CallContext(context.Background(), result, "txconfirm_awaitConfirmations", request)
		require.NoError(t, err)
		require.Equal(t, "ibc-1", gotChain)
		require.Equal(t, 2*time.Second, gotTimeout)
		require.False(t, result.TimedOut)
		require.Len(t, result.Records, 1)
		require.True(t, result.Records[0].IsResolved())
		require.Equal(t, types.TxHash{1}, result.Records[0].Hash)
	})

	t.Run("await_confirmations_timeout", func(t *testing.T) {
		client := dialServer(t, &mockProcessor{
			AwaitConfirmationsFunc: func(chain string, records []*types.TxSyncResult, timeout time.Duration) error {
				return types.NewTxNoConfirmationErr(chain, len(records), len(records), timeout)
			},
		})

		request := &types.AwaitRequest{
			Chain: "ibc-1",
			Txs:   []types.AwaitTx{{Hash: types.TxHash{1}, MessageCount: 1}},
		}
		result := &types.AwaitResult{}
		err := client.CallContext(context.Background(), result, "txconfirm_awaitConfirmations", request)
		require.NoError(t, err)
		require.True(t, result.TimedOut)
		require.False(t, result.Records[0].IsResolved())
	})

	t.Run("get_tx_result_bad_hash", func(t *testing.T) {
		client := dialServer(t, &mockProcessor{})

		var result *types.TxSyncResult
		err := client.CallContext(context.Background(), &result, "txconfirm_getTxResult", "ibc-1", "zz")
		require.Error(t, err)
	})
}
