package confirm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sisu-network/txconfirm/types"
	"github.com/stretchr/testify/require"
)

const testChainId = types.ChainId("ibc-1")

func testHash(b byte) types.TxHash {
	var h types.TxHash
	h[0] = b
	return h
}

func newTestTracker(client QueryClient, decoder EventDecoder) *Tracker {
	return NewTracker(testChainId, client, decoder, 10*time.Millisecond, time.Second)
}

func oneToOneDecoder(height types.Height, raw types.RawEvent) []types.Event {
	return []types.Event{{Kind: types.EventKind(raw.Type), Height: height}}
}

func TestWaitForBlockCommits(t *testing.T) {
	t.Run("single_tx_success", func(t *testing.T) {
		hash := testHash(1)
		client := &MockQueryClient{
			QueryTxFunc: func(ctx context.Context, h types.TxHash) (*types.TxQueryResult, error) {
				return &types.TxQueryResult{
					Hash:   h,
					Height: 100,
					Events: []types.RawEvent{{Type: "send_packet"}},
				}, nil
			},
		}

		records := []*types.TxSyncResult{types.NewTxSyncResult(hash, 1)}
		err := newTestTracker(client, nil).WaitForBlockCommits(time.Second, records)
		require.NoError(t, err)

		require.True(t, records[0].IsResolved())
		require.Len(t, records[0].Events, 1)
		require.Equal(t, types.EventKindSendPacket, records[0].Events[0].Kind)
		require.Equal(t, types.Height{RevisionNumber: 1, RevisionHeight: 100}, records[0].Events[0].Height)
		require.Equal(t, int64(100), records[0].Height)
	})

	t.Run("on_chain_error", func(t *testing.T) {
		client := &MockQueryClient{
			QueryTxFunc: func(ctx context.Context, h types.TxHash) (*types.TxQueryResult, error) {
				return &types.TxQueryResult{
					Hash:   h,
					Height: 10,
					Code:   5,
					Log:    "insufficient funds",
					Events: []types.RawEvent{{Type: "send_packet"}},
				}, nil
			},
		}

		records := []*types.TxSyncResult{types.NewTxSyncResult(testHash(2), 3)}
		err := newTestTracker(client, nil).WaitForBlockCommits(time.Second, records)
		require.NoError(t, err)

		record := records[0]
		require.True(t, record.IsResolved())
		require.True(t, record.Failed())
		require.Len(t, record.Events, 3)
		for _, event := range record.Events {
			require.True(t, event.IsChainError())
			require.Contains(t, event.Message, "code=5")
			require.Contains(t, event.Message, record.Hash.String())
			require.Contains(t, event.Message, "insufficient funds")
		}
	})

	t.Run("not_found_times_out", func(t *testing.T) {
		calls := 0
		client := &MockQueryClient{
			QueryTxFunc: func(ctx context.Context, h types.TxHash) (*types.TxQueryResult, error) {
				calls++
				return nil, nil
			},
		}

		records := []*types.TxSyncResult{types.NewTxSyncResult(testHash(3), 1)}
		start := time.Now()
		err := WaitForBlockCommits(testChainId, client, nil, time.Second, records)
		elapsed := time.Since(start)

		var timeoutErr *types.TxNoConfirmationErr
		require.ErrorAs(t, err, &timeoutErr)
		require.Equal(t, 1, timeoutErr.Pending)
		require.Equal(t, 1, timeoutErr.Total)

		require.False(t, records[0].IsResolved())
		require.Empty(t, records[0].Events)
		require.Greater(t, calls, 0)

		require.GreaterOrEqual(t, elapsed, time.Second)
		require.Less(t, elapsed, time.Second+WaitBackoff+time.Second)
	})

	t.Run("partial_resolution_times_out", func(t *testing.T) {
		failing, ok := testHash(4), testHash(5)
		client := &MockQueryClient{
			QueryTxFunc: func(ctx context.Context, h types.TxHash) (*types.TxQueryResult, error) {
				if h == failing {
					return nil, fmt.Errorf("connection refused")
				}
				return &types.TxQueryResult{
					Hash:   h,
					Height: 7,
					Events: []types.RawEvent{{Type: "write_acknowledgement"}},
				}, nil
			},
		}

		records := []*types.TxSyncResult{
			types.NewTxSyncResult(failing, 1),
			types.NewTxSyncResult(ok, 1),
		}
		err := newTestTracker(client, nil).WaitForBlockCommits(200*time.Millisecond, records)

		var timeoutErr *types.TxNoConfirmationErr
		require.ErrorAs(t, err, &timeoutErr)
		require.Equal(t, 1, timeoutErr.Pending)

		require.Equal(t, failing, records[0].Hash)
		require.False(t, records[0].IsResolved())
		require.Equal(t, ok, records[1].Hash)
		require.True(t, records[1].IsResolved())
		require.Len(t, records[1].Events, 1)
	})

	t.Run("transient_error_is_retried", func(t *testing.T) {
		calls := make(map[types.TxHash]int)
		client := &MockQueryClient{
			QueryTxFunc: func(ctx context.Context, h types.TxHash) (*types.TxQueryResult, error) {
				calls[h]++
				if calls[h] < 3 {
					return nil, fmt.Errorf("timeout")
				}
				return &types.TxQueryResult{Hash: h, Height: 1}, nil
			},
		}

		records := []*types.TxSyncResult{
			types.NewTxSyncResult(testHash(6), 1),
			types.NewTxSyncResult(testHash(7), 2),
		}
		err := newTestTracker(client, nil).WaitForBlockCommits(time.Second, records)
		require.NoError(t, err)
		require.True(t, types.AllResolved(records))
		require.Equal(t, 3, calls[testHash(6)])
		require.Equal(t, 3, calls[testHash(7)])
	})

	t.Run("resolved_records_are_not_queried_again", func(t *testing.T) {
		slow, fast := testHash(8), testHash(9)
		calls := make(map[types.TxHash]int)
		client := &MockQueryClient{
			QueryTxFunc: func(ctx context.Context, h types.TxHash) (*types.TxQueryResult, error) {
				calls[h]++
				if h == slow && calls[h] < 4 {
					return nil, nil
				}
				return &types.TxQueryResult{Hash: h, Height: 3}, nil
			},
		}

		records := []*types.TxSyncResult{
			types.NewTxSyncResult(slow, 1),
			types.NewTxSyncResult(fast, 1),
		}
		err := newTestTracker(client, nil).WaitForBlockCommits(time.Second, records)
		require.NoError(t, err)
		require.Equal(t, 4, calls[slow])
		require.Equal(t, 1, calls[fast])
	})

	t.Run("backoff_before_first_query", func(t *testing.T) {
		var firstQuery time.Time
		client := &MockQueryClient{
			QueryTxFunc: func(ctx context.Context, h types.TxHash) (*types.TxQueryResult, error) {
				if firstQuery.IsZero() {
					firstQuery = time.Now()
				}
				return &types.TxQueryResult{Hash: h, Height: 1}, nil
			},
		}

		tracker := NewTracker(testChainId, client, nil, 100*time.Millisecond, time.Second)
		records := []*types.TxSyncResult{types.NewTxSyncResult(testHash(10), 1)}

		start := time.Now()
		require.NoError(t, tracker.WaitForBlockCommits(time.Second, records))
		require.GreaterOrEqual(t, firstQuery.Sub(start), 100*time.Millisecond)
	})

	t.Run("already_resolved", func(t *testing.T) {
		client := &MockQueryClient{
			QueryTxFunc: func(ctx context.Context, h types.TxHash) (*types.TxQueryResult, error) {
				t.Fatal("resolved records must not be queried")
				return nil, nil
			},
		}

		record := types.NewTxSyncResult(testHash(11), 1)
		record.Resolve(5, 0, "", []types.Event{{Kind: types.EventKindSendPacket}})

		start := time.Now()
		err := newTestTracker(client, nil).WaitForBlockCommits(time.Second, []*types.TxSyncResult{record})
		require.NoError(t, err)
		require.Less(t, time.Since(start), 10*time.Millisecond)
	})

	t.Run("decoded_events_keep_raw_order", func(t *testing.T) {
		decoder := func(height types.Height, raw types.RawEvent) []types.Event {
			switch raw.Type {
			case "none":
				return nil
			case "two":
				return []types.Event{
					{Kind: "two_a", Height: height},
					{Kind: "two_b", Height: height},
				}
			default:
				return oneToOneDecoder(height, raw)
			}
		}
		client := &MockQueryClient{
			QueryTxFunc: func(ctx context.Context, h types.TxHash) (*types.TxQueryResult, error) {
				return &types.TxQueryResult{
					Hash:   h,
					Height: 12,
					Events: []types.RawEvent{{Type: "one"}, {Type: "none"}, {Type: "two"}, {Type: "last"}},
				}, nil
			},
		}

		records := []*types.TxSyncResult{types.NewTxSyncResult(testHash(12), 1)}
		require.NoError(t, newTestTracker(client, decoder).WaitForBlockCommits(time.Second, records))

		kinds := make([]types.EventKind, 0)
		for _, event := range records[0].Events {
			kinds = append(kinds, event.Kind)
		}
		require.Equal(t, []types.EventKind{"one", "two_a", "two_b", "last"}, kinds)
	})

	t.Run("invalid_height_aborts", func(t *testing.T) {
		for _, height := range []int64{0, -1} {
			client := &MockQueryClient{
				QueryTxFunc: func(ctx context.Context, h types.TxHash) (*types.TxQueryResult, error) {
					return &types.TxQueryResult{Hash: h, Height: height}, nil
				},
			}

			records := []*types.TxSyncResult{types.NewTxSyncResult(testHash(13), 1)}
			err := newTestTracker(client, nil).WaitForBlockCommits(time.Second, records)

			var heightErr *types.InvalidHeightErr
			require.ErrorAs(t, err, &heightErr)
			require.Equal(t, height, heightErr.Height)

			var timeoutErr *types.TxNoConfirmationErr
			require.False(t, errors.As(err, &timeoutErr))
		}
	})

	t.Run("invalid_message_count", func(t *testing.T) {
		client := &MockQueryClient{
			QueryTxFunc: func(ctx context.Context, h types.TxHash) (*types.TxQueryResult, error) {
				t.Fatal("no query expected")
				return nil, nil
			},
		}

		records := []*types.TxSyncResult{types.NewTxSyncResult(testHash(14), 0)}
		err := newTestTracker(client, nil).WaitForBlockCommits(time.Second, records)

		var recordErr *types.InvalidRecordErr
		require.ErrorAs(t, err, &recordErr)
	})
}

func TestUpdateTxSyncResult(t *testing.T) {
	t.Run("idempotent_on_resolved", func(t *testing.T) {
		calls := 0
		client := &MockQueryClient{
			QueryTxFunc: func(ctx context.Context, h types.TxHash) (*types.TxQueryResult, error) {
				calls++
				return &types.TxQueryResult{Hash: h, Height: 9, Code: 1}, nil
			},
		}
		tracker := newTestTracker(client, nil)

		record := types.NewTxSyncResult(testHash(20), 2)
		require.NoError(t, tracker.updateTxSyncResult(record))
		require.True(t, record.IsResolved())
		events := record.Events

		require.NoError(t, tracker.updateTxSyncResult(record))
		require.Equal(t, 1, calls)
		require.Equal(t, events, record.Events)
	})

	t.Run("query_error_keeps_pending", func(t *testing.T) {
		client := &MockQueryClient{
			QueryTxFunc: func(ctx context.Context, h types.TxHash) (*types.TxQueryResult, error) {
				return nil, fmt.Errorf("503")
			},
		}

		record := types.NewTxSyncResult(testHash(21), 1)
		require.Error(t, newTestTracker(client, nil).updateTxSyncResult(record))
		require.True(t, record.Status.IsPending())
		require.Empty(t, record.Events)
	})

	t.Run("not_found_keeps_pending", func(t *testing.T) {
		record := types.NewTxSyncResult(testHash(22), 1)
		require.NoError(t, newTestTracker(&MockQueryClient{}, nil).updateTxSyncResult(record))
		require.True(t, record.Status.IsPending())
	})
}

func TestQualifyHeight(t *testing.T) {
	tracker := NewTracker("cosmoshub-4", &MockQueryClient{}, nil, 0, 0)

	height, err := tracker.qualifyHeight(123)
	require.NoError(t, err)
	require.Equal(t, types.Height{RevisionNumber: 4, RevisionHeight: 123}, height)

	_, err = tracker.qualifyHeight(-5)
	require.Error(t, err)

	tracker = NewTracker("localnet", &MockQueryClient{}, nil, 0, 0)
	height, err = tracker.qualifyHeight(1)
	require.NoError(t, err)
	require.Equal(t, uint64(0), height.RevisionNumber)
}
