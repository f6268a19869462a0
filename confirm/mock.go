package confirm

import (
	"context"

	"github.com/sisu-network/txconfirm/types"
)

type MockQueryClient struct {
	QueryTxFunc func(ctx context.Context, hash types.TxHash) (*types.TxQueryResult, error)
}

func (m *MockQueryClient) QueryTx(ctx context.Context, hash types.TxHash) (*types.TxQueryResult, error) {
	if m.QueryTxFunc != nil {
		return m.QueryTxFunc(ctx, hash)
	}

	return nil, nil
}
