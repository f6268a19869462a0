package database

import "github.com/sisu-network/txconfirm/types"

type MockDb struct {
	InitFunc          func() error
	CloseFunc         func() error
	SaveTxResultsFunc func(chain string, records []*types.TxSyncResult) error
	LoadTxResultFunc  func(chain string, hash types.TxHash) (*types.TxSyncResult, error)
}

func (mock *MockDb) Init() error {
	if mock.InitFunc != nil {
		return mock.InitFunc()
	}

	return nil
}

func (mock *MockDb) Close() error {
	if mock.CloseFunc != nil {
		return mock.CloseFunc()
	}

	return nil
}

func (mock *MockDb) SaveTxResults(chain string, records []*types.TxSyncResult) error {
	if mock.SaveTxResultsFunc != nil {
		return mock.SaveTxResultsFunc(chain, records)
	}

	return nil
}

func (mock *MockDb) LoadTxResult(chain string, hash types.TxHash) (*types.TxSyncResult, error) {
	if mock.LoadTxResultFunc != nil {
		return mock.LoadTxResultFunc(chain, hash)
	}

	return nil, nil
}
