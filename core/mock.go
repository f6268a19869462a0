package core

import chainstypes "github.com/sisu-network/txconfirm/chains/types"

type MockClient struct {
	TryDialFunc          func()
	IsConnectedFunc      func() bool
	GetVersionFunc       func() (string, error)
	PostTrackUpdatesFunc func(updates []*chainstypes.TrackUpdate) error
}

func (c *MockClient) TryDial() {
	if c.TryDialFunc != nil {
		c.TryDialFunc()
	}
}

func (c *MockClient) IsConnected() bool {
	if c.IsConnectedFunc != nil {
		return c.IsConnectedFunc()
	}

	return true
}

func (c *MockClient) GetVersion() (string, error) {
	if c.GetVersionFunc != nil {
		return c.GetVersionFunc()
	}

	return "", nil
}

func (c *MockClient) PostTrackUpdates(updates []*chainstypes.TrackUpdate) error {
	if c.PostTrackUpdatesFunc != nil {
		return c.PostTrackUpdatesFunc(updates)
	}

	return nil
}
