package client

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sisu-network/lib/log"
	chainstypes "github.com/sisu-network/txconfirm/chains/types"
	"go.uber.org/atomic"
)

const (
	RETRY_TIME = 10 * time.Second
)

var (
	ErrUpstreamNotConnected = errors.New("upstream server is not connected")
)

// A client that connects to the upstream server which consumes confirmation updates.
type Client interface {
	TryDial()
	IsConnected() bool
	GetVersion() (string, error)
	PostTrackUpdates(updates []*chainstypes.TrackUpdate) error
}

type DefaultClient struct {
	client    *rpc.Client
	url       string
	connected *atomic.Bool
}

func NewClient(url string) Client {
	return &DefaultClient{
		url:       url,
		connected: atomic.NewBool(false),
	}
}

func (c *DefaultClient) TryDial() {
	log.Info("Trying to dial upstream server")

	for {
		log.Info("Dialing...", c.url)
		var err error
		c.client, err = rpc.DialContext(context.Background(), c.url)
		if err != nil {
			log.Error("Cannot connect to upstream server err = ", err)
			time.Sleep(RETRY_TIME)
			continue
		}

		_, err = c.GetVersion()
		if err != nil {
			log.Error("Cannot get upstream version err = ", err)
			time.Sleep(RETRY_TIME)
			continue
		}

		c.connected.Store(true)
		break
	}

	log.Info("Upstream server is connected")
}

func (c *DefaultClient) IsConnected() bool {
	return c.connected.Load()
}

func (c *DefaultClient) GetVersion() (string, error) {
	if c.client == nil {
		return "", ErrUpstreamNotConnected
	}

	var version string
	err := c.client.CallContext(context.Background(), &version, "tss_version")
	return version, err
}

func (c *DefaultClient) PostTrackUpdates(updates []*chainstypes.TrackUpdate) error {
	if !c.IsConnected() {
		return ErrUpstreamNotConnected
	}

	log.Verbose("Posting track updates to upstream, count = ", len(updates))

	var r string
	err := c.client.CallContext(context.Background(), &r, "tss_postTrackUpdates", updates)
	if err != nil {
		log.Error("Cannot post track updates, err = ", err)
		return err
	}

	return nil
}
