package core

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
	"github.com/sisu-network/lib/log"
	"github.com/sisu-network/txconfirm/chains/eth"
	"github.com/sisu-network/txconfirm/chains/tendermint"
	chainstypes "github.com/sisu-network/txconfirm/chains/types"
	"github.com/sisu-network/txconfirm/client"
	"github.com/sisu-network/txconfirm/config"
	"github.com/sisu-network/txconfirm/confirm"
	"github.com/sisu-network/txconfirm/database"
	"github.com/sisu-network/txconfirm/network"
	"github.com/sisu-network/txconfirm/types"
	"github.com/sisu-network/txconfirm/utils"
	"go.uber.org/atomic"
)

type UnknownChainErr struct {
	Chain string
}

func NewUnknownChainErr(chain string) error {
	return &UnknownChainErr{Chain: chain}
}

func (e *UnknownChainErr) Error() string {
	return fmt.Sprintf("unknown chain %s", e.Chain)
}

// Processor waits on broadcast txs for every configured chain, stores their results and reports
// them upstream.
type Processor struct {
	cfg      config.Config
	db       database.Database
	upstream client.Client

	trackers     map[string]*confirm.Tracker
	waitTimeouts map[string]time.Duration
	txTrackCh    chan []*chainstypes.TrackUpdate
	stopCh       chan struct{}

	cache     *lru.Cache
	cacheLock *sync.Mutex

	upstreamReady *atomic.Bool
}

func NewProcessor(cfg *config.Config, db database.Database, upstream client.Client) *Processor {
	queryClients := make(map[string]confirm.QueryClient)
	for id, chainCfg := range cfg.Chains {
		queryClients[id] = newQueryClient(chainCfg)
	}

	return NewProcessorWithQueryClients(cfg, db, upstream, queryClients)
}

// NewProcessorWithQueryClients creates a processor that polls chains through the given query
// clients, keyed by the chain's config key.
func NewProcessorWithQueryClients(
	cfg *config.Config,
	db database.Database,
	upstream client.Client,
	queryClients map[string]confirm.QueryClient,
) *Processor {
	cacheSize := cfg.CacheSize
	if cacheSize <= 0 {
		cacheSize = config.DefaultCacheSize
	}

	p := &Processor{
		cfg:           *cfg,
		db:            db,
		upstream:      upstream,
		trackers:      make(map[string]*confirm.Tracker),
		waitTimeouts:  make(map[string]time.Duration),
		txTrackCh:     make(chan []*chainstypes.TrackUpdate, 1000),
		stopCh:        make(chan struct{}),
		cache:         lru.New(cacheSize),
		cacheLock:     &sync.Mutex{},
		upstreamReady: atomic.NewBool(false),
	}

	for id, chainCfg := range cfg.Chains {
		queryClient, ok := queryClients[id]
		if !ok {
			panic(fmt.Errorf("no query client for chain %s", id))
		}

		p.trackers[id] = confirm.NewTracker(
			types.ChainId(chainCfg.Chain),
			queryClient,
			nil,
			utils.MillisToDuration(chainCfg.PollInterval),
			utils.MillisToDuration(chainCfg.RpcTimeout),
		)
		p.waitTimeouts[id] = utils.MillisToDuration(chainCfg.WaitTimeout)
	}

	return p
}

func newQueryClient(cfg config.Chain) confirm.QueryClient {
	switch cfg.Type {
	case config.ChainTypeTendermint:
		return tendermint.NewClient(cfg)
	case config.ChainTypeLcd:
		return tendermint.NewLcdClient(cfg, network.NewHttp())
	case config.ChainTypeEth:
		return eth.NewReceiptFetcher(cfg.Chain, eth.NewEthClients(cfg.Chain, cfg.Rpcs))
	}

	panic(fmt.Errorf("unknown chain type %s for chain %s", cfg.Type, cfg.Chain))
}

func (p *Processor) Start() {
	log.Info("Starting tx processor...")
	for id, chainCfg := range p.cfg.Chains {
		log.Info("Supported chain and config: ", id, chainCfg)
	}

	go p.listen()
}

func (p *Processor) Stop() {
	close(p.stopCh)
}

func (p *Processor) listen() {
	for {
		select {
		case updates := <-p.txTrackCh:
			if !p.upstreamReady.Load() {
				log.Warnf("track updates: upstream is not ready, dropping %d updates", len(updates))
				continue
			}

			if err := p.upstream.PostTrackUpdates(updates); err != nil {
				log.Error("Failed to post track updates, err = ", err)
			}

		case <-p.stopCh:
			return
		}
	}
}

// AwaitConfirmations blocks until every record is resolved or the timeout elapses. A non positive
// timeout uses the chain's configured wait timeout. Resolved records are saved and cached and one
// track update per record is queued for upstream, whatever the outcome of the wait.
func (p *Processor) AwaitConfirmations(chain string, records []*types.TxSyncResult, timeout time.Duration) error {
	tracker, ok := p.trackers[chain]
	if !ok {
		return NewUnknownChainErr(chain)
	}

	if timeout <= 0 {
		timeout = p.waitTimeouts[chain]
	}

	err := tracker.WaitForBlockCommits(timeout, records)

	var invalidRecord *types.InvalidRecordErr
	if errors.As(err, &invalidRecord) {
		return err
	}

	if saveErr := p.db.SaveTxResults(chain, records); saveErr != nil {
		log.Error("Failed to save tx results, chain = ", chain, ", err = ", saveErr)
	}

	updates := make([]*chainstypes.TrackUpdate, 0, len(records))
	for _, record := range records {
		if record.IsResolved() {
			p.addToCache(chain, record)
		}
		updates = append(updates, chainstypes.NewTrackUpdate(chain, record))
	}

	select {
	case p.txTrackCh <- updates:
	default:
		log.Warnf("Track update queue is full, dropping %d updates for chain %s", len(updates), chain)
	}

	return err
}

// GetTxResult returns the stored result of a resolved tx, or nil if the tx is unknown or was
// never resolved.
func (p *Processor) GetTxResult(chain string, hash types.TxHash) (*types.TxSyncResult, error) {
	if _, ok := p.trackers[chain]; !ok {
		return nil, NewUnknownChainErr(chain)
	}

	if record := p.getFromCache(chain, hash); record != nil {
		return record, nil
	}

	record, err := p.db.LoadTxResult(chain, hash)
	if err != nil {
		return nil, err
	}
	if record != nil {
		p.addToCache(chain, record)
	}

	return record, nil
}

func (p *Processor) SetUpstreamReady(isReady bool) {
	log.Info("Setting upstream ready = ", isReady)
	p.upstreamReady.Store(isReady)
}

func (p *Processor) IsUpstreamReady() bool {
	return p.upstreamReady.Load()
}

func cacheKey(chain string, hash types.TxHash) string {
	return chain + "__" + hash.String()
}

func (p *Processor) addToCache(chain string, record *types.TxSyncResult) {
	p.cacheLock.Lock()
	defer p.cacheLock.Unlock()

	p.cache.Add(cacheKey(chain, record.Hash), record)
}

func (p *Processor) getFromCache(chain string, hash types.TxHash) *types.TxSyncResult {
	p.cacheLock.Lock()
	defer p.cacheLock.Unlock()

	value, ok := p.cache.Get(cacheKey(chain, hash))
	if !ok {
		return nil
	}

	return value.(*types.TxSyncResult)
}
