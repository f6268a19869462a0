package types

type AwaitTx struct {
	Hash         TxHash `json:"hash"`
	MessageCount int    `json:"message_count"`
}

// AwaitRequest is sent by callers who want to wait on a batch of broadcast txs.
type AwaitRequest struct {
	Chain string    `json:"chain"`
	Txs   []AwaitTx `json:"txs"`

	// Zero means the chain's configured wait timeout.
	TimeoutMs int64 `json:"timeout_ms"`
}

type AwaitResult struct {
	Records  []*TxSyncResult `json:"records"`
	TimedOut bool            `json:"timed_out"`
}
