package types

type TxStatusKind int

const (
	TxStatusPending TxStatusKind = iota
	TxStatusReceivedResponse
)

type TxStatus struct {
	Kind TxStatusKind `json:"kind"`

	// Number of messages bundled in the tx. A tx that fails on chain produces one error event per
	// message.
	MessageCount int `json:"message_count"`
}

func PendingStatus(messageCount int) TxStatus {
	return TxStatus{Kind: TxStatusPending, MessageCount: messageCount}
}

func (s TxStatus) IsPending() bool {
	return s.Kind == TxStatusPending
}

// TxSyncResult tracks one broadcast tx until its on-chain result is known.
type TxSyncResult struct {
	Hash   TxHash   `json:"hash"`
	Status TxStatus `json:"status"`
	Events []Event  `json:"events"`

	// Set once the tx is resolved.
	Height int64  `json:"height,omitempty"`
	Code   uint32 `json:"code,omitempty"`
	Log    string `json:"log,omitempty"`
}

func NewTxSyncResult(hash TxHash, messageCount int) *TxSyncResult {
	return &TxSyncResult{
		Hash:   hash,
		Status: PendingStatus(messageCount),
		Events: make([]Event, 0),
	}
}

func (r *TxSyncResult) IsResolved() bool {
	return r.Status.Kind == TxStatusReceivedResponse
}

// Resolve moves the record to its terminal state. It is a no-op on a resolved record.
func (r *TxSyncResult) Resolve(height int64, code uint32, log string, events []Event) {
	if r.IsResolved() {
		return
	}

	r.Status.Kind = TxStatusReceivedResponse
	r.Height = height
	r.Code = code
	r.Log = log
	r.Events = events
}

// Failed reports whether the tx was included but its execution failed on chain.
func (r *TxSyncResult) Failed() bool {
	return r.IsResolved() && r.Code != 0
}

func AllResolved(records []*TxSyncResult) bool {
	for _, r := range records {
		if !r.IsResolved() {
			return false
		}
	}

	return true
}

func CountPending(records []*TxSyncResult) int {
	count := 0
	for _, r := range records {
		if !r.IsResolved() {
			count++
		}
	}

	return count
}
