package types

// TxQueryResult is what a chain reports for a transaction that has been included in a block.
type TxQueryResult struct {
	Hash   TxHash
	Height int64

	// Code 0 means the tx executed successfully.
	Code      uint32
	Codespace string
	Log       string

	Events []RawEvent
}

func (r *TxQueryResult) IsErr() bool {
	return r.Code != 0
}
