package types

import (
	"github.com/sisu-network/txconfirm/types"
)

type TrackResult int

const (
	TrackResultConfirmed TrackResult = iota
	TrackResultFailure
	TrackResultTimeout
)

func (r TrackResult) String() string {
	switch r {
	case TrackResultConfirmed:
		return "confirmed"
	case TrackResultFailure:
		return "failure"
	case TrackResultTimeout:
		return "timeout"
	}

	return "unknown"
}

// TrackUpdate is the outcome of waiting on one tx, reported upstream.
type TrackUpdate struct {
	Chain       string        `json:"chain"`
	Hash        string        `json:"hash"`
	BlockHeight int64         `json:"block_height"`
	Result      TrackResult   `json:"result"`
	Code        uint32        `json:"code"`
	Events      []types.Event `json:"events"`
}

func NewTrackUpdate(chain string, record *types.TxSyncResult) *TrackUpdate {
	update := &TrackUpdate{
		Chain:  chain,
		Hash:   record.Hash.String(),
		Result: TrackResultTimeout,
		Events: record.Events,
	}

	if record.IsResolved() {
		update.BlockHeight = record.Height
		update.Code = record.Code
		update.Result = TrackResultConfirmed
		if record.Failed() {
			update.Result = TrackResultFailure
		}
	}

	return update
}
