// Package events decodes raw chain events into canonical events.
package events

import (
	"github.com/sisu-network/txconfirm/types"
)

var kindsByType = map[string]types.EventKind{
	"create_client":  types.EventKindCreateClient,
	"update_client":  types.EventKindUpdateClient,
	"upgrade_client": types.EventKindUpgradeClient,

	"connection_open_init":    types.EventKindOpenInitConnection,
	"connection_open_try":     types.EventKindOpenTryConnection,
	"connection_open_ack":     types.EventKindOpenAckConnection,
	"connection_open_confirm": types.EventKindOpenConfirmConnection,

	"channel_open_init":     types.EventKindOpenInitChannel,
	"channel_open_try":      types.EventKindOpenTryChannel,
	"channel_open_ack":      types.EventKindOpenAckChannel,
	"channel_open_confirm":  types.EventKindOpenConfirmChannel,
	"channel_close_init":    types.EventKindCloseInitChannel,
	"channel_close_confirm": types.EventKindCloseConfirmChannel,

	"send_packet":           types.EventKindSendPacket,
	"recv_packet":           types.EventKindReceivePacket,
	"write_acknowledgement": types.EventKindWriteAcknowledgement,
	"acknowledge_packet":    types.EventKindAcknowledgePacket,
	"timeout_packet":        types.EventKindTimeoutPacket,

	"evm_log": types.EventKindEvmLog,
}

// KindOf returns the canonical kind for a raw event type.
func KindOf(eventType string) (types.EventKind, bool) {
	kind, ok := kindsByType[eventType]
	return kind, ok
}

// DefaultDecoder maps a raw event of a known type to canonical events at the given height. Events
// of unknown types decode to nothing.
//
// Older Cosmos SDK versions merge events of the same type emitted by one tx into a single event
// whose attribute list repeats. Every repetition of the first attribute key starts a new
// occurrence.
func DefaultDecoder(height types.Height, raw types.RawEvent) []types.Event {
	kind, ok := KindOf(raw.Type)
	if !ok {
		return nil
	}

	occurrences := splitOccurrences(raw.Attributes)
	ret := make([]types.Event, 0, len(occurrences))
	for _, attrs := range occurrences {
		ret = append(ret, types.Event{
			Kind:       kind,
			Height:     height,
			Attributes: attrs,
		})
	}

	return ret
}

func splitOccurrences(attrs []types.EventAttribute) []map[string]string {
	current := make(map[string]string)
	if len(attrs) == 0 {
		return []map[string]string{current}
	}

	ret := make([]map[string]string, 0, 1)
	first := attrs[0].Key
	for i, attr := range attrs {
		if i > 0 && attr.Key == first {
			ret = append(ret, current)
			current = make(map[string]string)
		}
		current[attr.Key] = attr.Value
	}

	return append(ret, current)
}
