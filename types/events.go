package types

type EventKind string

const (
	EventKindChainError EventKind = "chain_error"

	EventKindCreateClient  EventKind = "create_client"
	EventKindUpdateClient  EventKind = "update_client"
	EventKindUpgradeClient EventKind = "upgrade_client"

	EventKindOpenInitConnection    EventKind = "connection_open_init"
	EventKindOpenTryConnection     EventKind = "connection_open_try"
	EventKindOpenAckConnection     EventKind = "connection_open_ack"
	EventKindOpenConfirmConnection EventKind = "connection_open_confirm"

	EventKindOpenInitChannel     EventKind = "channel_open_init"
	EventKindOpenTryChannel      EventKind = "channel_open_try"
	EventKindOpenAckChannel      EventKind = "channel_open_ack"
	EventKindOpenConfirmChannel  EventKind = "channel_open_confirm"
	EventKindCloseInitChannel    EventKind = "channel_close_init"
	EventKindCloseConfirmChannel EventKind = "channel_close_confirm"

	EventKindSendPacket           EventKind = "send_packet"
	EventKindReceivePacket        EventKind = "recv_packet"
	EventKindWriteAcknowledgement EventKind = "write_acknowledgement"
	EventKindAcknowledgePacket    EventKind = "acknowledge_packet"
	EventKindTimeoutPacket        EventKind = "timeout_packet"

	EventKindEvmLog EventKind = "evm_log"
)

// Event is the chain agnostic form of something that happened on chain while executing a tx.
type Event struct {
	Kind       EventKind         `json:"kind"`
	Height     Height            `json:"height"`
	Attributes map[string]string `json:"attributes,omitempty"`

	// Only set for chain errors.
	Message string `json:"message,omitempty"`
}

func NewChainErrorEvent(message string) Event {
	return Event{
		Kind:    EventKindChainError,
		Message: message,
	}
}

func (e Event) IsChainError() bool {
	return e.Kind == EventKindChainError
}

type EventAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// RawEvent is an event as the chain reports it, before decoding.
type RawEvent struct {
	Type       string           `json:"type"`
	Attributes []EventAttribute `json:"attributes"`
}
