package tendermint

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/sisu-network/txconfirm/types"
)

type txSearchParams struct {
	Query string `json:"query"`
	Prove bool   `json:"prove"`
}

type txSearchResult struct {
	Txs        []*txResponse `json:"txs"`
	TotalCount string        `json:"total_count"`
}

type txResponse struct {
	Hash     string       `json:"hash"`
	Height   string       `json:"height"`
	Index    uint32       `json:"index"`
	TxResult execTxResult `json:"tx_result"`
}

type execTxResult struct {
	Code      uint32      `json:"code"`
	Codespace string      `json:"codespace"`
	Log       string      `json:"log"`
	Events    []abciEvent `json:"events"`
}

type abciEvent struct {
	Type       string          `json:"type"`
	Attributes []abciAttribute `json:"attributes"`
}

type abciAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Index bool   `json:"index"`
}

// lcdTxResponse is the body of GET /cosmos/tx/v1beta1/txs/{hash}.
type lcdTxResponse struct {
	TxResponse *struct {
		TxHash    string      `json:"txhash"`
		Height    string      `json:"height"`
		Code      uint32      `json:"code"`
		Codespace string      `json:"codespace"`
		RawLog    string      `json:"raw_log"`
		Events    []abciEvent `json:"events"`
	} `json:"tx_response"`

	// Set on errors, following the gRPC gateway error format.
	Code    *int   `json:"code"`
	Message string `json:"message"`
}

func parseHeight(s string) (int64, error) {
	height, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid height %q: %w", s, err)
	}

	return height, nil
}

var attributeKeyRegex = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

// toRawEvents converts ABCI events. Tendermint 0.34 nodes and the LCD of Cosmos SDK 0.45 chains
// send attribute keys and values base64 encoded; those are decoded here.
func toRawEvents(events []abciEvent) []types.RawEvent {
	ret := make([]types.RawEvent, len(events))
	for i, event := range events {
		attrs, ok := decodeBase64Attributes(event.Attributes)
		if !ok {
			attrs = make([]types.EventAttribute, len(event.Attributes))
			for j, attr := range event.Attributes {
				attrs[j] = types.EventAttribute{Key: attr.Key, Value: attr.Value}
			}
		}
		ret[i] = types.RawEvent{Type: event.Type, Attributes: attrs}
	}

	return ret
}

// decodeBase64Attributes succeeds only when every key decodes to an attribute name and every
// value decodes to valid UTF-8.
func decodeBase64Attributes(attributes []abciAttribute) ([]types.EventAttribute, bool) {
	if len(attributes) == 0 {
		return nil, false
	}

	attrs := make([]types.EventAttribute, len(attributes))
	for i, attr := range attributes {
		key, err := base64.StdEncoding.DecodeString(attr.Key)
		if err != nil || !attributeKeyRegex.Match(key) {
			return nil, false
		}

		value, err := base64.StdEncoding.DecodeString(attr.Value)
		if err != nil || !utf8.Valid(value) {
			return nil, false
		}

		attrs[i] = types.EventAttribute{Key: string(key), Value: string(value)}
	}

	return attrs, true
}
