package timeline

import "time"

// BridgeType classifies what a bridge represents on the timeline.
type BridgeType string

const (
	Decision       BridgeType = "decision"
	Condition      BridgeType = "condition"
	Synchronization BridgeType = "synchronization"
)

// Bridge is a named point that partitions a timeline. It does not itself
// impose temporal constraints.
type Bridge struct {
	ID               string         `cbor:"id"`
	Position         time.Time      `cbor:"position"`
	Type             BridgeType     `cbor:"type"`
	Metadata         map[string]any `cbor:"metadata,omitempty"`
	SemanticRelation string         `cbor:"semantic_relation,omitempty"`
}
