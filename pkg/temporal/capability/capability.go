// Package capability implements the Agent/Entity tagged-record model:
// classification is a pure function of a dynamic capability set, never
// inheritance or subtyping.
package capability

// Kind classifies a Record as an agent or a plain entity.
type Kind string

const (
	KindAgent  Kind = "agent"
	KindEntity Kind = "entity"
)

// ActionCapabilities is the published set of capabilities that qualify a
// holder as an agent. A Record with kind=agent must contain at least one of
// these.
var ActionCapabilities = map[string]struct{}{
	"decision_making":      {},
	"autonomous_operation": {},
	"surgery":              {},
	"flying":               {},
}

// ActionRequirements is the published action -> required-capability
// mapping used by CanPerformAction.
var ActionRequirements = map[string]string{
	"make_decision": "decision_making",
	"operate_autonomously": "autonomous_operation",
	"perform_surgery": "surgery",
	"fly": "flying",
}

// Record is an immutable tagged record. Transformations return new records.
type Record struct {
	Kind         Kind
	ID           string
	DisplayName  string
	Properties   map[string]any
	Capabilities map[string]struct{}
	OwnerID      *string
}

func isActionCapable(caps map[string]struct{}) bool {
	for c := range caps {
		if _, ok := ActionCapabilities[c]; ok {
			return true
		}
	}
	return false
}

// classify derives the Kind purely from the capability set: kind=agent iff
// capabilities is non-empty AND contains at least one action capability.
func classify(caps map[string]struct{}) Kind {
	if len(caps) > 0 && isActionCapable(caps) {
		return KindAgent
	}
	return KindEntity
}

func cloneCapabilities(caps map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(caps))
	for c := range caps {
		out[c] = struct{}{}
	}
	return out
}

func newRecord(id, displayName string, props map[string]any, caps map[string]struct{}, owner *string) Record {
	capsCopy := cloneCapabilities(caps)
	return Record{
		Kind:         classify(capsCopy),
		ID:           id,
		DisplayName:  displayName,
		Properties:   props,
		Capabilities: capsCopy,
		OwnerID:      owner,
	}
}

// CreateAgent creates a record with the given capabilities. The resulting
// Kind is still derived purely from the capability set: passing no action
// capability yields an entity, not an agent, despite the name of this
// constructor.
func CreateAgent(id, displayName string, props map[string]any, caps []string, owner *string) Record {
	capSet := make(map[string]struct{}, len(caps))
	for _, c := range caps {
		capSet[c] = struct{}{}
	}
	return newRecord(id, displayName, props, capSet, owner)
}

// CreateEntity creates a record with no capabilities.
func CreateEntity(id, displayName string, props map[string]any, owner *string) Record {
	return newRecord(id, displayName, props, nil, owner)
}

// AddCapabilities returns a new record with the given capabilities added.
// The record is reclassified as a side effect of the capability change.
func AddCapabilities(r Record, caps ...string) Record {
	next := cloneCapabilities(r.Capabilities)
	for _, c := range caps {
		next[c] = struct{}{}
	}
	out := r
	out.Capabilities = next
	out.Kind = classify(next)
	return out
}

// RemoveCapabilities returns a new record with the given capabilities
// removed. Removing the last action capability demotes an agent back to an
// entity.
func RemoveCapabilities(r Record, caps ...string) Record {
	next := cloneCapabilities(r.Capabilities)
	for _, c := range caps {
		delete(next, c)
	}
	out := r
	out.Capabilities = next
	out.Kind = classify(next)
	return out
}

// HasCapability reports whether r holds the named capability.
func HasCapability(r Record, cap string) bool {
	_, ok := r.Capabilities[cap]
	return ok
}

// IsCurrentlyAgent reports whether r currently classifies as an agent.
func IsCurrentlyAgent(r Record) bool {
	return r.Kind == KindAgent
}

// CanPerformAction reports whether r holds the capability required for the
// named action, per the published ActionRequirements mapping.
func CanPerformAction(r Record, action string) (bool, error) {
	required, ok := ActionRequirements[action]
	if !ok {
		return false, ErrUnknownAction(action)
	}
	return HasCapability(r, required), nil
}

// TransferOwnership returns a new record with OwnerID set to newOwner.
func TransferOwnership(r Record, newOwner string) Record {
	out := r
	out.OwnerID = &newOwner
	return out
}
