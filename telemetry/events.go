// Package telemetry provides economy tracking, bookmarks, perf timing and
// the compressed event log.
package telemetry

import "fmt"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventCollect EventType = iota
	EventDeposit
	EventPurchase
	EventSpawn
	EventSave
	EventImport
	EventPanic
)

var eventNames = [...]string{
	EventCollect:  "collect",
	EventDeposit:  "deposit",
	EventPurchase: "purchase",
	EventSpawn:    "spawn",
	EventSave:     "save",
	EventImport:   "import",
	EventPanic:    "panic",
}

// String returns the event name written to the log.
func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// MarshalText writes the event name instead of its number.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses an event name.
func (t *EventType) UnmarshalText(b []byte) error {
	for i, name := range eventNames {
		if name == string(b) {
			*t = EventType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown event type %q", b)
}

// Event represents a single telemetry event.
type Event struct {
	Type     EventType `json:"type"`
	Tick     int32     `json:"tick"`
	EntityID uint32    `json:"entity,omitempty"`

	// Optional fields depending on event type
	Flower int32   `json:"flower,omitempty"` // collect: flower index + 1, so 0 means none
	Amount float64 `json:"amount,omitempty"` // pollen moved, honey spent
	Detail string  `json:"detail,omitempty"` // upgrade kind, save key, error text
}

// NewCollectEvent creates a pollen pickup event.
func NewCollectEvent(tick int32, agentID uint32, flower int32, amount float64) Event {
	return Event{
		Type:     EventCollect,
		Tick:     tick,
		EntityID: agentID,
		Flower:   flower + 1,
		Amount:   amount,
	}
}

// NewDepositEvent creates a hive deposit event.
func NewDepositEvent(tick int32, agentID uint32, amount float64) Event {
	return Event{
		Type:     EventDeposit,
		Tick:     tick,
		EntityID: agentID,
		Amount:   amount,
	}
}

// NewPurchaseEvent creates an upgrade purchase event.
func NewPurchaseEvent(tick int32, kind string, cost float64) Event {
	return Event{
		Type:   EventPurchase,
		Tick:   tick,
		Amount: cost,
		Detail: kind,
	}
}

// NewSpawnEvent creates a bee spawn event.
func NewSpawnEvent(tick int32, agentID uint32) Event {
	return Event{
		Type:     EventSpawn,
		Tick:     tick,
		EntityID: agentID,
	}
}

// NewSaveEvent records a save to the store under key.
func NewSaveEvent(tick int32, key string) Event {
	return Event{
		Type:   EventSave,
		Tick:   tick,
		Detail: key,
	}
}

// NewImportEvent records an import attempt; detail is empty on success.
func NewImportEvent(tick int32, detail string) Event {
	return Event{
		Type:   EventImport,
		Tick:   tick,
		Detail: detail,
	}
}

// NewPanicEvent records an entity update that panicked.
func NewPanicEvent(tick int32, entityID uint32, detail string) Event {
	return Event{
		Type:     EventPanic,
		Tick:     tick,
		EntityID: entityID,
		Detail:   detail,
	}
}
