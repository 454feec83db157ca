package sdkclient

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/twinj/uuid"
)

// EventType represents a type of event for a running server.
type EventType int

const (
	// AllocateEventType is dispatched when a server is allocated.
	AllocateEventType EventType = iota

	// DeallocateEventType is dispatched when a server is deallocated.
	DeallocateEventType
)

// ParseEventType returns the EventType named by s, ignoring case.
func ParseEventType(s string) (EventType, error) {
	switch strings.ToLower(s) {
	case "allocateeventtype":
		return AllocateEventType, nil
	case "deallocateeventtype":
		return DeallocateEventType, nil
	}

	return 0, InvalidEventTypeError(s)
}

// MarshalJSON implements json.Marshaler
func (i EventType) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (i *EventType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	et, err := ParseEventType(s)
	if err != nil {
		return err
	}

	*i = et

	return nil
}

// Event represents a lifecycle event for a running game server.
type Event interface {
	// Type returns the type of event.
	Type() EventType
}

// BaseEvent represents fields common to all Event implementations.
type BaseEvent struct {
	EventID   string
	EventType EventType
	ServerID  int64
}

// Type returns the type of event.
func (e BaseEvent) Type() EventType {
	return e.EventType
}

func newBaseEvent(et EventType, serverID int64) *BaseEvent {
	return &BaseEvent{
		EventID:   uuid.NewV1().String(),
		EventType: et,
		ServerID:  serverID,
	}
}

// AllocateEvent is dispatched when a server is allocated.
type AllocateEvent struct {
	*BaseEvent

	AllocationID string
}

// NewAllocateEvent returns a new allocate event.
func NewAllocateEvent(serverID int64, allocationID string) *AllocateEvent {
	return &AllocateEvent{
		BaseEvent:    newBaseEvent(AllocateEventType, serverID),
		AllocationID: allocationID,
	}
}

// DeallocateEvent is dispatched when a server is deallocated.
type DeallocateEvent struct {
	*BaseEvent

	AllocationID string
}

// NewDeallocateEvent returns a new deallocate event.
func NewDeallocateEvent(serverID int64, allocationID string) *DeallocateEvent {
	return &DeallocateEvent{
		BaseEvent:    newBaseEvent(DeallocateEventType, serverID),
		AllocationID: allocationID,
	}
}

// MarshalJSON implements json.Marshaler
func (a *AllocateEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(*a)
}

// MarshalJSON implements json.Marshaler
func (d *DeallocateEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(*d)
}

// UnmarshalEventJSON returns an Event unmarshaled from the JSON bytes.
func UnmarshalEventJSON(b []byte) (Event, error) {
	var be BaseEvent
	if err := json.Unmarshal(b, &be); err != nil {
		return nil, fmt.Errorf("unmarshal event from JSON: %w", err)
	}

	switch et := be.Type(); et {
	case AllocateEventType:
		var ae AllocateEvent
		if err := json.Unmarshal(b, &ae); err != nil {
			return nil, fmt.Errorf("unmarshal allocate event from JSON: %w", err)
		}

		return ae, nil
	case DeallocateEventType:
		var de DeallocateEvent
		if err := json.Unmarshal(b, &de); err != nil {
			return nil, fmt.Errorf("unmarshal deallocate event from JSON: %w", err)
		}

		return de, nil
	default:
		return nil, UnknownEventTypeError(et)
	}
}

// Compile-time assertion that the BaseEvent implements the expected Event
// methods.
var _ Event = BaseEvent{}
