// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Trainer event types
const (
	ShotFired     Type = "shot_fired"
	TargetHit     Type = "target_hit"
	ShotMissed    Type = "shot_missed"
	RoundReset    Type = "round_reset"
	AngleChanged  Type = "angle_changed"
	InputRejected Type = "input_rejected"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

type registration struct {
	id      uint64
	handler Handler
}

// Subscription identifies a registered handler. Cancel removes it.
type Subscription struct {
	ID     uint64
	Cancel func()
}

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]registration
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]registration),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], registration{id: id, handler: handler})

	return &Subscription{
		ID: id,
		Cancel: func() {
			b.unsubscribe(eventType, id)
		},
	}
}

// unsubscribe removes the handler registered under id
func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers := b.handlers[eventType]
	for i, r := range handlers {
		if r.id == id {
			b.handlers[eventType] = append(handlers[:i:i], handlers[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribed handlers. Handlers run
// synchronously on the publishing goroutine in subscription order.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := append([]registration(nil), b.handlers[event.GetType()]...)
	b.mu.RUnlock()

	for _, r := range handlers {
		r.handler(event)
	}
}

// Specific event implementations

// ShotEvent carries the state of a shot when it was fired or when its
// flight ended.
type ShotEvent struct {
	BaseEvent
	Round      uint64
	Shot       uint64
	Speed      float64 // m/s
	Angle      float64 // radians
	FlightTime float64 // seconds
	X, Y       float64 // projectile position in pixels
}

// NewShotEvent creates a new shot event
func NewShotEvent(eventType Type, source interface{}, round, shot uint64, speed, angle float64) *ShotEvent {
	return &ShotEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		Round: round,
		Shot:  shot,
		Speed: speed,
		Angle: angle,
	}
}

// RoundEvent is published when a new target is placed
type RoundEvent struct {
	BaseEvent
	Round          uint64
	TargetX        float64
	TargetY        float64
	TargetDistance float64 // metres from the cannon pivot
}

// NewRoundEvent creates a new round event
func NewRoundEvent(source interface{}, round uint64, targetX, targetY, distance float64) *RoundEvent {
	return &RoundEvent{
		BaseEvent: BaseEvent{
			EventType: RoundReset,
			Source:    source,
		},
		Round:          round,
		TargetX:        targetX,
		TargetY:        targetY,
		TargetDistance: distance,
	}
}

// AngleEvent is published when the pending launch angle changes
type AngleEvent struct {
	BaseEvent
	Angle float64 // radians
}

// NewAngleEvent creates a new angle event
func NewAngleEvent(source interface{}, angle float64) *AngleEvent {
	return &AngleEvent{
		BaseEvent: BaseEvent{
			EventType: AngleChanged,
			Source:    source,
		},
		Angle: angle,
	}
}

// InputEvent is published when a command is rejected
type InputEvent struct {
	BaseEvent
	Err error
}

// NewInputEvent creates a new rejected-input event
func NewInputEvent(source interface{}, err error) *InputEvent {
	return &InputEvent{
		BaseEvent: BaseEvent{
			EventType: InputRejected,
			Source:    source,
		},
		Err: err,
	}
}
