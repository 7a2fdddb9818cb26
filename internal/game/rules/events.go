package rules

// EventType indicates the category of a combat event.
type EventType string

const (
	// Board construction events
	EventMinionPlaced  EventType = "MINION_PLACED"
	EventSupportGiven  EventType = "SUPPORT_GIVEN"
	EventMinionSpawned EventType = "MINION_SPAWNED"

	// Combat events
	EventAttackDeclared EventType = "ATTACK_DECLARED"
	EventDefenderChosen EventType = "DEFENDER_CHOSEN"
	EventDamageDealt    EventType = "DAMAGE_DEALT"
	EventDamageReflect  EventType = "DAMAGE_REFLECTED"
	EventMinionDied     EventType = "MINION_DIED"
	EventDeathTriggered EventType = "DEATH_TRIGGERED"

	// Match events
	EventMatchStarted EventType = "MATCH_STARTED"
	EventTurnPassed   EventType = "TURN_PASSED"
	EventMatchEnded   EventType = "MATCH_ENDED"
)

// Event represents a state change that other subsystems may react to.
type Event struct {
	Type        EventType
	Side        string // side the subject minion belongs to
	MinionID    int    // subject minion instance ID (0 = none)
	Species     string
	Position    int
	SourceID    int // minion that caused the event (0 = none)
	Amount      int // damage, bonus attack, turn number
	Health      int // bonus health or health after damage
	Flag        bool
	Description string
}

// Listener defines a callback that reacts to events.
type Listener func(Event)

// TypedListener defines a callback that reacts to a specific event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

// EventBus provides a synchronous publish/subscribe implementation with type filtering.
// A bus belongs to a single match and is not safe for concurrent use.
type EventBus struct {
	listeners      map[int]Listener
	order          []int
	typedListeners map[EventType][]TypedListener
	nextHandle     int
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[EventType][]TypedListener),
		nextHandle:     1,
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	bus.order = append(bus.order, handle)
	return handle
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle.
func (bus *EventBus) Unsubscribe(handle int) {
	if _, ok := bus.listeners[handle]; ok {
		delete(bus.listeners, handle)
		for i, h := range bus.order {
			if h == handle {
				bus.order = append(bus.order[:i], bus.order[i+1:]...)
				break
			}
		}
		return
	}
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers the event to all registered listeners in subscription order.
func (bus *EventBus) Publish(event Event) {
	if bus == nil {
		return
	}
	for _, handle := range bus.order {
		bus.listeners[handle](event)
	}
	for _, listener := range bus.typedListeners[event.Type] {
		listener.Callback(event)
	}
}
