package physics

// EventName identifies an engine event stream.
type EventName string

const (
	EventBeforeUpdate   EventName = "beforeUpdate"
	EventCollisionStart EventName = "collisionStart"
	EventAfterUpdate    EventName = "afterUpdate"
)

// Pair is two bodies that started touching during a tick.
type Pair struct {
	A, B *Body
}

// Event is delivered to handlers registered with Engine.On.
type Event struct {
	Name  EventName
	Tick  uint64
	Pairs []Pair
}

// Handler reacts to an engine event. Handlers run on the stepping goroutine.
type Handler func(Event)
