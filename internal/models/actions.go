package models

// ActionKind names an action on the wire and in logs
type ActionKind string

const (
	KindAdvanceTime ActionKind = "advance-time"
	KindPurchase    ActionKind = "purchase"
	KindReset       ActionKind = "reset"
)

// Action is one of AdvanceTime, Purchase or Reset
type Action interface {
	Kind() ActionKind
}

// AdvanceTime moves the simulation to the given wall-clock time
type AdvanceTime struct {
	TimestampMillis int64
}

func (AdvanceTime) Kind() ActionKind { return KindAdvanceTime }

// Purchase buys Quantity units of a producer
type Purchase struct {
	ProducerID ProducerID
	Quantity   int64
}

func (Purchase) Kind() ActionKind { return KindPurchase }

// Reset discards all progress
type Reset struct{}

func (Reset) Kind() ActionKind { return KindReset }
