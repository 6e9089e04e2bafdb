package logging

import (
	"strconv"

	"github.com/felixgeelhaar/bolt/v3"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// Entity adds the agent or target handle.
func Entity(key string, id uint64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64(key, int64(id))
	}
}

// Agent adds the acting agent handle.
func Agent(id uint64) Field {
	return Entity("agent", id)
}

// Tier adds a threat tier name.
func Tier(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("tier", name)
	}
}

// Amount adds a fixed-precision threat amount.
func Amount(v float64) Field {
	return Float("amount", v)
}

// Float adds a float rendered with three decimals.
func Float(key string, v float64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, strconv.FormatFloat(v, 'f', 3, 64))
	}
}

// Int adds an integer field.
func Int(key string, v int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int(key, v)
	}
}

// Reaction adds a reaction name.
func Reaction(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("reaction", name)
	}
}

// Step adds a step index and kind.
func Step(index int, kind string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("step", index).Str("step_kind", kind)
	}
}

// RunID adds a sequencer run id.
func RunID(id uint64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("run_id", int64(id))
	}
}

// Component adds a component field for categorization.
func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}

// Str adds a string field with a custom key.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}

// Bool adds a boolean field.
func Bool(key string, value bool) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Bool(key, value)
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}
