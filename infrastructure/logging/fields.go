package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// InvocationID adds the id of one tool invocation.
func InvocationID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("invocation_id", id)
	}
}

// Source adds where an invocation came from (mcp, cli).
func Source(source string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("source", source)
	}
}

// ToolName adds a tool name field.
func ToolName(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("tool", name)
	}
}

// Directory adds a directory name field.
func Directory(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("directory", name)
	}
}

// Visibility adds a visibility field.
func Visibility(v string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("visibility", v)
	}
}

// StatusCode adds an HTTP status code field.
func StatusCode(code int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("status_code", code)
	}
}

// Outcome adds the outcome kind of an operation.
func Outcome(kind string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("outcome", kind)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
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

// Component adds a component field for categorization.
func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}

// Operation adds an operation field.
func Operation(op string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("operation", op)
	}
}

// Str adds a string field with custom key.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}
