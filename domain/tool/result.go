package tool

import (
	"encoding/json"
	"fmt"
	"time"
)

// Result contains the output of a tool execution.
type Result struct {
	// Output is the JSON document handed back to the caller.
	Output json.RawMessage `json:"output"`

	// Duration is how long the execution took. Set by the invoker.
	Duration time.Duration `json:"duration"`
}

// NewResult creates a result with the given output.
func NewResult(output json.RawMessage) Result {
	return Result{Output: output}
}

// JSONResult marshals v into a result.
func JSONResult(v any) (Result, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Result{}, fmt.Errorf("marshal tool output: %w", err)
	}
	return Result{Output: data}, nil
}

// OutputString returns the output as a string for convenience.
func (r Result) OutputString() string {
	return string(r.Output)
}

// Decode unmarshals the output into v.
func (r Result) Decode(v any) error {
	return json.Unmarshal(r.Output, v)
}
