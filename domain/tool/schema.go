package tool

import (
	"encoding/json"
	"reflect"

	"github.com/felixgeelhaar/mcp-go/schema"
)

// anyInput is the input type of tools that declare no schema.
var anyInput = reflect.TypeOf(map[string]any(nil))

// Schema describes tool input. It is generated from the Go type the tool
// decodes its input into, so the document hosts see and the one inputs are
// validated against are the same.
type Schema struct {
	doc       *schema.Schema
	inputType reflect.Type
}

// SchemaFor generates the schema of T from its json and jsonschema tags.
func SchemaFor[T any]() (Schema, error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	doc, err := schema.GenerateFromType(t)
	if err != nil {
		return Schema{}, err
	}
	return Schema{doc: doc, inputType: t}, nil
}

// MustSchemaFor is like SchemaFor but panics on error.
func MustSchemaFor[T any]() Schema {
	s, err := SchemaFor[T]()
	if err != nil {
		panic(err)
	}
	return s
}

// EmptySchema returns a schema that accepts any input.
func EmptySchema() Schema {
	return Schema{}
}

// IsEmpty reports whether the schema declares nothing.
func (s Schema) IsEmpty() bool {
	return s.doc == nil
}

// InputType is the Go type tool input decodes into.
func (s Schema) InputType() reflect.Type {
	if s.inputType == nil {
		return anyInput
	}
	return s.inputType
}

// Document returns the generated JSON Schema, nil when empty.
func (s Schema) Document() *schema.Schema {
	return s.doc
}

// Validate checks data against the schema. Required properties must be
// present and present properties must have the declared JSON type.
func (s Schema) Validate(data json.RawMessage) error {
	if s.IsEmpty() {
		return nil
	}
	return s.doc.Validate(data)
}

// Raw returns the schema as JSON.
func (s Schema) Raw() json.RawMessage {
	raw, err := s.MarshalJSON()
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return raw
}

// MarshalJSON implements json.Marshaler.
func (s Schema) MarshalJSON() ([]byte, error) {
	if s.doc == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.doc)
}
