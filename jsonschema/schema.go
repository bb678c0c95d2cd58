// Package jsonschema holds the JSON Schema subset used to describe document
// shapes.
package jsonschema

// Schema is a minimal JSON Schema (draft 2020-12) node.
type Schema struct {
	// Core
	Ref         string `json:"$ref,omitempty"`
	Title       string `json:"title,omitempty"`
	Type        string `json:"type,omitempty"`
	Format      string `json:"format,omitempty"`
	Enum        []any  `json:"enum,omitempty"`
	Description string `json:"description,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty"`

	// Union
	OneOf []*Schema `json:"oneOf,omitempty"`

	Defs map[string]*Schema `json:"$defs,omitempty"`
}

// DefRef returns the $ref pointing at a definition in the root $defs.
func DefRef(name string) *Schema { return &Schema{Ref: "#/$defs/" + name} }
