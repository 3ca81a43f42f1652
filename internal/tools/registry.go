// Package tools is the core of sonar-mcp: a typed tool catalog, a validated
// parameter pipeline, and a dispatcher that turns tool calls into SonarQube
// requests and canonical result records.
package tools

import (
	"context"
	"fmt"
)

// ParamType enumerates the wire types a tool parameter can take.
type ParamType string

const (
	TypeInt         ParamType = "integer"
	TypeString      ParamType = "string"
	TypeStringArray ParamType = "array<string>"
)

// ParamSpec declares one parameter of a tool: its type, whether it is
// required, its default, and its constraints. Validation happens at the
// dispatch boundary; handlers only ever see values that passed it.
type ParamSpec struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Default     any
	Min         *int
	Max         *int
	Enum        []string
}

// Args holds validated, typed arguments for a handler invocation.
type Args map[string]any

// Int returns an integer argument. Valid only for names declared TypeInt.
func (a Args) Int(name string) int {
	v, _ := a[name].(int)
	return v
}

// String returns a string argument. Valid only for names declared TypeString.
func (a Args) String(name string) string {
	v, _ := a[name].(string)
	return v
}

// StringSlice returns an array argument, never nil.
func (a Args) StringSlice(name string) []string {
	if v, ok := a[name].([]string); ok {
		return v
	}
	return []string{}
}

// HandlerFunc executes a validated tool call.
type HandlerFunc func(ctx context.Context, args Args) (any, error)

// Descriptor declares a callable tool. Immutable after registration.
type Descriptor struct {
	Name        string
	Description string
	Params      []ParamSpec
	Handler     HandlerFunc
}

// Registry holds the tool catalog. It is populated once at startup and
// read-only afterwards, so concurrent lookups need no locking.
type Registry struct {
	order  []string
	byName map[string]*Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Descriptor)}
}

// Register adds a tool to the catalog. Duplicate or empty names are
// programmer errors and panic at startup.
func (r *Registry) Register(d Descriptor) {
	if d.Name == "" {
		panic("tools: descriptor with empty name")
	}
	if _, exists := r.byName[d.Name]; exists {
		panic(fmt.Sprintf("tools: duplicate tool %q", d.Name))
	}
	desc := d
	r.byName[d.Name] = &desc
	r.order = append(r.order, d.Name)
}

// List returns all descriptors in registration order. The order is stable
// so catalog discovery is deterministic.
func (r *Registry) List() []*Descriptor {
	out := make([]*Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (*Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}
