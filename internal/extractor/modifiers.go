package extractor

import "strings"

// Modifiers is the resolved modifier flag set of a symbol. Flags are
// orthogonal bits: a property can also be static or class-scoped.
type Modifiers struct {
	Static      bool `json:"is_static,omitempty"`
	ClassScoped bool `json:"is_class_scoped,omitempty"`
	Abstract    bool `json:"is_abstract,omitempty"`
	Property    bool `json:"is_property,omitempty"`
	Generator   bool `json:"is_generator,omitempty"`
	Coroutine   bool `json:"is_coroutine,omitempty"`
	DataCarrier bool `json:"is_data_carrier,omitempty"`
}

// merge ORs other into m.
func (m *Modifiers) merge(other Modifiers) {
	m.Static = m.Static || other.Static
	m.ClassScoped = m.ClassScoped || other.ClassScoped
	m.Abstract = m.Abstract || other.Abstract
	m.Property = m.Property || other.Property
	m.Generator = m.Generator || other.Generator
	m.Coroutine = m.Coroutine || other.Coroutine
	m.DataCarrier = m.DataCarrier || other.DataCarrier
}

// List returns the set flag names in a fixed order, for text output.
func (m Modifiers) List() []string {
	var out []string
	if m.Static {
		out = append(out, "static")
	}
	if m.ClassScoped {
		out = append(out, "classmethod")
	}
	if m.Abstract {
		out = append(out, "abstract")
	}
	if m.Property {
		out = append(out, "property")
	}
	if m.Generator {
		out = append(out, "generator")
	}
	if m.Coroutine {
		out = append(out, "coroutine")
	}
	if m.DataCarrier {
		out = append(out, "dataclass")
	}
	return out
}

// decoratorTable maps known decorator names to the modifier bits they
// imply. The set is closed but extensible; unknown names stay on the
// symbol verbatim and contribute no flags. Resolution depends only on
// the name, never on decorator arguments.
var decoratorTable = map[string]Modifiers{
	"staticmethod":              {Static: true},
	"classmethod":               {ClassScoped: true},
	"abstractmethod":            {Abstract: true},
	"abc.abstractmethod":        {Abstract: true},
	"abstractproperty":          {Abstract: true, Property: true},
	"abc.abstractproperty":      {Abstract: true, Property: true},
	"property":                  {Property: true},
	"cached_property":           {Property: true},
	"functools.cached_property": {Property: true},
	"dataclass":                 {DataCarrier: true},
	"dataclasses.dataclass":     {DataCarrier: true},
}

// ResolveModifiers maps an ordered decorator list to its modifier flag
// set. A dotted decorator also matches on its last path segment, so
// `@abc.abstractmethod` and a locally imported `@abstractmethod`
// resolve identically.
func ResolveModifiers(decorators []Decorator) Modifiers {
	var m Modifiers
	for _, dec := range decorators {
		if flags, ok := decoratorTable[dec.Name]; ok {
			m.merge(flags)
			continue
		}
		if i := strings.LastIndex(dec.Name, "."); i >= 0 {
			if flags, ok := decoratorTable[dec.Name[i+1:]]; ok {
				m.merge(flags)
			}
		}
	}
	return m
}
