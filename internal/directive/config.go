package directive

import "go/token"

// Context is the kind of entity a directive is attached to.
type Context int

const (
	ContextType Context = iota
	ContextVariant
	ContextField
)

func (c Context) String() string {
	switch c {
	case ContextType:
		return "type"
	case ContextVariant:
		return "variant"
	case ContextField:
		return "field"
	default:
		return "unknown"
	}
}

// Predicate constrains one type parameter, e.g. {Param: "T", Constraint: "comparable"}.
type Predicate struct {
	Param      string
	Constraint string
}

func (p Predicate) String() string { return p.Param + " " + p.Constraint }

// Bound is the value of a `bound` directive. Explicit is false when the
// directive was omitted, which means "infer". An explicit empty list means
// "no constraints needed".
type Bound struct {
	Explicit   bool
	Predicates []Predicate
}

// Set is the directive set of one trait on one entity.
type Set struct {
	Bound Bound

	// With is the function path of format_with, clone_with, hash_with or
	// compare_with, depending on the trait.
	With string

	Ignore         bool
	Transparent    bool
	CloneFrom      bool
	New            bool
	AllowEnum      bool
	DefaultVariant bool

	Value    string
	HasValue bool
}

// Config holds the parsed directives of a type, variant or field. It is built
// once by Parse and never mutated afterwards.
type Config struct {
	Pos  token.Position
	sets [traitCount]*Set
}

// Requested reports whether the trait was named at all. On a type this means
// the trait is to be derived.
func (c Config) Requested(t Trait) bool {
	return t >= 0 && t < traitCount && c.sets[t] != nil
}

// Get returns the directive set for t, or the zero Set when absent.
func (c Config) Get(t Trait) Set {
	if !c.Requested(t) {
		return Set{}
	}
	return *c.sets[t]
}

// Traits returns the set of traits named in the config.
func (c Config) Traits() TraitSet {
	var s TraitSet
	for t := Trait(0); t < traitCount; t++ {
		if c.sets[t] != nil {
			s = s.With(t)
		}
	}
	return s
}

// Empty reports whether no directive was given.
func (c Config) Empty() bool { return c.Traits() == 0 }

// Ignored reports whether the entity is ignored for t.
func (c Config) Ignored(t Trait) bool { return c.Get(t).Ignore }

// With returns the custom function path for t, if any.
func (c Config) With(t Trait) (string, bool) {
	s := c.Get(t)
	return s.With, s.With != ""
}

// Bound returns the bound directive for t.
func (c Config) Bound(t Trait) Bound { return c.Get(t).Bound }

// Predicates returns every explicit predicate of every trait, in trait order.
func (c Config) Predicates() []Predicate {
	var out []Predicate
	for _, s := range c.sets {
		if s != nil {
			out = append(out, s.Bound.Predicates...)
		}
	}
	return out
}

func (c *Config) ensure(t Trait) *Set {
	if c.sets[t] == nil {
		c.sets[t] = &Set{}
	}
	return c.sets[t]
}
