package directive

import "strings"

// Trait is one of the fixed set of derivable traits.
type Trait int

const (
	Clone Trait = iota
	Copy
	Debug
	Default
	Eq
	Hash
	PartialEq
	PartialOrd
	Ord

	traitCount
)

var traitNames = [traitCount]string{
	Clone:      "Clone",
	Copy:       "Copy",
	Debug:      "Debug",
	Default:    "Default",
	Eq:         "Eq",
	Hash:       "Hash",
	PartialEq:  "PartialEq",
	PartialOrd: "PartialOrd",
	Ord:        "Ord",
}

func (t Trait) String() string {
	if t < 0 || t >= traitCount {
		return "Trait(?)"
	}
	return traitNames[t]
}

// ParseTrait looks up a trait by its exact name.
func ParseTrait(name string) (Trait, bool) {
	for i, n := range traitNames {
		if n == name {
			return Trait(i), true
		}
	}
	return 0, false
}

// Traits returns every trait in declaration order.
func Traits() []Trait {
	out := make([]Trait, 0, traitCount)
	for t := Trait(0); t < traitCount; t++ {
		out = append(out, t)
	}
	return out
}

// TraitSet is a set of traits.
type TraitSet uint16

// NewTraitSet returns the set holding the given traits.
func NewTraitSet(traits ...Trait) TraitSet {
	var s TraitSet
	for _, t := range traits {
		s = s.With(t)
	}
	return s
}

// Has reports whether t is in the set.
func (s TraitSet) Has(t Trait) bool { return s&(1<<t) != 0 }

// With returns the set with t added.
func (s TraitSet) With(t Trait) TraitSet { return s | 1<<t }

// Without returns the set with t removed.
func (s TraitSet) Without(t Trait) TraitSet { return s &^ (1 << t) }

// Len returns the number of traits in the set.
func (s TraitSet) Len() int {
	n := 0
	for t := Trait(0); t < traitCount; t++ {
		if s.Has(t) {
			n++
		}
	}
	return n
}

func (s TraitSet) String() string {
	var names []string
	for t := Trait(0); t < traitCount; t++ {
		if s.Has(t) {
			names = append(names, t.String())
		}
	}
	return "{" + strings.Join(names, ", ") + "}"
}
