package parserbasic

import "time"

// Profile is not annotated and is never generated.
type Profile struct {
	BirthAt time.Time
}

// User exercises the common field kinds.
//
//derive:Clone, Debug, PartialEq, Hash
type User struct {
	ID   int
	Name string //derive:PartialEq(compare_with="strings.EqualFold")
	// Secret never shows up.
	//derive:Debug(ignore), Hash(ignore)
	Secret  string
	Profile Profile
	Ptr     *Profile
	Tags    []string
	Scores  map[string]int
	At      time.Time
	_       int
}

//derive:Default, Debug, PartialOrd
//derive.field:Default(value="36.6")
type Celsius float64

//derive:Clone
type Tags []string

//derive:PartialEq, Hash
type Pair[K comparable, V any] struct {
	Key K
	Val V
}

//derive:Debug
type Empty struct{}

// Reading is not annotated. Its unexported field is visible to code
// generated into this package.
type Reading struct {
	Value float64
	raw   []byte
}

//derive:Debug
type Sample struct {
	R Reading
}
