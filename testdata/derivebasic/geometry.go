package derivebasic

// Point is a plain value type.
//
//derive:Clone, Copy, Debug, Default, PartialEq, Eq, PartialOrd, Ord, Hash
type Point struct {
	X int
	Y int
}

// Path owns its points.
//
//derive:Clone(clone_from), Debug, PartialEq, Eq, Hash
type Path struct {
	Name   string
	Points []Point
}

//derive:Debug, PartialEq(feature_allow_slow_enum), Ord(feature_allow_slow_enum), PartialOrd(feature_allow_slow_enum), Eq
type Figure interface {
	isFigure()
}

type Dot struct {
	At Point
}

//derive:Default
type Blank struct{}

func (Dot) isFigure()   {}
func (Blank) isFigure() {}

// Opt is a generic enum.
//
//derive:Debug, PartialEq(feature_allow_slow_enum), Eq, Ord(feature_allow_slow_enum), Hash
type Opt[T any] interface {
	isOpt()
}

type Some[T any] struct {
	Value T
}

type None[T any] struct{}

func (Some[T]) isOpt() {}
func (None[T]) isOpt() {}
