package parserenum

// Shape is a closed set of shapes.
//
//derive:Debug, PartialEq(feature_allow_slow_enum), Default
type Shape interface {
	isShape()
}

type Circle struct {
	Radius float64
}

//derive:Default
type Square struct {
	Side float64 //derive:Default(value="1")
}

type Unit struct{}

//derive.field:Debug(format_with="formatCelsius")
type Celsius float64

func (Circle) isShape()  {}
func (Square) isShape()  {}
func (Unit) isShape()    {}
func (Celsius) isShape() {}

// Ghost has a pointer receiver, so it is not a variant.
type Ghost struct{}

func (*Ghost) isShape() {}

//derive:Clone
type Option[T any] interface {
	isOption()
}

type Some[T any] struct {
	Value T
}

type None[T any] struct{}

func (Some[T]) isOption() {}
func (None[T]) isOption() {}
