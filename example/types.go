// Package example shows the functions gen-derive writes for a few
// annotated types. derive_gen.go is regenerated by go generate.
package example

import (
	"hash/maphash"
	"strings"
)

//go:generate go run github.com/seitarof/gen-derive/cmd/gen-derive

// Point is a position on a grid.
//
//derive:Clone, Copy, Debug, Default, PartialEq, Eq, PartialOrd, Ord, Hash
type Point struct {
	X int
	Y int
}

// Account holds user data that must not leak into logs.
//
//derive:Clone(clone_from), Debug, PartialEq, Eq, Hash
type Account struct {
	Name   string //derive:PartialEq(compare_with="strings.EqualFold"), Hash(hash_with="hashFold")
	Home   Point
	Visits []Point
	// Password is never printed or compared.
	//derive:Debug(ignore), PartialEq(ignore), Hash(ignore)
	Password string
}

func hashFold(h *maphash.Hash, s string) {
	h.WriteString(strings.ToLower(s))
}

// Shape is a closed set of figures.
//
//derive:Clone, Debug, Default, PartialEq(feature_allow_slow_enum), PartialOrd(feature_allow_slow_enum), Hash
type Shape interface {
	isShape()
}

type Circle struct {
	Center Point
	Radius float64
}

//derive:Default
type Square struct {
	Side float64 //derive:Default(value="1")
}

type Blank struct{}

func (Circle) isShape() {}
func (Square) isShape() {}
func (Blank) isShape()  {}

// Celsius prints as a bare number.
//
//derive:Debug(transparent), Default(new), PartialEq, PartialOrd
//derive.field:Default(value="36.6")
type Celsius float64

// Opt holds a value or nothing.
//
//derive:PartialEq(feature_allow_slow_enum), Eq, Ord(feature_allow_slow_enum), Hash
type Opt[T any] interface {
	isOpt()
}

type Some[T any] struct {
	Value T
}

type None[T any] struct{}

func (Some[T]) isOpt() {}
func (None[T]) isOpt() {}
