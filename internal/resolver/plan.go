package resolver

import (
	"go/token"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/seitarof/gen-derive/internal/directive"
	"github.com/seitarof/gen-derive/internal/model"
)

// FieldPlan describes how one field takes part in a trait implementation.
//
// The shape of Expression depends on the trait: a bool for PartialEq, an
// (int, bool) pair for PartialOrd, an int for Ord, statements for Hash, and
// a value of the field's type for Clone and Default. Debug yields a string.
type FieldPlan struct {
	Field      *model.Field
	Trait      directive.Trait
	Strategy   Strategy
	Expression string
	// Helpers names the generated helper functions the expression calls.
	Helpers []string
	// Reason explains StrategyUnsupported.
	Reason string
}

// Strategy identifies how a field is handled.
type Strategy int

const (
	StrategySkip Strategy = iota
	StrategyCustomFunc
	StrategyDerived
	StrategyMethod
	StrategyOperator
	StrategyStdlib
	StrategyHelper
	StrategyFormat
	StrategyCopy
	StrategyZero
	StrategyValue
	StrategyUnsupported
)

func (s Strategy) String() string {
	switch s {
	case StrategySkip:
		return "skip"
	case StrategyCustomFunc:
		return "custom-func"
	case StrategyDerived:
		return "derived"
	case StrategyMethod:
		return "method"
	case StrategyOperator:
		return "operator"
	case StrategyStdlib:
		return "stdlib"
	case StrategyHelper:
		return "helper"
	case StrategyFormat:
		return "format"
	case StrategyCopy:
		return "copy"
	case StrategyZero:
		return "zero"
	case StrategyValue:
		return "value"
	case StrategyUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

func newPlan(t Target, s Strategy, expr string, helpers ...string) FieldPlan {
	return FieldPlan{Field: t.Field, Trait: t.Trait, Strategy: s, Expression: expr, Helpers: helpers}
}

func unsupported(t Target, reason string) FieldPlan {
	return FieldPlan{Field: t.Field, Trait: t.Trait, Strategy: StrategyUnsupported, Reason: reason}
}

var funcPrefixes = map[directive.Trait]string{
	directive.Clone:      "Clone",
	directive.Copy:       "Copy",
	directive.Debug:      "Debug",
	directive.Default:    "Default",
	directive.Eq:         "Eq",
	directive.Hash:       "Hash",
	directive.PartialEq:  "Equal",
	directive.PartialOrd: "PartialCompare",
	directive.Ord:        "Compare",
}

// FuncName returns the name of the generated function implementing trait
// for typeName. Unexported types get unexported functions.
func FuncName(trait directive.Trait, typeName string) string {
	return prefixedName(funcPrefixes[trait], typeName)
}

// CloneFromName returns the name of the in-place clone function.
func CloneFromName(typeName string) string { return prefixedName("CloneFrom", typeName) }

// NewName returns the name of the constructor generated by Default(new).
func NewName(typeName string) string { return prefixedName("New", typeName) }

// OrdinalName returns the name of an enum's discriminant helper. It is
// always unexported.
func OrdinalName(typeName string) string { return "ordinal" + toExportedToken(typeName) }

func prefixedName(prefix, typeName string) string {
	if token.IsExported(typeName) {
		return prefix + typeName
	}
	return strings.ToLower(prefix[:1]) + prefix[1:] + toExportedToken(typeName)
}

func toExportedToken(s string) string {
	if s == "" {
		return "Type"
	}
	return cases.Title(language.Und, cases.NoLower).String(s)
}

// funcRef returns the generated function of trait for the named type t,
// instantiated with t's type arguments so it can be used as a value.
func funcRef(trait directive.Trait, t *model.TypeExpr) string {
	return FuncName(trait, t.Name) + typeArgs(t)
}

func typeArgs(t *model.TypeExpr) string {
	if len(t.Args) == 0 {
		return ""
	}
	parts := make([]string, 0, len(t.Args))
	for _, a := range t.Args {
		parts = append(parts, a.Str)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
