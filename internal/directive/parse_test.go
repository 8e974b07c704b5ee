package directive

import (
	"errors"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seitarof/gen-derive/internal/diag"
)

func lines(texts ...string) []Line {
	out := make([]Line, 0, len(texts))
	for i, text := range texts {
		out = append(out, Line{Text: text, Pos: token.Position{Filename: "t.go", Line: i + 1, Column: 10}})
	}
	return out
}

func TestParseLine_Forms(t *testing.T) {
	anns, err := ParseLine(`Debug, PartialEq="feature_allow_slow_enum", Hash(ignore, hash_with="hashFn")`, token.Position{})
	require.Nil(t, err)
	require.Len(t, anns, 3)

	assert.Equal(t, "Debug", anns[0].Trait)
	assert.False(t, anns[0].HasValue)
	assert.Empty(t, anns[0].Args)

	assert.Equal(t, "PartialEq", anns[1].Trait)
	assert.True(t, anns[1].HasValue)
	assert.Equal(t, "feature_allow_slow_enum", anns[1].Value)

	assert.Equal(t, "Hash", anns[2].Trait)
	require.Len(t, anns[2].Args, 2)
	assert.Equal(t, Arg{Key: "ignore"}, anns[2].Args[0])
	assert.Equal(t, "hash_with", anns[2].Args[1].Key)
	assert.Equal(t, "hashFn", anns[2].Args[1].Value)
	assert.True(t, anns[2].Args[1].HasValue)
}

func TestParseLine_Positions(t *testing.T) {
	base := token.Position{Filename: "t.go", Offset: 100, Line: 4, Column: 10}
	anns, err := ParseLine(`Debug, Hash(ignore)`, base)
	require.Nil(t, err)

	assert.Equal(t, 10, anns[0].Pos.Column)
	assert.Equal(t, 17, anns[1].Pos.Column)
	assert.Equal(t, 22, anns[1].Args[0].Pos.Column)
	assert.Equal(t, 4, anns[1].Args[0].Pos.Line)
}

func TestParseLine_SyntaxErrors(t *testing.T) {
	for _, text := range []string{
		``,
		`Debug(`,
		`Debug(ignore`,
		`Debug="ignore`,
		`Debug=ignore`,
		`Debug Hash`,
		`(ignore)`,
		`Debug(ignore="x" format_with="y")`,
	} {
		t.Run(text, func(t *testing.T) {
			_, err := ParseLine(text, token.Position{})
			require.NotNil(t, err)
			assert.Equal(t, diag.CodeSyntax, err.Code)
		})
	}
}

func TestParse_TypeDirectives(t *testing.T) {
	cfg, err := Parse(ContextType, lines(
		`Debug(transparent), Clone(clone_from="true")`,
		`PartialOrd(feature_allow_slow_enum, bound="T comparable")`,
		`Default(new="false")`,
	))
	require.NoError(t, err)

	assert.True(t, cfg.Requested(Debug))
	assert.True(t, cfg.Get(Debug).Transparent)
	assert.True(t, cfg.Get(Clone).CloneFrom)
	assert.True(t, cfg.Get(PartialOrd).AllowEnum)
	assert.Equal(t, Bound{Explicit: true, Predicates: []Predicate{{"T", "comparable"}}}, cfg.Bound(PartialOrd))
	assert.True(t, cfg.Requested(Default))
	assert.False(t, cfg.Get(Default).New)
	assert.False(t, cfg.Requested(Hash))
	assert.Equal(t, NewTraitSet(Debug, Clone, PartialOrd, Default), cfg.Traits())
	assert.Equal(t, 1, cfg.Pos.Line)
}

func TestParse_FieldDirectives(t *testing.T) {
	cfg, err := Parse(ContextField, lines(
		`Debug="ignore", PartialEq(compare_with="strings.EqualFold")`,
		`Default(value="42"), Hash(hash_with="pkg.HashName", bound="")`,
	))
	require.NoError(t, err)

	assert.True(t, cfg.Ignored(Debug))
	fn, ok := cfg.With(PartialEq)
	assert.True(t, ok)
	assert.Equal(t, "strings.EqualFold", fn)
	assert.Equal(t, "42", cfg.Get(Default).Value)
	assert.True(t, cfg.Get(Default).HasValue)
	assert.Equal(t, Bound{Explicit: true, Predicates: []Predicate{}}, cfg.Bound(Hash))
	assert.False(t, cfg.Bound(Debug).Explicit)
}

func TestParse_VariantDefaultMarker(t *testing.T) {
	cfg, err := Parse(ContextVariant, lines(`Default, Debug(transparent)`))
	require.NoError(t, err)

	assert.True(t, cfg.Get(Default).DefaultVariant)
	assert.True(t, cfg.Get(Debug).Transparent)
}

func TestParse_BareTraitOnFieldHasNoEffect(t *testing.T) {
	cfg, err := Parse(ContextField, lines(`Ord`))
	require.NoError(t, err)

	assert.Equal(t, Set{}, cfg.Get(Ord))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		ctx  Context
		text string
		want *diag.Error
	}{
		{"unknown trait", ContextType, `Display`, diag.ErrUnknownTrait},
		{"unknown key", ContextType, `Debug(pretty)`, diag.ErrUnknownDirective},
		{"field key on type", ContextType, `Debug(ignore)`, diag.ErrUnknownDirective},
		{"type key on field", ContextField, `PartialEq(feature_allow_slow_enum)`, diag.ErrUnknownDirective},
		{"unknown shorthand", ContextField, `Debug="skip"`, diag.ErrUnknownDirective},
		{"shorthand of value key", ContextField, `Debug="format_with"`, diag.ErrUnknownDirective},
		{"bad boolean", ContextField, `Hash(ignore="yes")`, diag.ErrInvalidBooleanValue},
		{"missing format_with", ContextField, `Debug(format_with)`, diag.ErrMissingValue},
		{"missing compare_with", ContextField, `PartialEq(compare_with)`, diag.ErrMissingValue},
		{"missing hash_with", ContextField, `Hash(hash_with)`, diag.ErrMissingValue},
		{"missing clone_with", ContextField, `Clone(clone_with)`, diag.ErrMissingValue},
		{"missing value", ContextField, `Default(value)`, diag.ErrMissingValue},
		{"missing bound", ContextType, `Clone(bound)`, diag.ErrMissingValue},
		{"bad bound", ContextType, `Clone(bound="T (")`, diag.ErrInvalidBound},
		{"bad expression", ContextField, `Default(value="1 +")`, diag.ErrInvalidValue},
		{"syntax", ContextType, `Debug(`, diag.ErrSyntax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.ctx, lines(tt.text))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestParse_CollectsAllErrors(t *testing.T) {
	_, err := Parse(ContextField, lines(
		`Display, Debug(ignore="maybe")`,
		`Hash(hash_with)`,
		`Debug(`,
	))
	require.Error(t, err)

	errs := diag.Flatten(err)
	require.Len(t, errs, 4)
	assert.Equal(t, diag.CodeUnknownTrait, errs[0].Code)
	assert.Equal(t, diag.CodeInvalidBooleanValue, errs[1].Code)
	assert.Equal(t, diag.CodeMissingValue, errs[2].Code)
	assert.Equal(t, "hash_with", errs[2].Key)
	assert.Equal(t, "Hash", errs[2].Trait)
	assert.Equal(t, 2, errs[2].Pos.Line)
	assert.Equal(t, diag.CodeSyntax, errs[3].Code)
}

func TestParseBound(t *testing.T) {
	preds, err := ParseBound("K comparable, V interface{ ~int | ~string }, A, B any")
	require.NoError(t, err)
	assert.Equal(t, []Predicate{
		{"K", "comparable"},
		{"V", "interface{ ~int | ~string }"},
		{"A", "any"},
		{"B", "any"},
	}, preds)

	_, err = ParseBound("T any]() {}\nfunc g[U any")
	assert.Error(t, err)
}

func TestTraitNames(t *testing.T) {
	for _, tr := range Traits() {
		got, ok := ParseTrait(tr.String())
		require.True(t, ok)
		assert.Equal(t, tr, got)
	}
	_, ok := ParseTrait("partialeq")
	assert.False(t, ok)
	assert.Equal(t, "{Debug, Hash}", NewTraitSet(Hash, Debug).String())
}
