package directive

import (
	"go/parser"
	"go/token"

	"github.com/seitarof/gen-derive/internal/diag"
)

type keyKind int

const (
	kindBool keyKind = iota
	kindValue
	kindBound
)

type contextMask uint8

const (
	onType contextMask = 1 << iota
	onVariant
	onField
)

func (m contextMask) allows(ctx Context) bool {
	switch ctx {
	case ContextType:
		return m&onType != 0
	case ContextVariant:
		return m&onVariant != 0
	case ContextField:
		return m&onField != 0
	}
	return false
}

type keySpec struct {
	name string
	kind keyKind
	on   contextMask
}

// keysFor returns the directive table of one trait. The table is the
// directive surface of the tool and must stay stable.
func keysFor(t Trait) []keySpec {
	keys := []keySpec{{"bound", kindBound, onType | onField}}
	switch t {
	case Clone:
		keys = append(keys,
			keySpec{"clone_from", kindBool, onType},
			keySpec{"clone_with", kindValue, onField},
		)
	case Debug:
		keys = append(keys,
			keySpec{"transparent", kindBool, onType | onVariant},
			keySpec{"format_with", kindValue, onField},
			keySpec{"ignore", kindBool, onField},
		)
	case Default:
		keys = append(keys,
			keySpec{"new", kindBool, onType},
			keySpec{"value", kindValue, onField},
		)
	case Hash:
		keys = append(keys,
			keySpec{"hash_with", kindValue, onField},
			keySpec{"ignore", kindBool, onField},
		)
	case PartialEq, PartialOrd, Ord:
		keys = append(keys,
			keySpec{"compare_with", kindValue, onField},
			keySpec{"ignore", kindBool, onField},
			keySpec{"feature_allow_slow_enum", kindBool, onType},
		)
	}
	return keys
}

func lookupKey(t Trait, ctx Context, name string) (keySpec, bool) {
	for _, k := range keysFor(t) {
		if k.name == name && k.on.allows(ctx) {
			return k, true
		}
	}
	return keySpec{}, false
}

// Parse builds the Config of one entity from its directive lines. Every
// problem found is reported; the returned error joins *diag.Error values.
func Parse(ctx Context, lines []Line) (Config, error) {
	var cfg Config
	var errs []*diag.Error

	for i, l := range lines {
		if i == 0 {
			cfg.Pos = l.Pos
		}
		anns, err := ParseLine(l.Text, l.Pos)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, a := range anns {
			errs = append(errs, cfg.apply(ctx, a)...)
		}
	}

	if len(errs) > 0 {
		return Config{}, diag.Join(errs)
	}
	return cfg, nil
}

func (c *Config) apply(ctx Context, a Annotation) []*diag.Error {
	trait, ok := ParseTrait(a.Trait)
	if !ok {
		return []*diag.Error{diag.Errorf(diag.CodeUnknownTrait, a.Pos, "unknown trait `%s`", a.Trait)}
	}
	set := c.ensure(trait)
	if ctx == ContextVariant && trait == Default && !a.HasValue && len(a.Args) == 0 {
		set.DefaultVariant = true
		return nil
	}

	var errs []*diag.Error
	if a.HasValue {
		// Trait="name" is shorthand for Trait(name="true").
		key, ok := lookupKey(trait, ctx, a.Value)
		if !ok || key.kind != kindBool {
			errs = append(errs, unknownDirective(trait, ctx, a.Value, a.Pos))
		} else {
			setBool(set, key.name, true)
		}
	}

	for _, arg := range a.Args {
		key, ok := lookupKey(trait, ctx, arg.Key)
		if !ok {
			errs = append(errs, unknownDirective(trait, ctx, arg.Key, arg.Pos))
			continue
		}
		if err := applyArg(set, trait, key, arg); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func unknownDirective(t Trait, ctx Context, key string, pos token.Position) *diag.Error {
	e := diag.Errorf(diag.CodeUnknownDirective, pos, "unknown %s directive `%s` for trait `%s`", ctx, key, t).WithTrait(t.String())
	e.Key = key
	return e
}

func applyArg(set *Set, t Trait, key keySpec, arg Arg) *diag.Error {
	switch key.kind {
	case kindBool:
		v, err := parseBool(key.name, arg)
		if err != nil {
			return err.WithTrait(t.String())
		}
		setBool(set, key.name, v)

	case kindValue:
		if !arg.HasValue {
			return missingValue(t, arg)
		}
		if _, err := parser.ParseExpr(arg.Value); err != nil {
			e := diag.Errorf(diag.CodeInvalidValue, arg.Pos, "`%s` must be a Go expression: %q", key.name, arg.Value).WithTrait(t.String())
			e.Key = key.name
			return e
		}
		if key.name == "value" {
			set.Value, set.HasValue = arg.Value, true
		} else {
			set.With = arg.Value
		}

	case kindBound:
		if !arg.HasValue {
			return missingValue(t, arg)
		}
		preds, err := ParseBound(arg.Value)
		if err != nil {
			e := diag.Errorf(diag.CodeInvalidBound, arg.Pos, "could not parse `bound` %q: %v", arg.Value, err).WithTrait(t.String())
			e.Key = key.name
			return e
		}
		set.Bound = Bound{Explicit: true, Predicates: preds}
	}
	return nil
}

func missingValue(t Trait, arg Arg) *diag.Error {
	e := diag.Errorf(diag.CodeMissingValue, arg.Pos, "`%s` needs a value", arg.Key).WithTrait(t.String())
	e.Key = arg.Key
	return e
}

// parseBool accepts "true", "false" and the key's own name. A key without a
// value is true.
func parseBool(name string, arg Arg) (bool, *diag.Error) {
	if !arg.HasValue {
		return true, nil
	}
	switch arg.Value {
	case "true", name:
		return true, nil
	case "false":
		return false, nil
	}
	e := diag.Errorf(diag.CodeInvalidBooleanValue, arg.Pos, "invalid value for `%s`: `%s`", name, arg.Value)
	e.Key = name
	return false, e
}

func setBool(set *Set, name string, v bool) {
	switch name {
	case "ignore":
		set.Ignore = v
	case "transparent":
		set.Transparent = v
	case "clone_from":
		set.CloneFrom = v
	case "new":
		set.New = v
	case "feature_allow_slow_enum":
		set.AllowEnum = v
	}
}
