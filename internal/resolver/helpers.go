package resolver

import "sort"

// Helper is a generic function emitted once per generated file.
type Helper struct {
	Name string
	Code string
}

const (
	helperCompareBool         = "deriveCompareBool"
	helperPartialCompareFloat = "derivePartialCompareFloat"
	helperPartialCompareSlice = "derivePartialCompareSlice"
	helperCloneSlice          = "deriveCloneSlice"
	helperCloneMap            = "deriveCloneMap"
	helperClonePointer        = "deriveClonePointer"
	helperClonePointerFunc    = "deriveClonePointerFunc"
	helperEqualPointer        = "deriveEqualPointer"
	helperDebugSlice          = "deriveDebugSlice"
)

var helperSources = map[string]string{
	helperCompareBool: `func deriveCompareBool[B ~bool](x, y B) int {
	switch {
	case x == y:
		return 0
	case !x:
		return -1
	default:
		return 1
	}
}`,
	helperPartialCompareFloat: `func derivePartialCompareFloat[F ~float32 | ~float64](x, y F) (int, bool) {
	if math.IsNaN(float64(x)) || math.IsNaN(float64(y)) {
		return 0, false
	}
	return cmp.Compare(x, y), true
}`,
	helperPartialCompareSlice: `func derivePartialCompareSlice[S ~[]E, E any](x, y S, f func(E, E) (int, bool)) (int, bool) {
	for i := range min(len(x), len(y)) {
		if c, ok := f(x[i], y[i]); !ok || c != 0 {
			return c, ok
		}
	}
	return cmp.Compare(len(x), len(y)), true
}`,
	helperCloneSlice: `func deriveCloneSlice[S ~[]E, E any](s S, f func(E) E) S {
	if s == nil {
		return nil
	}
	out := make(S, len(s))
	for i, v := range s {
		out[i] = f(v)
	}
	return out
}`,
	helperCloneMap: `func deriveCloneMap[M ~map[K]V, K comparable, V any](m M, f func(V) V) M {
	if m == nil {
		return nil
	}
	out := make(M, len(m))
	for k, v := range m {
		out[k] = f(v)
	}
	return out
}`,
	helperClonePointer: `func deriveClonePointer[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}`,
	helperClonePointerFunc: `func deriveClonePointerFunc[T any](p *T, f func(T) T) *T {
	if p == nil {
		return nil
	}
	v := f(*p)
	return &v
}`,
	helperEqualPointer: `func deriveEqualPointer[T any](x, y *T, eq func(T, T) bool) bool {
	if x == nil || y == nil {
		return x == y
	}
	return x == y || eq(*x, *y)
}`,
	helperDebugSlice: `func deriveDebugSlice[S ~[]E, E any](s S, f func(E) string) string {
	if s == nil {
		return "nil"
	}
	parts := make([]string, 0, len(s))
	for _, v := range s {
		parts = append(parts, f(v))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}`,
}

// Helpers returns the sources of the named helpers sorted by name. Unknown
// names are ignored.
func Helpers(names ...string) []Helper {
	seen := map[string]bool{}
	out := make([]Helper, 0, len(names))
	for _, n := range names {
		code, ok := helperSources[n]
		if !ok || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, Helper{Name: n, Code: code})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
