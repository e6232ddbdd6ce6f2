// Package render dispatches captured values to renderers.
//
// A Registry is an ordered list of entries, each a predicate paired with a
// renderer. Rendering a value runs the first entry whose predicate accepts
// it; registration order is the only tie-breaker and specificity is never
// inferred, so narrow entries must be registered before broad ones.
//
// Registries are assembled with a Builder and frozen by Build:
//
//	b := render.NewBuilder()
//	render.RegisterBuiltins(b, result.Class)
//	b.Register("money", render.InstanceOf[Money](), render.Typed(formatMoney))
//	render.RegisterFallback(b)
//	reg := b.Build()
//
//	html, err := reg.Render(value)
//
// A built Registry never changes and is safe for concurrent use.
package render
