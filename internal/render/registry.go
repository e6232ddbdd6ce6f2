package render

import (
	"fmt"
)

// Renderer turns one value into document text.
type Renderer interface {
	Render(v any) (string, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(v any) (string, error)

// Render calls f(v).
func (f RendererFunc) Render(v any) (string, error) {
	return f(v)
}

// Typed adapts a function over one concrete type to a Renderer. Values of
// any other type are rejected with an error.
func Typed[T any](fn func(T) (string, error)) Renderer {
	return RendererFunc(func(v any) (string, error) {
		t, ok := v.(T)
		if !ok {
			var zero T
			return "", fmt.Errorf("expected %T, got %s", zero, typeName(v))
		}
		return fn(t)
	})
}

// Entry pairs a predicate with the renderer used for values it accepts.
type Entry struct {
	// Name identifies the entry in errors and logs.
	Name string

	// Match reports whether the entry handles a value.
	Match Predicate

	// Renderer renders accepted values.
	Renderer Renderer

	// Order is the entry's position in the registry, assigned by Build.
	Order int
}

// Builder collects entries during setup. It is not safe for concurrent use.
type Builder struct {
	entries   []Entry
	unmatched Renderer
}

// NewBuilder returns an empty builder whose registries stringify values
// no entry accepts.
func NewBuilder() *Builder {
	return &Builder{unmatched: RendererFunc(Stringify)}
}

// Register appends an entry. Overlapping predicates are allowed; the entry
// registered first wins. Panics on a nil predicate or renderer.
func (b *Builder) Register(name string, match Predicate, r Renderer) *Builder {
	if match == nil {
		panic(fmt.Sprintf("render: nil predicate for entry %q", name))
	}
	if r == nil {
		panic(fmt.Sprintf("render: nil renderer for entry %q", name))
	}
	b.entries = append(b.entries, Entry{Name: name, Match: match, Renderer: r})
	return b
}

// Unmatched sets the renderer used when no entry accepts a value.
// nil makes such values an ErrNoRenderer error.
func (b *Builder) Unmatched(r Renderer) *Builder {
	b.unmatched = r
	return b
}

// Len returns the number of entries registered so far.
func (b *Builder) Len() int {
	return len(b.entries)
}

// Build freezes the entries into a Registry. The builder may keep being
// used; later registrations do not affect registries already built.
func (b *Builder) Build() *Registry {
	entries := make([]Entry, len(b.entries))
	copy(entries, b.entries)
	for i := range entries {
		entries[i].Order = i
	}
	return &Registry{entries: entries, unmatched: b.unmatched}
}

// Registry is an immutable, ordered set of entries.
type Registry struct {
	entries   []Entry
	unmatched Renderer
}

// Entries returns a copy of the entries in dispatch order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Resolve returns the first entry whose predicate accepts v. When none does,
// it returns the unmatched entry (Order -1), or ErrNoRenderer if the
// registry has no unmatched renderer.
func (r *Registry) Resolve(v any) (Entry, error) {
	for _, e := range r.entries {
		if e.Match(v) {
			return e, nil
		}
	}
	if r.unmatched != nil {
		return Entry{Name: EntryUnmatched, Match: Always(), Renderer: r.unmatched, Order: -1}, nil
	}
	return Entry{}, &Error{Code: ErrCodeNoRenderer, ValueType: typeName(v), Err: ErrNoRenderer}
}

// Render renders v with the entry Resolve picks.
func (r *Registry) Render(v any) (string, error) {
	e, err := r.Resolve(v)
	if err != nil {
		return "", err
	}

	out, err := e.Renderer.Render(v)
	if err != nil {
		return "", &Error{Code: ErrCodeRenderFailed, Entry: e.Name, ValueType: typeName(v), Err: err}
	}
	return out, nil
}
