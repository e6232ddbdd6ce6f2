package render

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type money struct {
	Cents int
}

func fallbackOnly() *Registry {
	return RegisterFallback(NewBuilder()).Build()
}

func TestRegistry_FallbackOnly(t *testing.T) {
	reg := fallbackOnly()

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"integer stays decimal", 42, "42"},
		{"float stays decimal", 2.5, "2.5"},
		{"markup is escaped", "<b>", "&lt;b&gt;"},
		{"ampersand and quotes", `a & "b"`, "a &amp; &#34;b&#34;"},
		{"nil renders empty", nil, ""},
		{"bool is stringified", true, "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.Render(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry_SpecificBeforeFallback(t *testing.T) {
	b := NewBuilder()
	b.Register("money", InstanceOf[money](), Typed(func(m money) (string, error) {
		return fmt.Sprintf("<span class='money'>%d.%02d</span>", m.Cents/100, m.Cents%100), nil
	}))
	RegisterFallback(b)
	reg := b.Build()

	got, err := reg.Render(money{Cents: 1250})
	require.NoError(t, err)
	assert.Equal(t, "<span class='money'>12.50</span>", got)

	entry, err := reg.Resolve(money{})
	require.NoError(t, err)
	assert.Equal(t, "money", entry.Name)
	assert.Equal(t, 0, entry.Order)

	entry, err = reg.Resolve("<i>")
	require.NoError(t, err)
	assert.Equal(t, EntryEscape, entry.Name)
	assert.Equal(t, 1, entry.Order)
}

func TestRegistry_FirstMatchWinsRegardlessOfSpecificity(t *testing.T) {
	b := NewBuilder()
	RegisterFallback(b)
	b.Register("money", InstanceOf[money](), Typed(func(money) (string, error) { return "never", nil }))
	reg := b.Build()

	got, err := reg.Render(money{Cents: 1})
	require.NoError(t, err)
	assert.Equal(t, "{1}", got)
}

func TestRegistry_ResolveFallsBackToUnmatched(t *testing.T) {
	reg := fallbackOnly()

	entry, err := reg.Resolve(42)
	require.NoError(t, err)
	assert.Equal(t, EntryUnmatched, entry.Name)
	assert.Equal(t, -1, entry.Order)

	got, err := entry.Renderer.Render(42)
	require.NoError(t, err)
	assert.Equal(t, "42", got)
}

func TestRegistry_NoRenderer(t *testing.T) {
	reg := NewBuilder().Unmatched(nil).Build()

	_, err := reg.Resolve(42)
	require.Error(t, err)
	assert.True(t, IsNoRenderer(err))

	_, err = reg.Render(42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoRenderer))
	assert.True(t, IsNoRenderer(err))
	assert.False(t, IsRenderFailure(err))
	assert.Contains(t, err.Error(), "NO_RENDERER")
	assert.Contains(t, err.Error(), "int")
}

func TestRegistry_RendererFailure(t *testing.T) {
	cause := errors.New("boom")
	reg := NewBuilder().
		Register("broken", Always(), RendererFunc(func(any) (string, error) { return "", cause })).
		Build()

	_, err := reg.Render(money{})
	require.Error(t, err)
	assert.True(t, IsRenderFailure(err))
	assert.ErrorIs(t, err, cause)

	var re *Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "broken", re.Entry)
	assert.Equal(t, "render.money", re.ValueType)
}

func TestRegistry_TypedRejectsOtherTypes(t *testing.T) {
	reg := NewBuilder().
		Register("lying", Always(), Typed(func(m money) (string, error) { return "", nil })).
		Build()

	_, err := reg.Render("not money")
	require.Error(t, err)
	assert.True(t, IsRenderFailure(err))
	assert.Contains(t, err.Error(), "expected render.money, got string")
}

func TestBuilder_BuildIsASnapshot(t *testing.T) {
	b := NewBuilder()
	RegisterFallback(b)
	reg := b.Build()

	b.Register("late", Always(), Escape)
	assert.Len(t, reg.Entries(), 1)
	assert.Equal(t, 2, b.Len())

	entries := reg.Entries()
	entries[0].Name = "mutated"
	assert.Equal(t, EntryEscape, reg.Entries()[0].Name)
}

func TestBuilder_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewBuilder().Register("p", nil, Escape) })
	assert.Panics(t, func() { NewBuilder().Register("r", Always(), nil) })
}

func TestRegistry_ConcurrentRender(t *testing.T) {
	b := NewBuilder()
	b.Register("money", InstanceOf[money](), Typed(func(m money) (string, error) {
		return fmt.Sprint(m.Cents), nil
	}))
	RegisterFallback(b)
	reg := b.Build()

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var v any = money{Cents: i}
			want := fmt.Sprint(i)
			if i%2 == 0 {
				v, want = "<x>", "&lt;x&gt;"
			}
			got, err := reg.Render(v)
			if err != nil {
				errs <- err
				return
			}
			if got != want {
				errs <- fmt.Errorf("render(%v) = %q, want %q", v, got, want)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
