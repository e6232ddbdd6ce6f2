package sequence

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize_Indents(t *testing.T) {
	got, err := Canonicalize([]byte(`<?xml version="1.0"?><svg><g><text>hi</text></g></svg>`))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "<?xml version=\"1.0\"?>\n<svg>\n"), got)
	assert.Contains(t, got, "\n  <g>\n    <text>hi</text>\n  </g>\n</svg>")
}

func TestCanonicalize_IndentWidth(t *testing.T) {
	got, err := Canonicalizer{Indent: 4}.Canonicalize([]byte(`<svg><g/></svg>`))
	require.NoError(t, err)
	assert.Contains(t, got, "\n    <g/>\n")
}

func TestCanonicalize_Idempotent(t *testing.T) {
	inputs := map[string][]byte{
		"compact":  []byte(`<svg a="1"><g><rect/><text>x &amp; y</text></g></svg>`),
		"sprawled": []byte("<svg>\n\n\t<g>   <rect/>\n</g>\n   </svg>\n"),
		"mixed":    []byte(`<svg><text x="1">a<tspan>b</tspan>c</text></svg>`),
		"nested":   []byte(`<svg><g><text><tspan>a</tspan><tspan>b</tspan></text><g>x<rect/></g></g></svg>`),
		"comments": []byte(`<?xml version="1.0"?><!-- head --><svg><!-- inner --><g/></svg>`),
	}

	raw, err := NewNativeCompiler().Compile(context.Background(), aliceBobMarkup)
	require.NoError(t, err)
	inputs["native"] = raw

	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			once, err := Canonicalize(in)
			require.NoError(t, err)
			twice, err := Canonicalize([]byte(once))
			require.NoError(t, err)
			assert.Equal(t, once, twice)
		})
	}
}

func TestCanonicalize_PreservesTextContent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "mixed content",
			in:   `<svg><text x="1">a<tspan>b</tspan>c</text></svg>`,
			want: "<svg>\n  <text x=\"1\">a<tspan>b</tspan>c</text>\n</svg>\n",
		},
		{
			name: "text element children",
			in:   `<svg><text><tspan>a</tspan><tspan>b</tspan></text></svg>`,
			want: "<svg>\n  <text><tspan>a</tspan><tspan>b</tspan></text>\n</svg>\n",
		},
		{
			name: "whitespace leaf",
			in:   "<svg><g> </g></svg>",
			want: "<svg>\n  <g> </g>\n</svg>\n",
		},
		{
			name: "non-breaking space is text",
			in:   "<svg><g>\u00a0<rect/></g></svg>",
			want: "<svg>\n  <g>\u00a0<rect/></g>\n</svg>\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonicalize([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalize_SameDocumentDifferentWhitespace(t *testing.T) {
	a, err := Canonicalize([]byte(`<svg><g><rect/></g></svg>`))
	require.NoError(t, err)
	b, err := Canonicalize([]byte("<svg>\n      <g>\n<rect/></g></svg>"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCanonicalize_Errors(t *testing.T) {
	for name, in := range map[string]string{
		"malformed": "<svg><g></svg>",
		"empty":     "",
		"text only": "not xml at all",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Canonicalize([]byte(in))
			require.Error(t, err)
			assert.True(t, IsCanonicalizationError(err))
			assert.False(t, IsCompilationError(err))
		})
	}
}
