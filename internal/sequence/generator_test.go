package sequence

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/roach88/specdoc/internal/capture"
	"github.com/roach88/specdoc/internal/mocks"
	"github.com/roach88/specdoc/internal/testutil"
)

func TestGenerator_AliceBob(t *testing.T) {
	participants, messages := testutil.AliceBob()

	svg, err := NewGenerator(NewNativeCompiler()).Generate(context.Background(), participants, messages)
	require.NoError(t, err)

	assert.Equal(t, aliceBobMarkup, svg.Markup)
	assert.Contains(t, svg.XML, "Alice")
	assert.Contains(t, svg.XML, "Bob")
	assert.Contains(t, svg.XML, "hello")
	assert.Equal(t, svg.XML, svg.String())

	parsed, err := uuid.Parse(svg.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(5), parsed.Version())
}

func TestGenerator_Deterministic(t *testing.T) {
	g := NewGenerator(NewNativeCompiler())
	ctx := context.Background()

	first, err := g.Generate(ctx, testutil.OrderParticipants(), testutil.OrderMessages())
	require.NoError(t, err)
	second, err := g.Generate(ctx, testutil.OrderParticipants(), testutil.OrderMessages())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	participants, messages := testutil.AliceBob()
	other, err := g.Generate(ctx, participants, messages)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestGenerator_OutputIsCanonical(t *testing.T) {
	svg, err := NewGenerator(NewNativeCompiler(), WithIndent(4)).
		Generate(context.Background(), testutil.OrderParticipants(), testutil.OrderMessages())
	require.NoError(t, err)

	again, err := Canonicalizer{Indent: 4}.Canonicalize([]byte(svg.XML))
	require.NoError(t, err)
	assert.Equal(t, svg.XML, again)
	assert.Contains(t, svg.XML, "\n    <defs>")
}

func TestGenerator_CompilationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	compiler := mocks.NewMockCompiler(ctrl)
	cause := errors.New("server down")
	compiler.EXPECT().Compile(gomock.Any(), aliceBobMarkup).Return(nil, cause).Times(1)

	participants, messages := testutil.AliceBob()
	_, err := NewGenerator(compiler).Generate(context.Background(), participants, messages)
	require.Error(t, err)
	assert.True(t, IsCompilationError(err))
	assert.False(t, IsCanonicalizationError(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "DIAGRAM_COMPILATION")
}

func TestGenerator_CanonicalizationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	compiler := mocks.NewMockCompiler(ctrl)
	compiler.EXPECT().Compile(gomock.Any(), gomock.Any()).Return([]byte("<svg><unclosed></svg>"), nil)

	participants, messages := testutil.AliceBob()
	_, err := NewGenerator(compiler).Generate(context.Background(), participants, messages)
	require.Error(t, err)
	assert.True(t, IsCanonicalizationError(err))
	assert.Contains(t, err.Error(), "XML_CANONICALIZATION")
}

func TestGenerator_ValidationFailsBeforeCompiling(t *testing.T) {
	ctrl := gomock.NewController(t)
	compiler := mocks.NewMockCompiler(ctrl) // no calls expected

	_, err := NewGenerator(compiler).Generate(context.Background(),
		[]capture.Participant{capture.NewParticipant("Alice")},
		[]capture.Message{capture.NewMessage("Alice", "Bob", "hello")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDiagram)
	assert.False(t, IsCompilationError(err))
}

func TestGenerator_PassesContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	compiler := mocks.NewMockCompiler(ctrl)

	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "run-1")
	compiler.EXPECT().Compile(gomock.Any(), gomock.Any()).DoAndReturn(
		func(got context.Context, _ string) ([]byte, error) {
			assert.Equal(t, "run-1", got.Value(key{}))
			return []byte("<svg/>"), nil
		})

	participants, messages := testutil.AliceBob()
	svg, err := NewGenerator(compiler).Generate(ctx, participants, messages)
	require.NoError(t, err)
	assert.Equal(t, "<svg/>\n", svg.XML)
}
