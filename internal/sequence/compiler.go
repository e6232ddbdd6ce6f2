//go:generate go run go.uber.org/mock/mockgen -source=compiler.go -destination=../mocks/mock_compiler.go -package=mocks
package sequence

import "context"

// Compiler turns sequence markup into an SVG document.
type Compiler interface {
	// Compile returns the SVG for markup. Implementations should honour
	// ctx cancellation when they block.
	Compile(ctx context.Context, markup string) ([]byte, error)
}
