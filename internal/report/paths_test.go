package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/specdoc/internal/capture"
)

func TestPaths(t *testing.T) {
	class := capture.TestClass{Package: "example/orders", Name: "PlacingOrdersTest"}
	assert.Equal(t, "example/orders/PlacingOrdersTest.html", ResultPath(class))
	assert.Equal(t, "example/orders/PlacingOrdersTest.html#placesAnOrder", MethodPath(class, "placesAnOrder"))
	assert.Equal(t, "Bare.html", ResultPath(capture.TestClass{Name: "Bare"}))
}

func TestCSSClasses(t *testing.T) {
	assert.Equal(t, map[capture.Status]string{
		capture.Passed: "test-passed",
		capture.Failed: "test-failed",
		capture.NotRun: "test-not-run",
	}, CSSClasses())

	m := CSSClasses()
	m[capture.Passed] = "changed"
	assert.Equal(t, "test-passed", CSSClass(capture.Passed))
	assert.Equal(t, "test-not-run", CSSClass(capture.Status(42)))
}
