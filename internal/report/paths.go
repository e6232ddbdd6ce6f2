package report

import (
	"maps"

	"github.com/roach88/specdoc/internal/capture"
)

// ResultPath returns where the report for class lives relative to the
// output root, e.g. "example/orders/OrderTest.html".
func ResultPath(class capture.TestClass) string {
	return class.ReportFile()
}

// MethodPath returns a link to one method's section of the class report.
func MethodPath(class capture.TestClass, method string) string {
	return ResultPath(class) + "#" + method
}

var cssClasses = map[capture.Status]string{
	capture.Passed: "test-passed",
	capture.Failed: "test-failed",
	capture.NotRun: "test-not-run",
}

// CSSClasses returns the CSS class used for each status.
func CSSClasses() map[capture.Status]string {
	return maps.Clone(cssClasses)
}

// CSSClass returns the CSS class for a status.
func CSSClass(s capture.Status) string {
	if c, ok := cssClasses[s]; ok {
		return c
	}
	return cssClasses[capture.NotRun]
}
