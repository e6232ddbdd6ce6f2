package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/specdoc/internal/assets"
	"github.com/roach88/specdoc/internal/capture"
	"github.com/roach88/specdoc/internal/testutil"
)

func TestRenderIndex(t *testing.T) {
	refunds := IndexEntry{
		Class:  capture.TestClass{Package: "example/refunds", Name: "RefundsTest"},
		Title:  "Refunds <all>",
		Status: capture.Passed,
		Path:   "example/refunds/RefundsTest.html",
	}
	entries := []IndexEntry{refunds, NewIndexEntry(testutil.OrdersResult())}

	html, err := New(assets.Embedded()).RenderIndex(entries)
	require.NoError(t, err)

	orders := `<li class="test-failed"><a href="example/orders/PlacingOrdersTest.html">Placing orders</a> <span class="class-name">example.orders.PlacingOrdersTest</span></li>`
	refundsLine := `<li class="test-passed"><a href="example/refunds/RefundsTest.html">Refunds &lt;all&gt;</a>`
	assert.Contains(t, html, "<title>Test results</title>")
	assert.Contains(t, html, orders)
	assert.Contains(t, html, refundsLine)
	assert.Less(t, strings.Index(html, orders), strings.Index(html, refundsLine), "entries are ordered by path")

	assert.Equal(t, refunds, entries[0], "input order is left alone")
}

func TestRenderIndex_Empty(t *testing.T) {
	html, err := New(assets.Embedded()).RenderIndex(nil)
	require.NoError(t, err)
	assert.Contains(t, html, "<ul class=\"index\">\n</ul>")
}
