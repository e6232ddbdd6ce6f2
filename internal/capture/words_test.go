package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordify(t *testing.T) {
	tests := map[string]string{
		"placesAnOrder":        "Places an order",
		"PlacingOrders":        "Placing orders",
		"sendsHTTPRequest":     "Sends HTTP request",
		"retries3Times":        "Retries 3 times",
		"snake_case_name":      "Snake case name",
		"firstName":            "First name",
		"":                     "",
		"already spaced words": "Already spaced words",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, Wordify(in))
		})
	}
}

func TestSplitWords(t *testing.T) {
	assert.Equal(t, []string{"HTTP", "Client"}, SplitWords("HTTPClient"))
	assert.Equal(t, []string{"order", "Id"}, SplitWords("order-Id"))
	assert.Nil(t, SplitWords("__"))
}
