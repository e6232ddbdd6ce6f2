package testutil

import (
	"github.com/roach88/specdoc/internal/capture"
)

// OrdersClass is the class of the OrdersResult fixture.
var OrdersClass = capture.TestClass{Package: "example/orders", Name: "PlacingOrdersTest"}

// AliceBob returns the smallest useful diagram: two participants and one
// message between them.
func AliceBob() ([]capture.Participant, []capture.Message) {
	return []capture.Participant{
			capture.NewParticipant("Alice"),
			capture.NewParticipant("Bob"),
		}, []capture.Message{
			capture.NewMessage("Alice", "Bob", "hello"),
		}
}

// OrderParticipants returns the participants of the order placement flow.
func OrderParticipants() []capture.Participant {
	return []capture.Participant{
		{Name: "Client", Kind: capture.KindActor},
		{Name: "Orders"},
		{Name: "Payments", Kind: capture.KindDatabase},
	}
}

// OrderMessages returns the messages of the order placement flow.
func OrderMessages() []capture.Message {
	return []capture.Message{
		capture.NewMessage("Client", "Orders", "place order"),
		capture.NewMessage("Orders", "Payments", "take payment"),
		capture.NewMessage("Payments", "Orders", "paid"),
		capture.NewMessage("Orders", "Client", "confirmed"),
	}
}

// OrdersResult returns a result with one diagrammed method, one table
// driven method with a failing row, and one method that never ran.
// Every call returns a fresh copy.
func OrdersResult() *capture.Result {
	return &capture.Result{
		Class: OrdersClass,
		Notes: "Customers place orders through the storefront.\nPayment is taken first.",
		Methods: []capture.TestMethod{
			{
				Name:   "placesAnOrder",
				Status: capture.Passed,
				Notes:  "The happy path.",
				Source: "    given(aCustomer(\"alice\"))\n    then(theOrderIsConfirmed())\n",
				Scenarios: []capture.Scenario{{
					Name:   "placesAnOrder",
					Status: capture.Passed,
					Givens: []capture.NamedValue{
						{Name: "Customer", Value: "alice"},
						{Name: "Stock level", Value: 3},
					},
					Captured: []capture.NamedValue{
						{Name: "Request from Client to Orders", Value: "<order item='widget'/>"},
						{Name: "See also", Value: capture.LinkingNote{
							Message: "Refunds are covered in %s.",
							Links:   []capture.TestClass{{Package: "example/refunds", Name: "RefundsTest"}},
						}},
					},
					Participants: OrderParticipants(),
					Messages:     OrderMessages(),
				}},
			},
			{
				Name:    "rejectsUnknownItems",
				Headers: []string{"customer", "item"},
				Scenarios: []capture.Scenario{
					{Name: "rejectsUnknownItems(alice, gizmo)", Status: capture.Passed, Row: []string{"alice", "gizmo"}},
					{Name: "rejectsUnknownItems(bob, doohickey)", Status: capture.Failed, Row: []string{"bob", "doohickey"}},
				},
			},
			{Name: "shipsOvernight"},
		},
	}
}
