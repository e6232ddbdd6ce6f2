// Package capture holds the captured state of executed tests: results, test
// methods, scenarios, the values recorded while they ran, and the ordered
// message log used for sequence diagrams.
//
// Captured values are either one of the closed set of known kinds defined
// here (TableHeader, Source, Notes, LinkingNote, Content), all of which
// implement the sealed Value interface, or any other Go value. Renderers
// decide how each is presented.
//
// # Capture Files
//
// Test runs hand results over as YAML documents:
//
//	class: { package: example/orders, name: OrderTest }
//	notes: "Placing and paying for orders"
//	methods:
//	  - name: placesAnOrder
//	    status: passed
//	    scenarios:
//	      - name: placesAnOrder
//	        givens:
//	          - { name: Customer, text: alice }
//	        captured:
//	          - { name: Response, text: "<order id='1'/>" }
//	        participants:
//	          - { name: Client, kind: actor }
//	          - { name: Orders }
//	        messages:
//	          - { from: Client, to: Orders, label: place order }
//
// Files are validated against an embedded CUE schema before decoding, and
// decoding rejects unknown fields.
package capture
