// Package sequence turns an ordered message log into a sequence diagram.
//
// The pipeline has three stages:
//
//  1. GenerateMarkup validates participants and messages and emits
//     PlantUML sequence markup, one declaration per participant and one
//     arrow per message, in input order.
//  2. A Compiler turns markup into SVG. NativeCompiler lays the diagram
//     out in process; PlantUMLClient delegates to a PlantUML server.
//  3. Canonicalize re-indents the SVG so identical diagrams are byte
//     identical and diff cleanly between runs.
//
// Generator runs all three and returns an SVG value ready to embed in a
// report.
package sequence
