// Package report assembles HTML documents from captured test results.
//
// A Renderer is configured once with the asset source and any custom
// renderers, scripts and header content, then renders any number of
// results. Every render builds its own render.Registry in this order:
//
//  1. built-in entries for the known captured value kinds
//  2. custom entries, in the order they were configured
//  3. the sequence diagram entry, when diagrams are enabled
//  4. the escaping fallback
//
// so the fallback never shadows a specific renderer.
package report
