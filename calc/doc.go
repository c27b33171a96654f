// Package calc implements the calculator core: an expression buffer driven by keypad actions,
// evaluated with conventional operator precedence, with a short history of results.
//
// The package has no UI. Front ends send Actions to a Machine (or a Session when several
// goroutines share one calculator) and render the returned State.
package calc
